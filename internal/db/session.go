// Copyright (c) 2026 Libraryms Team
// Libraryms - library management record keeper
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/shivamvadalia/libraryms/internal/model"
	"github.com/shivamvadalia/libraryms/util/slicest"
	"github.com/uptrace/bun"
)

// Session is a request-scoped unit of work. It owns one database
// transaction for its lifetime and must be closed exactly once; Close
// commits and always releases the underlying connection.
type Session struct {
	tx     bun.Tx
	dbType string
	closed bool
}

// *Session implements Store
var _ Store = (*Session)(nil)

// Session makes sure the schema exists and then acquires a fresh session.
// The schema statements run on their own, outside the session transaction,
// so no DDL lock is held while the session works.
func (d *DB) Session(ctx context.Context) (*Session, error) {
	if err := EnsureSchema(ctx, d.bun, d.dbType); err != nil {
		return nil, err
	}
	tx, err := d.bun.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin session: %w", err)
	}
	return &Session{tx: tx, dbType: d.dbType}, nil
}

// WithSession runs fn inside a fresh session. The session is committed and
// released whether fn succeeds or fails. A commit error is joined to fn's
// error.
func (d *DB) WithSession(ctx context.Context, fn func(s *Session) error) (err error) {
	s, err := d.Session(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()
	return fn(s)
}

// WithStore is WithSession for callers that only need the Store view.
func (d *DB) WithStore(ctx context.Context, fn func(Store) error) error {
	return d.WithSession(ctx, func(s *Session) error { return fn(s) })
}

// Close commits pending changes and releases the connection. A failed
// commit is returned; the connection is released regardless. Closing an
// already closed session is a no-op.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.tx.Commit(); err != nil {
		_ = s.tx.Rollback()
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

// AddBook adds a new book.
func (s *Session) AddBook(ctx context.Context, title, author string) (*model.Book, error) {
	b, err := AddBookBun(ctx, s.tx, title, author)
	if err == nil {
		dbLogf("added book %d: %s", b.ID, b)
	}
	return b, err
}

// EditBook overwrites title and author of an existing book.
func (s *Session) EditBook(ctx context.Context, id int, title, author string) (*model.Book, error) {
	return UpdateBookBun(ctx, s.tx, id, title, author)
}

// DeleteBook removes a book by its ID.
func (s *Session) DeleteBook(ctx context.Context, id int) error {
	return DeleteBookBun(ctx, s.tx, id)
}

// GetAllBooks retrieves all books.
func (s *Session) GetAllBooks(ctx context.Context) ([]model.Book, error) {
	return GetAllBooksBun(ctx, s.tx)
}

// AddUser adds a new user.
func (s *Session) AddUser(ctx context.Context, username string) (*model.User, error) {
	u, err := AddUserBun(ctx, s.tx, username)
	if err == nil {
		dbLogf("added user %d: %s", u.ID, u.Username)
	}
	return u, err
}

// EditUser overwrites the username of an existing user.
func (s *Session) EditUser(ctx context.Context, id int, username string) (*model.User, error) {
	return UpdateUserBun(ctx, s.tx, id, username)
}

// DeleteUser removes a user by its ID.
func (s *Session) DeleteUser(ctx context.Context, id int) error {
	return DeleteUserBun(ctx, s.tx, id)
}

// GetAllUsers retrieves all users.
func (s *Session) GetAllUsers(ctx context.Context) ([]model.User, error) {
	return GetAllUsersBun(ctx, s.tx)
}

// CheckoutBook records a checkout of bookID by userID. Both rows are looked
// up first; if either is missing a single ErrNotFound is returned and
// nothing is written.
func (s *Session) CheckoutBook(ctx context.Context, userID, bookID int, checkoutDate string) (*model.BookTransaction, error) {
	_, uerr := GetUserByIDBun(ctx, s.tx, userID)
	_, berr := GetBookByIDBun(ctx, s.tx, bookID)
	for _, err := range []error{uerr, berr} {
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	if uerr != nil || berr != nil {
		return nil, ErrNotFound
	}
	t, err := AddBookTransactionBun(ctx, s.tx, userID, bookID, checkoutDate)
	if err == nil {
		dbLogf("checkout %d: user %d book %d on %q", t.ID, userID, bookID, checkoutDate)
	}
	return t, err
}

// GetCheckedOut lists all checkouts projected to user, book and date.
func (s *Session) GetCheckedOut(ctx context.Context) ([]model.CheckoutRecord, error) {
	txs, err := GetAllBookTransactionsBun(ctx, s.tx)
	if err != nil {
		return nil, err
	}
	return slicest.Map(txs, model.BookTransaction.Record), nil
}

// GetTransactionsForUser lists the transactions of an existing user.
func (s *Session) GetTransactionsForUser(ctx context.Context, userID int) ([]model.BookTransaction, error) {
	if _, err := GetUserByIDBun(ctx, s.tx, userID); err != nil {
		return nil, err
	}
	return GetBookTransactionsForUserBun(ctx, s.tx, userID)
}
