// Copyright (c) 2026 Libraryms Team
// Libraryms - library management record keeper
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"fmt"

	"github.com/shivamvadalia/libraryms/internal/model"
	"github.com/shivamvadalia/libraryms/util/slicest"
	"github.com/uptrace/bun"
)

// BookModel maps the `books` table for Bun queries.
type BookModel struct {
	bun.BaseModel `bun:"table:books"`
	ID            int    `bun:"id,pk,autoincrement"`
	Title         string `bun:"title"`
	Author        string `bun:"author"`
}

// UserModel maps the `users` table.
type UserModel struct {
	bun.BaseModel `bun:"table:users"`
	ID            int    `bun:"id,pk,autoincrement"`
	Username      string `bun:"username"`
}

// BookTransactionModel maps the `book_transactions` table. book_id and
// user_id are plain columns, not constraints.
type BookTransactionModel struct {
	bun.BaseModel `bun:"table:book_transactions"`
	ID            int    `bun:"id,pk,autoincrement"`
	BookID        int    `bun:"book_id"`
	UserID        int    `bun:"user_id"`
	CheckoutDate  string `bun:"checkout_date"`
}

// --- Mapping helpers (centralized conversions) ---
func bookModelToModel(b BookModel) model.Book {
	return model.Book{ID: b.ID, Title: b.Title, Author: b.Author}
}

func userModelToModel(u UserModel) model.User {
	return model.User{ID: u.ID, Username: u.Username}
}

func bookTransactionModelToModel(t BookTransactionModel) model.BookTransaction {
	return model.BookTransaction{ID: t.ID, BookID: t.BookID, UserID: t.UserID, CheckoutDate: t.CheckoutDate}
}

// --- Books ---

// AddBookBun inserts a new book and returns it with its generated ID.
// Duplicate titles/authors are permitted.
func AddBookBun(ctx context.Context, idb bun.IDB, title, author string) (*model.Book, error) {
	bm := &BookModel{Title: title, Author: author}
	if _, err := idb.NewInsert().Model(bm).Column("title", "author").Returning("id").Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to insert book: %w", MapDBError(err))
	}
	b := bookModelToModel(*bm)
	return &b, nil
}

// GetBookByIDBun returns the book with the given ID or ErrNotFound.
func GetBookByIDBun(ctx context.Context, idb bun.IDB, id int) (*model.Book, error) {
	var bm BookModel
	if err := idb.NewSelect().Model(&bm).Where("id = ?", id).Limit(1).Scan(ctx); err != nil {
		return nil, MapDBError(err)
	}
	b := bookModelToModel(bm)
	return &b, nil
}

// UpdateBookBun overwrites both title and author of an existing book.
// There is no partial update: both fields are always written.
func UpdateBookBun(ctx context.Context, idb bun.IDB, id int, title, author string) (*model.Book, error) {
	if _, err := GetBookByIDBun(ctx, idb, id); err != nil {
		return nil, err
	}
	bm := &BookModel{ID: id, Title: title, Author: author}
	if _, err := idb.NewUpdate().Model(bm).Column("title", "author").WherePK().Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to update book %d: %w", id, MapDBError(err))
	}
	b := bookModelToModel(*bm)
	return &b, nil
}

// DeleteBookBun removes a book by id. Transactions referencing the book are
// left untouched.
func DeleteBookBun(ctx context.Context, idb bun.IDB, id int) error {
	res, err := idb.NewDelete().Model((*BookModel)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete book %d: %w", id, MapDBError(err))
	}
	return requireAffected(res)
}

// GetAllBooksBun returns all books in insertion order.
func GetAllBooksBun(ctx context.Context, idb bun.IDB) ([]model.Book, error) {
	var bm []BookModel
	if err := idb.NewSelect().Model(&bm).OrderExpr("id").Scan(ctx); err != nil {
		return nil, err
	}
	return slicest.Map(bm, bookModelToModel), nil
}

// --- Users ---

// AddUserBun inserts a new user and returns it with its generated ID.
func AddUserBun(ctx context.Context, idb bun.IDB, username string) (*model.User, error) {
	um := &UserModel{Username: username}
	if _, err := idb.NewInsert().Model(um).Column("username").Returning("id").Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", MapDBError(err))
	}
	u := userModelToModel(*um)
	return &u, nil
}

// GetUserByIDBun returns the user with the given ID or ErrNotFound.
func GetUserByIDBun(ctx context.Context, idb bun.IDB, id int) (*model.User, error) {
	var um UserModel
	if err := idb.NewSelect().Model(&um).Where("id = ?", id).Limit(1).Scan(ctx); err != nil {
		return nil, MapDBError(err)
	}
	u := userModelToModel(um)
	return &u, nil
}

// UpdateUserBun overwrites the username of an existing user.
func UpdateUserBun(ctx context.Context, idb bun.IDB, id int, username string) (*model.User, error) {
	if _, err := GetUserByIDBun(ctx, idb, id); err != nil {
		return nil, err
	}
	um := &UserModel{ID: id, Username: username}
	if _, err := idb.NewUpdate().Model(um).Column("username").WherePK().Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to update user %d: %w", id, MapDBError(err))
	}
	u := userModelToModel(*um)
	return &u, nil
}

// DeleteUserBun removes a user by id without touching their transactions.
func DeleteUserBun(ctx context.Context, idb bun.IDB, id int) error {
	res, err := idb.NewDelete().Model((*UserModel)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, MapDBError(err))
	}
	return requireAffected(res)
}

// GetAllUsersBun returns all users in insertion order.
func GetAllUsersBun(ctx context.Context, idb bun.IDB) ([]model.User, error) {
	var um []UserModel
	if err := idb.NewSelect().Model(&um).OrderExpr("id").Scan(ctx); err != nil {
		return nil, err
	}
	return slicest.Map(um, userModelToModel), nil
}

// --- Book transactions ---

// AddBookTransactionBun inserts a checkout row. Callers are responsible for
// checking that the user and book exist.
func AddBookTransactionBun(ctx context.Context, idb bun.IDB, userID, bookID int, checkoutDate string) (*model.BookTransaction, error) {
	tm := &BookTransactionModel{BookID: bookID, UserID: userID, CheckoutDate: checkoutDate}
	if _, err := idb.NewInsert().Model(tm).Column("book_id", "user_id", "checkout_date").Returning("id").Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to insert book transaction: %w", MapDBError(err))
	}
	t := bookTransactionModelToModel(*tm)
	return &t, nil
}

// GetAllBookTransactionsBun returns every transaction in insertion order.
func GetAllBookTransactionsBun(ctx context.Context, idb bun.IDB) ([]model.BookTransaction, error) {
	var tm []BookTransactionModel
	if err := idb.NewSelect().Model(&tm).OrderExpr("id").Scan(ctx); err != nil {
		return nil, err
	}
	return bookTransactionsToModels(tm), nil
}

// GetBookTransactionsForUserBun returns the transactions of one user.
func GetBookTransactionsForUserBun(ctx context.Context, idb bun.IDB, userID int) ([]model.BookTransaction, error) {
	var tm []BookTransactionModel
	if err := idb.NewSelect().Model(&tm).Where("user_id = ?", userID).OrderExpr("id").Scan(ctx); err != nil {
		return nil, err
	}
	return bookTransactionsToModels(tm), nil
}

func bookTransactionsToModels(tm []BookTransactionModel) []model.BookTransaction {
	return slicest.Map(tm, bookTransactionModelToModel)
}
