// Copyright (c) 2026 Libraryms Team
// Libraryms - library management record keeper
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"errors"
	"testing"

	"github.com/shivamvadalia/libraryms/internal/model"
)

func TestNew_UnsupportedType(t *testing.T) {
	if _, err := New("oracle", "dsn"); err == nil {
		t.Fatalf("expected error for unsupported database type")
	}
}

func TestSession_CreatesSchema(t *testing.T) {
	d := newTestDB(t)
	inSession(t, d, func(ctx context.Context, s *Session) {})

	ctx := context.Background()
	for _, table := range []string{"books", "users", "book_transactions"} {
		var n int
		if err := QueryRawInto(ctx, d.bun, &n, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table); err != nil {
			t.Fatalf("failed to inspect sqlite_master: %v", err)
		}
		if n != 1 {
			t.Fatalf("expected table %s to exist after first session", table)
		}
	}

	// Running again must be harmless.
	inSession(t, d, func(ctx context.Context, s *Session) {})
}

func TestScenario_DuneCheckout(t *testing.T) {
	d := newTestDB(t)
	inSession(t, d, func(ctx context.Context, s *Session) {
		b, err := s.AddBook(ctx, "Dune", "Herbert")
		if err != nil {
			t.Fatalf("AddBook failed: %v", err)
		}
		if b.ID != 1 {
			t.Fatalf("expected first book id 1, got %d", b.ID)
		}
		u, err := s.AddUser(ctx, "alice")
		if err != nil {
			t.Fatalf("AddUser failed: %v", err)
		}
		if u.ID != 1 {
			t.Fatalf("expected first user id 1, got %d", u.ID)
		}
		tx, err := s.CheckoutBook(ctx, 1, 1, "2024-01-01")
		if err != nil {
			t.Fatalf("CheckoutBook failed: %v", err)
		}
		if tx.UserID != 1 || tx.BookID != 1 || tx.CheckoutDate != "2024-01-01" || tx.ID == 0 {
			t.Fatalf("unexpected transaction: %+v", tx)
		}
	})

	inSession(t, d, func(ctx context.Context, s *Session) {
		got, err := s.GetCheckedOut(ctx)
		if err != nil {
			t.Fatalf("GetCheckedOut failed: %v", err)
		}
		want := []model.CheckoutRecord{{UserID: 1, BookID: 1, CheckoutDate: "2024-01-01"}}
		if len(got) != 1 || got[0] != want[0] {
			t.Fatalf("unexpected checked out list: %+v", got)
		}
	})
}

func TestBooks_AddListEditDelete(t *testing.T) {
	d := newTestDB(t)
	inSession(t, d, func(ctx context.Context, s *Session) {
		b1, err := s.AddBook(ctx, "Dune", "Herbert")
		if err != nil {
			t.Fatalf("AddBook failed: %v", err)
		}
		// Duplicates are allowed and get a fresh id.
		b2, err := s.AddBook(ctx, "Dune", "Herbert")
		if err != nil {
			t.Fatalf("AddBook duplicate failed: %v", err)
		}
		if b1.ID == b2.ID {
			t.Fatalf("expected distinct ids, both were %d", b1.ID)
		}

		all, err := s.GetAllBooks(ctx)
		if err != nil {
			t.Fatalf("GetAllBooks failed: %v", err)
		}
		if len(all) != 2 || all[0] != *b1 || all[1] != *b2 {
			t.Fatalf("unexpected books: %+v", all)
		}

		edited, err := s.EditBook(ctx, b1.ID, "Emma", "")
		if err != nil {
			t.Fatalf("EditBook failed: %v", err)
		}
		if edited.Title != "Emma" || edited.Author != "" || edited.ID != b1.ID {
			t.Fatalf("edit must overwrite both fields, got %+v", edited)
		}
		got, err := GetBookByIDBun(ctx, s.tx, b1.ID)
		if err != nil {
			t.Fatalf("GetBookByIDBun failed: %v", err)
		}
		if *got != *edited {
			t.Fatalf("edit did not persist: %+v", got)
		}

		if err := s.DeleteBook(ctx, b2.ID); err != nil {
			t.Fatalf("DeleteBook failed: %v", err)
		}
		all, err = s.GetAllBooks(ctx)
		if err != nil {
			t.Fatalf("GetAllBooks failed: %v", err)
		}
		if len(all) != 1 || all[0].ID != b1.ID {
			t.Fatalf("unexpected books after delete: %+v", all)
		}
	})
}

func TestBooks_NotFound(t *testing.T) {
	d := newTestDB(t)
	inSession(t, d, func(ctx context.Context, s *Session) {
		if _, err := s.AddBook(ctx, "Dune", "Herbert"); err != nil {
			t.Fatalf("AddBook failed: %v", err)
		}
		if _, err := s.EditBook(ctx, 999, "X", "Y"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound editing missing book, got %v", err)
		}
		if err := s.DeleteBook(ctx, 999); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound deleting missing book, got %v", err)
		}
		if _, err := GetBookByIDBun(ctx, s.tx, 999); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected no book 999, got %v", err)
		}
		all, err := s.GetAllBooks(ctx)
		if err != nil {
			t.Fatalf("GetAllBooks failed: %v", err)
		}
		if len(all) != 1 || all[0].Title != "Dune" || all[0].Author != "Herbert" {
			t.Fatalf("storage changed after failed operations: %+v", all)
		}
	})
}

func TestUsers_AddListEditDelete(t *testing.T) {
	d := newTestDB(t)
	inSession(t, d, func(ctx context.Context, s *Session) {
		u, err := s.AddUser(ctx, "alice")
		if err != nil {
			t.Fatalf("AddUser failed: %v", err)
		}
		if _, err := s.AddUser(ctx, ""); err != nil {
			t.Fatalf("empty username should be accepted: %v", err)
		}
		edited, err := s.EditUser(ctx, u.ID, "alicia")
		if err != nil {
			t.Fatalf("EditUser failed: %v", err)
		}
		if edited.Username != "alicia" {
			t.Fatalf("unexpected user after edit: %+v", edited)
		}
		if _, err := s.EditUser(ctx, -1, "nobody"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound editing missing user, got %v", err)
		}
		if err := s.DeleteUser(ctx, 12345); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound deleting missing user, got %v", err)
		}
		if err := s.DeleteUser(ctx, u.ID); err != nil {
			t.Fatalf("DeleteUser failed: %v", err)
		}
		all, err := s.GetAllUsers(ctx)
		if err != nil {
			t.Fatalf("GetAllUsers failed: %v", err)
		}
		if len(all) != 1 || all[0].Username != "" {
			t.Fatalf("unexpected users: %+v", all)
		}
	})
}

func TestCheckout_MissingUserOrBook(t *testing.T) {
	d := newTestDB(t)
	inSession(t, d, func(ctx context.Context, s *Session) {
		b, _ := s.AddBook(ctx, "Dune", "Herbert")
		u, _ := s.AddUser(ctx, "alice")

		cases := []struct {
			name           string
			userID, bookID int
		}{
			{"missing user", u.ID + 100, b.ID},
			{"missing book", u.ID, b.ID + 100},
			{"missing both", -1, -1},
		}
		for _, c := range cases {
			if _, err := s.CheckoutBook(ctx, c.userID, c.bookID, "2024-01-01"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("%s: expected ErrNotFound, got %v", c.name, err)
			}
		}
		got, err := s.GetCheckedOut(ctx)
		if err != nil {
			t.Fatalf("GetCheckedOut failed: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("expected no transactions after failed checkouts, got %+v", got)
		}

		if _, err := s.CheckoutBook(ctx, u.ID, b.ID, "not a date"); err != nil {
			t.Fatalf("CheckoutBook failed: %v", err)
		}
		got, _ = s.GetCheckedOut(ctx)
		if len(got) != 1 {
			t.Fatalf("expected exactly one transaction, got %d", len(got))
		}
	})
}

func TestDelete_DoesNotCascadeToTransactions(t *testing.T) {
	d := newTestDB(t)
	inSession(t, d, func(ctx context.Context, s *Session) {
		b, _ := s.AddBook(ctx, "Dune", "Herbert")
		u, _ := s.AddUser(ctx, "alice")
		if _, err := s.CheckoutBook(ctx, u.ID, b.ID, "2024-01-01"); err != nil {
			t.Fatalf("CheckoutBook failed: %v", err)
		}
		if err := s.DeleteBook(ctx, b.ID); err != nil {
			t.Fatalf("DeleteBook with transactions should succeed: %v", err)
		}
		if err := s.DeleteUser(ctx, u.ID); err != nil {
			t.Fatalf("DeleteUser with transactions should succeed: %v", err)
		}
		got, err := s.GetCheckedOut(ctx)
		if err != nil {
			t.Fatalf("GetCheckedOut failed: %v", err)
		}
		if len(got) != 1 || got[0].BookID != b.ID || got[0].UserID != u.ID {
			t.Fatalf("dangling transaction should remain, got %+v", got)
		}
	})
}

func TestGetTransactionsForUser(t *testing.T) {
	d := newTestDB(t)
	inSession(t, d, func(ctx context.Context, s *Session) {
		b, _ := s.AddBook(ctx, "Dune", "Herbert")
		alice, _ := s.AddUser(ctx, "alice")
		bob, _ := s.AddUser(ctx, "bob")
		_, _ = s.CheckoutBook(ctx, alice.ID, b.ID, "2024-01-01")
		_, _ = s.CheckoutBook(ctx, bob.ID, b.ID, "2024-01-02")
		_, _ = s.CheckoutBook(ctx, alice.ID, b.ID, "2024-01-03")

		txs, err := s.GetTransactionsForUser(ctx, alice.ID)
		if err != nil {
			t.Fatalf("GetTransactionsForUser failed: %v", err)
		}
		if len(txs) != 2 || txs[0].CheckoutDate != "2024-01-01" || txs[1].CheckoutDate != "2024-01-03" {
			t.Fatalf("unexpected transactions for alice: %+v", txs)
		}
		if _, err := s.GetTransactionsForUser(ctx, 999); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound for missing user, got %v", err)
		}
	})
}

func TestWithSession_CommitsOnError(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()
	boom := errors.New("handler failed")

	err := d.WithSession(ctx, func(s *Session) error {
		if _, err := s.AddBook(ctx, "Dune", "Herbert"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected handler error to propagate, got %v", err)
	}

	// The pool has a single connection; a leaked session would block here.
	err = d.WithSession(ctx, func(s *Session) error {
		all, err := s.GetAllBooks(ctx)
		if err != nil {
			return err
		}
		if len(all) != 1 {
			t.Fatalf("expected committed book to be visible, got %+v", all)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithSession failed: %v", err)
	}
}
