// Copyright (c) 2026 Libraryms Team
// Libraryms - library management record keeper
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"

	"github.com/shivamvadalia/libraryms/internal/model"
)

// Store defines the repository operations available within a session.
// Edit, delete and checkout return ErrNotFound when a referenced identifier
// has no row.
type Store interface {
	// Book methods
	AddBook(ctx context.Context, title, author string) (*model.Book, error)
	EditBook(ctx context.Context, id int, title, author string) (*model.Book, error)
	DeleteBook(ctx context.Context, id int) error
	GetAllBooks(ctx context.Context) ([]model.Book, error)

	// User methods
	AddUser(ctx context.Context, username string) (*model.User, error)
	EditUser(ctx context.Context, id int, username string) (*model.User, error)
	DeleteUser(ctx context.Context, id int) error
	GetAllUsers(ctx context.Context) ([]model.User, error)

	// Checkout methods
	CheckoutBook(ctx context.Context, userID, bookID int, checkoutDate string) (*model.BookTransaction, error)
	GetCheckedOut(ctx context.Context) ([]model.CheckoutRecord, error)
	GetTransactionsForUser(ctx context.Context, userID int) ([]model.BookTransaction, error)
}
