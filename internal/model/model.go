// Copyright (c) 2026 Libraryms Team
// Libraryms - library management record keeper
// This source code is licensed under the MIT license found in the LICENSE file.

// package model defines the core data structures used throughout Libraryms.
// These structs represent the entities stored in the database and are
// serialized as-is by the HTTP layer.
package model // import "github.com/shivamvadalia/libraryms/internal/model"

import "fmt"

// Book represents a title held by the library.
type Book struct {
	ID     int    `json:"id"`     // The primary key for the book.
	Title  string `json:"title"`  // The book title.
	Author string `json:"author"` // The book author.
}

// String returns the "title by author" representation.
func (b Book) String() string {
	return fmt.Sprintf("%s by %s", b.Title, b.Author)
}

// User represents a library member who can check out books.
// The user's transactions are not embedded; they are loaded on demand via
// the transactions-by-user query.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// BookTransaction records a single checkout of a Book by a User.
// Transactions are append-only.
type BookTransaction struct {
	ID           int    `json:"id"`
	BookID       int    `json:"book_id"`
	UserID       int    `json:"user_id"`
	CheckoutDate string `json:"checkout_date"` // Caller-supplied, not validated.
}

// CheckoutRecord is the public projection of a BookTransaction used by the
// checked-out listing. It deliberately omits the transaction's own ID.
type CheckoutRecord struct {
	UserID       int    `json:"user_id"`
	BookID       int    `json:"book_id"`
	CheckoutDate string `json:"checkout_date"`
}

// Record projects the transaction onto its public checkout record.
func (t BookTransaction) Record() CheckoutRecord {
	return CheckoutRecord{UserID: t.UserID, BookID: t.BookID, CheckoutDate: t.CheckoutDate}
}

// BackupData is a container for all data to be exported or imported.
type BackupData struct {
	SchemaVersion int               `json:"schema_version"`
	Books         []Book            `json:"books"`
	Users         []User            `json:"users"`
	Transactions  []BookTransaction `json:"book_transactions"`
}
