// Copyright (c) 2026 Libraryms Team
// Libraryms - library management record keeper
// This source code is licensed under the MIT license found in the LICENSE file.

package api

import (
	"context"
	"net/http"

	"github.com/shivamvadalia/libraryms/internal/db"
	"github.com/shivamvadalia/libraryms/internal/i18n"
	"github.com/shivamvadalia/libraryms/internal/model"
)

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"Welcome to": i18n.T("welcome_target")})
}

// =============================================================================
// Books
// =============================================================================

func (s *Server) handleAddBook(w http.ResponseWriter, r *http.Request) {
	p, ok := params(w, r, "title", "author")
	if !ok {
		return
	}
	var book *model.Book
	err := s.withStore(r, func(ctx context.Context, st db.Store) (err error) {
		book, err = st.AddBook(ctx, p[0], p[1])
		return err
	})
	if err != nil {
		writeError(w, r, err, "book_not_found")
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (s *Server) handleEditBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "book_id")
	if !ok {
		return
	}
	p, ok := params(w, r, "title", "author")
	if !ok {
		return
	}
	var book *model.Book
	err := s.withStore(r, func(ctx context.Context, st db.Store) (err error) {
		book, err = st.EditBook(ctx, id, p[0], p[1])
		return err
	})
	if err != nil {
		writeError(w, r, err, "book_not_found")
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "book_id")
	if !ok {
		return
	}
	err := s.withStore(r, func(ctx context.Context, st db.Store) error {
		return st.DeleteBook(ctx, id)
	})
	if err != nil {
		writeError(w, r, err, "book_not_found")
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: i18n.T("book_deleted")})
}

func (s *Server) handleGetAllBooks(w http.ResponseWriter, r *http.Request) {
	var books []model.Book
	err := s.withStore(r, func(ctx context.Context, st db.Store) (err error) {
		books, err = st.GetAllBooks(ctx)
		return err
	})
	if err != nil {
		writeError(w, r, err, "book_not_found")
		return
	}
	if books == nil {
		books = []model.Book{}
	}
	writeJSON(w, http.StatusOK, books)
}

// =============================================================================
// Users
// =============================================================================

func (s *Server) handleAddUser(w http.ResponseWriter, r *http.Request) {
	p, ok := params(w, r, "username")
	if !ok {
		return
	}
	var user *model.User
	err := s.withStore(r, func(ctx context.Context, st db.Store) (err error) {
		user, err = st.AddUser(ctx, p[0])
		return err
	})
	if err != nil {
		writeError(w, r, err, "user_not_found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleEditUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "user_id")
	if !ok {
		return
	}
	p, ok := params(w, r, "username")
	if !ok {
		return
	}
	var user *model.User
	err := s.withStore(r, func(ctx context.Context, st db.Store) (err error) {
		user, err = st.EditUser(ctx, id, p[0])
		return err
	})
	if err != nil {
		writeError(w, r, err, "user_not_found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "user_id")
	if !ok {
		return
	}
	err := s.withStore(r, func(ctx context.Context, st db.Store) error {
		return st.DeleteUser(ctx, id)
	})
	if err != nil {
		writeError(w, r, err, "user_not_found")
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: i18n.T("user_deleted")})
}

func (s *Server) handleGetAllUsers(w http.ResponseWriter, r *http.Request) {
	var users []model.User
	err := s.withStore(r, func(ctx context.Context, st db.Store) (err error) {
		users, err = st.GetAllUsers(ctx)
		return err
	})
	if err != nil {
		writeError(w, r, err, "user_not_found")
		return
	}
	if users == nil {
		users = []model.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleUserTransactions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "user_id")
	if !ok {
		return
	}
	var txs []model.BookTransaction
	err := s.withStore(r, func(ctx context.Context, st db.Store) (err error) {
		txs, err = st.GetTransactionsForUser(ctx, id)
		return err
	})
	if err != nil {
		writeError(w, r, err, "user_not_found")
		return
	}
	if txs == nil {
		txs = []model.BookTransaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

// =============================================================================
// Checkouts
// =============================================================================

func (s *Server) handleCheckoutBook(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "user_id")
	if !ok {
		return
	}
	bookID, ok := pathID(w, r, "book_id")
	if !ok {
		return
	}
	p, ok := params(w, r, "checkout_date")
	if !ok {
		return
	}
	var tx *model.BookTransaction
	err := s.withStore(r, func(ctx context.Context, st db.Store) (err error) {
		tx, err = st.CheckoutBook(ctx, userID, bookID, p[0])
		return err
	})
	if err != nil {
		writeError(w, r, err, "user_or_book_not_found")
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleCheckedOut(w http.ResponseWriter, r *http.Request) {
	var records []model.CheckoutRecord
	err := s.withStore(r, func(ctx context.Context, st db.Store) (err error) {
		records, err = st.GetCheckedOut(ctx)
		return err
	})
	if err != nil {
		writeError(w, r, err, "user_or_book_not_found")
		return
	}
	if records == nil {
		records = []model.CheckoutRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}
