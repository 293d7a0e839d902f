// Copyright (c) 2026 Libraryms Team
// Libraryms - library management record keeper
// This source code is licensed under the MIT license found in the LICENSE file.

// Package api serves the library records over HTTP. Each request runs in
// its own storage session, obtained from a Sessions provider.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/shivamvadalia/libraryms/internal/db"
	"github.com/shivamvadalia/libraryms/internal/metrics"
)

// Sessions hands out request-scoped stores. *db.DB satisfies it.
type Sessions interface {
	WithStore(ctx context.Context, fn func(db.Store) error) error
}

// Server routes requests to handlers.
type Server struct {
	sessions Sessions
	metrics  *metrics.Metrics
	router   *mux.Router
}

// New builds a Server. m may be nil, in which case no metrics are recorded
// and /metrics is not served.
func New(sessions Sessions, m *metrics.Metrics) *Server {
	s := &Server{sessions: sessions, metrics: m, router: mux.NewRouter()}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := s.router
	r.Use(RequestLogger)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
		r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}

	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)

	r.HandleFunc("/add_book/", s.handleAddBook).Methods(http.MethodPost)
	r.HandleFunc("/edit_book/{book_id}", s.handleEditBook).Methods(http.MethodPut)
	r.HandleFunc("/delete_book/{book_id}", s.handleDeleteBook).Methods(http.MethodDelete)
	r.HandleFunc("/get_all_books/", s.handleGetAllBooks).Methods(http.MethodGet)

	r.HandleFunc("/add_user/", s.handleAddUser).Methods(http.MethodPost)
	r.HandleFunc("/edit_user/{user_id}", s.handleEditUser).Methods(http.MethodPut)
	r.HandleFunc("/delete_user/{user_id}", s.handleDeleteUser).Methods(http.MethodDelete)
	r.HandleFunc("/get_all_users/", s.handleGetAllUsers).Methods(http.MethodGet)
	r.HandleFunc("/users/{user_id}/transactions/", s.handleUserTransactions).Methods(http.MethodGet)

	r.HandleFunc("/checkout_book/{user_id}/{book_id}", s.handleCheckoutBook).Methods(http.MethodPost)
	r.HandleFunc("/checked_out_users/", s.handleCheckedOut).Methods(http.MethodGet)

	// Paths registered with a trailing slash also answer without it, with a
	// redirect that keeps method and body.
	for _, path := range []string{"/add_book", "/get_all_books", "/add_user", "/get_all_users", "/users/{user_id}/transactions", "/checked_out_users"} {
		r.HandleFunc(path, redirectWithSlash)
	}

	r.NotFoundHandler = RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Detail: "Not Found"})
	}))
	r.MethodNotAllowedHandler = RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Detail: "Method Not Allowed"})
	}))
}

// redirectWithSlash answers with 307 so clients repeat the same method and
// body against the path with a trailing slash.
func redirectWithSlash(w http.ResponseWriter, r *http.Request) {
	u := *r.URL
	u.Path += "/"
	u.RawPath = ""
	http.Redirect(w, r, u.RequestURI(), http.StatusTemporaryRedirect)
}

// withStore runs fn in a fresh session. Cancellation of the request does
// not abort the storage calls once they have started.
func (s *Server) withStore(r *http.Request, fn func(ctx context.Context, st db.Store) error) error {
	ctx := context.WithoutCancel(r.Context())
	err := s.sessions.WithStore(ctx, func(st db.Store) error { return fn(ctx, st) })
	if s.metrics != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.metrics.ObserveSession(nil)
		} else {
			s.metrics.ObserveSession(err)
		}
	}
	return err
}
