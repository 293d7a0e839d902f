// Copyright (c) 2026 Libraryms Team
// Libraryms - library management record keeper
// This source code is licensed under the MIT license found in the LICENSE file.

// debug_export seeds an in-memory database with a small catalogue, checks a
// book out and prints the resulting export. It exercises the storage layer
// end to end without a server or config file.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/shivamvadalia/libraryms/internal/db"
	"github.com/shivamvadalia/libraryms/internal/i18n"
	"github.com/shivamvadalia/libraryms/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	if err := run(context.Background(), os.Stdout, "file:debprobe?mode=memory&cache=shared"); err != nil {
		fmt.Fprintf(os.Stderr, "debug_export: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, w io.Writer, dsn string) error {
	i18n.Init("en")
	handle, err := db.New("sqlite", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = handle.Close() }()

	var data *model.BackupData
	err = handle.WithSession(ctx, func(s *db.Session) error {
		dune, err := s.AddBook(ctx, "Dune", "Herbert")
		if err != nil {
			return err
		}
		if _, err := s.AddBook(ctx, "Emma", "Austen"); err != nil {
			return err
		}
		alice, err := s.AddUser(ctx, "alice")
		if err != nil {
			return err
		}
		if _, err := s.CheckoutBook(ctx, alice.ID, dune.ID, "2024-01-01"); err != nil {
			return err
		}
		data, err = s.Export(ctx)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "books: %d\n", len(data.Books))
	fmt.Fprintf(w, "users: %d\n", len(data.Users))
	fmt.Fprintf(w, "transactions: %d\n", len(data.Transactions))
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
