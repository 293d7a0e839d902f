// Copyright (c) 2026 Libraryms Team
// Libraryms - library management record keeper
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestBookCommands(t *testing.T) {
	tmp := isolate(t)
	dsn := filepath.Join(tmp, "catalog.db")

	out, err := executeCommand(t, "--database.dsn", dsn, "book", "list")
	if err != nil {
		t.Fatalf("book list failed: %v", err)
	}
	if !strings.Contains(out, "No books found.") {
		t.Fatalf("expected empty listing, got %q", out)
	}

	for _, args := range [][]string{
		{"book", "add", "--title", "Dune", "--author", "Herbert"},
		{"book", "add", "--title", "Emma", "--author", "Austen"},
	} {
		if _, err := executeCommand(t, append([]string{"--database.dsn", dsn}, args...)...); err != nil {
			t.Fatalf("%v failed: %v", args, err)
		}
	}

	out, err = executeCommand(t, "--database.dsn", dsn, "book", "list", "--search", "herb")
	if err != nil {
		t.Fatalf("book list --search failed: %v", err)
	}
	if !strings.Contains(out, "Dune") || strings.Contains(out, "Emma") {
		t.Fatalf("unexpected filtered listing: %q", out)
	}

	out, err = executeCommand(t, "--database.dsn", dsn, "book", "edit", "2", "--title", "Persuasion", "--author", "Austen")
	if err != nil {
		t.Fatalf("book edit failed: %v", err)
	}
	if !strings.Contains(out, "Persuasion") {
		t.Fatalf("expected edited book in output, got %q", out)
	}

	if _, err := executeCommand(t, "--database.dsn", dsn, "book", "edit", "99", "--title", "X"); err == nil || err.Error() != "Book not found" {
		t.Fatalf("expected 'Book not found', got %v", err)
	}
	if _, err := executeCommand(t, "--database.dsn", dsn, "book", "delete", "abc"); err == nil {
		t.Fatalf("expected error for non-integer id")
	}

	out, err = executeCommand(t, "--database.dsn", dsn, "book", "delete", "1")
	if err != nil {
		t.Fatalf("book delete failed: %v", err)
	}
	if !strings.Contains(out, "Book deleted successfully") {
		t.Fatalf("unexpected delete output: %q", out)
	}
}

func TestUserAndCheckoutCommands(t *testing.T) {
	tmp := isolate(t)
	dsn := filepath.Join(tmp, "catalog.db")
	seedDB(t, dsn)

	if _, err := executeCommand(t, "--database.dsn", dsn, "user", "add", "bob"); err != nil {
		t.Fatalf("user add failed: %v", err)
	}
	if _, err := executeCommand(t, "--database.dsn", dsn, "user", "edit", "2", "robert"); err != nil {
		t.Fatalf("user edit failed: %v", err)
	}
	out, err := executeCommand(t, "--database.dsn", dsn, "user", "list")
	if err != nil {
		t.Fatalf("user list failed: %v", err)
	}
	if !strings.Contains(out, "alice") || !strings.Contains(out, "robert") {
		t.Fatalf("unexpected user listing: %q", out)
	}

	if _, err := executeCommand(t, "--database.dsn", dsn, "checkout", "2", "1", "--date", "2024-02-02"); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if _, err := executeCommand(t, "--database.dsn", dsn, "checkout", "9", "1"); err == nil || err.Error() != "User or Book not found" {
		t.Fatalf("expected 'User or Book not found', got %v", err)
	}

	out, err = executeCommand(t, "--database.dsn", dsn, "checked-out")
	if err != nil {
		t.Fatalf("checked-out failed: %v", err)
	}
	if !strings.Contains(out, "2024-01-01") || !strings.Contains(out, "2024-02-02") {
		t.Fatalf("unexpected checkout listing: %q", out)
	}

	out, err = executeCommand(t, "--database.dsn", dsn, "user", "history", "2")
	if err != nil {
		t.Fatalf("user history failed: %v", err)
	}
	if !strings.Contains(out, "2024-02-02") || strings.Contains(out, "2024-01-01") {
		t.Fatalf("unexpected history: %q", out)
	}

	if _, err := executeCommand(t, "--database.dsn", dsn, "user", "delete", "42"); err == nil || err.Error() != "User not found" {
		t.Fatalf("expected 'User not found', got %v", err)
	}
}
