// Copyright (c) 2026 Libraryms Team
// Libraryms - library management record keeper
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"strings"
	"testing"
)

// newTestDB opens a private in-memory sqlite database for the calling test
// and closes it when the test ends.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := "file:test_" + name + "?mode=memory&cache=shared"
	d, err := New("sqlite", dsn)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// inSession runs fn in a fresh session and fails the test if the session
// cannot be opened or committed.
func inSession(t *testing.T, d *DB, fn func(ctx context.Context, s *Session)) {
	t.Helper()
	ctx := context.Background()
	s, err := d.Session(ctx)
	if err != nil {
		t.Fatalf("Session failed: %v", err)
	}
	fn(ctx, s)
	if err := s.Close(); err != nil {
		t.Fatalf("Session.Close failed: %v", err)
	}
}
