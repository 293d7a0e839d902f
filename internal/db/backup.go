// Copyright (c) 2026 Libraryms Team
// Libraryms - library management record keeper
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"fmt"

	"github.com/shivamvadalia/libraryms/internal/model"
	"github.com/uptrace/bun"
)

// BackupSchemaVersion is written into every export.
const BackupSchemaVersion = 1

// Export dumps every table into a BackupData value.
func (s *Session) Export(ctx context.Context) (*model.BackupData, error) {
	books, err := GetAllBooksBun(ctx, s.tx)
	if err != nil {
		return nil, fmt.Errorf("failed to export books: %w", err)
	}
	users, err := GetAllUsersBun(ctx, s.tx)
	if err != nil {
		return nil, fmt.Errorf("failed to export users: %w", err)
	}
	txs, err := GetAllBookTransactionsBun(ctx, s.tx)
	if err != nil {
		return nil, fmt.Errorf("failed to export book transactions: %w", err)
	}
	return &model.BackupData{
		SchemaVersion: BackupSchemaVersion,
		Books:         books,
		Users:         users,
		Transactions:  txs,
	}, nil
}

// Import loads data into the database, keeping the original ids. With full
// set, all existing rows are wiped first. Otherwise rows whose id already
// exists are skipped.
func (s *Session) Import(ctx context.Context, data *model.BackupData, full bool) error {
	if data == nil {
		return fmt.Errorf("no backup data")
	}
	if data.SchemaVersion > BackupSchemaVersion {
		return fmt.Errorf("backup schema version %d is newer than supported version %d", data.SchemaVersion, BackupSchemaVersion)
	}

	if full {
		for _, table := range []string{"book_transactions", "users", "books"} {
			if _, err := ExecRaw(ctx, s.tx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to wipe %s: %w", table, err)
			}
		}
	}

	var added, skipped int
	for _, b := range data.Books {
		ok, err := insertIfAbsent(ctx, s.tx, &BookModel{ID: b.ID, Title: b.Title, Author: b.Author})
		if err != nil {
			return fmt.Errorf("failed to import book %d: %w", b.ID, err)
		}
		added, skipped = tally(ok, added, skipped)
	}
	for _, u := range data.Users {
		ok, err := insertIfAbsent(ctx, s.tx, &UserModel{ID: u.ID, Username: u.Username})
		if err != nil {
			return fmt.Errorf("failed to import user %d: %w", u.ID, err)
		}
		added, skipped = tally(ok, added, skipped)
	}
	for _, t := range data.Transactions {
		ok, err := insertIfAbsent(ctx, s.tx, &BookTransactionModel{ID: t.ID, BookID: t.BookID, UserID: t.UserID, CheckoutDate: t.CheckoutDate})
		if err != nil {
			return fmt.Errorf("failed to import book transaction %d: %w", t.ID, err)
		}
		added, skipped = tally(ok, added, skipped)
	}

	if s.dbType == "postgres" {
		for _, table := range []string{"books", "users", "book_transactions"} {
			if err := resyncSerial(ctx, s.tx, table); err != nil {
				return fmt.Errorf("failed to resync %s id sequence: %w", table, err)
			}
		}
	}
	dbLogf("import finished: %d rows added, %d skipped (full=%t)", added, skipped, full)
	return nil
}

func tally(inserted bool, added, skipped int) (int, int) {
	if inserted {
		return added + 1, skipped
	}
	return added, skipped + 1
}

// insertIfAbsent inserts m with its explicit primary key unless a row with
// that key already exists. It reports whether a row was written.
func insertIfAbsent(ctx context.Context, idb bun.IDB, m interface{}) (bool, error) {
	exists, err := idb.NewSelect().Model(m).WherePK().Exists(ctx)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if _, err := idb.NewInsert().Model(m).Exec(ctx); err != nil {
		return false, MapDBError(err)
	}
	return true, nil
}
