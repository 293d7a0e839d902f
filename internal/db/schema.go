// Copyright (c) 2026 Libraryms Team
// Libraryms - library management record keeper
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// schemaTables lists the models whose tables make up the schema, in creation
// order. No foreign key constraints are declared: referential checks happen
// only at checkout time, and deleting a book or user never cascades or
// blocks.
var schemaTables = []interface{}{
	(*BookModel)(nil),
	(*UserModel)(nil),
	(*BookTransactionModel)(nil),
}

type schemaIndex struct {
	model  interface{}
	name   string
	column string
}

var schemaIndexes = []schemaIndex{
	{(*BookModel)(nil), "ix_books_title", "title"},
	{(*UserModel)(nil), "ix_users_username", "username"},
	{(*BookTransactionModel)(nil), "ix_book_transactions_user_id", "user_id"},
}

// EnsureSchema creates the tables and their indexes if they do not exist.
// It is idempotent and cheap enough to run at the start of every session.
// MySQL has no CREATE INDEX IF NOT EXISTS, so indexes are skipped there.
func EnsureSchema(ctx context.Context, idb bun.IDB, dbType string) error {
	for _, m := range schemaTables {
		if _, err := idb.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table for %T: %w", m, err)
		}
	}
	if dbType == "mysql" {
		return nil
	}
	for _, ix := range schemaIndexes {
		if _, err := idb.NewCreateIndex().Model(ix.model).Index(ix.name).Column(ix.column).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create index %s: %w", ix.name, err)
		}
	}
	return nil
}
