// Copyright (c) 2026 Libraryms Team
// Libraryms - library management record keeper
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"time"

	"github.com/shivamvadalia/libraryms/internal/logging"
	"github.com/uptrace/bun"
)

var dbDebugEnabled bool

// SetDebug enables or disables DB debug logging. Disabled by default.
func SetDebug(enabled bool) {
	dbDebugEnabled = enabled
}

func dbLogf(format string, v ...any) {
	if dbDebugEnabled {
		logging.Debugf("[DB] "+format, v...)
	}
}

// queryLogHook logs every executed statement when DB debug logging is on.
type queryLogHook struct{}

var _ bun.QueryHook = queryLogHook{}

func (queryLogHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (queryLogHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	if !dbDebugEnabled {
		return
	}
	if event.Err != nil {
		dbLogf("query failed after %s: %s: %v", time.Since(event.StartTime), event.Query, event.Err)
		return
	}
	dbLogf("query in %s: %s", time.Since(event.StartTime), event.Query)
}
