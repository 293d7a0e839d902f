// Copyright (c) 2026 Libraryms Team
// Libraryms - library management record keeper
// This source code is licensed under the MIT license found in the LICENSE file.

// package db provides the data access layer for Libraryms.
// It abstracts the underlying database (SQLite, PostgreSQL, MySQL) behind a
// Bun-backed handle, allowing the rest of the application to interact with
// the database in a uniform way.
package db // import "github.com/shivamvadalia/libraryms/internal/db"

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// sqlOpenFunc allows tests to override database opening behavior.
var sqlOpenFunc = sql.Open

// DB is the long-lived storage handle. It is created once at process start
// and shared read-only by every request; each request acquires its own
// Session from it.
type DB struct {
	bun    *bun.DB
	dbType string
}

// driverName maps a configured database type to the registered sql driver.
// The pgx stdlib registers driver name "pgx".
func driverName(dbType string) string {
	if dbType == "postgres" {
		return "pgx"
	}
	return dbType
}

// New opens a sql.DB for the given DSN, configures the connection pool and
// returns a DB backed by a long-lived *bun.DB. The schema is not created
// here; sessions create it on demand.
func New(dbType, dsn string) (*DB, error) {
	switch dbType {
	case "sqlite", "postgres", "mysql":
	default:
		return nil, fmt.Errorf("unsupported database type: '%s'", dbType)
	}

	start := time.Now()
	sqlDB, err := sqlOpenFunc(driverName(dbType), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	maxOpen, maxIdle, connMax, connIdle := poolSettings(dbType)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(connMax)
	sqlDB.SetConnMaxIdleTime(connIdle)

	dbLogf("db: opened %s driver in %s (conn max open=%d, idle=%s, maxLifetime=%s)",
		driverName(dbType), time.Since(start), maxOpen, connIdle, connMax)

	return newFromSQLDB(sqlDB, dbType), nil
}

// newFromSQLDB wraps an already opened *sql.DB. Tests use it to inject sqlmock.
func newFromSQLDB(sqlDB *sql.DB, dbType string) *DB {
	b := createBunDB(sqlDB, dbType)
	b.AddQueryHook(queryLogHook{})
	return &DB{bun: b, dbType: dbType}
}

// poolSettings returns the connection pool configuration. Values can be
// overridden via environment variables for CI or production tuning.
func poolSettings(dbType string) (maxOpen, maxIdle int, connMax, connIdle time.Duration) {
	const (
		defaultMaxOpenConns    = 25
		defaultMaxIdleConns    = 25
		defaultConnMaxLifetime = 5 * time.Minute
		defaultConnMaxIdle     = 60 * time.Second
	)

	maxOpen = envInt("LIBRARYMS_DB_MAX_OPEN_CONNS", defaultMaxOpenConns)
	maxIdle = envInt("LIBRARYMS_DB_MAX_IDLE_CONNS", defaultMaxIdleConns)
	connMax = defaultConnMaxLifetime
	if n := envInt("LIBRARYMS_DB_CONN_MAX_LIFETIME_SECONDS", -1); n >= 0 {
		connMax = time.Duration(n) * time.Second
	}
	connIdle = defaultConnMaxIdle
	if n := envInt("LIBRARYMS_DB_CONN_MAX_IDLE_SECONDS", -1); n >= 0 {
		connIdle = time.Duration(n) * time.Second
	}

	// SQLite allows a single writer, and in-memory databases are private to
	// the connection that created them. Every session holds a transaction, so
	// a single pooled connection makes sessions queue instead of failing with
	// SQLITE_BUSY.
	if dbType == "sqlite" {
		maxOpen = 1
		maxIdle = 1
		connMax = 0
		connIdle = 0
	}
	return maxOpen, maxIdle, connMax, connIdle
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

// createBunDB constructs a *bun.DB for the provided *sql.DB and dbType.
func createBunDB(sqlDB *sql.DB, dbType string) *bun.DB {
	switch dbType {
	case "postgres":
		return bun.NewDB(sqlDB, pgdialect.New())
	case "mysql":
		return bun.NewDB(sqlDB, mysqldialect.New())
	default:
		return bun.NewDB(sqlDB, sqlitedialect.New())
	}
}

// Type reports the configured database type ("sqlite", "postgres", "mysql").
func (d *DB) Type() string {
	return d.dbType
}

// Ping verifies the database is reachable.
func (d *DB) Ping() error {
	return d.bun.Ping()
}

// Close releases the connection pool.
func (d *DB) Close() error {
	return d.bun.Close()
}
