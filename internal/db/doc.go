// Package db contains the data-access layer used by Libraryms.
//
// A DB is opened once per process with New and handed to whoever serves
// requests. Each request then works inside its own Session:
//
//	err := handle.WithSession(ctx, func(s *db.Session) error {
//		_, err := s.AddBook(ctx, "Dune", "Herbert")
//		return err
//	})
//
// Opening a session first creates the tables if they are missing, outside any
// transaction, and then begins the session transaction. Closing it commits and
// releases the connection, on success and on failure alike.
//
// Low-level Bun helpers (one function per SQL operation, taking a bun.IDB)
// live in bun_adapter.go. Session methods are thin wrappers around them and
// implement the Store interface.
//
// Testing notes
//   - Prefer New("sqlite", "file:<name>?mode=memory&cache=shared") in tests
//     that need real DB semantics.
//   - Use sqlmock through newFromSQLDB or sqlOpenFunc for failure paths.
package db
