// Package store provides a bun-based SQLite storage implementation of
// queuectl.Store.
//
// # Overview
//
// The backend provides:
//
//   - durable persistence of jobs, DLQ entries, worker registrations, and
//     configuration
//   - atomic state transitions
//   - retry-safe claim using UPDATE ... WHERE id IN (subquery) ... RETURNING
//
// It targets SQLite via modernc.org/sqlite (pure Go, no cgo) but is written
// against bun's dialect-agnostic query builder, so the same code would work
// against any bun-supported dialect with compatible RETURNING support.
//
// # Concurrency Model
//
// ClaimNext is implemented as a single atomic UPDATE statement with a
// subquery, avoiding the race inherent in a separate select-then-update.
// SQLite is opened in WAL mode with a busy_timeout pragma and a single
// connection (SetMaxOpenConns(1)): SQLite serializes writers regardless,
// and a single shared *sql.DB connection sidesteps "database is locked"
// errors that a multi-connection pool would otherwise surface under write
// contention.
//
// # Schema
//
// Open (via MustInitDB or InitDB) creates the jobs, dlq, workers, and
// config tables plus indexes required for efficient claim, list, and
// orphan-recovery queries. Initialization is idempotent and runs inside a
// single transaction. Schema evolution (migrations) is out of scope.
package store
