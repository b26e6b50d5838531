package store

import (
	"github.com/uptrace/bun"
)

// SQLStore implements queuectl.Store using bun over a SQLite connection.
type SQLStore struct {
	db *bun.DB
}

// NewWithDB wraps an already-open and already-initialized *bun.DB. Open is
// the usual entry point; NewWithDB exists for callers (tests, or hosts
// embedding queuectl alongside other bun-backed storage) that already
// manage their own connection lifecycle.
func NewWithDB(db *bun.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Close releases the underlying database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
