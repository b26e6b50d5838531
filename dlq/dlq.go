package dlq

import "time"

// Entry is a dead-lettered job: a terminal record kept for inspection and
// possible replay, distinct from the job it was derived from. Its ID is a
// fresh identifier, not the original job's ID, so that a retried job (which
// gets yet another fresh ID) never collides with either.
type Entry struct {
	ID string

	OriginalJobID string
	Command       string
	Attempts      uint32
	LastError     *string
	MovedAt       time.Time
}
