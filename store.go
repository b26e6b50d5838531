package queuectl

import (
	"context"
	"time"

	"github.com/queuectl/queuectl/config"
	"github.com/queuectl/queuectl/dlq"
	"github.com/queuectl/queuectl/job"
	"github.com/queuectl/queuectl/registry"
)

// Store is the transactional persistence contract backing every other
// component. All mutation happens inside transactions; the atomic claim
// operation is the lynchpin of correctness under concurrency:
// implementations MUST perform selection-and-transition as a single
// conditional update or serialized transaction, never a separate
// select-then-update pair.
//
// Implementations are expected to retry transient write contention (e.g.
// SQLITE_BUSY) internally with a short bounded backoff and surface only
// persistent failures as *StoreError.
type Store interface {
	// Enqueue inserts spec as a new Pending job and returns its ID.
	//
	// If spec.ID is set and already present, Enqueue returns
	// *DuplicateIDError. If spec fails validation, Enqueue returns
	// *ValidationError. Defaults (MaxRetries, RunAt) are resolved from
	// the config registry and baked into the stored Job.
	Enqueue(ctx context.Context, spec job.Spec) (string, error)

	// ClaimNext atomically selects the highest-priority eligible job
	// (Status == Pending, NextRunAt <= now), tie-broken by ascending
	// CreatedAt then ascending ID, and transitions it to Processing
	// under workerID. It returns (nil, nil) if no job is eligible.
	// ClaimNext does not touch Attempts; that only advances when an
	// attempt is resolved (FailAndRetry, FailAndDeadletter,
	// RecoverOrphans).
	//
	// Under N concurrent callers racing for the same job, exactly one
	// call observes that job as claimed.
	ClaimNext(ctx context.Context, workerID string, now time.Time) (*job.Job, error)

	// Complete transitions a Processing job owned by workerID to
	// Completed. If the job is no longer owned by workerID — it was
	// reclaimed by RecoverOrphans and picked up by another worker before
	// this call landed — it returns ErrClaimLost and leaves the job
	// alone.
	Complete(ctx context.Context, jobID, workerID string) error

	// FailAndRetry transitions a Processing job owned by workerID back
	// to Pending, increments Attempts, sets NextRunAt to now+delay,
	// clears WorkerID, and records the truncated error message. Returns
	// ErrClaimLost if workerID no longer owns the job.
	FailAndRetry(ctx context.Context, jobID, workerID string, errMsg string, delay time.Duration) error

	// FailAndDeadletter atomically transitions a Processing job owned by
	// workerID to Dead, increments Attempts (the failed attempt that
	// triggered the deadletter counts as consumed), and inserts a
	// dlq.Entry derived from the post-increment job. Returns
	// ErrClaimLost if workerID no longer owns the job.
	FailAndDeadletter(ctx context.Context, jobID, workerID string, errMsg string) error

	// ListJobs returns up to limit jobs, optionally filtered by status.
	// status == job.Unknown means no filter.
	ListJobs(ctx context.Context, status job.Status, limit int) ([]*job.Job, error)

	// GetJob returns the job identified by id, or (nil, nil) if absent.
	GetJob(ctx context.Context, id string) (*job.Job, error)

	// CountByStatus returns the number of jobs in each status, for the
	// `status` CLI command.
	CountByStatus(ctx context.Context) (map[job.Status]int64, error)

	// ListDLQ returns up to limit DLQ entries, newest first.
	ListDLQ(ctx context.Context, limit int) ([]*dlq.Entry, error)

	// RetryDLQ atomically deletes the DLQ entry identified by dlqID and
	// inserts a fresh Pending job (new ID, Attempts 0) derived from it,
	// returning the new job's ID. If no such entry exists, it returns
	// *NotFoundError.
	RetryDLQ(ctx context.Context, dlqID string) (string, error)

	// PurgeDLQ deletes DLQ entries moved at or before now minus
	// olderThan, returning the count deleted.
	PurgeDLQ(ctx context.Context, olderThan time.Duration) (int64, error)

	// RegisterWorker inserts a new registry.Record.
	RegisterWorker(ctx context.Context, rec registry.Record) error

	// Heartbeat refreshes LastHeartbeatAt for workerID.
	Heartbeat(ctx context.Context, workerID string, now time.Time) error

	// UnregisterWorker removes workerID's registry row.
	UnregisterWorker(ctx context.Context, workerID string) error

	// ListWorkers returns every registered worker, live or stale.
	ListWorkers(ctx context.Context) ([]*registry.Record, error)

	// FindStaleWorkers returns the IDs of workers whose last heartbeat
	// is older than timeout as of now.
	FindStaleWorkers(ctx context.Context, now time.Time, timeout time.Duration) ([]string, error)

	// RecoverOrphans transitions every Processing job owned by one of
	// staleWorkerIDs back to Pending, incrementing Attempts (the
	// interrupted attempt counts as consumed) and clearing WorkerID. It
	// returns the number of jobs recovered.
	RecoverOrphans(ctx context.Context, staleWorkerIDs []string, now time.Time) (int64, error)

	// GetConfig returns the current string value of key, resolving to
	// its schema default if never explicitly set.
	GetConfig(ctx context.Context, key config.Key) (string, error)

	// SetConfig validates and persists value for key. Unknown keys
	// return *ValidationError.
	SetConfig(ctx context.Context, key config.Key, value string) error

	// ListConfig returns every recognized key's effective value (the
	// stored value, or the schema default if never set). It does not
	// report whether a value was explicitly set.
	ListConfig(ctx context.Context) (map[config.Key]string, error)

	// Close releases underlying resources (the database handle).
	Close() error
}
