package job

import "time"

// Spec is a validated job specification, the record form of the untyped
// JSON object accepted by `queuectl enqueue`. Unknown JSON fields are
// rejected at decode time (see the CLI's job-spec decoder) rather than
// silently ignored, so a typo in a field name fails loudly instead of
// quietly falling back to a default.
//
// Spec carries only caller-facing fields. Scheduling and delivery metadata
// (Status, Attempts, WorkerID, ...) is added by the Store when the Spec is
// enqueued and is never part of a Spec itself.
type Spec struct {
	// ID is a caller-supplied stable identifier. If empty, the Store
	// assigns a random unique one.
	ID string

	// Command is the shell command line to execute. Required, non-empty.
	Command string

	// Priority ranks eligible jobs; higher runs first. Default 0.
	Priority int

	// MaxRetries bounds Attempts before the job is moved to the DLQ.
	// 0 means fail-on-first-error. If nil, the Store fills in the
	// configured global default at enqueue time.
	MaxRetries *int

	// TimeoutSeconds bounds a single execution attempt's wall time.
	// Nil means no timeout.
	TimeoutSeconds *int

	// RunAt is the earliest time the job becomes eligible. Nil means
	// immediately (creation time).
	RunAt *time.Time
}

// Job is a unit of work as tracked by the Store, combining a resolved Spec
// with its current lifecycle state. Unlike Spec, every scheduling field on
// Job is resolved: RunAt and MaxRetries have had their defaults applied by
// the time a Job exists in storage.
type Job struct {
	ID       string
	Command  string
	Priority int

	// MaxRetries is the resolved per-job retry bound (Spec.MaxRetries or
	// the configured global default, frozen at enqueue time).
	MaxRetries int

	// TimeoutSeconds bounds a single execution attempt's wall time.
	// Nil means no timeout.
	TimeoutSeconds *int

	Status   Status
	Attempts uint32

	// WorkerID identifies the worker holding the claim. Non-nil iff
	// Status == Processing.
	WorkerID *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// RunAt is the earliest time the job first became eligible.
	RunAt time.Time

	// NextRunAt is the earliest time the next execution attempt is
	// eligible. Equals RunAt at creation; advanced by backoff on retry.
	NextRunAt time.Time

	// LastError is the truncated (<=500 chars) message of the most
	// recent failed attempt, or nil if the job has never failed.
	LastError *string
}
