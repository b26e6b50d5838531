package queuectl

import (
	"errors"
	"fmt"
)

var (
	// ErrDoubleStarted is returned when Start is called on a Worker or
	// Supervisor that has already been started.
	ErrDoubleStarted = errors.New("queuectl: already started")

	// ErrDoubleStopped is returned when Stop is called on a Worker or
	// Supervisor that is not currently running.
	ErrDoubleStopped = errors.New("queuectl: already stopped")

	// ErrStopTimeout is returned when graceful shutdown does not
	// complete within the provided timeout. The underlying process may
	// still be terminating in the background.
	ErrStopTimeout = errors.New("queuectl: stop timed out")

	// ErrJobLost indicates an operation referenced a job that no longer
	// exists, or no longer exists in the expected state, because it was
	// concurrently transitioned or removed.
	ErrJobLost = errors.New("queuectl: job lost")

	// ErrClaimLost indicates the caller no longer owns a job's claim: the
	// job is still Processing, but under a different worker, typically
	// because orphan recovery returned it to Pending and another worker
	// claimed it. A job that orphan recovery returned to Pending and that
	// nobody has claimed since yields ErrJobLost instead.
	ErrClaimLost = errors.New("queuectl: claim lost")
)

// ValidationError reports that a job specification or configuration value
// failed validation. CLI callers exit 2 and print Message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// DuplicateIDError reports that enqueue was called with an ID already
// present in the store.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("queuectl: job id %q already exists", e.ID)
}

// StoreError wraps a persistent storage failure, surfaced after any
// internal retry budget for transient write contention is exhausted.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("queuectl: store error during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NotFoundError reports that an operation referenced a missing job or DLQ
// entry. CLI callers exit 2.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("queuectl: %s %q not found", e.Kind, e.ID)
}

// JobExecutionError describes why a claimed job's execution attempt
// failed: non-zero exit, timeout, or a spawn/OS error. It never surfaces
// to the CLI; the failure handler consumes it and decides retry vs.
// dead-letter.
type JobExecutionError struct {
	Message string
}

func (e *JobExecutionError) Error() string { return e.Message }
