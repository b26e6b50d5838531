package queuectl

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/queuectl/queuectl/config"
	"github.com/queuectl/queuectl/dlq"
	"github.com/queuectl/queuectl/job"
)

// Queue is a stateless facade over a Store providing the user-facing
// operations the CLI drives: validating and enqueuing job specs, listing
// and aggregating status, and DLQ administration. It also hosts the
// failure handler called by the worker runtime, which centralizes the
// retry-vs-deadletter decision so that Worker never makes it directly.
type Queue struct {
	store Store
	log   *zap.SugaredLogger
}

// NewQueue constructs a Queue over store.
func NewQueue(store Store, log *zap.SugaredLogger) *Queue {
	return &Queue{store: store, log: log}
}

// Validate checks a job.Spec against the rules a job must satisfy before
// it can be enqueued: Command is required and non-empty, MaxRetries (if
// set) is >= 0, TimeoutSeconds (if set) is positive.
func Validate(spec job.Spec) error {
	if strings.TrimSpace(spec.Command) == "" {
		return NewValidationError("command is required and must not be empty")
	}
	if spec.MaxRetries != nil && *spec.MaxRetries < 0 {
		return NewValidationError("max_retries must be >= 0, got %d", *spec.MaxRetries)
	}
	if spec.TimeoutSeconds != nil && *spec.TimeoutSeconds <= 0 {
		return NewValidationError("timeout_seconds must be a positive integer, got %d", *spec.TimeoutSeconds)
	}
	return nil
}

// Enqueue validates spec and inserts it via the Store, returning the
// resolved job ID (caller-supplied or freshly assigned).
func (q *Queue) Enqueue(ctx context.Context, spec job.Spec) (string, error) {
	if err := Validate(spec); err != nil {
		return "", err
	}
	id, err := q.store.Enqueue(ctx, spec)
	if err != nil {
		return "", err
	}
	q.log.Infow("job enqueued", "id", id, "command", spec.Command)
	return id, nil
}

// HandleFailure is called by the worker runtime after workerID's claimed
// job execution attempt fails. It is never called by CLI-path code. jb is
// the job as it stood at claim time: Attempts counts only attempts already
// resolved (ClaimNext itself never touches Attempts), so the attempt that
// just failed is attempts+1. If that would exceed MaxRetries the job is
// moved to the DLQ, otherwise a retry is scheduled with exponential
// backoff. If workerID no longer owns the job's claim, the underlying
// Store call returns ErrClaimLost and the job is left to whoever reclaimed
// it.
func (q *Queue) HandleFailure(ctx context.Context, jb *job.Job, workerID string, execErr error) error {
	msg := truncate(execErr.Error(), 500)
	nextAttempt := jb.Attempts + 1
	if int(nextAttempt) > jb.MaxRetries {
		if err := q.store.FailAndDeadletter(ctx, jb.ID, workerID, msg); err != nil {
			return err
		}
		q.log.Warnw("job dead-lettered", "id", jb.ID, "attempts", nextAttempt, "err", msg)
		return nil
	}
	backoffBase, err := q.backoffBase(ctx)
	if err != nil {
		return err
	}
	delay := computeBackoff(backoffBase, nextAttempt)
	if err := q.store.FailAndRetry(ctx, jb.ID, workerID, msg, delay); err != nil {
		return err
	}
	q.log.Infow("job scheduled for retry", "id", jb.ID, "attempts", nextAttempt, "delay", delay, "err", msg)
	return nil
}

func (q *Queue) backoffBase(ctx context.Context) (int, error) {
	raw, err := q.store.GetConfig(ctx, config.BackoffBase)
	if err != nil {
		return 0, err
	}
	return config.Int(raw)
}

// List returns up to limit jobs, optionally filtered by status.
func (q *Queue) List(ctx context.Context, status job.Status, limit int) ([]*job.Job, error) {
	return q.store.ListJobs(ctx, status, limit)
}

// Status aggregates counts per job status and enumerates live (non-stale)
// workers, for the `status` CLI command.
type Status struct {
	Counts      map[job.Status]int64
	LiveWorkers int
	TotalWorkers int
}

func (q *Queue) Status(ctx context.Context) (*Status, error) {
	counts, err := q.store.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	workers, err := q.store.ListWorkers(ctx)
	if err != nil {
		return nil, err
	}
	staleRaw, err := q.store.GetConfig(ctx, config.StaleWorkerTimeoutSeconds)
	if err != nil {
		return nil, err
	}
	staleSeconds, err := config.Int(staleRaw)
	if err != nil {
		return nil, err
	}
	timeout := time.Duration(staleSeconds) * time.Second
	now := time.Now()
	live := 0
	for _, w := range workers {
		if !w.Stale(now, timeout) {
			live++
		}
	}
	return &Status{Counts: counts, LiveWorkers: live, TotalWorkers: len(workers)}, nil
}

// ListDLQ returns up to limit DLQ entries.
func (q *Queue) ListDLQ(ctx context.Context, limit int) ([]*dlq.Entry, error) {
	return q.store.ListDLQ(ctx, limit)
}

// RetryDLQ creates a fresh pending job from the DLQ entry dlqID and removes
// the entry, atomically.
func (q *Queue) RetryDLQ(ctx context.Context, dlqID string) (string, error) {
	id, err := q.store.RetryDLQ(ctx, dlqID)
	if err != nil {
		return "", err
	}
	q.log.Infow("dlq entry retried", "dlq_id", dlqID, "new_job_id", id)
	return id, nil
}

// PurgeDLQ deletes DLQ entries older than olderThan, returning the count
// deleted.
func (q *Queue) PurgeDLQ(ctx context.Context, olderThan time.Duration) (int64, error) {
	n, err := q.store.PurgeDLQ(ctx, olderThan)
	if err != nil {
		return 0, err
	}
	q.log.Infow("dlq purged", "count", n, "older_than", olderThan)
	return n, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
