package queuectl

import (
	"context"
	"errors"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/queuectl/queuectl/executor"
	"github.com/queuectl/queuectl/internal"
	"github.com/queuectl/queuectl/job"
	"github.com/queuectl/queuectl/registry"
)

// heartbeatInterval is the cadence at which a running Worker refreshes its
// registry row, well under the default stale_worker_timeout_seconds so a
// live worker is never mistaken for an orphan.
const heartbeatInterval = 5 * time.Second

// WorkerConfig defines the runtime behavior of a single Worker.
type WorkerConfig struct {
	// ID is this worker's identity in the registry. If empty, a random
	// one is generated.
	ID string
	// PollInterval is how often an idle worker checks the Store for an
	// eligible job when ClaimNext returns nothing.
	PollInterval time.Duration
}

// Worker runs the claim-execute-resolve loop: it repeatedly claims the
// next eligible job, executes its command via the executor package
// honoring any per-job timeout, and resolves the outcome back through the
// Queue's centralized failure handler. It never decides retry-versus-
// deadletter itself.
//
// Worker has a start/stop lifecycle: Start fails while the worker is
// already running, and Stop waits for the in-flight job (if any) to
// finish or the timeout to expire.
type Worker struct {
	lcBase
	id       string
	store    Store
	queue    *Queue
	log      *zap.SugaredLogger
	interval time.Duration
	hb       internal.TimerTask

	cancel   context.CancelFunc
	loopDone internal.DoneChan
}

// NewWorker constructs a Worker over store, delegating failure decisions
// to queue.
func NewWorker(store Store, queue *Queue, cfg WorkerConfig, log *zap.SugaredLogger) *Worker {
	id := cfg.ID
	if id == "" {
		id = randomID()
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &Worker{
		id:       id,
		store:    store,
		queue:    queue,
		log:      log.With("worker_id", id),
		interval: interval,
	}
}

// ID returns the worker's registry identity.
func (w *Worker) ID() string {
	return w.id
}

func (w *Worker) heartbeat(ctx context.Context) {
	if err := w.store.Heartbeat(ctx, w.id, time.Now()); err != nil {
		w.log.Warnw("heartbeat failed", "err", err)
	}
}

// Start registers the worker and begins claiming and executing jobs in
// the background. Start returns ErrDoubleStarted if already running.
func (w *Worker) Start(ctx context.Context) error {
	if err := w.tryStart(); err != nil {
		return err
	}
	now := time.Now()
	rec := registry.Record{
		WorkerID:        w.id,
		PID:             os.Getpid(),
		Hostname:        hostname(),
		StartedAt:       now,
		LastHeartbeatAt: now,
	}
	if err := w.store.RegisterWorker(ctx, rec); err != nil {
		w.state.Store(stopped)
		return err
	}
	w.hb.Start(ctx, w.heartbeat, heartbeatInterval)
	loopCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	done := make(internal.DoneChan)
	w.loopDone = done
	go func() {
		defer close(done)
		w.loop(loopCtx)
	}()
	return nil
}

func (w *Worker) loop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		if ctx.Err() != nil {
			return
		}
		claimed := w.claimAndRun(ctx)
		if ctx.Err() != nil {
			return
		}
		if claimed {
			continue
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// claimAndRun attempts to claim one job and, if successful, executes it
// to completion. It returns true if a job was claimed, regardless of
// outcome, so the caller can immediately try claiming another rather than
// waiting out the poll interval.
func (w *Worker) claimAndRun(ctx context.Context) bool {
	jb, err := w.store.ClaimNext(ctx, w.id, time.Now())
	if err != nil {
		w.log.Errorw("claim failed", "err", err)
		return false
	}
	if jb == nil {
		return false
	}
	// Once claimed, a job runs to completion even if the worker is asked
	// to stop mid-execution; only the per-job timeout can cut it short.
	w.run(context.Background(), jb)
	return true
}

func (w *Worker) run(ctx context.Context, jb *job.Job) {
	w.log.Infow("job claimed", "id", jb.ID, "attempt", jb.Attempts+1, "command", jb.Command)

	var timeout *time.Duration
	if jb.TimeoutSeconds != nil {
		d := time.Duration(*jb.TimeoutSeconds) * time.Second
		timeout = &d
	}

	result := executor.Run(ctx, jb.Command, timeout)
	switch result.Outcome {
	case executor.Succeeded:
		if err := w.store.Complete(ctx, jb.ID, w.id); err != nil {
			w.logResolveErr(jb.ID, "complete", err)
		} else {
			w.log.Infow("job completed", "id", jb.ID)
		}
	default:
		if err := w.queue.HandleFailure(ctx, jb, w.id, result.Err); err != nil {
			w.logResolveErr(jb.ID, "resolve failure", err)
		}
	}
}

// logResolveErr logs a job resolution error at a severity matching how
// expected it is. ErrClaimLost means orphan recovery reassigned the job to
// another worker while this one was still mid-execution, a normal outcome
// of the staleness race rather than a bug; anything else indicates the job
// could not be resolved and is logged as an error.
func (w *Worker) logResolveErr(jobID, op string, err error) {
	if errors.Is(err, ErrClaimLost) {
		w.log.Warnw("claim lost before job could be resolved", "id", jobID, "op", op, "err", err)
		return
	}
	w.log.Errorw("cannot resolve job", "id", jobID, "op", op, "err", err)
}

func (w *Worker) doStop() internal.DoneChan {
	first := w.hb.Stop()
	w.cancel()
	second := w.loopDone
	return internal.Combine(first, second)
}

// Stop initiates graceful shutdown: the poll loop stops claiming new
// jobs, the in-flight job (if any) is allowed to run to completion, and
// the worker's registry row is removed. If shutdown does not complete
// within timeout, Stop returns ErrStopTimeout and the registry row is
// left for the supervisor's orphan recovery to reclaim.
func (w *Worker) Stop(ctx context.Context, timeout time.Duration) error {
	err := w.tryStop(timeout, w.doStop)
	if err != nil {
		return err
	}
	if unregErr := w.store.UnregisterWorker(ctx, w.id); unregErr != nil {
		w.log.Warnw("cannot unregister worker", "err", unregErr)
	}
	return nil
}
