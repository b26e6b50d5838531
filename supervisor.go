package queuectl

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/queuectl/queuectl/internal"
)

// SupervisorConfig configures a Supervisor run.
type SupervisorConfig struct {
	// Count is the number of worker child processes to maintain.
	Count int
	// ExecPath is the path to re-exec for each worker child (the
	// running binary itself).
	ExecPath string
	// WorkerArgs builds the argv (excluding argv[0]) for the worker
	// child identified by id. The caller is responsible for including
	// whatever hidden subcommand and flags route back into a Worker's
	// claim-execute-resolve loop (see cmd/queuectl's `worker run`).
	WorkerArgs func(id string) []string
	// GracePeriod is how long a worker is given to exit after SIGTERM
	// before Stop escalates to SIGKILL.
	GracePeriod time.Duration
}

// Supervisor spawns and supervises a fixed set of worker child processes:
// it records their PIDs, waits, forwards terminate/interrupt as a
// graceful shutdown request, and force-kills any survivor once the grace
// period elapses.
type Supervisor struct {
	lcBase
	store       Store
	count       int
	execPath    string
	workerArgs  func(id string) []string
	gracePeriod time.Duration
	log         *zap.SugaredLogger

	mu    sync.Mutex
	procs []*supervisedProc

	group    *errgroup.Group
	groupCtx context.Context
	cancel   context.CancelFunc
}

type supervisedProc struct {
	id  string
	cmd *exec.Cmd
}

// NewSupervisor constructs a Supervisor. store is used only for orphan
// recovery on startup; workers themselves own their registry rows.
func NewSupervisor(store Store, cfg SupervisorConfig, log *zap.SugaredLogger) *Supervisor {
	grace := cfg.GracePeriod
	if grace <= 0 {
		grace = 10 * time.Second
	}
	return &Supervisor{
		store:       store,
		count:       cfg.Count,
		execPath:    cfg.ExecPath,
		workerArgs:  cfg.WorkerArgs,
		gracePeriod: grace,
		log:         log,
	}
}

// RecoverOrphans finds workers whose heartbeat is older than staleTimeout
// and returns their claimed jobs to pending. Called once on startup
// before any worker is spawned.
func (sv *Supervisor) RecoverOrphans(ctx context.Context, staleTimeout time.Duration) (int64, error) {
	now := time.Now()
	staleIDs, err := sv.store.FindStaleWorkers(ctx, now, staleTimeout)
	if err != nil {
		return 0, err
	}
	if len(staleIDs) == 0 {
		return 0, nil
	}
	n, err := sv.store.RecoverOrphans(ctx, staleIDs, now)
	if err != nil {
		return 0, err
	}
	for _, id := range staleIDs {
		if unregErr := sv.store.UnregisterWorker(ctx, id); unregErr != nil {
			sv.log.Warnw("cannot unregister stale worker", "worker_id", id, "err", unregErr)
		}
	}
	sv.log.Infow("recovered orphaned jobs", "count", n, "stale_workers", len(staleIDs))
	return n, nil
}

// Start spawns Count worker child processes and returns once they have
// all been launched. It does not block for their exit; call Wait for
// that. Start returns ErrDoubleStarted if already running.
func (sv *Supervisor) Start(ctx context.Context) error {
	if err := sv.tryStart(); err != nil {
		return err
	}
	groupCtx, cancel := context.WithCancel(ctx)
	group, groupCtx := errgroup.WithContext(groupCtx)
	sv.groupCtx = groupCtx
	sv.cancel = cancel
	sv.group = group

	for i := 0; i < sv.count; i++ {
		id := randomID()
		cmd := exec.Command(sv.execPath, sv.workerArgs(id)...)
		cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
		cmd.Stdout = nil
		cmd.Stderr = nil
		if err := cmd.Start(); err != nil {
			sv.signalAll(syscall.SIGKILL)
			sv.cancel()
			sv.state.Store(stopped)
			return fmt.Errorf("queuectl: spawning worker %d: %w", i, err)
		}
		sv.log.Infow("worker spawned", "worker_id", id, "pid", cmd.Process.Pid)
		proc := &supervisedProc{id: id, cmd: cmd}
		sv.mu.Lock()
		sv.procs = append(sv.procs, proc)
		sv.mu.Unlock()
		group.Go(func() error {
			err := cmd.Wait()
			if err != nil && groupCtx.Err() == nil {
				sv.log.Warnw("worker exited unexpectedly", "worker_id", proc.id, "err", err)
			}
			return err
		})
	}
	return nil
}

// Wait blocks until every worker child process has exited.
func (sv *Supervisor) Wait() error {
	return sv.group.Wait()
}

func (sv *Supervisor) doStop() internal.DoneChan {
	done := make(internal.DoneChan)
	go func() {
		defer close(done)
		sv.signalAll(syscall.SIGTERM)

		waited := make(chan struct{})
		go func() {
			_ = sv.group.Wait()
			close(waited)
		}()

		select {
		case <-waited:
			return
		case <-time.After(sv.gracePeriod):
			sv.signalAll(syscall.SIGKILL)
			<-waited
		}
	}()
	return done
}

func (sv *Supervisor) signalAll(sig syscall.Signal) {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	for _, p := range sv.procs {
		if p.cmd.Process == nil {
			continue
		}
		if err := syscall.Kill(-p.cmd.Process.Pid, sig); err != nil {
			sv.log.Warnw("signal delivery failed", "worker_id", p.id, "pid", p.cmd.Process.Pid, "signal", sig, "err", err)
		}
	}
}

// Stop signals every worker child to shut down gracefully, escalating to
// SIGKILL after the configured grace period, and waits for all to be
// reaped. Stop returns ErrStopTimeout if reaping does not complete within
// the provided timeout (on top of the internal grace period escalation).
func (sv *Supervisor) Stop(timeout time.Duration) error {
	if sv.cancel != nil {
		defer sv.cancel()
	}
	return sv.tryStop(timeout, sv.doStop)
}

// PIDs returns the process IDs of every currently-tracked worker child.
func (sv *Supervisor) PIDs() []int {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	ret := make([]int, len(sv.procs))
	for i, p := range sv.procs {
		ret[i] = p.cmd.Process.Pid
	}
	return ret
}

// SignalWorkers sends sig directly to the process group of each pid. It
// is used by the standalone `worker stop` command, which discovers
// worker PIDs from the registry and signals them directly rather than
// going through an in-process Supervisor.
func SignalWorkers(pids []int, sig syscall.Signal) {
	for _, pid := range pids {
		_ = syscall.Kill(-pid, sig)
	}
}
