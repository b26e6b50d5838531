package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	queuectl "github.com/queuectl/queuectl"
	"github.com/queuectl/queuectl/config"
)

const pidFileName = ".queuectl.worker.pid"

func runWorker(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return queuectl.NewValidationError("worker requires a subcommand: start, stop, run")
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "start":
		return runWorkerStart(ctx, rest)
	case "stop":
		return runWorkerStop(ctx, rest)
	case "run":
		// Hidden entrypoint re-exec'd by the supervisor for each worker
		// child process; not part of the documented CLI surface.
		return runWorkerRun(ctx, rest)
	default:
		return queuectl.NewValidationError("worker: unknown subcommand %q", sub)
	}
}

func runWorkerStart(ctx context.Context, args []string) error {
	fs := newFlagSet("worker start")
	count := fs.Int("count", 1, "number of worker processes to run")
	detach := fs.Bool("detach", false, "fork the supervisor into the background and return immediately")
	fs.Parse(args)
	if *count < 1 {
		return queuectl.NewValidationError("worker start: --count must be >= 1")
	}

	if *detach {
		return detachSupervisor(*count)
	}
	return runSupervisorForeground(ctx, *count)
}

func detachSupervisor(count int) error {
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolving own executable path: %w", err)
	}
	cmd := exec.Command(execPath, "worker", "start", "--count", strconv.Itoa(count))
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawning detached supervisor: %w", err)
	}
	if err := os.WriteFile(pidFileName, []byte(strconv.Itoa(cmd.Process.Pid)), 0o644); err != nil {
		return fmt.Errorf("writing pid file: %w", err)
	}
	fmt.Printf("supervisor started in background, pid=%d\n", cmd.Process.Pid)
	return nil
}

func runSupervisorForeground(ctx context.Context, count int) error {
	a, err := newApp(ctx, bootConfigPath)
	if err != nil {
		return err
	}
	defer a.close()

	staleRaw, err := a.store.GetConfig(ctx, config.StaleWorkerTimeoutSeconds)
	if err != nil {
		return err
	}
	staleSeconds, err := config.Int(staleRaw)
	if err != nil {
		return err
	}
	staleTimeout := time.Duration(staleSeconds) * time.Second

	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolving own executable path: %w", err)
	}

	sv := queuectl.NewSupervisor(a.store, queuectl.SupervisorConfig{
		Count:    count,
		ExecPath: execPath,
		WorkerArgs: func(id string) []string {
			// QUEUECTL_CONFIG is inherited from the parent's environment,
			// so each worker child resolves the same bootstrap config.
			return []string{"worker", "run", "--id", id}
		},
		GracePeriod: 10 * time.Second,
	}, a.log)

	if _, err := sv.RecoverOrphans(ctx, staleTimeout); err != nil {
		a.log.Warnw("orphan recovery failed", "err", err)
	}

	if err := sv.Start(ctx); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	waitErr := make(chan error, 1)
	go func() { waitErr <- sv.Wait() }()

	select {
	case sig := <-sigCh:
		a.log.Infow("shutting down workers", "signal", sig)
		if err := sv.Stop(15 * time.Second); err != nil {
			a.log.Warnw("supervisor stop did not complete cleanly", "err", err)
		}
		<-waitErr
	case err := <-waitErr:
		if err != nil {
			a.log.Warnw("a worker exited unexpectedly", "err", err)
		}
	}
	return nil
}

func runWorkerRun(ctx context.Context, args []string) error {
	fs := newFlagSet("worker run")
	id := fs.String("id", "", "worker registry id")
	fs.Parse(args)

	a, err := newApp(ctx, bootConfigPath)
	if err != nil {
		return err
	}
	defer a.close()

	pollRaw, err := a.store.GetConfig(ctx, config.PollIntervalMs)
	if err != nil {
		return err
	}
	pollMs, err := config.Int(pollRaw)
	if err != nil {
		return err
	}

	w := queuectl.NewWorker(a.store, a.queue, queuectl.WorkerConfig{
		ID:           *id,
		PollInterval: time.Duration(pollMs) * time.Millisecond,
	}, a.log)

	if err := w.Start(ctx); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	<-sigCh

	a.log.Infow("worker shutting down", "worker_id", w.ID())
	return w.Stop(context.Background(), 30*time.Second)
}

func runWorkerStop(ctx context.Context, args []string) error {
	fs := newFlagSet("worker stop")
	fs.Parse(args)

	a, err := newApp(ctx, bootConfigPath)
	if err != nil {
		return err
	}
	defer a.close()

	workers, err := a.store.ListWorkers(ctx)
	if err != nil {
		return err
	}
	pids := make([]int, 0, len(workers))
	for _, w := range workers {
		pids = append(pids, w.PID)
	}
	queuectl.SignalWorkers(pids, syscall.SIGTERM)
	fmt.Printf("sent terminate to %d worker(s)\n", len(pids))

	_ = os.Remove(pidFileName)
	return nil
}
