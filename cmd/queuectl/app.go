package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	queuectl "github.com/queuectl/queuectl"
	"github.com/queuectl/queuectl/bootconfig"
	"github.com/queuectl/queuectl/config"
	"github.com/queuectl/queuectl/store"
)

// app bundles the dependencies every subcommand needs: an open store, the
// Queue facade over it, and a logger. Built once per process invocation
// by the subcommand being run, then torn down when it returns.
type app struct {
	store *store.SQLStore
	queue *queuectl.Queue
	log   *zap.SugaredLogger
}

func newApp(ctx context.Context, bootPath string) (*app, error) {
	boot, err := bootconfig.Load(bootPath)
	if err != nil {
		return nil, err
	}
	dbPath := boot.DBPath
	if dbPath == "" {
		dbPath = config.Default(config.DBPath)
	}
	logLevel := boot.LogLevel
	if logLevel == "" {
		logLevel = "info"
	}

	log, err := newLogger(logLevel)
	if err != nil {
		return nil, fmt.Errorf("starting logger: %w", err)
	}

	st, err := store.Open(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening store at %s: %w", dbPath, err)
	}

	queue := queuectl.NewQueue(st, log)
	return &app{store: st, queue: queue, log: log}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.log.Warnw("error closing store", "err", err)
	}
	_ = a.log.Sync()
}

// exitCode maps a returned error to the process exit status: 0 success,
// 2 validation/not-found/duplicate id, 1 everything else.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	switch err.(type) {
	case *queuectl.ValidationError, *queuectl.NotFoundError, *queuectl.DuplicateIDError:
		return 2
	default:
		return 1
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "queuectl:", err)
	os.Exit(exitCode(err))
}
