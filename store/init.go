package store

import (
	"context"
	"errors"

	"github.com/uptrace/bun"
)

func createTable(ctx context.Context, db bun.IDB, model any) error {
	_, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx)
	return err
}

func createIndex(ctx context.Context, db bun.IDB, model any, name string, columns ...string) error {
	_, err := db.NewCreateIndex().
		Model(model).
		Index(name).
		Column(columns...).
		IfNotExists().
		Exec(ctx)
	return err
}

func initDB(ctx context.Context, db *bun.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	steps := []func() error{
		func() error { return createTable(ctx, tx, (*jobModel)(nil)) },
		func() error { return createTable(ctx, tx, (*dlqModel)(nil)) },
		func() error { return createTable(ctx, tx, (*workerModel)(nil)) },
		func() error { return createTable(ctx, tx, (*configModel)(nil)) },
		func() error {
			return createIndex(ctx, tx, (*jobModel)(nil), "idx_jobs_status_next", "status", "next_run_at")
		},
		func() error {
			return createIndex(ctx, tx, (*jobModel)(nil), "idx_jobs_status_worker", "status", "worker_id")
		},
		func() error {
			return createIndex(ctx, tx, (*jobModel)(nil), "idx_jobs_updated", "updated_at")
		},
		func() error {
			return createIndex(ctx, tx, (*dlqModel)(nil), "idx_dlq_moved", "moved_at")
		},
		func() error {
			return createIndex(ctx, tx, (*workerModel)(nil), "idx_workers_heartbeat", "last_heartbeat_at")
		},
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return errors.Join(err, tx.Rollback())
		}
	}
	return tx.Commit()
}

// InitDB initializes the jobs, dlq, workers, and config tables plus their
// indexes inside a single transaction. It is idempotent and safe to call on
// every startup; it never drops or alters existing objects.
func InitDB(ctx context.Context, db *bun.DB) error {
	return initDB(ctx, db)
}

// MustInitDB behaves like InitDB but panics on failure, for use in
// application bootstrap code where a broken schema is unrecoverable.
func MustInitDB(ctx context.Context, db *bun.DB) {
	if err := initDB(ctx, db); err != nil {
		panic(err)
	}
}
