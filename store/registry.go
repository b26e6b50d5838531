package store

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	queuectl "github.com/queuectl/queuectl"
	"github.com/queuectl/queuectl/job"
	"github.com/queuectl/queuectl/registry"
)

// RegisterWorker inserts a new worker registration. See queuectl.Store.
func (s *SQLStore) RegisterWorker(ctx context.Context, rec registry.Record) error {
	model := &workerModel{
		WorkerID:        rec.WorkerID,
		PID:             rec.PID,
		Hostname:        rec.Hostname,
		StartedAt:       rec.StartedAt,
		LastHeartbeatAt: rec.LastHeartbeatAt,
	}
	_, err := s.db.NewInsert().Model(model).Exec(ctx)
	if err != nil {
		return &queuectl.StoreError{Op: "register_worker", Err: err}
	}
	return nil
}

// Heartbeat refreshes workerID's last-seen timestamp. See queuectl.Store.
func (s *SQLStore) Heartbeat(ctx context.Context, workerID string, now time.Time) error {
	res, err := s.db.NewUpdate().
		Model((*workerModel)(nil)).
		Set("last_heartbeat_at = ?", now).
		Where("worker_id = ?", workerID).
		Exec(ctx)
	if err != nil {
		return &queuectl.StoreError{Op: "heartbeat", Err: err}
	}
	if !isAffected(res) {
		return queuectl.ErrJobLost
	}
	return nil
}

// UnregisterWorker removes workerID's registration. See queuectl.Store.
func (s *SQLStore) UnregisterWorker(ctx context.Context, workerID string) error {
	_, err := s.db.NewDelete().
		Model((*workerModel)(nil)).
		Where("worker_id = ?", workerID).
		Exec(ctx)
	if err != nil {
		return &queuectl.StoreError{Op: "unregister_worker", Err: err}
	}
	return nil
}

// ListWorkers returns every registered worker. See queuectl.Store.
func (s *SQLStore) ListWorkers(ctx context.Context) ([]*registry.Record, error) {
	var models []*workerModel
	if err := s.db.NewSelect().Model(&models).Order("worker_id ASC").Scan(ctx); err != nil {
		return nil, &queuectl.StoreError{Op: "list_workers", Err: err}
	}
	ret := make([]*registry.Record, len(models))
	for i, m := range models {
		ret[i] = m.toRecord()
	}
	return ret, nil
}

// FindStaleWorkers returns the IDs of workers whose heartbeat has gone
// stale as of now. See queuectl.Store.
func (s *SQLStore) FindStaleWorkers(ctx context.Context, now time.Time, timeout time.Duration) ([]string, error) {
	cutoff := now.Add(-timeout)
	var ids []string
	err := s.db.NewSelect().
		Model((*workerModel)(nil)).
		Column("worker_id").
		Where("last_heartbeat_at < ?", cutoff).
		Scan(ctx, &ids)
	if err != nil {
		return nil, &queuectl.StoreError{Op: "find_stale_workers", Err: err}
	}
	return ids, nil
}

// RecoverOrphans returns every Processing job owned by one of
// staleWorkerIDs to Pending, counting the interrupted attempt as consumed.
// See queuectl.Store.
func (s *SQLStore) RecoverOrphans(ctx context.Context, staleWorkerIDs []string, now time.Time) (int64, error) {
	if len(staleWorkerIDs) == 0 {
		return 0, nil
	}
	res, err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("status = ?", job.Pending).
		Set("worker_id = NULL").
		Set("attempts = attempts + 1").
		Set("next_run_at = ?", now).
		Set("updated_at = ?", now).
		Where("status = ?", job.Processing).
		Where("worker_id IN (?)", bun.In(staleWorkerIDs)).
		Exec(ctx)
	if err != nil {
		return 0, &queuectl.StoreError{Op: "recover_orphans", Err: err}
	}
	return getAffected(res), nil
}
