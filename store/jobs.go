package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	queuectl "github.com/queuectl/queuectl"
	"github.com/queuectl/queuectl/config"
	"github.com/queuectl/queuectl/job"
)

// Enqueue inserts spec as a new Pending job. See queuectl.Store.
func (s *SQLStore) Enqueue(ctx context.Context, spec job.Spec) (string, error) {
	if err := queuectl.Validate(spec); err != nil {
		return "", err
	}
	id := spec.ID
	if id == "" {
		id = uuid.NewString()
	}

	maxRetries, err := s.resolveMaxRetries(ctx, spec)
	if err != nil {
		return "", err
	}
	runAt := time.Now()
	if spec.RunAt != nil {
		runAt = *spec.RunAt
	}

	model := fromSpec(spec, id, maxRetries, runAt)
	_, err = s.db.NewInsert().Model(model).Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return "", &queuectl.DuplicateIDError{ID: id}
		}
		return "", &queuectl.StoreError{Op: "enqueue", Err: err}
	}
	return id, nil
}

func (s *SQLStore) resolveMaxRetries(ctx context.Context, spec job.Spec) (int, error) {
	if spec.MaxRetries != nil {
		return *spec.MaxRetries, nil
	}
	raw, err := s.GetConfig(ctx, config.MaxRetries)
	if err != nil {
		return 0, err
	}
	return config.Int(raw)
}

// ClaimNext atomically selects and claims the highest-priority eligible
// job. See queuectl.Store.
func (s *SQLStore) ClaimNext(ctx context.Context, workerID string, now time.Time) (*job.Job, error) {
	subQuery := s.db.NewSelect().
		Model((*jobModel)(nil)).
		Column("id").
		Where("status = ?", job.Pending).
		Where("next_run_at <= ?", now).
		Order("priority DESC", "created_at ASC", "id ASC").
		Limit(1)

	var models []*jobModel
	err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("status = ?", job.Processing).
		Set("worker_id = ?", workerID).
		Set("updated_at = ?", now).
		Where("id IN (?)", subQuery).
		Returning("*").
		Scan(ctx, &models)
	if err != nil {
		return nil, &queuectl.StoreError{Op: "claim_next", Err: err}
	}
	if len(models) == 0 {
		return nil, nil
	}
	return models[0].toJob(), nil
}

// Complete transitions a Processing job owned by workerID to Completed.
// See queuectl.Store.
func (s *SQLStore) Complete(ctx context.Context, jobID, workerID string) error {
	now := time.Now()
	res, err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("status = ?", job.Completed).
		Set("worker_id = NULL").
		Set("updated_at = ?", now).
		Where("id = ?", jobID).
		Where("status = ?", job.Processing).
		Where("worker_id = ?", workerID).
		Exec(ctx)
	if err != nil {
		return &queuectl.StoreError{Op: "complete", Err: err}
	}
	if isAffected(res) {
		return nil
	}
	return s.claimLossReason(ctx, jobID, workerID)
}

// FailAndRetry transitions a Processing job owned by workerID back to
// Pending with a computed backoff delay. See queuectl.Store.
func (s *SQLStore) FailAndRetry(ctx context.Context, jobID, workerID string, errMsg string, delay time.Duration) error {
	now := time.Now()
	nextRun := now.Add(delay)
	msg := truncate(errMsg, 500)
	res, err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("status = ?", job.Pending).
		Set("attempts = attempts + 1").
		Set("next_run_at = ?", nextRun).
		Set("worker_id = NULL").
		Set("updated_at = ?", now).
		Set("last_error = ?", msg).
		Where("id = ?", jobID).
		Where("status = ?", job.Processing).
		Where("worker_id = ?", workerID).
		Exec(ctx)
	if err != nil {
		return &queuectl.StoreError{Op: "fail_and_retry", Err: err}
	}
	if isAffected(res) {
		return nil
	}
	return s.claimLossReason(ctx, jobID, workerID)
}

// FailAndDeadletter atomically moves a Processing job owned by workerID to
// Dead and inserts a DLQ entry. See queuectl.Store.
func (s *SQLStore) FailAndDeadletter(ctx context.Context, jobID, workerID string, errMsg string) error {
	msg := truncate(errMsg, 500)
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		now := time.Now()
		var jm jobModel
		err := tx.NewSelect().Model(&jm).Where("id = ?", jobID).Scan(ctx)
		if err != nil {
			return queuectl.ErrJobLost
		}
		if jm.Status != job.Processing {
			return queuectl.ErrJobLost
		}
		if jm.WorkerID == nil || *jm.WorkerID != workerID {
			return queuectl.ErrClaimLost
		}
		res, err := tx.NewUpdate().
			Model((*jobModel)(nil)).
			Set("status = ?", job.Dead).
			Set("attempts = attempts + 1").
			Set("worker_id = NULL").
			Set("updated_at = ?", now).
			Set("last_error = ?", msg).
			Where("id = ?", jobID).
			Where("status = ?", job.Processing).
			Where("worker_id = ?", workerID).
			Exec(ctx)
		if err != nil {
			return &queuectl.StoreError{Op: "fail_and_deadletter", Err: err}
		}
		if !isAffected(res) {
			return queuectl.ErrClaimLost
		}
		entry := &dlqModel{
			ID:            uuid.NewString(),
			OriginalJobID: jm.ID,
			Command:       jm.Command,
			Attempts:      jm.Attempts + 1,
			LastError:     &msg,
			MovedAt:       now,
		}
		if _, err := tx.NewInsert().Model(entry).Exec(ctx); err != nil {
			return &queuectl.StoreError{Op: "fail_and_deadletter", Err: err}
		}
		return nil
	})
}

// claimLossReason runs after a worker_id-scoped update affects no rows, to
// tell a lost job (gone, or moved to a status other than Processing) apart
// from a lost claim (still Processing, but owned by a different worker).
func (s *SQLStore) claimLossReason(ctx context.Context, jobID, workerID string) error {
	var jm jobModel
	if err := s.db.NewSelect().Model(&jm).Where("id = ?", jobID).Scan(ctx); err != nil {
		return queuectl.ErrJobLost
	}
	if jm.Status == job.Processing && jm.WorkerID != nil && *jm.WorkerID != workerID {
		return queuectl.ErrClaimLost
	}
	return queuectl.ErrJobLost
}

// GetJob returns the job identified by id, or (nil, nil) if absent. See
// queuectl.Store.
func (s *SQLStore) GetJob(ctx context.Context, id string) (*job.Job, error) {
	var m jobModel
	err := s.db.NewSelect().Model(&m).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, &queuectl.StoreError{Op: "get_job", Err: err}
	}
	return m.toJob(), nil
}

// ListJobs returns up to limit jobs, optionally filtered by status. See
// queuectl.Store.
func (s *SQLStore) ListJobs(ctx context.Context, status job.Status, limit int) ([]*job.Job, error) {
	var models []*jobModel
	q := s.db.NewSelect().Model(&models).Order("priority DESC", "created_at ASC")
	if status != job.Unknown {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, &queuectl.StoreError{Op: "list_jobs", Err: err}
	}
	ret := make([]*job.Job, len(models))
	for i, m := range models {
		ret[i] = m.toJob()
	}
	return ret, nil
}

// CountByStatus returns the number of jobs in each status. See
// queuectl.Store.
func (s *SQLStore) CountByStatus(ctx context.Context) (map[job.Status]int64, error) {
	var rows []struct {
		Status job.Status `bun:"status"`
		Count  int64      `bun:"count"`
	}
	err := s.db.NewSelect().
		Model((*jobModel)(nil)).
		ColumnExpr("status").
		ColumnExpr("count(*) AS count").
		GroupExpr("status").
		Scan(ctx, &rows)
	if err != nil {
		return nil, &queuectl.StoreError{Op: "count_by_status", Err: err}
	}
	ret := make(map[job.Status]int64, len(rows))
	for _, r := range rows {
		ret[r.Status] = r.Count
	}
	return ret, nil
}
