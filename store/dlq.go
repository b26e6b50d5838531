package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	queuectl "github.com/queuectl/queuectl"
	"github.com/queuectl/queuectl/config"
	"github.com/queuectl/queuectl/dlq"
	"github.com/queuectl/queuectl/job"
)

// ListDLQ returns up to limit DLQ entries, newest first. See
// queuectl.Store.
func (s *SQLStore) ListDLQ(ctx context.Context, limit int) ([]*dlq.Entry, error) {
	var models []*dlqModel
	q := s.db.NewSelect().Model(&models).Order("moved_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, &queuectl.StoreError{Op: "list_dlq", Err: err}
	}
	ret := make([]*dlq.Entry, len(models))
	for i, m := range models {
		ret[i] = m.toEntry()
	}
	return ret, nil
}

// RetryDLQ atomically removes the DLQ entry dlqID and inserts a fresh
// Pending job derived from it. See queuectl.Store.
func (s *SQLStore) RetryDLQ(ctx context.Context, dlqID string) (string, error) {
	var newID string
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var entry dlqModel
		err := tx.NewSelect().Model(&entry).Where("id = ?", dlqID).Scan(ctx)
		if err != nil {
			if isNoRows(err) {
				return &queuectl.NotFoundError{Kind: "dlq entry", ID: dlqID}
			}
			return &queuectl.StoreError{Op: "retry_dlq", Err: err}
		}

		res, err := tx.NewDelete().Model((*dlqModel)(nil)).Where("id = ?", dlqID).Exec(ctx)
		if err != nil {
			return &queuectl.StoreError{Op: "retry_dlq", Err: err}
		}
		if !isAffected(res) {
			return &queuectl.NotFoundError{Kind: "dlq entry", ID: dlqID}
		}

		maxRetries, err := resolveMaxRetriesTx(ctx, tx)
		if err != nil {
			return err
		}
		now := time.Now()
		newID = uuid.NewString()
		model := &jobModel{
			ID:         newID,
			Command:    entry.Command,
			Priority:   0,
			MaxRetries: maxRetries,
			Status:     job.Pending,
			Attempts:   0,
			CreatedAt:  now,
			UpdatedAt:  now,
			RunAt:      now,
			NextRunAt:  now,
		}
		if _, err := tx.NewInsert().Model(model).Exec(ctx); err != nil {
			return &queuectl.StoreError{Op: "retry_dlq", Err: err}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return newID, nil
}

func resolveMaxRetriesTx(ctx context.Context, tx bun.Tx) (int, error) {
	var m configModel
	err := tx.NewSelect().Model(&m).Where("key = ?", string(config.MaxRetries)).Scan(ctx)
	if isNoRows(err) {
		return config.Int(config.Default(config.MaxRetries))
	}
	if err != nil {
		return 0, &queuectl.StoreError{Op: "retry_dlq", Err: err}
	}
	return config.Int(m.Value)
}

// PurgeDLQ deletes DLQ entries moved at or before now minus olderThan. See
// queuectl.Store.
func (s *SQLStore) PurgeDLQ(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	res, err := s.db.NewDelete().
		Model((*dlqModel)(nil)).
		Where("moved_at <= ?", cutoff).
		Exec(ctx)
	if err != nil {
		return 0, &queuectl.StoreError{Op: "purge_dlq", Err: err}
	}
	return getAffected(res), nil
}
