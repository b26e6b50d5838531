package store

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/queuectl/queuectl/dlq"
	"github.com/queuectl/queuectl/job"
	"github.com/queuectl/queuectl/registry"
)

type jobModel struct {
	bun.BaseModel `bun:"table:jobs"`

	ID       string `bun:"id,pk"`
	Command  string `bun:"command,notnull"`
	Priority int    `bun:"priority,notnull,default:0"`

	MaxRetries     int  `bun:"max_retries,notnull"`
	TimeoutSeconds *int `bun:"timeout_seconds"`

	Status   job.Status `bun:"status,notnull"`
	Attempts uint32     `bun:"attempts,notnull,default:0"`
	WorkerID *string    `bun:"worker_id"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`

	RunAt     time.Time `bun:"run_at,notnull"`
	NextRunAt time.Time `bun:"next_run_at,notnull"`

	LastError *string `bun:"last_error"`
}

func (m *jobModel) toJob() *job.Job {
	return &job.Job{
		ID:             m.ID,
		Command:        m.Command,
		Priority:       m.Priority,
		MaxRetries:     m.MaxRetries,
		TimeoutSeconds: m.TimeoutSeconds,
		Status:         m.Status,
		Attempts:       m.Attempts,
		WorkerID:       m.WorkerID,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		RunAt:          m.RunAt,
		NextRunAt:      m.NextRunAt,
		LastError:      m.LastError,
	}
}

func fromSpec(spec job.Spec, id string, maxRetries int, runAt time.Time) *jobModel {
	now := time.Now()
	return &jobModel{
		ID:             id,
		Command:        spec.Command,
		Priority:       spec.Priority,
		MaxRetries:     maxRetries,
		TimeoutSeconds: spec.TimeoutSeconds,
		Status:         job.Pending,
		Attempts:       0,
		WorkerID:       nil,
		CreatedAt:      now,
		UpdatedAt:      now,
		RunAt:          runAt,
		NextRunAt:      runAt,
	}
}

type dlqModel struct {
	bun.BaseModel `bun:"table:dlq"`

	ID              string `bun:"id,pk"`
	OriginalJobID   string `bun:"original_job_id,notnull"`
	Command         string `bun:"command,notnull"`
	Attempts        uint32 `bun:"attempts,notnull"`
	LastError       *string `bun:"last_error"`
	MovedAt         time.Time `bun:"moved_at,nullzero,notnull,default:current_timestamp"`
}

func (m *dlqModel) toEntry() *dlq.Entry {
	return &dlq.Entry{
		ID:            m.ID,
		OriginalJobID: m.OriginalJobID,
		Command:       m.Command,
		Attempts:      m.Attempts,
		LastError:     m.LastError,
		MovedAt:       m.MovedAt,
	}
}

type workerModel struct {
	bun.BaseModel `bun:"table:workers"`

	WorkerID        string    `bun:"worker_id,pk"`
	PID             int       `bun:"pid,notnull"`
	Hostname        string    `bun:"hostname,notnull"`
	StartedAt       time.Time `bun:"started_at,nullzero,notnull,default:current_timestamp"`
	LastHeartbeatAt time.Time `bun:"last_heartbeat_at,nullzero,notnull,default:current_timestamp"`
}

func (m *workerModel) toRecord() *registry.Record {
	return &registry.Record{
		WorkerID:        m.WorkerID,
		PID:             m.PID,
		Hostname:        m.Hostname,
		StartedAt:       m.StartedAt,
		LastHeartbeatAt: m.LastHeartbeatAt,
	}
}

type configModel struct {
	bun.BaseModel `bun:"table:config"`

	Key   string `bun:"key,pk"`
	Value string `bun:"value,notnull"`
}
