package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/queuectl/queuectl/job"
	"github.com/queuectl/queuectl/registry"
	gstore "github.com/queuectl/queuectl/store"
)

func TestRegisterHeartbeatUnregister(t *testing.T) {
	db := newTestDB(t)
	s := gstore.NewWithDB(db)
	ctx := context.Background()

	now := time.Now()
	rec := registry.Record{WorkerID: "w1", PID: 123, Hostname: "host-a", StartedAt: now, LastHeartbeatAt: now}
	if err := s.RegisterWorker(ctx, rec); err != nil {
		t.Fatal(err)
	}

	workers, err := s.ListWorkers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(workers) != 1 || workers[0].WorkerID != "w1" {
		t.Fatalf("expected 1 worker w1, got %v", workers)
	}

	later := now.Add(time.Minute)
	if err := s.Heartbeat(ctx, "w1", later); err != nil {
		t.Fatal(err)
	}
	workers, err = s.ListWorkers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !workers[0].LastHeartbeatAt.Equal(later) {
		t.Fatalf("expected heartbeat updated to %v, got %v", later, workers[0].LastHeartbeatAt)
	}

	if err := s.UnregisterWorker(ctx, "w1"); err != nil {
		t.Fatal(err)
	}
	workers, err = s.ListWorkers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(workers) != 0 {
		t.Fatalf("expected no workers after unregister, got %d", len(workers))
	}
}

func TestHeartbeatUnknownWorker(t *testing.T) {
	db := newTestDB(t)
	s := gstore.NewWithDB(db)
	ctx := context.Background()

	if err := s.Heartbeat(ctx, "ghost", time.Now()); err == nil {
		t.Fatal("expected error heartbeating an unregistered worker")
	}
}

func TestFindStaleWorkers(t *testing.T) {
	db := newTestDB(t)
	s := gstore.NewWithDB(db)
	ctx := context.Background()

	now := time.Now()
	fresh := registry.Record{WorkerID: "fresh", PID: 1, Hostname: "h", StartedAt: now, LastHeartbeatAt: now}
	stale := registry.Record{WorkerID: "stale", PID: 2, Hostname: "h", StartedAt: now.Add(-time.Hour), LastHeartbeatAt: now.Add(-time.Hour)}
	if err := s.RegisterWorker(ctx, fresh); err != nil {
		t.Fatal(err)
	}
	if err := s.RegisterWorker(ctx, stale); err != nil {
		t.Fatal(err)
	}

	ids, err := s.FindStaleWorkers(ctx, now, 30*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != "stale" {
		t.Fatalf("expected only 'stale' worker, got %v", ids)
	}
}

func TestRecoverOrphansReturnsJobsAndBumpsAttempts(t *testing.T) {
	db := newTestDB(t)
	s := gstore.NewWithDB(db)
	ctx := context.Background()

	id, err := s.Enqueue(ctx, job.Spec{Command: "true"})
	if err != nil {
		t.Fatal(err)
	}
	claimed, err := s.ClaimNext(ctx, "deadworker", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if claimed.ID != id {
		t.Fatal("claim mismatch")
	}

	now := time.Now()
	n, err := s.RecoverOrphans(ctx, []string{"deadworker"}, now)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected 1 job recovered, got %d", n)
	}

	jb, err := s.GetJob(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if jb.Status != job.Pending {
		t.Fatalf("expected Pending, got %v", jb.Status)
	}
	if jb.WorkerID != nil {
		t.Fatal("expected worker_id cleared")
	}
	if jb.Attempts != 1 {
		t.Fatalf("expected attempts bumped to 1 (interrupted attempt consumed), got %d", jb.Attempts)
	}
}

func TestRecoverOrphansEmptySet(t *testing.T) {
	db := newTestDB(t)
	s := gstore.NewWithDB(db)
	ctx := context.Background()

	n, err := s.RecoverOrphans(ctx, nil, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("expected 0, got %d", n)
	}
}
