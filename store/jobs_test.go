package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	queuectl "github.com/queuectl/queuectl"
	"github.com/queuectl/queuectl/job"
	gstore "github.com/queuectl/queuectl/store"
)

func TestEnqueueAndClaim(t *testing.T) {
	db := newTestDB(t)
	s := gstore.NewWithDB(db)
	ctx := context.Background()

	id, err := s.Enqueue(ctx, job.Spec{Command: "true"})
	if err != nil {
		t.Fatal(err)
	}

	jb, err := s.ClaimNext(ctx, "w1", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if jb == nil {
		t.Fatal("expected a job to be claimed")
	}
	if jb.ID != id {
		t.Fatalf("expected id %s, got %s", id, jb.ID)
	}
	if jb.Status != job.Processing {
		t.Fatalf("expected Processing, got %v", jb.Status)
	}
	if jb.Attempts != 0 {
		t.Fatalf("expected Attempts=0 (claiming does not consume an attempt), got %d", jb.Attempts)
	}
	if jb.WorkerID == nil || *jb.WorkerID != "w1" {
		t.Fatalf("expected worker_id=w1, got %v", jb.WorkerID)
	}
}

func TestDuplicateID(t *testing.T) {
	db := newTestDB(t)
	s := gstore.NewWithDB(db)
	ctx := context.Background()

	if _, err := s.Enqueue(ctx, job.Spec{ID: "a", Command: "true"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Enqueue(ctx, job.Spec{ID: "a", Command: "true"}); err == nil {
		t.Fatal("expected DuplicateIDError")
	}
}

func TestClaimNextOnlyOneWinnerUnderConcurrency(t *testing.T) {
	db := newTestDB(t)
	s := gstore.NewWithDB(db)
	ctx := context.Background()

	id, err := s.Enqueue(ctx, job.Spec{Command: "true"})
	if err != nil {
		t.Fatal(err)
	}

	const workers = 8
	var wg sync.WaitGroup
	var claims atomic.Int32
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			jb, err := s.ClaimNext(ctx, workerName(n), time.Now())
			if err != nil {
				t.Error(err)
				return
			}
			if jb != nil && jb.ID == id {
				claims.Add(1)
			}
		}(i)
	}
	wg.Wait()

	if claims.Load() != 1 {
		t.Fatalf("expected exactly 1 successful claim, got %d", claims.Load())
	}
}

func workerName(n int) string {
	return "w" + string(rune('a'+n))
}

func TestCompleteRequiresProcessing(t *testing.T) {
	db := newTestDB(t)
	s := gstore.NewWithDB(db)
	ctx := context.Background()

	id, _ := s.Enqueue(ctx, job.Spec{Command: "true"})
	if err := s.Complete(ctx, id, "w1"); err == nil {
		t.Fatal("expected ErrJobLost completing a Pending job")
	}

	if _, err := s.ClaimNext(ctx, "w1", time.Now()); err != nil {
		t.Fatal(err)
	}
	if err := s.Complete(ctx, id, "w1"); err != nil {
		t.Fatal(err)
	}

	jb, err := s.GetJob(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if jb.Status != job.Completed {
		t.Fatalf("expected Completed, got %v", jb.Status)
	}
	if jb.WorkerID != nil {
		t.Fatal("expected worker_id cleared")
	}
}

func TestFailAndRetrySetsBackoffWindow(t *testing.T) {
	db := newTestDB(t)
	s := gstore.NewWithDB(db)
	ctx := context.Background()

	id, _ := s.Enqueue(ctx, job.Spec{Command: "false"})
	before := time.Now()
	if _, err := s.ClaimNext(ctx, "w1", before); err != nil {
		t.Fatal(err)
	}

	if err := s.FailAndRetry(ctx, id, "w1", "boom", 2*time.Second); err != nil {
		t.Fatal(err)
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
	if !jb.NextRunAt.After(before.Add(time.Second)) {
		t.Fatalf("expected next_run_at pushed out by backoff, got %v", jb.NextRunAt)
	}
	if jb.LastError == nil || *jb.LastError != "boom" {
		t.Fatalf("expected last_error=boom, got %v", jb.LastError)
	}

	claimed, err := s.ClaimNext(ctx, "w2", before)
	if err != nil {
		t.Fatal(err)
	}
	if claimed != nil {
		t.Fatal("expected job not yet eligible before next_run_at")
	}
}

func TestCompleteByWrongWorkerReturnsErrClaimLost(t *testing.T) {
	db := newTestDB(t)
	s := gstore.NewWithDB(db)
	ctx := context.Background()

	id, _ := s.Enqueue(ctx, job.Spec{Command: "true"})
	if _, err := s.ClaimNext(ctx, "w1", time.Now()); err != nil {
		t.Fatal(err)
	}
	if n, err := s.RecoverOrphans(ctx, []string{"w1"}, time.Now()); err != nil || n != 1 {
		t.Fatalf("RecoverOrphans() = %d, %v, want 1, nil", n, err)
	}
	if _, err := s.ClaimNext(ctx, "w2", time.Now()); err != nil {
		t.Fatal(err)
	}

	if err := s.Complete(ctx, id, "w1"); !errors.Is(err, queuectl.ErrClaimLost) {
		t.Fatalf("expected ErrClaimLost, got %v", err)
	}

	jb, err := s.GetJob(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if jb.Status != job.Processing || jb.WorkerID == nil || *jb.WorkerID != "w2" {
		t.Fatalf("expected job still Processing under w2, got status=%v worker=%v", jb.Status, jb.WorkerID)
	}
}

func TestFailAndDeadletterCreatesDLQEntry(t *testing.T) {
	db := newTestDB(t)
	s := gstore.NewWithDB(db)
	ctx := context.Background()

	id, _ := s.Enqueue(ctx, job.Spec{Command: "false"})
	if _, err := s.ClaimNext(ctx, "w1", time.Now()); err != nil {
		t.Fatal(err)
	}

	if err := s.FailAndDeadletter(ctx, id, "w1", "exhausted"); err != nil {
		t.Fatal(err)
	}

	jb, err := s.GetJob(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if jb.Status != job.Dead {
		t.Fatalf("expected Dead, got %v", jb.Status)
	}

	entries, err := s.ListDLQ(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 dlq entry, got %d", len(entries))
	}
	if entries[0].OriginalJobID != id {
		t.Fatalf("expected original_job_id=%s, got %s", id, entries[0].OriginalJobID)
	}
}

func TestMaxRetriesZeroGoesStraightToDead(t *testing.T) {
	db := newTestDB(t)
	s := gstore.NewWithDB(db)
	ctx := context.Background()

	zero := 0
	id, _ := s.Enqueue(ctx, job.Spec{Command: "false", MaxRetries: &zero})
	jb, err := s.ClaimNext(ctx, "w1", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if jb.MaxRetries != 0 {
		t.Fatalf("expected max_retries=0, got %d", jb.MaxRetries)
	}
	if err := s.FailAndDeadletter(ctx, id, "w1", "first failure"); err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetJob(ctx, id)
	if got.Status != job.Dead {
		t.Fatalf("expected Dead after a single failure, got %v", got.Status)
	}
	if got.Attempts != 1 {
		t.Fatalf("expected attempts=1 after the single consumed attempt, got %d", got.Attempts)
	}
}

func TestPriorityOrdering(t *testing.T) {
	db := newTestDB(t)
	s := gstore.NewWithDB(db)
	ctx := context.Background()

	low := 1
	high := 100
	mid := 50
	idLow, _ := s.Enqueue(ctx, job.Spec{Command: "true", Priority: low})
	idHigh, _ := s.Enqueue(ctx, job.Spec{Command: "true", Priority: high})
	idMid, _ := s.Enqueue(ctx, job.Spec{Command: "true", Priority: mid})

	var order []string
	for i := 0; i < 3; i++ {
		jb, err := s.ClaimNext(ctx, workerName(i), time.Now())
		if err != nil {
			t.Fatal(err)
		}
		order = append(order, jb.ID)
	}

	if order[0] != idHigh || order[1] != idMid || order[2] != idLow {
		t.Fatalf("expected order [high, mid, low], got %v", order)
	}
}

func TestRunAtFuture(t *testing.T) {
	db := newTestDB(t)
	s := gstore.NewWithDB(db)
	ctx := context.Background()

	future := time.Now().Add(time.Hour)
	id, _ := s.Enqueue(ctx, job.Spec{Command: "true", RunAt: &future})

	jb, err := s.ClaimNext(ctx, "w1", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if jb != nil {
		t.Fatal("expected future-scheduled job to not be claimable yet")
	}

	claimed, err := s.ClaimNext(ctx, "w1", future.Add(time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if claimed == nil || claimed.ID != id {
		t.Fatal("expected job claimable once run_at has passed")
	}
}
