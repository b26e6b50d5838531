package executor_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/queuectl/queuectl/executor"
)

func TestRunSuccess(t *testing.T) {
	res := executor.Run(context.Background(), "true", nil)
	if res.Outcome != executor.Succeeded {
		t.Fatalf("expected Succeeded, got %v (err=%v)", res.Outcome, res.Err)
	}
}

func TestRunFailure(t *testing.T) {
	res := executor.Run(context.Background(), "false", nil)
	if res.Outcome != executor.Failed {
		t.Fatalf("expected Failed, got %v", res.Outcome)
	}
	if !strings.Contains(res.Err.Error(), "exit code 1") {
		t.Fatalf("expected exit code message, got %q", res.Err.Error())
	}
}

func TestRunTimeout(t *testing.T) {
	timeout := 200 * time.Millisecond
	start := time.Now()
	res := executor.Run(context.Background(), "sleep 5", &timeout)
	elapsed := time.Since(start)

	if res.Outcome != executor.TimedOut {
		t.Fatalf("expected TimedOut, got %v", res.Outcome)
	}
	if !strings.Contains(res.Err.Error(), "imed out") {
		t.Fatalf("expected timeout message, got %q", res.Err.Error())
	}
	if elapsed > 3*time.Second {
		t.Fatalf("timeout took too long to resolve: %v", elapsed)
	}
}

func TestRunSpawnError(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	res := executor.Run(context.Background(), "true", nil)
	if res.Outcome != executor.SpawnError {
		t.Fatalf("expected SpawnError, got %v (err=%v)", res.Outcome, res.Err)
	}
	if res.Err == nil {
		t.Fatal("expected a non-nil Err describing the lookup failure")
	}
}
