package store_test

import (
	"context"
	"testing"

	"github.com/queuectl/queuectl/config"
	gstore "github.com/queuectl/queuectl/store"
)

func TestGetConfigFallsBackToDefault(t *testing.T) {
	db := newTestDB(t)
	s := gstore.NewWithDB(db)
	ctx := context.Background()

	v, err := s.GetConfig(ctx, config.MaxRetries)
	if err != nil {
		t.Fatal(err)
	}
	if v != config.Default(config.MaxRetries) {
		t.Fatalf("expected default %q, got %q", config.Default(config.MaxRetries), v)
	}
}

func TestSetConfigOverridesAndIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	s := gstore.NewWithDB(db)
	ctx := context.Background()

	if err := s.SetConfig(ctx, config.MaxRetries, "5"); err != nil {
		t.Fatal(err)
	}
	v, err := s.GetConfig(ctx, config.MaxRetries)
	if err != nil {
		t.Fatal(err)
	}
	if v != "5" {
		t.Fatalf("expected 5, got %q", v)
	}

	if err := s.SetConfig(ctx, config.MaxRetries, "7"); err != nil {
		t.Fatal(err)
	}
	v, err = s.GetConfig(ctx, config.MaxRetries)
	if err != nil {
		t.Fatal(err)
	}
	if v != "7" {
		t.Fatalf("expected 7 after re-set, got %q", v)
	}
}

func TestSetConfigRejectsUnknownKey(t *testing.T) {
	db := newTestDB(t)
	s := gstore.NewWithDB(db)
	ctx := context.Background()

	if err := s.SetConfig(ctx, config.Key("not_a_real_key"), "x"); err == nil {
		t.Fatal("expected ValidationError for unknown key")
	}
}

func TestSetConfigRejectsInvalidValue(t *testing.T) {
	db := newTestDB(t)
	s := gstore.NewWithDB(db)
	ctx := context.Background()

	if err := s.SetConfig(ctx, config.BackoffBase, "0"); err == nil {
		t.Fatal("expected rejection of backoff_base below 1")
	}
	if err := s.SetConfig(ctx, config.MaxRetries, "not-a-number"); err == nil {
		t.Fatal("expected rejection of non-integer max_retries")
	}
}

func TestListConfigReturnsEveryKnownKey(t *testing.T) {
	db := newTestDB(t)
	s := gstore.NewWithDB(db)
	ctx := context.Background()

	if err := s.SetConfig(ctx, config.PollIntervalMs, "1000"); err != nil {
		t.Fatal(err)
	}

	all, err := s.ListConfig(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(config.Keys()) {
		t.Fatalf("expected %d keys, got %d", len(config.Keys()), len(all))
	}
	if all[config.PollIntervalMs] != "1000" {
		t.Fatalf("expected overridden value 1000, got %q", all[config.PollIntervalMs])
	}
	if all[config.DBPath] != config.Default(config.DBPath) {
		t.Fatalf("expected default db_path, got %q", all[config.DBPath])
	}
}
