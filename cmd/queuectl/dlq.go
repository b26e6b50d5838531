package main

import (
	"context"
	"fmt"
	"time"

	queuectl "github.com/queuectl/queuectl"
)

func runDLQ(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return queuectl.NewValidationError("dlq requires a subcommand: list, retry, purge")
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		return runDLQList(ctx, rest)
	case "retry":
		return runDLQRetry(ctx, rest)
	case "purge":
		return runDLQPurge(ctx, rest)
	default:
		return queuectl.NewValidationError("dlq: unknown subcommand %q", sub)
	}
}

func runDLQList(ctx context.Context, args []string) error {
	fs := newFlagSet("dlq list")
	limit := fs.Int("limit", 0, "max rows to print (0 = unlimited)")
	fs.Parse(args)

	a, err := newApp(ctx, bootConfigPath)
	if err != nil {
		return err
	}
	defer a.close()

	entries, err := a.queue.ListDLQ(ctx, *limit)
	if err != nil {
		return err
	}
	for _, e := range entries {
		lastErr := ""
		if e.LastError != nil {
			lastErr = *e.LastError
		}
		fmt.Printf("%s\tjob=%s\tattempts=%d\t%s\t%s\n", e.ID, e.OriginalJobID, e.Attempts, e.MovedAt.Format(time.RFC3339), lastErr)
	}
	return nil
}

func runDLQRetry(ctx context.Context, args []string) error {
	fs := newFlagSet("dlq retry")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return queuectl.NewValidationError("dlq retry requires a DLQ entry id")
	}
	dlqID := fs.Arg(0)

	a, err := newApp(ctx, bootConfigPath)
	if err != nil {
		return err
	}
	defer a.close()

	newID, err := a.queue.RetryDLQ(ctx, dlqID)
	if err != nil {
		return err
	}
	fmt.Println(newID)
	return nil
}

func runDLQPurge(ctx context.Context, args []string) error {
	fs := newFlagSet("dlq purge")
	olderThan := fs.Int("older-than", 0, "purge entries moved at least this many days ago")
	force := fs.Bool("force", false, "confirm the purge")
	fs.Parse(args)
	if !*force {
		return queuectl.NewValidationError("dlq purge requires --force")
	}

	a, err := newApp(ctx, bootConfigPath)
	if err != nil {
		return err
	}
	defer a.close()

	n, err := a.queue.PurgeDLQ(ctx, time.Duration(*olderThan)*24*time.Hour)
	if err != nil {
		return err
	}
	fmt.Printf("purged %d\n", n)
	return nil
}
