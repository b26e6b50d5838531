package main

import (
	"context"
	"fmt"

	queuectl "github.com/queuectl/queuectl"
	"github.com/queuectl/queuectl/job"
)

func runList(ctx context.Context, args []string) error {
	fs := newFlagSet("list")
	state := fs.String("state", "", "filter by job state (pending, processing, completed, dead)")
	limit := fs.Int("limit", 0, "max rows to print (0 = unlimited)")
	fs.Parse(args)

	status := job.Unknown
	if *state != "" {
		var err error
		status, err = job.ParseStatus(*state)
		if err != nil {
			return queuectl.NewValidationError("%v", err)
		}
	}

	a, err := newApp(ctx, bootConfigPath)
	if err != nil {
		return err
	}
	defer a.close()

	jobs, err := a.queue.List(ctx, status, *limit)
	if err != nil {
		return err
	}
	for _, jb := range jobs {
		fmt.Printf("%s\t%s\t%s\tpriority=%d\tattempts=%d/%d\t%s\n",
			jb.ID, jb.Status, jb.NextRunAt.Format("2006-01-02T15:04:05Z07:00"),
			jb.Priority, jb.Attempts, jb.MaxRetries+1, jb.Command)
	}
	return nil
}
