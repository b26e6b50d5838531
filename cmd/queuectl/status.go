package main

import (
	"context"
	"fmt"

	"github.com/queuectl/queuectl/job"
)

var statusOrder = []job.Status{job.Pending, job.Processing, job.Completed, job.Dead}

func runStatus(ctx context.Context, args []string) error {
	fs := newFlagSet("status")
	fs.Parse(args)

	a, err := newApp(ctx, bootConfigPath)
	if err != nil {
		return err
	}
	defer a.close()

	st, err := a.queue.Status(ctx)
	if err != nil {
		return err
	}
	for _, s := range statusOrder {
		fmt.Printf("%-12s %d\n", s, st.Counts[s])
	}
	fmt.Printf("workers: %d live / %d total\n", st.LiveWorkers, st.TotalWorkers)
	return nil
}
