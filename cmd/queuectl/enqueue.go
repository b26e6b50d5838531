package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	queuectl "github.com/queuectl/queuectl"
	"github.com/queuectl/queuectl/job"
)

func runEnqueue(ctx context.Context, args []string) error {
	fs := newFlagSet("enqueue")
	file := fs.String("file", "", "read the job spec JSON from PATH")
	command := fs.String("command", "", "shell command to run (alternative to a JSON spec)")
	id := fs.String("id", "", "caller-supplied job id")
	priority := fs.Int("priority", 0, "scheduling priority, higher runs first")
	maxRetries := fs.Int("max-retries", -1, "retries before dead-lettering (default: configured global)")
	timeout := fs.Int("timeout", 0, "per-attempt timeout in seconds")
	runAt := fs.String("run-at", "", "ISO-8601 time before which the job is not eligible")
	fs.Parse(args)

	spec, err := resolveEnqueueSpec(fs.Args(), *file, *command, *id, *priority, *maxRetries, *timeout, *runAt)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, bootConfigPath)
	if err != nil {
		return err
	}
	defer a.close()

	jobID, err := a.queue.Enqueue(ctx, spec)
	if err != nil {
		return err
	}
	fmt.Println(jobID)
	return nil
}

func resolveEnqueueSpec(positional []string, file, command, id string, priority, maxRetries, timeout int, runAt string) (job.Spec, error) {
	switch {
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return job.Spec{}, fmt.Errorf("reading %s: %w", file, err)
		}
		return decodeJobSpec(data)
	case command != "":
		in := specInput{Command: command}
		if id != "" {
			in.ID = &id
		}
		in.Priority = &priority
		if maxRetries >= 0 {
			in.MaxRetries = &maxRetries
		}
		if timeout > 0 {
			in.TimeoutSeconds = &timeout
		}
		if runAt != "" {
			in.RunAt = &runAt
		}
		return in.toSpec()
	case len(positional) == 1 && strings.TrimSpace(positional[0]) != "":
		return decodeJobSpec([]byte(positional[0]))
	default:
		return job.Spec{}, queuectl.NewValidationError("enqueue requires a positional JSON spec, --file PATH, or --command STR")
	}
}
