// Command queuectl manages a single-node persistent background job queue:
// enqueuing shell commands, running workers that claim and execute them,
// and inspecting queue state, the dead-letter queue, and runtime config.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
)

var bootConfigPath = os.Getenv("QUEUECTL_CONFIG")

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	ctx := context.Background()
	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "enqueue":
		err = runEnqueue(ctx, args)
	case "list":
		err = runList(ctx, args)
	case "status":
		err = runStatus(ctx, args)
	case "dlq":
		err = runDLQ(ctx, args)
	case "config":
		err = runConfig(ctx, args)
	case "worker":
		err = runWorker(ctx, args)
	case "help", "-h", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "queuectl: unknown command %q\n", cmd)
		usage()
		os.Exit(1)
	}

	if err != nil {
		fail(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: queuectl <command> [arguments]

commands:
  enqueue   enqueue a job (JSON string, --file PATH, or --command ...)
  list      list jobs [--state S] [--limit N]
  status    summarize queue and worker state
  dlq       list|retry|purge dead-lettered jobs
  config    get|set|list runtime configuration
  worker    start|stop worker processes`)
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	return fs
}
