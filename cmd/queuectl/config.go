package main

import (
	"context"
	"fmt"

	queuectl "github.com/queuectl/queuectl"
	"github.com/queuectl/queuectl/config"
)

func runConfig(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return queuectl.NewValidationError("config requires a subcommand: get, set, list")
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "get":
		return runConfigGet(ctx, rest)
	case "set":
		return runConfigSet(ctx, rest)
	case "list":
		return runConfigList(ctx, rest)
	default:
		return queuectl.NewValidationError("config: unknown subcommand %q", sub)
	}
}

func runConfigGet(ctx context.Context, args []string) error {
	fs := newFlagSet("config get")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return queuectl.NewValidationError("config get requires exactly one key")
	}
	key := config.Key(fs.Arg(0))

	a, err := newApp(ctx, bootConfigPath)
	if err != nil {
		return err
	}
	defer a.close()

	value, err := a.store.GetConfig(ctx, key)
	if err != nil {
		return err
	}
	fmt.Println(value)
	return nil
}

func runConfigSet(ctx context.Context, args []string) error {
	fs := newFlagSet("config set")
	fs.Parse(args)
	if fs.NArg() != 2 {
		return queuectl.NewValidationError("config set requires a key and a value")
	}
	key := config.Key(fs.Arg(0))
	value := fs.Arg(1)

	a, err := newApp(ctx, bootConfigPath)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.store.SetConfig(ctx, key, value); err != nil {
		return err
	}
	a.log.Infow("config updated", "key", key, "value", value)
	return nil
}

func runConfigList(ctx context.Context, args []string) error {
	fs := newFlagSet("config list")
	fs.Parse(args)

	a, err := newApp(ctx, bootConfigPath)
	if err != nil {
		return err
	}
	defer a.close()

	all, err := a.store.ListConfig(ctx)
	if err != nil {
		return err
	}
	for _, k := range config.Keys() {
		marker := "default"
		if all[k] != config.Default(k) {
			marker = "set"
		}
		fmt.Printf("%-32s %-20s (%s)\n", k, all[k], marker)
	}
	return nil
}
