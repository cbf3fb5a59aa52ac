package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"sllm/internal/cli"
)

func main() {
	// Ctrl+C / SIGTERM cancel the running command
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.NewApp()
	err := app.Run(ctx, os.Args[1:])
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled) || ctx.Err() != nil:
		app.Log.Error().Msg("Interrupted.")
	default:
		cli.LogError(app.Log, err, app.Debug())
		stop()
		os.Exit(1)
	}
}
