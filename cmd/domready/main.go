package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/xkilldash9x/domready/cmd"
	"github.com/xkilldash9x/domready/internal/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := cmd.Execute(ctx)
	stop()
	observability.Sync()

	// A run aborted by Ctrl+C is a clean exit, not a failure.
	if err != nil && !errors.Is(err, context.Canceled) {
		os.Exit(1)
	}
}
