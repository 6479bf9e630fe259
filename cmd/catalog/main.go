package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// serve installs its own handler for a graceful shutdown; this one
	// cancels query commands.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
