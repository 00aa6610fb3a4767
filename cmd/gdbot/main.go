package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gdbot/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "gdbot:", err)
		stop()
		os.Exit(1)
	}
}
