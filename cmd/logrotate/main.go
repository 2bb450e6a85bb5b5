package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/crimson-sun/logrotate/internal/cmd"
)

func main() {
	// Set up graceful shutdown. A family already being rotated finishes; the run
	// stops before the next entry.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "\nreceived %v, shutting down...\n", sig)
		cancel()
	}()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "logrotate: %v\n", err)
		cancel()
		os.Exit(1)
	}
}
