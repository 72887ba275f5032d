// Command wordgraph builds a semantic word graph from dictionary
// definitions, searches it, validates it against human similarity
// judgements and serves it over HTTP.
//
// Configuration is read from CONFIG_PATH (fallback ./config.yaml) and the
// environment; command flags override it.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdin, os.Stdout).ExecuteContext(ctx); err != nil {
		slog.Error("wordgraph failed", slog.String("error", err.Error()))
		stop()
		os.Exit(1)
	}
}
