// Package main provides the entry point for the medguide CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/phodsawiR/MedGuideApp2/cmd/medguide/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Execute(ctx, cmd.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}); err != nil {
		os.Exit(1)
	}
}
