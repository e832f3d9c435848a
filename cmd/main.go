package main

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"

	"spogitify/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	runner := NewRunner(RunnerOpts{
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "spogitify",
		Usage:    "Snapshot Spotify playlists into a versioned git archive",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		switch {
		case errors.Is(err, shared.ErrArchiveBusy):
			logger.Fatalf("another archive run is in progress: %v", err)
		case errors.Is(err, shared.ErrAuthFailed), errors.Is(err, shared.ErrTokenExpired):
			logger.Fatalf("authentication error: %v", err)
		case errors.Is(err, shared.ErrRateLimited):
			logger.Fatalf("rate limited, retry on the next scheduled run: %v", err)
		default:
			logger.Fatalf("application error: %v", err)
		}
	}
}
