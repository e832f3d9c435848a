package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"spogitify/internal/services"
	"spogitify/internal/shared"
	"spogitify/internal/tasks"
	tu "spogitify/internal/testing"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			spotify := &tu.MockService{}

			runner := NewRunner(RunnerOpts{
				Config:  config,
				Logger:  logger,
				Output:  output,
				Spotify: spotify,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.spotify != spotify {
				t.Error("expected spotify to be set")
			}
		})

		t.Run("with nil defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.logger == nil {
				t.Error("expected default logger")
			}
			if runner.output != os.Stdout {
				t.Error("expected stdout output")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("compact", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]int{"count": 3}, false); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if output.String() != `{"count":3}`+"\n" {
				t.Errorf("unexpected output: %q", output.String())
			}
		})

		t.Run("pretty", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]int{"count": 3}, true); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(output.String(), "  \"count\": 3") {
				t.Errorf("expected indented output, got %q", output.String())
			}
		})

		t.Run("write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})
			if err := runner.writeJSON(map[string]int{}, false); err == nil {
				t.Error("expected error from failing writer")
			}
		})

		t.Run("unmarshalable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})
			if err := runner.writeJSON(make(chan int), false); err == nil {
				t.Error("expected marshal error")
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlain("found %d playlists\n", 7); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.String() != "found 7 playlists\n" {
			t.Errorf("unexpected output: %q", output.String())
		}

		if err := NewRunner(RunnerOpts{Output: &tu.FWriter{}}).writePlain("x"); err == nil {
			t.Error("expected error from failing writer")
		}
	})

	t.Run("loadConfig", func(t *testing.T) {
		t.Run("injected config wins", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Archive.Dir = "injected"
			runner := NewRunner(RunnerOpts{Config: config})

			got, err := runner.loadConfig("does-not-exist.toml")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Archive.Dir != "injected" {
				t.Error("expected injected config")
			}
		})

		t.Run("missing file falls back to defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			got, err := runner.loadConfig(filepath.Join(t.TempDir(), "missing.toml"))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Archive.Dir != shared.DefaultConfig().Archive.Dir {
				t.Error("expected default config")
			}
		})

		t.Run("invalid file fails", func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(configPath, []byte("not [valid toml"), 0644); err != nil {
				t.Fatalf("failed to write file: %v", err)
			}

			runner := NewRunner(RunnerOpts{})
			if _, err := runner.loadConfig(configPath); err == nil {
				t.Error("expected error for invalid config")
			}
		})
	})

	t.Run("spotifyService", func(t *testing.T) {
		t.Run("injected service wins", func(t *testing.T) {
			spotify := &tu.MockService{}
			runner := NewRunner(RunnerOpts{Spotify: spotify})

			svc, err := runner.spotifyService(context.Background(), shared.DefaultConfig())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if svc != services.Service(spotify) {
				t.Error("expected injected service")
			}
		})

		t.Run("missing credentials fail", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if _, err := runner.spotifyService(context.Background(), shared.DefaultConfig()); err == nil {
				t.Error("expected error without credentials")
			}
		})

		t.Run("missing token fails", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Credentials.Spotify.ClientID = "id"
			config.Credentials.Spotify.ClientSecret = "secret"

			runner := NewRunner(RunnerOpts{})
			if _, err := runner.spotifyService(context.Background(), config); err == nil {
				t.Error("expected error without a stored token")
			}
		})
	})
}

func TestRecordRunStatus(t *testing.T) {
	// recordRun derives the ledger status from the run outcome.
	cases := []struct {
		name   string
		result tasks.RunResult
		runErr error
		want   string
	}{
		{"committed", tasks.RunResult{RevisionID: "abc"}, nil, "committed"},
		{"no-op", tasks.RunResult{NoOp: true}, nil, "no-op"},
		{"failed", tasks.RunResult{}, shared.ErrRateLimited, "failed"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			dir := t.TempDir()
			config := shared.DefaultConfig()
			config.Database.Path = filepath.Join(dir, "ledger.db")

			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Config: config, Output: output, Logger: shared.NewLogger(output)})

			result := c.result
			result.RunID = shared.GenerateID()
			runner.recordRun(config, &result, c.runErr)

			db, err := shared.NewDatabase(config.Database.Path)
			if err != nil {
				t.Fatalf("failed to open ledger: %v", err)
			}
			defer db.Close()

			var status string
			if err := db.QueryRow("SELECT status FROM runs WHERE id = ?", result.RunID).Scan(&status); err != nil {
				t.Fatalf("failed to read run: %v", err)
			}
			if status != c.want {
				t.Errorf("expected status %s, got %s", c.want, status)
			}
		})
	}
}
