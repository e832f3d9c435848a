package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"spogitify/internal/archive"
	"spogitify/internal/models"
	"spogitify/internal/repositories"
	"spogitify/internal/shared"
	"spogitify/internal/snapshot"
	"spogitify/internal/tasks"
	"spogitify/internal/ui"
)

// ArchiveRun executes one full archive run: fetch, snapshot, diff, commit.
//
// The run is recorded in the ledger regardless of outcome. A no-op run
// (nothing changed) exits zero without creating a revision.
func (r *Runner) ArchiveRun(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	svc, err := r.spotifyService(ctx, config)
	if err != nil {
		return err
	}

	remote := config.Archive.Remote
	if cmd.Bool("no-push") {
		remote = ""
	}

	store, err := archive.OpenGitStore(ctx, config.Archive.Dir, remote)
	if err != nil {
		return err
	}

	layout := snapshot.Layout{
		PlaylistsDir:  config.Archive.PlaylistsDir,
		IndexFilename: config.Archive.IndexFilename,
	}

	engine := tasks.NewArchiveEngine(tasks.EngineOpts{
		Service: svc,
		Store:   store,
		Layout:  layout,
		Filter: snapshot.FilterConfig{
			ExcludeServiceOwned: config.Archive.Exclude.OwnedByService,
			ExcludeIDs:          config.Archive.Exclude.IDs,
			ExcludeNames:        config.Archive.Exclude.Names,
		},
		LockPath:  archive.LockPath(config.Archive.Dir),
		Workers:   config.Fetch.Workers,
		RateLimit: config.Fetch.RateLimit,
	})

	progress := make(chan tasks.ProgressUpdate, 50)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase.String())
		}
	}()

	result, runErr := engine.Run(ctx, progress)
	close(progress)
	<-drained

	if result != nil {
		r.recordRun(config, result, runErr)
		r.writePlainln("%s", ui.RenderRunSummary(result))
	}

	if runErr != nil {
		return fmt.Errorf("archive run failed: %w", runErr)
	}
	return nil
}

// ArchiveStatus shows recent runs from the ledger.
func (r *Runner) ArchiveStatus(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open run ledger: %w", err)
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	repo := repositories.NewRunRepository(db)
	runs, err := repo.Recent(int(cmd.Int("limit")))
	if err != nil {
		return err
	}
	last, err := repo.LastCommitted()
	if err != nil {
		return err
	}

	r.writePlainln("%s", ui.RenderStatus(runs, last))
	return nil
}

// recordRun persists the run outcome to the ledger. Ledger failures are
// logged, never fatal: the archive commit is the source of truth.
func (r *Runner) recordRun(config *shared.Config, result *tasks.RunResult, runErr error) {
	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		r.logger.Warn("failed to open run ledger", "error", err)
		return
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
	if err := shared.RunMigrations(db); err != nil {
		r.logger.Warn("failed to migrate run ledger", "error", err)
		return
	}

	status := models.RunStatusCommitted
	errText := ""
	switch {
	case runErr != nil:
		status = models.RunStatusFailed
		errText = runErr.Error()
	case result.NoOp:
		status = models.RunStatusNoOp
	}

	added, changed, removed := result.Counts()
	record := &models.RunRecord{
		ID:         result.RunID,
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
		Status:     status,
		Included:   result.Included,
		Excluded:   result.Excluded,
		Failed:     result.Failed,
		Added:      added,
		Changed:    changed,
		Removed:    removed,
		RevisionID: result.RevisionID,
		Error:      errText,
	}

	if err := repositories.NewRunRepository(db).Create(record); err != nil {
		r.logger.Warn("failed to record run", "error", err)
	}
}
