package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"spogitify/internal/models"
)

// RunRepository persists archive run records.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a RunRepository with the given database connection.
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a run record.
func (r *RunRepository) Create(run *models.RunRecord) error {
	if run.ID == "" {
		return fmt.Errorf("run record requires an ID")
	}

	_, err := r.db.Exec(`
		INSERT INTO runs (id, started_at, finished_at, status, included, excluded, failed, added, changed, removed, revision_id, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339),
		run.FinishedAt.UTC().Format(time.RFC3339),
		run.Status,
		run.Included, run.Excluded, run.Failed,
		run.Added, run.Changed, run.Removed,
		run.RevisionID, run.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// Recent returns the most recent runs, newest first.
func (r *RunRepository) Recent(limit int) ([]models.RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.Query(`
		SELECT id, started_at, finished_at, status, included, excluded, failed, added, changed, removed, revision_id, error
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []models.RunRecord
	for rows.Next() {
		var run models.RunRecord
		var startedAt, finishedAt string
		if err := rows.Scan(
			&run.ID, &startedAt, &finishedAt, &run.Status,
			&run.Included, &run.Excluded, &run.Failed,
			&run.Added, &run.Changed, &run.Removed,
			&run.RevisionID, &run.Error,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, startedAt); err == nil {
			run.StartedAt = t
		}
		if t, err := time.Parse(time.RFC3339, finishedAt); err == nil {
			run.FinishedAt = t
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}

	return runs, nil
}

// LastCommitted returns the most recent run that created a revision, or nil.
// The lookup is by status, so any number of no-op or failed runs in between
// does not hide it.
func (r *RunRepository) LastCommitted() (*models.RunRecord, error) {
	row := r.db.QueryRow(`
		SELECT id, started_at, finished_at, status, included, excluded, failed, added, changed, removed, revision_id, error
		FROM runs WHERE status = ? ORDER BY started_at DESC LIMIT 1`,
		models.RunStatusCommitted)

	var run models.RunRecord
	var startedAt, finishedAt string
	err := row.Scan(
		&run.ID, &startedAt, &finishedAt, &run.Status,
		&run.Included, &run.Excluded, &run.Failed,
		&run.Added, &run.Changed, &run.Removed,
		&run.RevisionID, &run.Error,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query last committed run: %w", err)
	}

	if t, err := time.Parse(time.RFC3339, startedAt); err == nil {
		run.StartedAt = t
	}
	if t, err := time.Parse(time.RFC3339, finishedAt); err == nil {
		run.FinishedAt = t
	}
	return &run, nil
}
