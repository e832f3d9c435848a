// Package ui renders archive run output for the terminal.
package ui

import (
	"fmt"
	"strings"
	"time"

	"spogitify/internal/models"
	"spogitify/internal/tasks"
)

// RenderRunSummary formats the outcome of an archive run.
func RenderRunSummary(result *tasks.RunResult) string {
	var b strings.Builder

	switch {
	case result.NoOp:
		b.WriteString(styles.ok.Render("✓ Archive up to date"))
		b.WriteString("\n")
	case result.RevisionID != "":
		b.WriteString(styles.ok.Render("✓ Archive updated"))
		b.WriteString(fmt.Sprintf("\nRevision: %s\n", result.RevisionID))
	default:
		b.WriteString(styles.err.Render("✗ Run did not complete"))
		b.WriteString("\n")
	}

	added, changed, removed := result.Counts()
	b.WriteString(fmt.Sprintf(
		"Playlists: %d fetched, %d archived, %d excluded\n",
		result.Fetched, result.Included, result.Excluded,
	))
	if result.ChangeSet != nil {
		b.WriteString(fmt.Sprintf("Changes: %d added, %d changed, %d removed\n", added, changed, removed))
	}

	if len(result.Warnings) > 0 {
		b.WriteString(styles.warn.Render(fmt.Sprintf("Skipped %d playlists:", len(result.Warnings))))
		b.WriteString("\n")
		for _, w := range result.Warnings {
			name := w.PlaylistName
			if name == "" {
				name = w.PlaylistID
			}
			b.WriteString(fmt.Sprintf("  • %s: %v\n", name, w.Err))
		}
	}

	if result.PushError != nil {
		b.WriteString(styles.warn.Render(fmt.Sprintf("Push failed: %v", result.PushError)))
		b.WriteString("\n")
	}

	b.WriteString(styles.dim.Render(fmt.Sprintf(
		"Completed in %s", result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond),
	)))

	return b.String()
}

// RenderStatus formats recent run history, newest first.
func RenderStatus(runs []models.RunRecord, lastCommitted *models.RunRecord) string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Archive Status"))
	b.WriteString("\n")

	if lastCommitted != nil {
		b.WriteString(fmt.Sprintf(
			"Last revision: %s (%s)\n\n",
			lastCommitted.RevisionID,
			lastCommitted.FinishedAt.Local().Format("2006-01-02 15:04"),
		))
	} else {
		b.WriteString(styles.dim.Render("No revisions recorded yet"))
		b.WriteString("\n\n")
	}

	if len(runs) == 0 {
		b.WriteString(styles.dim.Render("No runs recorded"))
		return b.String()
	}

	for _, run := range runs {
		b.WriteString(fmt.Sprintf(
			"%s  %s  +%d ~%d -%d",
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			renderStatusWord(run.Status),
			run.Added, run.Changed, run.Removed,
		))
		if run.Error != "" {
			b.WriteString("  " + styles.dim.Render(run.Error))
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func renderStatusWord(status string) string {
	switch status {
	case models.RunStatusCommitted:
		return styles.ok.Render("committed")
	case models.RunStatusNoOp:
		return styles.dim.Render("no-op")
	case models.RunStatusFailed:
		return styles.err.Render("failed")
	default:
		return status
	}
}

// RenderPlaylistLine formats one playlist row for listing commands, marking
// playlists the current exclusion rules would drop.
func RenderPlaylistLine(id, name, owner string, tracks int, excluded bool) string {
	line := fmt.Sprintf("%s  %s (%d tracks, owner %s)", id, name, tracks, owner)
	if excluded {
		return styles.dim.Render(line + "  [excluded]")
	}
	return line
}
