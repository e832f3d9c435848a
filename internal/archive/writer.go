package archive

import (
	"context"
	"fmt"

	"spogitify/internal/snapshot"
)

// Writer applies a change-set to the revision store as exactly one revision.
type Writer struct {
	store  RevisionStore
	layout snapshot.Layout
}

// NewWriter creates a Writer over the given store and archive layout.
func NewWriter(store RevisionStore, layout snapshot.Layout) *Writer {
	return &Writer{store: store, layout: layout}
}

// Apply stages every artifact the change-set affects and commits them
// together, returning the new revision's identifier.
//
// An empty change-set performs no writes and creates no revision: running
// twice against unchanged upstream state produces no new history. On any
// failure before commit the archive head is untouched; the next run
// recomputes the full diff from scratch.
func (w *Writer) Apply(ctx context.Context, cs *ChangeSet, prior, next ArtifactSet) (string, error) {
	if cs.Empty() {
		return "", nil
	}

	var staged []StagedFile
	for _, group := range [][]Change{cs.Added, cs.Changed} {
		for _, ch := range group {
			data, ok := next[ch.Path]
			if !ok {
				return "", fmt.Errorf("change-set references missing artifact %s", ch.Path)
			}
			staged = append(staged, StagedFile{Path: ch.Path, Data: data})
		}
	}
	if cs.IndexChanged {
		data, ok := next[w.layout.IndexPath()]
		if !ok {
			return "", fmt.Errorf("change-set references missing index artifact")
		}
		staged = append(staged, StagedFile{Path: w.layout.IndexPath(), Data: data})
	}
	for _, ch := range cs.Removed {
		staged = append(staged, StagedFile{Path: ch.Path, Tombstone: true})
	}

	if err := w.store.Stage(ctx, staged); err != nil {
		return "", fmt.Errorf("failed to stage change-set: %w", err)
	}

	revision, err := w.store.Commit(ctx, BuildMessage(cs, prior, next, w.layout))
	if err != nil {
		return "", err
	}
	return revision, nil
}
