package archive

import (
	"context"
)

// ArtifactSet maps archive-relative paths to serialized artifact contents.
type ArtifactSet map[string][]byte

// StagedFile is one pending archive mutation: either new content for a path
// or a tombstone marking the path for deletion in the next revision.
type StagedFile struct {
	Path      string
	Data      []byte
	Tombstone bool
}

// RevisionStore is the revision-control collaborator.
//
// Stage accumulates pending mutations; Commit is the sole atomicity
// boundary and creates exactly one immutable revision. Implementations must
// leave the current head unchanged when Commit fails.
type RevisionStore interface {
	// CurrentHead returns the artifact set as of the latest committed
	// revision, or an empty set for a fresh archive.
	CurrentHead(ctx context.Context) (ArtifactSet, error)

	// Stage applies the given writes and tombstones to the pending revision.
	Stage(ctx context.Context, files []StagedFile) error

	// Commit creates one new revision from the staged files and returns its
	// identifier. Fails with shared.ErrCommitFailed if the revision could
	// not be created.
	Commit(ctx context.Context, message string) (string, error)
}

// RemotePusher is implemented by stores that can publish revisions to a
// configured remote. Push failures do not invalidate the local revision.
type RemotePusher interface {
	Push(ctx context.Context) error
}
