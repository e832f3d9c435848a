// Package archive owns the versioned snapshot archive: reading the prior
// committed state, diffing it against a freshly built snapshot, and
// committing the result as exactly one new revision.
//
// The [RevisionStore] interface is the atomicity boundary. [GitStore] backs
// it with the git CLI; head state is always read from HEAD rather than the
// worktree, so files left behind by an interrupted run are never trusted.
//
// [Diff] classifies artifacts as Added, Changed or Removed at byte
// granularity and orders each category lexicographically by playlist ID.
// [Writer.Apply] stages the change-set (tombstones for removals) and
// commits it with a deterministic message; an empty change-set is a true
// no-op with no filesystem writes and no revision.
//
// Mutual exclusion across runs comes from [AcquireLock], a file lock kept
// for the run's duration; contention fails fast with [shared.ErrArchiveBusy].
package archive
