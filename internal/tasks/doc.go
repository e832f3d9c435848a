// Package tasks implements the archive run pipeline.
//
// The core abstraction is [ArchiveEngine], which executes one run end to
// end: acquire the archive lock, fetch playlist state (track fetches
// parallelized across a bounded worker pool behind a shared rate limiter),
// normalize and filter, build the snapshot artifacts, diff them against the
// revision store's head, and commit at most one new revision.
//
// Fetching is the only concurrent phase; diff and commit run strictly
// sequentially after every fetch has completed. Per-playlist failures are
// isolated into warnings on the [RunResult]; account-level failures (auth,
// rate limit) abort the run. Operations emit progress updates via channels
// for non-blocking status reporting to the CLI layer.
package tasks
