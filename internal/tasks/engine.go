package tasks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"spogitify/internal/archive"
	"spogitify/internal/models"
	"spogitify/internal/services"
	"spogitify/internal/shared"
	"spogitify/internal/snapshot"
)

// PlaylistWarning is a per-playlist failure isolated from the rest of the run.
type PlaylistWarning struct {
	PlaylistID   string
	PlaylistName string
	Err          error
}

// RunResult contains the outcome of one archive run.
type RunResult struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Fetched    int               // playlists returned by the service
	Included   int               // playlists archived this run
	Excluded   int               // playlists dropped by exclusion rules
	Failed     int               // playlists skipped due to isolated errors
	Warnings   []PlaylistWarning // one entry per failed playlist
	ChangeSet  *archive.ChangeSet
	RevisionID string
	NoOp       bool  // true when nothing changed and no revision was created
	PushError  error // push failure after a successful commit; not run-fatal
}

// Counts reports the change-set sizes, tolerating a nil change-set on failed runs.
func (r *RunResult) Counts() (added, changed, removed int) {
	if r.ChangeSet == nil {
		return 0, 0, 0
	}
	return len(r.ChangeSet.Added), len(r.ChangeSet.Changed), len(r.ChangeSet.Removed)
}

// EngineOpts contains dependencies and tuning for an ArchiveEngine.
type EngineOpts struct {
	Service   services.Service
	Store     archive.RevisionStore
	Layout    snapshot.Layout
	Filter    snapshot.FilterConfig
	LockPath  string  // empty disables locking (tests)
	Workers   int     // concurrent track fetchers (default 5, max 10)
	RateLimit float64 // requests per second (default 5)
	Now       func() time.Time
}

// ArchiveEngine executes archive runs against one service and one revision store.
type ArchiveEngine struct {
	service   services.Service
	store     archive.RevisionStore
	layout    snapshot.Layout
	filter    snapshot.FilterConfig
	lockPath  string
	workers   int
	rateLimit float64
	now       func() time.Time
}

// NewArchiveEngine creates an ArchiveEngine, applying defaults for unset tuning.
func NewArchiveEngine(opts EngineOpts) *ArchiveEngine {
	if opts.Workers <= 0 {
		opts.Workers = 5
	}
	if opts.Workers > 10 {
		opts.Workers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &ArchiveEngine{
		service:   opts.Service,
		store:     opts.Store,
		layout:    opts.Layout,
		filter:    opts.Filter,
		lockPath:  opts.LockPath,
		workers:   opts.Workers,
		rateLimit: opts.RateLimit,
		now:       opts.Now,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *ArchiveEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// fetchResult is the outcome of one playlist's track fetch.
type fetchResult struct {
	index int
	pl    services.RawPlaylist
	items []services.RawPlaylistTrack
	err   error
}

// Run executes one archive run.
//
// The archive lock is held for the full run and released on every exit
// path. Diffing never starts until all track fetches have completed. The
// returned error, if any, is one of the shared sentinels wrapped with
// context; the RunResult carries whatever was learned before the failure.
func (e *ArchiveEngine) Run(ctx context.Context, progress chan<- ProgressUpdate) (*RunResult, error) {
	if e.service == nil {
		return nil, fmt.Errorf("archive engine requires a fetch service")
	}
	if e.store == nil {
		return nil, fmt.Errorf("archive engine requires a revision store")
	}

	result := &RunResult{
		RunID:     shared.GenerateID(),
		StartedAt: e.now(),
	}
	defer func() { result.FinishedAt = e.now() }()

	if e.lockPath != "" {
		e.sendProgress(progress, acquireLockUpdate(e.lockPath))
		lock, err := archive.AcquireLock(e.lockPath)
		if err != nil {
			return result, err
		}
		defer lock.Release()
	}

	e.sendProgress(progress, listPlaylistsUpdate())
	raw, err := e.service.ListPlaylists(ctx)
	if err != nil {
		return result, err
	}
	result.Fetched = len(raw)

	// Paginated responses can repeat a playlist; first occurrence wins.
	seen := make(map[string]bool, len(raw))
	var candidates []services.RawPlaylist
	for _, pl := range raw {
		if pl.ID != "" && seen[pl.ID] {
			continue
		}
		seen[pl.ID] = true

		// Excluded playlists never have their tracks fetched; the filter
		// re-applies on normalized snapshots with the same predicate.
		if e.filter.Excludes(pl.ID, pl.Name, pl.Owner.ID) {
			result.Excluded++
			continue
		}
		candidates = append(candidates, pl)
	}

	fetched, err := e.fetchTracks(ctx, progress, candidates)
	if err != nil {
		return result, err
	}

	capturedAt := e.now()
	var snapshots []*models.PlaylistSnapshot
	for _, fr := range fetched {
		if fr.err != nil {
			result.Failed++
			result.Warnings = append(result.Warnings, PlaylistWarning{
				PlaylistID:   fr.pl.ID,
				PlaylistName: fr.pl.Name,
				Err:          fr.err,
			})
			continue
		}

		snap, err := snapshot.Normalize(fr.pl, fr.items, capturedAt)
		if err != nil {
			result.Failed++
			result.Warnings = append(result.Warnings, PlaylistWarning{
				PlaylistID:   fr.pl.ID,
				PlaylistName: fr.pl.Name,
				Err:          err,
			})
			continue
		}
		snapshots = append(snapshots, snap)
	}

	kept, excluded := e.filter.Apply(snapshots)
	result.Excluded += len(excluded)
	result.Included = len(kept)

	e.sendProgress(progress, buildSnapshotUpdate(len(kept)))
	next, err := snapshot.BuildArtifacts(kept, e.layout)
	if err != nil {
		return result, err
	}

	e.sendProgress(progress, diffArchiveUpdate())
	prior, err := e.store.CurrentHead(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to read archived state: %w", err)
	}

	cs := archive.Diff(prior, next, e.layout)
	result.ChangeSet = cs

	if cs.Empty() {
		result.NoOp = true
		return result, nil
	}

	e.sendProgress(progress, commitRevisionUpdate(cs.Len()))
	revision, err := archive.NewWriter(e.store, e.layout).Apply(ctx, cs, prior, next)
	if err != nil {
		return result, err
	}
	result.RevisionID = revision

	if pusher, ok := e.store.(archive.RemotePusher); ok {
		e.sendProgress(progress, pushRemoteUpdate())
		// The local revision already exists; a failed push retries next run.
		result.PushError = pusher.Push(ctx)
	}

	return result, nil
}

// fetchTracks fetches every candidate playlist's tracks through a bounded
// worker pool behind a shared rate limiter.
//
// All fetches complete before it returns. Account-level failures (auth,
// token expiry, rate limiting, cancellation) are returned as the run error;
// anything else stays attached to its playlist for per-playlist isolation.
func (e *ArchiveEngine) fetchTracks(ctx context.Context, progress chan<- ProgressUpdate, candidates []services.RawPlaylist) ([]fetchResult, error) {
	total := len(candidates)
	if total == 0 {
		return nil, nil
	}

	limiter := rate.NewLimiter(rate.Limit(e.rateLimit), 1)
	jobs := make(chan fetchResult, total)
	results := make(chan fetchResult, total)

	var wg sync.WaitGroup
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				if err := limiter.Wait(ctx); err != nil {
					job.err = err
					results <- job
					continue
				}
				job.items, job.err = e.service.ListTracks(ctx, job.pl.ID)
				results <- job
			}
		}()
	}

	for i, pl := range candidates {
		e.sendProgress(progress, fetchTracksUpdate(i+1, total, pl.Name))
		jobs <- fetchResult{index: i, pl: pl}
	}
	close(jobs)
	wg.Wait()
	close(results)

	fetched := make([]fetchResult, 0, total)
	for fr := range results {
		fetched = append(fetched, fr)
	}
	sort.Slice(fetched, func(i, j int) bool { return fetched[i].index < fetched[j].index })

	for _, fr := range fetched {
		if fr.err == nil {
			continue
		}
		if errors.Is(fr.err, shared.ErrAuthFailed) ||
			errors.Is(fr.err, shared.ErrTokenExpired) ||
			errors.Is(fr.err, shared.ErrRateLimited) ||
			errors.Is(fr.err, context.Canceled) ||
			errors.Is(fr.err, context.DeadlineExceeded) {
			return nil, fr.err
		}
	}

	return fetched, nil
}
