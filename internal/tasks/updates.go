package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during an archive run.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	AcquireLock Phase = iota
	ListPlaylists
	FetchTracks
	BuildSnapshot
	DiffArchive
	CommitRevision
	PushRemote
)

func (p Phase) String() string {
	switch p {
	case AcquireLock:
		return "acquire_lock"
	case ListPlaylists:
		return "list_playlists"
	case FetchTracks:
		return "fetch_tracks"
	case BuildSnapshot:
		return "build_snapshot"
	case DiffArchive:
		return "diff_archive"
	case CommitRevision:
		return "commit_revision"
	case PushRemote:
		return "push_remote"
	default:
		return ""
	}
}

func acquireLockUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AcquireLock,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Acquiring archive lock (%s)...", path),
	}
}

func listPlaylistsUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   ListPlaylists,
		Step:    1,
		Total:   1,
		Message: "Fetching playlists from Spotify...",
	}
}

func fetchTracksUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching playlist: %s", step, total, name),
	}
}

func buildSnapshotUpdate(included int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BuildSnapshot,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Building snapshot of %d playlists...", included),
	}
}

func diffArchiveUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   DiffArchive,
		Step:    1,
		Total:   1,
		Message: "Comparing snapshot against archived state...",
	}
}

func commitRevisionUpdate(changes int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CommitRevision,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Committing revision (%d playlist changes)...", changes),
	}
}

func pushRemoteUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   PushRemote,
		Step:    1,
		Total:   1,
		Message: "Pushing to remote...",
	}
}
