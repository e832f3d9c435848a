package archive

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"spogitify/internal/shared"
)

// Lock is an exclusive file lock held for the duration of one archive run.
type Lock struct {
	fl *flock.Flock
}

// LockPath returns the lock file path for an archive directory. The lock is
// a sibling of the directory so the worktree stays free of runtime files.
func LockPath(archiveDir string) string {
	return filepath.Clean(strings.TrimRight(archiveDir, "/")) + ".lock"
}

// AcquireLock takes the exclusive archive lock, failing fast with
// [shared.ErrArchiveBusy] when another run already holds it.
func AcquireLock(path string) (*Lock, error) {
	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire archive lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", shared.ErrArchiveBusy, path)
	}
	return &Lock{fl: fl}, nil
}

// Release drops the lock. Safe to call on all exit paths.
func (l *Lock) Release() error {
	return l.fl.Unlock()
}
