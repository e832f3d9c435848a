package archive

import (
	"errors"
	"path/filepath"
	"testing"

	"spogitify/internal/shared"
)

func TestLock(t *testing.T) {
	t.Run("LockPath", func(t *testing.T) {
		if got := LockPath("spotify-archive"); got != "spotify-archive.lock" {
			t.Errorf("expected spotify-archive.lock, got %s", got)
		}
		if got := LockPath("/data/archive/"); got != "/data/archive.lock" {
			t.Errorf("expected /data/archive.lock, got %s", got)
		}
	})

	t.Run("AcquireAndRelease", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "archive.lock")

		lock, err := AcquireLock(path)
		if err != nil {
			t.Fatalf("failed to acquire lock: %v", err)
		}
		if err := lock.Release(); err != nil {
			t.Errorf("failed to release lock: %v", err)
		}
	})

	t.Run("SecondAcquireFailsBusy", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "archive.lock")

		lock, err := AcquireLock(path)
		if err != nil {
			t.Fatalf("failed to acquire lock: %v", err)
		}
		defer lock.Release()

		if _, err := AcquireLock(path); !errors.Is(err, shared.ErrArchiveBusy) {
			t.Errorf("expected ErrArchiveBusy, got %v", err)
		}
	})

	t.Run("ReacquireAfterRelease", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "archive.lock")

		lock, err := AcquireLock(path)
		if err != nil {
			t.Fatalf("failed to acquire lock: %v", err)
		}
		lock.Release()

		lock2, err := AcquireLock(path)
		if err != nil {
			t.Fatalf("failed to reacquire lock: %v", err)
		}
		lock2.Release()
	})
}
