// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"os"
	"testing"

	"spogitify/internal/archive"
	"spogitify/internal/services"
)

// MockService is a scriptable test double for [services.Service]
type MockService struct {
	AuthenticateFunc  func(ctx context.Context, credentials map[string]string) error
	ListPlaylistsFunc func(ctx context.Context) ([]services.RawPlaylist, error)
	ListTracksFunc    func(ctx context.Context, playlistID string) ([]services.RawPlaylistTrack, error)
}

func (m *MockService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, credentials)
	}
	return nil
}

func (m *MockService) ListPlaylists(ctx context.Context) ([]services.RawPlaylist, error) {
	if m.ListPlaylistsFunc != nil {
		return m.ListPlaylistsFunc(ctx)
	}
	return nil, nil
}

func (m *MockService) ListTracks(ctx context.Context, playlistID string) ([]services.RawPlaylistTrack, error) {
	if m.ListTracksFunc != nil {
		return m.ListTracksFunc(ctx, playlistID)
	}
	return nil, nil
}

func (m *MockService) Name() string { return "mock" }

// MockStore is an in-memory test double for [archive.RevisionStore] that
// records staged files and applies them to its head on commit.
type MockStore struct {
	Head        archive.ArtifactSet
	Staged      []archive.StagedFile
	Commits     []string // commit messages in order
	Revision    string   // revision id returned by Commit
	HeadErr     error
	StageErr    error
	CommitErr   error
	PushErr     error
	PushedCount int
}

func (s *MockStore) CurrentHead(ctx context.Context) (archive.ArtifactSet, error) {
	if s.HeadErr != nil {
		return nil, s.HeadErr
	}
	out := make(archive.ArtifactSet, len(s.Head))
	for path, data := range s.Head {
		out[path] = append([]byte(nil), data...)
	}
	return out, nil
}

func (s *MockStore) Stage(ctx context.Context, files []archive.StagedFile) error {
	if s.StageErr != nil {
		return s.StageErr
	}
	s.Staged = append(s.Staged, files...)
	return nil
}

func (s *MockStore) Commit(ctx context.Context, message string) (string, error) {
	if s.CommitErr != nil {
		return "", s.CommitErr
	}
	if s.Head == nil {
		s.Head = make(archive.ArtifactSet)
	}
	for _, f := range s.Staged {
		if f.Tombstone {
			delete(s.Head, f.Path)
		} else {
			s.Head[f.Path] = append([]byte(nil), f.Data...)
		}
	}
	s.Staged = nil
	s.Commits = append(s.Commits, message)
	if s.Revision == "" {
		s.Revision = "deadbeef"
	}
	return s.Revision, nil
}

func (s *MockStore) Push(ctx context.Context) error {
	s.PushedCount++
	return s.PushErr
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
