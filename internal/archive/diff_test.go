package archive

import (
	"testing"

	"spogitify/internal/snapshot"
)

func testLayout() snapshot.Layout {
	return snapshot.Layout{PlaylistsDir: "playlists", IndexFilename: "playlists_metadata.csv"}
}

func TestDiff(t *testing.T) {
	layout := testLayout()

	t.Run("NoChanges", func(t *testing.T) {
		set := ArtifactSet{
			"playlists/p1.csv":       []byte("a"),
			"playlists_metadata.csv": []byte("idx"),
		}
		cs := Diff(set, set, layout)
		if !cs.Empty() {
			t.Errorf("identical sets should produce an empty change-set: %+v", cs)
		}
	})

	t.Run("AddedChangedRemoved", func(t *testing.T) {
		prior := ArtifactSet{
			"playlists/p1.csv":       []byte("a"),
			"playlists/p2.csv":       []byte("b"),
			"playlists_metadata.csv": []byte("idx1"),
		}
		next := ArtifactSet{
			"playlists/p1.csv":       []byte("a-modified"),
			"playlists/p3.csv":       []byte("c"),
			"playlists_metadata.csv": []byte("idx2"),
		}

		cs := Diff(prior, next, layout)

		if len(cs.Added) != 1 || cs.Added[0].ID != "p3" {
			t.Errorf("expected p3 added, got %+v", cs.Added)
		}
		if len(cs.Changed) != 1 || cs.Changed[0].ID != "p1" {
			t.Errorf("expected p1 changed, got %+v", cs.Changed)
		}
		if len(cs.Removed) != 1 || cs.Removed[0].ID != "p2" {
			t.Errorf("expected p2 removed, got %+v", cs.Removed)
		}
		if !cs.IndexChanged {
			t.Error("index bytes differ, IndexChanged should be true")
		}
	})

	t.Run("UnchangedPlaylistWithChangedIndex", func(t *testing.T) {
		// Index-only changes (e.g. a rename reflected only in metadata) still
		// force a revision.
		prior := ArtifactSet{
			"playlists/p1.csv":       []byte("a"),
			"playlists_metadata.csv": []byte("idx1"),
		}
		next := ArtifactSet{
			"playlists/p1.csv":       []byte("a"),
			"playlists_metadata.csv": []byte("idx2"),
		}

		cs := Diff(prior, next, layout)
		if cs.Len() != 0 {
			t.Errorf("expected no playlist changes, got %d", cs.Len())
		}
		if !cs.IndexChanged {
			t.Error("expected IndexChanged")
		}
		if cs.Empty() {
			t.Error("index-only change is not a no-op")
		}
	})

	t.Run("RemoveAllPlaylists", func(t *testing.T) {
		prior := ArtifactSet{
			"playlists/p1.csv":       []byte("a"),
			"playlists/p2.csv":       []byte("b"),
			"playlists_metadata.csv": []byte("idx1"),
		}
		next := ArtifactSet{
			"playlists_metadata.csv": []byte("idx-empty"),
		}

		cs := Diff(prior, next, layout)
		if len(cs.Removed) != 2 {
			t.Errorf("expected 2 removed, got %d", len(cs.Removed))
		}
		if !cs.IndexChanged {
			t.Error("expected IndexChanged")
		}
	})

	t.Run("ForeignFilesIgnored", func(t *testing.T) {
		prior := ArtifactSet{
			"README.md":              []byte("hand-committed"),
			"playlists/notes.txt":    []byte("also foreign"),
			"playlists_metadata.csv": []byte("idx"),
		}
		next := ArtifactSet{
			"playlists_metadata.csv": []byte("idx"),
		}

		cs := Diff(prior, next, layout)
		if !cs.Empty() {
			t.Errorf("files outside the layout must not appear in the change-set: %+v", cs)
		}
	})

	t.Run("SortedByID", func(t *testing.T) {
		prior := ArtifactSet{"playlists_metadata.csv": []byte("idx")}
		next := ArtifactSet{
			"playlists/zz.csv":       []byte("z"),
			"playlists/aa.csv":       []byte("a"),
			"playlists/mm.csv":       []byte("m"),
			"playlists_metadata.csv": []byte("idx2"),
		}

		cs := Diff(prior, next, layout)
		want := []string{"aa", "mm", "zz"}
		for i, id := range want {
			if cs.Added[i].ID != id {
				t.Errorf("position %d: expected %s, got %s", i, id, cs.Added[i].ID)
			}
		}
	})

	t.Run("MissingIndexInPrior", func(t *testing.T) {
		prior := ArtifactSet{}
		next := ArtifactSet{"playlists_metadata.csv": []byte("idx")}

		cs := Diff(prior, next, layout)
		if !cs.IndexChanged {
			t.Error("index appearing for the first time should mark IndexChanged")
		}
	})
}
