package archive

import (
	"bytes"
	"sort"

	"spogitify/internal/snapshot"
)

// ChangeKind classifies one artifact change.
type ChangeKind int

const (
	Added ChangeKind = iota
	Changed
	Removed
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Changed:
		return "changed"
	case Removed:
		return "removed"
	default:
		return ""
	}
}

// Change is one playlist artifact that differs between two snapshots.
type Change struct {
	ID   string
	Path string
	Kind ChangeKind
}

// ChangeSet is the ordered classification of all differences between the
// prior archived snapshot and the new one. Each category is sorted
// lexicographically by playlist ID; unchanged artifacts are not represented.
type ChangeSet struct {
	Added        []Change
	Changed      []Change
	Removed      []Change
	IndexChanged bool
}

// Empty reports whether the run is a true no-op: no artifact, index
// included, needs to change.
func (cs *ChangeSet) Empty() bool {
	return len(cs.Added) == 0 && len(cs.Changed) == 0 && len(cs.Removed) == 0 && !cs.IndexChanged
}

// Len returns the number of playlist changes (the index is not counted).
func (cs *ChangeSet) Len() int {
	return len(cs.Added) + len(cs.Changed) + len(cs.Removed)
}

// Diff compares the new artifact set against the prior archived one at byte
// granularity.
//
// Playlists present only in next are Added; present in both with differing
// bytes, Changed; present only in prior, Removed (their files must be
// deleted so the archive reflects current membership). Artifacts outside
// the layout (hand-committed files) are ignored entirely. The index
// artifact is compared like any other but tracked separately so an
// index-only change still forces a revision.
func Diff(prior, next ArtifactSet, layout snapshot.Layout) *ChangeSet {
	cs := &ChangeSet{}

	for path, data := range next {
		if path == layout.IndexPath() {
			priorData, ok := prior[path]
			cs.IndexChanged = !ok || !bytes.Equal(priorData, data)
			continue
		}

		id := layout.PlaylistID(path)
		if id == "" {
			continue
		}

		priorData, ok := prior[path]
		switch {
		case !ok:
			cs.Added = append(cs.Added, Change{ID: id, Path: path, Kind: Added})
		case !bytes.Equal(priorData, data):
			cs.Changed = append(cs.Changed, Change{ID: id, Path: path, Kind: Changed})
		}
	}

	for path := range prior {
		if _, ok := next[path]; ok {
			continue
		}
		if id := layout.PlaylistID(path); id != "" {
			cs.Removed = append(cs.Removed, Change{ID: id, Path: path, Kind: Removed})
		}
	}

	for _, group := range [][]Change{cs.Added, cs.Changed, cs.Removed} {
		sort.Slice(group, func(i, j int) bool { return group[i].ID < group[j].ID })
	}

	return cs
}
