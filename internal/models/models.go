package models

import (
	"time"
)

// TrackEntry is one track position within a playlist.
//
// Position in the containing slice is part of identity: the same track ID at
// two positions is two distinct entries. AddedAt and AddedBy are
// service-reported and may be absent for legacy entries; absence is nil,
// never an empty placeholder.
type TrackEntry struct {
	TrackID       string
	Title         string
	Artist        string
	Album         string
	LengthSeconds int
	AddedAt       *time.Time
	AddedBy       *string
}

// PlaylistSnapshot is the complete captured state of one playlist at one point in time.
//
// ID is the stable external identifier: two snapshots with the same ID are
// versions of the same playlist across runs. Track order is preserved
// verbatim from the service; reordering alone is a meaningful change.
type PlaylistSnapshot struct {
	ID         string
	Name       string
	OwnerID    string
	OwnerName  string
	Tracks     []TrackEntry
	CapturedAt time.Time
}

// TotalLengthSeconds sums the length of every track in the snapshot.
func (s *PlaylistSnapshot) TotalLengthSeconds() int {
	total := 0
	for _, t := range s.Tracks {
		total += t.LengthSeconds
	}
	return total
}

// IndexEntry summarizes one included playlist for the archive index.
type IndexEntry struct {
	ID                 string
	Name               string
	Owner              string
	TrackCount         int
	TotalLengthSeconds int
}

// ArchiveIndex summarizes every included playlist of one run, sorted by playlist ID.
type ArchiveIndex struct {
	Entries []IndexEntry
}

// Run statuses recorded in the ledger.
const (
	RunStatusCommitted = "committed"
	RunStatusNoOp      = "no-op"
	RunStatusFailed    = "failed"
)

// RunRecord is one archive run in the ledger.
type RunRecord struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     string
	Included   int
	Excluded   int
	Failed     int
	Added      int
	Changed    int
	Removed    int
	RevisionID string
	Error      string
}
