package snapshot

import (
	"errors"
	"testing"
	"time"

	"spogitify/internal/services"
	"spogitify/internal/shared"
)

func rawPlaylist(id, name, ownerID string) services.RawPlaylist {
	return services.RawPlaylist{
		ID:    id,
		Name:  name,
		Owner: services.RawOwner{ID: ownerID, DisplayName: ownerID},
	}
}

func rawItem(trackID, title, artist, album, addedAt string) services.RawPlaylistTrack {
	item := services.RawPlaylistTrack{
		AddedAt: addedAt,
		Track: &services.RawTrack{
			ID:         trackID,
			Name:       title,
			DurationMS: 210000,
		},
	}
	item.Track.Album.Name = album
	if artist != "" {
		item.Track.Artists = []services.RawArtist{{Name: artist}}
	}
	return item
}

func TestNormalize(t *testing.T) {
	capturedAt := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	t.Run("CompleteRecord", func(t *testing.T) {
		item := rawItem("t1", "Song", "Artist", "Album", "2024-01-15T10:30:00Z")
		owner := "alice"
		item.AddedBy = &services.RawOwner{ID: owner}

		snap, err := Normalize(rawPlaylist("p1", "Mix", "alice"), []services.RawPlaylistTrack{item}, capturedAt)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if snap.ID != "p1" || snap.Name != "Mix" || snap.OwnerID != "alice" {
			t.Errorf("playlist identity mismatch: %+v", snap)
		}
		if !snap.CapturedAt.Equal(capturedAt) {
			t.Errorf("expected captured_at %v, got %v", capturedAt, snap.CapturedAt)
		}

		track := snap.Tracks[0]
		if track.TrackID != "t1" || track.Title != "Song" || track.Artist != "Artist" || track.Album != "Album" {
			t.Errorf("track fields mismatch: %+v", track)
		}
		if track.LengthSeconds != 210 {
			t.Errorf("expected 210 seconds, got %d", track.LengthSeconds)
		}
		if track.AddedAt == nil || !track.AddedAt.Equal(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)) {
			t.Errorf("added_at mismatch: %v", track.AddedAt)
		}
		if track.AddedBy == nil || *track.AddedBy != "alice" {
			t.Errorf("added_by mismatch: %v", track.AddedBy)
		}
	})

	t.Run("AbsentOptionalsAreNil", func(t *testing.T) {
		item := rawItem("t1", "Song", "Artist", "", "")

		snap, err := Normalize(rawPlaylist("p1", "Mix", "alice"), []services.RawPlaylistTrack{item}, capturedAt)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if snap.Tracks[0].AddedAt != nil {
			t.Errorf("expected nil added_at, got %v", snap.Tracks[0].AddedAt)
		}
		if snap.Tracks[0].AddedBy != nil {
			t.Errorf("expected nil added_by, got %v", snap.Tracks[0].AddedBy)
		}
	})

	t.Run("MissingPlaylistID", func(t *testing.T) {
		_, err := Normalize(rawPlaylist("", "Mix", "alice"), nil, capturedAt)
		if !errors.Is(err, shared.ErrMalformedRecord) {
			t.Errorf("expected ErrMalformedRecord, got %v", err)
		}
	})

	t.Run("MissingTrackID", func(t *testing.T) {
		items := []services.RawPlaylistTrack{
			rawItem("t1", "Song", "Artist", "", ""),
			rawItem("", "Broken", "Artist", "", ""),
		}
		_, err := Normalize(rawPlaylist("p1", "Mix", "alice"), items, capturedAt)
		if !errors.Is(err, shared.ErrMalformedRecord) {
			t.Errorf("expected ErrMalformedRecord, got %v", err)
		}
	})

	t.Run("NilTrack", func(t *testing.T) {
		items := []services.RawPlaylistTrack{{AddedAt: "2024-01-15T10:30:00Z"}}
		_, err := Normalize(rawPlaylist("p1", "Mix", "alice"), items, capturedAt)
		if !errors.Is(err, shared.ErrMalformedRecord) {
			t.Errorf("expected ErrMalformedRecord, got %v", err)
		}
	})

	t.Run("InvalidAddedAt", func(t *testing.T) {
		items := []services.RawPlaylistTrack{rawItem("t1", "Song", "Artist", "", "yesterday")}
		_, err := Normalize(rawPlaylist("p1", "Mix", "alice"), items, capturedAt)
		if !errors.Is(err, shared.ErrMalformedRecord) {
			t.Errorf("expected ErrMalformedRecord, got %v", err)
		}
	})

	t.Run("TrackOrderPreserved", func(t *testing.T) {
		items := []services.RawPlaylistTrack{
			rawItem("t3", "C", "X", "", ""),
			rawItem("t1", "A", "X", "", ""),
			rawItem("t2", "B", "X", "", ""),
		}
		snap, err := Normalize(rawPlaylist("p1", "Mix", "alice"), items, capturedAt)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"t3", "t1", "t2"}
		for i, id := range want {
			if snap.Tracks[i].TrackID != id {
				t.Errorf("position %d: expected %s, got %s", i, id, snap.Tracks[i].TrackID)
			}
		}
	})

	t.Run("MultipleArtists", func(t *testing.T) {
		item := rawItem("t1", "Song", "", "", "")
		item.Track.Artists = []services.RawArtist{{Name: "First"}, {Name: "Second"}}

		snap, err := Normalize(rawPlaylist("p1", "Mix", "alice"), []services.RawPlaylistTrack{item}, capturedAt)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if snap.Tracks[0].Artist != "First, Second" {
			t.Errorf("expected joined artists, got %q", snap.Tracks[0].Artist)
		}
	})

	t.Run("NoArtists", func(t *testing.T) {
		item := rawItem("t1", "Song", "", "", "")

		snap, err := Normalize(rawPlaylist("p1", "Mix", "alice"), []services.RawPlaylistTrack{item}, capturedAt)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if snap.Tracks[0].Artist != "Unknown Artist" {
			t.Errorf("expected Unknown Artist, got %q", snap.Tracks[0].Artist)
		}
	})
}
