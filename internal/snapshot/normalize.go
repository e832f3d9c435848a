package snapshot

import (
	"fmt"
	"strings"
	"time"

	"spogitify/internal/models"
	"spogitify/internal/services"
	"spogitify/internal/shared"
)

// Normalize converts a raw playlist and its track listing into a canonical
// [models.PlaylistSnapshot].
//
// Required fields are the playlist ID and every track ID; a missing one
// fails with [shared.ErrMalformedRecord], which callers isolate to this
// playlist. Optional fields (added_at, added_by) normalize to nil when the
// service omits them.
func Normalize(pl services.RawPlaylist, items []services.RawPlaylistTrack, capturedAt time.Time) (*models.PlaylistSnapshot, error) {
	if pl.ID == "" {
		return nil, fmt.Errorf("%w: playlist missing id", shared.ErrMalformedRecord)
	}

	snap := &models.PlaylistSnapshot{
		ID:         pl.ID,
		Name:       pl.Name,
		OwnerID:    pl.Owner.ID,
		OwnerName:  pl.Owner.DisplayName,
		Tracks:     make([]models.TrackEntry, 0, len(items)),
		CapturedAt: capturedAt,
	}

	for i, item := range items {
		if item.Track == nil || item.Track.ID == "" {
			return nil, fmt.Errorf("%w: playlist %s track at position %d missing track_id", shared.ErrMalformedRecord, pl.ID, i)
		}

		entry := models.TrackEntry{
			TrackID:       item.Track.ID,
			Title:         item.Track.Name,
			Artist:        artistString(item.Track.Artists),
			Album:         item.Track.Album.Name,
			LengthSeconds: item.Track.DurationMS / 1000,
		}

		if item.AddedAt != "" {
			addedAt, err := time.Parse(time.RFC3339, item.AddedAt)
			if err != nil {
				return nil, fmt.Errorf("%w: playlist %s track %s has invalid added_at %q", shared.ErrMalformedRecord, pl.ID, item.Track.ID, item.AddedAt)
			}
			utc := addedAt.UTC()
			entry.AddedAt = &utc
		}

		if item.AddedBy != nil && item.AddedBy.ID != "" {
			addedBy := item.AddedBy.ID
			entry.AddedBy = &addedBy
		}

		snap.Tracks = append(snap.Tracks, entry)
	}

	return snap, nil
}

// artistString joins artist names with a comma, falling back to "Unknown Artist".
func artistString(artists []services.RawArtist) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	if len(names) == 0 {
		return "Unknown Artist"
	}
	return strings.Join(names, ", ")
}
