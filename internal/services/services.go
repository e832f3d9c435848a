package services

import (
	"context"
)

// Service defines the read-only interface for fetching playlist state from a music service.
type Service interface {
	// Authenticate performs OAuth or token authentication with the service.
	// Returns an error if authentication fails.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// ListPlaylists retrieves all playlists for the authenticated user.
	ListPlaylists(ctx context.Context) ([]RawPlaylist, error)

	// ListTracks retrieves the full ordered track listing of a playlist.
	ListTracks(ctx context.Context, playlistID string) ([]RawPlaylistTrack, error)

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// RawOwner is a service account reference as reported by the API.
type RawOwner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// RawPlaylist is a playlist record as fetched, prior to normalization.
type RawPlaylist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Owner  RawOwner `json:"owner"`
	Tracks struct {
		Total int `json:"total"`
	} `json:"tracks"`
}

// RawArtist is an artist reference within a raw track.
type RawArtist struct {
	Name string `json:"name"`
}

// RawTrack is a track record within a playlist response.
type RawTrack struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Artists []RawArtist `json:"artists"`
	Album   struct {
		Name string `json:"name"`
	} `json:"album"`
	DurationMS int `json:"duration_ms"`
}

// RawPlaylistTrack is one playlist position as fetched. Track may be null in
// service responses (e.g. removed content), which the normalizer rejects.
type RawPlaylistTrack struct {
	AddedAt string    `json:"added_at"`
	AddedBy *RawOwner `json:"added_by"`
	Track   *RawTrack `json:"track"`
}
