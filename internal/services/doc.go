// Package services defines the fetch collaborator interface for music services.
//
// The [Service] interface is the read-only boundary between the archiver core
// and the external API: it lists playlists and their tracks and nothing else.
// The archiver never writes back to the service.
//
// [SpotifyService] is the production implementation, authenticating with
// OAuth2 and paginating the Web API. Raw response types ([RawPlaylist],
// [RawPlaylistTrack]) are passed through untrusted; the snapshot normalizer
// validates them at the boundary.
//
// Error mapping: HTTP 401 surfaces [shared.ErrTokenExpired], 403
// [shared.ErrAuthFailed], 429 [shared.ErrRateLimited]. All three abort the
// run; they are account-level, not playlist-level, conditions.
package services
