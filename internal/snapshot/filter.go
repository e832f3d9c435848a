package snapshot

import (
	"spogitify/internal/models"
)

// ServiceOwnerID is the account that owns service-curated playlists.
const ServiceOwnerID = "spotify"

// FilterConfig holds the exclusion rules applied before a playlist enters the snapshot.
type FilterConfig struct {
	ExcludeServiceOwned bool
	ExcludeIDs          []string
	ExcludeNames        []string
}

// Excludes reports whether a playlist with the given identity is excluded.
//
// Rules are evaluated in order: ID match, name match, service ownership.
// Matches are exact and case-sensitive.
func (c FilterConfig) Excludes(id, name, ownerID string) bool {
	for _, excluded := range c.ExcludeIDs {
		if id == excluded {
			return true
		}
	}
	for _, excluded := range c.ExcludeNames {
		if name == excluded {
			return true
		}
	}
	return c.ExcludeServiceOwned && ownerID == ServiceOwnerID
}

// Apply returns the playlists to archive and those dropped by an exclusion rule.
//
// Pure function of (playlists, config); input order is preserved in both
// results. An excluded playlist appears nowhere downstream, the index
// included.
func (c FilterConfig) Apply(playlists []*models.PlaylistSnapshot) (kept, excluded []*models.PlaylistSnapshot) {
	for _, pl := range playlists {
		if c.Excludes(pl.ID, pl.Name, pl.OwnerID) {
			excluded = append(excluded, pl)
		} else {
			kept = append(kept, pl)
		}
	}
	return kept, excluded
}
