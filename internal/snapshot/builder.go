package snapshot

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"spogitify/internal/models"
)

// ArtifactExt is the file extension of every archived artifact.
const ArtifactExt = ".csv"

var (
	trackHeader = []string{"track_id", "title", "artist", "album", "added_at", "added_by", "length_seconds"}
	indexHeader = []string{"id", "name", "owner", "num_songs", "total_length_seconds"}
)

// Layout describes the archive directory tree, with paths relative to the
// archive root (the revision store's worktree).
type Layout struct {
	PlaylistsDir  string
	IndexFilename string
}

// PlaylistPath returns the artifact path for a playlist ID.
func (l Layout) PlaylistPath(id string) string {
	return path.Join(l.PlaylistsDir, id+ArtifactExt)
}

// IndexPath returns the index artifact path.
func (l Layout) IndexPath() string {
	return l.IndexFilename
}

// PlaylistID extracts the playlist ID from an artifact path, or "" if the
// path is not a playlist artifact of this layout.
func (l Layout) PlaylistID(artifactPath string) string {
	prefix := l.PlaylistsDir + "/"
	if !strings.HasPrefix(artifactPath, prefix) || !strings.HasSuffix(artifactPath, ArtifactExt) {
		return ""
	}
	id := strings.TrimSuffix(strings.TrimPrefix(artifactPath, prefix), ArtifactExt)
	if id == "" || strings.Contains(id, "/") {
		return ""
	}
	return id
}

// EncodePlaylist serializes a snapshot's track listing to CSV.
//
// Byte-stable: the same snapshot content always encodes identically. Track
// order is preserved verbatim. Run metadata (captured_at) is deliberately
// not part of the artifact, otherwise identical content would differ between
// runs. Absent optionals encode as empty fields.
func EncodePlaylist(s *models.PlaylistSnapshot) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(trackHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, t := range s.Tracks {
		addedAt := ""
		if t.AddedAt != nil {
			addedAt = t.AddedAt.UTC().Format(time.RFC3339)
		}
		addedBy := ""
		if t.AddedBy != nil {
			addedBy = *t.AddedBy
		}

		record := []string{
			t.TrackID,
			t.Title,
			t.Artist,
			t.Album,
			addedAt,
			addedBy,
			strconv.Itoa(t.LengthSeconds),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// BuildIndex summarizes the included playlists, sorted by playlist ID so the
// index diffs deterministically regardless of fetch order.
func BuildIndex(playlists []*models.PlaylistSnapshot) models.ArchiveIndex {
	entries := make([]models.IndexEntry, 0, len(playlists))
	for _, pl := range playlists {
		entries = append(entries, models.IndexEntry{
			ID:                 pl.ID,
			Name:               pl.Name,
			Owner:              pl.OwnerName,
			TrackCount:         len(pl.Tracks),
			TotalLengthSeconds: pl.TotalLengthSeconds(),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return models.ArchiveIndex{Entries: entries}
}

// EncodeIndex serializes an archive index to CSV. Byte-stable like [EncodePlaylist].
func EncodeIndex(idx models.ArchiveIndex) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(indexHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, e := range idx.Entries {
		record := []string{
			e.ID,
			e.Name,
			e.Owner,
			strconv.Itoa(e.TrackCount),
			strconv.Itoa(e.TotalLengthSeconds),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ParseIndex decodes an index artifact back into entries. Used to recover
// playlist names for removed playlists when describing a change-set.
func ParseIndex(data []byte) (models.ArchiveIndex, error) {
	r := csv.NewReader(bytes.NewReader(data))
	records, err := r.ReadAll()
	if err != nil {
		return models.ArchiveIndex{}, fmt.Errorf("failed to parse index: %w", err)
	}
	if len(records) == 0 {
		return models.ArchiveIndex{}, nil
	}

	var idx models.ArchiveIndex
	for _, rec := range records[1:] {
		if len(rec) < len(indexHeader) {
			continue
		}
		trackCount, _ := strconv.Atoi(rec[3])
		totalLength, _ := strconv.Atoi(rec[4])
		idx.Entries = append(idx.Entries, models.IndexEntry{
			ID:                 rec[0],
			Name:               rec[1],
			Owner:              rec[2],
			TrackCount:         trackCount,
			TotalLengthSeconds: totalLength,
		})
	}
	return idx, nil
}

// BuildArtifacts serializes the complete current-state snapshot: one
// artifact per included playlist plus the index artifact, keyed by path.
func BuildArtifacts(playlists []*models.PlaylistSnapshot, layout Layout) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(playlists)+1)

	for _, pl := range playlists {
		data, err := EncodePlaylist(pl)
		if err != nil {
			return nil, fmt.Errorf("failed to encode playlist %s: %w", pl.ID, err)
		}
		artifacts[layout.PlaylistPath(pl.ID)] = data
	}

	data, err := EncodeIndex(BuildIndex(playlists))
	if err != nil {
		return nil, fmt.Errorf("failed to encode index: %w", err)
	}
	artifacts[layout.IndexPath()] = data

	return artifacts, nil
}
