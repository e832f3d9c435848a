package archive

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"spogitify/internal/snapshot"
)

const (
	maxTracksListed  = 20
	maxDiffLines     = 100
	initialSyncTitle = "Initial sync"
)

// BuildMessage renders the deterministic commit message for a change-set.
//
// The subject carries per-category playlist counts; the body names every
// affected playlist and details track-level changes (full listing for added
// playlists, a unified diff for changed ones). The first revision into an
// empty archive is titled "Initial sync" with no body. The output is a pure
// function of the two artifact sets.
func BuildMessage(cs *ChangeSet, prior, next ArtifactSet, layout snapshot.Layout) string {
	if len(prior) == 0 {
		return initialSyncTitle
	}

	var b strings.Builder
	b.WriteString(subject(cs))

	if cs.Len() == 0 {
		return b.String()
	}

	names := artifactNames(prior, next, layout)

	b.WriteString("\n\nSummary of changes:\n")
	writeGroup(&b, "Added", cs.Added, names)
	writeGroup(&b, "Changed", cs.Changed, names)
	writeGroup(&b, "Removed", cs.Removed, names)

	for _, ch := range cs.Added {
		tracks := parseTrackLines(next[ch.Path])
		if len(tracks) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\nAdded playlist: %s\n", names.describe(ch.ID))
		listed := tracks
		if len(listed) > maxTracksListed {
			listed = listed[:maxTracksListed]
		}
		for _, t := range listed {
			fmt.Fprintf(&b, "  - %s\n", t)
		}
		if extra := len(tracks) - len(listed); extra > 0 {
			fmt.Fprintf(&b, "  ... and %d more\n", extra)
		}
	}

	for _, ch := range cs.Changed {
		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(prior[ch.Path])),
			B:        difflib.SplitLines(string(next[ch.Path])),
			FromFile: "a/" + ch.Path,
			ToFile:   "b/" + ch.Path,
			Context:  0,
		})
		if err != nil || diff == "" {
			continue
		}
		fmt.Fprintf(&b, "\nChanged playlist: %s\n", names.describe(ch.ID))
		lines := strings.SplitAfter(strings.TrimRight(diff, "\n"), "\n")
		if len(lines) > maxDiffLines {
			lines = append(lines[:maxDiffLines], fmt.Sprintf("... %d lines truncated\n", len(lines)-maxDiffLines))
		}
		for _, line := range lines {
			b.WriteString("  " + strings.TrimRight(line, "\n") + "\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// subject renders the first line of the commit message.
func subject(cs *ChangeSet) string {
	if cs.Len() == 0 {
		return "Archive update: index refreshed"
	}

	var parts []string
	if n := len(cs.Added); n > 0 {
		parts = append(parts, fmt.Sprintf("%d added", n))
	}
	if n := len(cs.Changed); n > 0 {
		parts = append(parts, fmt.Sprintf("%d changed", n))
	}
	if n := len(cs.Removed); n > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", n))
	}
	return "Archive update: " + strings.Join(parts, ", ")
}

// nameIndex resolves playlist IDs to display names from either snapshot's index.
type nameIndex map[string]string

func (n nameIndex) describe(id string) string {
	if name, ok := n[id]; ok && name != "" {
		return fmt.Sprintf("%s (%s)", name, id)
	}
	return id
}

// artifactNames merges the prior and next index artifacts; next wins so
// renames describe playlists by their current name, while removed playlists
// keep the name they last archived under.
func artifactNames(prior, next ArtifactSet, layout snapshot.Layout) nameIndex {
	names := nameIndex{}
	for _, set := range []ArtifactSet{prior, next} {
		data, ok := set[layout.IndexPath()]
		if !ok {
			continue
		}
		idx, err := snapshot.ParseIndex(data)
		if err != nil {
			continue
		}
		for _, e := range idx.Entries {
			names[e.ID] = e.Name
		}
	}
	return names
}

func writeGroup(b *strings.Builder, label string, changes []Change, names nameIndex) {
	if len(changes) == 0 {
		return
	}
	fmt.Fprintf(b, "  %s playlists:\n", label)
	for _, ch := range changes {
		fmt.Fprintf(b, "    - %s\n", names.describe(ch.ID))
	}
}

// parseTrackLines renders "Title by Artist" lines from a playlist artifact.
func parseTrackLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil || len(records) < 2 {
		return nil
	}

	lines := make([]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < 3 {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s by %s", rec[1], rec[2]))
	}
	return lines
}
