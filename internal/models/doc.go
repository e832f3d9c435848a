// Package models defines the canonical snapshot types for the playlist archiver.
//
// The package contains two categories of types:
//
// 1. Snapshot values: the normalized, in-memory form of one run's capture
//   - [PlaylistSnapshot] : one playlist's full state at capture time
//   - [TrackEntry] : one track position within a playlist, order-significant
//   - [ArchiveIndex] / [IndexEntry] : the per-run summary of every included playlist
//
// 2. Ledger entities: database-backed run history
//   - [RunRecord] : one archive run with its outcome and change counts
//
// Snapshot values are constructed fresh every run and never persist in memory
// beyond it; the archived serialized form is the only durable representation.
package models
