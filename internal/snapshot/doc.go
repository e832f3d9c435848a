// Package snapshot turns raw fetched playlist records into the archive's
// canonical, byte-stable artifacts.
//
// Three stages, each a pure function:
//
//   - [Normalize] : raw records → [models.PlaylistSnapshot], validated once at
//     the boundary. A missing required identifier fails that playlist only
//     with [shared.ErrMalformedRecord].
//   - [FilterConfig.Apply] : drops excluded playlists before anything enters
//     the snapshot. Rule order: exact ID match, exact name match, service
//     ownership.
//   - [BuildArtifacts] : serializes every included playlist plus the index
//     to CSV. Serialization is deterministic: the same snapshot value always
//     produces identical bytes, so the diff engine can use byte equality as
//     a proxy for semantic equality.
package snapshot
