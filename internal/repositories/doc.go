// Package repositories implements SQLite persistence for cached library tracks and playlist history.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [TrackRepository] : Saved-library track caching keyed by (user, track)
//   - [PlaylistRepository] : History of playlists created by generation runs
//   - [TrackCacheAdapter] : tasks.TrackCacher backed by TrackRepository
//   - [HistoryAdapter] : tasks.HistoryRecorder backed by PlaylistRepository
//
// Sequence numbers provide stable, human-readable ordering (e.g., track #42, playlist #15) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
