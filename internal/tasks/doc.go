// Package tasks implements the saved-library filtering and playlist-assembly pipeline.
//
// # Pipeline
//
// [GeneratorEngine.Generate] runs the four stages in order:
//
//  1. Pagination: [GeneratorEngine.FetchLibrary] pages the saved-tracks
//     collection in fixed pages of 50 until an empty page signals exhaustion,
//     concatenating pages in request order.
//
//  2. Enrichment: [GeneratorEngine.EnrichFeatures] looks up audio features in
//     batches of 100; [GeneratorEngine.EnrichGenres] looks up artists in
//     batches of 50 and maps each track to the union of its artists' genre
//     tags. Missing metadata is recorded as absent, never raised as an error.
//
//  3. Filtering: the pure functions [FilterTracks] and [FilterByGenres]
//     evaluate each track against the criteria, preserving input order.
//
//  4. Assembly: [GeneratorEngine.BuildPlaylist] creates the playlist container
//     and appends the matching track URIs in sequential batches of 100.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates. The
// [ProgressUpdate] struct contains phase, step counters, messages, and
// optional data for advanced UI rendering. Updates use select with default
// to prevent blocking.
//
// # Failure Semantics
//
// The pipeline is strictly sequential with no retry layer; a failed remote
// call aborts the run. Errors are tagged with the failing [Stage] via
// [StageError] so callers can report partial progress. A failed append mid
// assembly surfaces [PartialBuildError]: the playlist exists and holds the
// batches appended before the failure (not transactional, never rolled back).
//
// # Caching and History
//
// The optional [TrackCacher] and [HistoryRecorder] interfaces let callers
// persist the fetched library and created playlists. Both are best-effort:
// persistence errors are logged by callers, never fail a run.
package tasks
