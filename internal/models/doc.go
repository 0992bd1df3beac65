// Package models defines domain entities and persistence interfaces for the playlist generator.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing Spotify library data
//   - [Track] : Saved-library track with artist references, album name, and playable URI
//   - [Artist] : Artist with genre tags, fetched lazily in batches
//   - [AudioFeatures] : Per-track numeric attributes (tempo, danceability, valence)
//   - [User] : The authenticated Spotify user
//   - [Playlist] : A created or fetched playlist container
//   - [FilterCriteria] : Immutable filter configuration for a single generation run
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [CachedTrack] : Locally cached library tracks keyed by user and track ID
//   - [GeneratedPlaylist] : History records for playlists created by the generator
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
