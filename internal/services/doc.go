// Package services defines the [Library] interface for the music streaming provider and implements it for Spotify.
//
// # Library Interface
//
// The generation pipeline consumes [Library] rather than the concrete client,
// keeping the pipeline testable against fakes and decoupled from the wire shape.
// The interface mirrors exactly the remote operations the pipeline needs:
// paged saved-tracks retrieval, batch audio-feature lookup, batch artist lookup,
// current-user resolution, playlist creation, batched track appends, and
// playlist read-back.
//
// # Spotify Implementation
//
// [SpotifyService] uses OAuth2 for authentication with automatic token refresh.
// The [oauth2] HTTP client refreshes expired tokens using the refresh token, and
// an optional callback lets the caller persist refreshed tokens to config.
//
// Batch ceilings are Spotify Web API protocol constants, not tunables:
// [MaxAudioFeatureIDs] (100), [MaxArtistIDs] (50), [MaxPlaylistAppendURIs] (100).
// The client rejects oversized batches; callers chunk before invoking.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrNotAuthenticated] : Authenticate() not called
//   - [shared.ErrTokenExpired] : OAuth token expired, reauthorization needed
//   - [shared.ErrAPIRequest] : HTTP request failed
//   - [shared.ErrPlaylistNotFound] : Playlist ID not found
//
// # API Mappings
//
// Responses are decoded once at the boundary into typed structs
// ([SpotifyTrack], [SpotifyArtist], [SpotifyAudioFeatures], ...) and converted
// to models DTOs before leaving the package; nothing downstream touches raw JSON.
package services
