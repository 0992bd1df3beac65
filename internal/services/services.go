// package services defines interface Library for interacting with the Spotify Web API
package services

import (
	"context"

	"github.com/Posajpa/Spotify-Playlist-Generator/internal/models"
	"golang.org/x/oauth2"
)

// Spotify Web API batch ceilings. Protocol constants, not tunables.
const (
	// MaxSavedTracksPageSize is the largest page the saved-tracks endpoint serves.
	MaxSavedTracksPageSize = 50
	// MaxAudioFeatureIDs is the ceiling for one audio-features batch lookup.
	MaxAudioFeatureIDs = 100
	// MaxArtistIDs is the ceiling for one artists batch lookup.
	MaxArtistIDs = 50
	// MaxPlaylistAppendURIs is the ceiling for one playlist append request.
	MaxPlaylistAppendURIs = 100
)

// Library defines the remote operations the generation pipeline consumes.
type Library interface {
	// CurrentUser retrieves the authenticated user's profile.
	CurrentUser(ctx context.Context) (*models.User, error)

	// SavedTracksPage retrieves one page of the user's saved tracks.
	// Returns the page's tracks in library order; an empty slice signals exhaustion.
	SavedTracksPage(ctx context.Context, limit, offset int) ([]models.Track, error)

	// AudioFeatures retrieves audio features for up to MaxAudioFeatureIDs tracks.
	// The result is parallel to ids; a nil entry means the provider withheld
	// feature data for that track.
	AudioFeatures(ctx context.Context, ids []string) ([]*models.AudioFeatures, error)

	// Artists retrieves up to MaxArtistIDs full artist objects, genre tags included.
	Artists(ctx context.Context, ids []string) ([]models.Artist, error)

	// CreatePlaylist creates an empty playlist owned by ownerID.
	CreatePlaylist(ctx context.Context, ownerID, name string, public bool) (*models.Playlist, error)

	// AddPlaylistItems appends up to MaxPlaylistAppendURIs track URIs to a playlist,
	// preserving the given order.
	AddPlaylistItems(ctx context.Context, playlistID string, uris []string) error

	// PlaylistItems retrieves all tracks in a playlist, in playlist order.
	PlaylistItems(ctx context.Context, playlistID string) ([]models.Track, error)

	// Name returns the provider name for display and logging.
	Name() string
}

// OAuthService extends Library for providers authenticated via an OAuth2
// authorization-code flow with a local callback server.
type OAuthService interface {
	Library

	// GetAuthURL returns the provider's authorization URL for the given state token.
	GetAuthURL(state string) string

	// GetOAuthConfig exposes the underlying OAuth2 configuration for the callback handler.
	GetOAuthConfig() *oauth2.Config

	// OAuthenticate installs an issued token on the service's HTTP client.
	OAuthenticate(ctx context.Context, token *oauth2.Token) error
}
