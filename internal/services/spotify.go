// Spotify API implementation of [Library]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/Posajpa/Spotify-Playlist-Generator/internal/models"
	"github.com/Posajpa/Spotify-Playlist-Generator/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// spotifyOpenURL is the base of shareable playlist links.
	spotifyOpenURL = "https://open.spotify.com"
)

// PlaylistShareURL builds the shareable web link for a playlist ID.
func PlaylistShareURL(playlistID string) string {
	return fmt.Sprintf("%s/playlist/%s", spotifyOpenURL, playlistID)
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Country     string `json:"country"`
	Product     string `json:"product"` // premium, free, etc.
}

// SpotifyArtist represents a Spotify artist. Genre tags are only populated on
// full artist objects returned by the artists endpoints.
type SpotifyArtist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
	URI    string   `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ReleaseDate string `json:"release_date"`
	URI         string `json:"uri"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
	Explicit   bool            `json:"explicit"`
	URI        string          `json:"uri"`
}

// SpotifySavedTrack represents a track saved in the user's library.
type SpotifySavedTrack struct {
	AddedAt string       `json:"added_at"`
	Track   SpotifyTrack `json:"track"`
}

// SpotifyPaginatedTracks represents a paginated response of saved tracks.
type SpotifyPaginatedTracks struct {
	Items    []SpotifySavedTrack `json:"items"`
	Total    int                 `json:"total"`
	Limit    int                 `json:"limit"`
	Offset   int                 `json:"offset"`
	Next     *string             `json:"next"`
	Previous *string             `json:"previous"`
}

// SpotifyAudioFeatures represents the audio-features object for one track.
type SpotifyAudioFeatures struct {
	ID           string  `json:"id"`
	Tempo        float64 `json:"tempo"`
	Danceability float64 `json:"danceability"`
	Valence      float64 `json:"valence"`
	Energy       float64 `json:"energy"`
}

type playlistOwner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type playlistTracksField struct {
	Total int `json:"total"`
}

// SpotifyPlaylist represents a Spotify playlist.
type SpotifyPlaylist struct {
	ID     string              `json:"id"`
	Name   string              `json:"name"`
	Owner  playlistOwner       `json:"owner"`
	Public bool                `json:"public"`
	Tracks playlistTracksField `json:"tracks"`
	URI    string              `json:"uri"`
}

// SpotifyPlaylistTrack represents a track within a playlist context.
type SpotifyPlaylistTrack struct {
	AddedAt string       `json:"added_at"`
	Track   SpotifyTrack `json:"track"`
}

// SpotifyPaginatedPlaylistTracks represents a paginated response of playlist tracks.
type SpotifyPaginatedPlaylistTracks struct {
	Items  []SpotifyPlaylistTrack `json:"items"`
	Total  int                    `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
	Next   *string                `json:"next"`
}

// refreshableTokenSource wraps an oauth2.TokenSource and invokes a callback
// whenever the underlying source yields a token the caller has not seen yet,
// so refreshed tokens can be persisted to config.
type refreshableTokenSource struct {
	source   oauth2.TokenSource
	callback func(*oauth2.Token)
	mu       sync.Mutex
	last     string
}

func (s *refreshableTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.source.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	changed := token.AccessToken != s.last
	s.last = token.AccessToken
	s.mu.Unlock()

	if changed && s.callback != nil {
		s.callback(token)
	}

	return token, nil
}

// SpotifyService implements the Library interface for Spotify API interactions.
// Uses [oauth2] for authentication and provides methods for library, metadata, and playlist operations.
type SpotifyService struct {
	config         *oauth2.Config
	token          *oauth2.Token
	httpClient     *http.Client
	credentials    map[string]string
	onTokenRefresh func(*oauth2.Token)
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:3000/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"user-read-private",
			"user-library-read",
			"playlist-modify-private",
			"playlist-modify-public",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:      config,
		httpClient:  http.DefaultClient,
		credentials: credentials,
	}, nil
}

// Authenticate performs OAuth2 authentication with Spotify. Expects either an "access_token" or "auth_code" in credentials.
func (s *SpotifyService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if accessToken, ok := credentials["access_token"]; ok && accessToken != "" {
		token := &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}
		if refresh, ok := credentials["refresh_token"]; ok && refresh != "" {
			token.RefreshToken = refresh
		}
		return s.OAuthenticate(ctx, token)
	}

	if authCode, ok := credentials["auth_code"]; ok && authCode != "" {
		token, err := s.config.Exchange(ctx, authCode)
		if err != nil {
			return fmt.Errorf("failed to exchange auth code: %w", err)
		}
		return s.OAuthenticate(ctx, token)
	}

	return fmt.Errorf("%w: missing access_token or auth_code", shared.ErrMissingCredentials)
}

// OAuthenticate installs an issued token on the service's HTTP client.
//
// The client refreshes expired tokens automatically when a refresh token is present.
func (s *SpotifyService) OAuthenticate(ctx context.Context, token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: empty token", shared.ErrInvalidCredentials)
	}

	s.token = token
	source := &refreshableTokenSource{
		source:   s.config.TokenSource(ctx, token),
		callback: s.onTokenRefresh,
		last:     token.AccessToken,
	}
	s.httpClient = oauth2.NewClient(ctx, source)
	return nil
}

// SetTokenRefreshCallback registers a callback invoked when the OAuth token is refreshed.
// Must be called before OAuthenticate to take effect.
func (s *SpotifyService) SetTokenRefreshCallback(fn func(*oauth2.Token)) {
	s.onTokenRefresh = fn
}

// Authenticated reports whether a token has been installed on the service.
func (s *SpotifyService) Authenticated() bool {
	return s.token != nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// GetOAuthConfig exposes the OAuth2 configuration for the callback handler.
func (s *SpotifyService) GetOAuthConfig() *oauth2.Config {
	return s.config
}

// doRequest performs an authenticated HTTP request to the Spotify API.
//
// A non-nil body is JSON-encoded; a non-nil result receives the decoded response.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	if s.token == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	apiURL := spotifyBaseURL + endpoint

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: status %d", shared.ErrTokenExpired, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: status %d", shared.ErrPlaylistNotFound, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// UserProfile retrieves the current authenticated user's profile.
func (s *SpotifyService) UserProfile(ctx context.Context) (*SpotifyUser, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, "GET", "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SavedTracks retrieves one page of the user's saved tracks.
func (s *SpotifyService) SavedTracks(ctx context.Context, limit, offset int) (*SpotifyPaginatedTracks, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > MaxSavedTracksPageSize {
		limit = MaxSavedTracksPageSize
	}

	endpoint := fmt.Sprintf("/me/tracks?limit=%d&offset=%d", limit, offset)

	var response SpotifyPaginatedTracks
	if err := s.doRequest(ctx, "GET", endpoint, nil, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

// SeveralAudioFeatures retrieves audio features for multiple tracks (up to 100).
//
// The response array is parallel to the requested IDs; entries are null when
// the provider withholds feature data for a track.
func (s *SpotifyService) SeveralAudioFeatures(ctx context.Context, trackIDs []string) ([]*SpotifyAudioFeatures, error) {
	if len(trackIDs) == 0 {
		return nil, fmt.Errorf("%w: no track IDs provided", shared.ErrInvalidArgument)
	}
	if len(trackIDs) > MaxAudioFeatureIDs {
		return nil, fmt.Errorf("%w: maximum %d track IDs allowed", shared.ErrInvalidArgument, MaxAudioFeatureIDs)
	}

	ids := strings.Join(trackIDs, ",")
	endpoint := fmt.Sprintf("/audio-features?ids=%s", url.QueryEscape(ids))

	var response struct {
		AudioFeatures []*SpotifyAudioFeatures `json:"audio_features"`
	}

	if err := s.doRequest(ctx, "GET", endpoint, nil, &response); err != nil {
		return nil, err
	}

	return response.AudioFeatures, nil
}

// SeveralArtists retrieves multiple full artist objects by ID (up to 50).
func (s *SpotifyService) SeveralArtists(ctx context.Context, artistIDs []string) ([]SpotifyArtist, error) {
	if len(artistIDs) == 0 {
		return nil, fmt.Errorf("%w: no artist IDs provided", shared.ErrInvalidArgument)
	}
	if len(artistIDs) > MaxArtistIDs {
		return nil, fmt.Errorf("%w: maximum %d artist IDs allowed", shared.ErrInvalidArgument, MaxArtistIDs)
	}

	ids := strings.Join(artistIDs, ",")
	endpoint := fmt.Sprintf("/artists?ids=%s", url.QueryEscape(ids))

	var response struct {
		Artists []SpotifyArtist `json:"artists"`
	}

	if err := s.doRequest(ctx, "GET", endpoint, nil, &response); err != nil {
		return nil, err
	}

	return response.Artists, nil
}

// NewPlaylist creates an empty playlist owned by the given user.
func (s *SpotifyService) NewPlaylist(ctx context.Context, ownerID, name string, public bool) (*SpotifyPlaylist, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner ID required", shared.ErrInvalidArgument)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: playlist name required", shared.ErrInvalidArgument)
	}

	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(ownerID))
	body := map[string]any{
		"name":   name,
		"public": public,
	}

	var playlist SpotifyPlaylist
	if err := s.doRequest(ctx, "POST", endpoint, body, &playlist); err != nil {
		return nil, err
	}

	return &playlist, nil
}

// AppendTracks appends track URIs to a playlist (up to 100 per call), preserving order.
func (s *SpotifyService) AppendTracks(ctx context.Context, playlistID string, uris []string) error {
	if playlistID == "" {
		return fmt.Errorf("%w: playlist ID required", shared.ErrInvalidArgument)
	}
	if len(uris) == 0 {
		return fmt.Errorf("%w: no track URIs provided", shared.ErrInvalidArgument)
	}
	if len(uris) > MaxPlaylistAppendURIs {
		return fmt.Errorf("%w: maximum %d URIs allowed", shared.ErrInvalidArgument, MaxPlaylistAppendURIs)
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	body := map[string]any{"uris": uris}

	return s.doRequest(ctx, "POST", endpoint, body, nil)
}

// PlaylistTracks retrieves one page of a playlist's tracks.
func (s *SpotifyService) PlaylistTracks(ctx context.Context, playlistID string, limit, offset int) (*SpotifyPaginatedPlaylistTracks, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks?limit=%d&offset=%d", url.PathEscape(playlistID), limit, offset)

	var response SpotifyPaginatedPlaylistTracks
	if err := s.doRequest(ctx, "GET", endpoint, nil, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

// Library interface implementation

// CurrentUser retrieves the authenticated user.
func (s *SpotifyService) CurrentUser(ctx context.Context) (*models.User, error) {
	user, err := s.UserProfile(ctx)
	if err != nil {
		return nil, err
	}

	return &models.User{
		ID:          user.ID,
		DisplayName: user.DisplayName,
	}, nil
}

// SavedTracksPage retrieves one page of saved tracks as models.
func (s *SpotifyService) SavedTracksPage(ctx context.Context, limit, offset int) ([]models.Track, error) {
	page, err := s.SavedTracks(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(page.Items))
	for _, item := range page.Items {
		if item.Track.ID == "" {
			// Locally removed or unavailable catalog entries carry no ID.
			continue
		}
		tracks = append(tracks, convertTrack(item.Track))
	}

	return tracks, nil
}

// AudioFeatures retrieves audio features for up to 100 tracks, parallel to ids.
func (s *SpotifyService) AudioFeatures(ctx context.Context, ids []string) ([]*models.AudioFeatures, error) {
	raw, err := s.SeveralAudioFeatures(ctx, ids)
	if err != nil {
		return nil, err
	}

	features := make([]*models.AudioFeatures, len(raw))
	for i, af := range raw {
		if af == nil || af.ID == "" {
			continue
		}
		features[i] = &models.AudioFeatures{
			ID:           af.ID,
			Tempo:        af.Tempo,
			Danceability: af.Danceability,
			Valence:      af.Valence,
		}
	}

	return features, nil
}

// Artists retrieves up to 50 full artist objects.
func (s *SpotifyService) Artists(ctx context.Context, ids []string) ([]models.Artist, error) {
	raw, err := s.SeveralArtists(ctx, ids)
	if err != nil {
		return nil, err
	}

	artists := make([]models.Artist, 0, len(raw))
	for _, a := range raw {
		if a.ID == "" {
			continue
		}
		artists = append(artists, models.Artist{
			ID:     a.ID,
			Name:   a.Name,
			Genres: a.Genres,
		})
	}

	return artists, nil
}

// CreatePlaylist creates an empty playlist owned by ownerID.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, ownerID, name string, public bool) (*models.Playlist, error) {
	playlist, err := s.NewPlaylist(ctx, ownerID, name, public)
	if err != nil {
		return nil, err
	}

	return &models.Playlist{
		ID:     playlist.ID,
		Name:   playlist.Name,
		Public: playlist.Public,
	}, nil
}

// AddPlaylistItems appends track URIs to a playlist.
func (s *SpotifyService) AddPlaylistItems(ctx context.Context, playlistID string, uris []string) error {
	return s.AppendTracks(ctx, playlistID, uris)
}

// PlaylistItems retrieves all tracks of a playlist in order, paging as needed.
func (s *SpotifyService) PlaylistItems(ctx context.Context, playlistID string) ([]models.Track, error) {
	var all []models.Track
	offset := 0

	for {
		page, err := s.PlaylistTracks(ctx, playlistID, 100, offset)
		if err != nil {
			return nil, err
		}

		if len(page.Items) == 0 {
			break
		}

		for _, item := range page.Items {
			if item.Track.ID == "" {
				continue
			}
			all = append(all, convertTrack(item.Track))
		}

		offset += len(page.Items)
		if page.Next == nil {
			break
		}
	}

	return all, nil
}

// convertTrack maps a wire track onto the models DTO.
func convertTrack(t SpotifyTrack) models.Track {
	artists := make([]models.ArtistRef, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, models.ArtistRef{ID: a.ID, Name: a.Name})
	}

	return models.Track{
		ID:       t.ID,
		Name:     t.Name,
		Artists:  artists,
		Album:    t.Album.Name,
		Duration: t.DurationMS / 1000,
		URI:      t.URI,
	}
}
