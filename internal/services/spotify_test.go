package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/Posajpa/Spotify-Playlist-Generator/internal/shared"
	tu "github.com/Posajpa/Spotify-Playlist-Generator/internal/testing"
	"golang.org/x/oauth2"
)

type mockTokenSource struct {
	token *oauth2.Token
	err   error
}

func (m *mockTokenSource) Token() (*oauth2.Token, error) {
	return m.token, m.err
}

// jsonResponse builds a canned HTTP response for the mock transport.
func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

// authedService returns a service whose HTTP client replays the given response.
func authedService(t *testing.T, resp *http.Response) *SpotifyService {
	t.Helper()

	srv, err := NewSpotifyService(map[string]string{
		"client_id":     "test_client_id",
		"client_secret": "test_client_secret",
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	srv.token = &oauth2.Token{AccessToken: "test_access_token"}
	srv.httpClient = &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}
	return srv
}

func TestSpotifyService(t *testing.T) {
	t.Run("NewSpotifyService", func(t *testing.T) {
		t.Run("With Valid Credentials", func(t *testing.T) {
			srv, err := NewSpotifyService(map[string]string{
				"client_id":     "test_client_id",
				"client_secret": "test_client_secret",
				"redirect_uri":  "http://localhost:9999/callback",
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if srv.Name() != "Spotify" {
				t.Errorf("expected service name 'Spotify', got %s", srv.Name())
			}
		})

		t.Run("Missing Client ID", func(t *testing.T) {
			_, err := NewSpotifyService(map[string]string{"client_secret": "s"})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected missing credentials error, got %v", err)
			}
		})

		t.Run("Missing Client Secret", func(t *testing.T) {
			_, err := NewSpotifyService(map[string]string{"client_id": "c"})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected missing credentials error, got %v", err)
			}
		})

		t.Run("Default Redirect URI", func(t *testing.T) {
			srv, err := NewSpotifyService(map[string]string{
				"client_id":     "test_client_id",
				"client_secret": "test_client_secret",
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if srv.config.RedirectURL != "http://localhost:3000/callback" {
				t.Errorf("expected default redirect URI, got %s", srv.config.RedirectURL)
			}
		})
	})

	t.Run("Get AuthURL", func(t *testing.T) {
		srv, err := NewSpotifyService(map[string]string{
			"client_id":     "test_client_id",
			"client_secret": "test_client_secret",
		})
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}

		authURL := srv.GetAuthURL("test_state")
		if !strings.Contains(authURL, "accounts.spotify.com") {
			t.Error("auth URL should contain Spotify domain")
		}
		if !strings.Contains(authURL, "test_client_id") {
			t.Error("auth URL should contain client_id")
		}
		if !strings.Contains(authURL, "test_state") {
			t.Error("auth URL should contain state")
		}
	})

	t.Run("Authenticate", func(t *testing.T) {
		srv, err := NewSpotifyService(map[string]string{
			"client_id":     "test_client_id",
			"client_secret": "test_client_secret",
		})
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}

		t.Run("WithAccessToken", func(t *testing.T) {
			err := srv.Authenticate(context.Background(), map[string]string{
				"access_token": "test_access_token",
			})
			if err != nil {
				t.Errorf("expected no error with access token, got %v", err)
			}

			if srv.token == nil || srv.token.AccessToken != "test_access_token" {
				t.Error("expected token to be installed")
			}
		})

		t.Run("Missing Credentials", func(t *testing.T) {
			err := srv.Authenticate(context.Background(), map[string]string{})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected missing credentials error, got %v", err)
			}
		})

		t.Run("Empty Token Rejected", func(t *testing.T) {
			err := srv.OAuthenticate(context.Background(), &oauth2.Token{})
			if !errors.Is(err, shared.ErrInvalidCredentials) {
				t.Errorf("expected invalid credentials error, got %v", err)
			}
		})
	})

	t.Run("Service Interfaces", func(t *testing.T) {
		srv, err := NewSpotifyService(map[string]string{
			"client_id":     "test_client_id",
			"client_secret": "test_client_secret",
		})
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}

		var _ Library = srv
		var _ OAuthService = srv
	})

	t.Run("StoredTokenAuthenticatesColdStart", func(t *testing.T) {
		srv, err := NewSpotifyService(map[string]string{
			"client_id":     "test_client_id",
			"client_secret": "test_client_secret",
		})
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}

		// Rebuild the token the way a fresh process does from config.toml.
		stored := shared.SpotifyConfig{
			AccessToken:  "persisted_access",
			RefreshToken: "persisted_refresh",
			TokenExpiry:  time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
		}
		if err := srv.OAuthenticate(context.Background(), stored.Token()); err != nil {
			t.Fatalf("failed to authenticate with stored token: %v", err)
		}

		srv.httpClient = &http.Client{Transport: tu.NewMockRoundTripper(jsonResponse(http.StatusOK, `{"id":"user1"}`), nil)}

		user, err := srv.CurrentUser(context.Background())
		if errors.Is(err, shared.ErrNotAuthenticated) {
			t.Fatal("stored token should authenticate the service")
		}
		if err != nil {
			t.Fatalf("CurrentUser failed: %v", err)
		}
		if user.ID != "user1" {
			t.Errorf("expected user1, got %s", user.ID)
		}
	})

	t.Run("refreshableTokenSource", func(t *testing.T) {
		t.Run("calls callback when token changes", func(t *testing.T) {
			callCount := 0
			mockSource := &mockTokenSource{token: &oauth2.Token{AccessToken: "token1"}}
			source := &refreshableTokenSource{
				source:   mockSource,
				callback: func(*oauth2.Token) { callCount++ },
			}

			_, _ = source.Token()
			_, _ = source.Token()
			if callCount != 1 {
				t.Errorf("expected callback called once for an unchanged token, got %d", callCount)
			}

			mockSource.token = &oauth2.Token{AccessToken: "token2"}
			token, _ := source.Token()
			if callCount != 2 {
				t.Errorf("expected callback called after refresh, got %d calls", callCount)
			}
			if token.AccessToken != "token2" {
				t.Errorf("expected refreshed token, got %s", token.AccessToken)
			}
		})

		t.Run("propagates source errors", func(t *testing.T) {
			source := &refreshableTokenSource{
				source: &mockTokenSource{err: errors.New("refresh failed")},
			}

			if _, err := source.Token(); err == nil {
				t.Error("expected error from source")
			}
		})
	})
}

func TestDoRequest(t *testing.T) {
	t.Run("NotAuthenticated", func(t *testing.T) {
		srv, err := NewSpotifyService(map[string]string{
			"client_id":     "test_client_id",
			"client_secret": "test_client_secret",
		})
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}

		err = srv.doRequest(context.Background(), "GET", "/me", nil, nil)
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected not-authenticated error, got %v", err)
		}
	})

	t.Run("UnauthorizedMapsToTokenExpired", func(t *testing.T) {
		srv := authedService(t, jsonResponse(http.StatusUnauthorized, `{}`))

		err := srv.doRequest(context.Background(), "GET", "/me", nil, nil)
		if !errors.Is(err, shared.ErrTokenExpired) {
			t.Errorf("expected token expired error, got %v", err)
		}
	})

	t.Run("NotFoundMapsToPlaylistNotFound", func(t *testing.T) {
		srv := authedService(t, jsonResponse(http.StatusNotFound, `{}`))

		err := srv.doRequest(context.Background(), "GET", "/playlists/missing", nil, nil)
		if !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected playlist not found error, got %v", err)
		}
	})

	t.Run("ServerErrorMapsToAPIRequest", func(t *testing.T) {
		srv := authedService(t, jsonResponse(http.StatusInternalServerError, `{}`))

		err := srv.doRequest(context.Background(), "GET", "/me", nil, nil)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected API request error, got %v", err)
		}
	})
}

func TestCurrentUser(t *testing.T) {
	srv := authedService(t, jsonResponse(http.StatusOK, `{"id":"user1","display_name":"Test User","country":"US","product":"premium"}`))

	user, err := srv.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("CurrentUser failed: %v", err)
	}

	if user.ID != "user1" {
		t.Errorf("expected ID user1, got %s", user.ID)
	}
	if user.DisplayName != "Test User" {
		t.Errorf("expected display name, got %s", user.DisplayName)
	}
}

func TestSavedTracksPage(t *testing.T) {
	t.Run("ConvertsItems", func(t *testing.T) {
		body := `{
			"items": [
				{"added_at": "2024-01-01T00:00:00Z", "track": {"id": "t1", "name": "Song One", "uri": "spotify:track:t1",
					"duration_ms": 214000,
					"artists": [{"id": "a1", "name": "Artist One"}],
					"album": {"id": "al1", "name": "Album One"}}},
				{"added_at": "2024-01-02T00:00:00Z", "track": {"id": "", "name": "Unavailable"}}
			],
			"total": 2, "limit": 50, "offset": 0
		}`
		srv := authedService(t, jsonResponse(http.StatusOK, body))

		tracks, err := srv.SavedTracksPage(context.Background(), 50, 0)
		if err != nil {
			t.Fatalf("SavedTracksPage failed: %v", err)
		}

		// The entry without a catalog ID is dropped.
		if len(tracks) != 1 {
			t.Fatalf("expected 1 track, got %d", len(tracks))
		}
		track := tracks[0]
		if track.Name != "Song One" || track.Album != "Album One" || track.URI != "spotify:track:t1" {
			t.Errorf("unexpected conversion: %+v", track)
		}
		if track.ArtistNames() != "Artist One" {
			t.Errorf("expected artist name, got %s", track.ArtistNames())
		}
		if track.Duration != 214 {
			t.Errorf("expected duration in seconds, got %d", track.Duration)
		}
	})

	t.Run("EmptyPage", func(t *testing.T) {
		srv := authedService(t, jsonResponse(http.StatusOK, `{"items": [], "total": 120, "limit": 50, "offset": 150}`))

		tracks, err := srv.SavedTracksPage(context.Background(), 50, 150)
		if err != nil {
			t.Fatalf("SavedTracksPage failed: %v", err)
		}
		if len(tracks) != 0 {
			t.Errorf("expected empty page, got %d tracks", len(tracks))
		}
	})
}

func TestAudioFeatures(t *testing.T) {
	t.Run("NullEntriesStayNil", func(t *testing.T) {
		body := `{"audio_features": [{"id": "t1", "tempo": 120.5, "danceability": 0.8, "valence": 0.4}, null]}`
		srv := authedService(t, jsonResponse(http.StatusOK, body))

		features, err := srv.AudioFeatures(context.Background(), []string{"t1", "t2"})
		if err != nil {
			t.Fatalf("AudioFeatures failed: %v", err)
		}

		if len(features) != 2 {
			t.Fatalf("expected parallel result of 2, got %d", len(features))
		}
		if features[0] == nil || features[0].Tempo != 120.5 {
			t.Errorf("unexpected first entry: %+v", features[0])
		}
		if features[1] != nil {
			t.Error("expected withheld entry to stay nil")
		}
	})

	t.Run("RejectsOversizedBatch", func(t *testing.T) {
		srv := authedService(t, nil)

		ids := make([]string, MaxAudioFeatureIDs+1)
		for i := range ids {
			ids[i] = "t"
		}

		_, err := srv.AudioFeatures(context.Background(), ids)
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected invalid argument error, got %v", err)
		}
	})

	t.Run("RejectsEmptyBatch", func(t *testing.T) {
		srv := authedService(t, nil)

		_, err := srv.AudioFeatures(context.Background(), nil)
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected invalid argument error, got %v", err)
		}
	})
}

func TestArtists(t *testing.T) {
	t.Run("ConvertsGenres", func(t *testing.T) {
		body := `{"artists": [{"id": "a1", "name": "Artist One", "genres": ["rock", "indie rock"]}]}`
		srv := authedService(t, jsonResponse(http.StatusOK, body))

		artists, err := srv.Artists(context.Background(), []string{"a1"})
		if err != nil {
			t.Fatalf("Artists failed: %v", err)
		}

		if len(artists) != 1 {
			t.Fatalf("expected 1 artist, got %d", len(artists))
		}
		if len(artists[0].Genres) != 2 || artists[0].Genres[0] != "rock" {
			t.Errorf("unexpected genres: %v", artists[0].Genres)
		}
	})

	t.Run("RejectsOversizedBatch", func(t *testing.T) {
		srv := authedService(t, nil)

		ids := make([]string, MaxArtistIDs+1)
		for i := range ids {
			ids[i] = "a"
		}

		_, err := srv.Artists(context.Background(), ids)
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected invalid argument error, got %v", err)
		}
	})
}

func TestPlaylists(t *testing.T) {
	t.Run("CreatePlaylist", func(t *testing.T) {
		body := `{"id": "p1", "name": "love tracks", "public": false, "owner": {"id": "user1"}}`
		srv := authedService(t, jsonResponse(http.StatusCreated, body))

		playlist, err := srv.CreatePlaylist(context.Background(), "user1", "love tracks", false)
		if err != nil {
			t.Fatalf("CreatePlaylist failed: %v", err)
		}

		if playlist.ID != "p1" || playlist.Name != "love tracks" || playlist.Public {
			t.Errorf("unexpected playlist: %+v", playlist)
		}
	})

	t.Run("CreateRequiresOwnerAndName", func(t *testing.T) {
		srv := authedService(t, nil)

		if _, err := srv.CreatePlaylist(context.Background(), "", "name", false); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected invalid argument for empty owner, got %v", err)
		}
		if _, err := srv.CreatePlaylist(context.Background(), "user1", "", false); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected invalid argument for empty name, got %v", err)
		}
	})

	t.Run("AppendRejectsOversizedBatch", func(t *testing.T) {
		srv := authedService(t, nil)

		uris := make([]string, MaxPlaylistAppendURIs+1)
		for i := range uris {
			uris[i] = "spotify:track:t"
		}

		err := srv.AddPlaylistItems(context.Background(), "p1", uris)
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected invalid argument error, got %v", err)
		}
	})

	t.Run("AppendRejectsEmptyBatch", func(t *testing.T) {
		srv := authedService(t, nil)

		if err := srv.AddPlaylistItems(context.Background(), "p1", nil); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected invalid argument error, got %v", err)
		}
	})
}

func TestPlaylistShareURL(t *testing.T) {
	got := PlaylistShareURL("abc123")
	want := "https://open.spotify.com/playlist/abc123"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
