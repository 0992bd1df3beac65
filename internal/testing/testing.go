// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/Posajpa/Spotify-Playlist-Generator/internal/models"
)

// MockLibrary is a configurable test double for [services.Library].
//
// Each operation delegates to the corresponding func field when set and
// returns a zero value otherwise, so tests only stub the calls they exercise.
type MockLibrary struct {
	CurrentUserFunc     func(ctx context.Context) (*models.User, error)
	SavedTracksPageFunc func(ctx context.Context, limit, offset int) ([]models.Track, error)
	AudioFeaturesFunc   func(ctx context.Context, ids []string) ([]*models.AudioFeatures, error)
	ArtistsFunc         func(ctx context.Context, ids []string) ([]models.Artist, error)
	CreatePlaylistFunc  func(ctx context.Context, ownerID, name string, public bool) (*models.Playlist, error)
	AddItemsFunc        func(ctx context.Context, playlistID string, uris []string) error
	PlaylistItemsFunc   func(ctx context.Context, playlistID string) ([]models.Track, error)
}

func (m *MockLibrary) CurrentUser(ctx context.Context) (*models.User, error) {
	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc(ctx)
	}
	return &models.User{ID: "mock-user"}, nil
}

func (m *MockLibrary) SavedTracksPage(ctx context.Context, limit, offset int) ([]models.Track, error) {
	if m.SavedTracksPageFunc != nil {
		return m.SavedTracksPageFunc(ctx, limit, offset)
	}
	return []models.Track{}, nil
}

func (m *MockLibrary) AudioFeatures(ctx context.Context, ids []string) ([]*models.AudioFeatures, error) {
	if m.AudioFeaturesFunc != nil {
		return m.AudioFeaturesFunc(ctx, ids)
	}
	return make([]*models.AudioFeatures, len(ids)), nil
}

func (m *MockLibrary) Artists(ctx context.Context, ids []string) ([]models.Artist, error) {
	if m.ArtistsFunc != nil {
		return m.ArtistsFunc(ctx, ids)
	}
	return []models.Artist{}, nil
}

func (m *MockLibrary) CreatePlaylist(ctx context.Context, ownerID, name string, public bool) (*models.Playlist, error) {
	if m.CreatePlaylistFunc != nil {
		return m.CreatePlaylistFunc(ctx, ownerID, name, public)
	}
	return &models.Playlist{ID: "mock-playlist", Name: name, Public: public}, nil
}

func (m *MockLibrary) AddPlaylistItems(ctx context.Context, playlistID string, uris []string) error {
	if m.AddItemsFunc != nil {
		return m.AddItemsFunc(ctx, playlistID, uris)
	}
	return nil
}

func (m *MockLibrary) PlaylistItems(ctx context.Context, playlistID string) ([]models.Track, error) {
	if m.PlaylistItemsFunc != nil {
		return m.PlaylistItemsFunc(ctx, playlistID)
	}
	return []models.Track{}, nil
}

func (m *MockLibrary) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
