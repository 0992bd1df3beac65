package repositories

import (
	"fmt"
	"strings"

	"github.com/Posajpa/Spotify-Playlist-Generator/internal/models"
)

// TrackCacheAdapter implements tasks.TrackCacher using TrackRepository.
//
// Provides automatic track caching with deduplication via the (user_id, track_id) constraint.
// Duplicate tracks are silently ignored (UNIQUE constraint violations).
type TrackCacheAdapter struct {
	repo *TrackRepository
}

// NewTrackCacheAdapter creates a new TrackCacheAdapter with the given repository
func NewTrackCacheAdapter(repo *TrackRepository) *TrackCacheAdapter {
	return &TrackCacheAdapter{repo: repo}
}

// CacheTrack caches a saved-library track for the given user.
// Returns nil if the track already exists (deduplication).
// Only returns errors for actual failures (not constraint violations).
func (a *TrackCacheAdapter) CacheTrack(userID string, track models.Track) error {
	existing, err := a.repo.GetByUserAndTrack(userID, track.ID)
	if err == nil && existing != nil {
		return nil
	}

	cached := models.NewCachedTrack(0, userID, track)

	err = a.repo.Create(cached)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to cache track: %w", err)
	}

	return nil
}

// HistoryAdapter implements tasks.HistoryRecorder using PlaylistRepository.
type HistoryAdapter struct {
	repo *PlaylistRepository
}

// NewHistoryAdapter creates a new HistoryAdapter with the given repository
func NewHistoryAdapter(repo *PlaylistRepository) *HistoryAdapter {
	return &HistoryAdapter{repo: repo}
}

// RecordPlaylist records a playlist created by a generation run.
func (a *HistoryAdapter) RecordPlaylist(userID string, playlist models.Playlist, keyword, shareURL string) error {
	record := models.NewGeneratedPlaylist(0, userID, playlist.ID, playlist.Name, keyword, playlist.TrackCount, playlist.Public, shareURL)

	if err := a.repo.Create(record); err != nil {
		return fmt.Errorf("failed to record playlist: %w", err)
	}

	return nil
}
