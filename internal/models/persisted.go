package models

import (
	"fmt"
	"time"
)

// CachedTrack is a locally cached copy of a saved-library track.
//
// Cache rows are keyed by (user_id, track_id) so repeated generation runs can
// reuse a fetched library without refetching. Invalidation is explicit via the
// cache command; the pipeline itself never mutates cached rows.
type CachedTrack struct {
	id        string
	sequence  int
	userID    string
	track     Track
	artists   string // comma-joined artist names as displayed
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewCachedTrack creates a cache row for the given user and track.
func NewCachedTrack(sequence int, userID string, track Track) *CachedTrack {
	now := time.Now().UTC()
	return &CachedTrack{
		sequence:  sequence,
		userID:    userID,
		track:     track,
		artists:   track.ArtistNames(),
		createdAt: now,
		updatedAt: now,
	}
}

// RestoreCachedTrack rebuilds a CachedTrack from database columns.
func RestoreCachedTrack(id string, sequence int, userID string, track Track, artists string, createdAt, updatedAt time.Time, deletedAt *time.Time) *CachedTrack {
	return &CachedTrack{
		id:        id,
		sequence:  sequence,
		userID:    userID,
		track:     track,
		artists:   artists,
		createdAt: createdAt,
		updatedAt: updatedAt,
		deletedAt: deletedAt,
	}
}

func (t *CachedTrack) ID() string           { return t.id }
func (t *CachedTrack) SetID(id string)      { t.id = id }
func (t *CachedTrack) Sequence() int        { return t.sequence }
func (t *CachedTrack) UserID() string       { return t.userID }
func (t *CachedTrack) Track() Track         { return t.track }
func (t *CachedTrack) Artists() string      { return t.artists }
func (t *CachedTrack) CreatedAt() time.Time { return t.createdAt }
func (t *CachedTrack) UpdatedAt() time.Time { return t.updatedAt }
func (t *CachedTrack) DeletedAt() *time.Time {
	return t.deletedAt
}

// Touch updates the modification timestamp.
func (t *CachedTrack) Touch() { t.updatedAt = time.Now().UTC() }

// Validate checks required cache row fields.
func (t *CachedTrack) Validate() error {
	if t.userID == "" {
		return fmt.Errorf("cached track requires a user ID")
	}
	if t.track.ID == "" {
		return fmt.Errorf("cached track requires a track ID")
	}
	if t.track.Name == "" {
		return fmt.Errorf("cached track requires a track name")
	}
	return nil
}

// GeneratedPlaylist records a playlist created by a generation run.
type GeneratedPlaylist struct {
	id         string
	sequence   int
	userID     string
	playlistID string
	name       string
	keyword    string
	trackCount int
	public     bool
	shareURL   string
	createdAt  time.Time
	updatedAt  time.Time
	deletedAt  *time.Time
}

// NewGeneratedPlaylist creates a history record for a created playlist.
func NewGeneratedPlaylist(sequence int, userID, playlistID, name, keyword string, trackCount int, public bool, shareURL string) *GeneratedPlaylist {
	now := time.Now().UTC()
	return &GeneratedPlaylist{
		sequence:   sequence,
		userID:     userID,
		playlistID: playlistID,
		name:       name,
		keyword:    keyword,
		trackCount: trackCount,
		public:     public,
		shareURL:   shareURL,
		createdAt:  now,
		updatedAt:  now,
	}
}

// RestoreGeneratedPlaylist rebuilds a GeneratedPlaylist from database columns.
func RestoreGeneratedPlaylist(id string, sequence int, userID, playlistID, name, keyword string, trackCount int, public bool, shareURL string, createdAt, updatedAt time.Time, deletedAt *time.Time) *GeneratedPlaylist {
	return &GeneratedPlaylist{
		id:         id,
		sequence:   sequence,
		userID:     userID,
		playlistID: playlistID,
		name:       name,
		keyword:    keyword,
		trackCount: trackCount,
		public:     public,
		shareURL:   shareURL,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
		deletedAt:  deletedAt,
	}
}

func (p *GeneratedPlaylist) ID() string            { return p.id }
func (p *GeneratedPlaylist) SetID(id string)       { p.id = id }
func (p *GeneratedPlaylist) Sequence() int         { return p.sequence }
func (p *GeneratedPlaylist) UserID() string        { return p.userID }
func (p *GeneratedPlaylist) PlaylistID() string    { return p.playlistID }
func (p *GeneratedPlaylist) Name() string          { return p.name }
func (p *GeneratedPlaylist) Keyword() string       { return p.keyword }
func (p *GeneratedPlaylist) TrackCount() int       { return p.trackCount }
func (p *GeneratedPlaylist) Public() bool          { return p.public }
func (p *GeneratedPlaylist) ShareURL() string      { return p.shareURL }
func (p *GeneratedPlaylist) CreatedAt() time.Time  { return p.createdAt }
func (p *GeneratedPlaylist) UpdatedAt() time.Time  { return p.updatedAt }
func (p *GeneratedPlaylist) DeletedAt() *time.Time { return p.deletedAt }

// Touch updates the modification timestamp.
func (p *GeneratedPlaylist) Touch() { p.updatedAt = time.Now().UTC() }

// Validate checks required history record fields.
func (p *GeneratedPlaylist) Validate() error {
	if p.userID == "" {
		return fmt.Errorf("generated playlist requires a user ID")
	}
	if p.playlistID == "" {
		return fmt.Errorf("generated playlist requires a playlist ID")
	}
	if p.name == "" {
		return fmt.Errorf("generated playlist requires a name")
	}
	return nil
}
