package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Posajpa/Spotify-Playlist-Generator/internal/models"
	"github.com/Posajpa/Spotify-Playlist-Generator/internal/shared"
)

// PlaylistRepository implements models.Repository[*models.GeneratedPlaylist] for run history.
//
// Every playlist created by a generation run is recorded here so the history
// command can list past runs with their keyword and share link.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create inserts a new [models.GeneratedPlaylist] into the database with generated ID and sequence
func (r *PlaylistRepository) Create(playlist *models.GeneratedPlaylist) error {
	sequence, err := NextSequence(r.db, "playlists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	playlist.SetID(id)

	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO playlists (id, sequence, user_id, playlist_id, name, keyword, track_count, public, share_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		playlist.UserID(),
		playlist.PlaylistID(),
		playlist.Name(),
		playlist.Keyword(),
		playlist.TrackCount(),
		playlist.Public(),
		playlist.ShareURL(),
		playlist.CreatedAt(),
		playlist.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}

	return nil
}

// Get retrieves a history record by ID, excluding soft-deleted records
func (r *PlaylistRepository) Get(id string) (*models.GeneratedPlaylist, error) {
	query := `
		SELECT id, sequence, user_id, playlist_id, name, keyword, track_count, public, share_url, created_at, updated_at, deleted_at
		FROM playlists
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByPlaylistID retrieves a history record by the service playlist ID
func (r *PlaylistRepository) GetByPlaylistID(playlistID string) (*models.GeneratedPlaylist, error) {
	query := `
		SELECT id, sequence, user_id, playlist_id, name, keyword, track_count, public, share_url, created_at, updated_at, deleted_at
		FROM playlists
		WHERE playlist_id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, playlistID))
}

// Update modifies an existing history record in the database
func (r *PlaylistRepository) Update(playlist *models.GeneratedPlaylist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	playlist.Touch()

	query := `
		UPDATE playlists
		SET name = ?, keyword = ?, track_count = ?, public = ?, share_url = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		playlist.Name(),
		playlist.Keyword(),
		playlist.TrackCount(),
		playlist.Public(),
		playlist.ShareURL(),
		playlist.UpdatedAt(),
		playlist.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("playlist not found or already deleted: %s", playlist.ID())
	}

	return nil
}

// Delete soft-deletes a history record by ID
func (r *PlaylistRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE playlists
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("playlist not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all history records matching the given criteria, excluding soft-deleted records
func (r *PlaylistRepository) List(criteria map[string]any) ([]*models.GeneratedPlaylist, error) {
	query := `
		SELECT id, sequence, user_id, playlist_id, name, keyword, track_count, public, share_url, created_at, updated_at, deleted_at
		FROM playlists
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}

	if keyword, ok := criteria["keyword"].(string); ok && keyword != "" {
		query += " AND keyword = ?"
		args = append(args, keyword)
	}

	query += " ORDER BY sequence DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*models.GeneratedPlaylist
	for rows.Next() {
		playlist, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return playlists, nil
}

// ListByUser retrieves every history record for the given user, newest first
func (r *PlaylistRepository) ListByUser(userID string) ([]*models.GeneratedPlaylist, error) {
	return r.List(map[string]any{"user_id": userID})
}

// scanOne scans a single [sql.Row] into a [models.GeneratedPlaylist]
func (r *PlaylistRepository) scanOne(row *sql.Row) (*models.GeneratedPlaylist, error) {
	var (
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
		deletedAt  sql.NullTime
	)

	err := row.Scan(&id, &sequence, &userID, &playlistID, &name, &keyword, &trackCount, &public, &shareURL, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("playlist not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}

	return models.RestoreGeneratedPlaylist(id, sequence, userID, playlistID, name, keyword, trackCount, public, shareURL, createdAt, updatedAt, deleted), nil
}

// scanRow scans a row from [sql.Rows] into a [models.GeneratedPlaylist]
func (r *PlaylistRepository) scanRow(rows *sql.Rows) (*models.GeneratedPlaylist, error) {
	var (
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
		deletedAt  sql.NullTime
	)

	err := rows.Scan(&id, &sequence, &userID, &playlistID, &name, &keyword, &trackCount, &public, &shareURL, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}

	return models.RestoreGeneratedPlaylist(id, sequence, userID, playlistID, name, keyword, trackCount, public, shareURL, createdAt, updatedAt, deleted), nil
}
