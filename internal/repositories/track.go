package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Posajpa/Spotify-Playlist-Generator/internal/models"
	"github.com/Posajpa/Spotify-Playlist-Generator/internal/shared"
)

// TrackRepository implements models.Repository[*models.CachedTrack] for library caching.
//
// Handles automatic track caching with soft delete support and per-user lookups.
// Saved-library tracks are cached on every fetch so repeated generation runs can
// be previewed without refetching the whole library.
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new TrackRepository with the given database connection
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// Create inserts a new [models.CachedTrack] into the database with generated ID and sequence
func (r *TrackRepository) Create(track *models.CachedTrack) error {
	sequence, err := NextSequence(r.db, "tracks")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	track.SetID(id)

	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO tracks (id, sequence, user_id, track_id, name, artists, album, uri, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		track.UserID(),
		track.Track().ID,
		track.Track().Name,
		track.Artists(),
		track.Track().Album,
		track.Track().URI,
		track.CreatedAt(),
		track.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert track: %w", err)
	}

	return nil
}

// Get retrieves a cached track by ID, excluding soft-deleted rows
func (r *TrackRepository) Get(id string) (*models.CachedTrack, error) {
	query := `
		SELECT id, sequence, user_id, track_id, name, artists, album, uri, created_at, updated_at, deleted_at
		FROM tracks
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByUserAndTrack retrieves a cached track by its owning user and service track ID
func (r *TrackRepository) GetByUserAndTrack(userID, trackID string) (*models.CachedTrack, error) {
	query := `
		SELECT id, sequence, user_id, track_id, name, artists, album, uri, created_at, updated_at, deleted_at
		FROM tracks
		WHERE user_id = ? AND track_id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, userID, trackID))
}

// Update modifies an existing cached track in the database
func (r *TrackRepository) Update(track *models.CachedTrack) error {
	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	track.Touch()

	query := `
		UPDATE tracks
		SET name = ?, artists = ?, album = ?, uri = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		track.Track().Name,
		track.Artists(),
		track.Track().Album,
		track.Track().URI,
		track.UpdatedAt(),
		track.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update track: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("track not found or already deleted: %s", track.ID())
	}

	return nil
}

// Delete soft-deletes a cached track by ID
func (r *TrackRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE tracks
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete track: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("track not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all cached tracks matching the given criteria, excluding soft-deleted rows
func (r *TrackRepository) List(criteria map[string]any) ([]*models.CachedTrack, error) {
	query := `
		SELECT id, sequence, user_id, track_id, name, artists, album, uri, created_at, updated_at, deleted_at
		FROM tracks
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*models.CachedTrack
	for rows.Next() {
		track, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tracks, nil
}

// ListByUser retrieves every cached track for the given user in library order
func (r *TrackRepository) ListByUser(userID string) ([]*models.CachedTrack, error) {
	return r.List(map[string]any{"user_id": userID})
}

// ClearForUser soft-deletes every cached track for the given user and returns the count
func (r *TrackRepository) ClearForUser(userID string) (int, error) {
	now := time.Now()

	query := `
		UPDATE tracks
		SET deleted_at = ?
		WHERE user_id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear tracks: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return int(rows), nil
}

// CountForUser returns the number of cached tracks for the given user
func (r *TrackRepository) CountForUser(userID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM tracks WHERE user_id = ? AND deleted_at IS NULL", userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tracks: %w", err)
	}
	return count, nil
}

// scanOne scans a single [sql.Row] into a [models.CachedTrack]
func (r *TrackRepository) scanOne(row *sql.Row) (*models.CachedTrack, error) {
	var (
		id        string
		sequence  int
		userID    string
		trackID   string
		name      string
		artists   string
		album     string
		uri       string
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := row.Scan(&id, &sequence, &userID, &trackID, &name, &artists, &album, &uri, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("track not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}

	return restoreCached(id, sequence, userID, trackID, name, artists, album, uri, createdAt, updatedAt, deletedAt), nil
}

// scanRow scans a row from [sql.Rows] into a [models.CachedTrack]
func (r *TrackRepository) scanRow(rows *sql.Rows) (*models.CachedTrack, error) {
	var (
		id        string
		sequence  int
		userID    string
		trackID   string
		name      string
		artists   string
		album     string
		uri       string
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := rows.Scan(&id, &sequence, &userID, &trackID, &name, &artists, &album, &uri, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}

	return restoreCached(id, sequence, userID, trackID, name, artists, album, uri, createdAt, updatedAt, deletedAt), nil
}

func restoreCached(id string, sequence int, userID, trackID, name, artists, album, uri string, createdAt, updatedAt time.Time, deletedAt sql.NullTime) *models.CachedTrack {
	dto := models.Track{
		ID:    trackID,
		Name:  name,
		Album: album,
		URI:   uri,
	}

	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}

	return models.RestoreCachedTrack(id, sequence, userID, dto, artists, createdAt, updatedAt, deleted)
}
