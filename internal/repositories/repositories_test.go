package repositories

import (
	"database/sql"
	"testing"

	"github.com/Posajpa/Spotify-Playlist-Generator/internal/models"
	"github.com/Posajpa/Spotify-Playlist-Generator/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func testTrack(id, name string) models.Track {
	return models.Track{
		ID:   id,
		Name: name,
		Artists: []models.ArtistRef{
			{ID: "artist1", Name: "Test Artist"},
		},
		Album: "Test Album",
		URI:   "spotify:track:" + id,
	}
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	first, err := NextSequence(db, "tracks")
	if err != nil {
		t.Fatalf("failed to get sequence: %v", err)
	}

	second, err := NextSequence(db, "tracks")
	if err != nil {
		t.Fatalf("failed to get sequence: %v", err)
	}

	if second != first+1 {
		t.Errorf("expected sequence %d, got %d", first+1, second)
	}
}

func TestTrackRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		track := models.NewCachedTrack(0, "user1", testTrack("track1", "Song One"))

		err := repo.Create(track)
		if err != nil {
			t.Fatalf("failed to create track: %v", err)
		}

		if track.ID() == "" {
			t.Error("track ID should be set after creation")
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		track := models.NewCachedTrack(0, "user1", testTrack("track1", "Song One"))

		if err := repo.Create(track); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}

		retrieved, err := repo.Get(track.ID())
		if err != nil {
			t.Fatalf("failed to get track: %v", err)
		}

		if retrieved.Track().Name != "Song One" {
			t.Errorf("expected name Song One, got %s", retrieved.Track().Name)
		}

		if retrieved.Artists() != "Test Artist" {
			t.Errorf("expected artists Test Artist, got %s", retrieved.Artists())
		}
	})

	t.Run("GetByUserAndTrack", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		track := models.NewCachedTrack(0, "user1", testTrack("track1", "Song One"))

		if err := repo.Create(track); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}

		retrieved, err := repo.GetByUserAndTrack("user1", "track1")
		if err != nil {
			t.Fatalf("failed to get track: %v", err)
		}

		if retrieved.Track().ID != "track1" {
			t.Errorf("expected track ID track1, got %s", retrieved.Track().ID)
		}

		if _, err := repo.GetByUserAndTrack("user2", "track1"); err == nil {
			t.Error("expected error for wrong user")
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		track := models.NewCachedTrack(0, "user1", testTrack("track1", "Song One"))

		if err := repo.Create(track); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}

		retrieved, err := repo.Get(track.ID())
		if err != nil {
			t.Fatalf("failed to get track: %v", err)
		}

		if err := repo.Update(retrieved); err != nil {
			t.Fatalf("failed to update track: %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		track := models.NewCachedTrack(0, "user1", testTrack("track1", "Song One"))

		if err := repo.Create(track); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}

		if err := repo.Delete(track.ID()); err != nil {
			t.Fatalf("failed to delete track: %v", err)
		}

		_, err := repo.Get(track.ID())
		if err == nil {
			t.Error("expected error when getting deleted track")
		}
	})

	t.Run("ListByUser", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)

		for _, id := range []string{"track1", "track2", "track3"} {
			track := models.NewCachedTrack(0, "user1", testTrack(id, "Song "+id))
			if err := repo.Create(track); err != nil {
				t.Fatalf("failed to create track: %v", err)
			}
		}

		other := models.NewCachedTrack(0, "user2", testTrack("track9", "Other Song"))
		if err := repo.Create(other); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}

		tracks, err := repo.ListByUser("user1")
		if err != nil {
			t.Fatalf("failed to list tracks: %v", err)
		}

		if len(tracks) != 3 {
			t.Fatalf("expected 3 tracks, got %d", len(tracks))
		}

		// Insertion order preserved via sequence
		if tracks[0].Track().ID != "track1" || tracks[2].Track().ID != "track3" {
			t.Errorf("tracks out of order: %s, %s, %s", tracks[0].Track().ID, tracks[1].Track().ID, tracks[2].Track().ID)
		}
	})

	t.Run("ClearForUser", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)

		for _, id := range []string{"track1", "track2"} {
			track := models.NewCachedTrack(0, "user1", testTrack(id, "Song "+id))
			if err := repo.Create(track); err != nil {
				t.Fatalf("failed to create track: %v", err)
			}
		}

		cleared, err := repo.ClearForUser("user1")
		if err != nil {
			t.Fatalf("failed to clear tracks: %v", err)
		}

		if cleared != 2 {
			t.Errorf("expected 2 cleared, got %d", cleared)
		}

		count, err := repo.CountForUser("user1")
		if err != nil {
			t.Fatalf("failed to count tracks: %v", err)
		}

		if count != 0 {
			t.Errorf("expected 0 tracks after clear, got %d", count)
		}
	})
}

func TestPlaylistRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPlaylistRepository(db)
		record := models.NewGeneratedPlaylist(0, "user1", "playlist1", "love tracks", "love", 42, false, "https://open.spotify.com/playlist/playlist1")

		err := repo.Create(record)
		if err != nil {
			t.Fatalf("failed to create playlist record: %v", err)
		}

		if record.ID() == "" {
			t.Error("record ID should be set after creation")
		}
	})

	t.Run("GetByPlaylistID", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPlaylistRepository(db)
		record := models.NewGeneratedPlaylist(0, "user1", "playlist1", "love tracks", "love", 42, false, "https://open.spotify.com/playlist/playlist1")

		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create playlist record: %v", err)
		}

		retrieved, err := repo.GetByPlaylistID("playlist1")
		if err != nil {
			t.Fatalf("failed to get playlist record: %v", err)
		}

		if retrieved.Keyword() != "love" {
			t.Errorf("expected keyword love, got %s", retrieved.Keyword())
		}

		if retrieved.TrackCount() != 42 {
			t.Errorf("expected track count 42, got %d", retrieved.TrackCount())
		}
	})

	t.Run("ListByUserNewestFirst", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPlaylistRepository(db)

		for i, id := range []string{"playlist1", "playlist2", "playlist3"} {
			record := models.NewGeneratedPlaylist(0, "user1", id, "run", "love", i, false, "")
			if err := repo.Create(record); err != nil {
				t.Fatalf("failed to create playlist record: %v", err)
			}
		}

		records, err := repo.ListByUser("user1")
		if err != nil {
			t.Fatalf("failed to list playlist records: %v", err)
		}

		if len(records) != 3 {
			t.Fatalf("expected 3 records, got %d", len(records))
		}

		if records[0].PlaylistID() != "playlist3" {
			t.Errorf("expected newest record first, got %s", records[0].PlaylistID())
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPlaylistRepository(db)
		record := models.NewGeneratedPlaylist(0, "user1", "playlist1", "love tracks", "love", 42, false, "")

		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create playlist record: %v", err)
		}

		if err := repo.Delete(record.ID()); err != nil {
			t.Fatalf("failed to delete playlist record: %v", err)
		}

		_, err := repo.Get(record.ID())
		if err == nil {
			t.Error("expected error when getting deleted record")
		}
	})
}

func TestTrackCacheAdapter(t *testing.T) {
	t.Run("CachesNewTrack", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		adapter := NewTrackCacheAdapter(repo)

		if err := adapter.CacheTrack("user1", testTrack("track1", "Song One")); err != nil {
			t.Fatalf("failed to cache track: %v", err)
		}

		count, err := repo.CountForUser("user1")
		if err != nil {
			t.Fatalf("failed to count tracks: %v", err)
		}

		if count != 1 {
			t.Errorf("expected 1 cached track, got %d", count)
		}
	})

	t.Run("IgnoresDuplicates", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		adapter := NewTrackCacheAdapter(repo)

		for i := 0; i < 3; i++ {
			if err := adapter.CacheTrack("user1", testTrack("track1", "Song One")); err != nil {
				t.Fatalf("failed to cache track: %v", err)
			}
		}

		count, err := repo.CountForUser("user1")
		if err != nil {
			t.Fatalf("failed to count tracks: %v", err)
		}

		if count != 1 {
			t.Errorf("expected 1 cached track after duplicates, got %d", count)
		}
	})
}

func TestHistoryAdapter(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewPlaylistRepository(db)
	adapter := NewHistoryAdapter(repo)

	playlist := models.Playlist{
		ID:         "playlist1",
		Name:       "love tracks",
		Public:     true,
		TrackCount: 17,
	}

	if err := adapter.RecordPlaylist("user1", playlist, "love", "https://open.spotify.com/playlist/playlist1"); err != nil {
		t.Fatalf("failed to record playlist: %v", err)
	}

	record, err := repo.GetByPlaylistID("playlist1")
	if err != nil {
		t.Fatalf("failed to get playlist record: %v", err)
	}

	if record.ShareURL() != "https://open.spotify.com/playlist/playlist1" {
		t.Errorf("unexpected share URL: %s", record.ShareURL())
	}

	if !record.Public() {
		t.Error("expected record to be public")
	}
}
