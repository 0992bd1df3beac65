package tasks

import (
	"testing"

	"github.com/Posajpa/Spotify-Playlist-Generator/internal/models"
)

func filterFixture() []models.Track {
	return []models.Track{
		{ID: "t1", Name: "Love Song", Artists: []models.ArtistRef{{Name: "The Cure"}}, Album: "Disintegration"},
		{ID: "t2", Name: "Fast Car", Artists: []models.ArtistRef{{Name: "Tracy Chapman"}}, Album: "Tracy Chapman"},
		{ID: "t3", Name: "Higher Love", Artists: []models.ArtistRef{{Name: "Steve Winwood"}}, Album: "Back in the High Life"},
		{ID: "t4", Name: "Breathe", Artists: []models.ArtistRef{{Name: "Lovebirds"}}, Album: "Modern Kosmology"},
		{ID: "t5", Name: "Clouds", Artists: []models.ArtistRef{{Name: "Apparat"}}, Album: "Glove Compartment"},
	}
}

func TestFilterTracks(t *testing.T) {
	tracks := filterFixture()

	assertIDs := func(t *testing.T, got []models.Track, want ...string) {
		t.Helper()
		if len(got) != len(want) {
			t.Fatalf("expected %d matches, got %d", len(want), len(got))
		}
		for i, id := range want {
			if got[i].ID != id {
				t.Fatalf("match %d: expected %s, got %s", i, id, got[i].ID)
			}
		}
	}

	t.Run("EmptyKeywordMatchesNothing", func(t *testing.T) {
		got := FilterTracks(tracks, models.FilterCriteria{}, nil)
		if len(got) != 0 {
			t.Errorf("expected empty result, got %d tracks", len(got))
		}
	})

	t.Run("MatchesNameArtistAndAlbum", func(t *testing.T) {
		// "love" appears in t1's name, t3's name, t4's artist, t5's album.
		got := FilterTracks(tracks, models.FilterCriteria{Keyword: "love"}, nil)
		assertIDs(t, got, "t1", "t3", "t4", "t5")
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		got := FilterTracks(tracks, models.FilterCriteria{Keyword: "LOVE SONG"}, nil)
		assertIDs(t, got, "t1")
	})

	t.Run("NoMatches", func(t *testing.T) {
		got := FilterTracks(tracks, models.FilterCriteria{Keyword: "polka"}, nil)
		if len(got) != 0 {
			t.Errorf("expected no matches, got %d", len(got))
		}
	})

	t.Run("BoundsEnforcedWhenFeaturesPresent", func(t *testing.T) {
		features := map[string]models.AudioFeatures{
			"t1": {ID: "t1", Tempo: 90, Danceability: 0.8, Valence: 0.6},
			"t3": {ID: "t3", Tempo: 130, Danceability: 0.4, Valence: 0.9},
		}
		criteria := models.FilterCriteria{Keyword: "love", MinTempo: models.Bound(100)}

		// t1 fails the tempo bound; t4 and t5 have no features entry and
		// bypass the bounds entirely.
		got := FilterTracks(tracks, criteria, features)
		assertIDs(t, got, "t3", "t4", "t5")
	})

	t.Run("MaxTempoBound", func(t *testing.T) {
		features := map[string]models.AudioFeatures{
			"t1": {ID: "t1", Tempo: 90},
			"t3": {ID: "t3", Tempo: 130},
		}
		criteria := models.FilterCriteria{Keyword: "love", MaxTempo: models.Bound(100)}

		got := FilterTracks(tracks, criteria, features)
		assertIDs(t, got, "t1", "t4", "t5")
	})

	t.Run("CombinedBounds", func(t *testing.T) {
		features := map[string]models.AudioFeatures{
			"t1": {ID: "t1", Tempo: 120, Danceability: 0.8, Valence: 0.3},
			"t3": {ID: "t3", Tempo: 120, Danceability: 0.8, Valence: 0.9},
		}
		criteria := models.FilterCriteria{
			Keyword:         "love",
			MinTempo:        models.Bound(100),
			MinDanceability: models.Bound(0.5),
			MinValence:      models.Bound(0.5),
		}

		got := FilterTracks(tracks, criteria, features)
		assertIDs(t, got, "t3", "t4", "t5")
	})
}

func TestFilterByGenres(t *testing.T) {
	tracks := []models.Track{
		{ID: "t1", Name: "One"},
		{ID: "t2", Name: "Two"},
		{ID: "t3", Name: "Three"},
		{ID: "t4", Name: "Four"},
	}
	genres := map[string][]string{
		"t1": {"rock", "indie rock"},
		"t2": {"synthpop", "electronica"},
		"t3": {"rock", "synthpop"},
		// t4 has no entry.
	}

	assertIDs := func(t *testing.T, got []models.Track, want ...string) {
		t.Helper()
		if len(got) != len(want) {
			t.Fatalf("expected %d matches, got %d", len(want), len(got))
		}
		for i, id := range want {
			if got[i].ID != id {
				t.Fatalf("match %d: expected %s, got %s", i, id, got[i].ID)
			}
		}
	}

	t.Run("AnyMatchesIntersection", func(t *testing.T) {
		got := FilterByGenres(tracks, genres, []string{"rock"}, models.MatchAny)
		assertIDs(t, got, "t1", "t3")
	})

	t.Run("AllRequiresSubset", func(t *testing.T) {
		got := FilterByGenres(tracks, genres, []string{"rock", "synthpop"}, models.MatchAll)
		assertIDs(t, got, "t3")
	})

	t.Run("CaseInsensitiveSelection", func(t *testing.T) {
		got := FilterByGenres(tracks, genres, []string{"ROCK"}, models.MatchAny)
		assertIDs(t, got, "t1", "t3")
	})

	t.Run("UntaggedTracksAlwaysExcluded", func(t *testing.T) {
		got := FilterByGenres(tracks, genres, []string{"rock", "synthpop", "electronica", "indie rock"}, models.MatchAny)
		assertIDs(t, got, "t1", "t2", "t3")
	})

	t.Run("EmptySelectionAnyMatchesNothing", func(t *testing.T) {
		got := FilterByGenres(tracks, genres, nil, models.MatchAny)
		if len(got) != 0 {
			t.Errorf("expected no matches, got %d", len(got))
		}
	})

	t.Run("EmptySelectionAllMatchesTagged", func(t *testing.T) {
		got := FilterByGenres(tracks, genres, nil, models.MatchAll)
		assertIDs(t, got, "t1", "t2", "t3")
	})
}
