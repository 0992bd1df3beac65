package tasks

import (
	"strings"

	"github.com/Posajpa/Spotify-Playlist-Generator/internal/models"
)

// FilterTracks evaluates each track against the keyword and the numeric
// bounds in criteria, returning the matching subset in input order.
//
// An empty keyword returns an empty result: generating from the whole library
// with no search term is refused by policy, not treated as a passthrough.
//
// A track matches when the lowercased keyword is a substring of its lowercased
// name, comma-joined artist names, or album name. Matching tracks are then
// tested against each supplied bound; a bound is only enforced when the track
// has a features entry, so missing feature data never rejects a track here.
func FilterTracks(tracks []models.Track, criteria models.FilterCriteria, features map[string]models.AudioFeatures) []models.Track {
	keyword := strings.ToLower(criteria.Keyword)
	if keyword == "" {
		return []models.Track{}
	}

	filtered := make([]models.Track, 0)
	for _, track := range tracks {
		name := strings.ToLower(track.Name)
		artists := strings.ToLower(track.ArtistNames())
		album := strings.ToLower(track.Album)

		if !strings.Contains(name, keyword) && !strings.Contains(artists, keyword) && !strings.Contains(album, keyword) {
			continue
		}

		af, ok := features[track.ID]
		if !ok {
			filtered = append(filtered, track)
			continue
		}

		if criteria.MinTempo != nil && af.Tempo < *criteria.MinTempo {
			continue
		}
		if criteria.MaxTempo != nil && af.Tempo > *criteria.MaxTempo {
			continue
		}
		if criteria.MinDanceability != nil && af.Danceability < *criteria.MinDanceability {
			continue
		}
		if criteria.MinValence != nil && af.Valence < *criteria.MinValence {
			continue
		}

		filtered = append(filtered, track)
	}

	return filtered
}

// FilterByGenres evaluates each track's genre set against the selection,
// returning the matching subset in input order. Comparison is case-insensitive.
//
// A track with no genre entry (or an empty one) is excluded unconditionally,
// regardless of mode. Under [models.MatchAny] a track matches when its genre
// set intersects the selection; under [models.MatchAll] when the selection is
// a subset of its genre set. With an empty selection, MatchAny matches nothing
// and MatchAll matches every track that has genres at all (the vacuous subset).
func FilterByGenres(tracks []models.Track, trackGenres map[string][]string, selected []string, mode models.GenreMatchMode) []models.Track {
	want := make(map[string]bool, len(selected))
	for _, genre := range selected {
		genre = strings.ToLower(strings.TrimSpace(genre))
		if genre != "" {
			want[genre] = true
		}
	}

	filtered := make([]models.Track, 0)
	for _, track := range tracks {
		genres := trackGenres[track.ID]
		if len(genres) == 0 {
			continue
		}

		have := make(map[string]bool, len(genres))
		for _, genre := range genres {
			have[strings.ToLower(genre)] = true
		}

		if genreMatch(have, want, mode) {
			filtered = append(filtered, track)
		}
	}

	return filtered
}

func genreMatch(have, want map[string]bool, mode models.GenreMatchMode) bool {
	if mode == models.MatchAll {
		for genre := range want {
			if !have[genre] {
				return false
			}
		}
		return true
	}

	for genre := range want {
		if have[genre] {
			return true
		}
	}
	return false
}
