package tasks

import (
	"context"
	"sort"
	"strings"

	"github.com/Posajpa/Spotify-Playlist-Generator/internal/models"
	"github.com/Posajpa/Spotify-Playlist-Generator/internal/services"
)

// EnrichFeatures looks up audio features for the given track IDs in batches
// of [services.MaxAudioFeatureIDs].
//
// A track the provider withholds feature data for simply has no entry in the
// returned map; absence is recorded, never raised as an error. Batches carry
// no inter-chunk dependency and are issued sequentially in input order.
func (e *GeneratorEngine) EnrichFeatures(ctx context.Context, progress chan<- ProgressUpdate, ids []string) (map[string]models.AudioFeatures, error) {
	features := make(map[string]models.AudioFeatures, len(ids))
	chunks := chunkStrings(ids, services.MaxAudioFeatureIDs)

	for i, chunk := range chunks {
		e.sendProgress(progress, featureChunkUpdate(i+1, len(chunks)))

		if err := e.wait(ctx); err != nil {
			return nil, stageError(StageEnrichment, err)
		}

		batch, err := e.library.AudioFeatures(ctx, chunk)
		if err != nil {
			return nil, stageError(StageEnrichment, err)
		}

		for _, af := range batch {
			if af == nil || af.ID == "" {
				continue
			}
			features[af.ID] = *af
		}
	}

	return features, nil
}

// EnrichGenres maps each track to the deduplicated, case-folded union of its
// artists' genre tags, looking up artists in batches of [services.MaxArtistIDs].
//
// A track whose artists carry no genre tags (or whose artist lookups return
// nothing) has no entry in the returned map. Tracks with multiple artists
// aggregate across all of them.
func (e *GeneratorEngine) EnrichGenres(ctx context.Context, progress chan<- ProgressUpdate, tracks []models.Track) (map[string][]string, error) {
	// Collect unique artist IDs in first-seen order.
	var artistIDs []string
	seen := make(map[string]bool)
	for _, track := range tracks {
		for _, id := range track.ArtistIDs() {
			if !seen[id] {
				seen[id] = true
				artistIDs = append(artistIDs, id)
			}
		}
	}

	artistGenres := make(map[string][]string, len(artistIDs))
	chunks := chunkStrings(artistIDs, services.MaxArtistIDs)

	for i, chunk := range chunks {
		e.sendProgress(progress, genreChunkUpdate(i+1, len(chunks)))

		if err := e.wait(ctx); err != nil {
			return nil, stageError(StageEnrichment, err)
		}

		artists, err := e.library.Artists(ctx, chunk)
		if err != nil {
			return nil, stageError(StageEnrichment, err)
		}

		for _, artist := range artists {
			if artist.ID == "" || len(artist.Genres) == 0 {
				continue
			}
			artistGenres[artist.ID] = artist.Genres
		}
	}

	trackGenres := make(map[string][]string, len(tracks))
	for _, track := range tracks {
		union := make(map[string]bool)
		for _, id := range track.ArtistIDs() {
			for _, genre := range artistGenres[id] {
				genre = strings.ToLower(strings.TrimSpace(genre))
				if genre != "" {
					union[genre] = true
				}
			}
		}

		if len(union) == 0 {
			continue
		}

		genres := make([]string, 0, len(union))
		for genre := range union {
			genres = append(genres, genre)
		}
		sort.Strings(genres)
		trackGenres[track.ID] = genres
	}

	return trackGenres, nil
}

// LibraryGenres summarizes genre frequency across the given track genre map,
// returning tags sorted by descending track count then name.
func LibraryGenres(trackGenres map[string][]string) []GenreCount {
	counts := make(map[string]int)
	for _, genres := range trackGenres {
		for _, genre := range genres {
			counts[genre]++
		}
	}

	summary := make([]GenreCount, 0, len(counts))
	for genre, count := range counts {
		summary = append(summary, GenreCount{Genre: genre, Tracks: count})
	}

	sort.Slice(summary, func(i, j int) bool {
		if summary[i].Tracks != summary[j].Tracks {
			return summary[i].Tracks > summary[j].Tracks
		}
		return summary[i].Genre < summary[j].Genre
	})

	return summary
}

// GenreCount pairs a genre tag with the number of library tracks carrying it.
type GenreCount struct {
	Genre  string `json:"genre"`
	Tracks int    `json:"tracks"`
}
