package tasks

import (
	"context"

	"github.com/Posajpa/Spotify-Playlist-Generator/internal/models"
	"github.com/Posajpa/Spotify-Playlist-Generator/internal/services"
)

// savedTracksPageSize is the fixed page size for library pagination.
const savedTracksPageSize = services.MaxSavedTracksPageSize

// FetchLibrary retrieves the user's complete saved-tracks library.
//
// Pages are requested at offsets 0, pageSize, 2*pageSize, ... and concatenated
// in request order; the first empty page signals exhaustion. An empty page the
// provider serves transiently mid-collection is indistinguishable from the true
// end and terminates the fetch; the saved-tracks endpoint offers no cursor that
// would disambiguate the two.
//
// On a transport failure the tracks fetched so far are returned alongside a
// pagination [StageError], so callers can report partial progress.
func (e *GeneratorEngine) FetchLibrary(ctx context.Context, progress chan<- ProgressUpdate) ([]models.Track, error) {
	var all []models.Track
	offset := 0
	page := 0

	for {
		if err := e.wait(ctx); err != nil {
			return all, stageError(StagePagination, err)
		}

		tracks, err := e.library.SavedTracksPage(ctx, savedTracksPageSize, offset)
		if err != nil {
			return all, stageError(StagePagination, err)
		}

		if len(tracks) == 0 {
			break
		}

		all = append(all, tracks...)
		page++
		offset = page * savedTracksPageSize

		e.sendProgress(progress, fetchPageUpdate(page, len(all)))
	}

	e.sendProgress(progress, libraryFetchedUpdate(page, len(all)))
	return all, nil
}
