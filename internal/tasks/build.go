package tasks

import (
	"context"
	"fmt"

	"github.com/Posajpa/Spotify-Playlist-Generator/internal/models"
	"github.com/Posajpa/Spotify-Playlist-Generator/internal/services"
	"github.com/Posajpa/Spotify-Playlist-Generator/internal/shared"
)

// appendBatchSize is the ceiling for one playlist append request.
const appendBatchSize = services.MaxPlaylistAppendURIs

// BuildPlaylist creates a playlist owned by ownerID and appends the given
// track URIs in sequential batches of at most 100, preserving input order
// across batch boundaries.
//
// The operation is not transactional: an append failure at batch k leaves the
// playlist holding everything batches 1..k-1 appended, surfaced as a
// [PartialBuildError]; the container is never deleted on failure.
func (e *GeneratorEngine) BuildPlaylist(ctx context.Context, progress chan<- ProgressUpdate, ownerID, name string, uris []string, public bool) (*models.Playlist, error) {
	if e.library == nil {
		return nil, fmt.Errorf("%w: library service not initialized", shared.ErrServiceUnavailable)
	}
	if name == "" {
		return nil, stageError(StageBuild, fmt.Errorf("%w: playlist name required", shared.ErrInvalidArgument))
	}

	if err := e.wait(ctx); err != nil {
		return nil, stageError(StageBuild, err)
	}

	playlist, err := e.library.CreatePlaylist(ctx, ownerID, name, public)
	if err != nil {
		return nil, stageError(StageBuild, err)
	}

	e.sendProgress(progress, createPlaylistUpdate(playlist))

	chunks := chunkStrings(uris, appendBatchSize)
	appended := 0

	for i, chunk := range chunks {
		e.sendProgress(progress, appendChunkUpdate(i+1, len(chunks)))

		if err := e.wait(ctx); err != nil {
			return playlist, &PartialBuildError{
				PlaylistID:   playlist.ID,
				PlaylistName: playlist.Name,
				Appended:     uris[:appended],
				Err:          err,
			}
		}

		if err := e.library.AddPlaylistItems(ctx, playlist.ID, chunk); err != nil {
			return playlist, &PartialBuildError{
				PlaylistID:   playlist.ID,
				PlaylistName: playlist.Name,
				Appended:     uris[:appended],
				Err:          err,
			}
		}

		appended += len(chunk)
	}

	playlist.TrackCount = appended
	return playlist, nil
}
