package tasks

import (
	"fmt"

	"github.com/Posajpa/Spotify-Playlist-Generator/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase (0 when unknown up front)
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchLibrary Phase = iota
	EnrichFeatures
	EnrichGenres
	FilterLibrary
	CreatePlaylist
	AppendTracks
	VerifyPlaylist
)

func (p Phase) String() string {
	switch p {
	case FetchLibrary:
		return "fetch_library"
	case EnrichFeatures:
		return "enrich_features"
	case EnrichGenres:
		return "enrich_genres"
	case FilterLibrary:
		return "filter_library"
	case CreatePlaylist:
		return "create_playlist"
	case AppendTracks:
		return "append_tracks"
	case VerifyPlaylist:
		return "verify_playlist"
	default:
		return ""
	}
}

func fetchPageUpdate(page, fetched int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchLibrary,
		Step:    page,
		Message: fmt.Sprintf("Fetched %d saved tracks...", fetched),
	}
}

func libraryFetchedUpdate(pages, fetched int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchLibrary,
		Step:    pages,
		Total:   pages,
		Message: fmt.Sprintf("Library fetched: %d tracks across %d pages", fetched, pages),
	}
}

func featureChunkUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   EnrichFeatures,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching audio features (batch %d/%d)...", step, total),
	}
}

func genreChunkUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   EnrichGenres,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching artist genres (batch %d/%d)...", step, total),
	}
}

func filteredUpdate(matched, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FilterLibrary,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Matched %d of %d tracks", matched, total),
	}
}

func createPlaylistUpdate(pl *models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Created playlist '%s'", pl.Name),
		Data:    pl,
	}
}

func appendChunkUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AppendTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Adding tracks (batch %d/%d)...", step, total),
	}
}
