// package tasks implements the library fetch → enrich → filter → build pipeline.
//
// The core abstraction is GeneratorEngine, which orchestrates a full generation run.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/Posajpa/Spotify-Playlist-Generator/internal/models"
	"github.com/Posajpa/Spotify-Playlist-Generator/internal/services"
	"github.com/Posajpa/Spotify-Playlist-Generator/internal/shared"
	"golang.org/x/time/rate"
)

// GenerateOpts configures a single generation run.
type GenerateOpts struct {
	OwnerID  string                // Authenticated user, resolved by the caller
	Name     string                // Name for the created playlist
	Public   bool                  // Playlist visibility
	DryRun   bool                  // Filter and preview only, create nothing
	Criteria models.FilterCriteria // Filter configuration
}

// GenerateResult contains all data from a full generation run.
type GenerateResult struct {
	OwnerID      string                          // User the run executed for
	FetchedCount int                             // Saved tracks fetched before filtering
	Filtered     []models.Track                  // Matching tracks, library order preserved
	Features     map[string]models.AudioFeatures // Track ID → audio features (absent IDs withheld by provider)
	Genres       map[string][]string             // Track ID → deduplicated artist genre union
	Playlist     *models.Playlist                // Created playlist (nil on dry runs or empty matches)
	ShareURL     string                          // Shareable web link for the created playlist
}

// Generator defines the operations of the playlist generation pipeline.
type Generator interface {
	// Generate runs the full fetch → enrich → filter → build pipeline.
	Generate(ctx context.Context, progress chan<- ProgressUpdate, opts GenerateOpts) (*GenerateResult, error)

	// FetchLibrary retrieves the user's complete saved-tracks library.
	FetchLibrary(ctx context.Context, progress chan<- ProgressUpdate) ([]models.Track, error)

	// BuildPlaylist creates a playlist and appends the given URIs in order.
	BuildPlaylist(ctx context.Context, progress chan<- ProgressUpdate, ownerID, name string, uris []string, public bool) (*models.Playlist, error)
}

// TrackCacher persists fetched library tracks. Implementations must tolerate
// duplicates; caching is best-effort and never fails a run.
type TrackCacher interface {
	CacheTrack(userID string, track models.Track) error
}

// HistoryRecorder records playlists created by generation runs.
type HistoryRecorder interface {
	RecordPlaylist(userID string, playlist models.Playlist, keyword, shareURL string) error
}

// GeneratorEngine implements Generator against a [services.Library].
//
// All remote calls run on a single logical thread of control, paced by a rate
// limiter; there are no concurrent in-flight requests.
type GeneratorEngine struct {
	library services.Library
	limiter *rate.Limiter
	cache   TrackCacher
	history HistoryRecorder
}

// NewGeneratorEngine creates a new GeneratorEngine backed by the given library service.
func NewGeneratorEngine(library services.Library) *GeneratorEngine {
	return &GeneratorEngine{
		library: library,
		limiter: rate.NewLimiter(rate.Limit(5), 1),
	}
}

// SetCache installs an optional track cache exercised after library fetches.
func (e *GeneratorEngine) SetCache(cache TrackCacher) {
	e.cache = cache
}

// SetHistory installs an optional recorder for created playlists.
func (e *GeneratorEngine) SetHistory(history HistoryRecorder) {
	e.history = history
}

// SetRateLimit adjusts the pacing of remote calls in requests per second.
func (e *GeneratorEngine) SetRateLimit(rps float64) {
	if rps > 0 {
		e.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// wait blocks until the limiter grants the next request slot.
func (e *GeneratorEngine) wait(ctx context.Context) error {
	if e.limiter == nil {
		return nil
	}
	return e.limiter.Wait(ctx)
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *GeneratorEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Generate runs the full generation pipeline for one criteria bundle.
//
// When the criteria carry a keyword, the keyword/audio filter runs over the
// fetched library; when they carry a genre selection, the genre filter runs
// over whatever the keyword step produced (or the full library when no
// keyword was given, so genre-only runs remain useful). Filtering order is
// always preserved relative to the library.
func (e *GeneratorEngine) Generate(ctx context.Context, progress chan<- ProgressUpdate, opts GenerateOpts) (*GenerateResult, error) {
	if e.library == nil {
		return nil, fmt.Errorf("%w: library service not initialized", shared.ErrServiceUnavailable)
	}
	if opts.OwnerID == "" {
		return nil, fmt.Errorf("%w: owner ID required", shared.ErrInvalidArgument)
	}

	result := &GenerateResult{OwnerID: opts.OwnerID}

	tracks, err := e.FetchLibrary(ctx, progress)
	if err != nil {
		// Surface what was fetched before the abort so callers can report it.
		result.FetchedCount = len(tracks)
		return result, err
	}
	result.FetchedCount = len(tracks)

	if e.cache != nil {
		for _, track := range tracks {
			// Cache errors never disrupt a run.
			_ = e.cache.CacheTrack(opts.OwnerID, track)
		}
	}

	filtered := tracks

	if opts.Criteria.Keyword != "" {
		features, err := e.EnrichFeatures(ctx, progress, trackIDs(tracks))
		if err != nil {
			return result, err
		}
		result.Features = features
		filtered = FilterTracks(filtered, opts.Criteria, features)
	} else if !opts.Criteria.HasGenres() {
		// Empty keyword with no genre selection matches nothing.
		filtered = []models.Track{}
	}

	if opts.Criteria.HasGenres() {
		genres, err := e.EnrichGenres(ctx, progress, filtered)
		if err != nil {
			return result, err
		}
		result.Genres = genres
		filtered = FilterByGenres(filtered, genres, opts.Criteria.Genres, opts.Criteria.GenreMode)
	}

	result.Filtered = filtered
	e.sendProgress(progress, filteredUpdate(len(filtered), len(tracks)))

	if opts.DryRun || len(filtered) == 0 {
		return result, nil
	}

	uris := make([]string, 0, len(filtered))
	for _, track := range filtered {
		if track.URI != "" {
			uris = append(uris, track.URI)
		}
	}

	playlist, err := e.BuildPlaylist(ctx, progress, opts.OwnerID, opts.Name, uris, opts.Public)
	if err != nil {
		return result, err
	}

	result.Playlist = playlist
	result.ShareURL = services.PlaylistShareURL(playlist.ID)

	if e.history != nil {
		_ = e.history.RecordPlaylist(opts.OwnerID, *playlist, opts.Criteria.Keyword, result.ShareURL)
	}

	return result, nil
}

// VerifyBuild re-reads a created playlist and reports whether its track URIs
// equal the given sequence, order included.
func (e *GeneratorEngine) VerifyBuild(ctx context.Context, playlistID string, uris []string) (bool, error) {
	if err := e.wait(ctx); err != nil {
		return false, stageError(StageBuild, err)
	}

	items, err := e.library.PlaylistItems(ctx, playlistID)
	if err != nil {
		return false, stageError(StageBuild, err)
	}

	if len(items) != len(uris) {
		return false, nil
	}
	for i, item := range items {
		if item.URI != uris[i] {
			return false, nil
		}
	}
	return true, nil
}

// trackIDs collects the IDs of the given tracks in order.
func trackIDs(tracks []models.Track) []string {
	ids := make([]string, 0, len(tracks))
	for _, t := range tracks {
		if t.ID != "" {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// chunkStrings splits items into consecutive chunks of at most size elements.
func chunkStrings(items []string, size int) [][]string {
	if size <= 0 || len(items) == 0 {
		return nil
	}

	chunks := make([][]string, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}
