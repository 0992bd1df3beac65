package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Posajpa/Spotify-Playlist-Generator/internal/models"
	"github.com/Posajpa/Spotify-Playlist-Generator/internal/repositories"
	"github.com/Posajpa/Spotify-Playlist-Generator/internal/shared"
	"github.com/Posajpa/Spotify-Playlist-Generator/internal/tasks"
	"github.com/urfave/cli/v3"
)

// resolveUser fetches the authenticated user's profile, reauthorizing once on token expiry.
func (r *Runner) resolveUser(ctx context.Context, cmd *cli.Command) (*models.User, error) {
	if r.library == nil {
		return nil, fmt.Errorf("%w: Spotify service not initialized, run 'spg auth login'", shared.ErrServiceUnavailable)
	}

	user, err := r.library.CurrentUser(ctx)
	if err != nil {
		if reauthed, authErr := r.handleAuthError(ctx, err, cmd); reauthed {
			if authErr != nil {
				return nil, authErr
			}
			if user, err = r.library.CurrentUser(ctx); err != nil {
				return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
			}
		} else {
			return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
	}

	return user, nil
}

// fetchLibrary runs the engine's library fetch with progress printed to the output writer.
func (r *Runner) fetchLibrary(ctx context.Context) ([]models.Track, error) {
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.writePlain("📥 %s\n", update.Message)
		}
	}()

	tracks, err := r.engine.FetchLibrary(ctx, progressCh)
	close(progressCh)
	<-done

	return tracks, err
}

// LibraryTracks lists the user's saved tracks, from the API or the local cache.
func (r *Runner) LibraryTracks(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	save := cmd.Bool("save")
	cached := cmd.Bool("cached")

	var tracks []models.Track

	if cached {
		user, err := r.resolveUser(ctx, cmd)
		if err != nil {
			return err
		}

		db, err := r.openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		rows, err := repositories.NewTrackRepository(db).ListByUser(user.ID)
		if err != nil {
			return fmt.Errorf("failed to read cache: %w", err)
		}

		for _, row := range rows {
			track := row.Track()
			tracks = append(tracks, track)
		}

		r.logger.Infof("loaded %d tracks from cache", len(tracks))
	} else {
		if r.library == nil {
			return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
		}

		r.logger.Info("fetching saved tracks")

		fetched, err := r.fetchLibrary(ctx)
		if err != nil {
			if reauthed, authErr := r.handleAuthError(ctx, err, cmd); reauthed {
				if authErr != nil {
					return authErr
				}
				if fetched, err = r.fetchLibrary(ctx); err != nil {
					return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
				}
			} else {
				return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
			}
		}
		tracks = fetched
	}

	if limit > 0 && limit < len(tracks) {
		tracks = tracks[:limit]
	}

	if save {
		saveFile := "saved_tracks.json"
		data, err := shared.MarshalJSON(tracks, true)
		if err != nil {
			return fmt.Errorf("failed to marshal tracks: %w", err)
		}
		if err := os.WriteFile(saveFile, data, 0644); err != nil {
			r.logger.Warn("failed to save tracks", "error", err)
		} else {
			r.logger.Info("tracks saved", "file", saveFile)
		}
	}

	if useJSON {
		return r.writeJSON(tracks, pretty)
	}

	r.writePlain("Found %d saved tracks:\n\n", len(tracks))
	for i, t := range tracks {
		if t.Duration > 0 {
			r.writePlain("%d. %s - %s [%s]\n", i+1, t.ArtistNames(), t.Name, shared.FormatDuration(t.Duration))
		} else {
			r.writePlain("%d. %s - %s\n", i+1, t.ArtistNames(), t.Name)
		}
		if t.Album != "" {
			r.writePlain("   Album: %s\n", t.Album)
		}
	}

	return nil
}

// LibraryGenres summarizes the genre tags across the user's saved library.
func (r *Runner) LibraryGenres(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if r.library == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	tracks, err := r.fetchLibrary(ctx)
	if err != nil {
		if reauthed, authErr := r.handleAuthError(ctx, err, cmd); reauthed {
			if authErr != nil {
				return authErr
			}
			if tracks, err = r.fetchLibrary(ctx); err != nil {
				return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
			}
		} else {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.writePlain("🎸 %s\n", update.Message)
		}
	}()

	trackGenres, err := r.engine.EnrichGenres(ctx, progressCh, tracks)
	close(progressCh)
	<-done
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	summary := tasks.LibraryGenres(trackGenres)

	if limit > 0 && limit < len(summary) {
		summary = summary[:limit]
	}

	if useJSON {
		return r.writeJSON(summary, pretty)
	}

	r.writePlain("\nGenres across %d tracks:\n\n", len(tracks))
	for i, entry := range summary {
		r.writePlain("%d. %s (%d tracks)\n", i+1, entry.Genre, entry.Tracks)
	}

	return nil
}
