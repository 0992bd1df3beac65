package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Posajpa/Spotify-Playlist-Generator/internal/formatter"
	"github.com/Posajpa/Spotify-Playlist-Generator/internal/models"
	"github.com/Posajpa/Spotify-Playlist-Generator/internal/repositories"
	"github.com/Posajpa/Spotify-Playlist-Generator/internal/services"
	"github.com/Posajpa/Spotify-Playlist-Generator/internal/shared"
	"github.com/Posajpa/Spotify-Playlist-Generator/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Generate runs the full fetch → enrich → filter → build pipeline from CLI flags.
func (r *Runner) Generate(ctx context.Context, cmd *cli.Command) error {
	if r.library == nil {
		return fmt.Errorf("%w: Spotify service not initialized, run 'spg auth login'", shared.ErrServiceUnavailable)
	}

	criteria, err := criteriaFromFlags(cmd)
	if err != nil {
		return err
	}

	if criteria.Keyword == "" && !criteria.HasGenres() {
		return fmt.Errorf("%w: provide --keyword and/or --genres", shared.ErrMissingArgument)
	}

	user, err := r.resolveUser(ctx, cmd)
	if err != nil {
		return err
	}

	name := cmd.String("name")
	if name == "" {
		if criteria.Keyword != "" {
			name = fmt.Sprintf("%s tracks", criteria.Keyword)
		} else {
			name = fmt.Sprintf("%s playlist", strings.Join(criteria.Genres, " + "))
		}
	}

	public := r.config.Generator.DefaultPublic
	if cmd.IsSet("public") {
		public = cmd.Bool("public")
	}

	opts := tasks.GenerateOpts{
		OwnerID:  user.ID,
		Name:     name,
		Public:   public,
		DryRun:   cmd.Bool("dry-run"),
		Criteria: criteria,
	}

	// Wire the local cache and run history unless opted out. A missing or
	// broken database never blocks generation.
	if !cmd.Bool("no-cache") {
		db, err := r.openDatabase()
		if err != nil {
			r.logger.Warn("cache unavailable", "error", err)
		} else {
			defer db.Close()
			r.engine.SetCache(repositories.NewTrackCacheAdapter(repositories.NewTrackRepository(db)))
			r.engine.SetHistory(repositories.NewHistoryAdapter(repositories.NewPlaylistRepository(db)))
		}
	}

	r.logger.Info("starting generation", "user", user.ID, "keyword", criteria.Keyword, "dry_run", opts.DryRun)
	r.writePlain("Generating playlist from your saved tracks...\n\n")

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchLibrary:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.EnrichFeatures, tasks.EnrichGenres:
				r.writePlain("🎚  %s\n", update.Message)
			case tasks.FilterLibrary:
				r.writePlain("🔍 %s\n", update.Message)
			case tasks.CreatePlaylist, tasks.AppendTracks:
				r.writePlain("📝 %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.Generate(ctx, progressCh, opts)
	close(progressCh)
	<-done

	if err != nil {
		if reauthed, authErr := r.handleAuthError(ctx, err, cmd); reauthed {
			if authErr != nil {
				return authErr
			}
			return r.Generate(ctx, cmd)
		}

		var partial *tasks.PartialBuildError
		if errors.As(err, &partial) {
			r.writePlainln("⚠ Playlist created but not fully populated.")
			r.writePlain("  Playlist: %s (%s)\n", partial.PlaylistName, partial.PlaylistID)
			r.writePlain("  Tracks added: %d\n", len(partial.Appended))
			r.writePlain("  Link: %s\n", services.PlaylistShareURL(partial.PlaylistID))
			return err
		}

		var stage *tasks.StageError
		if errors.As(err, &stage) && result != nil && stage.Stage == tasks.StagePagination {
			r.writePlainln("⚠ Library fetch failed after %d tracks.", result.FetchedCount)
		}
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Generation Complete!")
	r.writePlain("Library: %d saved tracks\n", result.FetchedCount)
	r.writePlain("Matched: %d tracks\n", len(result.Filtered))

	if len(result.Filtered) == 0 {
		r.writePlain("\nNo tracks matched; nothing was created.\n")
		return nil
	}

	previewLimit := r.config.Generator.PreviewLimit
	preview := result.Filtered
	if previewLimit > 0 && previewLimit < len(preview) {
		preview = preview[:previewLimit]
	}

	r.writePlain("\n")
	for i, track := range preview {
		r.writePlain("%d. %s - %s\n", i+1, track.ArtistNames(), track.Name)
	}
	if len(preview) < len(result.Filtered) {
		r.writePlain("... and %d more\n", len(result.Filtered)-len(preview))
	}

	if result.Playlist != nil {
		r.writePlain("\nPlaylist: %s (%d tracks, %s)\n", result.Playlist.Name, result.Playlist.TrackCount, shared.VisibilityString(result.Playlist.Public))
		r.writePlain("Share: %s\n", result.ShareURL)

		if cmd.Bool("verify") {
			uris := make([]string, 0, len(result.Filtered))
			for _, track := range result.Filtered {
				if track.URI != "" {
					uris = append(uris, track.URI)
				}
			}
			ok, verifyErr := r.engine.VerifyBuild(ctx, result.Playlist.ID, uris)
			if verifyErr != nil {
				r.logger.Warn("verification failed", "error", verifyErr)
			} else if ok {
				r.writePlain("✓ Playlist contents verified\n")
			} else {
				r.writePlain("⚠ Playlist contents differ from the filtered selection\n")
			}
		}
	} else if opts.DryRun {
		r.writePlain("\nDry run: no playlist was created.\n")
	}

	return r.exportResult(cmd, result)
}

// exportResult writes the run result to disk in the format requested via --export.
func (r *Runner) exportResult(cmd *cli.Command, result *tasks.GenerateResult) error {
	format := cmd.String("export")
	if format == "" {
		return nil
	}

	output := cmd.String("output")

	switch format {
	case "csv":
		written, err := formatter.WriteCSVExport(result, strings.TrimSuffix(output, ".csv"))
		if err != nil {
			return err
		}
		r.writePlain("\n✓ Exported to %s and %s\n", written.TracksFile, written.SummaryFile)
	case "md", "markdown":
		written, err := formatter.WriteMarkdownExport(result, output)
		if err != nil {
			return err
		}
		r.writePlain("\n✓ Exported to %s\n", written)
	case "txt", "text":
		written, err := formatter.WriteTextExport(result, output)
		if err != nil {
			return err
		}
		r.writePlain("\n✓ Exported to %s\n", written)
	case "json":
		data, err := shared.MarshalJSON(result, true)
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		if output == "" && result.Playlist != nil {
			output = result.Playlist.ID + ".json"
		}
		if output == "" {
			output = "playlist.json"
		}
		if err := os.WriteFile(output, data, 0644); err != nil {
			return fmt.Errorf("failed to write export file: %w", err)
		}
		r.writePlain("\n✓ Exported to %s\n", output)
	default:
		return fmt.Errorf("%w: unknown export format '%s' (csv, md, txt, json)", shared.ErrInvalidFlag, format)
	}

	return nil
}

// criteriaFromFlags assembles filter criteria from command line flags.
// Numeric bounds are only set when their flag was explicitly provided.
func criteriaFromFlags(cmd *cli.Command) (models.FilterCriteria, error) {
	criteria := models.FilterCriteria{
		Keyword: strings.TrimSpace(cmd.String("keyword")),
	}

	if cmd.IsSet("min-bpm") {
		criteria.MinTempo = models.Bound(cmd.Float("min-bpm"))
	}
	if cmd.IsSet("max-bpm") {
		criteria.MaxTempo = models.Bound(cmd.Float("max-bpm"))
	}
	if cmd.IsSet("min-dance") {
		criteria.MinDanceability = models.Bound(cmd.Float("min-dance"))
	}
	if cmd.IsSet("min-valence") {
		criteria.MinValence = models.Bound(cmd.Float("min-valence"))
	}

	if genres := cmd.String("genres"); genres != "" {
		for _, genre := range strings.Split(genres, ",") {
			genre = strings.TrimSpace(genre)
			if genre != "" {
				criteria.Genres = append(criteria.Genres, genre)
			}
		}
	}

	mode := cmd.String("match")
	switch strings.ToLower(mode) {
	case "", "any":
		criteria.GenreMode = models.MatchAny
	case "all":
		criteria.GenreMode = models.MatchAll
	default:
		return criteria, fmt.Errorf("%w: --match must be 'any' or 'all'", shared.ErrInvalidFlag)
	}

	return criteria, nil
}
