package main

import (
	"context"
	"fmt"

	"github.com/Posajpa/Spotify-Playlist-Generator/internal/repositories"
	"github.com/urfave/cli/v3"
)

// CacheStatus reports how many tracks are cached for the authenticated user.
func (r *Runner) CacheStatus(ctx context.Context, cmd *cli.Command) error {
	user, err := r.resolveUser(ctx, cmd)
	if err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	count, err := repositories.NewTrackRepository(db).CountForUser(user.ID)
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}

	r.writePlain("Cached tracks for %s: %d\n", user.ID, count)
	if count > 0 {
		r.writePlain("Use 'spg library tracks --cached' to browse them.\n")
	}

	return nil
}

// CacheClear removes all cached tracks for the authenticated user.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	user, err := r.resolveUser(ctx, cmd)
	if err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	cleared, err := repositories.NewTrackRepository(db).ClearForUser(user.ID)
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	r.logger.Infof("cleared %d cached tracks for %s", cleared, user.ID)
	r.writePlain("✓ Cleared %d cached tracks\n", cleared)

	return nil
}
