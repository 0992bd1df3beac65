package main

import (
	"context"
	"fmt"

	"github.com/Posajpa/Spotify-Playlist-Generator/internal/repositories"
	"github.com/urfave/cli/v3"
)

// History lists playlists created by past generation runs, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	userID := cmd.String("user")

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewPlaylistRepository(db)

	if userID == "" {
		if user, err := r.resolveUser(ctx, cmd); err == nil {
			userID = user.ID
		}
	}

	var records []historyRow

	rows, err := repo.List(map[string]any{"user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	for _, row := range rows {
		records = append(records, historyRow{
			PlaylistID: row.PlaylistID(),
			Name:       row.Name(),
			Keyword:    row.Keyword(),
			TrackCount: row.TrackCount(),
			Public:     row.Public(),
			ShareURL:   row.ShareURL(),
			CreatedAt:  row.CreatedAt().Format("2006-01-02 15:04"),
		})
	}

	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}

	if useJSON {
		return r.writeJSON(records, pretty)
	}

	if len(records) == 0 {
		r.writePlain("No playlists generated yet.\n")
		return nil
	}

	r.writePlain("Generated playlists:\n\n")
	for i, record := range records {
		r.writePlain("%d. %s (%d tracks)\n", i+1, record.Name, record.TrackCount)
		if record.Keyword != "" {
			r.writePlain("   Keyword: %s\n", record.Keyword)
		}
		r.writePlain("   Created: %s\n", record.CreatedAt)
		if record.ShareURL != "" {
			r.writePlain("   Link: %s\n", record.ShareURL)
		}
		r.writePlain("\n")
	}

	return nil
}

// historyRow is the display shape for one past generation run.
type historyRow struct {
	PlaylistID string `json:"playlist_id"`
	Name       string `json:"name"`
	Keyword    string `json:"keyword,omitempty"`
	TrackCount int    `json:"track_count"`
	Public     bool   `json:"public"`
	ShareURL   string `json:"share_url,omitempty"`
	CreatedAt  string `json:"created_at"`
}
