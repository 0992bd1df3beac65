// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// configFlag is shared by every command that touches config.toml
func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand handles setup operations for database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize config file, database and migrations",
		Flags: []cli.Flag{configFlag()},
		Action: r.SetupDatabase,
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authentication",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Authenticate with Spotify using OAuth2",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Check current authentication state",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthStatus,
			},
		},
	}
}

// libraryCommand handles saved-library operations
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Browse your saved tracks",
		Commands: []*cli.Command{
			{
				Name:  "tracks",
				Usage: "List saved tracks",
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of tracks to print",
					},
					&cli.BoolFlag{
						Name:  "cached",
						Usage: "Read from the local cache instead of the API",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Save API response locally",
					},
				},
				Action: r.LibraryTracks,
			},
			{
				Name:  "genres",
				Usage: "Summarize genre tags across saved tracks",
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of genres to print",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.LibraryGenres,
			},
		},
	}
}

// generateCommand runs the filtering pipeline and builds a playlist
func generateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Filter saved tracks and build a playlist",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "keyword",
				Aliases: []string{"k"},
				Usage:   "Keyword matched against track name, artists and album",
			},
			&cli.FloatFlag{
				Name:  "min-bpm",
				Usage: "Minimum tempo in BPM",
			},
			&cli.FloatFlag{
				Name:  "max-bpm",
				Usage: "Maximum tempo in BPM",
			},
			&cli.FloatFlag{
				Name:  "min-dance",
				Usage: "Minimum danceability (0.0 to 1.0)",
			},
			&cli.FloatFlag{
				Name:  "min-valence",
				Usage: "Minimum valence (0.0 to 1.0)",
			},
			&cli.StringFlag{
				Name:    "genres",
				Aliases: []string{"g"},
				Usage:   "Comma-separated genre tags to match",
			},
			&cli.StringFlag{
				Name:  "match",
				Usage: "Genre match mode: 'any' or 'all'",
				Value: "any",
			},
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Name for the created playlist",
			},
			&cli.BoolFlag{
				Name:  "public",
				Usage: "Make the playlist public",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Preview matches without creating a playlist",
			},
			&cli.BoolFlag{
				Name:  "verify",
				Usage: "Re-read the playlist after building and verify its contents",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Skip the local track cache and run history",
			},
			&cli.StringFlag{
				Name:  "export",
				Usage: "Export the run result (csv, md, txt, json)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output path for --export",
			},
		},
		Action: r.Generate,
	}
}

// historyCommand lists past generation runs
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List playlists created by past runs",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to print",
			},
			&cli.StringFlag{
				Name:  "user",
				Usage: "Filter by user ID (defaults to the authenticated user)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.History,
	}
}

// cacheCommand manages the local saved-tracks cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the local track cache",
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Show cached track counts",
				Flags:  []cli.Flag{configFlag()},
				Action: r.CacheStatus,
			},
			{
				Name:   "clear",
				Usage:  "Remove all cached tracks for the current user",
				Flags:  []cli.Flag{configFlag()},
				Action: r.CacheClear,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive playlist generation.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for playlist generation",
		Action:  r.TUI,
	}
}
