package main

import (
	"context"
	"errors"
	"os"

	"github.com/Posajpa/Spotify-Playlist-Generator/internal/services"
	"github.com/Posajpa/Spotify-Playlist-Generator/internal/shared"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// newLibrary builds the Spotify service from stored credentials.
//
// When the config carries a saved OAuth token, the service is authenticated
// with it immediately so commands work across process restarts, and refreshed
// tokens are written back to the config file.
func newLibrary(ctx context.Context, config *shared.Config, configPath string, logger *log.Logger) services.Library {
	spotify := config.Credentials.Spotify
	if spotify.ClientID == "" || spotify.ClientSecret == "" {
		return nil
	}

	svc, err := services.NewSpotifyService(spotify.Map())
	if err != nil {
		logger.Warnf("failed to create Spotify service: %v", err)
		return nil
	}

	svc.SetTokenRefreshCallback(func(token *oauth2.Token) {
		if err := config.Credentials.Spotify.Update(token); err != nil {
			logger.Warnf("failed to record refreshed token: %v", err)
			return
		}
		if err := shared.SaveConfig(configPath, config); err != nil {
			logger.Warnf("failed to persist refreshed token: %v", err)
		}
	})

	if token := spotify.Token(); token != nil {
		if err := svc.OAuthenticate(ctx, token); err != nil {
			logger.Warnf("stored token rejected, run 'spg auth login': %v", err)
		}
	}

	return svc
}

func main() {
	ctx := context.Background()
	logger := shared.NewLogger(nil)
	if os.Getenv("SPG_DEBUG") != "" {
		shared.SetLogLevel(logger, log.DebugLevel)
	}

	configPath := "config.toml"
	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		}
	}

	library := newLibrary(ctx, config, configPath, logger)

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Library: library,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "spg",
		Usage:    "Generate Spotify playlists from your saved tracks",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(ctx, os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
