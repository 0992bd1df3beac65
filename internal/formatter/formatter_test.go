package formatter

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/Posajpa/Spotify-Playlist-Generator/internal/models"
	"github.com/Posajpa/Spotify-Playlist-Generator/internal/tasks"
)

func testResult() *tasks.GenerateResult {
	return &tasks.GenerateResult{
		OwnerID:      "user1",
		FetchedCount: 10,
		Filtered: []models.Track{
			{
				ID:       "track1",
				Name:     "Love Song",
				Artists:  []models.ArtistRef{{ID: "a1", Name: "Artist One"}},
				Album:    "Album One",
				Duration: 214,
				URI:      "spotify:track:track1",
			},
			{
				ID:       "track2",
				Name:     "Loveless",
				Artists:  []models.ArtistRef{{ID: "a2", Name: "Artist Two"}},
				Album:    "Album Two",
				Duration: 187,
				URI:      "spotify:track:track2",
			},
		},
		Features: map[string]models.AudioFeatures{
			"track1": {ID: "track1", Tempo: 128.5, Danceability: 0.82, Valence: 0.65},
		},
		Genres: map[string][]string{
			"track1": {"indie pop", "synthpop"},
		},
		Playlist: &models.Playlist{
			ID:         "playlist1",
			Name:       "love tracks",
			Public:     true,
			TrackCount: 2,
		},
		ShareURL: "https://open.spotify.com/playlist/playlist1",
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testResult())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "ID,Name,Artists,Album,Duration,URI,Tempo,Danceability,Valence,Genres") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "Love Song") {
			t.Errorf("CSV missing track name")
		}
		if !strings.Contains(output, "3:34") {
			t.Errorf("CSV missing formatted duration, got: %s", output)
		}
		if !strings.Contains(output, "128.5") {
			t.Errorf("CSV missing tempo value")
		}
		if !strings.Contains(output, "indie pop; synthpop") {
			t.Errorf("CSV missing genres")
		}

		// track2 has no feature data, cells stay empty
		lines := strings.Split(strings.TrimSpace(output), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected 3 CSV lines, got %d", len(lines))
		}
		if !strings.HasSuffix(lines[2], ",,,") {
			t.Errorf("expected empty feature cells for track2, got: %s", lines[2])
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(testResult())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "# love tracks") {
			t.Errorf("Markdown missing title, got: %s", output)
		}
		if !strings.Contains(output, "**Matched**: 2") {
			t.Errorf("Markdown missing matched count")
		}
		if !strings.Contains(output, "https://open.spotify.com/playlist/playlist1") {
			t.Errorf("Markdown missing share link")
		}
		if !strings.Contains(output, "1. Artist One - Love Song (Album One)") {
			t.Errorf("Markdown missing numbered track row, got: %s", output)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(testResult())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Playlist: love tracks") {
			t.Errorf("text missing playlist name")
		}
		if !strings.Contains(output, "Tracks: 2") {
			t.Errorf("text missing track count")
		}
		if !strings.Contains(output, "2. Artist Two - Loveless [3:07]") {
			t.Errorf("text missing track row, got: %s", output)
		}
	})

	t.Run("ToSummaryJSON", func(t *testing.T) {
		data, err := ToSummaryJSON(testResult())
		if err != nil {
			t.Fatalf("ToSummaryJSON failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, `"fetched_count": 10`) {
			t.Errorf("summary missing fetched count, got: %s", output)
		}
		if !strings.Contains(output, `"matched_count": 2`) {
			t.Errorf("summary missing matched count")
		}
	})
}

func TestFileWriters(t *testing.T) {
	t.Run("WriteCSVExport", func(t *testing.T) {
		dir := t.TempDir()
		base := filepath.Join(dir, "run")

		result, err := WriteCSVExport(testResult(), base)
		if err != nil {
			t.Fatalf("WriteCSVExport failed: %v", err)
		}

		if result.TracksFile != base+"_tracks.csv" {
			t.Errorf("unexpected tracks file: %s", result.TracksFile)
		}
		if result.SummaryFile != base+"_summary.json" {
			t.Errorf("unexpected summary file: %s", result.SummaryFile)
		}
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "out.txt")

		written, err := WriteTextExport(testResult(), path)
		if err != nil {
			t.Fatalf("WriteTextExport failed: %v", err)
		}

		if written != path {
			t.Errorf("expected %s, got %s", path, written)
		}
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "out.md")

		written, err := WriteMarkdownExport(testResult(), path)
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}

		if written != path {
			t.Errorf("expected %s, got %s", path, written)
		}
	})
}
