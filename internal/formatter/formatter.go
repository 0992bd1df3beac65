// package formatter provides functions to export generation results to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Posajpa/Spotify-Playlist-Generator/internal/shared"
	"github.com/Posajpa/Spotify-Playlist-Generator/internal/tasks"
)

// ExportToCSV converts a GenerateResult to CSV format with columns: ID, Name, Artists, Album, Duration, URI, Tempo, Danceability, Valence, Genres
func ExportToCSV(result *tasks.GenerateResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Artists", "Album", "Duration", "URI", "Tempo", "Danceability", "Valence", "Genres"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range result.Filtered {
		record := []string{
			track.ID,
			track.Name,
			track.ArtistNames(),
			track.Album,
			shared.FormatDuration(track.Duration),
			track.URI,
			featureCell(result, track.ID, "Tempo"),
			featureCell(result, track.ID, "Danceability"),
			featureCell(result, track.ID, "Valence"),
			strings.Join(result.Genres[track.ID], "; "),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// featureCell renders one audio feature column for a track.
// Tracks without enrichment data get an empty cell rather than a zero.
func featureCell(result *tasks.GenerateResult, trackID string, field string) string {
	features, ok := result.Features[trackID]
	if !ok {
		return ""
	}

	switch field {
	case "Tempo":
		return strconv.FormatFloat(features.Tempo, 'f', 1, 64)
	case "Danceability":
		return strconv.FormatFloat(features.Danceability, 'f', 3, 64)
	case "Valence":
		return strconv.FormatFloat(features.Valence, 'f', 3, 64)
	default:
		return ""
	}
}

// ExportToMarkdown converts a GenerateResult to Markdown format
func ExportToMarkdown(result *tasks.GenerateResult) ([]byte, error) {
	var buf bytes.Buffer

	title := "Generated Playlist"
	if result.Playlist != nil {
		title = result.Playlist.Name
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))

	buf.WriteString(fmt.Sprintf("**Library**: %d tracks fetched\n", result.FetchedCount))
	buf.WriteString(fmt.Sprintf("**Matched**: %d\n", len(result.Filtered)))
	if result.Playlist != nil {
		buf.WriteString(fmt.Sprintf("**Visibility**: %s\n", shared.VisibilityString(result.Playlist.Public)))
	}
	if result.ShareURL != "" {
		buf.WriteString(fmt.Sprintf("**Share**: %s\n", result.ShareURL))
	}
	buf.WriteString("\n## Tracks\n\n")

	for i, track := range result.Filtered {
		albumPart := ""
		if track.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", track.Album)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s\n", i+1, track.ArtistNames(), track.Name, albumPart))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a GenerateResult to plain text format
func ExportToText(result *tasks.GenerateResult) ([]byte, error) {
	var buf bytes.Buffer

	if result.Playlist != nil {
		buf.WriteString(fmt.Sprintf("Playlist: %s\n", result.Playlist.Name))
	}
	if result.ShareURL != "" {
		buf.WriteString(fmt.Sprintf("Share: %s\n", result.ShareURL))
	}
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(result.Filtered)))

	for i, track := range result.Filtered {
		buf.WriteString(fmt.Sprintf("%d. %s - %s [%s]\n", i+1, track.ArtistNames(), track.Name, shared.FormatDuration(track.Duration)))
	}

	return buf.Bytes(), nil
}

// ToSummaryJSON generates a JSON representation of the run summary (without track rows)
func ToSummaryJSON(result *tasks.GenerateResult) ([]byte, error) {
	summary := map[string]any{
		"owner_id":      result.OwnerID,
		"fetched_count": result.FetchedCount,
		"matched_count": len(result.Filtered),
		"share_url":     result.ShareURL,
	}
	if result.Playlist != nil {
		summary["playlist"] = result.Playlist
	}
	return shared.MarshalJSON(summary, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	TracksFile  string
	SummaryFile string
}

// WriteCSVExport exports a generation run to CSV format with an accompanying summary JSON file.
//
// Defaults to the playlist ID as the base filename & creates {base}_tracks.csv and {base}_summary.json
func WriteCSVExport(result *tasks.GenerateResult, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" && result.Playlist != nil {
		baseFilepath = result.Playlist.ID
	}
	if baseFilepath == "" {
		baseFilepath = "playlist"
	}

	csvData, err := ExportToCSV(result)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	tracksFile := baseFilepath + "_tracks.csv"
	if err := os.WriteFile(tracksFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	summaryJSON, err := ToSummaryJSON(result)
	if err != nil {
		return nil, fmt.Errorf("failed to generate summary JSON: %w", err)
	}

	summaryFile := baseFilepath + "_summary.json"
	if err := os.WriteFile(summaryFile, summaryJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write summary file: %w", err)
	}

	return &CSVExportResult{
		TracksFile:  tracksFile,
		SummaryFile: summaryFile,
	}, nil
}

// WriteMarkdownExport exports a generation run to Markdown.
//
// Defaults to {playlist.ID}.md as the filename.
func WriteMarkdownExport(result *tasks.GenerateResult, filepath string) (string, error) {
	if filepath == "" && result.Playlist != nil {
		filepath = result.Playlist.ID + ".md"
	}
	if filepath == "" {
		filepath = "playlist.md"
	}

	mdData, err := ExportToMarkdown(result)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	if err := os.WriteFile(filepath, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return filepath, nil
}

// WriteTextExport exports a generation run to plain text format.
//
// Defaults to {playlist.ID}_tracks.txt as the filename.
func WriteTextExport(result *tasks.GenerateResult, filepath string) (string, error) {
	if filepath == "" && result.Playlist != nil {
		filepath = fmt.Sprintf("%s_tracks.txt", result.Playlist.ID)
	}
	if filepath == "" {
		filepath = "playlist_tracks.txt"
	}

	textData, err := ExportToText(result)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}
