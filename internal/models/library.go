package models

import "strings"

// ArtistRef is a lightweight artist reference carried on a [Track].
type ArtistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Track represents a track from the user's saved library.
//
// Immutable once fetched; the pipeline owns it for the duration of one run.
type Track struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Artists  []ArtistRef `json:"artists"`
	Album    string      `json:"album"`
	Duration int         `json:"duration"` // seconds
	URI      string      `json:"uri"`
}

// ArtistNames returns the track's artist names joined with ", " in catalog order.
func (t Track) ArtistNames() string {
	names := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		names[i] = a.Name
	}
	return strings.Join(names, ", ")
}

// ArtistIDs returns the track's artist identifiers in catalog order, skipping empty IDs.
func (t Track) ArtistIDs() []string {
	ids := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		if a.ID != "" {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// Artist represents a full artist object with genre tags.
type Artist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
}

// AudioFeatures holds the numeric attributes used for range filtering.
//
// Feature data may be withheld by the provider for a given track, in which
// case no AudioFeatures entry exists for that track ID.
type AudioFeatures struct {
	ID           string  `json:"id"`
	Tempo        float64 `json:"tempo"`        // beats per minute
	Danceability float64 `json:"danceability"` // [0, 1]
	Valence      float64 `json:"valence"`      // [0, 1]
}

// User represents the authenticated Spotify user.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Playlist represents a playlist container on the remote service.
type Playlist struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Public     bool   `json:"public"`
	TrackCount int    `json:"track_count"`
}

// GenreMatchMode selects the combinator for genre-set filtering.
type GenreMatchMode int

const (
	// MatchAny includes a track when its genre set intersects the selection.
	MatchAny GenreMatchMode = iota
	// MatchAll includes a track when the selection is a subset of its genre set.
	MatchAll
)

func (m GenreMatchMode) String() string {
	if m == MatchAll {
		return "all"
	}
	return "any"
}

// ParseGenreMatchMode parses "any" or "all" (case-insensitive). Unknown values map to MatchAny.
func ParseGenreMatchMode(s string) GenreMatchMode {
	if strings.EqualFold(strings.TrimSpace(s), "all") {
		return MatchAll
	}
	return MatchAny
}

// FilterCriteria is the immutable configuration bundle for one generation run.
//
// Numeric bounds are optional; a nil bound is not enforced. The genre selection
// is optional; an empty Genres slice disables genre filtering entirely.
type FilterCriteria struct {
	Keyword         string         // case-insensitive substring over name/artists/album
	MinTempo        *float64       // minimum BPM
	MaxTempo        *float64       // maximum BPM
	MinDanceability *float64       // minimum danceability [0, 1]
	MinValence      *float64       // minimum valence [0, 1]
	Genres          []string       // selected genre tags, compared case-insensitively
	GenreMode       GenreMatchMode // combinator for the genre selection
}

// HasNumericBounds reports whether any audio-feature bound is set.
func (c FilterCriteria) HasNumericBounds() bool {
	return c.MinTempo != nil || c.MaxTempo != nil || c.MinDanceability != nil || c.MinValence != nil
}

// HasGenres reports whether a genre selection is present.
func (c FilterCriteria) HasGenres() bool {
	return len(c.Genres) > 0
}

// Bound returns a pointer to v, for building criteria with optional bounds.
func Bound(v float64) *float64 {
	return &v
}
