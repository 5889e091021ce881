package core

import "fmt"

// Origin indicates where a track's metadata lives.
type Origin string

const (
	OriginCatalog Origin = "catalog"
	OriginLocal   Origin = "local"
)

// Track represents a playable audio track.
type Track struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Artist          string  `json:"artist"`
	Album           string  `json:"album,omitempty"`
	SourceLocator   string  `json:"filePath"`
	CoverLocator    string  `json:"coverImagePath,omitempty"`
	DurationSeconds float64 `json:"duration,omitempty"`
	Plays           int     `json:"plays,omitempty"`
	ReleaseDate     string  `json:"releaseDate,omitempty"`
	Origin          Origin  `json:"origin,omitempty"`
}

// IsLocal returns true for tracks saved to the local fallback library.
// Local tracks exist only on this machine and are not shared via the backend.
func (t *Track) IsLocal() bool {
	return t != nil && t.Origin == OriginLocal
}

// DisplayArtist returns the artist name, or a placeholder when unknown.
func (t *Track) DisplayArtist() string {
	if t == nil || t.Artist == "" {
		return "Unknown Artist"
	}
	return t.Artist
}

// DisplayDuration formats the track duration as m:ss, or "-:--" when unknown.
func (t *Track) DisplayDuration() string {
	if t == nil || t.DurationSeconds <= 0 {
		return "-:--"
	}
	total := int(t.DurationSeconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
