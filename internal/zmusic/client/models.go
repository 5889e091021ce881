package client

import (
	"encoding/json"
	"fmt"

	"github.com/zmusic/zmusic/internal/core"
)

// songID is a track id as the backend serializes it, a JSON number or a
// JSON string depending on the backend's storage.
type songID string

func (id *songID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = songID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = songID(n.String())
	return nil
}

func (id songID) String() string { return string(id) }

// songResponse is a track as the backend serializes it.
type songResponse struct {
	ID             songID  `json:"id"`
	Title          string  `json:"title"`
	Artist         string  `json:"artist"`
	Album          string  `json:"album"`
	FilePath       string  `json:"filePath"`
	CoverImagePath string  `json:"coverImagePath"`
	Duration       float64 `json:"duration"`
	Plays          int     `json:"plays"`
	ReleaseDate    string  `json:"releaseDate"`
	CreatedAt      string  `json:"createdAt"`
}

// songListEnvelope accepts either a bare array or a wrapper object exposing
// the array under "value".
type songListEnvelope struct {
	Value []songResponse `json:"value"`
	Count int            `json:"count"`

	bare []songResponse
}

func (e *songListEnvelope) UnmarshalJSON(data []byte) error {
	if firstJSONToken(data) == '[' {
		if err := json.Unmarshal(data, &e.bare); err != nil {
			return err
		}
		if e.bare == nil {
			e.bare = []songResponse{}
		}
		return nil
	}

	type wrapper songListEnvelope
	var w wrapper
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	e.Value = w.Value
	e.Count = w.Count
	return nil
}

// firstJSONToken returns the first non-whitespace byte of a JSON document.
func firstJSONToken(data []byte) byte {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b
	}
	return 0
}

func (e *songListEnvelope) songs() []songResponse {
	if e.bare != nil {
		return e.bare
	}
	return e.Value
}

func convertSong(s *songResponse) *core.Track {
	if s == nil {
		return nil
	}

	release := s.ReleaseDate
	if release == "" {
		release = s.CreatedAt
	}

	return &core.Track{
		ID:              s.ID.String(),
		Title:           s.Title,
		Artist:          s.Artist,
		Album:           s.Album,
		SourceLocator:   s.FilePath,
		CoverLocator:    s.CoverImagePath,
		DurationSeconds: s.Duration,
		Plays:           s.Plays,
		ReleaseDate:     release,
		Origin:          core.OriginCatalog,
	}
}

func convertSongs(songs []songResponse) []core.Track {
	tracks := make([]core.Track, len(songs))
	for i := range songs {
		tracks[i] = *convertSong(&songs[i])
	}
	return tracks
}

// songPath returns the API path for a single song.
func songPath(id string) string {
	return fmt.Sprintf("/songs/%s", id)
}
