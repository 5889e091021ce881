package core

// PlaybackState is a snapshot of the playback engine's state. Snapshots are
// published by value; consumers never mutate the engine through one.
type PlaybackState struct {
	Track           *Track  `json:"track"`
	Playing         bool    `json:"is_playing"`
	Loading         bool    `json:"is_loading"`
	PositionSeconds float64 `json:"position_seconds"`
	TotalSeconds    float64 `json:"total_seconds"`
	Volume          float64 `json:"volume"`
	LastError       string  `json:"last_error,omitempty"`
}

// HasTrack returns true if there is an active track.
func (s *PlaybackState) HasTrack() bool {
	return s != nil && s.Track != nil
}

// ProgressPercent returns playback progress as a percentage (0-100).
func (s *PlaybackState) ProgressPercent() float64 {
	if s == nil || s.TotalSeconds == 0 {
		return 0
	}
	return s.PositionSeconds / s.TotalSeconds * 100
}
