package config

// Config is the root configuration structure.
type Config struct {
	API      APIConfig      `toml:"api"`
	Player   PlayerConfig   `toml:"player"`
	Upload   UploadConfig   `toml:"upload"`
	Defaults DefaultsConfig `toml:"defaults"`
	TUI      TUIConfig      `toml:"tui"`
	Log      LogConfig      `toml:"log"`
}

// APIConfig holds backend connection settings. BaseURL is the backend
// origin; the "/api" prefix is appended by the client.
type APIConfig struct {
	BaseURL string `toml:"base_url"`
}

// PlayerConfig holds audio playback settings.
type PlayerConfig struct {
	// Command is the external audio sink binary.
	Command string `toml:"command"`
	// ProbeCommand is the binary used to read media duration.
	ProbeCommand string `toml:"probe_command"`
}

// UploadConfig holds file upload settings.
type UploadConfig struct {
	// FallbackDir is where audio files are copied when the backend is
	// unreachable and the track is saved to the local library instead.
	FallbackDir string `toml:"fallback_dir"`
}

// DefaultsConfig holds default playback settings.
type DefaultsConfig struct {
	Volume float64 `toml:"volume"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme           string `toml:"theme"`
	RefreshInterval int    `toml:"refresh_interval"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}
