package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "https://localhost:7151",
		},
		Player: PlayerConfig{
			Command:      "ffplay",
			ProbeCommand: "ffprobe",
		},
		Defaults: DefaultsConfig{
			Volume: 1.0,
		},
		TUI: TUIConfig{
			Theme:           "auto",
			RefreshInterval: 1000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	if c.API.BaseURL == "" {
		c.API.BaseURL = d.API.BaseURL
	}

	if c.Player.Command == "" {
		c.Player.Command = d.Player.Command
	}
	if c.Player.ProbeCommand == "" {
		c.Player.ProbeCommand = d.Player.ProbeCommand
	}

	if c.Defaults.Volume == 0 {
		c.Defaults.Volume = d.Defaults.Volume
	}

	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}
	if c.TUI.RefreshInterval == 0 {
		c.TUI.RefreshInterval = d.TUI.RefreshInterval
	}

	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
