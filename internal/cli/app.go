package cli

import (
	"os"

	"github.com/zmusic/zmusic/internal/library"
	"github.com/zmusic/zmusic/internal/logging"
	"github.com/zmusic/zmusic/internal/player"
	"github.com/zmusic/zmusic/internal/zmusic/auth"
	"github.com/zmusic/zmusic/internal/zmusic/client"
)

// newSessionStore builds the session store over the default credential
// storage location.
func newSessionStore() (*auth.Store, error) {
	storage, err := auth.NewStorage("")
	if err != nil {
		return nil, err
	}
	return auth.NewStore(cfg.API.BaseURL, storage), nil
}

// newClient builds a backend client carrying the session's bearer token.
func newClient(store *auth.Store) *client.Client {
	c := client.New(cfg.API.BaseURL, store)
	if Verbose() {
		c.SetLogger(logging.New(os.Stderr, "debug"))
	}
	return c
}

// newEngine builds a playback engine over the configured audio sink.
func newEngine() *player.Engine {
	element := player.NewFFPlayElement(cfg.Player.Command, cfg.Player.ProbeCommand)
	logger := logging.Nop()
	if Verbose() {
		logger = logging.New(os.Stderr, "debug")
	}
	return player.NewEngine(element, cfg.API.BaseURL,
		player.WithVolume(cfg.Defaults.Volume),
		player.WithLogger(logger),
	)
}

// openLibrary opens the local fallback library at its default location.
func openLibrary() (*library.Library, error) {
	path, err := library.DefaultPath()
	if err != nil {
		return nil, err
	}
	return library.Open(path)
}
