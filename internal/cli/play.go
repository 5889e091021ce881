package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zmusic/zmusic/internal/core"
	zerrors "github.com/zmusic/zmusic/internal/errors"
	"github.com/zmusic/zmusic/internal/tui"
)

var playURL string

var playCmd = &cobra.Command{
	Use:   "play [id or query]",
	Short: "Play a song",
	Long: `Play a song and stay attached with a compact transport.

The argument is first treated as a song ID (catalog, then local
library); if nothing matches, it is used as a search query and the
first result plays.

Examples:
  zmusic play 42                 # Play catalog song 42
  zmusic play "violet haze"      # Search and play the first match
  zmusic play --url https://example.com/track.mp3

Transport keys:
  Space        Pause / resume
  s            Stop (rewind to start)
  ←/→          Seek ±5 seconds
  +/-          Volume
  q            Quit`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&playURL, "url", "", "Play a direct audio URL instead of a catalog song")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	store, err := newSessionStore()
	if err != nil {
		return err
	}
	catalog := newClient(store)

	var track *core.Track
	if playURL != "" {
		track = &core.Track{Title: playURL, SourceLocator: playURL}
	} else {
		query := strings.Join(args, " ")
		if query == "" {
			return fmt.Errorf("nothing to play: give a song ID, a query, or --url")
		}
		track, err = resolveTrack(cmd.Context(), catalog, query)
		if err != nil {
			return err
		}
	}

	engine := newEngine()
	defer engine.Close()

	app := tui.NewApp(store, catalog, engine, nil)
	return app.RunNowPlaying(track)
}

// resolveTrack treats the query as an ID first, then as a search.
func resolveTrack(ctx context.Context, catalog catalogResolver, query string) (*core.Track, error) {
	if track, err := catalog.GetSong(ctx, query); err == nil {
		return track, nil
	} else if !zerrors.IsKind(err, zerrors.KindNotFound) {
		return nil, err
	}

	if lib, err := openLibrary(); err == nil {
		track, lerr := lib.Get(query)
		lib.Close()
		if lerr == nil {
			return track, nil
		}
	}

	tracks, err := catalog.SearchSongs(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, zerrors.NotFound("no songs match %q", query)
	}
	return &tracks[0], nil
}

// catalogResolver is the slice of the backend client play needs.
type catalogResolver interface {
	GetSong(ctx context.Context, id string) (*core.Track, error)
	SearchSongs(ctx context.Context, query string) ([]core.Track, error)
}
