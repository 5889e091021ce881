package cli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/spf13/cobra"

	"github.com/zmusic/zmusic/internal/config"
	"github.com/zmusic/zmusic/internal/core"
)

func TestSongsListHonorsCommandContext(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	prev := cfg
	cfg = &config.Config{}
	cfg.ApplyDefaults()
	cfg.API.BaseURL = srv.URL
	defer func() { cfg = prev }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cmd := &cobra.Command{}
	cmd.SetContext(ctx)

	if err := runSongsList(cmd, nil); err == nil {
		t.Fatal("expected an error for a cancelled context")
	}
	if n := hits.Load(); n != 0 {
		t.Errorf("request reached the backend despite cancellation, hits = %d", n)
	}
}

func TestSortTracks(t *testing.T) {
	tracks := []core.Track{
		{ID: "a", Plays: 2, ReleaseDate: "2020-01-01"},
		{ID: "b", Plays: 9, ReleaseDate: "2023-05-01"},
		{ID: "c", Plays: 5, ReleaseDate: "2021-03-01"},
	}

	sortTracks(tracks, "plays")
	if tracks[0].ID != "b" || tracks[2].ID != "a" {
		t.Errorf("plays order = %s,%s,%s, want b,c,a", tracks[0].ID, tracks[1].ID, tracks[2].ID)
	}

	sortTracks(tracks, "release")
	if tracks[0].ID != "b" || tracks[2].ID != "a" {
		t.Errorf("release order = %s,%s,%s, want b,c,a", tracks[0].ID, tracks[1].ID, tracks[2].ID)
	}
}
