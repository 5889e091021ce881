package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zmusic/zmusic/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"tui"},
	Short:   "Launch the interactive browser",
	Long: `Launch the interactive terminal browser.

The browser shows the song catalog (plus locally saved tracks) with a
live transport bar at the bottom.

Keyboard shortcuts:
  q, Ctrl+C    Quit
  ↑/k ↓/j      Move selection
  Enter        Play selected song
  Space        Pause / resume
  s            Stop
  ←/→          Seek ±5 seconds
  +/-          Volume up/down
  /            Search
  o            Cycle ordering
  r            Reload
  ?            Help`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	store, err := newSessionStore()
	if err != nil {
		return err
	}

	engine := newEngine()
	defer engine.Close()

	// A broken local library should not keep the catalog from loading.
	lib, err := openLibrary()
	if err != nil {
		if Verbose() {
			fmt.Fprintf(os.Stderr, "Warning: local library unavailable: %v\n", err)
		}
		lib = nil
	} else {
		defer lib.Close()
	}

	return tui.NewApp(store, newClient(store), engine, lib).Run()
}
