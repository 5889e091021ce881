package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zmusic/zmusic/internal/core"
	"github.com/zmusic/zmusic/internal/guard"
)

var (
	songsSortBy    string
	songsWithLocal bool
)

var songsCmd = &cobra.Command{
	Use:   "songs",
	Short: "Browse the song catalog",
}

var songsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all songs",
	RunE:  runSongsList,
}

var songsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search songs",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSongsSearch,
}

var songsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one song",
	Args:  cobra.ExactArgs(1),
	RunE:  runSongsGet,
}

var songsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a song (admin only)",
	Args:  cobra.ExactArgs(1),
	RunE:  runSongsDelete,
}

func init() {
	songsListCmd.Flags().StringVar(&songsSortBy, "sort", "", "Sort order: plays or release")
	songsListCmd.Flags().BoolVar(&songsWithLocal, "local", false, "Include locally saved tracks")

	songsCmd.AddCommand(songsListCmd)
	songsCmd.AddCommand(songsSearchCmd)
	songsCmd.AddCommand(songsGetCmd)
	songsCmd.AddCommand(songsDeleteCmd)
	rootCmd.AddCommand(songsCmd)
}

func runSongsList(cmd *cobra.Command, args []string) error {
	store, err := newSessionStore()
	if err != nil {
		return err
	}

	tracks, err := newClient(store).ListSongs(cmd.Context())
	if err != nil {
		return err
	}

	if songsWithLocal {
		lib, err := openLibrary()
		if err != nil {
			return err
		}
		defer lib.Close()

		local, err := lib.List()
		if err != nil {
			return err
		}
		tracks = append(tracks, local...)
	}

	sortTracks(tracks, songsSortBy)
	return printTracks(tracks)
}

func runSongsSearch(cmd *cobra.Command, args []string) error {
	store, err := newSessionStore()
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	tracks, err := newClient(store).SearchSongs(cmd.Context(), query)
	if err != nil {
		return err
	}
	return printTracks(tracks)
}

func runSongsGet(cmd *cobra.Command, args []string) error {
	store, err := newSessionStore()
	if err != nil {
		return err
	}

	track, err := newClient(store).GetSong(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if JSONOutput() {
		out, _ := json.MarshalIndent(track, "", "  ")
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("%s — %s\n", track.Title, track.DisplayArtist())
	if track.Album != "" {
		fmt.Printf("  album:    %s\n", track.Album)
	}
	fmt.Printf("  duration: %s\n", track.DisplayDuration())
	fmt.Printf("  source:   %s\n", track.SourceLocator)
	return nil
}

func runSongsDelete(cmd *cobra.Command, args []string) error {
	store, err := newSessionStore()
	if err != nil {
		return err
	}

	if decision := guard.Check(store); !decision.Allowed {
		return fmt.Errorf("access denied: %s", decision.Reason)
	}

	if err := newClient(store).DeleteSong(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted song %s\n", args[0])
	return nil
}

// sortTracks applies a presentation-level ordering. The catalog itself has
// no ordering contract.
func sortTracks(tracks []core.Track, by string) {
	switch by {
	case "plays":
		sort.SliceStable(tracks, func(i, j int) bool {
			return tracks[i].Plays > tracks[j].Plays
		})
	case "release":
		sort.SliceStable(tracks, func(i, j int) bool {
			return tracks[i].ReleaseDate > tracks[j].ReleaseDate
		})
	}
}

func printTracks(tracks []core.Track) error {
	if JSONOutput() {
		out, _ := json.MarshalIndent(tracks, "", "  ")
		fmt.Println(string(out))
		return nil
	}

	if len(tracks) == 0 {
		fmt.Println("No songs found")
		return nil
	}

	table := NewTable("ID", "TITLE", "ARTIST", "ALBUM", "DURATION", "")
	for i := range tracks {
		t := &tracks[i]
		marker := ""
		if t.IsLocal() {
			marker = "local"
		}
		table.Row(
			t.ID,
			TruncateString(t.Title, 40),
			TruncateString(t.DisplayArtist(), 30),
			TruncateString(t.Album, 30),
			t.DisplayDuration(),
			marker,
		)
	}
	table.Flush()
	return nil
}
