package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zmusic/zmusic/internal/core"
	zerrors "github.com/zmusic/zmusic/internal/errors"
	"github.com/zmusic/zmusic/internal/guard"
	"github.com/zmusic/zmusic/internal/library"
	"github.com/zmusic/zmusic/internal/upload"
	"github.com/zmusic/zmusic/internal/zmusic/client"
)

var (
	uploadTitle    string
	uploadArtist   string
	uploadAlbum    string
	uploadCover    string
	uploadDuration float64
	uploadNoLocal  bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Add songs to the catalog (admin only)",
}

var uploadURLCmd = &cobra.Command{
	Use:   "url <audio-url>",
	Short: "Register a song hosted elsewhere",
	Args:  cobra.ExactArgs(1),
	RunE:  runUploadURL,
}

var uploadFileCmd = &cobra.Command{
	Use:   "file <audio-path>",
	Short: "Upload a local audio file",
	Long: `Upload a local audio file to the catalog.

The file is validated before any network traffic: audio must be one of
mp3, wav, ogg, m4a, aac or flac and at most 50 MiB; a cover image must
be jpeg, png or webp and at most 5 MiB. Duration is read from the file
itself.

If the backend cannot be reached, the song is saved to the local
library instead and plays from disk until it can be re-uploaded.`,
	Args: cobra.ExactArgs(1),
	RunE: runUploadFile,
}

func init() {
	for _, cmd := range []*cobra.Command{uploadURLCmd, uploadFileCmd} {
		cmd.Flags().StringVar(&uploadTitle, "title", "", "Song title")
		cmd.Flags().StringVar(&uploadArtist, "artist", "", "Artist name")
		cmd.Flags().StringVar(&uploadAlbum, "album", "", "Album name")
	}
	uploadURLCmd.Flags().StringVar(&uploadCover, "cover", "", "Cover image URL")
	uploadURLCmd.Flags().Float64Var(&uploadDuration, "duration", 0, "Duration in seconds")
	uploadFileCmd.Flags().StringVar(&uploadCover, "cover", "", "Cover image file")
	uploadFileCmd.Flags().BoolVar(&uploadNoLocal, "no-local-fallback", false, "Fail instead of saving locally when the backend is unreachable")

	uploadCmd.AddCommand(uploadURLCmd)
	uploadCmd.AddCommand(uploadFileCmd)
	rootCmd.AddCommand(uploadCmd)
}

func runUploadURL(cmd *cobra.Command, args []string) error {
	store, err := newSessionStore()
	if err != nil {
		return err
	}
	if decision := guard.Check(store); !decision.Allowed {
		return fmt.Errorf("access denied: %s", decision.Reason)
	}

	meta := client.SongMeta{
		Title:           uploadTitle,
		Artist:          uploadArtist,
		Album:           uploadAlbum,
		DurationSeconds: uploadDuration,
		SourceLocator:   args[0],
		CoverLocator:    uploadCover,
	}

	track, err := newClient(store).CreateSongByURL(cmd.Context(), meta)
	if err != nil {
		return err
	}
	fmt.Printf("Created song %s: %s — %s\n", track.ID, track.Title, track.DisplayArtist())
	return nil
}

func runUploadFile(cmd *cobra.Command, args []string) error {
	store, err := newSessionStore()
	if err != nil {
		return err
	}
	if decision := guard.Check(store); !decision.Allowed {
		return fmt.Errorf("access denied: %s", decision.Reason)
	}

	audioPath := args[0]
	if err := upload.ValidateAudioFile(audioPath); err != nil {
		return err
	}
	if uploadCover != "" {
		if err := upload.ValidateCoverFile(uploadCover); err != nil {
			return err
		}
	}

	meta := client.SongMeta{
		Title:  uploadTitle,
		Artist: uploadArtist,
		Album:  uploadAlbum,
	}
	if meta.Title == "" {
		base := filepath.Base(audioPath)
		meta.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if meta.Artist == "" {
		meta.Artist = "Unknown Artist"
	}

	prober := upload.NewProber(cfg.Player.ProbeCommand)
	duration, err := prober.ProbeDuration(cmd.Context(), audioPath)
	if err != nil {
		if Verbose() {
			fmt.Fprintf(os.Stderr, "Warning: could not read duration: %v\n", err)
		}
		duration = 0
	}
	meta.DurationSeconds = float64(duration)

	track, err := newClient(store).UploadSongFile(cmd.Context(), audioPath, uploadCover, meta)
	if err != nil {
		if uploadNoLocal || !zerrors.IsKind(err, zerrors.KindFetch) {
			return err
		}
		return saveLocally(audioPath, meta, err)
	}

	fmt.Printf("Uploaded song %s: %s — %s\n", track.ID, track.Title, track.DisplayArtist())
	return nil
}

// saveLocally copies the audio into the fallback directory and records it
// in the local library when the backend cannot be reached.
func saveLocally(audioPath string, meta client.SongMeta, cause error) error {
	dir := cfg.Upload.FallbackDir
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return cause
		}
		dir = filepath.Join(base, "zmusic", "music")
	}

	stored, err := library.ImportFile(audioPath, dir)
	if err != nil {
		return fmt.Errorf("backend unreachable and local save failed: %w", err)
	}

	lib, err := openLibrary()
	if err != nil {
		return fmt.Errorf("backend unreachable and local save failed: %w", err)
	}
	defer lib.Close()

	track, err := lib.Save(core.Track{
		Title:           meta.Title,
		Artist:          meta.Artist,
		Album:           meta.Album,
		SourceLocator:   stored,
		CoverLocator:    meta.CoverLocator,
		DurationSeconds: meta.DurationSeconds,
	})
	if err != nil {
		return fmt.Errorf("backend unreachable and local save failed: %w", err)
	}

	fmt.Printf("Backend unreachable (%v)\n", cause)
	fmt.Printf("Saved %q to the local library as %s; it will play from disk.\n", track.Title, track.ID)
	return nil
}
