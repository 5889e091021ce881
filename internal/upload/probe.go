package upload

import (
	"context"
	"math"
	"os/exec"
	"strconv"
	"strings"

	zerrors "github.com/zmusic/zmusic/internal/errors"
)

// Prober reads a media file's duration.
type Prober struct {
	command string
}

// NewProber creates a duration prober using the given binary, typically
// ffprobe.
func NewProber(command string) *Prober {
	if command == "" {
		command = "ffprobe"
	}
	return &Prober{command: command}
}

// ProbeDuration decodes enough of the media at path to report its duration
// in whole seconds, rounded down.
func (p *Prober) ProbeDuration(ctx context.Context, path string) (int, error) {
	cmd := exec.CommandContext(ctx, p.command,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, zerrors.Decode(err, "cannot read media duration")
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, zerrors.Decode(err, "media reported an unreadable duration")
	}
	return int(math.Floor(seconds)), nil
}
