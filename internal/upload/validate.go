// Package upload enforces the client-side constraints on uploaded files
// before any bytes are sent to the backend.
package upload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	zerrors "github.com/zmusic/zmusic/internal/errors"
)

const (
	// MaxAudioSize is the largest accepted audio file.
	MaxAudioSize = 50 * 1024 * 1024
	// MaxCoverSize is the largest accepted cover image.
	MaxCoverSize = 5 * 1024 * 1024
)

var audioTypes = map[string]bool{
	"audio/mpeg": true,
	"audio/mp3":  true,
	"audio/wav":  true,
	"audio/ogg":  true,
	"audio/m4a":  true,
	"audio/aac":  true,
	"audio/flac": true,
}

var audioExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".ogg":  true,
	".m4a":  true,
	".aac":  true,
	".flac": true,
}

var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// ValidateAudio checks an audio file's declared type (or extension) and
// size. name is the filename, declaredType an optional MIME type.
func ValidateAudio(name, declaredType string, size int64) error {
	if !matches(name, declaredType, audioTypes, audioExtensions) {
		return zerrors.Validation("unsupported audio format, accepted: MP3, WAV, OGG, M4A, AAC, FLAC")
	}
	if size > MaxAudioSize {
		return zerrors.Validation(fmt.Sprintf("audio file too large, maximum is %s", humanize.IBytes(MaxAudioSize)))
	}
	return nil
}

// ValidateCover checks a cover image's declared type (or extension) and size.
func ValidateCover(name, declaredType string, size int64) error {
	if !matches(name, declaredType, imageTypes, imageExtensions) {
		return zerrors.Validation("unsupported image format, accepted: JPEG, PNG, WebP")
	}
	if size > MaxCoverSize {
		return zerrors.Validation(fmt.Sprintf("cover image too large, maximum is %s", humanize.IBytes(MaxCoverSize)))
	}
	return nil
}

// ValidateAudioFile stats and validates a file on disk.
func ValidateAudioFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return zerrors.Validation(fmt.Sprintf("cannot read audio file: %v", err))
	}
	return ValidateAudio(info.Name(), "", info.Size())
}

// ValidateCoverFile stats and validates a cover image on disk.
func ValidateCoverFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return zerrors.Validation(fmt.Sprintf("cannot read cover image: %v", err))
	}
	return ValidateCover(info.Name(), "", info.Size())
}

func matches(name, declaredType string, types, extensions map[string]bool) bool {
	if declaredType != "" && types[strings.ToLower(declaredType)] {
		return true
	}
	return extensions[strings.ToLower(filepath.Ext(name))]
}
