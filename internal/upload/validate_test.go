package upload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	zerrors "github.com/zmusic/zmusic/internal/errors"
)

func TestValidateAudio(t *testing.T) {
	tests := []struct {
		name         string
		filename     string
		declaredType string
		size         int64
		wantErr      bool
	}{
		{"mp3 by extension", "song.mp3", "", 1024, false},
		{"flac by extension", "song.flac", "", 1024, false},
		{"uppercase extension", "SONG.MP3", "", 1024, false},
		{"mpeg by declared type", "download", "audio/mpeg", 1024, false},
		{"declared type wins over extension", "song.weird", "audio/ogg", 1024, false},
		{"at the size limit", "song.mp3", "", MaxAudioSize, false},
		{"over the size limit", "song.mp3", "", MaxAudioSize + 1, true},
		{"video file", "clip.mp4", "", 1024, true},
		{"text file", "notes.txt", "", 10, true},
		{"no extension no type", "song", "", 1024, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAudio(tt.filename, tt.declaredType, tt.size)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAudio(%q, %q, %d) error = %v, wantErr %v",
					tt.filename, tt.declaredType, tt.size, err, tt.wantErr)
			}
			if err != nil && !zerrors.IsKind(err, zerrors.KindValidation) {
				t.Errorf("error kind = %v, want validation", err)
			}
		})
	}
}

func TestValidateAudioSizeMessage(t *testing.T) {
	err := ValidateAudio("song.mp3", "", MaxAudioSize+1)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "50 MiB") {
		t.Errorf("message = %q, want the human-readable limit", err.Error())
	}
}

func TestValidateCover(t *testing.T) {
	tests := []struct {
		name         string
		filename     string
		declaredType string
		size         int64
		wantErr      bool
	}{
		{"jpg", "cover.jpg", "", 1024, false},
		{"jpeg", "cover.jpeg", "", 1024, false},
		{"png", "cover.png", "", 1024, false},
		{"webp", "cover.webp", "", 1024, false},
		{"jpeg by declared type", "blob", "image/jpeg", 1024, false},
		{"gif rejected", "cover.gif", "", 1024, true},
		{"over the size limit", "cover.png", "", MaxCoverSize + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCover(tt.filename, tt.declaredType, tt.size)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCover(%q, %q, %d) error = %v, wantErr %v",
					tt.filename, tt.declaredType, tt.size, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAudioFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "song.mp3")
	if err := os.WriteFile(good, []byte("audio"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := ValidateAudioFile(good); err != nil {
		t.Errorf("ValidateAudioFile() error = %v", err)
	}

	bad := filepath.Join(dir, "clip.mov")
	if err := os.WriteFile(bad, []byte("video"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := ValidateAudioFile(bad); !zerrors.IsKind(err, zerrors.KindValidation) {
		t.Errorf("ValidateAudioFile() error = %v, want validation", err)
	}

	if err := ValidateAudioFile(filepath.Join(dir, "missing.mp3")); !zerrors.IsKind(err, zerrors.KindValidation) {
		t.Errorf("ValidateAudioFile(missing) error = %v, want validation", err)
	}
}
