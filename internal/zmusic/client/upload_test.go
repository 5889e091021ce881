package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	zerrors "github.com/zmusic/zmusic/internal/errors"
)

func TestCreateSongByURL(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/songs" || r.Method != http.MethodPost {
			t.Errorf("request = %s %s, want POST /api/songs", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 11, "title": "New Song", "artist": "E"}`))
	}))
	defer server.Close()

	c := New(server.URL, staticToken("tok"))
	track, err := c.CreateSongByURL(context.Background(), SongMeta{
		Title:           "  New Song  ",
		Artist:          "E",
		SourceLocator:   "https://cdn.example.com/new.mp3",
		DurationSeconds: 200,
	})
	if err != nil {
		t.Fatalf("CreateSongByURL() error = %v", err)
	}
	if track.ID != "11" {
		t.Errorf("ID = %q, want 11", track.ID)
	}

	// The backend expects PascalCase properties and trimmed text fields.
	if got := body["Title"]; got != "New Song" {
		t.Errorf("Title = %v, want trimmed \"New Song\"", got)
	}
	if got := body["FilePath"]; got != "https://cdn.example.com/new.mp3" {
		t.Errorf("FilePath = %v", got)
	}
	if _, ok := body["title"]; ok {
		t.Error("body carries a camelCase title field")
	}
	if got := body["CoverImagePath"]; got != nil {
		t.Errorf("CoverImagePath = %v, want null when no cover is set", got)
	}
}

func TestCreateSongByURLValidatesBeforeNetwork(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	c := New(server.URL, staticToken("tok"))
	_, err := c.CreateSongByURL(context.Background(), SongMeta{})
	if !zerrors.IsKind(err, zerrors.KindValidation) {
		t.Fatalf("error = %v, want validation", err)
	}

	// Every missing field is reported at once.
	msg := err.Error()
	for _, want := range []string{"title", "artist", "file path"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q does not mention %s", msg, want)
		}
	}
	if calls.Load() != 0 {
		t.Error("invalid metadata must not reach the network")
	}
}

func TestCreateSongByURLRejectsMalformedLocator(t *testing.T) {
	c := New("https://localhost:7151", staticToken("tok"))
	_, err := c.CreateSongByURL(context.Background(), SongMeta{
		Title:         "T",
		Artist:        "A",
		SourceLocator: "not a url",
	})
	if !zerrors.IsKind(err, zerrors.KindValidation) {
		t.Fatalf("error = %v, want validation", err)
	}
}

func TestCreateSongByURLRequiresToken(t *testing.T) {
	c := New("https://localhost:7151", nil)
	_, err := c.CreateSongByURL(context.Background(), SongMeta{
		Title:         "T",
		Artist:        "A",
		SourceLocator: "/music/t.mp3",
	})
	if !zerrors.IsKind(err, zerrors.KindAuth) {
		t.Fatalf("error = %v, want auth", err)
	}
}

func TestUploadSongFile(t *testing.T) {
	tmpDir := t.TempDir()
	audioPath := filepath.Join(tmpDir, "song.mp3")
	if err := os.WriteFile(audioPath, []byte("ID3 fake audio payload"), 0600); err != nil {
		t.Fatal(err)
	}
	coverPath := filepath.Join(tmpDir, "cover.jpg")
	if err := os.WriteFile(coverPath, []byte("fake jpeg payload"), 0600); err != nil {
		t.Fatal(err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/upload/songs" {
			t.Errorf("path = %q, want /api/upload/songs", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}

		audio, header, err := r.FormFile("AudioFile")
		if err != nil {
			t.Fatalf("AudioFile part: %v", err)
		}
		audio.Close()
		if header.Filename != "song.mp3" {
			t.Errorf("audio filename = %q, want song.mp3", header.Filename)
		}

		if _, _, err := r.FormFile("CoverFile"); err != nil {
			t.Errorf("CoverFile part: %v", err)
		}

		if got := r.FormValue("Title"); got != "Night Drive" {
			t.Errorf("Title = %q, want Night Drive", got)
		}
		if got := r.FormValue("Duration"); got != "214" {
			t.Errorf("Duration = %q, want 214", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 3, "title": "Night Drive", "artist": "F", "filePath": "/music/3.mp3"}`))
	}))
	defer server.Close()

	c := New(server.URL, staticToken("tok"))
	track, err := c.UploadSongFile(context.Background(), audioPath, coverPath, SongMeta{
		Title:           "Night Drive",
		Artist:          "F",
		DurationSeconds: 214,
	})
	if err != nil {
		t.Fatalf("UploadSongFile() error = %v", err)
	}
	if track.SourceLocator != "/music/3.mp3" {
		t.Errorf("SourceLocator = %q, want backend path", track.SourceLocator)
	}
}

func TestUploadSongFileMissingFile(t *testing.T) {
	c := New("https://localhost:7151", staticToken("tok"))
	_, err := c.UploadSongFile(context.Background(), "/does/not/exist.mp3", "", SongMeta{Title: "T"})
	if !zerrors.IsKind(err, zerrors.KindFetch) {
		t.Fatalf("error = %v, want fetch", err)
	}
}
