package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/zmusic/zmusic/internal/core"
	zerrors "github.com/zmusic/zmusic/internal/errors"
)

// SongMeta is the metadata for a new catalog entry.
type SongMeta struct {
	Title           string
	Artist          string
	Album           string
	DurationSeconds float64
	SourceLocator   string
	CoverLocator    string
}

// createSongRequest is the JSON body for metadata-only creation. The
// backend expects PascalCase properties.
type createSongRequest struct {
	Title          string  `json:"Title"`
	Artist         string  `json:"Artist"`
	Album          string  `json:"Album"`
	Duration       float64 `json:"Duration"`
	FilePath       string  `json:"FilePath"`
	CoverImagePath *string `json:"CoverImagePath"`
}

// CreateSongByURL creates a catalog entry referencing audio hosted
// elsewhere. Requires an Admin bearer credential.
func (c *Client) CreateSongByURL(ctx context.Context, meta SongMeta) (*core.Track, error) {
	if err := validateMeta(meta); err != nil {
		return nil, err
	}
	if err := c.requireToken(); err != nil {
		return nil, err
	}

	body := createSongRequest{
		Title:    strings.TrimSpace(meta.Title),
		Artist:   strings.TrimSpace(meta.Artist),
		Album:    meta.Album,
		Duration: meta.DurationSeconds,
		FilePath: meta.SourceLocator,
	}
	if meta.CoverLocator != "" {
		body.CoverImagePath = &meta.CoverLocator
	}

	var song songResponse
	if err := c.PostJSON(ctx, "/songs", body, &song); err != nil {
		return nil, err
	}
	return convertSong(&song), nil
}

// UploadSongFile uploads an audio file (and optionally a cover image) as a
// multipart form. coverPath may be empty. Callers are expected to have
// validated the files via the upload package first; transport failures are
// surfaced as fetch errors so they can fall back to the local library.
func (c *Client) UploadSongFile(ctx context.Context, audioPath, coverPath string, meta SongMeta) (*core.Track, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	if err := writeFilePart(form, "AudioFile", audioPath); err != nil {
		return nil, err
	}
	if coverPath != "" {
		if err := writeFilePart(form, "CoverFile", coverPath); err != nil {
			return nil, err
		}
	}

	_ = form.WriteField("Title", meta.Title)
	_ = form.WriteField("Artist", meta.Artist)
	_ = form.WriteField("Album", meta.Album)
	_ = form.WriteField("Duration", fmt.Sprintf("%d", int(meta.DurationSeconds)))

	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	var song songResponse
	if err := c.Post(ctx, "/upload/songs", form.FormDataContentType(), &buf, &song); err != nil {
		return nil, err
	}
	return convertSong(&song), nil
}

func (c *Client) requireToken() error {
	if c.tokens == nil || c.tokens.Token() == "" {
		return zerrors.Auth("not authenticated")
	}
	return nil
}

func validateMeta(meta SongMeta) error {
	var fields []string
	if strings.TrimSpace(meta.Title) == "" {
		fields = append(fields, "title is required")
	}
	if strings.TrimSpace(meta.Artist) == "" {
		fields = append(fields, "artist is required")
	}
	if meta.SourceLocator == "" {
		fields = append(fields, "file path is required")
	} else if !wellFormedLocator(meta.SourceLocator) {
		fields = append(fields, "file path is not a valid URL or path")
	}
	if len(fields) > 0 {
		return zerrors.Validation(fields...)
	}
	return nil
}

// wellFormedLocator accepts absolute URLs and backend-relative paths.
func wellFormedLocator(locator string) bool {
	if strings.HasPrefix(locator, "/") {
		return true
	}
	u, err := url.Parse(locator)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func writeFilePart(form *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return zerrors.FetchWrap(err, fmt.Sprintf("cannot open %s", path))
	}
	defer f.Close()

	part, err := form.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to create form part: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return nil
}
