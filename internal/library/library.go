// Package library is the durable local store for tracks that could not be
// uploaded to the backend. Entries live only on this machine and are shown
// alongside catalog tracks marked as local.
package library

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/zmusic/zmusic/internal/core"
	zerrors "github.com/zmusic/zmusic/internal/errors"
)

const schema = `
	CREATE TABLE IF NOT EXISTS local_tracks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		artist TEXT NOT NULL,
		album TEXT,
		file_path TEXT NOT NULL,
		cover_path TEXT,
		duration REAL,
		created_at TIMESTAMP NOT NULL
	)
`

// Library is a SQLite-backed store of locally saved tracks.
type Library struct {
	db *sql.DB
}

// Open opens (and if needed creates) the library database at path. Use
// ":memory:" for tests. The default location is DefaultPath().
func Open(path string) (*Library, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create library directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open library: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping library: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Library{db: db}, nil
}

// DefaultPath returns the default library database location.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(configDir, "zmusic", "library.db"), nil
}

// Save inserts a track, assigning it an id when it has none. The stored
// track is returned with Origin set to local.
func (l *Library) Save(track core.Track) (*core.Track, error) {
	if track.ID == "" {
		track.ID = uuid.New().String()
	}
	track.Origin = core.OriginLocal

	_, err := l.db.Exec(`
		INSERT INTO local_tracks (id, title, artist, album, file_path, cover_path, duration, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		track.ID,
		track.Title,
		track.Artist,
		track.Album,
		track.SourceLocator,
		track.CoverLocator,
		track.DurationSeconds,
		time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save track: %w", err)
	}

	return &track, nil
}

// List returns all locally saved tracks, newest first.
func (l *Library) List() ([]core.Track, error) {
	rows, err := l.db.Query(`
		SELECT id, title, artist, album, file_path, cover_path, duration
		FROM local_tracks
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}
	defer rows.Close()

	var tracks []core.Track
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, *track)
	}
	return tracks, rows.Err()
}

// Get returns a single locally saved track by id.
func (l *Library) Get(id string) (*core.Track, error) {
	row := l.db.QueryRow(`
		SELECT id, title, artist, album, file_path, cover_path, duration
		FROM local_tracks
		WHERE id = ?`, id)

	track, err := scanTrack(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, zerrors.NotFound("local track %s not found", id)
	}
	return track, err
}

// Delete removes a locally saved track. Deleting an absent id is not an
// error.
func (l *Library) Delete(id string) error {
	_, err := l.db.Exec(`DELETE FROM local_tracks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete track: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (l *Library) Close() error {
	return l.db.Close()
}

// ImportFile copies an audio file into destDir and returns the stored
// path, to be used as the saved track's source locator. The copy keeps the
// audio playable after the original file moves or disappears.
func ImportFile(srcPath, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create fallback directory: %w", err)
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", srcPath, err)
	}
	defer src.Close()

	destPath := filepath.Join(destDir, uuid.New().String()+filepath.Ext(srcPath))
	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", destPath, err)
	}
	defer dest.Close()

	if _, err := io.Copy(dest, src); err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("failed to copy audio: %w", err)
	}
	return destPath, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrack(row scanner) (*core.Track, error) {
	var track core.Track
	var album, cover sql.NullString
	var duration sql.NullFloat64

	err := row.Scan(&track.ID, &track.Title, &track.Artist, &album, &track.SourceLocator, &cover, &duration)
	if err != nil {
		return nil, err
	}

	track.Album = album.String
	track.CoverLocator = cover.String
	track.DurationSeconds = duration.Float64
	track.Origin = core.OriginLocal
	return &track, nil
}
