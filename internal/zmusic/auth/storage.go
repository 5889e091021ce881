package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zmusic/zmusic/internal/core"
)

const (
	tokenFileName    = "auth_token"
	identityFileName = "user.json"
)

// Storage persists the session to disk as two entries: the raw bearer token
// and the serialized identity. A process restart reconstructs the session
// from these alone.
type Storage struct {
	dir string
}

// NewStorage creates session storage rooted at dir. If dir is empty, the
// default location (~/.config/zmusic) is used.
func NewStorage(dir string) (*Storage, error) {
	if dir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config directory: %w", err)
		}
		dir = filepath.Join(configDir, "zmusic")
	}

	return &Storage{dir: dir}, nil
}

// Save persists a session to disk. Both entries are written, token first,
// with owner-only permissions.
func (s *Storage) Save(session *core.Session) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(s.tokenPath(), []byte(session.Token), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	data, err := json.MarshalIndent(session.Identity, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal identity: %w", err)
	}
	if err := os.WriteFile(s.identityPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write identity file: %w", err)
	}

	return nil
}

// Load reads the persisted session. Returns (nil, nil) when no session is
// stored. A partially present or unreadable session is destroyed rather
// than surfaced, so a corrupt entry cannot produce a half-authenticated
// state.
func (s *Storage) Load() (*core.Session, error) {
	tokenData, err := os.ReadFile(s.tokenPath())
	if err != nil {
		// Missing or unreadable, either way no usable session remains.
		_ = s.Clear()
		return nil, nil
	}

	token := strings.TrimSpace(string(tokenData))
	if token == "" {
		_ = s.Clear()
		return nil, nil
	}

	identityData, err := os.ReadFile(s.identityPath())
	if err != nil {
		_ = s.Clear()
		return nil, nil
	}

	var identity core.Identity
	if err := json.Unmarshal(identityData, &identity); err != nil {
		_ = s.Clear()
		return nil, nil
	}

	return &core.Session{Token: token, Identity: &identity}, nil
}

// Clear removes both persisted entries. Missing files are not an error, so
// Clear is idempotent.
func (s *Storage) Clear() error {
	for _, path := range []string{s.tokenPath(), s.identityPath()} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	return nil
}

// Dir returns the storage directory.
func (s *Storage) Dir() string {
	return s.dir
}

func (s *Storage) tokenPath() string {
	return filepath.Join(s.dir, tokenFileName)
}

func (s *Storage) identityPath() string {
	return filepath.Join(s.dir, identityFileName)
}
