package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zmusic/zmusic/internal/core"
)

func testSession() *core.Session {
	return &core.Session{
		Token: "tok-abc123",
		Identity: &core.Identity{
			DisplayName: "alex",
			Email:       "alex@example.com",
			Role:        core.RoleAdmin,
		},
	}
}

func TestStorageRoundTrip(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewStorage() error = %v", err)
	}

	// Load with nothing stored returns no session and no error.
	session, err := storage.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if session != nil {
		t.Fatal("Load() = session, want nil for empty storage")
	}

	if err := storage.Save(testSession()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := storage.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded == nil {
		t.Fatal("Load() = nil after save")
	}
	if loaded.Token != "tok-abc123" {
		t.Errorf("Token = %q, want tok-abc123", loaded.Token)
	}
	if loaded.Identity.DisplayName != "alex" {
		t.Errorf("DisplayName = %q, want alex", loaded.Identity.DisplayName)
	}
	if loaded.Identity.Role != core.RoleAdmin {
		t.Errorf("Role = %q, want %q", loaded.Identity.Role, core.RoleAdmin)
	}

	// Both files are owner-only.
	for _, name := range []string{"auth_token", "user.json"} {
		info, err := os.Stat(filepath.Join(storage.Dir(), name))
		if err != nil {
			t.Fatalf("Stat(%s) error = %v", name, err)
		}
		if mode := info.Mode().Perm(); mode != 0600 {
			t.Errorf("%s permissions = %o, want 0600", name, mode)
		}
	}

	if err := storage.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	session, err = storage.Load()
	if err != nil {
		t.Fatalf("Load() after Clear() error = %v", err)
	}
	if session != nil {
		t.Error("Load() = session after Clear(), want nil")
	}
}

func TestStorageClearIdempotent(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewStorage() error = %v", err)
	}

	if err := storage.Clear(); err != nil {
		t.Errorf("Clear() on empty storage error = %v", err)
	}
	if err := storage.Clear(); err != nil {
		t.Errorf("second Clear() error = %v", err)
	}
}

func TestStoragePartialSessionDestroyed(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewStorage(dir)
	if err != nil {
		t.Fatalf("NewStorage() error = %v", err)
	}

	// A token without an identity is a corrupt session.
	if err := os.WriteFile(filepath.Join(dir, "auth_token"), []byte("orphan"), 0600); err != nil {
		t.Fatal(err)
	}

	session, err := storage.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if session != nil {
		t.Error("Load() = session, want nil for a partial session")
	}
	if _, err := os.Stat(filepath.Join(dir, "auth_token")); !os.IsNotExist(err) {
		t.Error("orphan token file should be removed")
	}
}

func TestStorageUnreadableTokenDestroyed(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewStorage(dir)
	if err != nil {
		t.Fatalf("NewStorage() error = %v", err)
	}

	// A directory in the token's place makes the read fail without the
	// file being absent.
	if err := os.Mkdir(filepath.Join(dir, "auth_token"), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "user.json"), []byte(`{"displayName":"alex"}`), 0600); err != nil {
		t.Fatal(err)
	}

	session, err := storage.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if session != nil {
		t.Error("Load() = session, want nil for an unreadable token")
	}
	if _, err := os.Stat(filepath.Join(dir, "user.json")); !os.IsNotExist(err) {
		t.Error("stale identity file should be removed")
	}
}

func TestStorageCorruptIdentityDestroyed(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewStorage(dir)
	if err != nil {
		t.Fatalf("NewStorage() error = %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "auth_token"), []byte("tok"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "user.json"), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	session, err := storage.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if session != nil {
		t.Error("Load() = session, want nil for corrupt identity")
	}
}
