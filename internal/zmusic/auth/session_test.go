package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/zmusic/zmusic/internal/core"
	zerrors "github.com/zmusic/zmusic/internal/errors"
)

func newTestStore(t *testing.T, handler http.Handler) (*Store, *Storage, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	storage, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewStorage() error = %v", err)
	}
	return NewStore(server.URL, storage), storage, server
}

func authHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode auth body: %v", err)
		}

		switch r.URL.Path {
		case "/api/auth/login":
			if body["email"] != "alex@example.com" || body["password"] != "hunter22" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"message": "invalid email or password"})
				return
			}
			json.NewEncoder(w).Encode(map[string]string{
				"token":    "tok-login",
				"username": "alex",
				"email":    "alex@example.com",
				"role":     "Admin",
			})
		case "/api/auth/register":
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{
				"token":    "tok-register",
				"username": body["username"],
				"email":    body["email"],
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func TestLoginPersistsSession(t *testing.T) {
	store, storage, server := newTestStore(t, authHandler(t))

	session, err := store.Login(context.Background(), Credentials{
		Email:    " alex@example.com ",
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if session.Token != "tok-login" {
		t.Errorf("Token = %q, want tok-login", session.Token)
	}
	if !store.IsAuthenticated() {
		t.Error("IsAuthenticated() = false after login")
	}
	if user := store.CurrentUser(); user == nil || !user.IsAdmin() {
		t.Errorf("CurrentUser() = %v, want admin identity", user)
	}

	// A fresh store over the same storage reconstructs the session without
	// contacting the backend.
	restarted := NewStore(server.URL, storage)
	if restarted.Token() != "tok-login" {
		t.Errorf("restarted Token() = %q, want tok-login", restarted.Token())
	}
	if user := restarted.CurrentUser(); user == nil || user.DisplayName != "alex" {
		t.Errorf("restarted CurrentUser() = %v, want alex", user)
	}
}

func TestLoginRejectedCredentials(t *testing.T) {
	store, _, _ := newTestStore(t, authHandler(t))

	_, err := store.Login(context.Background(), Credentials{
		Email:    "alex@example.com",
		Password: "wrong",
	})
	if !zerrors.IsKind(err, zerrors.KindAuth) {
		t.Fatalf("Login() error = %v, want auth", err)
	}
	if !strings.Contains(err.Error(), "invalid email or password") {
		t.Errorf("message = %q, want the backend-provided message", err.Error())
	}
	if store.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after rejected login")
	}
}

func TestRegisterDefaultsRole(t *testing.T) {
	store, _, _ := newTestStore(t, authHandler(t))

	session, err := store.Register(context.Background(), Profile{
		DisplayName: "new user",
		Email:       "New@Example.com",
		Password:    "secret1",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if session.Identity.Role != core.RoleUser {
		t.Errorf("Role = %q, want %q when the backend sends none", session.Identity.Role, core.RoleUser)
	}
	if session.Identity.Email != "new@example.com" {
		t.Errorf("Email = %q, want lowercased", session.Identity.Email)
	}
}

func TestRegisterValidatesBeforeNetwork(t *testing.T) {
	var calls atomic.Int32
	store, _, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	_, err := store.Register(context.Background(), Profile{
		DisplayName: "  ",
		Email:       "not-an-email",
		Password:    "123",
	})
	if !zerrors.IsKind(err, zerrors.KindValidation) {
		t.Fatalf("Register() error = %v, want validation", err)
	}

	// All violations are reported in one error.
	msg := err.Error()
	for _, want := range []string{"display name", "email", "password"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q does not mention %s", msg, want)
		}
	}
	if calls.Load() != 0 {
		t.Error("invalid profile must not reach the network")
	}
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"alex@example.com", true},
		{" alex@example.com ", true},
		{"a@b.co", true},
		{"", false},
		{"no-at-sign", false},
		{"@example.com", false},
		{"alex@", false},
		{"alex@nodot", false},
		{"alex@.com", false},
		{"alex@example.", false},
	}

	for _, tt := range tests {
		if got := validEmail(tt.email); got != tt.want {
			t.Errorf("validEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestRegisterBackendFieldErrors(t *testing.T) {
	store, _, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"errors": []string{"email is already registered"},
		})
	}))

	_, err := store.Register(context.Background(), Profile{
		DisplayName: "alex",
		Email:       "alex@example.com",
		Password:    "secret1",
	})
	if !zerrors.IsKind(err, zerrors.KindValidation) {
		t.Fatalf("Register() error = %v, want validation", err)
	}
	if !strings.Contains(err.Error(), "already registered") {
		t.Errorf("message = %q, want the backend field error", err.Error())
	}
}

func TestLogoutIdempotent(t *testing.T) {
	store, _, _ := newTestStore(t, authHandler(t))

	if _, err := store.Login(context.Background(), Credentials{Email: "alex@example.com", Password: "hunter22"}); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if err := store.Logout(); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if store.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after logout")
	}
	if store.CurrentUser() != nil {
		t.Error("CurrentUser() != nil after logout")
	}

	// Logging out again is not an error.
	if err := store.Logout(); err != nil {
		t.Errorf("second Logout() error = %v", err)
	}
}

func TestUnreachableBackendIsAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	storage, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	store := NewStore(server.URL, storage)

	_, err = store.Login(context.Background(), Credentials{Email: "a@b.co", Password: "secret1"})
	if !zerrors.IsKind(err, zerrors.KindAuth) {
		t.Fatalf("Login() error = %v, want auth", err)
	}
}
