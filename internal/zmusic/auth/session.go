package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/zmusic/zmusic/internal/core"
	zerrors "github.com/zmusic/zmusic/internal/errors"
)

// Credentials are the inputs to Login.
type Credentials struct {
	Email    string
	Password string
}

// Profile are the inputs to Register.
type Profile struct {
	DisplayName string
	Email       string
	Password    string
}

// Store owns the current session. All mutating operations write through to
// durable storage synchronously with the in-memory result.
type Store struct {
	baseURL    string
	storage    *Storage
	httpClient *http.Client

	mu      sync.RWMutex
	session *core.Session
}

// NewStore creates a session store against the given backend origin,
// reconstructing any persisted session from storage.
func NewStore(baseURL string, storage *Storage) *Store {
	s := &Store{
		baseURL:    strings.TrimRight(baseURL, "/") + "/api",
		storage:    storage,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}

	if session, err := storage.Load(); err == nil {
		s.session = session
	}

	return s
}

// Login authenticates with email and password. On success the session is
// persisted and returned; rejected credentials and unreachable backends are
// both auth errors, with the backend-provided message preferred.
func (s *Store) Login(ctx context.Context, creds Credentials) (*core.Session, error) {
	body := map[string]string{
		"email":    strings.TrimSpace(creds.Email),
		"password": creds.Password,
	}

	resp, err := s.postAuth(ctx, "/auth/login", body)
	if err != nil {
		return nil, err
	}

	if resp.status != http.StatusOK {
		if msg := resp.payload.Message; msg != "" {
			return nil, zerrors.Auth("%s", msg)
		}
		return nil, zerrors.Auth("login failed (HTTP %d)", resp.status)
	}

	return s.adopt(resp.payload)
}

// Register creates an account. All client-side field violations are
// aggregated into a single validation error before any network call.
func (s *Store) Register(ctx context.Context, profile Profile) (*core.Session, error) {
	if err := validateProfile(profile); err != nil {
		return nil, err
	}

	body := map[string]string{
		"username": strings.TrimSpace(profile.DisplayName),
		"email":    strings.ToLower(strings.TrimSpace(profile.Email)),
		"password": profile.Password,
	}

	resp, err := s.postAuth(ctx, "/auth/register", body)
	if err != nil {
		return nil, err
	}

	if resp.status != http.StatusCreated && resp.status != http.StatusOK {
		if fields := resp.payload.fieldMessages(); len(fields) > 0 {
			return nil, zerrors.Validation(fields...)
		}
		if msg := resp.payload.Message; msg != "" {
			return nil, zerrors.Auth("%s", msg)
		}
		return nil, zerrors.Auth("registration failed (HTTP %d)", resp.status)
	}

	return s.adopt(resp.payload)
}

// Logout clears the session in memory and on disk. Idempotent; the view
// layer is responsible for returning to the login surface afterwards.
func (s *Store) Logout() error {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()
	return s.storage.Clear()
}

// CurrentUser returns the persisted identity, or nil when not logged in.
// Never contacts the backend.
func (s *Store) CurrentUser() *core.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	return s.session.Identity
}

// IsAuthenticated returns true iff a persisted token exists. No expiry or
// revocation check is performed client-side.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// Token returns the current bearer credential, implementing the client's
// TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return ""
	}
	return s.session.Token
}

func (s *Store) adopt(payload authPayload) (*core.Session, error) {
	if payload.Token == "" {
		return nil, zerrors.Auth("backend returned no token")
	}

	role := core.Role(payload.Role)
	if role == "" {
		role = core.RoleUser
	}

	session := &core.Session{
		Token: payload.Token,
		Identity: &core.Identity{
			DisplayName: payload.Username,
			Email:       payload.Email,
			Role:        role,
		},
	}

	if err := s.storage.Save(session); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()

	return session, nil
}

// authPayload is the body of an auth endpoint response, success or error.
type authPayload struct {
	Token     string `json:"token"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	ExpiresAt string `json:"expiresAt"`

	Message    string              `json:"message"`
	Errors     []string            `json:"errors"`
	ModelState map[string][]string `json:"modelState"`
}

func (p *authPayload) fieldMessages() []string {
	var fields []string
	fields = append(fields, p.Errors...)
	for field, msgs := range p.ModelState {
		fields = append(fields, fmt.Sprintf("%s: %s", field, strings.Join(msgs, ", ")))
	}
	return fields
}

type authResult struct {
	status  int
	payload authPayload
}

func (s *Store) postAuth(ctx context.Context, path string, body map[string]string) (*authResult, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, zerrors.AuthWrap(err, "cannot reach the backend")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, zerrors.AuthWrap(err, "failed to read response")
	}

	result := &authResult{status: resp.StatusCode}
	_ = json.Unmarshal(respBody, &result.payload)
	return result, nil
}

func validateProfile(profile Profile) error {
	var fields []string
	if strings.TrimSpace(profile.DisplayName) == "" {
		fields = append(fields, "display name is required")
	}
	if !validEmail(profile.Email) {
		fields = append(fields, "email address is not valid")
	}
	if len(profile.Password) < 6 {
		fields = append(fields, "password must be at least 6 characters")
	}
	if len(fields) > 0 {
		return zerrors.Validation(fields...)
	}
	return nil
}

func validEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
