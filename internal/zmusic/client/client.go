package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	zerrors "github.com/zmusic/zmusic/internal/errors"
	"github.com/zmusic/zmusic/internal/logging"
)

// TokenSource supplies the bearer credential for authorized requests.
// An empty string means no credential is available.
type TokenSource interface {
	Token() string
}

// Client is a zMusic backend API client. All endpoints live under the
// backend's /api prefix.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
	logger     *log.Logger
}

// New creates a new backend client. baseURL is the backend origin without
// the /api prefix. tokens may be nil for unauthenticated use.
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/") + "/api",
		tokens:     tokens,
		logger:     logging.Nop(),
	}
}

// SetLogger replaces the client's logger for request tracing.
func (c *Client) SetLogger(logger *log.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// BaseURL returns the backend origin, without the /api prefix.
func (c *Client) BaseURL() string {
	return strings.TrimSuffix(c.baseURL, "/api")
}

// Get performs a GET request against the API.
func (c *Client) Get(ctx context.Context, path string, result any) error {
	return c.request(ctx, http.MethodGet, path, "", nil, result)
}

// PostJSON performs a POST request with a JSON body.
func (c *Client) PostJSON(ctx context.Context, path string, body, result any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	return c.request(ctx, http.MethodPost, path, "application/json", bytes.NewReader(data), result)
}

// Post performs a POST request with a pre-encoded body, e.g. multipart.
func (c *Client) Post(ctx context.Context, path, contentType string, body io.Reader, result any) error {
	return c.request(ctx, http.MethodPost, path, contentType, body, result)
}

// Delete performs a DELETE request against the API.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.request(ctx, http.MethodDelete, path, "", nil, nil)
}

func (c *Client) request(ctx context.Context, method, path, contentType string, body io.Reader, result any) error {
	fullURL := c.baseURL + path
	c.logger.Debug("api request", "method", method, "url", fullURL)

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("api transport error", "url", fullURL, "err", err)
		return zerrors.FetchWrap(err, "cannot reach the backend")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return zerrors.FetchWrap(err, "failed to read response")
	}

	c.logger.Debug("api response", "url", fullURL, "status", resp.StatusCode)

	if resp.StatusCode >= 400 {
		return statusError(resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return zerrors.FetchWrap(err, "failed to parse response")
		}
	}

	return nil
}

// statusError maps a non-success response to the error taxonomy, preferring
// the backend-provided message when one is present.
func statusError(status int, body []byte) error {
	var payload errorResponse
	_ = json.Unmarshal(body, &payload)

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		if msg := payload.message(); msg != "" {
			return zerrors.Auth("%s", msg)
		}
		return zerrors.Auth("not authorized (HTTP %d)", status)
	case status == http.StatusNotFound:
		if msg := payload.message(); msg != "" {
			return zerrors.NotFound("%s", msg)
		}
		return zerrors.NotFound("resource not found")
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		if fields := payload.fieldMessages(); len(fields) > 0 {
			return zerrors.Validation(fields...)
		}
		if msg := payload.message(); msg != "" {
			return zerrors.Validation(msg)
		}
		return zerrors.Fetch("bad request (HTTP %d)", status)
	default:
		if msg := payload.message(); msg != "" {
			return zerrors.Fetch("%s", msg)
		}
		return zerrors.Fetch("HTTP error! status: %d", status)
	}
}

// errorResponse is the backend's error envelope. Validation failures arrive
// either as a flat errors array or as a modelState field map.
type errorResponse struct {
	Message    string              `json:"message"`
	Errors     []string            `json:"errors"`
	ModelState map[string][]string `json:"modelState"`
}

func (e *errorResponse) message() string {
	return e.Message
}

func (e *errorResponse) fieldMessages() []string {
	var fields []string
	fields = append(fields, e.Errors...)
	for field, msgs := range e.ModelState {
		fields = append(fields, fmt.Sprintf("%s: %s", field, strings.Join(msgs, ", ")))
	}
	return fields
}

// BuildURL builds a path with query parameters.
func BuildURL(path string, params map[string]string) string {
	if len(params) == 0 {
		return path
	}

	u, _ := url.Parse(path)
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
