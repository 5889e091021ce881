package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestKindMatching(t *testing.T) {
	authErr := Auth("bad token")
	if !IsKind(authErr, KindAuth) {
		t.Error("auth error should match KindAuth")
	}
	if IsKind(authErr, KindFetch) {
		t.Error("auth error should not match KindFetch")
	}

	// Wrapping preserves the kind.
	wrapped := fmt.Errorf("context: %w", authErr)
	if !IsKind(wrapped, KindAuth) {
		t.Error("wrapped auth error should still match KindAuth")
	}

	if IsKind(errors.New("plain"), KindAuth) {
		t.Error("plain error should match no kind")
	}
}

func TestNotFoundIsAlsoFetch(t *testing.T) {
	err := NotFound("song %s not found", "9")
	if !IsKind(err, KindNotFound) {
		t.Error("not-found error should match KindNotFound")
	}
	if !IsKind(err, KindFetch) {
		t.Error("not-found error should also match KindFetch")
	}
	// But a plain fetch error is not a not-found.
	if IsKind(Fetch("HTTP error! status: %d", 500), KindNotFound) {
		t.Error("fetch error should not match KindNotFound")
	}
}

func TestValidationAggregates(t *testing.T) {
	err := Validation("title is required", "artist is required")
	want := "title is required; artist is required"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := FetchWrap(cause, "cannot reach the backend")

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if err.Error() != "cannot reach the backend" {
		t.Errorf("Error() = %q, want the outer message", err.Error())
	}
}

func TestSuggestions(t *testing.T) {
	if got := GetSuggestion(Auth("expired")); !strings.Contains(got, "auth login") {
		t.Errorf("auth suggestion = %q, want a login hint", got)
	}
	if got := GetSuggestion(NotFound("gone")); !strings.Contains(got, "songs list") {
		t.Errorf("not-found suggestion = %q, want a listing hint", got)
	}

	custom := WithSuggestion(Fetch("failed"), "try again later")
	if got := GetSuggestion(custom); got != "try again later" {
		t.Errorf("suggestion = %q, want the attached one", got)
	}

	if got := GetSuggestion(errors.New("dial tcp: connection refused")); !strings.Contains(got, "ZMUSIC_API_URL") {
		t.Errorf("transport suggestion = %q, want a backend hint", got)
	}
}

func TestFormat(t *testing.T) {
	out := Format(Auth("not authenticated"))
	if !strings.HasPrefix(out, "Error: not authenticated") {
		t.Errorf("Format() = %q", out)
	}
	if !strings.Contains(out, "Suggestion:") {
		t.Errorf("Format() = %q, want a suggestion section", out)
	}

	if Format(nil) != "" {
		t.Error("Format(nil) should be empty")
	}
}
