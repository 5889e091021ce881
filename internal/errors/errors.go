package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure for callers that branch on error class rather
// than message text.
type Kind string

const (
	KindAuth              Kind = "auth"
	KindValidation        Kind = "validation"
	KindFetch             Kind = "fetch"
	KindNotFound          Kind = "not_found"
	KindUnsupportedSource Kind = "unsupported_source"
	KindDecode            Kind = "decode"
)

// Error wraps a failure with its kind and an optional user-facing suggestion.
type Error struct {
	Kind       Kind
	Message    string
	Err        error
	Suggestion string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind) + " error"
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches two Errors by kind, so errors.Is(err, &Error{Kind: KindAuth})
// works across wrapping. A NotFound error also matches KindFetch.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Kind == t.Kind {
		return true
	}
	return e.Kind == KindNotFound && t.Kind == KindFetch
}

// Auth reports an authentication or authorization failure.
func Auth(format string, args ...any) *Error {
	return &Error{Kind: KindAuth, Message: fmt.Sprintf(format, args...)}
}

// AuthWrap reports an authentication failure caused by another error.
func AuthWrap(err error, message string) *Error {
	return &Error{Kind: KindAuth, Message: message, Err: err}
}

// Validation reports one or more rejected field constraints. Multiple field
// messages are aggregated into a single message.
func Validation(fields ...string) *Error {
	return &Error{Kind: KindValidation, Message: strings.Join(fields, "; ")}
}

// Fetch reports a non-2xx HTTP response or transport-level failure.
func Fetch(format string, args ...any) *Error {
	return &Error{Kind: KindFetch, Message: fmt.Sprintf(format, args...)}
}

// FetchWrap reports a transport failure caused by another error.
func FetchWrap(err error, message string) *Error {
	return &Error{Kind: KindFetch, Message: message, Err: err}
}

// NotFound reports an absent resource. It is a specialization of a fetch
// error and matches KindFetch in errors.Is checks.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// UnsupportedSource reports a playback source kind that is not implemented.
func UnsupportedSource(format string, args ...any) *Error {
	return &Error{Kind: KindUnsupportedSource, Message: fmt.Sprintf(format, args...)}
}

// Decode reports unreadable media metadata.
func Decode(err error, message string) *Error {
	return &Error{Kind: KindDecode, Message: message, Err: err}
}

// IsKind returns true if err or anything it wraps is an Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Is(&Error{Kind: kind})
}

// WithSuggestion attaches a user-facing suggestion to an error.
func WithSuggestion(err error, suggestion string) error {
	var e *Error
	if errors.As(err, &e) {
		e.Suggestion = suggestion
		return err
	}
	return &Error{Kind: KindFetch, Err: err, Suggestion: suggestion}
}

// GetSuggestion returns a next-step hint for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		if e.Suggestion != "" {
			return e.Suggestion
		}
		switch e.Kind {
		case KindAuth:
			return "Run 'zmusic auth login' to authenticate"
		case KindValidation:
			return "Fix the listed fields and try again"
		case KindNotFound:
			return "Run 'zmusic songs list' to see available tracks"
		case KindUnsupportedSource:
			return "Use a direct audio URL instead"
		case KindDecode:
			return "Check that the file is a valid audio file"
		}
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "no such host") {
		return "Check that the backend is running and ZMUSIC_API_URL is correct"
	}

	return ""
}

// Format returns a formatted error message with a suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}
	if suggestion := GetSuggestion(err); suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}
	return fmt.Sprintf("Error: %s", err.Error())
}
