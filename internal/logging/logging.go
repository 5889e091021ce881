// Package logging provides the shared logger factory.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New creates a logger writing to w (stderr when nil, keeping stdout clean
// for command output and the TUI) at the given level string.
func New(w io.Writer, level string) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	logger := log.NewWithOptions(w, log.Options{ReportTimestamp: true})
	logger.SetLevel(parseLevel(level))
	return logger
}

// Nop returns a logger that discards everything, for tests and for callers
// that have not been given a logger.
func Nop() *log.Logger {
	return log.New(io.Discard)
}

func parseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
