// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New builds the root logger. Console mode renders human-readable output
// for interactive runs; otherwise structured JSON goes to stderr. The
// level comes from EXTRACT_LOG_LEVEL unless verbose forces debug.
func New(console, verbose bool) zerolog.Logger {
	level := parseLevel(os.Getenv("EXTRACT_LOG_LEVEL"))
	if verbose {
		level = zerolog.DebugLevel
	}

	var out io.Writer = os.Stderr
	if console {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
