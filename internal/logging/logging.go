// Package logging builds the charmbracelet/log logger used for diagnostics.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Options holds configuration for a logger.
type Options struct {
	Level     string
	Format    string
	File      string // append here instead of the given writer
	Prefix    string
	Timestamp bool
}

// New returns a logger writing to w, or to opts.File when set. The returned
// closer releases the file; it is a no-op otherwise.
func New(w io.Writer, opts Options) (*log.Logger, io.Closer, error) {
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f
		// A file gets timestamps regardless; there is no terminal to watch.
		opts.Timestamp = true
	}
	if w == nil {
		w = io.Discard
	}
	level, err := ParseLevel(opts.Level)
	if err != nil {
		_ = closer.Close()
		return nil, nil, err
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       ParseFormatter(opts.Format),
		ReportTimestamp: opts.Timestamp,
		Prefix:          opts.Prefix,
	})
	return logger, closer, nil
}

// ParseLevel parses a level name; "" means warn.
func ParseLevel(level string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel, nil
	case "info":
		return log.InfoLevel, nil
	case "", "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.WarnLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// ParseFormatter parses a formatter name; unknown names fall back to text.
func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
