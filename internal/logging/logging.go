// Package logging builds the zerolog loggers used across contactbook.
// The terminal UI owns stdout, so logs go to a file or nowhere.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// ParseLevel maps a config level name to a zerolog level.
// An empty name means info.
func ParseLevel(name string) (zerolog.Level, error) {
	switch strings.ToLower(name) {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "warn":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "disabled":
		return zerolog.Disabled, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("logging: unknown level %q", name)
	}
}

// New returns a timestamped logger writing to w at the named level.
func New(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Logger(), nil
}

// Open returns a logger appending to path. An empty path discards output.
// The returned close func is never nil.
func Open(path, level string) (zerolog.Logger, func() error, error) {
	noop := func() error { return nil }
	if path == "" {
		l, err := New(io.Discard, level)
		return l, noop, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), noop, fmt.Errorf("logging: creating directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), noop, fmt.Errorf("logging: opening %s: %w", path, err)
	}
	l, err := New(f, level)
	if err != nil {
		_ = f.Close()
		return zerolog.Nop(), noop, err
	}
	return l, f.Close, nil
}

// Component returns a child logger tagged with the component name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}
