// Package logger builds the slog logger used across painel.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// Options selects the sink and level of a logger.
type Options struct {
	// Level is one of debug, info, warn or error. Empty means info.
	Level string
	// Writer receives the log lines. When nil, File is opened for append.
	Writer io.Writer
	// File is used when Writer is nil. The dashboard owns the terminal, so
	// interactive runs log here.
	File string
}

// ParseLevel maps a level name onto slog.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, zerr.With(zerr.New("unknown log level"), "level", s)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New creates a text logger. The returned Closer releases the log file, if
// one was opened.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	w := opts.Writer
	var closer io.Closer = nopCloser{}
	if w == nil {
		if opts.File == "" {
			return Discard(), closer, nil
		}
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o750); err != nil {
			return nil, nil, zerr.With(zerr.Wrap(err, "failed to create log directory"), "file", opts.File)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) //nolint:gosec // path is provided by user
		if err != nil {
			return nil, nil, zerr.With(zerr.Wrap(err, "failed to open log file"), "file", opts.File)
		}
		w, closer = f, f
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler), closer, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
