package config

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// SetupLogger logs text to stderr and, when logFile is set, JSON lines to
// that file as well. If the file cannot be opened only stderr is used. The
// returned func closes the file.
func SetupLogger(logFile string, level slog.Level) (*slog.Logger, func() error) {
	noop := func() error { return nil }
	if logFile == "" {
		return newLogger(os.Stderr, nil, level), noop
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		logger := newLogger(os.Stderr, nil, level)
		logger.Error("Failed to open log file, logging to stderr only", "file", logFile, "error", err)
		return logger, noop
	}
	return newLogger(os.Stderr, file, level), file.Close
}

// newLogger fans records out to a text handler on console and, if file is
// non-nil, a JSON handler on file
func newLogger(console, file io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	text := slog.NewTextHandler(console, opts)
	if file == nil {
		return slog.New(text)
	}
	return slog.New(slogmulti.Fanout(text, slog.NewJSONHandler(file, opts)))
}
