package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LevelNone silences every record the evaluator emits.
const LevelNone = slog.LevelError + 4

// Setup installs a JSON slog logger as the default one. The returned writer is
// the log destination; callers close it when it is not stderr.
func Setup(level, file string) io.WriteCloser {
	loggerOptions := &slog.HandlerOptions{
		AddSource: false,
		Level:     LevelFromString(level),
	}
	logWriter := OpenWriter(file)
	slog.SetDefault(slog.New(slog.NewJSONHandler(logWriter, loggerOptions)))
	return logWriter
}

// OpenWriter opens file for appending, creating parent directories as needed. It
// falls back to stderr when file is empty or cannot be opened.
func OpenWriter(file string) io.WriteCloser {
	if file == "" {
		return nopCloser{os.Stderr}
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log directory for '%s': %v; falling back to stderr\n", file, err)
		return nopCloser{os.Stderr}
	}
	logWriter, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file '%s': %v; falling back to stderr\n", file, err)
		return nopCloser{os.Stderr}
	}
	return logWriter
}

func LevelFromString(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return LevelNone
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
