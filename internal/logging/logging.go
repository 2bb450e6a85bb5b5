package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Diagnostics file rotation limits. Backups are never compressed.
const (
	fileMaxSizeMB  = 10
	fileMaxBackups = 3
	fileMaxAgeDays = 28
)

// Options configures the diagnostics logger.
type Options struct {
	Level slog.Level
	JSON  bool   // JSONHandler instead of TextHandler
	File  string // optional file that receives a copy of every record
}

// Init creates the diagnostics logger, sets it as the slog default and
// returns it together with a closer for the optional file sink.
// Records always go to stderr so stdout stays free for outcome output.
func Init(opts Options) (*slog.Logger, io.Closer) {
	var w io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		rw := NewRotatingWriter(opts.File)
		w = io.MultiWriter(os.Stderr, rw)
		closer = rw
	}
	logger := New(w, opts)
	slog.SetDefault(logger)
	return logger, closer
}

// New creates a logger writing to w with the handler selected by opts.
func New(w io.Writer, opts Options) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: opts.Level}
	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(w, hopts)
	} else {
		handler = slog.NewTextHandler(w, hopts)
	}
	return slog.New(handler)
}

// NewRotatingWriter returns a size-rotated file writer for diagnostics.
func NewRotatingWriter(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    fileMaxSizeMB,
		MaxBackups: fileMaxBackups,
		MaxAge:     fileMaxAgeDays,
		LocalTime:  true,
		Compress:   false,
	}
}

// ParseLevel converts a string ("debug", "info", "warn", "error") to slog.Level.
// Unknown strings default to LevelInfo.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
