// Package logger configures the slog logger used by the herbarium commands.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Output formats.
const (
	FormatAuto = "auto"
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds logger configuration.
type Config struct {
	Writer io.Writer
	Format string
	Level  string

	// File, when set, receives a JSON copy of every record. The file is
	// rotated once it reaches MaxSizeMB (default 10).
	File      string
	MaxSizeMB int
}

// New creates a console logger. FormatAuto picks the text handler when the
// writer is a terminal and JSON otherwise. File is ignored; use Open.
func New(cfg Config) *slog.Logger {
	return slog.New(consoleHandler(cfg))
}

// Open creates a logger like New and, when cfg.File is set, tees every
// record as JSON into that file, rotated by size. The returned closer
// releases the file and must be called once logging is done.
func Open(cfg Config) (*slog.Logger, io.Closer) {
	if cfg.File == "" {
		return New(cfg), nopCloser{}
	}
	size := cfg.MaxSizeMB
	if size <= 0 {
		size = 10
	}
	file := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    size,
		MaxBackups: 3,
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	return slog.New(fanout{consoleHandler(cfg), slog.NewJSONHandler(file, opts)}), file
}

func consoleHandler(cfg Config) slog.Handler {
	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if resolveFormat(cfg) == FormatJSON {
		return slog.NewJSONHandler(cfg.Writer, opts)
	}
	return slog.NewTextHandler(cfg.Writer, opts)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// fanout sends every record to all of its handlers.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var first error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// Discard returns a logger that drops every record. Useful in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel converts a string to slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

func resolveFormat(cfg Config) string {
	format := strings.ToLower(cfg.Format)
	if format == FormatText || format == FormatJSON {
		return format
	}
	if f, ok := cfg.Writer.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return FormatText
	}
	return FormatJSON
}
