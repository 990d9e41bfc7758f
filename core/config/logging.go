package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ParseLevel maps a configured level name onto a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: unknown log level %q", ErrInvalidSettings, name)
	}
}

// NewLogger builds a slog logger writing to w according to ls. Unknown
// levels fall back to info.
func NewLogger(ls LogSettings, w io.Writer) *slog.Logger {
	level, _ := ParseLevel(ls.Level)
	opts := &slog.HandlerOptions{Level: level}

	if ls.Format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
