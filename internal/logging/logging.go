package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/martinuiga/french-auctions-clauding/internal/config"
)

// ErrInvalidLogLevel is returned when an unknown log level is configured.
var ErrInvalidLogLevel = errors.New("invalid log level")

// ErrInvalidLogFormat is returned when an unknown log format is configured.
var ErrInvalidLogFormat = errors.New("invalid log format")

const (
	FormatText = "text"
	FormatJSON = "json"
)

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// New creates a logger writing to w. An empty level means info and an empty
// format means text.
func New(w io.Writer, conf config.LoggingConfig) (*slog.Logger, error) {
	if w == nil {
		return nil, errors.New("writer is nil")
	}

	levelName := strings.ToLower(strings.TrimSpace(conf.Level))
	if levelName == "" {
		levelName = "info"
	}
	level, ok := levels[levelName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidLogLevel, conf.Level)
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(conf.Format)) {
	case "", FormatText:
		handler = slog.NewTextHandler(w, opts)
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidLogFormat, conf.Format)
	}

	return slog.New(handler), nil
}
