package observability

import (
	"io"
	"log/slog"
	"strings"

	"github.com/couchcryptid/quake-analytics-service/internal/config"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

// NewLogger builds the service logger from LOG_LEVEL and LOG_FORMAT. It
// writes to stdout and becomes the slog default.
func NewLogger(cfg *config.Config) *slog.Logger {
	return sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
}

// NewCommandLogger is NewLogger for one-shot commands whose stdout carries
// results: it writes to w and leaves the slog default alone.
func NewCommandLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(cfg.LogLevel))); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(cfg.LogFormat, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
