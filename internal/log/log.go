// Package log builds the slog handler selected by --log-level and
// --log-format, and carries the resulting logger in a context.
package log

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/muesli/termenv"

	charmlog "github.com/charmbracelet/log"
)

const (
	FormatJSON   = "json"
	FormatLogfmt = "logfmt"
	FormatText   = "text"
)

var (
	ErrUnknownLogLevel  = errors.New("unknown log level")
	ErrUnknownLogFormat = errors.New("unknown log format")

	// AllFormats and AllLevels feed flag help and shell completion.
	AllFormats = []string{FormatJSON, FormatLogfmt, FormatText}
	AllLevels  = []string{"error", "warn", "info", "debug"}

	levels = map[string]slog.Level{
		"error":   slog.LevelError,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"info":    slog.LevelInfo,
		"debug":   slog.LevelDebug,
	}
)

type contextKey struct{}

// NewHandler returns a handler writing to w. Level and format names are
// case-insensitive.
func NewHandler(w io.Writer, level, format string) (slog.Handler, error) {
	lvl, ok := levels[strings.ToLower(level)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLogLevel, level)
	}

	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case FormatJSON:
		return slog.NewJSONHandler(w, opts), nil
	case FormatLogfmt:
		return slog.NewTextHandler(w, opts), nil
	case FormatText:
		return newCharmLogHandler(w, lvl), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownLogFormat, format)
}

// newCharmLogHandler renders records for people: time of day, an aidlc
// prefix, and colors when w is a terminal.
func newCharmLogHandler(w io.Writer, level slog.Level) slog.Handler {
	logger := charmlog.NewWithOptions(w, charmlog.Options{
		//nolint:gosec // G115: level comes from the levels table.
		Level:           charmlog.Level(int32(level)),
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "aidlc",
	})
	logger.SetColorProfile(termenv.NewOutput(w).ColorProfile())

	return logger
}

// NewContext returns ctx carrying logger.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// WithContext returns the logger stored in ctx, or the default logger.
func WithContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
