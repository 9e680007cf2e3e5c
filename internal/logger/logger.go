// Package logger holds the process-wide structured logger.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// L is the global logger. It falls back to slog's default until InitLogger runs.
var L = slog.Default()

type contextKey string

const loggerKey contextKey = "logger"

// ParseLevel maps a config level name to a slog.Level. Unknown names map to info.
func ParseLevel(levelStr string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// InitLogger initializes the global logger writing JSON to stdout.
// Call this once at startup, after loading config.
func InitLogger(levelStr string) {
	InitLoggerWithWriter(levelStr, os.Stdout)
}

// InitLoggerWithWriter is InitLogger with an explicit destination.
func InitLoggerWithWriter(levelStr string, w io.Writer) {
	level, ok := ParseLevel(levelStr)

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.Format(time.RFC3339))
				}
			}
			return a
		},
	}

	L = slog.New(slog.NewJSONHandler(w, opts))
	slog.SetDefault(L)

	if !ok {
		L.Warn("Invalid log level specified, defaulting to INFO", "configuredLevel", levelStr)
	}
	L.Debug("Logger initialized", "level", level.String())
}

// FromContext retrieves a logger from context, or returns the global logger.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
			return logger
		}
	}
	return L
}

// ToContext embeds a logger into ctx.
func ToContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}
