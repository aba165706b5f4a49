package util

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

// InitLogger configures the global slog logger with the given level and format.
// Accepts levels: debug, info, warn, error. Defaults to info on unknown input.
// Format "text" selects the text handler; anything else emits JSON.
func InitLogger(level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: true,
	}
	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "text":
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
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

// LogUpdate emits a structured log for one handled inbound update.
func LogUpdate(service, kind string, userID int64, start time.Time, err error) {
	service = strings.TrimSpace(service)
	if service == "" {
		service = "unknown"
	}
	attrs := []any{
		"service", service,
		"kind", kind,
		"user_id", userID,
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if err != nil {
		slog.Warn("update", append(attrs, "err", err)...)
		return
	}
	slog.Info("update", attrs...)
}
