package logging

import (
	"log/slog"
	"strings"
	"time"

	"github.com/go-chi/httplog/v2"
)

// New builds the service logger. Request logs and application logs share it.
func New(service, level string, concise bool) *httplog.Logger {
	return httplog.NewLogger(service, httplog.Options{
		LogLevel:         ParseLevel(level),
		JSON:             !concise,
		Concise:          concise,
		MessageFieldName: "message",
		QuietDownRoutes:  []string{"/health", "/ready", "/metrics"},
		QuietDownPeriod:  30 * time.Second,
		Tags: map[string]string{
			"service": service,
		},
	})
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "off", "none":
		return slog.LevelError + 4
	default:
		return slog.LevelInfo
	}
}
