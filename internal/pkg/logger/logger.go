// internal/pkg/logger/logger.go
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// SetupLogger initializes the process-wide structured logger
func SetupLogger(level string, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.Format(time.RFC3339Nano))
				}
			}
			return a
		},
	}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(writer(), opts)
	case "text":
		handler = NewPrettyTextHandler(writer(), opts)
	default:
		handler = slog.NewJSONHandler(writer(), opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Leveler {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func writer() io.Writer {
	// Logs go to stderr so command output on stdout stays parseable.
	return os.Stderr
}
