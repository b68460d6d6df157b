package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// New initializes a new slog logger writing to stderr and sets it as the
// default. format is "text" (the default, for development) or "json".
// Stdout is left to the terminal session.
func New(format, level string) *slog.Logger {
	logger := slog.New(NewHandler(os.Stderr, format, level))
	slog.SetDefault(logger)
	return logger
}

// NewHandler builds the handler New uses, writing to w.
func NewHandler(w io.Writer, format, level string) slog.Handler {
	switch strings.ToLower(format) {
	case "json":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     slogLevel(level),
			AddSource: slogLevel(level) == slog.LevelDebug,
		})
	default:
		return log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			ReportCaller:    slogLevel(level) == slog.LevelDebug,
			Level:           charmLevel(level),
		})
	}
}

func slogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

func charmLevel(level string) log.Level {
	switch slogLevel(level) {
	case slog.LevelDebug:
		return log.DebugLevel
	case slog.LevelWarn:
		return log.WarnLevel
	case slog.LevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
