package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"k8s.io/klog/v2"
)

// New builds the process logger, makes it the slog default and routes
// client-go's klog output through the same handler.
func New(logFormat, logLevel string) *slog.Logger {
	return NewWithWriter(os.Stdout, logFormat, logLevel)
}

func NewWithWriter(w io.Writer, logFormat, logLevel string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(logLevel),
	}

	var handler slog.Handler

	switch strings.ToLower(logFormat) {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(handler)

	slog.SetDefault(logger)

	klog.SetLoggerWithOptions(
		logr.FromSlogHandler(handler.WithAttrs([]slog.Attr{slog.String("component", "client-go")})),
		klog.ContextualLogger(true),
	)

	return logger
}

// ParseLevel maps a level name to slog.Level; unknown names fall back to info.
func ParseLevel(logLevel string) slog.Level {
	switch strings.ToLower(logLevel) {
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
