package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup configures the global slog logger based on environment.
// Output always goes to stdout; extra sinks (such as a rotated file) are written alongside.
func Setup(env string, sinks ...io.Writer) *slog.Logger {
	logger := New(env, io.MultiWriter(append([]io.Writer{os.Stdout}, sinks...)...))
	slog.SetDefault(logger)

	slog.Info("Logger 초기화", "env", env, "sinks", len(sinks)+1)
	return logger
}

// New builds a logger for env writing to w.
func New(env string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	var handler slog.Handler
	switch env {
	case "production", "prod":
		// Production: JSON format
		handler = slog.NewJSONHandler(w, opts)
	case "local", "dev", "development":
		// Development: Text format, debug level
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// NewFileSink returns a size-rotated log file, or nil when no file is configured.
func NewFileSink(cfg config.LogConfig) io.WriteCloser {
	if cfg.File == "" {
		return nil
	}
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
}
