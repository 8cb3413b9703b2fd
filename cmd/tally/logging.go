package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/rpggio/tally/internal/config"
)

// newLogger builds the process logger. Stdio mode logs to stderr to keep
// stdout clean for JSON-RPC. A configured log path takes precedence and
// rotates by size.
func newLogger(cfg config.Config) (*slog.Logger, io.Closer, error) {
	var (
		w      io.Writer = os.Stdout
		closer io.Closer = nopCloser{}
	)
	if cfg.Transport.Mode == config.TransportStdio {
		w = os.Stderr
	}
	if cfg.Log.Path != "" {
		if err := ensureDir(cfg.Log.Path); err != nil {
			return nil, nil, err
		}
		rotating := &lumberjack.Logger{
			Filename:   cfg.Log.Path,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
		}
		w, closer = rotating, rotating
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	return logger, closer, nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ensureDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
