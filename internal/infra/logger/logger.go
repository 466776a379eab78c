package logger

import (
	"io"
	"log/slog"
	"os"
)

// New builds the process logger: JSON on stdout, debug level in dev.
func New(env string) *slog.Logger { return NewWriter(env, os.Stdout) }

func NewWriter(env string, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if env == "dev" {
		level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("service", "quote-bot", "env", env)
}
