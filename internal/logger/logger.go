package logger

import (
	"log/slog"
	"os"
)

// New builds the application-wide JSON logger writing to stdout.
func New() *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
