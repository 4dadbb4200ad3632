package logger

import (
	"log/slog"
	"os"
)

// Log defaults to a discardable stderr logger so packages can log before
// Init runs (and under go test).
var Log = slog.New(slog.NewTextHandler(os.Stderr, nil))

// Init sets up the global JSON logger. Level defaults to info; set
// LOG_LEVEL=debug for local work.
func Init() {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	Log = slog.New(handler)
}
