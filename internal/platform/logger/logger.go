package logger

import (
	"log/slog"
	"os"
)

// New returns a text slog logger writing to stdout. Level defaults to info;
// pass debug=true for local troubleshooting.
func New(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
