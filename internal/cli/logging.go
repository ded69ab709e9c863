package cli

import (
	"io"
	"log/slog"
)

// newLogger returns the run logger. Diagnostics go to w at Info, or Debug
// when verbose is set.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
