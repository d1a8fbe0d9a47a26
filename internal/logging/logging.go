// Package logging provides structured logging for the askora backend using
// zerolog: human-readable console output during development, JSON for
// production.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var defaultLogger = zerolog.New(os.Stderr).With().Timestamp().Logger()

// Setup configures the default logger from the given level and format
// ("console" or "json") and returns it. Unknown levels fall back to info.
func Setup(level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	var writer io.Writer = os.Stderr
	if format != "json" && isatty() {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
			NoColor:    os.Getenv("NO_COLOR") != "",
		}
	}

	defaultLogger = zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
	return defaultLogger
}

// Default returns the default logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// New creates a logger writing JSON to w at the global level.
func New(w io.Writer) zerolog.Logger {
	return zerolog.New(w).Level(zerolog.GlobalLevel()).With().Timestamp().Logger()
}

func isatty() bool {
	// Check if stderr is a terminal
	if fileInfo, _ := os.Stderr.Stat(); (fileInfo.Mode() & os.ModeCharDevice) != 0 {
		return true
	}
	return false
}
