package internal

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the package-wide logger. Components derive their own loggers
// from it with a "component" field.
var Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
	Level(zerolog.InfoLevel).
	With().
	Timestamp().
	Logger()

// SetVerbose enables verbose (debug) logging
func SetVerbose(verbose bool) {
	if verbose {
		Logger = Logger.Level(zerolog.DebugLevel)
	} else {
		Logger = Logger.Level(zerolog.InfoLevel)
	}
}

// SetLogLevel sets the log level by name ("debug", "info", "warn", "error").
// Unknown names leave the level unchanged.
func SetLogLevel(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		return
	}
	Logger = Logger.Level(parsed)
}

func componentLogger(name string) zerolog.Logger {
	return Logger.With().Str("component", name).Logger()
}
