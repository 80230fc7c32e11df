// Package logger builds the structured loggers used by the projection
// engine. The engine never logs through global state: New returns a base
// logger and each part of the engine derives its own component-tagged
// child from it via Component.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logger configuration
type Config struct {
	Level  string // debug, info, warn, error
	Pretty bool   // Enable pretty console output
}

// New creates the base structured logger. Unknown or empty levels fall
// back to info. The level is carried on the returned logger itself, not
// on zerolog's global state, so concurrent simulators with different
// configurations do not interfere.
func New(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339

	var output io.Writer = os.Stdout
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		}
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// Component derives a child logger tagged with the given component name,
// so every line a simulation run emits identifies the part of the engine
// it came from.
func Component(base zerolog.Logger, name string) zerolog.Logger {
	return base.With().Str("component", name).Logger()
}
