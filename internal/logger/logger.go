package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog logger so packages across the agent share one
// logging surface.
type Logger struct {
	zerolog.Logger
}

func New(debug bool, w io.Writer) *Logger {
	level := zerolog.InfoLevel

	if debug {
		level = zerolog.DebugLevel
	}

	l := zerolog.New(w).Level(level).With().Timestamp().Logger()

	return &Logger{l}
}

// NewConsole returns a logger writing human-readable output to stdout.
func NewConsole(debug bool) *Logger {
	return New(debug, zerolog.ConsoleWriter{Out: os.Stdout})
}

// NewErrorConsole returns a logger writing to stderr, for use before the
// main logger can be constructed.
func NewErrorConsole(debug bool) *Logger {
	return New(debug, zerolog.ConsoleWriter{Out: os.Stderr})
}
