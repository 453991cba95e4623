package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Initialize sets up the global logger. Output goes to stderr so the chat
// transcript on stdout is never interleaved with log lines.
func Initialize(debug bool) {
	InitializeTo(os.Stderr, debug)
}

// InitializeTo is Initialize with an explicit destination.
func InitializeTo(w io.Writer, debug bool) {
	log.Logger = zerolog.New(w).With().Timestamp().Logger()

	// Pretty print logs in development
	if debug {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		})
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	log.Logger = log.With().Caller().Logger()
}

// Get returns the global logger instance
func Get() *zerolog.Logger {
	return &log.Logger
}
