// Package logger builds the application's zerolog loggers.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New constructs a JSON logger writing to stdout, tagged with a role
// label ("server", "worker") for filtering.
func New(role string) zerolog.Logger {
	return zerolog.New(os.Stdout).With().
		Str("role", role).
		Timestamp().
		Logger()
}
