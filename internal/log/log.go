package log

import (
	"os"

	"github.com/rs/zerolog"
)

// New builds the service logger with the requested level. Unknown
// levels fall back to info.
func New(service, level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}

	return zerolog.New(os.Stdout).
		Level(parsed).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}
