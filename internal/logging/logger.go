package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/edvin/mongoadmin/internal/config"
)

const serviceName = "mongoadmin-api"

// NewLogger creates a structured zerolog.Logger writing to stdout.
// LOG_FORMAT=console switches to human-readable output.
func NewLogger(cfg *config.Config) zerolog.Logger {
	return newLogger(os.Stdout, cfg.Log)
}

func newLogger(out io.Writer, cfg config.LogConfig) zerolog.Logger {
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out}
	}

	logger := zerolog.New(out).With().
		Timestamp().
		Str("service", serviceName).
		Logger()

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	return logger.Level(level)
}
