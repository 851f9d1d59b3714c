package config

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the process logger. Every event carries the shop name and
// the binary that emitted it, so api, report and seed logs can share a sink.
func NewLogger(cfg LoggerConfig, app AppConfig, component string) zerolog.Logger {
	return newLogger(os.Stdout, cfg, app, component)
}

func newLogger(out io.Writer, cfg LoggerConfig, app AppConfig, component string) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("app", app.Name).
		Str("component", component).
		Logger()
}
