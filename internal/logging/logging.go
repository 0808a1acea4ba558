// Package logging builds the zerolog.Logger instances threaded through the
// solver. No component in this module calls the stdlib "log" package or a
// package-level logger; every constructor that logs accepts one, following
// the `logger zerolog.Logger` field convention used for structured
// constraint-solver logging in the pack this codebase was grounded on.
package logging

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/gitrdm/straut/internal/config"
)

// New builds a logger at the level named by cfg.LogLevel, writing a
// human-readable console format to stderr when it is a terminal and
// structured JSON otherwise (e.g. when output is piped to a log collector).
func New(cfg *config.Config) zerolog.Logger {
	cfg = config.WithDefaults(cfg)

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var writer io.Writer = os.Stderr
	if f, ok := writer.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	}

	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// Component returns a child logger tagged with the given subsystem name,
// e.g. logging.Component(logger, "slicer").
func Component(base zerolog.Logger, name string) zerolog.Logger {
	return base.With().Str("component", name).Logger()
}
