// Package logging configures the global zerolog logger.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup writes human-readable logs to w. debug forces the debug level;
// otherwise level is parsed and falls back to warn.
func Setup(w io.Writer, level string, debug bool) zerolog.Level {
	lvl := zerolog.WarnLevel
	if parsed, err := zerolog.ParseLevel(level); err == nil && level != "" {
		lvl = parsed
	}
	if debug {
		lvl = zerolog.DebugLevel
	}

	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	return lvl
}
