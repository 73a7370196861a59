// Package logging configures the global zerolog logger and emits the
// structured startup summary.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Environment variables read by Init.
const (
	EnvLevel  = "LOGONOVA_LOG_LEVEL"
	EnvFormat = "LOGONOVA_LOG_FORMAT"
)

// Init initializes the global logger with configuration from environment variables.
// LOGONOVA_LOG_LEVEL controls the log level: debug, info, warn, error (default: info).
// LOGONOVA_LOG_FORMAT=json keeps raw JSON lines instead of the console writer.
func Init() {
	InitWith(os.Getenv(EnvLevel), os.Getenv(EnvFormat), os.Stderr)
}

// InitWith configures the global logger explicitly.
func InitWith(level, format string, out io.Writer) {
	zerolog.SetGlobalLevel(ParseLevel(level))

	if strings.EqualFold(format, "json") {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: out})
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
