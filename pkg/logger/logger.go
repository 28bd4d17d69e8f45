// Package logger configures the global zerolog logger from the environment.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func getLogLevel() zerolog.Level {
	switch strings.ToUpper(os.Getenv("LOG_LEVEL")) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func useConsole() bool {
	return strings.EqualFold(os.Getenv("LOG_FORMAT"), "console")
}

// Init points the global logger at w using LOG_LEVEL and LOG_FORMAT.
func Init(w io.Writer) {
	zerolog.SetGlobalLevel(getLogLevel())
	zerolog.TimeFieldFormat = time.RFC3339

	if useConsole() {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	log.Logger = zerolog.New(w).With().Timestamp().Str("service", "partchat").Logger()
}
