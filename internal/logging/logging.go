// Package logging provides structured logging using zerolog.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rgehrsitz/taxhelper/internal/calculation"
	"github.com/rs/zerolog"
)

// Log is the global logger instance. It writes to stderr so command output
// on stdout stays clean for piping.
var Log zerolog.Logger

func init() {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	SetOutput(os.Stderr)
}

// SetOutput sends human-readable log lines to w
func SetOutput(w io.Writer) {
	Log = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Logger()
}

// SetJSON switches to JSON lines on w
func SetJSON(w io.Writer) {
	Log = zerolog.New(w).
		With().
		Timestamp().
		Logger()
}

// SetLevel sets the global log level. Unknown names fall back to warn.
func SetLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "off":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	default:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}

// EngineLogger forwards calculation engine output to the global logger
type EngineLogger struct {
	Component string
}

var _ calculation.Logger = EngineLogger{}

// NewEngineLogger returns a calculation.Logger tagged with a component name
func NewEngineLogger(component string) EngineLogger {
	return EngineLogger{Component: component}
}

func (l EngineLogger) Debugf(format string, args ...any) {
	Log.Debug().Str("component", l.Component).Msgf(format, args...)
}

func (l EngineLogger) Infof(format string, args ...any) {
	Log.Info().Str("component", l.Component).Msgf(format, args...)
}

func (l EngineLogger) Warnf(format string, args ...any) {
	Log.Warn().Str("component", l.Component).Msgf(format, args...)
}

func (l EngineLogger) Errorf(format string, args ...any) {
	Log.Error().Str("component", l.Component).Msgf(format, args...)
}
