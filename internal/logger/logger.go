package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init configures the process-wide logger. Debug mode switches to a
// human readable console writer and enables debug level.
func Init(debug bool) {
	log = build(os.Stdout, debug)
	log.Info().Msg("logger initialized")
}

// SetOutput redirects the logger, used by tests to capture output.
func SetOutput(w io.Writer) {
	log = zerolog.New(w).With().Timestamp().Logger()
}

func build(w io.Writer, debug bool) zerolog.Logger {
	if !debug {
		return zerolog.New(w).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(zerolog.DebugLevel).
		With().Timestamp().Caller().Logger()
}

func Debug(msg string, fields map[string]any) {
	log.Debug().Fields(fields).Msg(msg)
}

func Info(msg string, fields map[string]any) {
	log.Info().Fields(fields).Msg(msg)
}

func Warn(msg string, fields map[string]any) {
	log.Warn().Fields(fields).Msg(msg)
}

func Error(msg string, fields map[string]any) {
	log.Error().Fields(fields).Msg(msg)
}

func Fatal(msg string, fields map[string]any) {
	log.Fatal().Fields(fields).Msg(msg)
}

// Log writes at the given level; used where the level is derived at runtime.
func Log(level zerolog.Level, msg string, fields map[string]any) {
	log.WithLevel(level).Fields(fields).Msg(msg)
}
