// Package logger holds the process-wide zerolog logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Log is the global logger instance. Console output until UseJSON is called.
var Log zerolog.Logger

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	Log = build(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.DateTime}, zerolog.InfoLevel)
}

// build gives every output mode the same context fields.
func build(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Caller().
		Logger()
}

// SetLevel applies levelStr globally. Empty or unknown values mean info.
func SetLevel(levelStr string) {
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil || levelStr == "" {
		Log.Warn().Str("level", levelStr).Msg("invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	Log = Log.Level(level)
}

// UseJSON switches the global logger to JSON lines on stdout, keeping its level.
func UseJSON() {
	useJSON(os.Stdout)
}

func useJSON(w io.Writer) {
	Log = build(w, Log.GetLevel())
}
