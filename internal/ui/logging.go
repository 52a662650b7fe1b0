package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Logger struct {
	zl zerolog.Logger
}

func NewLogger(debug bool) *Logger {
	return NewLoggerTo(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}, debug)
}

// NewLoggerTo writes to w; pass a plain writer to get JSON lines.
func NewLoggerTo(w io.Writer, debug bool) *Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return &Logger{
		zl: zerolog.New(w).Level(level).With().Timestamp().Logger(),
	}
}

func (l *Logger) Debugf(format string, args ...any) {
	l.zl.Debug().Msg(msg(format, args))
}

func (l *Logger) Infof(format string, args ...any) {
	l.zl.Info().Msg(msg(format, args))
}

func (l *Logger) Warnf(format string, args ...any) {
	l.zl.Warn().Msg(msg(format, args))
}

func (l *Logger) Errorf(format string, args ...any) {
	l.zl.Error().Msg(msg(format, args))
}

// Page logs one processed page with structured fields.
func (l *Logger) Page(path string, derived, written int, bytes int64) {
	l.zl.Info().
		Str("page", path).
		Int("frames", derived).
		Int("written", written).
		Int64("bytes", bytes).
		Msg("page split")
}

func msg(format string, args []any) string {
	return strings.TrimRight(fmt.Sprintf(format, args...), "\n")
}
