package observability

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

func NewLogger(level string) *zerolog.Logger {
	return NewLoggerTo(os.Stdout, level)
}

// NewLoggerTo writes JSON lines to w, stamped with the build version.
func NewLoggerTo(w io.Writer, level string) *zerolog.Logger {
	logger := zerolog.New(w).Level(ParseLevel(level)).With().
		Timestamp().
		Str("service", "heartrate-monitor").
		Str("version", Version).
		Logger()
	return &logger
}

// ParseLevel maps debug/warn/error; anything else is info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	}
	return zerolog.InfoLevel
}
