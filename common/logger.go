package common

import (
	"io"
	"os"

	"github.com/phuslu/log"
)

// NewLogger builds a leveled logger writing to w (stderr when nil).
// Format "json" emits one JSON object per line; anything else uses the
// console writer.
func NewLogger(level, format string, w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}

	logger := &log.Logger{
		Level:      log.ParseLevel(level),
		TimeFormat: "15:04:05.000",
	}
	if format == "json" {
		logger.TimeFormat = ""
		logger.Writer = &log.IOWriter{Writer: w}
	} else {
		logger.Writer = &log.ConsoleWriter{
			Writer:         w,
			QuoteString:    true,
			EndWithMessage: true,
		}
	}
	return logger
}
