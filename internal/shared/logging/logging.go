// Package logging configures the process-wide slog default on top of a
// charmbracelet/log handler.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

const timeFormat = "15:04:05"

// Options selects level, output format and destination.
type Options struct {
	Level  string // debug, info, warn or error
	JSON   bool
	Output io.Writer
}

// ParseLevel maps a level name to a charm level. Unknown names mean info.
func ParseLevel(level string) charmlog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return charmlog.DebugLevel
	case "warn", "warning":
		return charmlog.WarnLevel
	case "error":
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}

// New builds a charm logger for opts. Output defaults to stderr so logs never
// mix with replies on stdout.
func New(opts Options) *charmlog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	logger := charmlog.NewWithOptions(out, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      timeFormat,
		Level:           ParseLevel(opts.Level),
	})
	if opts.JSON {
		logger.SetFormatter(charmlog.JSONFormatter)
	} else {
		logger.SetFormatter(charmlog.TextFormatter)
	}
	return logger
}

// Setup installs the logger as the slog default and returns it.
func Setup(opts Options) *slog.Logger {
	l := slog.New(New(opts))
	slog.SetDefault(l)
	return l
}
