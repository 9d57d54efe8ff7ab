// Package logging builds the leveled console logger shared by commands and the board.
package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"tasktrack/internal/config"
)

// Prefix is prepended to every log line.
const Prefix = "tasktrack"

// Options holds logger configuration.
type Options struct {
	Level           log.Level
	Formatter       log.Formatter
	ReportTimestamp bool
}

// FromConfig derives logger options from the loaded config. --debug wins over log_level.
func FromConfig(cfg *config.Config) Options {
	opts := Options{
		Level:     ParseLevel(cfg.LogLevel),
		Formatter: ParseFormatter(cfg.LogFormat),
	}
	if cfg.Debug {
		opts.Level = log.DebugLevel
		opts.ReportTimestamp = true
	}
	return opts
}

// New creates a logger writing to w.
func New(w io.Writer, opts Options) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          Prefix,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// ParseLevel parses a level name. Unknown names fall back to warn.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}

// ParseFormatter parses a formatter name: text, json or logfmt.
func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
