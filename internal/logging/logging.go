// Package logging builds the charm loggers used across mirrorhouse.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mirrorhouse/internal/config"
)

// New creates a stderr logger from cfg with the given prefix.
func New(cfg config.LogConfig, prefix string) *log.Logger {
	return NewWriter(os.Stderr, cfg, prefix)
}

// NewWriter creates a logger writing to w.
func NewWriter(w io.Writer, cfg config.LogConfig, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           ParseLevel(cfg.Level),
		Formatter:       ParseFormatter(cfg.Format),
	})
}

// ParseLevel maps a config level name to a log level. Unknown names
// fall back to info.
func ParseLevel(s string) log.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// ParseFormatter maps a config format name to a formatter.
func ParseFormatter(s string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
