// Package logger builds charmbracelet/log loggers for the interactive front ends.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New creates a prefixed charm logger writing to w that follows the global level.
func New(w io.Writer, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: false,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// Default creates a prefixed logger on stderr with timestamps, leaving
// stdout to the IPC stream.
func Default(prefix string) *log.Logger {
	l := New(os.Stderr, prefix)
	l.SetReportTimestamp(true)
	return l
}
