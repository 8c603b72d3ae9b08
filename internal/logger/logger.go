// Package logger configures structured logging for synthgen.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing human-readable output to stderr.
// Verbose enables debug-level events.
func New(verbose bool) *logrus.Logger {
	return NewWithWriter(os.Stderr, verbose)
}

// NewWithWriter returns a logger writing to w. Used by tests to
// capture or discard output.
func NewWithWriter(w io.Writer, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}
