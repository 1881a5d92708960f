// Package logging configures the process logger and hands out
// component-scoped entries.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options selects level, output format and destination.
type Options struct {
	Level  string // trace|debug|info|warn|error
	Format string // text|json
	Output io.Writer
}

// New builds a logger from opts. Unknown levels fall back to warn.
func New(opts Options) (*logrus.Logger, error) {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	if opts.Output != nil {
		l.SetOutput(opts.Output)
	}

	level := logrus.WarnLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		level = parsed
	}
	l.SetLevel(level)

	switch strings.ToLower(opts.Format) {
	case "", "text":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("log format %q: want text or json", opts.Format)
	}
	return l, nil
}

// For returns an entry tagged with the package and component names.
// A nil logger yields a discarding one so callers never need nil checks.
func For(l *logrus.Logger, pkg, component string) *logrus.Entry {
	if l == nil {
		l = Discard()
	}
	return l.WithFields(logrus.Fields{
		"package":   pkg,
		"component": component,
	})
}

// Discard returns a logger that writes nothing.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}
