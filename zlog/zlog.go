// Package zlog holds the default logger of dash-api packages.
package zlog

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

var (
	// Default is the logger used when none is configured. If os.Stdout is a
	// terminal then ConsoleWriter is used for prettier output.
	Default = New(os.Stdout, zerolog.InfoLevel, isTerminal(os.Stdout))
)

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// New builds a logger writing to w at level, with timestamps. console selects
// the human-readable ConsoleWriter instead of JSON lines.
func New(w io.Writer, level zerolog.Level, console bool) zerolog.Logger {
	if console {
		w = zerolog.ConsoleWriter{Out: w}
	}
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// FromConfig builds a logger on os.Stderr from a level name ("debug", "info",
// ...; empty means info). console is forced on when stderr is a terminal.
func FromConfig(level string, console bool) (zerolog.Logger, error) {
	lvl := zerolog.InfoLevel
	if level != "" {
		var err error
		lvl, err = zerolog.ParseLevel(level)
		if err != nil {
			return zerolog.Nop(), errors.Wrapf(err, "log level %q", level)
		}
	}
	return New(os.Stderr, lvl, console || isTerminal(os.Stderr)), nil
}
