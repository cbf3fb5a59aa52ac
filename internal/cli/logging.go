package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"sllm/internal/config"
)

// NewLogger returns the console logger used by every sllm command. Debug mode
// adds timestamps and debug events.
func NewLogger(w io.Writer, debug, noColor bool) zerolog.Logger {
	cw := zerolog.ConsoleWriter{Out: w, NoColor: noColor, TimeFormat: "2006-01-02 15:04:05"}
	lvl := zerolog.InfoLevel
	if debug {
		lvl = zerolog.DebugLevel
	} else {
		cw.PartsExclude = []string{zerolog.TimestampFieldName}
	}
	return zerolog.New(cw).Level(lvl).With().Timestamp().Logger()
}

// UseColor reports whether output to a terminal should be colored. NO_COLOR
// disables colors whatever its value.
func UseColor(tty bool, env config.Getenv) bool {
	if !tty {
		return false
	}
	if env != nil && env("NO_COLOR") != "" {
		return false
	}
	return true
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the column count of f, or 0 when unknown.
func TerminalWidth(f *os.File) int {
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return w
}

// LogError reports a failed command. In debug mode every error of the chain
// is logged, outermost first.
func LogError(log zerolog.Logger, err error, debug bool) {
	log.Error().Msg("Aborting on error.")
	if !debug {
		log.Error().Msg(err.Error())
		return
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		log.Debug().Str("type", fmt.Sprintf("%T", e)).Msg(e.Error())
	}
}
