// Package logger configures the zerolog logger shared by the storerate binaries.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// Options control where and how log lines are written
type Options struct {
	Level   string // debug, info, warn, error, off
	Format  string // json or console
	Out     io.Writer
	Service string // added as the "service" field when set
}

// Init builds the process logger, installs it as zerolog's global logger and
// returns it. Out defaults to stdout.
func Init(opts Options) zerolog.Logger {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	level, known := parseLogLevel(opts.Level)
	zerolog.SetGlobalLevel(level)

	w := out
	if !strings.EqualFold(opts.Format, "json") {
		w = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.TimeOnly,
			NoColor:    !isTerminal(out),
		}
	}

	ctx := zerolog.New(w).With().Timestamp()
	if opts.Service != "" {
		ctx = ctx.Str("service", opts.Service)
	}
	l := ctx.Logger()
	log.Logger = l

	if !known {
		l.Warn().Str("level", opts.Level).Msg("Unknown log level, using info")
	}
	return l
}

// parseLogLevel maps a configured level name; "" is info. known is false for names
// it does not recognise.
func parseLogLevel(level string) (lvl zerolog.Level, known bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel, true
	case "info", "":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "off", "disabled", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
