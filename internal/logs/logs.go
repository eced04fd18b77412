package logs

import (
	"io"
	"log/slog"
)

// Options configures the handler returned by NewHandler.
type Options struct {
	// Level is the minimum level of the records to emit. Defaults to slog.LevelWarn.
	Level slog.Leveler
}

// NewHandler returns a slog.Handler writing human-readable records to w.
// Timestamps are omitted: logs are meant to be read in a terminal, next to
// the reports.
func NewHandler(w io.Writer, opts *Options) slog.Handler {
	level := slog.Leveler(slog.LevelWarn)
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if len(groups) == 0 && attr.Key == slog.TimeKey {
				return slog.Attr{}
			}

			return attr
		},
	})
}

// LevelFromVerbosity maps the number of -v flags to a log level.
func LevelFromVerbosity(verbosity int) slog.Level {
	switch {
	case verbosity <= 0:
		return slog.LevelWarn
	case verbosity == 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// Err returns an attribute describing the given error.
func Err(err error) slog.Attr {
	return slog.Any("err", err)
}
