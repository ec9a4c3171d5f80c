package nmag

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger so simulations, writers and drivers share
// one structured-logging surface. The embedded logger plugs straight
// into sim.WithLogger and friends.
type Logger struct {
	*slog.Logger
}

// NewLogger wraps the given handler. A nil handler falls back to an
// info-level text handler on stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}

	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger returns a Logger writing human-readable lines to
// stderr at the given level.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewJSONLogger returns a Logger writing JSON records to stderr at the
// given level.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger returns a Logger that drops everything; Enabled reports
// false for every real level.
func NoopLogger() *Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(127),
	})

	return &Logger{Logger: slog.New(h)}
}

// WithRunID tags every record with the simulation name.
func (l *Logger) WithRunID(name string) *Logger {
	return &Logger{Logger: l.Logger.With("run_id", name)}
}

// WithStage tags every record with a hysteresis stage.
func (l *Logger) WithStage(stage int) *Logger {
	return &Logger{Logger: l.Logger.With("stage", stage)}
}
