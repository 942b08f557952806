package runtime

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger is the tracing surface Context hooks call through. It exists so
// the zerolog dependency only has to be wired once, in Option, rather
// than threaded through every call site by hand.
type Logger interface {
	Tracef(format string, args ...any)
	Errorf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Tracef(string, ...any) {}
func (noopLogger) Errorf(string, ...any) {}

type zlogLogger struct{ log zerolog.Logger }

func (z zlogLogger) Tracef(format string, args ...any) {
	z.log.Trace().Msgf(format, args...)
}

func (z zlogLogger) Errorf(format string, args ...any) {
	z.log.Error().Msgf(format, args...)
}

// Option customizes a Context at construction time.
type Option func(*Context)

// Debug enables ϡprintf-style tracing (original_source/src/compile.c's
// yyprintf macro, replaced here with structured zerolog output) of every
// rule entry and exit, backtrack, action, inline expression and predicate,
// plus error-handler runs at error level. Individual match attempts are
// not traced.
func Debug(on bool) Option {
	return func(c *Context) {
		if !on {
			return
		}
		c.debug = zlogLogger{log: zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(zerolog.TraceLevel).
			With().Timestamp().Logger()}
	}
}

// WithLogger installs a caller-supplied Logger, bypassing Debug's default
// zerolog console writer. Useful for tests that want to assert on trace
// output instead of printing it.
func WithLogger(l Logger) Option {
	return func(c *Context) { c.debug = l }
}
