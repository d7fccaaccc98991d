package transport

import (
	"io"

	"github.com/charmbracelet/log"
)

// Option configures a [Solver].
type Option func(*Solver)

// WithMaxIterations bounds the number of plan rebuilds. Zero or a negative
// value means no limit.
func WithMaxIterations(n int) Option { return func(s *Solver) { s.maxIterations = n } }

// WithLogger sets the logger used for debug tracing of the solve loop.
// A nil logger discards output.
func WithLogger(l *log.Logger) Option {
	return func(s *Solver) {
		if l != nil {
			s.logger = l
		}
	}
}

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
