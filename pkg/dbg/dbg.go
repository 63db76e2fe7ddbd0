// Package dbg is the Go analogue of the original engine's MMOORE_LOG
// macro: a log line that exists only when the caller asked for it.
// Nothing in the retrieval pack reaches for a structured logging
// library for a tool this size, so this stays on the standard log
// package, gated by a bool the same way the teacher gates fmt.Printf
// behind its Verbose flag.
package dbg

import (
	"fmt"
	"log"
	"os"
)

// Logger prints debug lines when Enabled is true and drops them
// otherwise.
type Logger struct {
	Enabled bool
	out     *log.Logger
}

// New returns a Logger writing to stderr when enabled is true.
func New(enabled bool) *Logger {
	return &Logger{
		Enabled: enabled,
		out:     log.New(os.Stderr, "[DEBUG] ", log.Ltime|log.Lshortfile),
	}
}

// Printf logs a formatted debug line when the logger is enabled.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil || !l.Enabled {
		return
	}
	l.out.Output(2, fmt.Sprintf(format, args...))
}
