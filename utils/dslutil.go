// Package utils collects small helpers shared across the simulation core:
// position scaling and a narration-style logger, in the teacher's plain
// free-function style.
package utils

import (
	"fmt"
	"log"
	"os"

	V "github.com/andewx/flipsim/vector"
)

// ScalePositions scales a list of positions around an origin in place.
func ScalePositions(pos []V.Vec3, origin V.Vec3, scale float64) {
	count := len(pos)

	for i := 0; i < count; i++ {
		v := pos[i]
		v.Sub(origin)
		v.Scale(scale)
		v.Add(origin)
		pos[i] = v
	}
}

// Logger is a thin, verbosity-gated wrapper over the standard logger,
// matching the narration style the teacher's console driver uses
// (fmt.Printf step banners) but routed through log.Logger so timestamps
// and step output share one stream.
type Logger struct {
	*log.Logger
	Verbose bool
}

// NewLogger builds a Logger writing to stderr with a "flipsim: " prefix.
func NewLogger(verbose bool) *Logger {
	return &Logger{
		Logger:  log.New(os.Stderr, "flipsim: ", log.LstdFlags),
		Verbose: verbose,
	}
}

// Step logs a one-line per-step banner when Verbose is set; a no-op
// otherwise, so production runs stay quiet by default.
func (l *Logger) Step(format string, args ...interface{}) {
	if !l.Verbose {
		return
	}
	l.Printf(format, args...)
}

// Warn always logs, regardless of Verbose — non-convergence and similar
// recoverable conditions are surfaced unconditionally.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.Printf("warning: "+format, args...)
}

// Errorf formats and returns an error without logging it — callers decide
// whether a returned error also needs console narration.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
