// Package trace provides leveled, best-effort tracing for the lowering
// pipeline. Trace output never fails a compilation.
package trace

import "time"

// Tracer is the main interface for emitting trace events.
type Tracer interface {
	// Emit records a trace event.
	Emit(ev Event)

	// Flush ensures all buffered events are written.
	Flush() error

	// Level returns the current tracing level.
	Level() Level

	// Enabled returns true if tracing is active (Level > LevelOff).
	Enabled() bool
}

// Phase emits a pass-boundary event.
func Phase(t Tracer, msg string, fields ...Field) {
	emit(t, LevelPhase, msg, fields)
}

// Debug emits a per-declaration event.
func Debug(t Tracer, msg string, fields ...Field) {
	emit(t, LevelDebug, msg, fields)
}

// Error emits a failure event.
func Error(t Tracer, msg string, fields ...Field) {
	emit(t, LevelError, msg, fields)
}

func emit(t Tracer, level Level, msg string, fields []Field) {
	if t == nil || !t.Enabled() {
		return
	}
	t.Emit(Event{
		When:    time.Now(),
		Level:   level,
		Message: msg,
		Fields:  fields,
	})
}
