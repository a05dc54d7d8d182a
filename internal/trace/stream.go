package trace

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// StreamTracer writes events immediately to an io.Writer as text lines.
type StreamTracer struct {
	mu    sync.Mutex
	w     io.Writer
	level Level
}

// NewStreamTracer creates a new StreamTracer.
func NewStreamTracer(w io.Writer, level Level) *StreamTracer {
	return &StreamTracer{w: w, level: level}
}

// Emit writes an event to the output.
func (t *StreamTracer) Emit(ev Event) {
	if ev.Level > t.level || t.level == LevelOff {
		return
	}

	var sb strings.Builder
	sb.WriteString(ev.When.Format("15:04:05.000"))
	sb.WriteByte(' ')
	sb.WriteString(ev.Level.String())
	sb.WriteByte(' ')
	sb.WriteString(ev.Message)
	for _, f := range ev.Fields {
		fmt.Fprintf(&sb, " %s=%s", f.Key, f.Value)
	}
	sb.WriteByte('\n')

	t.mu.Lock()
	defer t.mu.Unlock()

	// Best-effort write: trace failures must not disrupt compilation.
	_, _ = io.WriteString(t.w, sb.String()) //nolint:errcheck
}

// Flush ensures all buffered data is written.
func (t *StreamTracer) Flush() error {
	if flusher, ok := t.w.(interface{ Flush() error }); ok {
		return flusher.Flush()
	}
	return nil
}

// Level returns the configured level.
func (t *StreamTracer) Level() Level { return t.level }

// Enabled reports whether any events can be emitted.
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
