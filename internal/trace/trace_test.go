package trace

import (
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"off":   LevelOff,
		"error": LevelError,
		"phase": LevelPhase,
		"debug": LevelDebug,
		"DEBUG": LevelDebug,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestStreamTracerFiltersByLevel(t *testing.T) {
	var sb strings.Builder
	tr := NewStreamTracer(&sb, LevelPhase)

	Phase(tr, "elaborating types")
	Debug(tr, "per-declaration detail")
	Error(tr, "lowering failed", F("decl", "3"))

	out := sb.String()
	if !strings.Contains(out, "elaborating types") {
		t.Fatalf("phase event missing:\n%s", out)
	}
	if strings.Contains(out, "per-declaration detail") {
		t.Fatalf("debug event must be filtered at phase level:\n%s", out)
	}
	if !strings.Contains(out, "lowering failed") || !strings.Contains(out, "decl=3") {
		t.Fatalf("error event with fields missing:\n%s", out)
	}
}

func TestNopTracerIsSilent(t *testing.T) {
	if Nop.Enabled() {
		t.Fatal("nop tracer must report disabled")
	}
	// Emitting through a disabled tracer must be a no-op, including nil.
	Phase(Nop, "ignored")
	Phase(nil, "ignored")
}
