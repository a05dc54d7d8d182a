package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stevencartavia/cairo-native/internal/trace"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if cfg.TraceLevel() != trace.LevelOff {
		t.Fatalf("default trace level = %s, want off", cfg.TraceLevel())
	}
	if !cfg.Cache.Enabled {
		t.Fatal("cache must be enabled by default")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[trace]
level = "debug"
output = "trace.log"

[cache]
enabled = false

[emit]
output = "out.ll"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.TraceLevel() != trace.LevelDebug {
		t.Fatalf("trace level = %s, want debug", cfg.TraceLevel())
	}
	if cfg.Trace.Output != "trace.log" {
		t.Fatalf("trace output = %q", cfg.Trace.Output)
	}
	if cfg.Cache.Enabled {
		t.Fatal("cache override not applied")
	}
	if cfg.Emit.Output != "out.ll" {
		t.Fatalf("emit output = %q", cfg.Emit.Output)
	}
}

func TestLoadPartialManifestKeepsDefaults(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[trace]
level = "phase"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.TraceLevel() != trace.LevelPhase {
		t.Fatalf("trace level = %s, want phase", cfg.TraceLevel())
	}
	if !cfg.Cache.Enabled {
		t.Fatal("unset sections must keep defaults")
	}
}

func TestLoadRejectsBadLevel(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[trace]
level = "loud"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid trace level")
	}
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[trace]
verbosity = "debug"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
[trace]
level = "error"
`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, path, err := Find(nested)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if path != filepath.Join(root, ManifestName) {
		t.Fatalf("found %q, want manifest at root", path)
	}
	if cfg.TraceLevel() != trace.LevelError {
		t.Fatalf("trace level = %s, want error", cfg.TraceLevel())
	}
}

func TestFindWithoutManifestReturnsDefaults(t *testing.T) {
	cfg, path, err := Find(t.TempDir())
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if path != "" {
		t.Fatalf("unexpected manifest path %q", path)
	}
	if !cfg.Cache.Enabled {
		t.Fatal("defaults must apply when no manifest exists")
	}
}
