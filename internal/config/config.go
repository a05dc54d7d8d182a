// Package config loads tool configuration from a TOML manifest.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/stevencartavia/cairo-native/internal/trace"
)

// ManifestName is the per-project configuration file looked up by Find.
const ManifestName = "sierra2llvm.toml"

// Config is the full tool configuration.
type Config struct {
	Trace TraceConfig `toml:"trace"`
	Cache CacheConfig `toml:"cache"`
	Emit  EmitConfig  `toml:"emit"`
}

// TraceConfig controls diagnostic tracing.
type TraceConfig struct {
	// Level is one of off, error, phase, debug.
	Level string `toml:"level"`
	// Output is a file path; empty means stderr.
	Output string `toml:"output"`
}

// CacheConfig controls the compiled-program disk cache.
type CacheConfig struct {
	Enabled bool `toml:"enabled"`
	// Dir overrides the default cache location when set.
	Dir string `toml:"dir"`
}

// EmitConfig controls where the textual IR lands.
type EmitConfig struct {
	// Output is a file path; empty means stdout.
	Output string `toml:"output"`
}

// Default returns the configuration used when no manifest is present.
func Default() Config {
	return Config{
		Trace: TraceConfig{Level: "off"},
		Cache: CacheConfig{Enabled: true},
	}
}

// Load parses the manifest at path over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	for _, key := range meta.Undecoded() {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, key)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Find walks up from startDir looking for the manifest. Returns the default
// configuration when none exists.
func Find(startDir string) (Config, string, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return Config{}, "", fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			cfg, err := Load(candidate)
			return cfg, candidate, err
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, "", fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return Default(), "", nil
}

func (c *Config) validate() error {
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return fmt.Errorf("[trace].level: %w", err)
	}
	return nil
}

// TraceLevel returns the parsed trace level.
func (c *Config) TraceLevel() trace.Level {
	lvl, err := trace.ParseLevel(c.Trace.Level)
	if err != nil {
		return trace.LevelOff
	}
	return lvl
}
