// Package config reads ripple.toml. Every key is optional; missing keys
// keep the values from Default.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"ripple/internal/trace"
)

// FileName is the name searched for by Find.
const FileName = "ripple.toml"

type Config struct {
	Verifier VerifierConfig `toml:"verifier"`
	Trace    TraceConfig    `toml:"trace"`
	Cache    CacheConfig    `toml:"cache"`
	Output   OutputConfig   `toml:"output"`

	// Path is the file the configuration was read from, empty for
	// Default.
	Path string `toml:"-"`
}

type VerifierConfig struct {
	// FixedPointBound caps the directive rounds before unresolved
	// directives are reported.
	FixedPointBound  int  `toml:"fixed_point_bound"`
	MaxDiagnostics   int  `toml:"max_diagnostics"`
	WarningsAsErrors bool `toml:"warnings_as_errors"`
	// AllowDuplicateBindings accepts a variable declared twice in one
	// scope when both declarations have the same type.
	AllowDuplicateBindings bool `toml:"allow_duplicate_bindings"`
	// Jobs bounds how many files are verified at once; 0 means one per
	// CPU.
	Jobs int `toml:"jobs"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Mode   string `toml:"mode"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type OutputConfig struct {
	Format string `toml:"format"` // pretty, short, json or sarif
	Color  string `toml:"color"`  // auto, on or off
}

func Default() Config {
	return Config{
		Verifier: VerifierConfig{FixedPointBound: 9, MaxDiagnostics: 0},
		Trace:    TraceConfig{Level: "off", Mode: "stream", Format: "auto", Output: "-"},
		Output:   OutputConfig{Format: "pretty", Color: "auto"},
	}
}

// Find walks up from startDir looking for ripple.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes path over Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover loads the nearest ripple.toml above startDir, or returns
// Default when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

func (c *Config) Validate() error {
	if c.Verifier.FixedPointBound < 1 {
		return fmt.Errorf("[verifier].fixed_point_bound must be at least 1, got %d", c.Verifier.FixedPointBound)
	}
	if c.Verifier.MaxDiagnostics < 0 {
		return fmt.Errorf("[verifier].max_diagnostics must not be negative")
	}
	if c.Verifier.Jobs < 0 {
		return fmt.Errorf("[verifier].jobs must not be negative")
	}
	if _, err := c.TraceConfig(); err != nil {
		return err
	}
	switch strings.ToLower(c.Output.Format) {
	case "pretty", "short", "json", "sarif":
	default:
		return fmt.Errorf("[output].format must be pretty, short, json or sarif, got %q", c.Output.Format)
	}
	switch strings.ToLower(c.Output.Color) {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("[output].color must be auto, on or off, got %q", c.Output.Color)
	}
	if c.Cache.Enabled && c.Cache.Dir != "" && !filepath.IsAbs(c.Cache.Dir) && c.Path != "" {
		c.Cache.Dir = filepath.Join(filepath.Dir(c.Path), c.Cache.Dir)
	}
	return nil
}

// TraceConfig converts the [trace] table into a tracer configuration.
func (c *Config) TraceConfig() (trace.Config, error) {
	level, err := trace.ParseLevel(c.Trace.Level)
	if err != nil {
		return trace.Config{}, fmt.Errorf("[trace].level: %w", err)
	}
	mode, err := trace.ParseMode(c.Trace.Mode)
	if err != nil {
		return trace.Config{}, fmt.Errorf("[trace].mode: %w", err)
	}
	format, err := trace.ParseFormat(c.Trace.Format)
	if err != nil {
		return trace.Config{}, fmt.Errorf("[trace].format: %w", err)
	}
	return trace.Config{Level: level, Mode: mode, Format: format, OutputPath: c.Trace.Output}, nil
}
