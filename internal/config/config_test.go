package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ripple/internal/trace"
)

func writeConfig(t *testing.T, dir, text string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[verifier]
fixed_point_bound = 4
warnings_as_errors = true
allow_duplicate_bindings = true

[trace]
level = "phase"

[cache]
enabled = true
dir = ".ripple-cache"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Verifier.FixedPointBound != 4 || !cfg.Verifier.WarningsAsErrors || !cfg.Verifier.AllowDuplicateBindings {
		t.Fatalf("verifier table not applied: %+v", cfg.Verifier)
	}
	if cfg.Output.Format != "pretty" {
		t.Fatalf("expected default output format, got %q", cfg.Output.Format)
	}
	if want := filepath.Join(dir, ".ripple-cache"); cfg.Cache.Dir != want {
		t.Fatalf("expected cache dir %q, got %q", want, cfg.Cache.Dir)
	}
	tc, err := cfg.TraceConfig()
	if err != nil || tc.Level != trace.LevelPhase {
		t.Fatalf("expected phase tracing, got %+v (%v)", tc, err)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"bound", "[verifier]\nfixed_point_bound = 0\n", "fixed_point_bound"},
		{"format", "[output]\nformat = \"xml\"\n", "[output].format"},
		{"color", "[output]\ncolor = \"sometimes\"\n", "[output].color"},
		{"trace level", "[trace]\nlevel = \"loud\"\n", "[trace].level"},
		{"syntax", "[verifier\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.text)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[verifier]\nmax_diagnostics = 10\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg, err := Discover(nested)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if cfg.Verifier.MaxDiagnostics != 10 {
		t.Fatalf("expected the parent config, got %+v", cfg.Verifier)
	}
}
