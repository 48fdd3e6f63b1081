package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ripple/internal/driver"
)

func writeFile(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "ripple.toml", "[output]\nformat = \"short\"\ncolor = \"off\"\n")
	good := writeFile(t, dir, "good.yaml", "expect: []\nbody:\n  - {var: x, type: Int, init: 1}\n")
	bad := writeFile(t, dir, "bad.yaml", "body:\n  - {var: s, type: String, init: 1}\n")

	out, err := execute(t, "check", "--config", cfg, "--format", "short", "--jobs", "1", good)
	if err != nil {
		t.Fatalf("check good: %v\n%s", err, out)
	}
	if !strings.Contains(out, "1 passed, 0 failed of 1 documents") {
		t.Fatalf("summary missing:\n%s", out)
	}

	out, err = execute(t, "check", "--config", cfg, "--format", "short", "--jobs", "1", bad)
	if !errors.Is(err, errFailed) {
		t.Fatalf("check bad: err = %v\n%s", err, out)
	}
	if !strings.Contains(out, "VER3100") {
		t.Fatalf("diagnostic missing:\n%s", out)
	}
}

func TestDumpCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "ripple.toml", "")
	doc := writeFile(t, dir, "doc.yaml", "body:\n  - {var: total, type: Int, init: 1}\n")

	out, err := execute(t, "dump", "--config", cfg, doc)
	if err != nil {
		t.Fatalf("dump: %v\n%s", err, out)
	}
	if !strings.Contains(out, "total") || !strings.Contains(out, "var Int") {
		t.Fatalf("declaration missing:\n%s", out)
	}
	if strings.Contains(out, "String ") {
		t.Fatalf("built-in declarations leaked:\n%s", out)
	}
}

func TestSummaryLine(t *testing.T) {
	res := &driver.Result{Files: []driver.FileResult{
		{Path: "a.yaml", Valid: true},
		{Path: "b.yaml", Valid: false},
		{Path: "c.yaml", Valid: true, Cached: true},
	}}
	got := summaryLine(res, false)
	want := "2 passed, 1 failed of 3 documents (1 cached)"
	if got != want {
		t.Fatalf("summaryLine = %q, want %q", got, want)
	}
}

func TestVersionJSON(t *testing.T) {
	out, err := execute(t, "version", "--format", "json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, `"tool": "ripple"`) || !strings.Contains(out, `"version": "0.1.0-dev"`) {
		t.Fatalf("unexpected payload:\n%s", out)
	}
}
