package driver

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"ripple/internal/config"
	"ripple/internal/diag"
	"ripple/internal/observ"
)

func writeDoc(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

const passing = `expect: []
body:
  - {var: x, type: Int, init: 1}
`

const failing = `body:
  - {var: s, type: String, init: 1}
`

func TestCheckReportsPerDocument(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeDoc(t, dir, "a.yaml", passing),
		writeDoc(t, dir, "b.yaml", failing),
	}
	timer := observ.NewTimer()
	res, err := Check(context.Background(), paths, Options{Config: config.Default(), Timer: timer})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if res.RunID == "" {
		t.Fatalf("expected a run id")
	}
	if len(res.Files) != 2 || res.Files[0].Path != paths[0] || res.Files[1].Path != paths[1] {
		t.Fatalf("results out of order: %+v", res.Files)
	}
	if !res.Files[0].Passed() {
		t.Fatalf("a.yaml should pass: %v", res.Files[0].Diagnostics)
	}
	b := res.Files[1]
	if b.Passed() || b.Valid {
		t.Fatalf("b.yaml should fail")
	}
	if len(b.Diagnostics) != 1 || b.Diagnostics[0].Code != diag.VerifyIncompatibleTypes {
		t.Fatalf("expected one incompatible types error, got %v", b.Diagnostics)
	}
	if b.Model == nil {
		t.Fatalf("expected the verified model")
	}
	if res.Failed() != 1 {
		t.Fatalf("expected one failure, got %d", res.Failed())
	}
	if len(timer.Report().Phases) != 4 {
		t.Fatalf("expected load and verify timings for both documents")
	}
}

func TestCheckUsesCache(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "b.yaml", failing)
	cache, err := OpenDiskCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Config: config.Default(), Cache: cache}
	first, err := Check(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Check(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatal(err)
	}
	a, b := first.Files[0], second.Files[0]
	if a.Cached || !b.Cached {
		t.Fatalf("expected a miss then a hit, got %v then %v", a.Cached, b.Cached)
	}
	if a.Digest != b.Digest {
		t.Fatalf("digest changed between runs")
	}
	if len(b.Diagnostics) != len(a.Diagnostics) || b.Diagnostics[0].Message() != a.Diagnostics[0].Message() {
		t.Fatalf("cached diagnostics differ: %v vs %v", b.Diagnostics, a.Diagnostics)
	}

	writeDoc(t, dir, "b.yaml", passing)
	third, err := Check(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.Files[0].Cached {
		t.Fatalf("edited document must not hit the cache")
	}
}

func TestWarningsAsErrors(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "w.yaml", "- {var: x}\n")
	cfg := config.Default()
	res, err := Check(context.Background(), []string{path}, Options{Config: cfg})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Files[0].Valid || len(res.Files[0].Diagnostics) != 1 {
		t.Fatalf("expected one warning on a valid document, got %v", res.Files[0].Diagnostics)
	}
	cfg.Verifier.WarningsAsErrors = true
	res, err = Check(context.Background(), []string{path}, Options{Config: cfg})
	if err != nil {
		t.Fatal(err)
	}
	if res.Files[0].Valid {
		t.Fatalf("warning should have been promoted")
	}
}

func TestAllowDuplicateBindings(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "dup.yaml", "- {var: x, type: Int, init: 1}\n- {var: x, type: Int, init: 2}\n")
	cache, err := OpenDiskCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	res, err := Check(context.Background(), []string{path}, Options{Config: cfg, Cache: cache})
	if err != nil {
		t.Fatal(err)
	}
	if res.Files[0].Valid {
		t.Fatalf("redeclaration should be rejected by default")
	}
	cfg.Verifier.AllowDuplicateBindings = true
	res, err = Check(context.Background(), []string{path}, Options{Config: cfg, Cache: cache})
	if err != nil {
		t.Fatal(err)
	}
	f := res.Files[0]
	if f.Cached {
		t.Fatalf("changed verifier settings must not hit the cache")
	}
	if !f.Valid || len(f.Diagnostics) != 0 {
		t.Fatalf("expected a clean run, got %v", f.Diagnostics)
	}
}

func TestMissingDocument(t *testing.T) {
	res, err := Check(context.Background(), []string{filepath.Join(t.TempDir(), "nope.yaml")}, Options{Config: config.Default()})
	if err != nil {
		t.Fatal(err)
	}
	if res.Files[0].Err == nil || res.Files[0].Passed() {
		t.Fatalf("expected a load error")
	}
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "b.yml", passing)
	writeDoc(t, dir, "a.yaml", passing)
	writeDoc(t, dir, "notes.txt", "")
	got, err := Collect([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || filepath.Base(got[0]) != "a.yaml" || filepath.Base(got[1]) != "b.yml" {
		t.Fatalf("unexpected documents %v", got)
	}
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func TestProgressEvents(t *testing.T) {
	dir := t.TempDir()
	good := writeDoc(t, dir, "a.yaml", passing)
	bad := writeDoc(t, dir, "b.yaml", failing)
	sink := &recordingSink{}
	if _, err := Check(context.Background(), []string{good, bad}, Options{Config: config.Default(), Progress: sink}); err != nil {
		t.Fatal(err)
	}
	final := make(map[string]Status)
	queued := 0
	for _, ev := range sink.events {
		switch ev.Status {
		case StatusQueued:
			queued++
		case StatusDone, StatusFailed, StatusCached, StatusError:
			final[ev.File] = ev.Status
		}
	}
	if queued != 2 {
		t.Fatalf("expected two queued events, got %d", queued)
	}
	if final[good] != StatusDone || final[bad] != StatusFailed {
		t.Fatalf("unexpected final statuses %v", final)
	}
}
