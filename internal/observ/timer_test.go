package observ

import (
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("load a.yaml")
	tm.End(idx, "3 decls")
	tm.Time("verify a.yaml", func() string { return "" })
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("got %d phases, want 2", len(r.Phases))
	}
	if r.Phases[0].Note != "3 decls" {
		t.Fatalf("note = %q", r.Phases[0].Note)
	}
	s := tm.Summary()
	if !strings.Contains(s, "load a.yaml") || !strings.Contains(s, "total") {
		t.Fatalf("summary missing entries:\n%s", s)
	}
}

func TestEmptyTimer(t *testing.T) {
	if r := NewTimer().Report(); len(r.Phases) != 0 || r.TotalMS != 0 {
		t.Fatalf("empty report = %+v", r)
	}
}
