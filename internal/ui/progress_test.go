package ui

import (
	"strings"
	"testing"

	"ripple/internal/driver"
)

func TestApplyEventTracksStatus(t *testing.T) {
	files := []string{"a.yaml", "b.yaml"}
	m := NewProgressModel("check", files, nil).(*progressModel)

	m.applyEvent(driver.Event{File: "a.yaml", Stage: driver.StageVerify, Status: driver.StatusWorking})
	m.applyEvent(driver.Event{File: "b.yaml", Status: driver.StatusFailed})
	m.applyEvent(driver.Event{File: "unknown.yaml", Status: driver.StatusDone})

	if m.items[0].status != "verifying" || m.items[1].status != "failed" {
		t.Fatalf("unexpected statuses %+v", m.items)
	}
	if got := m.fraction(); got != 0.75 {
		t.Fatalf("fraction = %v, want 0.75", got)
	}
	view := m.View()
	if !strings.Contains(view, "a.yaml") || !strings.Contains(view, "failed") {
		t.Fatalf("view lacks documents:\n%s", view)
	}
}

func TestDoneQuits(t *testing.T) {
	m := NewProgressModel("check", []string{"a.yaml"}, nil)
	next, cmd := m.Update(doneMsg{})
	if cmd == nil {
		t.Fatalf("expected a quit command")
	}
	if !next.(*progressModel).done {
		t.Fatalf("model not marked done")
	}
}

func TestTruncateKeepsTail(t *testing.T) {
	got := truncate("cases/deeply/nested/assign.yaml", 16)
	if !strings.HasPrefix(got, "...") || !strings.HasSuffix(got, "assign.yaml") {
		t.Fatalf("truncate = %q", got)
	}
	if truncate("short.yaml", 20) != "short.yaml" {
		t.Fatalf("short value changed")
	}
}
