package version

import (
	"strings"
	"testing"
)

func TestPlainHasNoEscapes(t *testing.T) {
	p := Plain()
	if p != "0.1.0-dev" {
		t.Fatalf("Plain() = %q", p)
	}
	if strings.ContainsRune(p, '\x1b') {
		t.Fatalf("Plain() contains escapes: %q", p)
	}
}

func TestVersionCanBeOverridden(t *testing.T) {
	orig := Version
	origCommit := GitCommit
	defer func() {
		Version = orig
		GitCommit = origCommit
	}()

	Version = "1.2.3"
	GitCommit = "abc123def456"
	if Version != "1.2.3" || GitCommit != "abc123def456" {
		t.Fatalf("override failed: %q %q", Version, GitCommit)
	}
}

func TestVersionContainsParts(t *testing.T) {
	for _, part := range []string{major, minor, patch, pre} {
		if !strings.Contains(Version, part) {
			t.Fatalf("Version %q lacks %q", Version, part)
		}
	}
}
