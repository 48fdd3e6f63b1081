package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"ripple/internal/diag"
	"ripple/internal/source"
)

func fixtureSet(t *testing.T) (*source.FileSet, source.FileID) {
	t.Helper()
	fs := source.NewFileSet()
	content := []byte("decls:\n  - var: x\n    type: String\n    init: 1\n")
	return fs, fs.AddVirtual("/home/user/project/cases/assign.yaml", content)
}

func TestPrettyHeaderAndCaret(t *testing.T) {
	fs, id := fixtureSet(t)
	// "1" on line 4, column 11
	off := uint32(strings.LastIndex(string(fs.Get(id).Content), "1"))
	d := diag.NewError(diag.VerifyIncompatibleTypes, source.Span{File: id, Start: off, End: off + 1},
		diag.Args{"expected": "String", "got": "Number"})

	var buf bytes.Buffer
	Pretty(&buf, []diag.Diagnostic{d}, fs, PrettyOpts{PathMode: PathModeBasename})
	out := buf.String()

	want := "assign.yaml:4:11: VERIFY ERROR VER3100: expected 'String', got 'Number'\n"
	if !strings.HasPrefix(out, want) {
		t.Fatalf("header mismatch:\n got: %q\nwant: %q", out, want)
	}
	if !strings.Contains(out, "4 |     init: 1\n") {
		t.Fatalf("missing source line: %q", out)
	}
	if !strings.Contains(out, "  | "+strings.Repeat(" ", 10)+"^\n") {
		t.Fatalf("caret misplaced: %q", out)
	}
}

func TestPrettyContextAndNotes(t *testing.T) {
	fs, id := fixtureSet(t)
	d := diag.NewError(diag.VerifyUnresolvedReference, source.Span{File: id, Start: 16, End: 17}, diag.Args{"name": "x"}).
		WithNote(source.Span{File: id, Start: 0, End: 5}, "declared here")

	var buf bytes.Buffer
	Pretty(&buf, []diag.Diagnostic{d}, fs, PrettyOpts{PathMode: PathModeBasename, Context: 1, ShowNotes: true})
	out := buf.String()

	for _, want := range []string{"1 | decls:", "2 |   - var: x", "3 |     type: String", "note: assign.yaml:1:1: declared here", "^~~~~"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output lacks %q:\n%s", want, out)
		}
	}

	buf.Reset()
	Pretty(&buf, []diag.Diagnostic{d}, fs, PrettyOpts{PathMode: PathModeBasename})
	if strings.Contains(buf.String(), "note:") {
		t.Fatalf("notes printed without ShowNotes:\n%s", buf.String())
	}
}

func TestPrettyWarningLabel(t *testing.T) {
	fs, id := fixtureSet(t)
	d := diag.New(diag.SevWarning, diag.WarnMissingTypeAnnotation, source.Span{File: id, Start: 16, End: 17}, diag.Args{"name": "x"})
	var buf bytes.Buffer
	Pretty(&buf, []diag.Diagnostic{d}, fs, PrettyOpts{PathMode: PathModeBasename})
	if !strings.Contains(buf.String(), "assign.yaml:2:10: WARNING WRN3900: 'x' has no type annotation") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestPathModes(t *testing.T) {
	const path = "/home/user/project/cases/assign.yaml"
	const long = "/home/user/a/very/deeply/nested/project/tree/cases/assign.yaml"
	tests := []struct {
		name string
		in   string
		mode PathMode
		base string
		want string
	}{
		{"absolute", path, PathModeAbsolute, "", path},
		{"relative", path, PathModeRelative, "/home/user/project", "cases/assign.yaml"},
		{"relative outside base", path, PathModeRelative, "/srv", path},
		{"basename", path, PathModeBasename, "", "assign.yaml"},
		{"auto short", path, PathModeAuto, "", path},
		{"auto relative", "cases/assign.yaml", PathModeAuto, "", "cases/assign.yaml"},
		{"auto long", long, PathModeAuto, "", "assign.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatPath(tt.in, tt.mode, tt.base); got != tt.want {
				t.Fatalf("formatPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
