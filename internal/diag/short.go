package diag

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"ripple/internal/source"
)

type shortLine struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatShort renders one line per diagnostic, sorted by position:
//
//	error VER3300 a.yaml:3:5 missing method 'm' required by 'I'
//
// It is the format used by golden fixtures and the CLI short output.
func FormatShort(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}
	lines := make([]shortLine, 0, len(diags))
	for i := range diags {
		d := &diags[i]
		lines = append(lines, shortLine{
			Severity: severityLabel(d.Severity),
			Code:     d.Code.ID(),
			Message:  sanitizeMessage(d.Message()),
		})
		locate(&lines[len(lines)-1], fs, d.Primary)
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			lines = append(lines, shortLine{Severity: "note", Code: d.Code.ID(), Message: sanitizeMessage(n.Msg)})
			locate(&lines[len(lines)-1], fs, n.Span)
		}
	}

	sort.SliceStable(lines, func(i, j int) bool {
		li, lj := lines[i], lines[j]
		if li.Path != lj.Path {
			return li.Path < lj.Path
		}
		if li.Line != lj.Line {
			return li.Line < lj.Line
		}
		if li.Column != lj.Column {
			return li.Column < lj.Column
		}
		return li.Code < lj.Code
	})

	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", l.Severity, l.Code, l.Path, l.Line, l.Column, l.Message)
	}
	return b.String()
}

func locate(l *shortLine, fs *source.FileSet, sp source.Span) {
	f := fs.Get(sp.File)
	if f == nil {
		l.Path = "<unknown>"
		return
	}
	start, _ := fs.Resolve(sp)
	l.Path = filepath.ToSlash(f.Path)
	l.Line, l.Column = start.Line, start.Col
}

func severityLabel(sev Severity) string {
	switch sev {
	case SevVerifyError, SevSyntaxError:
		return "error"
	default:
		return "warning"
	}
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", " ")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
