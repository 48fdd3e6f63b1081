package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"ripple/internal/diag"
	"ripple/internal/source"
)

type palette struct {
	warning *color.Color
	err     *color.Color
	code    *color.Color
	gutter  *color.Color
	caret   *color.Color
	note    *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		warning: color.New(color.FgYellow, color.Bold),
		err:     color.New(color.FgRed, color.Bold),
		code:    color.New(color.Faint),
		gutter:  color.New(color.FgBlue),
		caret:   color.New(color.FgGreen, color.Bold),
		note:    color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.warning, p.err, p.code, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Pretty renders diagnostics in reading order, expected to be sorted:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//	   3 | source line
//	     |     ^~~~
//
// followed by notes in the same layout when ShowNotes is set.
func Pretty(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i, d := range diags {
		if i > 0 {
			fmt.Fprintln(w)
		}
		sev := p.err
		if d.Severity == diag.SevWarning {
			sev = p.warning
		}
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			location(fs, d.Primary, opts.PathMode, opts.BaseDir),
			sev.Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			d.Message())
		snippet(w, fs, d.Primary, opts, p, sev)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), location(fs, n.Span, opts.PathMode, opts.BaseDir), n.Msg)
			snippet(w, fs, n.Span, opts, p, p.note)
		}
	}
}

func location(fs *source.FileSet, sp source.Span, mode PathMode, base string) string {
	f := fs.Get(sp.File)
	if f == nil {
		return "<unknown>"
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(f.Path, mode, base), start.Line, start.Col)
}

// snippet prints the primary line with opts.Context lines around it and
// underlines the span on its first line.
func snippet(w io.Writer, fs *source.FileSet, sp source.Span, opts PrettyOpts, p palette, mark *color.Color) {
	f := fs.Get(sp.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(sp)
	if start.Line == 0 {
		return
	}
	ctx := uint32(max(opts.Context, 0))
	first := start.Line - min(ctx, start.Line-1)
	last := start.Line + ctx
	width := len(strconv.FormatUint(uint64(last), 10))
	blank := strings.Repeat(" ", width)

	for ln := first; ln <= last; ln++ {
		if ln > start.Line && int(ln) > len(f.LineIdx)+1 {
			break
		}
		text := strings.ReplaceAll(f.GetLine(ln), "\t", "    ")
		if opts.Width > 0 {
			text = runewidth.Truncate(text, int(opts.Width), "…")
		}
		fmt.Fprintf(w, "%s %s %s\n", p.gutter.Sprintf("%*d", width, ln), p.gutter.Sprint("|"), text)
		if ln != start.Line {
			continue
		}
		line := f.GetLine(ln)
		prefix := prefixOf(line, start.Col)
		n := 1
		if end.Line == start.Line && end.Col > start.Col {
			n = runewidth.StringWidth(prefixOf(line, end.Col)) - runewidth.StringWidth(prefix)
		}
		underline := "^" + strings.Repeat("~", max(n-1, 0))
		pad := strings.Repeat(" ", runewidth.StringWidth(strings.ReplaceAll(prefix, "\t", "    ")))
		fmt.Fprintf(w, "%s %s %s%s\n", blank, p.gutter.Sprint("|"), pad, mark.Sprint(underline))
	}
}

// prefixOf returns the bytes of line before the 1-based byte column col.
func prefixOf(line string, col uint32) string {
	if col <= 1 {
		return ""
	}
	i := int(col - 1)
	if i > len(line) {
		i = len(line)
	}
	return line[:i]
}
