package diag

import (
	"ripple/internal/source"
)

// Args carries the named arguments of a diagnostic. Values are plain strings
// or numbers so diagnostics stay serialisable.
type Args map[string]any

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Primary  source.Span
	Args     Args
	Notes    []Note
}

func New(sev Severity, code Code, primary source.Span, args Args) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Args:     args,
	}
}

func NewError(code Code, primary source.Span, args Args) Diagnostic {
	return New(SevVerifyError, code, primary, args)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// Arg returns the named argument as a string ("" when absent).
func (d Diagnostic) Arg(name string) string {
	v, ok := d.Args[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return formatArg(v)
}
