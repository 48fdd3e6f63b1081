package diag

import (
	"ripple/internal/source"
)

type dedupKey struct {
	code  Code
	sev   Severity
	file  source.FileID
	start uint32
	end   uint32
	msg   string
}

func keyOf(d Diagnostic) dedupKey {
	return dedupKey{
		code:  d.Code,
		sev:   d.Severity,
		file:  d.Primary.File,
		start: d.Primary.Start,
		end:   d.Primary.End,
		msg:   d.Message(),
	}
}

// DedupReporter suppresses diagnostics repeating code, severity, span and
// rendered message of one already forwarded.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]struct{}
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[dedupKey]struct{}),
	}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, args Args, notes []Note) {
	if r == nil {
		return
	}
	key := keyOf(Diagnostic{Severity: sev, Code: code, Primary: primary, Args: args})
	if _, ok := r.seen[key]; ok {
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(code, sev, primary, args, notes)
	}
}
