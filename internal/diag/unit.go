package diag

import (
	"ripple/internal/source"
)

// Unit is the diagnostic sink of one source unit. Included units (from
// include directives) are tracked as children; validity is conjunctive.
type Unit struct {
	Path string
	File source.FileID

	bag      *Bag
	invalid  bool
	includes []*Unit
}

func NewUnit(path string, file source.FileID, limit int) *Unit {
	return &Unit{Path: path, File: file, bag: NewBag(limit)}
}

// Collect records d. Any non-warning makes the unit invalid, even when the
// bag limit drops it.
func (u *Unit) Collect(d Diagnostic) {
	if d.Severity.IsError() {
		u.invalid = true
	}
	u.bag.Add(d)
}

func (u *Unit) Report(code Code, sev Severity, primary source.Span, args Args, notes []Note) {
	u.Collect(Diagnostic{Severity: sev, Code: code, Primary: primary, Args: args, Notes: notes})
}

// Include registers a nested unit sharing this unit's limit.
func (u *Unit) Include(path string, file source.FileID) *Unit {
	child := NewUnit(path, file, u.bag.Cap())
	u.includes = append(u.includes, child)
	return child
}

func (u *Unit) Includes() []*Unit { return u.includes }

// Valid reports whether neither u nor any included unit collected an error.
func (u *Unit) Valid() bool {
	if u.invalid {
		return false
	}
	for _, inc := range u.includes {
		if !inc.Valid() {
			return false
		}
	}
	return true
}

// Bag exposes the unit's own diagnostics.
func (u *Unit) Bag() *Bag { return u.bag }

// Diagnostics returns the unit's own diagnostics.
func (u *Unit) Diagnostics() []Diagnostic { return u.bag.Items() }

// All returns the diagnostics of u followed by those of its includes,
// depth first.
func (u *Unit) All() []Diagnostic {
	out := append([]Diagnostic(nil), u.bag.Items()...)
	for _, inc := range u.includes {
		out = append(out, inc.All()...)
	}
	return out
}

// AllValid is the conjunction of Valid over units.
func AllValid(units []*Unit) bool {
	for _, u := range units {
		if !u.Valid() {
			return false
		}
	}
	return true
}
