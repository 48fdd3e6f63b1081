package ast

import (
	"ripple/internal/model"
	"ripple/internal/source"
)

type PatternKind uint8

const (
	PatName PatternKind = iota + 1
	PatArray
	PatRecord
	// PatTarget binds to an existing assignable expression; it appears
	// only in destructuring assignments.
	PatTarget
)

// Pattern is a binding target. Type is the optional annotation; NonNull
// is the trailing "!" that strips null and undefined from the matched
// type.
type Pattern struct {
	Kind    PatternKind
	Span    source.Span
	Type    TypeID
	NonNull bool
	Payload PayloadID
	Sem     PatternSem
}

// PatternSem records the type the pattern was bound against and, for
// name patterns, the symbol it declared or assigned.
type PatternSem struct {
	Resolved bool
	Type     model.TypeID
	Symbol   model.Symbol
}

type NamePattern struct {
	Name string
}

// ArrayPatternItem is one position; a hole has Pattern NoPatternID.
type ArrayPatternItem struct {
	Pattern PatternID
	Spread  bool
}

type ArrayPattern struct {
	Items []ArrayPatternItem
}

// RecordPatternField binds the property Key (or the computed KeyExpr) to
// Value. A shorthand field `{a}` is passed with Value NoPatternID and
// NewRecord gives it a name pattern for Key.
type RecordPatternField struct {
	Key     string
	KeySpan source.Span
	KeyExpr ExprID
	Value   PatternID
}

type RecordPattern struct {
	Fields []RecordPatternField
}

type TargetPattern struct {
	Expr ExprID
}

type Patterns struct {
	Arena   *Arena[Pattern]
	Names   *Arena[NamePattern]
	Arrays  *Arena[ArrayPattern]
	Records *Arena[RecordPattern]
	Targets *Arena[TargetPattern]
}

func NewPatterns(capHint uint) *Patterns {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Patterns{
		Arena:   NewArena[Pattern](capHint),
		Names:   NewArena[NamePattern](capHint),
		Arrays:  NewArena[ArrayPattern](capHint),
		Records: NewArena[RecordPattern](capHint),
		Targets: NewArena[TargetPattern](capHint),
	}
}

func (p *Patterns) new(kind PatternKind, span source.Span, typ TypeID, payloadID uint32) PatternID {
	return PatternID(p.Arena.Allocate(Pattern{Kind: kind, Span: span, Type: typ, Payload: PayloadID(payloadID)}))
}

func (p *Patterns) Get(id PatternID) *Pattern {
	return p.Arena.Get(uint32(id))
}

func (p *Patterns) kindOf(id PatternID) (PatternKind, PayloadID) {
	x := p.Get(id)
	if x == nil {
		return 0, NoPayloadID
	}
	return x.Kind, x.Payload
}

func (p *Patterns) NewName(span source.Span, name string, typ TypeID) PatternID {
	return p.new(PatName, span, typ, p.Names.Allocate(NamePattern{Name: name}))
}

func (p *Patterns) Name(id PatternID) (*NamePattern, bool) {
	k, pl := p.kindOf(id)
	return payload(k, PatName, pl, p.Names)
}

func (p *Patterns) NewArray(span source.Span, items []ArrayPatternItem, typ TypeID) PatternID {
	return p.new(PatArray, span, typ, p.Arrays.Allocate(ArrayPattern{Items: append([]ArrayPatternItem(nil), items...)}))
}

func (p *Patterns) Array(id PatternID) (*ArrayPattern, bool) {
	k, pl := p.kindOf(id)
	return payload(k, PatArray, pl, p.Arrays)
}

func (p *Patterns) NewRecord(span source.Span, fields []RecordPatternField, typ TypeID) PatternID {
	fields = append([]RecordPatternField(nil), fields...)
	for i := range fields {
		f := &fields[i]
		if !f.Value.IsValid() && f.Key != "" && !f.KeyExpr.IsValid() {
			f.Value = p.NewName(f.KeySpan, f.Key, NoTypeID)
		}
	}
	return p.new(PatRecord, span, typ, p.Records.Allocate(RecordPattern{Fields: fields}))
}

func (p *Patterns) Record(id PatternID) (*RecordPattern, bool) {
	k, pl := p.kindOf(id)
	return payload(k, PatRecord, pl, p.Records)
}

func (p *Patterns) NewTarget(span source.Span, expr ExprID) PatternID {
	return p.new(PatTarget, span, NoTypeID, p.Targets.Allocate(TargetPattern{Expr: expr}))
}

func (p *Patterns) Target(id PatternID) (*TargetPattern, bool) {
	k, pl := p.kindOf(id)
	return payload(k, PatTarget, pl, p.Targets)
}

// BoundNames returns the names a pattern binds, depth first.
func (p *Patterns) BoundNames(id PatternID) []string {
	var out []string
	var walk func(PatternID)
	walk = func(id PatternID) {
		pat := p.Get(id)
		if pat == nil {
			return
		}
		switch pat.Kind {
		case PatName:
			n, _ := p.Name(id)
			out = append(out, n.Name)
		case PatArray:
			a, _ := p.Array(id)
			for _, it := range a.Items {
				walk(it.Pattern)
			}
		case PatRecord:
			r, _ := p.Record(id)
			for _, f := range r.Fields {
				if f.Value.IsValid() {
					walk(f.Value)
				} else {
					out = append(out, f.Key)
				}
			}
		}
	}
	walk(id)
	return out
}
