package ast

import (
	"testing"

	"ripple/internal/source"
)

func TestAccessorsCheckKind(t *testing.T) {
	b := NewBuilder(Hints{})
	lit := b.Exprs.NewLit(source.NoSpan, LitNumber, "1")
	ret := b.Stmts.NewReturn(source.NoSpan, lit)

	if _, ok := b.Stmts.Block(ret); ok {
		t.Fatalf("return statement read as block")
	}
	r, ok := b.Stmts.Value(ret)
	if !ok || r.Value != lit {
		t.Fatalf("return value not kept")
	}
	if _, ok := b.Exprs.Call(lit); ok {
		t.Fatalf("literal read as call")
	}
	if b.Exprs.Get(NoExprID) != nil {
		t.Fatalf("zero id must not resolve")
	}
}

func TestShorthandRecordField(t *testing.T) {
	b := NewBuilder(Hints{})
	id := b.Patterns.NewRecord(source.NoSpan, []RecordPatternField{{Key: "a"}}, NoTypeID)
	rec, ok := b.Patterns.Record(id)
	if !ok || len(rec.Fields) != 1 {
		t.Fatalf("record pattern not kept")
	}
	n, ok := b.Patterns.Name(rec.Fields[0].Value)
	if !ok || n.Name != "a" {
		t.Fatalf("shorthand field should bind a name pattern for its key")
	}
}

func TestDeclWrapsItemSpan(t *testing.T) {
	b := NewBuilder(Hints{})
	sp := source.Span{File: 1, Start: 4, End: 9}
	item := b.Items.NewTypeAlias(sp, "A", b.TypeName("Int"))
	file := b.NewFile(source.NoSpan, "a.rp")
	b.PushStmt(file, b.Decl(item))

	f := b.Files.Get(file)
	if len(f.Stmts) != 1 {
		t.Fatalf("expected one statement, got %d", len(f.Stmts))
	}
	st := b.Stmts.Get(f.Stmts[0])
	if st.Kind != StmtDecl || st.Span != sp {
		t.Fatalf("unexpected statement %+v", st)
	}
	d, ok := b.Stmts.Decl(f.Stmts[0])
	if !ok || d.Item != item {
		t.Fatalf("declaration lost its item")
	}
	alias, ok := b.Items.TypeAlias(item)
	if !ok {
		t.Fatalf("type alias accessor failed")
	}
	name, ok := b.Types.Name(alias.Type)
	if !ok || len(name.Path) != 1 || name.Path[0] != "Int" {
		t.Fatalf("unexpected alias target %+v", name)
	}
}

func TestModifiers(t *testing.T) {
	var m Modifiers
	m |= ModStatic | ModFinal
	if !m.Has(ModStatic) || !m.Has(ModFinal) || m.Has(ModOverride) {
		t.Fatalf("unexpected modifier set %v", m)
	}
	if VisPrivate.Model() == VisDefault.Model() {
		t.Fatalf("private and default visibility must differ")
	}
}
