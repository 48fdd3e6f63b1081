package verifier

import (
	"testing"

	"ripple/internal/ast"
	"ripple/internal/diag"
	"ripple/internal/model"
	"ripple/internal/source"
)

// prog assembles one program for a test.
type prog struct {
	b    *ast.Builder
	file ast.FileID
}

func newProg() *prog {
	b := ast.NewBuilder(ast.Hints{})
	return &prog{b: b, file: b.NewFile(source.NoSpan, "main.rp")}
}

func (p *prog) stmt(id ast.StmtID) { p.b.PushStmt(p.file, id) }

func (p *prog) decl(id ast.ItemID) ast.ItemID {
	p.stmt(p.b.Decl(id))
	return id
}

func (p *prog) num(text string) ast.ExprID {
	return p.b.Exprs.NewLit(source.NoSpan, ast.LitNumber, text)
}

func (p *prog) ident(name string) ast.ExprID {
	return p.b.Exprs.NewIdent(source.NoSpan, name)
}

func (p *prog) name(name string, typ ast.TypeID) ast.PatternID {
	return p.b.Patterns.NewName(source.NoSpan, name, typ)
}

func (p *prog) variable(readOnly bool, name string, typ ast.TypeID, init ast.ExprID) ast.ItemID {
	return p.decl(p.b.Items.NewVar(source.NoSpan, readOnly, p.name(name, typ), init))
}

func (p *prog) method(name string, result ast.TypeID, body bool) ast.ItemID {
	fn := ast.FnItem{Kind: ast.FnPlain, Result: result}
	if body {
		fn.Body = p.b.Stmts.NewBlock(source.NoSpan, nil)
	}
	return p.b.Items.NewFn(source.NoSpan, name, fn)
}

func (p *prog) verify() (*Verifier, *diag.Unit) {
	unit := diag.NewUnit("main.rp", source.FileID(1), 0)
	v := New(p.b, Options{})
	v.Verify([]Program{{File: p.file, Unit: unit}})
	return v, unit
}

func errorCodes(u *diag.Unit) []diag.Code {
	var out []diag.Code
	for _, d := range u.All() {
		if d.Severity.IsError() {
			out = append(out, d.Code)
		}
	}
	return out
}

func expectCodes(t *testing.T, u *diag.Unit, want ...diag.Code) {
	t.Helper()
	got := errorCodes(u)
	if len(got) != len(want) {
		t.Fatalf("expected errors %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected errors %v, got %v", want, got)
		}
	}
}

func TestTypeAliasForwardReference(t *testing.T) {
	p := newProg()
	p.decl(p.b.Items.NewTypeAlias(source.NoSpan, "A", p.b.TypeName("B")))
	p.decl(p.b.Items.NewTypeAlias(source.NoSpan, "B", p.b.TypeName("Int")))
	v, u := p.verify()
	if n := len(u.All()); n != 0 {
		t.Fatalf("expected no diagnostics, got %d: %v", n, u.All())
	}
	if !v.AllProgramsAreValid() {
		t.Fatalf("program should be valid")
	}
}

func TestSelfReferentialAliasReportedOnce(t *testing.T) {
	p := newProg()
	p.decl(p.b.Items.NewTypeAlias(source.NoSpan, "A", p.b.TypeName("A")))
	v, u := p.verify()
	all := u.All()
	if len(all) != 1 || all[0].Code != diag.VerifyUnresolvedAlias {
		t.Fatalf("expected one unresolved alias, got %v", all)
	}
	if v.AllProgramsAreValid() {
		t.Fatalf("program should be invalid")
	}
}

func TestFixedPointBoundLimitsAliasChain(t *testing.T) {
	build := func() *prog {
		p := newProg()
		p.decl(p.b.Items.NewTypeAlias(source.NoSpan, "A", p.b.TypeName("B")))
		p.decl(p.b.Items.NewTypeAlias(source.NoSpan, "B", p.b.TypeName("C")))
		p.decl(p.b.Items.NewTypeAlias(source.NoSpan, "C", p.b.TypeName("Int")))
		return p
	}

	p := build()
	unit := diag.NewUnit("main.rp", source.FileID(1), 0)
	v := New(p.b, Options{FixedPointBound: 1})
	v.Verify([]Program{{File: p.file, Unit: unit}})
	all := unit.All()
	if len(all) != 1 || all[0].Code != diag.VerifyUnresolvedAlias || all[0].Arg("name") != "A" {
		t.Fatalf("expected one unresolved alias A with bound 1, got %v", all)
	}

	p = build()
	_, u := p.verify()
	if n := len(u.All()); n != 0 {
		t.Fatalf("expected the default bound to resolve the chain, got %v", u.All())
	}
}

func TestTupleDestructuringArity(t *testing.T) {
	p := newProg()
	pair := p.b.Types.NewList(source.NoSpan, ast.TypeExprTuple, []ast.TypeID{p.b.TypeName("Int"), p.b.TypeName("Int")})
	p.variable(false, "t", pair, ast.NoExprID)
	pat := p.b.Patterns.NewArray(source.NoSpan, []ast.ArrayPatternItem{
		{Pattern: p.name("a", ast.NoTypeID)},
		{Pattern: p.name("b", ast.NoTypeID)},
		{Pattern: p.name("c", ast.NoTypeID)},
		{Pattern: p.name("d", ast.NoTypeID)},
	}, ast.NoTypeID)
	p.decl(p.b.Items.NewVar(source.NoSpan, false, pat, p.ident("t")))
	_, u := p.verify()
	expectCodes(t, u, diag.VerifyTooManyTupleElements)
}

func TestMissingInterfaceMethod(t *testing.T) {
	p := newProg()
	m := p.method("m", p.b.TypeName("void"), false)
	p.decl(p.b.Items.NewInterface(source.NoSpan, "I", ast.InterfaceItem{Members: []ast.ItemID{m}}))
	p.decl(p.b.Items.NewClass(source.NoSpan, "C", ast.ClassItem{Implements: []ast.TypeID{p.b.TypeName("I")}}))
	v, u := p.verify()
	expectCodes(t, u, diag.VerifyMissingMethod)
	if got := u.All()[0].Args["name"]; got != "m" {
		t.Fatalf("expected name m, got %v", got)
	}
	if v.AllProgramsAreValid() {
		t.Fatalf("program should be invalid")
	}
}

func TestImplementedInterface(t *testing.T) {
	p := newProg()
	req := p.method("m", p.b.TypeName("void"), false)
	p.decl(p.b.Items.NewInterface(source.NoSpan, "I", ast.InterfaceItem{Members: []ast.ItemID{req}}))
	impl := p.method("m", p.b.TypeName("void"), true)
	p.decl(p.b.Items.NewClass(source.NoSpan, "C", ast.ClassItem{
		Implements: []ast.TypeID{p.b.TypeName("I")},
		Members:    []ast.ItemID{impl},
	}))
	_, u := p.verify()
	expectCodes(t, u)
}

func TestOverrideChecks(t *testing.T) {
	tests := []struct {
		name     string
		member   string
		override bool
		want     []diag.Code
	}{
		{"override existing", "m", true, nil},
		{"override missing", "n", true, []diag.Code{diag.VerifyMustOverrideAMethod}},
		{"implicit shadowing", "m", false, []diag.Code{diag.VerifyShadowingInheritedMember}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProg()
			p.decl(p.b.Items.NewClass(source.NoSpan, "A", ast.ClassItem{
				Members: []ast.ItemID{p.method("m", p.b.TypeName("void"), true)},
			}))
			sub := p.method(tt.member, p.b.TypeName("void"), true)
			if tt.override {
				p.b.Items.Get(sub).Modifiers |= ast.ModOverride
			}
			p.decl(p.b.Items.NewClass(source.NoSpan, "B", ast.ClassItem{
				Extends: p.b.TypeName("A"),
				Members: []ast.ItemID{sub},
			}))
			_, u := p.verify()
			expectCodes(t, u, tt.want...)
		})
	}
}

func TestConstantFolding(t *testing.T) {
	p := newProg()
	sum := p.b.Exprs.NewBinary(source.NoSpan, ast.BinaryAdd, p.num("2"), p.num("3"))
	item := p.variable(true, "x", p.b.TypeName("Int"), sum)
	v, u := p.verify()
	expectCodes(t, u)

	data, _ := p.b.Items.Var(item)
	slot, ok := p.b.Patterns.Get(data.Pattern).Sem.Symbol.(*model.VariableSlot)
	if !ok {
		t.Fatalf("pattern not bound to a slot")
	}
	c := slot.Init
	if c == nil || c.Int == nil || c.Int.Int64() != 5 {
		t.Fatalf("expected folded constant 5, got %v", slot.Init)
	}
	if c.Type != v.Model().Builtins.Int {
		t.Fatalf("expected Int constant, got %s", v.Model().TypeLabel(c.Type))
	}
}

func TestStatementErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func(p *prog)
		want  []diag.Code
	}{
		{
			name: "assign read-only",
			build: func(p *prog) {
				p.variable(true, "x", p.b.TypeName("Int"), p.num("1"))
				assign := p.b.Exprs.NewAssign(source.NoSpan, ast.AssignExpr{Target: p.ident("x"), Value: p.num("2")})
				p.stmt(p.b.Stmts.NewExpr(source.NoSpan, assign))
			},
			want: []diag.Code{diag.VerifyCannotAssignReadOnly},
		},
		{
			name: "assign writable",
			build: func(p *prog) {
				p.variable(false, "x", p.b.TypeName("Int"), p.num("1"))
				assign := p.b.Exprs.NewAssign(source.NoSpan, ast.AssignExpr{Target: p.ident("x"), Value: p.num("2")})
				p.stmt(p.b.Stmts.NewExpr(source.NoSpan, assign))
			},
		},
		{
			name: "break outside loop",
			build: func(p *prog) {
				p.stmt(p.b.Stmts.NewJump(source.NoSpan, false, ""))
			},
			want: []diag.Code{diag.VerifyIllegalBreak},
		},
		{
			name: "break inside loop",
			build: func(p *prog) {
				cond := p.b.Exprs.NewLit(source.NoSpan, ast.LitTrue, "true")
				body := p.b.Stmts.NewBlock(source.NoSpan, []ast.StmtID{p.b.Stmts.NewJump(source.NoSpan, false, "")})
				p.stmt(p.b.Stmts.NewWhile(source.NoSpan, cond, body, false))
			},
		},
		{
			name: "return value at top level",
			build: func(p *prog) {
				p.stmt(p.b.Stmts.NewReturn(source.NoSpan, p.num("1")))
			},
			want: []diag.Code{diag.VerifyUnexpectedReturnValue},
		},
		{
			name: "incompatible initialiser",
			build: func(p *prog) {
				p.variable(false, "s", p.b.TypeName("String"), p.num("1"))
			},
			want: []diag.Code{diag.VerifyIncompatibleTypes},
		},
		{
			name: "unresolved name",
			build: func(p *prog) {
				p.stmt(p.b.Stmts.NewExpr(source.NoSpan, p.ident("missing")))
			},
			want: []diag.Code{diag.VerifyUnresolvedReference},
		},
		{
			name: "duplicate variable",
			build: func(p *prog) {
				p.variable(false, "x", p.b.TypeName("Int"), p.num("1"))
				p.variable(false, "x", p.b.TypeName("Int"), p.num("2"))
			},
			want: []diag.Code{diag.VerifyDuplicateDefinition},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProg()
			tt.build(p)
			_, u := p.verify()
			expectCodes(t, u, tt.want...)
		})
	}
}
