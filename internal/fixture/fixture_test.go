package fixture

import (
	"path/filepath"
	"testing"

	"ripple/internal/ast"
	"ripple/internal/diag"
	"ripple/internal/source"
	"ripple/internal/verifier"
)

func newLoader() *Loader {
	return NewLoader(source.NewFileSet(), ast.NewBuilder(ast.Hints{}), 0)
}

func loadString(t *testing.T, l *Loader, text string) *Program {
	t.Helper()
	p, err := l.LoadBytes("test.yaml", []byte(text))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return p
}

func codes(u *diag.Unit) []diag.Code {
	var out []diag.Code
	for _, d := range u.All() {
		out = append(out, d.Code)
	}
	return out
}

func TestDecodeVariable(t *testing.T) {
	l := newLoader()
	p := loadString(t, l, `- {var: "x: Int", init: {"+": [1, 2]}}`)
	if n := len(p.Unit.All()); n != 0 {
		t.Fatalf("expected no diagnostics, got %v", p.Unit.All())
	}
	b := l.Builder()
	stmts := b.Files.Get(p.File).Stmts
	if len(stmts) != 1 {
		t.Fatalf("expected one statement, got %d", len(stmts))
	}
	decl, ok := b.Stmts.Decl(stmts[0])
	if !ok {
		t.Fatalf("expected a declaration")
	}
	v, ok := b.Items.Var(decl.Item)
	if !ok || v.ReadOnly {
		t.Fatalf("expected a mutable variable")
	}
	name, ok := b.Patterns.Name(v.Pattern)
	if !ok || name.Name != "x" {
		t.Fatalf("expected name pattern x")
	}
	if !b.Patterns.Get(v.Pattern).Type.IsValid() {
		t.Fatalf("expected a type annotation")
	}
	bin, ok := b.Exprs.Binary(v.Init)
	if !ok || bin.Op != ast.BinaryAdd {
		t.Fatalf("expected an addition initialiser")
	}
}

func TestDecodeExpressions(t *testing.T) {
	tests := []struct {
		text string
		kind ast.ExprKind
	}{
		{`1`, ast.ExprLit},
		{`"text"`, ast.ExprLit},
		{`x`, ast.ExprIdent},
		{`a.b.c`, ast.ExprMember},
		{`this`, ast.ExprThis},
		{`[1, 2]`, ast.ExprArray},
		{`{call: f, args: [1]}`, ast.ExprCall},
		{`{new: C, args: []}`, ast.ExprNew},
		{`{"!": x}`, ast.ExprUnary},
		{`{"-": [x]}`, ast.ExprUnary},
		{`{"-": [x, 1]}`, ast.ExprBinary},
		{`{"+=": [x, 1]}`, ast.ExprAssign},
		{`{"=": [[a, b], t]}`, ast.ExprAssign},
		{`{as: x, type: Int}`, ast.ExprAs},
		{`{object: {a: 1, b: null, "...c": c}}`, ast.ExprObject},
		{`{fn: null, params: ["a: Int"], expr_body: a}`, ast.ExprFunction},
		{`{await: x}`, ast.ExprAwait},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			l := newLoader()
			p := loadString(t, l, "- {expr: "+tt.text+"}")
			if all := p.Unit.All(); len(all) != 0 {
				t.Fatalf("unexpected diagnostics: %v", all)
			}
			b := l.Builder()
			st, ok := b.Stmts.Expr(b.Files.Get(p.File).Stmts[0])
			if !ok {
				t.Fatalf("expected an expression statement")
			}
			if got := b.Exprs.Get(st.Expr).Kind; got != tt.kind {
				t.Fatalf("expected %s, got %s", tt.kind, got)
			}
		})
	}
}

func TestDestructuringAssignment(t *testing.T) {
	l := newLoader()
	p := loadString(t, l, `- {"=": [[a, {spread: rest}], t]}`)
	b := l.Builder()
	st, _ := b.Stmts.Expr(b.Files.Get(p.File).Stmts[0])
	as, ok := b.Exprs.Assign(st.Expr)
	if !ok || as.Target.IsValid() {
		t.Fatalf("expected a destructuring assignment")
	}
	arr, ok := b.Patterns.Array(as.Pattern)
	if !ok || len(arr.Items) != 2 || !arr.Items[1].Spread {
		t.Fatalf("expected [a, ...rest], got %+v", arr)
	}
}

func TestShapeErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want diag.Code
	}{
		{"unknown key", `- {var: x, colour: red}`, diag.SynIllegalFixtureShape},
		{"bad type", `- {var: x, type: "Int<"}`, diag.SynIllegalFixtureShape},
		{"bad modifier", `- {class: C, modifiers: [loud]}`, diag.SynIllegalFixtureShape},
		{"duplicate modifier", `- {class: C, modifiers: [final, final]}`, diag.SynDuplicateModifier},
		{"unknown code", `{expect: [NOPE1], body: []}`, diag.SynIllegalFixtureShape},
		{"unquoted string", `- {var: x, init: hello world}`, diag.SynIllegalFixtureShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := loadString(t, newLoader(), tt.text)
			got := codes(p.Unit)
			if len(got) != 1 || got[0] != tt.want {
				t.Fatalf("expected [%v], got %v", tt.want, got)
			}
			if p.Unit.Valid() {
				t.Fatalf("unit should be invalid")
			}
		})
	}
}

func TestIncludeCycle(t *testing.T) {
	l := newLoader()
	l.fs.AddVirtual("b.yaml", []byte("- {include: a.yaml}\n"))
	p, err := l.LoadBytes("a.yaml", []byte("- {include: b.yaml}\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got := codes(p.Unit)
	if len(got) != 1 || got[0] != diag.SynIllegalFixtureShape {
		t.Fatalf("expected one shape error for the cycle, got %v", got)
	}
}

func TestYAMLSyntaxError(t *testing.T) {
	if _, err := newLoader().LoadBytes("bad.yaml", []byte("- [unclosed\n")); err == nil {
		t.Fatalf("expected a YAML error")
	}
}

func TestExpectations(t *testing.T) {
	files, err := filepath.Glob("testdata/*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	files = append(files, "testdata/include/main.yaml")
	for _, path := range files {
		t.Run(filepath.Base(path), func(t *testing.T) {
			l := newLoader()
			p, err := l.Load(path)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if !p.HasExpect {
				t.Fatalf("%s declares no expectations", path)
			}
			v := verifier.New(l.Builder(), verifier.Options{})
			v.Verify([]verifier.Program{{File: p.File, Unit: p.Unit}})
			missing, unexpected := p.Mismatch(p.Unit.All())
			if len(missing) != 0 || len(unexpected) != 0 {
				t.Fatalf("missing %v, unexpected %v", missing, unexpected)
			}
		})
	}
}
