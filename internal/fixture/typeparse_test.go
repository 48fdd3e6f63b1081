package fixture

import (
	"testing"

	"ripple/internal/ast"
	"ripple/internal/source"
)

func TestParseTypeShapes(t *testing.T) {
	tests := []struct {
		text string
		kind ast.TypeExprKind
	}{
		{"Int", ast.TypeExprName},
		{"a.b.Map<String, Int>", ast.TypeExprName},
		{"Int?", ast.TypeExprNullable},
		{"Int!", ast.TypeExprNonNullable},
		{"String[]", ast.TypeExprArray},
		{"Int | String", ast.TypeExprUnion},
		{"[Int, String]", ast.TypeExprTuple},
		{"{a: Int, b?: String}", ast.TypeExprRecord},
		{"(Int, String=, ...Int[]) => void", ast.TypeExprFunction},
		{"() => Int", ast.TypeExprFunction},
		{"(Int)", ast.TypeExprName},
		{"(Int | String)[]", ast.TypeExprArray},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			types := ast.NewTypes(0)
			id, err := parseType(types, tt.text, source.Span{File: 1})
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got := types.Get(id).Kind; got != tt.kind {
				t.Fatalf("expected kind %v, got %v", tt.kind, got)
			}
		})
	}
}

func TestParseTypeFunctionParams(t *testing.T) {
	types := ast.NewTypes(0)
	id, err := parseType(types, "(Int, String=, ...Int[]) => void", source.Span{File: 1})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	fn, ok := types.Function(id)
	if !ok {
		t.Fatalf("expected a function type")
	}
	if len(fn.Params) != 1 || len(fn.Optional) != 1 || !fn.Rest.IsValid() {
		t.Fatalf("expected 1 required, 1 optional and a rest parameter, got %+v", fn)
	}
}

func TestParseTypeErrors(t *testing.T) {
	tests := []struct {
		text  string
		start uint32
	}{
		{"", 0},
		{"Int<", 4},
		{"[Int", 4},
		{"{a Int}", 3},
		{"(Int=, String) => void", 13},
		{"Int String", 4},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			_, err := parseType(ast.NewTypes(0), tt.text, source.Span{File: 1, Start: 10})
			te, ok := err.(*typeError)
			if !ok {
				t.Fatalf("expected a type error, got %v", err)
			}
			if te.span.Start != 10+tt.start {
				t.Fatalf("expected error at %d, got %d (%s)", 10+tt.start, te.span.Start, te.msg)
			}
		})
	}
}
