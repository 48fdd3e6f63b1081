package verifier

import (
	"slices"
	"testing"

	"ripple/internal/ast"
	"ripple/internal/diag"
	"ripple/internal/fixture"
	"ripple/internal/model"
	"ripple/internal/source"
)

// checked is a verified document: its unit and the labels of the types of
// its top-level variables.
type checked struct {
	unit  *diag.Unit
	types map[string]string
}

func verifyDoc(t *testing.T, text string, opts Options) checked {
	t.Helper()
	l := fixture.NewLoader(source.NewFileSet(), ast.NewBuilder(ast.Hints{}), 0)
	p, err := l.LoadBytes("case.yaml", []byte(text))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	v := New(l.Builder(), opts)
	v.Verify([]Program{{File: p.File, Unit: p.Unit}})

	m := v.Model()
	out := checked{unit: p.Unit, types: make(map[string]string)}
	frame := m.Frames.Get(l.Builder().Files.Get(p.File).Sem.Frame)
	frame.Props.Each(func(name string, sym model.Symbol) {
		out.types[name] = m.TypeLabel(m.TypeOf(sym))
	})
	return out
}

// codesOf returns the sorted codes of u with the given severity class.
func codesOf(u *diag.Unit, warnings bool) []diag.Code {
	var out []diag.Code
	for _, d := range u.All() {
		if d.Severity.IsError() != warnings {
			out = append(out, d.Code)
		}
	}
	slices.Sort(out)
	return out
}

func sorted(codes ...diag.Code) []diag.Code {
	out := slices.Clone(codes)
	slices.Sort(out)
	return out
}

func TestDestructuring(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		errors   []diag.Code
		warnings []diag.Code
		types    map[string]string
	}{
		{
			name: "tuple binds by position",
			doc: `
- {var: t, type: "[Int, String]"}
- {var: [a, b], init: t}
`,
			types: map[string]string{"a": "Int", "b": "String"},
		},
		{
			name: "spread inside tuple pattern",
			doc: `
- {var: t, type: "[Int, String]"}
- {var: [a, {spread: r}], init: t}
`,
			errors: []diag.Code{diag.VerifyIllegalSpreadInTuple},
			types:  map[string]string{"a": "Int", "r": "Any"},
		},
		{
			name: "trailing spread over array",
			doc: `
- {var: xs, type: "Array<Int>"}
- {var: [a, {spread: r}], init: xs}
`,
			types: map[string]string{"a": "Int", "r": "Array<Int>"},
		},
		{
			name: "spread before the last item",
			doc: `
- {var: xs, type: "Array<Int>"}
- {var: [{spread: r}, a], init: xs}
`,
			errors: []diag.Code{diag.VerifyIllegalSpreadPosition},
			types:  map[string]string{"a": "Int"},
		},
		{
			name: "indexable type uses its index proxy",
			doc: `
- {var: s, type: String}
- {var: [c, d], init: s}
`,
			types: map[string]string{"c": "String", "d": "String"},
		},
		{
			name: "record over Any rejects computed keys",
			doc: `
- {var: x, type: Any}
- var:
    record:
      - {key: a}
      - {key_expr: 1, value: b}
  init: x
`,
			errors: []diag.Code{diag.VerifyRecordKeyIdentifier},
			types:  map[string]string{"a": "Any", "b": "Any"},
		},
		{
			name: "record over Map may be undefined",
			doc: `
- {var: m, type: "Map<String, Int>"}
- {var: {record: {a: null}}, init: m}
`,
			types: map[string]string{"a": "Int | Undefined"},
		},
		{
			name: "record over class reports missing property",
			doc: `
- class: P
  members:
    - {var: x, type: Int}
- {var: p, type: P}
- {var: {record: {x: null, y: null}}, init: p}
`,
			errors: []diag.Code{diag.VerifyUndefinedProperty},
			types:  map[string]string{"x": "Int", "y": "Any"},
		},
		{
			name: "annotation differs from inferred type",
			doc: `
- {var: t, type: "[Int, String]"}
- {var: [{name: a, type: String}, b], init: t}
`,
			errors: []diag.Code{diag.VerifyAnnotationMismatch},
			types:  map[string]string{"a": "String", "b": "String"},
		},
		{
			name: "non-null suffix strips null",
			doc: `
- {var: t, type: "[Int?, Null, Any]"}
- {var: [{name: a, nonnull: true}, {name: b, nonnull: true}, {name: c, nonnull: true}], init: t}
`,
			types: map[string]string{"a": "Int", "c": "Any"},
		},
		{
			name: "non-null suffix on a non-nullable type is flagged",
			doc: `
- {var: t, type: "[Int, Any]"}
- {var: [{name: a, nonnull: true}, {name: b, nonnull: true}], init: t}
`,
			warnings: []diag.Code{diag.WarnUnnecessaryNonNull},
			types:    map[string]string{"a": "Int"},
		},
		{
			name: "duplicate name in one pattern",
			doc: `
- {var: t, type: "[Int, Int]"}
- {var: [a, a], init: t}
`,
			errors: []diag.Code{diag.VerifyDuplicateDefinition},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := verifyDoc(t, tc.doc, Options{})
			if errs := codesOf(got.unit, false); !slices.Equal(errs, sorted(tc.errors...)) {
				t.Fatalf("errors: got %v, want %v", errs, tc.errors)
			}
			if warns := codesOf(got.unit, true); !slices.Equal(warns, sorted(tc.warnings...)) {
				t.Fatalf("warnings: got %v, want %v", warns, tc.warnings)
			}
			for name, want := range tc.types {
				if got.types[name] != want {
					t.Fatalf("%s: got type %q, want %q", name, got.types[name], want)
				}
			}
		})
	}
}

func TestDuplicateBindings(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		allow   bool
		want    []diag.Code
		typeOfX string
	}{
		{
			name: "redeclaration rejected by default",
			doc: `
- {var: x, type: Int, init: 1}
- {var: x, type: Int, init: 2}
`,
			want: []diag.Code{diag.VerifyDuplicateDefinition},
		},
		{
			name:  "same type allowed",
			allow: true,
			doc: `
- {var: x, type: Int, init: 1}
- {var: x, type: Int, init: 2}
`,
			typeOfX: "Int",
		},
		{
			name:  "different type still reported",
			allow: true,
			doc: `
- {var: x, type: Int, init: 1}
- {var: x, type: Boolean, init: true}
`,
			want: []diag.Code{diag.VerifyDuplicateDefinition},
		},
		{
			name:  "constant does not replace a variable",
			allow: true,
			doc: `
- {var: x, type: Int, init: 1}
- {const: x, type: Int, init: 1}
`,
			want: []diag.Code{diag.VerifyDuplicateDefinition},
		},
		{
			name:  "same name twice in one pattern",
			allow: true,
			doc: `
- {var: t, type: "[Int, Int]"}
- {var: [x, x], init: t}
`,
			typeOfX: "Int",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := verifyDoc(t, tc.doc, Options{AllowDuplicateBindings: tc.allow})
			if errs := codesOf(got.unit, false); !slices.Equal(errs, sorted(tc.want...)) {
				t.Fatalf("errors: got %v, want %v", errs, tc.want)
			}
			if tc.typeOfX != "" && got.types["x"] != tc.typeOfX {
				t.Fatalf("x: got type %q, want %q", got.types["x"], tc.typeOfX)
			}
		})
	}
}

func TestNamespaceBody(t *testing.T) {
	got := verifyDoc(t, `
- namespace: N
  body:
    - {var: x, type: Int, init: 1}
- {var: y, type: Int, init: N.x}
- {var: z, type: String, init: N.x}
`, Options{})
	if errs := codesOf(got.unit, false); !slices.Equal(errs, []diag.Code{diag.VerifyIncompatibleTypes}) {
		t.Fatalf("expected only the String assignment to fail, got %v", errs)
	}
	if got.types["y"] != "Int" {
		t.Fatalf("y: got type %q", got.types["y"])
	}
}
