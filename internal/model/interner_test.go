package model

import "testing"

func TestInternerBuiltins(t *testing.T) {
	m := New()
	b := m.Builtins
	if b.Object == NoType || b.Int == NoType || b.Array == NoType {
		t.Fatalf("builtins not initialized")
	}
	if m.Types.Kind(b.Any) != KindAny {
		t.Fatalf("expected any kind, got %v", m.Types.Kind(b.Any))
	}
	if got, ok := m.Global.Props.Get("Int"); !ok || got != b.Int {
		t.Fatalf("Int not declared in global package")
	}
}

func TestInterningIsIdempotent(t *testing.T) {
	m := New()
	in := m.Types
	b := m.Builtins

	if in.InternTuple([]TypeID{b.Int, b.String}) != in.InternTuple([]TypeID{b.Int, b.String}) {
		t.Fatalf("tuple types should be deduplicated")
	}
	if in.InternTuple([]TypeID{b.Int, b.String}) == in.InternTuple([]TypeID{b.String, b.Int}) {
		t.Fatalf("tuple element order is part of identity")
	}
	r1 := in.InternRecord([]RecordField{{Name: "x", Type: b.Int}, {Name: "y", Type: b.Int}})
	r2 := in.InternRecord([]RecordField{{Name: "x", Type: b.Int}, {Name: "y", Type: b.Int}})
	if r1 != r2 {
		t.Fatalf("record types should be deduplicated")
	}
	f1 := m.Fn([]TypeID{b.Int}, b.Int)
	f2 := in.InternFunction(FnInfo{Params: []TypeID{b.Int}, Result: b.Int})
	if f1 != f2 {
		t.Fatalf("function types should be deduplicated")
	}
	if f1 == in.InternFunction(FnInfo{Optional: []TypeID{b.Int}, Result: b.Int}) {
		t.Fatalf("optional and required parameters must differ")
	}
	if m.ArrayOf(b.Int) != m.ArrayOf(b.Int) || m.ArrayOf(b.Int) == m.ArrayOf(b.Long) {
		t.Fatalf("instances should be interned by origin and arguments")
	}
}

func TestUnionNormalization(t *testing.T) {
	m := New()
	in := m.Types
	b := m.Builtins

	if got := in.InternUnion([]TypeID{b.Int}); got != b.Int {
		t.Fatalf("single member union should collapse, got %s", m.TypeLabel(got))
	}
	inner := in.InternUnion([]TypeID{b.String, b.Boolean})
	nested := in.InternUnion([]TypeID{b.Int, inner})
	flat := in.InternUnion([]TypeID{b.Int, b.String, b.Boolean})
	if nested != flat {
		t.Fatalf("nested unions should flatten")
	}
	if in.InternUnion([]TypeID{b.Boolean, b.Int, b.String}) != flat {
		t.Fatalf("member order should not matter")
	}
	if in.InternUnion([]TypeID{b.Int, b.Int, b.String}) != in.InternUnion([]TypeID{b.Int, b.String}) {
		t.Fatalf("duplicates should be dropped")
	}
	if got := in.InternUnion([]TypeID{b.Any, b.Int}); got != b.Any {
		t.Fatalf("union with Any should be Any, got %s", m.TypeLabel(got))
	}
	if got := in.InternUnion(nil); got != b.Void {
		t.Fatalf("empty union should be void")
	}
}

func TestTypeLabel(t *testing.T) {
	m := New()
	b := m.Builtins
	cases := []struct {
		id   TypeID
		want string
	}{
		{m.ArrayOf(b.Int), "Array<Int>"},
		{m.ToNullableType(b.Int), "Int | Null"},
		{m.MapOf(b.String, b.Long), "Map<String, Long>"},
		{m.Types.InternTuple([]TypeID{b.Int, b.String}), "[Int, String]"},
		{m.Types.InternRecord([]RecordField{{Name: "x", Type: b.Number}}), "{x: Number}"},
		{m.Fn([]TypeID{b.Int}, b.Boolean), "(Int) => Boolean"},
	}
	for _, tc := range cases {
		if got := m.TypeLabel(tc.id); got != tc.want {
			t.Fatalf("label: want %q, got %q", tc.want, got)
		}
	}
}
