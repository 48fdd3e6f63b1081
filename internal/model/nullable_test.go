package model

import "testing"

func TestNullableRoundTrip(t *testing.T) {
	m := New()
	b := m.Builtins
	in := m.Types
	types := []TypeID{
		b.Int,
		b.String,
		b.Null,
		b.Undefined,
		b.Any,
		m.ArrayOf(b.Int),
		in.InternUnion([]TypeID{b.Int, b.Null}),
		in.InternUnion([]TypeID{b.Int, b.String, b.Undefined}),
	}
	for _, typ := range types {
		nn := m.ToNonNullableType(typ)
		if !m.IncludesNull(m.ToNullableType(nn)) {
			t.Fatalf("%s: nullable of non-nullable must include null", m.TypeLabel(typ))
		}
		if m.ToNonNullableType(nn) != nn {
			t.Fatalf("%s: ToNonNullableType must be idempotent", m.TypeLabel(typ))
		}
		once := m.ToNullableType(typ)
		if m.ToNullableType(once) != once {
			t.Fatalf("%s: ToNullableType must be idempotent", m.TypeLabel(typ))
		}
	}
}

func TestNonNullableStripsBoth(t *testing.T) {
	m := New()
	b := m.Builtins
	u := m.Types.InternUnion([]TypeID{b.Int, b.Null, b.Undefined})
	if got := m.ToNonNullableType(u); got != b.Int {
		t.Fatalf("expected Int, got %s", m.TypeLabel(got))
	}
	if !m.IncludesUndefined(b.Any) || !m.IncludesNull(b.Any) {
		t.Fatalf("Any includes null and undefined")
	}
	if m.IncludesNull(b.Int) {
		t.Fatalf("Int does not include null")
	}
}

func TestDefaultValue(t *testing.T) {
	m := New()
	b := m.Builtins
	cases := []struct {
		typ  TypeID
		want ConstKind
	}{
		{b.Any, ConstUndefined},
		{b.Boolean, ConstBoolean},
		{b.String, ConstString},
		{b.Int, ConstInt},
		{b.Number, ConstNumber},
		{m.ToNullableType(b.RegExp), ConstNull},
	}
	for _, tc := range cases {
		c := m.DefaultValue(tc.typ)
		if c == nil || c.Kind != tc.want {
			t.Fatalf("%s: expected default of kind %d, got %+v", m.TypeLabel(tc.typ), tc.want, c)
		}
	}
	if m.DefaultValue(b.RegExp) != nil {
		t.Fatalf("RegExp has no default value")
	}
}
