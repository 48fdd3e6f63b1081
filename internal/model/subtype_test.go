package model

import "testing"

func declareClass(m *Model, name string, super TypeID, ifaces ...TypeID) TypeID {
	id := m.Types.NewClass(ClassInfo{Name: name, Parent: m.Global, Super: super, Implements: ifaces, Heritage: true})
	m.Global.Props.Set(name, id)
	return id
}

func TestIsSubtypeOf(t *testing.T) {
	m := New()
	b := m.Builtins
	iface := m.Types.NewInterface(InterfaceInfo{Name: "I", Parent: m.Global})
	sub := m.Types.NewInterface(InterfaceInfo{Name: "J", Parent: m.Global, Extends: []TypeID{iface}})
	a := declareClass(m, "A", b.Object, sub)
	c := declareClass(m, "C", a)

	cases := []struct {
		a, b TypeID
		want bool
	}{
		{c, a, true},
		{c, b.Object, true},
		{c, iface, true},
		{a, c, false},
		{sub, iface, true},
		{iface, sub, false},
		{b.Int, b.Long, false},
		{b.Null, b.Object, false},
		{c, m.ToNullableType(a), true},
		{m.Types.InternUnion([]TypeID{a, c}), a, true},
		{m.Fn(nil, b.Int), b.Function, true},
	}
	for i, tc := range cases {
		if got := m.IsSubtypeOf(tc.a, tc.b); got != tc.want {
			t.Fatalf("case %d: %s <: %s = %v, want %v", i, m.TypeLabel(tc.a), m.TypeLabel(tc.b), got, tc.want)
		}
	}
}

func TestCircularHeritageTerminates(t *testing.T) {
	m := New()
	a := declareClass(m, "A", NoType)
	c := declareClass(m, "C", a)
	m.Types.Class(a).Super = c
	if m.IsSubtypeOf(a, m.Builtins.String) {
		t.Fatalf("unrelated class must not be a supertype")
	}
	if got := m.AllInterfaces(a); len(got) != 0 {
		t.Fatalf("expected no interfaces, got %v", got)
	}
}

func TestSuperClassOfInstanceIsSpecialised(t *testing.T) {
	m := New()
	b := m.Builtins
	base := declareClass(m, "Base", b.Object)
	tp := m.Types.NewTypeParam(TypeParamInfo{Name: "T", Owner: base})
	m.Types.Class(base).TypeParams = []TypeID{tp}
	derived := declareClass(m, "Derived", NoType)
	dp := m.Types.NewTypeParam(TypeParamInfo{Name: "U", Owner: derived})
	m.Types.Class(derived).TypeParams = []TypeID{dp}
	m.Types.Class(derived).Super = m.Types.InternInstance(base, []TypeID{dp})

	inst := m.Types.InternInstance(derived, []TypeID{b.Int})
	want := m.Types.InternInstance(base, []TypeID{b.Int})
	if got := m.SuperClass(inst); got != want {
		t.Fatalf("expected %s, got %s", m.TypeLabel(want), m.TypeLabel(got))
	}
	if !m.IsSubtypeOf(inst, want) {
		t.Fatalf("Derived<Int> must be a subtype of Base<Int>")
	}
}
