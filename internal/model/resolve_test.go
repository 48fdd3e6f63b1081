package model

import (
	"errors"
	"testing"
)

func TestPropertiesKeepInsertionOrder(t *testing.T) {
	p := NewProperties()
	for _, name := range []string{"z", "a", "m"} {
		if err := p.Declare(name, NoType, false); err != nil {
			t.Fatalf("declare %s: %v", name, err)
		}
	}
	if err := p.Declare("a", NoType, false); !errors.Is(err, ErrDuplicateDefinition) {
		t.Fatalf("expected duplicate definition, got %v", err)
	}
	if err := p.Declare("a", TypeID(3), true); err != nil {
		t.Fatalf("shadowing declare: %v", err)
	}
	names := p.Names()
	if len(names) != 3 || names[0] != "z" || names[1] != "a" || names[2] != "m" {
		t.Fatalf("unexpected order %v", names)
	}
	if got, _ := p.Get("a"); got != TypeID(3) {
		t.Fatalf("shadowed entry not replaced")
	}
}

func TestFrameParentIsClaimedOnce(t *testing.T) {
	m := New()
	a := m.Frames.New(FrameBlock, nil, nil)
	b := m.Frames.New(FrameBlock, nil, nil)
	if got := m.Frames.Claim(a, m.GlobalFrame); got != m.GlobalFrame {
		t.Fatalf("first claim should link to the global frame")
	}
	if got := m.Frames.Claim(a, b); got != m.GlobalFrame {
		t.Fatalf("second claim must not relink, got %d", got)
	}
	if !m.Frames.Claimed(a) || m.Frames.Claimed(b) {
		t.Fatalf("claimed flags wrong")
	}
}

func TestResolveThroughFrames(t *testing.T) {
	m := New()
	b := m.Builtins
	outer := m.Frames.New(FrameBlock, nil, nil)
	m.Frames.Claim(outer, m.GlobalFrame)
	inner := m.Frames.New(FrameBlock, nil, nil)
	m.Frames.Claim(inner, outer)

	slot := &VariableSlot{Name: "x", Type: Resolved(b.Int)}
	m.Frames.Get(outer).Props.Set("x", slot)

	sym, err := m.ResolveProperty(inner, "x")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	ref, ok := sym.(*Reference)
	if !ok || ref.Prop != slot || ref.Kind != RefFrameProperty {
		t.Fatalf("expected frame reference to x, got %#v", sym)
	}
	if m.TypeOf(ref) != b.Int {
		t.Fatalf("expected Int, got %s", m.TypeLabel(m.TypeOf(ref)))
	}
	if sym, _ := m.ResolveProperty(inner, "Int"); sym != b.Int {
		t.Fatalf("builtin Int should resolve through the global frame")
	}
	if sym, _ := m.ResolveProperty(inner, "nope"); sym != nil {
		t.Fatalf("unknown name should resolve to nil, got %#v", sym)
	}
}

func TestResolveAmbiguousOpenNamespaces(t *testing.T) {
	m := New()
	n1 := NewNamespace("n1", m.Global, Public)
	n2 := NewNamespace("n2", m.Global, Public)
	n1.Props.Set("x", &VariableSlot{Name: "x", Owner: n1})
	n2.Props.Set("x", &VariableSlot{Name: "x", Owner: n2})
	shared := &VariableSlot{Name: "y", Owner: n1}
	n1.Props.Set("y", shared)
	n2.Props.Set("y", shared)

	f := m.Frames.New(FrameBlock, nil, nil)
	m.Frames.Claim(f, m.GlobalFrame)
	m.Frames.Get(f).OpenSymbol(n1)
	m.Frames.Get(f).OpenSymbol(n2)

	if _, err := m.ResolveProperty(f, "x"); !errors.Is(err, ErrAmbiguousReference) {
		t.Fatalf("expected ambiguous reference, got %v", err)
	}
	if _, err := m.ResolveProperty(f, "y"); err != nil {
		t.Fatalf("same symbol through two paths is not ambiguous: %v", err)
	}
	m.Frames.Get(f).Props.Set("x", &VariableSlot{Name: "x"})
	if _, err := m.ResolveProperty(f, "x"); err != nil {
		t.Fatalf("local declaration should win: %v", err)
	}
}

func TestResolveAliases(t *testing.T) {
	m := New()
	ok := NewAlias("Num", m.Global, Public)
	ok.Resolve(m.Builtins.Number)
	chained := NewAlias("N2", m.Global, Public)
	chained.Resolve(ok)
	failed := NewAlias("Bad", m.Global, Public)
	failed.Fail()
	pending := NewAlias("Later", m.Global, Public)
	for _, a := range []*Alias{ok, chained, failed, pending} {
		m.Global.Props.Set(a.Name, a)
	}

	if sym, err := m.ResolveProperty(m.GlobalFrame, "N2"); err != nil || sym != m.Builtins.Number {
		t.Fatalf("alias chain should resolve to Number, got %v %v", sym, err)
	}
	if _, err := m.ResolveProperty(m.GlobalFrame, "Bad"); !errors.Is(err, ErrFailedAlias) {
		t.Fatalf("expected failed alias, got %v", err)
	}
	if _, err := m.ResolveProperty(m.GlobalFrame, "Later"); !errors.Is(err, ErrUnresolvedAlias) {
		t.Fatalf("expected unresolved alias, got %v", err)
	}
}

func TestResolveInstanceMembers(t *testing.T) {
	m := New()
	b := m.Builtins
	v := &Plain{Type: m.ArrayOf(b.String)}

	sym, err := m.ResolveProperty(v, "indexOf")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := m.Fn([]TypeID{b.String}, b.Int)
	if got := m.TypeOf(sym); got != want {
		t.Fatalf("expected %s, got %s", m.TypeLabel(want), m.TypeLabel(got))
	}
	length, _ := m.ResolveProperty(v, "length")
	if ref := length.(*Reference); ref.ReadOnly || ref.WriteOnly {
		t.Fatalf("Array.length is read-write")
	}
	str, _ := m.ResolveProperty(&Plain{Type: b.String}, "length")
	if ref := str.(*Reference); !ref.ReadOnly {
		t.Fatalf("String.length is read-only")
	}
	if sym, _ := m.ResolveProperty(v, "toString"); sym == nil {
		t.Fatalf("Object members should be inherited")
	}
	dyn, _ := m.ResolveProperty(&Plain{Type: b.Any}, "anything")
	if ref, ok := dyn.(*Reference); !ok || ref.Kind != RefDynamic {
		t.Fatalf("members of Any are dynamic, got %#v", dyn)
	}
}

func TestLazyResolverRunsOnPendingSlot(t *testing.T) {
	m := New()
	slot := &VariableSlot{Name: "x"}
	calls := 0
	m.SetLazyResolver(func(sym Symbol) {
		calls++
		sym.(*VariableSlot).Type.Set(m.Builtins.Boolean)
	})
	if got := m.TypeOf(slot); got != m.Builtins.Boolean {
		t.Fatalf("expected Boolean, got %s", m.TypeLabel(got))
	}
	m.TypeOf(slot)
	if calls != 1 {
		t.Fatalf("resolver should run once, ran %d times", calls)
	}
}
