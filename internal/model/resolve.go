package model

import (
	"errors"
	"fmt"
)

var (
	// ErrAmbiguousReference is returned when a name reaches two distinct
	// symbols through open namespaces or packages.
	ErrAmbiguousReference = errors.New("ambiguous reference")
	// ErrFailedAlias is returned when a lookup goes through an alias whose
	// target could not be resolved. Its root cause was already diagnosed.
	ErrFailedAlias = errors.New("failed alias")
	// ErrUnresolvedAlias is returned while an alias target is still pending.
	ErrUnresolvedAlias = errors.New("unresolved alias")
)

const aliasDepth = 64

// ResolveProperty returns the symbol name denotes when looked up through
// base, or nil when there is none. Slots come back wrapped in a Reference
// carrying the access path and read/write restrictions; types, packages and
// namespaces come back as themselves. Aliases are followed.
func (m *Model) ResolveProperty(base Symbol, name string) (Symbol, error) {
	switch b := base.(type) {
	case *Alias:
		target, err := m.FollowAlias(b)
		if err != nil {
			return nil, err
		}
		return m.ResolveProperty(target, name)
	case FrameID:
		return m.resolveInFrame(b, name)
	case TypeID:
		sym, ok := m.StaticMember(b, name)
		if !ok {
			return nil, nil
		}
		return m.wrap(RefTypeProperty, b, name, sym)
	case *Namespace:
		sym, ok := b.Props.Get(name)
		if !ok {
			return nil, nil
		}
		return m.wrap(RefNamespaceProperty, b, name, sym)
	case *Package:
		if sym, ok := b.Props.Get(name); ok {
			return m.wrap(RefPackageProperty, b, name, sym)
		}
		if sub := b.Sub(name, false); sub != nil {
			return sub, nil
		}
		return nil, nil
	}
	if IsValue(base) {
		return m.resolveOnValue(base, name)
	}
	return nil, nil
}

// FollowAlias returns the final non-alias target of a.
func (m *Model) FollowAlias(a *Alias) (Symbol, error) {
	cur := a
	for range aliasDepth {
		switch cur.State {
		case AliasFailed:
			return nil, fmt.Errorf("%w: %s", ErrFailedAlias, cur.Name)
		case AliasUnresolved:
			return nil, fmt.Errorf("%w: %s", ErrUnresolvedAlias, cur.Name)
		}
		next, ok := cur.Target.(*Alias)
		if !ok {
			return cur.Target, nil
		}
		cur = next
	}
	return nil, fmt.Errorf("%w: %s", ErrFailedAlias, a.Name)
}

func (m *Model) follow(sym Symbol) (Symbol, error) {
	if a, ok := sym.(*Alias); ok {
		return m.FollowAlias(a)
	}
	return sym, nil
}

func (m *Model) resolveInFrame(id FrameID, name string) (Symbol, error) {
	for cur := id; cur != NoFrame; cur = m.Frames.Parent(cur) {
		fr := m.Frames.Get(cur)
		if sym, ok := fr.Props.Get(name); ok {
			return m.wrap(RefFrameProperty, cur, name, sym)
		}
		sym, err := m.resolveSelf(fr, name)
		if err != nil || sym != nil {
			return sym, err
		}
		sym, err = m.resolveOpen(fr, name)
		if err != nil || sym != nil {
			return sym, err
		}
	}
	if sub := m.Global.Sub(name, false); sub != nil {
		return sub, nil
	}
	return nil, nil
}

// resolveSelf looks name up in the entity a frame stands for: statics of
// the enclosing class or enum, instance members through this, and the
// members exposed by a with-frame.
func (m *Model) resolveSelf(fr *Frame, name string) (Symbol, error) {
	switch fr.Kind {
	case FrameClass, FrameEnum:
		owner, ok := fr.Owner.(TypeID)
		if !ok {
			return nil, nil
		}
		if sym, ok := m.StaticMember(owner, name); ok {
			return m.wrap(RefTypeProperty, owner, name, sym)
		}
	case FrameActivation:
		if fr.This == NoType {
			return nil, nil
		}
		if sym, ok := m.InstanceMember(fr.This, name); ok {
			return m.wrap(RefInstanceProperty, &This{Type: fr.This}, name, sym)
		}
	case FrameWith:
		if fr.With == nil {
			return nil, nil
		}
		t := m.ToNonNullableType(m.TypeOf(fr.With))
		if rf := m.Types.Record(t); rf != nil {
			if ft, ok := rf.Field(name); ok {
				return &Reference{Kind: RefInstanceProperty, Base: fr.With, Name: name, Type: ft}, nil
			}
			return nil, nil
		}
		if sym, ok := m.InstanceMember(t, name); ok {
			return m.wrap(RefInstanceProperty, fr.With, name, sym)
		}
	}
	return nil, nil
}

func (m *Model) resolveOpen(fr *Frame, name string) (Symbol, error) {
	var (
		hit      Symbol
		hitBase  Symbol
		hitFinal Symbol
	)
	for _, o := range fr.Open {
		var props *Properties
		switch x := o.(type) {
		case *Namespace:
			props = x.Props
		case *Package:
			props = x.Props
		default:
			continue
		}
		sym, ok := props.Get(name)
		if !ok {
			continue
		}
		final, err := m.follow(sym)
		if err != nil {
			return nil, err
		}
		if hit != nil && final != hitFinal {
			return nil, fmt.Errorf("%w: %s", ErrAmbiguousReference, name)
		}
		if hit == nil {
			hit, hitBase, hitFinal = sym, o, final
		}
	}
	if hit == nil {
		return nil, nil
	}
	kind := RefNamespaceProperty
	if _, ok := hitBase.(*Package); ok {
		kind = RefPackageProperty
	}
	return m.wrap(kind, hitBase, name, hit)
}

func (m *Model) resolveOnValue(v Symbol, name string) (Symbol, error) {
	t := m.ToNonNullableType(m.TypeOf(v))
	switch m.Types.Kind(t) {
	case KindAny:
		return &Reference{Kind: RefDynamic, Base: v, Name: name, Type: m.Builtins.Any}, nil
	case KindRecord:
		if ft, ok := m.Types.Record(t).Field(name); ok {
			return &Reference{Kind: RefInstanceProperty, Base: v, Name: name, Type: ft}, nil
		}
		sym, ok := m.InstanceMember(m.Builtins.Object, name)
		if !ok {
			return nil, nil
		}
		return m.wrap(RefInstanceProperty, v, name, sym)
	}
	if c := m.Types.Class(m.Types.OriginOf(t)); c != nil && c.Flags&ClassDynamic != 0 {
		if sym, ok := m.InstanceMember(t, name); ok {
			return m.wrap(RefInstanceProperty, v, name, sym)
		}
		return &Reference{Kind: RefDynamic, Base: v, Name: name, Type: m.Builtins.Any}, nil
	}
	sym, ok := m.InstanceMember(t, name)
	if !ok {
		return nil, nil
	}
	return m.wrap(RefInstanceProperty, v, name, sym)
}

// wrap turns a member into the value seen through base. Slots become
// References; other symbols are returned after alias following.
func (m *Model) wrap(kind RefKind, base Symbol, name string, sym Symbol) (Symbol, error) {
	switch s := sym.(type) {
	case *VariableSlot:
		return &Reference{Kind: kind, Base: base, Name: name, Prop: s, ReadOnly: s.ReadOnly}, nil
	case *MethodSlot:
		return &Reference{Kind: kind, Base: base, Name: name, Prop: s, ReadOnly: true}, nil
	case *VirtualSlot:
		return &Reference{
			Kind:      kind,
			Base:      base,
			Name:      name,
			Prop:      s,
			ReadOnly:  s.Setter == nil,
			WriteOnly: s.Getter == nil,
		}, nil
	case *Alias:
		target, err := m.FollowAlias(s)
		if err != nil {
			return nil, err
		}
		return m.wrap(kind, base, name, target)
	}
	return sym, nil
}

// StaticMember looks name up among the static members of t and its
// superclasses. Enum variants are static members of their enum.
func (m *Model) StaticMember(t TypeID, name string) (Symbol, bool) {
	in := m.Types
	for cur, guard := in.OriginOf(t), 0; cur != NoType && guard < aliasDepth; guard++ {
		switch in.Kind(cur) {
		case KindClass:
			if sym, ok := in.Class(cur).Static.Get(name); ok {
				return sym, true
			}
			cur = in.OriginOf(in.Class(cur).Super)
		case KindEnum:
			sym, ok := in.Enum(cur).Static.Get(name)
			return sym, ok
		default:
			return nil, false
		}
	}
	return nil, false
}

// InstanceMember looks name up among the instance members visible on a
// value of type t: the class chain, implemented interfaces, type parameter
// bounds and finally Object. Members of generic instances are specialised.
func (m *Model) InstanceMember(t TypeID, name string) (Symbol, bool) {
	in := m.Types
	switch in.Kind(t) {
	case KindTypeParam:
		tp := in.TypeParam(t)
		if tp.Super != NoType {
			if sym, ok := m.InstanceMember(tp.Super, name); ok {
				return sym, true
			}
		}
		for _, it := range tp.Interfaces {
			if sym, ok := m.InstanceMember(it, name); ok {
				return sym, true
			}
		}
		return m.InstanceMember(m.Builtins.Object, name)
	case KindFunction:
		return m.InstanceMember(m.Builtins.Function, name)
	case KindTuple, KindRecord:
		return m.InstanceMember(m.Builtins.Object, name)
	case KindUnion:
		nn := m.ToNonNullableType(t)
		if nn != t && in.Kind(nn) != KindUnion {
			return m.InstanceMember(nn, name)
		}
		return nil, false
	case KindClass, KindInstance, KindInterface, KindEnum:
	default:
		return nil, false
	}

	if sym, ok := m.ClassMember(t, name); ok {
		return sym, true
	}
	for _, it := range m.AllInterfaces(t) {
		if sym, ok := m.ownMember(it, name); ok {
			return sym, true
		}
	}
	if m.IsInterface(t) {
		return m.ownMember(m.Builtins.Object, name)
	}
	return nil, false
}

// ClassMember looks name up among the instance members of t and its
// superclasses only, ignoring interfaces.
func (m *Model) ClassMember(t TypeID, name string) (Symbol, bool) {
	for cur, guard := t, 0; cur != NoType && guard < aliasDepth; cur, guard = m.SuperClass(cur), guard+1 {
		if sym, ok := m.ownMember(cur, name); ok {
			return sym, true
		}
	}
	return nil, false
}

// Member is a named entry of a member table.
type Member struct {
	Name   string
	Symbol Symbol
}

// OwnMembers returns the instance members declared directly by t in
// declaration order, specialised for instance types.
func (m *Model) OwnMembers(t TypeID) []Member {
	props := m.memberTable(m.Types.OriginOf(t), false)
	out := make([]Member, 0, props.Len())
	for _, name := range props.Names() {
		if sym, ok := m.ownMember(t, name); ok {
			out = append(out, Member{Name: name, Symbol: sym})
		}
	}
	return out
}

// ownMember returns a member declared directly by t, without inheritance.
func (m *Model) ownMember(t TypeID, name string) (Symbol, bool) {
	if m.Types.Kind(t) == KindInstance {
		sym := m.specialisedMember(t, name, false)
		return sym, sym != nil
	}
	return m.memberTable(t, false).Get(name)
}
