package model

import (
	"github.com/hashicorp/go-set/v3"
)

// SuperClass returns the direct superclass of a class or class instance,
// specialised for instances. Object and non-classes yield NoType.
func (m *Model) SuperClass(t TypeID) TypeID {
	in := m.Types
	switch in.Kind(t) {
	case KindClass:
		return in.Class(t).Super
	case KindInstance:
		inst := in.Instance(t)
		c := in.Class(inst.Origin)
		if c == nil || c.Super == NoType {
			return NoType
		}
		return m.ReplaceTypes(c.Super, c.TypeParams, inst.Args)
	case KindEnum:
		return m.Builtins.Object
	}
	return NoType
}

// ImplementedInterfaces returns the interfaces a class declares directly,
// or the interfaces an interface extends, specialised for instances.
func (m *Model) ImplementedInterfaces(t TypeID) []TypeID {
	in := m.Types
	var list, params, args []TypeID
	switch in.Kind(t) {
	case KindClass:
		list = in.Class(t).Implements
	case KindInterface:
		list = in.Interface(t).Extends
	case KindInstance:
		inst := in.Instance(t)
		switch {
		case in.Class(inst.Origin) != nil:
			list = in.Class(inst.Origin).Implements
		case in.Interface(inst.Origin) != nil:
			list = in.Interface(inst.Origin).Extends
		}
		params, args = in.TypeParamsOf(inst.Origin), inst.Args
	}
	if len(params) == 0 {
		return list
	}
	out := make([]TypeID, len(list))
	for i, it := range list {
		out[i] = m.ReplaceTypes(it, params, args)
	}
	return out
}

// AllInterfaces returns every interface t implements, through superclasses
// and interface extension, without duplicates.
func (m *Model) AllInterfaces(t TypeID) []TypeID {
	seen := set.New[TypeID](8)
	var out []TypeID
	var walkIface func(TypeID)
	walkIface = func(it TypeID) {
		if !seen.Insert(it) {
			return
		}
		out = append(out, it)
		for _, ext := range m.ImplementedInterfaces(it) {
			walkIface(ext)
		}
	}
	visited := set.New[TypeID](8)
	for cur := t; cur != NoType && visited.Insert(cur); cur = m.SuperClass(cur) {
		if m.IsInterface(cur) {
			walkIface(cur)
			break
		}
		for _, it := range m.ImplementedInterfaces(cur) {
			walkIface(it)
		}
	}
	return out
}

// IsInterface reports whether t is an interface or an interface instance.
func (m *Model) IsInterface(t TypeID) bool {
	return m.Types.Interface(m.Types.OriginOf(t)) != nil
}

// IsClass reports whether t is a class or a class instance.
func (m *Model) IsClass(t TypeID) bool {
	return m.Types.Class(m.Types.OriginOf(t)) != nil
}

// IsSubtypeOf reports nominal subtyping: identity, the superclass chain,
// implemented interfaces, type parameter bounds and union membership.
func (m *Model) IsSubtypeOf(a, b TypeID) bool {
	if a == b {
		return true
	}
	in := m.Types
	if u := in.Union(a); u != nil {
		for _, mem := range u.Members {
			if !m.IsSubtypeOf(mem, b) {
				return false
			}
		}
		return true
	}
	if u := in.Union(b); u != nil {
		for _, mem := range u.Members {
			if m.IsSubtypeOf(a, mem) {
				return true
			}
		}
		return false
	}
	return m.isNominalSubtype(a, b, set.New[TypeID](8))
}

func (m *Model) isNominalSubtype(a, b TypeID, visited *set.Set[TypeID]) bool {
	if a == b {
		return true
	}
	if a == NoType || b == NoType || !visited.Insert(a) {
		return false
	}
	in := m.Types
	ka := in.Kind(a)
	switch ka {
	case KindAny, KindVoid, KindNull, KindUndefined, KindUnion:
		return false
	}
	if b == m.Builtins.Object {
		return true
	}
	switch ka {
	case KindTypeParam:
		tp := in.TypeParam(a)
		if tp.Super != NoType && m.isNominalSubtype(tp.Super, b, visited) {
			return true
		}
		for _, it := range tp.Interfaces {
			if m.isNominalSubtype(it, b, visited) {
				return true
			}
		}
	case KindFunction:
		return b == m.Builtins.Function
	case KindClass, KindInstance, KindInterface:
		if sup := m.SuperClass(a); sup != NoType && m.isNominalSubtype(sup, b, visited) {
			return true
		}
		if !m.IsInterface(b) {
			return false
		}
		for _, it := range m.ImplementedInterfaces(a) {
			if m.isNominalSubtype(it, b, visited) {
				return true
			}
		}
	}
	return false
}
