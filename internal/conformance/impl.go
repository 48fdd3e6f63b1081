// Package conformance checks interface implementations and method
// overrides once class hierarchies are known.
package conformance

import (
	"github.com/hashicorp/go-set/v3"

	"ripple/internal/model"
)

// ImplHandlers receive the violations VerifyImpl finds. Nil handlers are
// skipped. Expected is the required signature or, for kind mismatches,
// "method" or "property".
type ImplHandlers struct {
	MissingMethod        func(name string, iface model.TypeID)
	MissingGetter        func(name string, iface model.TypeID)
	MissingSetter        func(name string, iface model.TypeID)
	KindMismatch         func(name, expected string, iface model.TypeID)
	WrongMethodSignature func(name string, expected model.TypeID)
	WrongGetterSignature func(name string, expected model.TypeID)
	WrongSetterSignature func(name string, expected model.TypeID)
}

// VerifyImpl checks that implementor provides every instance member iface
// requires, including members inherited from super-interfaces.
func VerifyImpl(m *model.Model, implementor, iface model.TypeID, h ImplHandlers) {
	for _, it := range m.AllInterfaces(iface) {
		for _, req := range m.OwnMembers(it) {
			verifyRequirement(m, implementor, it, req, &h)
		}
	}
}

func verifyRequirement(m *model.Model, implementor, iface model.TypeID, req model.Member, h *ImplHandlers) {
	impl, found := m.ClassMember(implementor, req.Name)

	switch r := req.Symbol.(type) {
	case *model.MethodSlot:
		if !found {
			if !r.Flags.Has(model.MethodOptionalInterface) {
				call2(h.MissingMethod, req.Name, iface)
			}
			return
		}
		method, ok := impl.(*model.MethodSlot)
		if !ok {
			if h.KindMismatch != nil {
				h.KindMismatch(req.Name, "method", iface)
			}
			return
		}
		if !sameMethodSignature(m, r, method) {
			call2(h.WrongMethodSignature, req.Name, m.TypeOf(r))
		}

	case *model.VirtualSlot:
		optional := accessorOptional(r)
		if !found {
			if optional {
				return
			}
			if r.Getter != nil {
				call2(h.MissingGetter, req.Name, iface)
			} else {
				call2(h.MissingSetter, req.Name, iface)
			}
			return
		}
		switch x := impl.(type) {
		case *model.VirtualSlot:
			verifyAccessors(m, r, x, iface, h)
		case *model.VariableSlot:
			if r.Getter != nil && m.TypeOf(x) != m.TypeOf(r) {
				call2(h.WrongGetterSignature, req.Name, m.TypeOf(r.Getter))
			}
			if r.Setter != nil && x.ReadOnly {
				call2(h.MissingSetter, req.Name, iface)
			}
		default:
			if h.KindMismatch != nil {
				h.KindMismatch(req.Name, "property", iface)
			}
		}
	}
}

func verifyAccessors(m *model.Model, req, impl *model.VirtualSlot, iface model.TypeID, h *ImplHandlers) {
	if req.Getter != nil {
		switch {
		case impl.Getter == nil:
			if !req.Getter.Flags.Has(model.MethodOptionalInterface) {
				call2(h.MissingGetter, req.Name, iface)
			}
		case m.TypeOf(impl.Getter) != m.TypeOf(req.Getter):
			call2(h.WrongGetterSignature, req.Name, m.TypeOf(req.Getter))
		}
	}
	if req.Setter != nil {
		switch {
		case impl.Setter == nil:
			if !req.Setter.Flags.Has(model.MethodOptionalInterface) {
				call2(h.MissingSetter, req.Name, iface)
			}
		case m.TypeOf(impl.Setter) != m.TypeOf(req.Setter):
			call2(h.WrongSetterSignature, req.Name, m.TypeOf(req.Setter))
		}
	}
}

func accessorOptional(v *model.VirtualSlot) bool {
	if v.Getter != nil && !v.Getter.Flags.Has(model.MethodOptionalInterface) {
		return false
	}
	if v.Setter != nil && !v.Setter.Flags.Has(model.MethodOptionalInterface) {
		return false
	}
	return true
}

func call2[A, B any](fn func(A, B), a A, b B) {
	if fn != nil {
		fn(a, b)
	}
}

// sameMethodSignature compares an implementation against a requirement.
// Generic requirements need a generic implementation with equivalent type
// parameters; the implementation's parameters are renamed to the
// requirement's before comparing.
func sameMethodSignature(m *model.Model, req, impl *model.MethodSlot) bool {
	rs, is := m.TypeOf(req), m.TypeOf(impl)
	if len(req.TypeParams) != len(impl.TypeParams) {
		return false
	}
	if len(req.TypeParams) == 0 {
		return rs == is
	}
	if !EquivalentTypeParams(m, impl.TypeParams, req.TypeParams) {
		return false
	}
	return m.ReplaceTypes(is, impl.TypeParams, req.TypeParams) == rs
}

// EquivalentTypeParams reports whether a and b have, position by
// position, the same superclass bound and the same set of interface
// bounds once a's parameters are renamed to b's.
func EquivalentTypeParams(m *model.Model, a, b []model.TypeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		pa, pb := m.Types.TypeParam(a[i]), m.Types.TypeParam(b[i])
		if pa == nil || pb == nil {
			return false
		}
		if m.ReplaceTypes(pa.Super, a, b) != pb.Super {
			return false
		}
		ia := set.New[model.TypeID](len(pa.Interfaces))
		for _, it := range pa.Interfaces {
			ia.Insert(m.ReplaceTypes(it, a, b))
		}
		if !ia.Equal(set.From(pb.Interfaces)) {
			return false
		}
	}
	return true
}
