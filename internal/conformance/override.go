package conformance

import (
	"errors"

	"ripple/internal/model"
)

var (
	ErrMustOverrideAMethod           = errors.New("must override a method")
	ErrCannotOverrideGenericMethod   = errors.New("cannot override generic method")
	ErrIncompatibleOverrideSignature = errors.New("incompatible override signature")
	ErrCannotOverrideFinalMethod     = errors.New("cannot override final method")
)

// OverrideSingle makes method, declared by subtype, override the
// same-named member of subtype's superclass. Getters and setters override
// the matching accessor of an inherited virtual property. On success the
// method is linked to the overridden one and flagged as an override.
func OverrideSingle(m *model.Model, subtype model.TypeID, method *model.MethodSlot) error {
	base, err := overridden(m, subtype, method)
	if err != nil {
		return err
	}
	if base.IsGeneric() || method.IsGeneric() {
		return ErrCannotOverrideGenericMethod
	}
	bs, ss := m.Types.Function(m.TypeOf(base)), m.Types.Function(m.TypeOf(method))
	if bs == nil || ss == nil || !CompatibleOverride(m, bs, ss) {
		return ErrIncompatibleOverrideSignature
	}
	if base.Flags.Has(model.MethodFinal) {
		return ErrCannotOverrideFinalMethod
	}

	origin := base.Origin()
	origin.Overriders = append(origin.Overriders, method)
	method.Overridden = origin
	method.Flags |= model.MethodOverride
	return nil
}

// Overridden returns the superclass member method would override, or nil.
func Overridden(m *model.Model, subtype model.TypeID, method *model.MethodSlot) *model.MethodSlot {
	base, err := overridden(m, subtype, method)
	if err != nil {
		return nil
	}
	return base
}

func overridden(m *model.Model, subtype model.TypeID, method *model.MethodSlot) (*model.MethodSlot, error) {
	super := m.SuperClass(subtype)
	if super == model.NoType {
		return nil, ErrMustOverrideAMethod
	}
	sym, ok := m.ClassMember(super, method.Name)
	if !ok {
		return nil, ErrMustOverrideAMethod
	}
	switch {
	case method.Flags.Has(model.MethodGetter):
		if v, ok := sym.(*model.VirtualSlot); ok && v.Getter != nil {
			return v.Getter, nil
		}
	case method.Flags.Has(model.MethodSetter):
		if v, ok := sym.(*model.VirtualSlot); ok && v.Setter != nil {
			return v.Setter, nil
		}
	default:
		if ms, ok := sym.(*model.MethodSlot); ok && !ms.IsStatic() {
			return ms, nil
		}
	}
	return nil, ErrMustOverrideAMethod
}

// CompatibleOverride reports whether sub may replace base: identical
// required parameters, at least as many optional parameters agreeing on
// the shared prefix, a compatible rest parameter, and a result that is
// the same, a subtype, or Any.
func CompatibleOverride(m *model.Model, base, sub *model.FnInfo) bool {
	if len(sub.Params) != len(base.Params) {
		return false
	}
	for i := range base.Params {
		if sub.Params[i] != base.Params[i] {
			return false
		}
	}
	if len(sub.Optional) < len(base.Optional) {
		return false
	}
	for i := range base.Optional {
		if sub.Optional[i] != base.Optional[i] {
			return false
		}
	}
	if base.Rest != model.NoType && sub.Rest != base.Rest {
		if sub.Rest != model.NoType || !restCovered(m, base, sub) {
			return false
		}
	}
	r := sub.Result
	return r == base.Result || r == m.Builtins.Any || m.IsSubtypeOf(r, base.Result)
}

// restCovered accepts extra optional parameters in place of a rest
// parameter when each takes the rest element type.
func restCovered(m *model.Model, base, sub *model.FnInfo) bool {
	extra := sub.Optional[len(base.Optional):]
	if len(extra) == 0 {
		return false
	}
	elem, ok := m.ElementOf(base.Rest)
	if !ok {
		return false
	}
	for _, t := range extra {
		if t != elem && t != m.Builtins.Any {
			return false
		}
	}
	return true
}
