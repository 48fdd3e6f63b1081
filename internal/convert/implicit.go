package convert

import (
	"ripple/internal/model"
)

// Implicit converts v for an assignment or argument context expecting
// to. Rules are tried in order: identity, constant folding, from/to Any,
// implicit proxies, numeric widening, non-union to union, union to union,
// record width subtyping and covariant (upcast) subtyping.
func Implicit(m *model.Model, v model.Symbol, to model.TypeID) model.Symbol {
	from := m.TypeOf(v)
	if from == model.NoType || to == model.NoType {
		return nil
	}
	if from == to {
		return v
	}
	if c, ok := v.(*model.Constant); ok {
		if r := Constant(m, c, to); r != nil {
			return r
		}
	}

	b := &m.Builtins
	switch {
	case from == b.Void || to == b.Void:
		return nil
	case from == b.Any:
		return conv(model.ConvFromAny, v, to)
	case to == b.Any:
		return conv(model.ConvToAny, v, to)
	}

	if p := proxyAccepting(m, to, model.ProxyConvertImplicit, from); p != nil {
		c := conv(model.ConvImplicitProxy, v, to)
		c.Proxy = p
		return c
	}
	if m.Widens(from, to) {
		return conv(model.ConvNumericWidening, v, to)
	}

	in := m.Types
	fromUnion, toUnion := in.Union(from) != nil, in.Union(to) != nil
	switch {
	case !fromUnion && toUnion:
		for _, mem := range in.Union(to).Members {
			if Implicit(m, v, mem) != nil {
				return conv(model.ConvNonUnionToUnion, v, to)
			}
		}
		return nil
	case fromUnion && toUnion:
		if unionFits(m, from, to) {
			return conv(model.ConvUnionToUnion, v, to)
		}
		return nil
	case fromUnion:
		return nil
	}

	if in.Record(from) != nil && in.Record(to) != nil {
		if recordFits(m, from, to) {
			return conv(model.ConvRecordToRecord, v, to)
		}
		return nil
	}
	if m.IsSubtypeOf(from, to) {
		return conv(model.ConvToCovariant, v, to)
	}
	return nil
}

// ImplicitType reports whether a value of type from converts implicitly
// to to.
func ImplicitType(m *model.Model, from, to model.TypeID) bool {
	return Implicit(m, &model.Plain{Type: from}, to) != nil
}

func conv(kind model.ConversionKind, v model.Symbol, to model.TypeID) *model.Conversion {
	return &model.Conversion{Kind: kind, Base: v, Type: to}
}

// unionFits requires every member of from to convert into to. Null and
// undefined members are accepted when the target admits them.
func unionFits(m *model.Model, from, to model.TypeID) bool {
	b := &m.Builtins
	for _, mem := range m.Types.Union(from).Members {
		switch mem {
		case b.Null:
			if !m.IncludesNull(to) {
				return false
			}
			continue
		case b.Undefined:
			if !m.IncludesUndefined(to) {
				return false
			}
			continue
		}
		if !ImplicitType(m, mem, to) {
			return false
		}
	}
	return true
}

// recordFits implements width subtyping: every field of to must exist in
// from with the identical type, unless the field is optional.
func recordFits(m *model.Model, from, to model.TypeID) bool {
	src := m.Types.Record(from)
	for _, f := range m.Types.Record(to).Fields {
		t, ok := src.Field(f.Name)
		switch {
		case ok && t == f.Type:
		case !ok && m.IncludesUndefined(f.Type):
		default:
			return false
		}
	}
	return true
}

// proxyAccepting returns the static conversion proxy of kind declared by
// target whose parameter accepts from.
func proxyAccepting(m *model.Model, target model.TypeID, kind model.ProxyKind, from model.TypeID) *model.MethodSlot {
	switch m.Types.Kind(target) {
	case model.KindClass, model.KindInstance, model.KindEnum:
	default:
		return nil
	}
	p := m.Proxy(target, kind)
	if p == nil {
		return nil
	}
	fn := m.Types.Function(m.TypeOf(p))
	if fn == nil || len(fn.Params) != 1 {
		return nil
	}
	param := fn.Params[0]
	if param == from || m.IsSubtypeOf(from, param) || m.Widens(from, param) {
		return p
	}
	return nil
}
