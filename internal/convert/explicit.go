package convert

import (
	"ripple/internal/model"
)

// Explicit converts v for an "as" expression. Everything Implicit allows
// is allowed with the same result; beyond that explicit proxies, union
// member narrowing, downcasts, array element casts, numeric narrowing and
// string or number to enum conversions apply. With optional set ("as?")
// the result type is nullable.
func Explicit(m *model.Model, v model.Symbol, to model.TypeID, optional bool) model.Symbol {
	if r := Implicit(m, v, to); r != nil {
		return r
	}
	from := m.TypeOf(v)
	if from == model.NoType || to == model.NoType || to == m.Builtins.Void {
		return nil
	}
	kind, proxy := explicitRule(m, from, to)
	if kind == 0 {
		return nil
	}
	c := conv(kind, v, to)
	c.Proxy = proxy
	if optional {
		c.Optional = true
		c.Type = m.ToNullableType(to)
	}
	return c
}

func explicitRule(m *model.Model, from, to model.TypeID) (model.ConversionKind, *model.MethodSlot) {
	in := m.Types
	b := &m.Builtins

	if p := proxyAccepting(m, to, model.ProxyConvertExplicit, from); p != nil {
		return model.ConvExplicitProxy, p
	}
	if u := in.Union(from); u != nil {
		for _, mem := range u.Members {
			if mem == to || ImplicitType(m, mem, to) {
				return model.ConvUnionMemberNarrowing, nil
			}
		}
	}
	if m.IsSubtypeOf(to, from) {
		return model.ConvToContravariant, nil
	}
	if fe, ok := m.ElementOf(from); ok {
		if te, ok := m.ElementOf(to); ok {
			switch {
			case m.IsSubtypeOf(fe, te) || ImplicitType(m, fe, te):
				return model.ConvArrayCovariant, nil
			case m.IsSubtypeOf(te, fe):
				return model.ConvArrayContravariant, nil
			}
		}
	}
	if m.IsNumeric(from) && m.IsNumeric(to) {
		return model.ConvNumericNarrowing, nil
	}
	if in.Enum(to) != nil {
		switch {
		case from == b.String:
			return model.ConvStringToEnum, nil
		case m.IsNumeric(from):
			return model.ConvNumberToEnum, nil
		}
	}
	return 0, nil
}
