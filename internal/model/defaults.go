package model

import "math/big"

// DefaultValue returns the value a variable of type t holds when declared
// without an initialiser, or nil when t has none and the variable must be
// initialised.
func (m *Model) DefaultValue(t TypeID) *Constant {
	b := &m.Builtins
	switch {
	case t == b.Any || t == b.Undefined || m.IncludesUndefined(t):
		return m.UndefinedConst().WithType(t)
	case m.IncludesNull(t):
		return m.NullConst().WithType(t)
	case t == b.Boolean:
		return m.BoolConst(false)
	case t == b.String:
		return m.StringConst("")
	case m.IsNumeric(t):
		return m.ZeroConst(t)
	}
	if e := m.Types.Enum(t); e != nil && e.IsFlags {
		return m.EnumConst(t, new(big.Int))
	}
	return nil
}
