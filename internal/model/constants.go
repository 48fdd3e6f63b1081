package model

import "math/big"

func (m *Model) BoolConst(v bool) *Constant {
	return &Constant{Kind: ConstBoolean, Type: m.Builtins.Boolean, Bool: v}
}

func (m *Model) StringConst(s string) *Constant {
	return &Constant{Kind: ConstString, Type: m.Builtins.String, Str: s}
}

func (m *Model) NumberConst(f float64) *Constant {
	return &Constant{Kind: ConstNumber, Type: m.Builtins.Number, Num: f}
}

func (m *Model) DecimalConst(f *big.Float) *Constant {
	return &Constant{Kind: ConstDecimal, Type: m.Builtins.Decimal, Dec: f}
}

// IntConst builds an integer constant of kind k. The value is copied.
func (m *Model) IntConst(k ConstKind, n *big.Int) *Constant {
	return &Constant{Kind: k, Type: m.NumericType(k), Int: new(big.Int).Set(n)}
}

func (m *Model) EnumConst(enum TypeID, n *big.Int) *Constant {
	return &Constant{Kind: ConstEnum, Type: enum, Int: new(big.Int).Set(n)}
}

func (m *Model) NullConst() *Constant {
	return &Constant{Kind: ConstNull, Type: m.Builtins.Null}
}

func (m *Model) UndefinedConst() *Constant {
	return &Constant{Kind: ConstUndefined, Type: m.Builtins.Undefined}
}

// ZeroConst returns the zero constant of a numeric type.
func (m *Model) ZeroConst(t TypeID) *Constant {
	switch k := m.NumericKind(t); {
	case k.IsInteger():
		return m.IntConst(k, new(big.Int))
	case k == ConstNumber:
		return m.NumberConst(0)
	case k == ConstDecimal:
		return m.DecimalConst(new(big.Float))
	}
	return nil
}
