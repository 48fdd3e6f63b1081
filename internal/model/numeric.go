package model

import "math/big"

// NumericKind maps a built-in numeric class to its constant kind, or 0.
func (m *Model) NumericKind(t TypeID) ConstKind {
	b := &m.Builtins
	switch t {
	case b.Byte:
		return ConstByte
	case b.Short:
		return ConstShort
	case b.Int:
		return ConstInt
	case b.Long:
		return ConstLong
	case b.BigInt:
		return ConstBigInt
	case b.Number:
		return ConstNumber
	case b.Decimal:
		return ConstDecimal
	}
	return 0
}

// NumericType is the inverse of NumericKind.
func (m *Model) NumericType(k ConstKind) TypeID {
	b := &m.Builtins
	switch k {
	case ConstByte:
		return b.Byte
	case ConstShort:
		return b.Short
	case ConstInt:
		return b.Int
	case ConstLong:
		return b.Long
	case ConstBigInt:
		return b.BigInt
	case ConstNumber:
		return b.Number
	case ConstDecimal:
		return b.Decimal
	}
	return NoType
}

func (m *Model) IsNumeric(t TypeID) bool { return m.NumericKind(t) != 0 }

func (m *Model) IsIntegerType(t TypeID) bool { return m.NumericKind(t).IsInteger() }

// Widens reports whether from widens implicitly to to: along
// Byte, Short, Int, Long, BigInt, and from any integer to Number and from
// there to Decimal. Equal kinds do not widen.
func (m *Model) Widens(from, to TypeID) bool {
	return m.NumericKind(from).WidensTo(m.NumericKind(to))
}

// WidensTo reports whether a value of kind a converts implicitly to kind
// b: Byte, Short, Int, Long, BigInt in order, any integer to Number or
// Decimal, Number to Decimal.
func (a ConstKind) WidensTo(b ConstKind) bool {
	if a == 0 || b == 0 || a == b {
		return false
	}
	switch {
	case a.IsInteger() && b.IsInteger():
		return a < b
	case a.IsInteger():
		return b == ConstNumber || b == ConstDecimal
	case a == ConstNumber:
		return b == ConstDecimal
	}
	return false
}

var (
	intLimits = map[ConstKind][2]*big.Int{
		ConstByte:  {big.NewInt(0), big.NewInt(255)},
		ConstShort: {big.NewInt(-1 << 15), big.NewInt(1<<15 - 1)},
		ConstInt:   {big.NewInt(-1 << 31), big.NewInt(1<<31 - 1)},
		ConstLong:  {big.NewInt(-1 << 63), big.NewInt(1<<63 - 1)},
	}
)

// FitsInteger reports whether n is representable by integer kind k.
// BigInt is unbounded.
func FitsInteger(k ConstKind, n *big.Int) bool {
	lim, ok := intLimits[k]
	if !ok {
		return k == ConstBigInt
	}
	return n.Cmp(lim[0]) >= 0 && n.Cmp(lim[1]) <= 0
}

// WrapInteger truncates n to the two's complement range of k, the way an
// explicit narrowing conversion does. Byte is unsigned.
func WrapInteger(k ConstKind, n *big.Int) *big.Int {
	var bits uint
	switch k {
	case ConstByte:
		bits = 8
	case ConstShort:
		bits = 16
	case ConstInt:
		bits = 32
	case ConstLong:
		bits = 64
	default:
		return new(big.Int).Set(n)
	}
	mod := new(big.Int).Lsh(big.NewInt(1), bits)
	r := new(big.Int).Mod(n, mod)
	if k != ConstByte && r.Cmp(new(big.Int).Rsh(mod, 1)) >= 0 {
		r.Sub(r, mod)
	}
	return r
}
