package convert

import (
	"math"
	"math/big"

	"ripple/internal/model"
)

// Constant converts a compile-time constant to another representation
// without leaving the constant domain. Integer constants widen; Number
// constants, which is what numeric literals fold to by default, may also
// become any integer kind they represent exactly. Null and undefined
// retype into types that include them. Nil means no constant conversion
// applies.
func Constant(m *model.Model, c *model.Constant, to model.TypeID) *model.Constant {
	if c == nil || to == model.NoType {
		return nil
	}
	if c.Type == to {
		return c
	}
	if to == m.Builtins.Any {
		return nil
	}
	switch c.Kind {
	case model.ConstNull:
		if m.IncludesNull(to) {
			return c.WithType(to)
		}
		return nil
	case model.ConstUndefined:
		if m.IncludesUndefined(to) {
			return c.WithType(to)
		}
		return nil
	}

	tk := m.NumericKind(to)
	if tk == 0 || !isNumeric(c.Kind) {
		return nil
	}
	if c.Kind != model.ConstNumber && !c.Kind.WidensTo(tk) {
		return nil
	}
	return fold(m, c, tk)
}

func isNumeric(k model.ConstKind) bool {
	return k.IsInteger() || k == model.ConstNumber || k == model.ConstDecimal
}

// fold re-represents c as kind k when the value survives exactly.
func fold(m *model.Model, c *model.Constant, k model.ConstKind) *model.Constant {
	switch {
	case k.IsInteger():
		n, ok := integerOf(c)
		if !ok || !model.FitsInteger(k, n) {
			return nil
		}
		return m.IntConst(k, n)
	case k == model.ConstNumber:
		if c.Kind.IsInteger() {
			f, acc := new(big.Float).SetInt(c.Int).Float64()
			if acc != big.Exact {
				return nil
			}
			return m.NumberConst(f)
		}
	case k == model.ConstDecimal:
		if c.Kind.IsInteger() {
			return m.DecimalConst(new(big.Float).SetInt(c.Int))
		}
		if c.Kind == model.ConstNumber && !math.IsNaN(c.Num) {
			return m.DecimalConst(big.NewFloat(c.Num))
		}
	}
	return nil
}

func integerOf(c *model.Constant) (*big.Int, bool) {
	switch {
	case c.Kind.IsInteger():
		return c.Int, true
	case c.Kind == model.ConstNumber:
		if math.IsNaN(c.Num) || math.IsInf(c.Num, 0) || c.Num != math.Trunc(c.Num) {
			return nil, false
		}
		n, _ := big.NewFloat(c.Num).Int(nil)
		return n, true
	}
	return nil, false
}
