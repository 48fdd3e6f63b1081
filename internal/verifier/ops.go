package verifier

import (
	"math"
	"math/big"

	"ripple/internal/ast"
	"ripple/internal/convert"
	"ripple/internal/diag"
	"ripple/internal/model"
	"ripple/internal/source"
)

func (v *Verifier) numericCtx(ctx model.TypeID) model.TypeID {
	if ctx == model.NoType {
		return model.NoType
	}
	if t := v.m.ToNonNullableType(ctx); v.m.IsNumeric(t) {
		return t
	}
	return model.NoType
}

func (v *Verifier) unary(id ast.ExprID, e *ast.Expr, ctx model.TypeID) model.Symbol {
	u, _ := v.b.Exprs.Unary(id)
	m := v.m
	b := &m.Builtins
	if u.Op.IsUpdate() {
		target := v.verifyExpr(u.Operand, model.NoType)
		if target == nil {
			return nil
		}
		tt := v.assignable(target, v.spanOf(u.Operand))
		if tt == model.NoType {
			return nil
		}
		if tt != b.Any && !m.IsNumeric(tt) {
			v.report(diag.VerifyIllegalOperand, e.Span, diag.Args{"op": u.Op.String(), "type": v.label(tt)})
			return nil
		}
		return &model.Plain{Type: tt}
	}
	if u.Op == ast.UnaryNot {
		val := v.value(u.Operand, model.NoType)
		if c, ok := val.(*model.Constant); ok && c.Kind == model.ConstBoolean {
			return m.BoolConst(!c.Bool)
		}
		return &model.Plain{Type: b.Boolean}
	}

	val := v.value(u.Operand, v.numericCtx(ctx))
	if val == nil {
		return nil
	}
	t := m.TypeOf(val)
	if t == b.Any {
		return &model.Plain{Type: t}
	}
	c, _ := val.(*model.Constant)
	switch u.Op {
	case ast.UnaryNeg, ast.UnaryPlus:
		if !m.IsNumeric(t) {
			break
		}
		if c != nil && u.Op == ast.UnaryNeg {
			if r := v.negate(c); r != nil {
				return r
			}
		}
		if c != nil {
			return c
		}
		return &model.Plain{Type: t}
	case ast.UnaryBitNot:
		if !m.IsIntegerType(t) {
			break
		}
		if c != nil {
			if n := new(big.Int).Not(c.Int); model.FitsInteger(c.Kind, n) {
				return m.IntConst(c.Kind, n)
			}
		}
		return &model.Plain{Type: t}
	}
	v.report(diag.VerifyIllegalOperand, e.Span, diag.Args{"op": u.Op.String(), "type": v.label(t)})
	return nil
}

func (v *Verifier) negate(c *model.Constant) *model.Constant {
	switch {
	case c.Kind.IsInteger():
		if n := new(big.Int).Neg(c.Int); model.FitsInteger(c.Kind, n) {
			return v.m.IntConst(c.Kind, n)
		}
	case c.Kind == model.ConstNumber:
		return v.m.NumberConst(-c.Num)
	case c.Kind == model.ConstDecimal:
		return v.m.DecimalConst(new(big.Float).Neg(c.Dec))
	}
	return nil
}

func (v *Verifier) binary(id ast.ExprID, e *ast.Expr, ctx model.TypeID) model.Symbol {
	bin, _ := v.b.Exprs.Binary(id)
	m := v.m
	b := &m.Builtins

	switch {
	case bin.Op.IsLogical():
		l := v.value(bin.Left, ctx)
		r := v.value(bin.Right, ctx)
		if l == nil || r == nil {
			return nil
		}
		lt, rt := m.TypeOf(l), m.TypeOf(r)
		if bin.Op == ast.BinaryNullish {
			lt = m.ToNonNullableType(lt)
		} else if lc, ok := l.(*model.Constant); ok && lc.Kind == model.ConstBoolean {
			if rc, ok := r.(*model.Constant); ok && rc.Kind == model.ConstBoolean {
				if bin.Op == ast.BinaryAnd {
					return m.BoolConst(lc.Bool && rc.Bool)
				}
				return m.BoolConst(lc.Bool || rc.Bool)
			}
		}
		if lt == rt {
			return &model.Plain{Type: lt}
		}
		return &model.Plain{Type: m.Types.InternUnion([]model.TypeID{lt, rt})}
	case bin.Op == ast.BinaryIn:
		v.value(bin.Left, b.String)
		v.value(bin.Right, model.NoType)
		return &model.Plain{Type: b.Boolean}
	case bin.Op.IsComparison():
		l, r := v.operands(bin, model.NoType)
		if l != nil && r != nil && bin.Op >= ast.BinaryLt {
			lt, rt := m.TypeOf(l), m.TypeOf(r)
			if !v.ordered(lt, rt) {
				v.illegalOperands(bin.Op, lt, rt, e.Span)
			}
		}
		return &model.Plain{Type: b.Boolean}
	}

	nctx := v.numericCtx(ctx)
	if nctx == model.NoType && (isShift(bin.Op) || isBitwise(bin.Op)) {
		nctx = b.Int
	}
	l, r := v.operands(bin, nctx)
	if l == nil || r == nil {
		return nil
	}
	res := v.binaryType(bin.Op, m.TypeOf(l), m.TypeOf(r), e.Span)
	lc, lok := l.(*model.Constant)
	rc, rok := r.(*model.Constant)
	if lok && rok {
		if c := v.fold(bin.Op, lc, rc, res); c != nil {
			return c
		}
	}
	return &model.Plain{Type: res}
}

// operands verifies both sides of a binary operator. A Number literal
// next to an integer operand is re-folded to that integer type.
func (v *Verifier) operands(bin *ast.BinaryExpr, ctx model.TypeID) (model.Symbol, model.Symbol) {
	l := v.value(bin.Left, ctx)
	rctx := ctx
	if rctx == model.NoType && l != nil && v.m.IsIntegerType(v.m.TypeOf(l)) {
		rctx = v.m.TypeOf(l)
	}
	r := v.value(bin.Right, rctx)
	if l == nil || r == nil {
		return l, r
	}
	if c, ok := l.(*model.Constant); ok && c.Kind == model.ConstNumber {
		if rt := v.m.TypeOf(r); v.m.IsIntegerType(rt) {
			if folded := convert.Constant(v.m, c, rt); folded != nil {
				l = folded
			}
		}
	}
	return l, r
}

func (v *Verifier) ordered(lt, rt model.TypeID) bool {
	m := v.m
	b := &m.Builtins
	switch {
	case lt == b.Any || rt == b.Any:
		return true
	case m.IsNumeric(lt) && m.IsNumeric(rt):
		return true
	case lt == b.String && rt == b.String:
		return true
	case lt == rt && m.Types.Enum(lt) != nil:
		return true
	}
	return false
}

func (v *Verifier) illegalOperands(op ast.BinaryOp, lt, rt model.TypeID, sp source.Span) {
	v.report(diag.VerifyIllegalOperands, sp, diag.Args{"op": op.String(), "left": v.label(lt), "right": v.label(rt)})
}

// binaryType is the result type of an arithmetic, shift or bitwise
// operator. Numeric operands produce the wider of the two types; "+" with
// a String operand concatenates; "&", "|" and "^" also combine values of
// one flags enum.
func (v *Verifier) binaryType(op ast.BinaryOp, lt, rt model.TypeID, sp source.Span) model.TypeID {
	m := v.m
	b := &m.Builtins
	if op == ast.BinaryAdd && (lt == b.String || rt == b.String) {
		return b.String
	}
	if lt == b.Any || rt == b.Any {
		return b.Any
	}
	switch op {
	case ast.BinaryAdd, ast.BinarySub, ast.BinaryMul, ast.BinaryDiv, ast.BinaryMod, ast.BinaryPow:
		if m.IsNumeric(lt) && m.IsNumeric(rt) {
			return v.wider(lt, rt)
		}
	case ast.BinaryShl, ast.BinaryShr, ast.BinaryUShr:
		if m.IsIntegerType(lt) && m.IsIntegerType(rt) {
			return lt
		}
	case ast.BinaryBitAnd, ast.BinaryBitOr, ast.BinaryBitXor:
		if m.IsIntegerType(lt) && m.IsIntegerType(rt) {
			return v.wider(lt, rt)
		}
		if e := m.Types.Enum(lt); lt == rt && e != nil && e.IsFlags {
			return lt
		}
	}
	v.illegalOperands(op, lt, rt, sp)
	return b.Any
}

func (v *Verifier) wider(a, b model.TypeID) model.TypeID {
	switch {
	case a == b, v.m.Widens(b, a):
		return a
	case v.m.Widens(a, b):
		return b
	}
	return v.m.Builtins.Number
}

// fold evaluates an operator over two constants. It returns nil when the
// result is not representable as a constant of type res.
func (v *Verifier) fold(op ast.BinaryOp, l, r *model.Constant, res model.TypeID) *model.Constant {
	m := v.m
	if res == m.Builtins.String {
		if op == ast.BinaryAdd && l.Kind == model.ConstString && r.Kind == model.ConstString {
			return m.StringConst(l.Str + r.Str)
		}
		return nil
	}
	if l.Kind == model.ConstEnum && r.Kind == model.ConstEnum && l.Type == res {
		n := bitwise(op, l.Int, r.Int)
		if n == nil {
			return nil
		}
		return m.EnumConst(res, n)
	}

	k := m.NumericKind(res)
	lc := convert.Constant(m, l, res)
	if lc == nil {
		return nil
	}
	rc := r
	if isShift(op) && !r.Kind.IsInteger() {
		return nil
	}
	if !isShift(op) {
		if rc = convert.Constant(m, r, res); rc == nil {
			return nil
		}
	}
	switch {
	case k.IsInteger():
		n := intOp(op, lc.Int, rc.Int)
		if n == nil || !model.FitsInteger(k, n) {
			return nil
		}
		return m.IntConst(k, n)
	case k == model.ConstNumber:
		f, ok := floatOp(op, lc.Num, rc.Num)
		if !ok {
			return nil
		}
		return m.NumberConst(f)
	}
	return nil
}

func isShift(op ast.BinaryOp) bool {
	return op == ast.BinaryShl || op == ast.BinaryShr || op == ast.BinaryUShr
}

func isBitwise(op ast.BinaryOp) bool {
	return op == ast.BinaryBitAnd || op == ast.BinaryBitOr || op == ast.BinaryBitXor
}

func bitwise(op ast.BinaryOp, a, b *big.Int) *big.Int {
	switch op {
	case ast.BinaryBitAnd:
		return new(big.Int).And(a, b)
	case ast.BinaryBitOr:
		return new(big.Int).Or(a, b)
	case ast.BinaryBitXor:
		return new(big.Int).Xor(a, b)
	}
	return nil
}

func intOp(op ast.BinaryOp, a, b *big.Int) *big.Int {
	switch op {
	case ast.BinaryAdd:
		return new(big.Int).Add(a, b)
	case ast.BinarySub:
		return new(big.Int).Sub(a, b)
	case ast.BinaryMul:
		return new(big.Int).Mul(a, b)
	case ast.BinaryDiv:
		if b.Sign() == 0 {
			return nil
		}
		return new(big.Int).Quo(a, b)
	case ast.BinaryMod:
		if b.Sign() == 0 {
			return nil
		}
		return new(big.Int).Rem(a, b)
	case ast.BinaryPow:
		if b.Sign() < 0 || b.BitLen() > 16 {
			return nil
		}
		return new(big.Int).Exp(a, b, nil)
	case ast.BinaryShl, ast.BinaryShr, ast.BinaryUShr:
		if b.Sign() < 0 || !b.IsInt64() || b.Int64() > 64 {
			return nil
		}
		s := uint(b.Int64())
		switch {
		case op == ast.BinaryShl:
			return new(big.Int).Lsh(a, s)
		case op == ast.BinaryUShr && a.Sign() < 0:
			return nil
		}
		return new(big.Int).Rsh(a, s)
	}
	return bitwise(op, a, b)
}

func floatOp(op ast.BinaryOp, a, b float64) (float64, bool) {
	switch op {
	case ast.BinaryAdd:
		return a + b, true
	case ast.BinarySub:
		return a - b, true
	case ast.BinaryMul:
		return a * b, true
	case ast.BinaryDiv:
		return a / b, true
	case ast.BinaryMod:
		return math.Mod(a, b), true
	case ast.BinaryPow:
		return math.Pow(a, b), true
	}
	return 0, false
}
