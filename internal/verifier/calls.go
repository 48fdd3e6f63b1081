package verifier

import (
	"ripple/internal/ast"
	"ripple/internal/convert"
	"ripple/internal/diag"
	"ripple/internal/model"
	"ripple/internal/source"
)

// call verifies a call. A type in callee position is an explicit
// conversion of the single argument.
func (v *Verifier) call(id ast.ExprID, e *ast.Expr) model.Symbol {
	c, _ := v.b.Exprs.Call(id)
	target := v.verifyExpr(c.Target, model.NoType)
	if target == nil {
		v.looseArgs(c.Args)
		return nil
	}
	if t, ok := target.(model.TypeID); ok && len(c.TypeArgs) == 0 {
		return v.conversionCall(t, c.Args, e.Span)
	}

	fn := v.asValue(target, v.spanOf(c.Target))
	if fn == nil {
		v.looseArgs(c.Args)
		return nil
	}
	in := v.m.Types
	ft := v.m.ToNonNullableType(v.m.TypeOf(fn))
	if in.Kind(ft) == model.KindAny || ft == v.m.Builtins.Function {
		v.looseArgs(c.Args)
		return &model.Plain{Type: v.m.Builtins.Any}
	}
	sig := in.Function(ft)
	if sig == nil {
		v.report(diag.VerifyNotCallable, e.Span, diag.Args{"type": v.label(ft)})
		v.looseArgs(c.Args)
		return nil
	}
	if ms, ok := slotOf(fn).(*model.MethodSlot); ok && ms.IsGeneric() {
		sig = v.instantiateCall(ms, sig, c, e.Span)
	} else if len(c.TypeArgs) > 0 {
		v.report(diag.VerifyNotAGenericType, e.Span, diag.Args{"name": v.describe(fn)})
	}
	v.checkArgs(sig, c.Args, e.Span)

	res := sig.Result
	if mem, ok := v.b.Exprs.Member(c.Target); ok && mem.Optional {
		res = v.m.ToNullableType(res)
	}
	return &model.Plain{Type: res}
}

func (v *Verifier) conversionCall(t model.TypeID, args []ast.ExprID, sp source.Span) model.Symbol {
	if len(args) != 1 {
		code := diag.VerifyTooFewArguments
		if len(args) > 1 {
			code = diag.VerifyTooManyArguments
		}
		v.report(code, sp, diag.Args{"expected": 1, "got": len(args)})
		v.looseArgs(args)
		return &model.Plain{Type: t}
	}
	val := v.value(args[0], t)
	if val == nil {
		return &model.Plain{Type: t}
	}
	if r := convert.Explicit(v.m, val, t, false); r != nil {
		return r
	}
	v.report(diag.VerifyIllegalConversion, sp, diag.Args{"from": v.label(v.m.TypeOf(val)), "to": v.label(t)})
	return &model.Plain{Type: t}
}

// instantiateCall substitutes the type parameters of a generic method,
// from explicit type arguments or inferred from the arguments bound
// directly to a parameter. Uninferred parameters become Any.
func (v *Verifier) instantiateCall(ms *model.MethodSlot, sig *model.FnInfo, c *ast.CallExpr, sp source.Span) *model.FnInfo {
	params := ms.TypeParams
	args := make([]model.TypeID, len(params))
	if len(c.TypeArgs) > 0 {
		explicit := make([]model.TypeID, 0, len(c.TypeArgs))
		for _, ta := range c.TypeArgs {
			explicit = append(explicit, v.resolveType(ta))
		}
		if len(explicit) != len(params) {
			v.report(diag.VerifyWrongTypeArgumentCount, sp, diag.Args{"expected": len(params), "got": len(explicit)})
		}
		for i, p := range params {
			if i >= len(explicit) {
				args[i] = v.m.Builtins.Any
				continue
			}
			args[i] = explicit[i]
			if !v.satisfiesBounds(explicit[i], p) {
				v.report(diag.VerifyTypeArgumentConstraint, sp, diag.Args{"type": v.label(explicit[i]), "name": v.m.Types.TypeParam(p).Name})
			}
		}
	} else {
		for i, a := range c.Args {
			pt := hintParam(sig, i)
			idx := indexOf(params, pt)
			if idx < 0 || args[idx] != model.NoType || v.isSpread(a) {
				continue
			}
			if val := v.value(a, model.NoType); val != nil {
				args[idx] = v.m.TypeOf(val)
			}
		}
		for i := range args {
			if args[i] == model.NoType {
				args[i] = v.m.Builtins.Any
			}
		}
	}
	spec := v.m.ReplaceTypes(v.m.Types.InternFunction(*sig), params, args)
	if out := v.m.Types.Function(spec); out != nil {
		return out
	}
	return sig
}

func indexOf(ids []model.TypeID, t model.TypeID) int {
	for i, id := range ids {
		if id == t {
			return i
		}
	}
	return -1
}

func (v *Verifier) isSpread(id ast.ExprID) bool {
	e := v.b.Exprs.Get(id)
	return e != nil && e.Kind == ast.ExprSpread
}

// paramType is the type the i-th argument converts to, or NoType past
// the end of a signature without a rest parameter.
func (v *Verifier) paramType(sig *model.FnInfo, i int) model.TypeID {
	if t := hintParam(sig, i); t != model.NoType {
		return t
	}
	if sig.Rest != model.NoType {
		if elem, ok := v.m.ElementOf(sig.Rest); ok {
			return elem
		}
		return v.m.Builtins.Any
	}
	return model.NoType
}

// checkArgs converts each argument to its parameter type and checks the
// count. A trailing spread argument covers any remaining parameters.
func (v *Verifier) checkArgs(sig *model.FnInfo, args []ast.ExprID, sp source.Span) {
	spread := false
	count := 0
	for i, a := range args {
		if v.isSpread(a) {
			if i != len(args)-1 {
				v.report(diag.VerifyIllegalSpreadPosition, v.spanOf(a), nil)
			}
			arr := model.NoType
			if t := v.paramType(sig, i); t != model.NoType {
				arr = v.m.ArrayOf(t)
			}
			v.spreadValue(a, arr)
			spread = true
			continue
		}
		count++
		t := v.paramType(sig, i)
		if t == model.NoType {
			v.value(a, model.NoType)
			continue
		}
		v.valueAs(a, t)
	}
	lo, hi := len(sig.Params), len(sig.Params)+len(sig.Optional)
	switch {
	case count < lo && !spread:
		v.report(diag.VerifyTooFewArguments, sp, diag.Args{"expected": lo, "got": count})
	case count > hi && sig.Rest == model.NoType:
		v.report(diag.VerifyTooManyArguments, sp, diag.Args{"expected": hi, "got": count})
	}
}

// spreadValue verifies the operand of a spread in an allowed position.
func (v *Verifier) spreadValue(id ast.ExprID, arr model.TypeID) model.Symbol {
	e := v.b.Exprs.Get(id)
	s, _ := v.b.Exprs.Value(id)
	val := v.value(s.Value, arr)
	if val != nil {
		if t := v.m.TypeOf(val); t != v.m.Builtins.Any {
			if _, ok := v.m.ElementOf(t); !ok && v.m.Types.Tuple(t) == nil {
				v.report(diag.VerifyNotIterable, e.Span, diag.Args{"type": v.label(t)})
				val = nil
			} else if arr != model.NoType {
				val = v.convertTo(val, arr, e.Span)
			}
		}
	}
	e.Sem.Resolved, e.Sem.Symbol = true, val
	return val
}

// looseArgs verifies arguments whose parameters are unknown.
func (v *Verifier) looseArgs(args []ast.ExprID) {
	for _, a := range args {
		if v.isSpread(a) {
			v.spreadValue(a, model.NoType)
			continue
		}
		v.value(a, model.NoType)
	}
}

func (v *Verifier) construct(id ast.ExprID, e *ast.Expr) model.Symbol {
	nw, _ := v.b.Exprs.Construct(id)
	t := v.resolveType(nw.Type)
	switch {
	case t == model.NoType:
		v.looseArgs(nw.Args)
		return nil
	case t == v.m.Builtins.Any:
		v.looseArgs(nw.Args)
		return &model.Plain{Type: t}
	}
	if v.m.Types.Class(v.m.Types.OriginOf(t)) == nil {
		v.report(diag.VerifyNotConstructible, e.Span, diag.Args{"type": v.label(t)})
		v.looseArgs(nw.Args)
		return nil
	}
	v.checkCtorArgs(t, nw.Args, e.Span)
	return &model.Plain{Type: t}
}

// checkCtorArgs checks arguments against the constructor t declares or
// inherits. Classes without one take no arguments.
func (v *Verifier) checkCtorArgs(t model.TypeID, args []ast.ExprID, sp source.Span) {
	if t == model.NoType {
		v.looseArgs(args)
		return
	}
	sig := v.ctorSig(t)
	if sig == nil {
		sig = &model.FnInfo{Result: v.m.Builtins.Void}
	}
	v.checkArgs(sig, args, sp)
}

func (v *Verifier) ctorSig(t model.TypeID) *model.FnInfo {
	in := v.m.Types
	for cur, guard := t, 0; cur != model.NoType && guard < 64; cur, guard = v.m.SuperClass(cur), guard+1 {
		info := in.Class(in.OriginOf(cur))
		if info == nil {
			return nil
		}
		if info.Ctor == nil {
			continue
		}
		var ctor model.Symbol = info.Ctor
		if args := in.ArgsOf(cur); len(args) > 0 {
			ctor = v.m.Specialise(info.Ctor, &model.Subst{From: info.TypeParams, To: args})
		}
		return in.Function(v.m.TypeOf(ctor))
	}
	return nil
}

// functionLit declares, signs and verifies a function expression. An
// expected function type supplies unannotated parameter and result types.
func (v *Verifier) functionLit(id ast.ExprID, ctx model.TypeID) model.Symbol {
	f, _ := v.b.Exprs.Function(id)
	item := v.b.Items.Get(f.Item)
	if item == nil {
		return nil
	}
	var hint *model.FnInfo
	if ctx != model.NoType {
		hint = v.m.Types.Function(v.m.ToNonNullableType(ctx))
	}
	ms := v.declareFn(f.Item, item, v.owner(), v.thisType())
	v.resolveFn(f.Item, hint)
	v.verifyFnBody(f.Item)
	return &model.Plain{Type: v.m.TypeOf(ms)}
}
