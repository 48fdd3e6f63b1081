package verifier

import (
	"ripple/internal/ast"
	"ripple/internal/convert"
	"ripple/internal/diag"
	"ripple/internal/model"
	"ripple/internal/source"
)

// verifyExpr verifies an expression once and caches the resulting symbol.
// ctx is the type the surrounding context expects, or NoType; literals,
// function expressions and numeric operators use it to pick their type.
// The result may be a type, namespace or package; use value when a value
// is required.
func (v *Verifier) verifyExpr(id ast.ExprID, ctx model.TypeID) model.Symbol {
	e := v.b.Exprs.Get(id)
	if e == nil {
		return nil
	}
	if e.Sem.Resolved {
		return e.Sem.Symbol
	}
	e.Sem.Resolved = true
	sym := v.exprSymbol(id, e, ctx)
	e.Sem.Symbol = sym
	return sym
}

func (v *Verifier) exprSymbol(id ast.ExprID, e *ast.Expr, ctx model.TypeID) model.Symbol {
	b := &v.m.Builtins
	switch e.Kind {
	case ast.ExprIdent:
		n, _ := v.b.Exprs.Ident(id)
		sym, err := v.lookupName(n.Name, e.Span)
		if err != nil {
			v.reportErr(err)
			return nil
		}
		return sym
	case ast.ExprParen:
		p, _ := v.b.Exprs.Value(id)
		return v.verifyExpr(p.Value, ctx)
	case ast.ExprLit:
		return v.literal(id, e, ctx)
	case ast.ExprThis:
		t := v.thisType()
		if t == model.NoType {
			v.report(diag.VerifyThisUnavailable, e.Span, nil)
			return nil
		}
		return &model.This{Type: t}
	case ast.ExprSuper:
		super := v.m.SuperClass(v.thisType())
		if super == model.NoType {
			v.report(diag.VerifySuperUnavailable, e.Span, nil)
			return nil
		}
		return &model.This{Type: super}
	case ast.ExprMember:
		return v.member(id, e)
	case ast.ExprIndex:
		return v.index(id, e)
	case ast.ExprCall:
		return v.call(id, e)
	case ast.ExprNew:
		return v.construct(id, e)
	case ast.ExprAssign:
		return v.assign(id, e)
	case ast.ExprUnary:
		return v.unary(id, e, ctx)
	case ast.ExprBinary:
		return v.binary(id, e, ctx)
	case ast.ExprCond:
		return v.conditional(id, ctx)
	case ast.ExprAs:
		as, _ := v.b.Exprs.As(id)
		val := v.value(as.Value, model.NoType)
		to := v.resolveType(as.Type)
		if val == nil || to == model.NoType {
			return nil
		}
		if r := convert.Explicit(v.m, val, to, as.Optional); r != nil {
			return r
		}
		v.report(diag.VerifyIllegalConversion, e.Span, diag.Args{"from": v.label(v.m.TypeOf(val)), "to": v.label(to)})
		return &model.Plain{Type: to}
	case ast.ExprIs:
		is, _ := v.b.Exprs.Is(id)
		v.value(is.Value, model.NoType)
		v.resolveType(is.Type)
		return &model.Plain{Type: b.Boolean}
	case ast.ExprNonNull:
		nn, _ := v.b.Exprs.Value(id)
		val := v.value(nn.Value, model.NoType)
		if val == nil {
			return nil
		}
		t := v.m.TypeOf(val)
		res := v.m.ToNonNullableType(t)
		if res == t {
			v.warn(diag.WarnUnnecessaryNonNull, e.Span, diag.Args{"type": v.label(t)})
			return val
		}
		return &model.Plain{Type: res}
	case ast.ExprArray:
		return v.arrayLit(id, ctx)
	case ast.ExprObject:
		return v.objectLit(id, ctx)
	case ast.ExprFunction:
		return v.functionLit(id, ctx)
	case ast.ExprAwait:
		return v.await(id, e)
	case ast.ExprYield:
		return v.yield(id, e)
	case ast.ExprSpread:
		s, _ := v.b.Exprs.Value(id)
		v.report(diag.VerifyIllegalSpreadPosition, e.Span, nil)
		v.value(s.Value, model.NoType)
		return nil
	case ast.ExprTypeof:
		t, _ := v.b.Exprs.Value(id)
		v.value(t.Value, model.NoType)
		return &model.Plain{Type: b.String}
	}
	return nil
}

// value verifies id and requires the result to be a readable value.
func (v *Verifier) value(id ast.ExprID, ctx model.TypeID) model.Symbol {
	sym := v.verifyExpr(id, ctx)
	if sym == nil {
		return nil
	}
	return v.asValue(sym, v.spanOf(id))
}

// asValue turns a resolved symbol into the value it reads as. Types read
// as Class values and read-only variables with a constant initialiser
// fold to that constant.
func (v *Verifier) asValue(sym model.Symbol, sp source.Span) model.Symbol {
	switch s := sym.(type) {
	case model.TypeID:
		return &model.Plain{Type: v.m.Builtins.Class}
	case *model.Reference:
		if s.WriteOnly {
			v.report(diag.VerifyCannotReadWriteOnly, sp, diag.Args{"name": s.Name})
			return &model.Plain{Type: v.m.TypeOf(s)}
		}
		if vs, ok := s.Prop.(*model.VariableSlot); ok && vs.ReadOnly {
			t := v.m.TypeOf(s)
			if vs.Init != nil && vs.Init.Type == t {
				return vs.Init
			}
		}
		return s
	}
	if !model.IsValue(sym) {
		v.report(diag.VerifyNotAValue, sp, diag.Args{"name": v.describe(sym)})
		return nil
	}
	return sym
}

// valueAs verifies id as a value implicitly converted to expected. A
// failed conversion reports and yields nil.
func (v *Verifier) valueAs(id ast.ExprID, expected model.TypeID) model.Symbol {
	val := v.value(id, expected)
	if val == nil || expected == model.NoType {
		return val
	}
	return v.convertTo(val, expected, v.spanOf(id))
}

func (v *Verifier) convertTo(val model.Symbol, to model.TypeID, sp source.Span) model.Symbol {
	if r := convert.Implicit(v.m, val, to); r != nil {
		return r
	}
	v.incompatible(sp, to, v.m.TypeOf(val))
	return nil
}

func (v *Verifier) implicitType(from, to model.TypeID) bool {
	return convert.ImplicitType(v.m, from, to)
}

// assignable returns the type a write to sym must convert to, or NoType
// after reporting a target that cannot be written. Constructors may
// initialise the read-only fields of their own class.
func (v *Verifier) assignable(sym model.Symbol, sp source.Span) model.TypeID {
	ref, ok := sym.(*model.Reference)
	if !ok {
		v.report(diag.VerifyCannotAssignReadOnly, sp, diag.Args{"name": v.describe(sym)})
		return model.NoType
	}
	if ref.ReadOnly && !v.initialisesField(ref) {
		v.report(diag.VerifyCannotAssignReadOnly, sp, diag.Args{"name": ref.Name})
		return model.NoType
	}
	return v.m.TypeOf(ref)
}

func (v *Verifier) initialisesField(ref *model.Reference) bool {
	vs, ok := ref.Prop.(*model.VariableSlot)
	if !ok || vs.Static {
		return false
	}
	if _, ok := ref.Base.(*model.This); !ok {
		return false
	}
	act := v.act()
	if act == nil || act.slot == nil || !act.slot.Flags.Has(model.MethodConstructor) {
		return false
	}
	return act.slot.Owner == vs.Origin().Owner
}

// thisType is the receiver type available in the current frame.
func (v *Verifier) thisType() model.TypeID {
	if fr := v.enclosingActivation(); fr != nil {
		return fr.This
	}
	return model.NoType
}

func (v *Verifier) member(id ast.ExprID, e *ast.Expr) model.Symbol {
	mem, _ := v.b.Exprs.Member(id)
	base := v.verifyExpr(mem.Target, model.NoType)
	if base == nil {
		return nil
	}
	sp := mem.NameSpan
	if sp == source.NoSpan {
		sp = e.Span
	}
	switch base.(type) {
	case *model.Package, *model.Namespace, model.TypeID, *model.Alias:
		sym, err := v.lookupRest(base, []string{mem.Name}, 0, sp)
		if err != nil {
			v.reportErr(err)
			return nil
		}
		return sym
	}

	val := v.asValue(base, v.spanOf(mem.Target))
	if val == nil {
		return nil
	}
	sym, err := v.m.ResolveProperty(val, mem.Name)
	if err != nil {
		v.reportErr(lookupErr(err, mem.Name, sp))
		return nil
	}
	if sym == nil {
		v.report(diag.VerifyUndefinedProperty, sp, diag.Args{"name": mem.Name, "type": v.label(v.m.TypeOf(val))})
		return nil
	}
	if !v.accessible(sym) {
		v.report(diag.VerifyInaccessibleReference, sp, diag.Args{"name": mem.Name})
		return nil
	}
	if mem.Optional {
		return &model.Plain{Type: v.m.ToNullableType(v.m.TypeOf(sym))}
	}
	return sym
}

// index resolves target[key] through tuples, records, Any and the
// getIndex/setIndex proxies.
func (v *Verifier) index(id ast.ExprID, e *ast.Expr) model.Symbol {
	ix, _ := v.b.Exprs.Index(id)
	base := v.value(ix.Target, model.NoType)
	if base == nil {
		v.value(ix.Index, model.NoType)
		return nil
	}
	in := v.m.Types
	b := &v.m.Builtins
	t := v.m.ToNonNullableType(v.m.TypeOf(base))

	var ref *model.Reference
	switch {
	case in.Kind(t) == model.KindAny:
		key := v.value(ix.Index, model.NoType)
		ref = &model.Reference{Kind: model.RefDynamic, Base: base, Key: key, Type: b.Any}
	case in.Tuple(t) != nil:
		elems := in.Tuple(t).Elems
		key := v.valueAs(ix.Index, b.Int)
		if c, ok := key.(*model.Constant); ok && c.Int != nil {
			if !c.Int.IsInt64() || c.Int.Int64() < 0 || c.Int.Int64() >= int64(len(elems)) {
				v.report(diag.VerifyTooManyTupleElements, e.Span, diag.Args{"type": v.label(t), "limit": len(elems)})
				return nil
			}
			i := int(c.Int.Int64())
			ref = &model.Reference{Kind: model.RefTupleElement, Base: base, Index: i, Key: key, Type: elems[i]}
			break
		}
		ut := b.Any
		if len(elems) > 0 {
			ut = in.InternUnion(elems)
		}
		ref = &model.Reference{Kind: model.RefIndexed, Base: base, Key: key, Type: ut, ReadOnly: true}
	case in.Record(t) != nil:
		key := v.valueAs(ix.Index, b.String)
		c, ok := key.(*model.Constant)
		if !ok {
			ref = &model.Reference{Kind: model.RefDynamic, Base: base, Key: key, Type: b.Any}
			break
		}
		ft, found := in.Record(t).Field(c.Str)
		if !found {
			v.report(diag.VerifyUndefinedProperty, v.spanOf(ix.Index), diag.Args{"name": c.Str, "type": v.label(t)})
			return nil
		}
		ref = &model.Reference{Kind: model.RefInstanceProperty, Base: base, Name: c.Str, Key: key, Type: ft}
	default:
		get, set := v.m.Proxy(t, model.ProxyGetIndex), v.m.Proxy(t, model.ProxySetIndex)
		if get == nil && set == nil {
			v.report(diag.VerifyNotIndexable, e.Span, diag.Args{"type": v.label(t)})
			v.value(ix.Index, model.NoType)
			return nil
		}
		keyT, elem := b.Any, b.Any
		if get != nil {
			if sig := in.Function(v.m.TypeOf(get)); sig != nil {
				keyT, elem = hintParam(sig, 0), sig.Result
			}
		} else if sig := in.Function(v.m.TypeOf(set)); sig != nil {
			keyT, elem = hintParam(sig, 0), hintParam(sig, 1)
		}
		key := v.valueAs(ix.Index, keyT)
		ref = &model.Reference{
			Kind:      model.RefIndexed,
			Base:      base,
			Key:       key,
			Type:      elem,
			ReadOnly:  set == nil,
			WriteOnly: get == nil,
		}
	}
	if ix.Optional {
		return &model.Plain{Type: v.m.ToNullableType(ref.Type)}
	}
	return ref
}

func (v *Verifier) assign(id ast.ExprID, e *ast.Expr) model.Symbol {
	as, _ := v.b.Exprs.Assign(id)
	if !as.Target.IsValid() {
		val := v.value(as.Value, model.NoType)
		t := v.m.Builtins.Any
		if val != nil {
			t = v.m.TypeOf(val)
		}
		v.bindPattern(as.Pattern, t, &binding{assign: true})
		return val
	}

	target := v.verifyExpr(as.Target, model.NoType)
	if target == nil {
		v.value(as.Value, model.NoType)
		return nil
	}
	tt := v.assignable(target, v.spanOf(as.Target))
	if as.Op != ast.BinaryNone {
		cur := v.asValue(target, v.spanOf(as.Target))
		rhs := v.value(as.Value, tt)
		if cur == nil || rhs == nil || tt == model.NoType {
			return nil
		}
		res := v.binaryType(as.Op, v.m.TypeOf(cur), v.m.TypeOf(rhs), e.Span)
		if !v.implicitType(res, tt) && !(v.m.IsNumeric(res) && v.m.IsNumeric(tt)) {
			v.incompatible(e.Span, tt, res)
		}
		return &model.Plain{Type: tt}
	}
	if tt == model.NoType {
		v.value(as.Value, model.NoType)
		return nil
	}
	if val := v.valueAs(as.Value, tt); val != nil {
		return val
	}
	return &model.Plain{Type: tt}
}

func (v *Verifier) conditional(id ast.ExprID, ctx model.TypeID) model.Symbol {
	c, _ := v.b.Exprs.Cond(id)
	v.value(c.Cond, model.NoType)
	if ctx != model.NoType {
		v.valueAs(c.Then, ctx)
		v.valueAs(c.Else, ctx)
		return &model.Plain{Type: ctx}
	}
	then := v.value(c.Then, model.NoType)
	els := v.value(c.Else, model.NoType)
	if then == nil || els == nil {
		return nil
	}
	tt, et := v.m.TypeOf(then), v.m.TypeOf(els)
	if tt == et {
		return &model.Plain{Type: tt}
	}
	return &model.Plain{Type: v.m.Types.InternUnion([]model.TypeID{tt, et})}
}

func (v *Verifier) await(id ast.ExprID, e *ast.Expr) model.Symbol {
	a, _ := v.b.Exprs.Value(id)
	act := v.act()
	if act == nil || act.slot == nil {
		v.report(diag.VerifyAwaitOutsideAsync, e.Span, nil)
	} else {
		act.slot.Flags |= model.MethodUsesAwait
	}
	val := v.value(a.Value, model.NoType)
	if val == nil {
		return nil
	}
	t := v.m.TypeOf(val)
	if elem, ok := v.m.PromiseElem(t); ok {
		return &model.Plain{Type: elem}
	}
	return &model.Plain{Type: t}
}

func (v *Verifier) yield(id ast.ExprID, e *ast.Expr) model.Symbol {
	y, _ := v.b.Exprs.Value(id)
	act := v.act()
	elem := model.NoType
	if act == nil || act.slot == nil {
		v.report(diag.VerifyYieldOutsideGenerator, e.Span, nil)
	} else {
		act.slot.Flags |= model.MethodUsesYield
		if g, ok := v.m.GeneratorElem(act.result); ok {
			elem = g
		}
	}
	if y.Value.IsValid() {
		v.valueAs(y.Value, elem)
	}
	return &model.Plain{Type: v.m.Builtins.Any}
}
