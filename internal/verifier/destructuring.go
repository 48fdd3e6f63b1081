package verifier

import (
	"ripple/internal/ast"
	"ripple/internal/diag"
	"ripple/internal/model"
	"ripple/internal/source"
)

// binding configures how a pattern binds. In declaration mode names
// become VariableSlots in props; in assignment mode (assign set) they
// must denote existing writable references. allowDuplicates lets a name
// replace an earlier variable of the same type in props.
type binding struct {
	assign          bool
	props           *model.Properties
	owner           model.Symbol
	vis             model.Visibility
	readOnly        bool
	static          bool
	allowDuplicates bool
}

// declarePattern creates the slots of every name a pattern binds, with
// types still pending. A later bindPattern fills in the types and reuses
// these slots.
func (v *Verifier) declarePattern(id ast.PatternID, b *binding, lazy *lazyDecl) {
	pat := v.b.Patterns.Get(id)
	if pat == nil {
		return
	}
	switch pat.Kind {
	case ast.PatName:
		n, _ := v.b.Patterns.Name(id)
		slot := &model.VariableSlot{
			Name:     n.Name,
			Owner:    b.owner,
			Vis:      b.vis,
			ReadOnly: b.readOnly,
			Static:   b.static,
		}
		pat.Sem.Symbol = slot
		v.declareSlot(b, n.Name, slot, pat.Span)
		if lazy != nil {
			v.lazy[slot] = lazy
		}
	case ast.PatArray:
		arr, _ := v.b.Patterns.Array(id)
		for _, it := range arr.Items {
			v.declarePattern(it.Pattern, b, lazy)
		}
	case ast.PatRecord:
		rec, _ := v.b.Patterns.Record(id)
		for _, f := range rec.Fields {
			v.declarePattern(f.Value, b, lazy)
		}
	}
}

// eachName visits the name patterns nested in id.
func (v *Verifier) eachName(id ast.PatternID, fn func(pat *ast.Pattern, name string)) {
	pat := v.b.Patterns.Get(id)
	if pat == nil {
		return
	}
	switch pat.Kind {
	case ast.PatName:
		n, _ := v.b.Patterns.Name(id)
		fn(pat, n.Name)
	case ast.PatArray:
		arr, _ := v.b.Patterns.Array(id)
		for _, it := range arr.Items {
			v.eachName(it.Pattern, fn)
		}
	case ast.PatRecord:
		rec, _ := v.b.Patterns.Record(id)
		for _, f := range rec.Fields {
			v.eachName(f.Value, fn)
		}
	}
}

// checkInheritedShadowing reports a field of class t that reuses the name
// of a superclass member.
func (v *Verifier) checkInheritedShadowing(t model.TypeID, name string, sp source.Span) {
	if v.inheritsName(t, name) {
		v.report(diag.VerifyShadowingInheritedMember, sp, diag.Args{"name": name})
	}
}

// patternType applies the annotation and non-null suffix of pat to the
// inferred type. An annotation must agree exactly with an inferred type;
// with neither a warning is emitted and Any is used.
func (v *Verifier) patternType(pat *ast.Pattern, inferred model.TypeID, name string) model.TypeID {
	ann := v.resolveType(pat.Type)
	t := inferred
	switch {
	case ann != model.NoType && inferred != model.NoType && ann != inferred:
		v.report(diag.VerifyAnnotationMismatch, pat.Span, diag.Args{"expected": v.label(ann), "got": v.label(inferred)})
		t = ann
	case ann != model.NoType:
		t = ann
	case inferred == model.NoType:
		v.warn(diag.WarnMissingTypeAnnotation, pat.Span, diag.Args{"name": name})
		t = v.m.Builtins.Any
	}
	if pat.NonNull {
		if !v.m.IsNullable(t) {
			v.warn(diag.WarnUnnecessaryNonNull, pat.Span, diag.Args{"type": v.label(t)})
		}
		t = v.m.ToNonNullableType(t)
	}
	pat.Sem.Resolved = true
	pat.Sem.Type = t
	return t
}

// bindPattern binds pat against a value of type inferred (NoType when
// there is no value).
func (v *Verifier) bindPattern(id ast.PatternID, inferred model.TypeID, b *binding) {
	pat := v.b.Patterns.Get(id)
	if pat == nil {
		return
	}
	switch pat.Kind {
	case ast.PatName:
		n, _ := v.b.Patterns.Name(id)
		t := v.patternType(pat, inferred, n.Name)
		if b.assign {
			v.assignName(pat, n.Name, t)
			return
		}
		v.bindName(pat, n.Name, t, b)
	case ast.PatTarget:
		tp, _ := v.b.Patterns.Target(id)
		target := v.verifyExpr(tp.Expr, model.NoType)
		if target == nil {
			return
		}
		tt := v.assignable(target, pat.Span)
		if tt != model.NoType && inferred != model.NoType && !v.implicitType(inferred, tt) {
			v.incompatible(pat.Span, tt, inferred)
		}
		pat.Sem.Resolved, pat.Sem.Type, pat.Sem.Symbol = true, tt, target
	case ast.PatArray:
		t := v.patternType(pat, inferred, "")
		v.bindArray(pat, id, t, b)
	case ast.PatRecord:
		t := v.patternType(pat, inferred, "")
		v.bindRecord(pat, id, t, b)
	}
}

func (v *Verifier) bindName(pat *ast.Pattern, name string, t model.TypeID, b *binding) {
	slot, ok := pat.Sem.Symbol.(*model.VariableSlot)
	if !ok {
		slot = &model.VariableSlot{
			Name:     name,
			Owner:    b.owner,
			Vis:      b.vis,
			ReadOnly: b.readOnly,
			Static:   b.static,
		}
		pat.Sem.Symbol = slot
		if b.props != nil {
			v.declareSlot(b, name, slot, pat.Span)
		}
	}
	if !slot.Type.Ready() {
		slot.Type.Set(t)
	}
}

func (v *Verifier) assignName(pat *ast.Pattern, name string, t model.TypeID) {
	sym, err := v.lookupName(name, pat.Span)
	if err != nil {
		v.reportErr(err)
		return
	}
	tt := v.assignable(sym, pat.Span)
	if tt != model.NoType && !v.implicitType(t, tt) {
		v.incompatible(pat.Span, tt, t)
	}
	pat.Sem.Symbol = sym
}

// bindArray dispatches on the matched type: tuples bind by position,
// arrays and indexable types bind their element type, Any binds Any.
func (v *Verifier) bindArray(pat *ast.Pattern, id ast.PatternID, t model.TypeID, b *binding) {
	arr, _ := v.b.Patterns.Array(id)
	in := v.m.Types
	anyT := v.m.Builtins.Any

	if tup := in.Tuple(t); tup != nil {
		reported := false
		for i, it := range arr.Items {
			if it.Spread {
				v.report(diag.VerifyIllegalSpreadInTuple, v.patSpan(it.Pattern, pat.Span), nil)
				v.bindPattern(it.Pattern, anyT, b)
				continue
			}
			if i >= len(tup.Elems) {
				if !reported {
					reported = true
					v.report(diag.VerifyTooManyTupleElements, pat.Span, diag.Args{"type": v.label(t), "limit": len(tup.Elems)})
				}
				v.bindPattern(it.Pattern, anyT, b)
				continue
			}
			v.bindPattern(it.Pattern, tup.Elems[i], b)
		}
		return
	}

	elem, spreadT := model.NoType, model.NoType
	switch {
	case in.Kind(t) == model.KindAny:
		elem, spreadT = anyT, anyT
	default:
		if e, ok := v.m.ElementOf(t); ok {
			elem, spreadT = e, t
		} else if p := v.m.Proxy(t, model.ProxyGetIndex); p != nil {
			elem, spreadT = v.proxyResult(p), v.m.ArrayOf(v.proxyResult(p))
		}
	}
	if elem == model.NoType {
		v.report(diag.VerifyNotDestructurable, pat.Span, diag.Args{"type": v.label(t)})
		elem, spreadT = anyT, anyT
	}
	for i, it := range arr.Items {
		if it.Spread {
			if i != len(arr.Items)-1 {
				v.report(diag.VerifyIllegalSpreadPosition, v.patSpan(it.Pattern, pat.Span), nil)
			}
			v.bindPattern(it.Pattern, spreadT, b)
			continue
		}
		v.bindPattern(it.Pattern, elem, b)
	}
}

// bindRecord dispatches on the matched type: Any binds identifier keys to
// Any, Map binds values as possibly undefined, records and nominal types
// bind their fields and properties.
func (v *Verifier) bindRecord(pat *ast.Pattern, id ast.PatternID, t model.TypeID, b *binding) {
	rec, _ := v.b.Patterns.Record(id)
	in := v.m.Types
	anyT := v.m.Builtins.Any

	var fieldType func(f ast.RecordPatternField) model.TypeID
	switch {
	case in.Kind(t) == model.KindAny:
		fieldType = func(f ast.RecordPatternField) model.TypeID {
			if f.KeyExpr.IsValid() {
				v.report(diag.VerifyRecordKeyIdentifier, v.exprSpan(f.KeyExpr, f.KeySpan), nil)
			}
			return anyT
		}
	default:
		if k, val, ok := v.m.MapTypes(t); ok {
			fieldType = func(f ast.RecordPatternField) model.TypeID {
				if f.KeyExpr.IsValid() {
					v.valueAs(f.KeyExpr, k)
				} else if !v.implicitType(v.m.Builtins.String, k) {
					v.incompatible(f.KeySpan, k, v.m.Builtins.String)
				}
				return in.InternUnion([]model.TypeID{val, v.m.Builtins.Undefined})
			}
			break
		}
		switch in.Kind(t) {
		case model.KindRecord, model.KindClass, model.KindInstance, model.KindInterface, model.KindEnum, model.KindTypeParam:
			fieldType = func(f ast.RecordPatternField) model.TypeID {
				if f.KeyExpr.IsValid() {
					v.report(diag.VerifyRecordKeyIdentifier, v.exprSpan(f.KeyExpr, f.KeySpan), nil)
					return anyT
				}
				sym, err := v.m.ResolveProperty(&model.Plain{Type: t}, f.Key)
				if err != nil || sym == nil {
					v.report(diag.VerifyUndefinedProperty, f.KeySpan, diag.Args{"name": f.Key, "type": v.label(t)})
					return anyT
				}
				if ref, ok := sym.(*model.Reference); ok && ref.WriteOnly {
					v.report(diag.VerifyCannotReadWriteOnly, f.KeySpan, diag.Args{"name": f.Key})
				}
				return v.m.TypeOf(sym)
			}
		}
	}
	if fieldType == nil {
		v.report(diag.VerifyNotDestructurable, pat.Span, diag.Args{"type": v.label(t)})
		fieldType = func(ast.RecordPatternField) model.TypeID { return anyT }
	}
	for _, f := range rec.Fields {
		v.bindPattern(f.Value, fieldType(f), b)
	}
}

func (v *Verifier) proxyResult(p *model.MethodSlot) model.TypeID {
	if sig := v.m.Types.Function(v.m.TypeOf(p)); sig != nil {
		return sig.Result
	}
	return v.m.Builtins.Any
}

func (v *Verifier) patSpan(id ast.PatternID, fallback source.Span) source.Span {
	if p := v.b.Patterns.Get(id); p != nil {
		return p.Span
	}
	return fallback
}

func (v *Verifier) exprSpan(id ast.ExprID, fallback source.Span) source.Span {
	if e := v.b.Exprs.Get(id); e != nil {
		return e.Span
	}
	return fallback
}

func (v *Verifier) spanOf(id ast.ExprID) source.Span {
	return v.exprSpan(id, source.NoSpan)
}
