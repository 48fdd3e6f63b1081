package verifier

import (
	"errors"

	"ripple/internal/ast"
	"ripple/internal/diag"
	"ripple/internal/model"
)

// resolveType evaluates a written type and reports failures once, falling
// back to Any. NoTypeID yields NoType.
func (v *Verifier) resolveType(id ast.TypeID) model.TypeID {
	if !id.IsValid() {
		return model.NoType
	}
	t, err := v.evalType(id)
	if err != nil {
		v.reportErr(err)
		te := v.b.Types.Get(id)
		if te != nil {
			te.Sem.Resolved, te.Sem.Type = true, v.m.Builtins.Any
		}
		return v.m.Builtins.Any
	}
	return t
}

// evalType evaluates a written type without reporting. Successful results
// are cached on the node.
func (v *Verifier) evalType(id ast.TypeID) (model.TypeID, error) {
	te := v.b.Types.Get(id)
	if te == nil {
		return model.NoType, errors.New("verifier: unknown type expression")
	}
	if te.Sem.Resolved {
		return te.Sem.Type, nil
	}
	t, err := v.evalTypeExpr(id, te)
	if err != nil {
		return model.NoType, err
	}
	te.Sem.Resolved = true
	te.Sem.Type = t
	return t, nil
}

func (v *Verifier) evalTypeExpr(id ast.TypeID, te *ast.TypeExpr) (model.TypeID, error) {
	in := v.m.Types
	switch te.Kind {
	case ast.TypeExprName:
		n, _ := v.b.Types.Name(id)
		return v.evalTypeName(te, n)
	case ast.TypeExprNullable, ast.TypeExprNonNullable, ast.TypeExprArray:
		e, _ := v.b.Types.Elem(id)
		elem, err := v.evalType(e.Elem)
		if err != nil {
			return model.NoType, err
		}
		switch te.Kind {
		case ast.TypeExprNullable:
			return v.m.ToNullableType(elem), nil
		case ast.TypeExprNonNullable:
			return v.m.ToNonNullableType(elem), nil
		}
		return v.m.ArrayOf(elem), nil
	case ast.TypeExprUnion, ast.TypeExprTuple:
		l, _ := v.b.Types.List(id)
		members, err := v.evalTypes(l.Members)
		if err != nil {
			return model.NoType, err
		}
		if te.Kind == ast.TypeExprUnion {
			return in.InternUnion(members), nil
		}
		return in.InternTuple(members), nil
	case ast.TypeExprRecord:
		r, _ := v.b.Types.Record(id)
		fields := make([]model.RecordField, 0, len(r.Fields))
		for _, f := range r.Fields {
			ft, err := v.evalType(f.Type)
			if err != nil {
				return model.NoType, err
			}
			if f.Optional {
				ft = in.InternUnion([]model.TypeID{ft, v.m.Builtins.Undefined})
			}
			fields = append(fields, model.RecordField{Name: f.Name, Type: ft})
		}
		return in.InternRecord(fields), nil
	case ast.TypeExprFunction:
		f, _ := v.b.Types.Function(id)
		var sig model.FnInfo
		var err error
		if sig.Params, err = v.evalTypes(f.Params); err != nil {
			return model.NoType, err
		}
		if sig.Optional, err = v.evalTypes(f.Optional); err != nil {
			return model.NoType, err
		}
		if f.Rest.IsValid() {
			if sig.Rest, err = v.evalType(f.Rest); err != nil {
				return model.NoType, err
			}
		}
		sig.Result = v.m.Builtins.Void
		if f.Result.IsValid() {
			if sig.Result, err = v.evalType(f.Result); err != nil {
				return model.NoType, err
			}
		}
		return in.InternFunction(sig), nil
	}
	return model.NoType, errors.New("verifier: unknown type expression kind")
}

func (v *Verifier) evalTypes(ids []ast.TypeID) ([]model.TypeID, error) {
	out := make([]model.TypeID, 0, len(ids))
	for _, id := range ids {
		t, err := v.evalType(id)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (v *Verifier) evalTypeName(te *ast.TypeExpr, n *ast.TypeName) (model.TypeID, error) {
	sym, err := v.lookupPath(n.Path, te.Span)
	if err != nil {
		return model.NoType, err
	}
	name := n.Path[len(n.Path)-1]
	t, ok := sym.(model.TypeID)
	if !ok {
		return model.NoType, newRefError(diag.VerifyNotAType, te.Span, diag.Args{"name": name})
	}
	args, err := v.evalTypes(n.Args)
	if err != nil {
		return model.NoType, err
	}
	return v.instantiate(t, name, args, te)
}

// instantiate applies type arguments to a generic class or interface,
// checking arity and bounds.
func (v *Verifier) instantiate(t model.TypeID, name string, args []model.TypeID, te *ast.TypeExpr) (model.TypeID, error) {
	params := v.m.Types.TypeParamsOf(t)
	switch {
	case len(params) == 0 && len(args) == 0:
		return t, nil
	case len(params) == 0:
		return model.NoType, newRefError(diag.VerifyNotAGenericType, te.Span, diag.Args{"name": name})
	case len(args) == 0:
		return model.NoType, newRefError(diag.VerifyTypeArgumentsRequired, te.Span, diag.Args{"name": name})
	case len(args) != len(params):
		return model.NoType, newRefError(diag.VerifyWrongTypeArgumentCount, te.Span, diag.Args{"expected": len(params), "got": len(args)})
	}
	for i, p := range params {
		if !v.satisfiesBounds(args[i], p) {
			return model.NoType, newRefError(diag.VerifyTypeArgumentConstraint, te.Span,
				diag.Args{"type": v.label(args[i]), "name": v.m.Types.TypeParam(p).Name})
		}
	}
	return v.m.Types.InternInstance(t, args), nil
}

// satisfiesBounds reports whether arg meets the class and interface
// bounds of the type parameter p. Any satisfies every bound.
func (v *Verifier) satisfiesBounds(arg, p model.TypeID) bool {
	tp := v.m.Types.TypeParam(p)
	if tp == nil || arg == v.m.Builtins.Any {
		return true
	}
	if tp.Super != model.NoType && !v.m.IsSubtypeOf(arg, tp.Super) {
		return false
	}
	for _, it := range tp.Interfaces {
		if !v.m.IsSubtypeOf(arg, it) {
			return false
		}
	}
	return true
}
