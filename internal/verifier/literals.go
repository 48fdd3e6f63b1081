package verifier

import (
	"math/big"
	"strconv"
	"strings"

	"ripple/internal/ast"
	"ripple/internal/model"
)

// literal folds a literal to a constant. Numeric literals take the
// expected numeric type when the value fits it and are Number otherwise.
func (v *Verifier) literal(id ast.ExprID, e *ast.Expr, ctx model.TypeID) model.Symbol {
	lit, _ := v.b.Exprs.Lit(id)
	m := v.m
	switch lit.Kind {
	case ast.LitNull:
		return m.NullConst()
	case ast.LitUndefined:
		return m.UndefinedConst()
	case ast.LitTrue:
		return m.BoolConst(true)
	case ast.LitFalse:
		return m.BoolConst(false)
	case ast.LitString:
		return m.StringConst(lit.Value)
	case ast.LitRegExp:
		return &model.Plain{Type: m.Builtins.RegExp}
	case ast.LitNumber:
		return v.numberLiteral(lit.Value, ctx)
	}
	return nil
}

func (v *Verifier) numberLiteral(text string, ctx model.TypeID) model.Symbol {
	m := v.m
	text = strings.ReplaceAll(text, "_", "")
	ctx = m.ToNonNullableType(ctx)
	kind := m.NumericKind(ctx)

	if n, ok := new(big.Int).SetString(text, 0); ok {
		if kind.IsInteger() && model.FitsInteger(kind, n) {
			return m.IntConst(kind, n)
		}
		if kind == model.ConstDecimal {
			return m.DecimalConst(new(big.Float).SetInt(n))
		}
		f, _ := new(big.Float).SetInt(n).Float64()
		return m.NumberConst(f)
	}
	if kind == model.ConstDecimal {
		if d, ok := new(big.Float).SetString(text); ok {
			return m.DecimalConst(d)
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return &model.Plain{Type: m.Builtins.Number}
	}
	return m.NumberConst(f)
}

// arrayLit types an array literal from the expected tuple or array type,
// or as an array of the union of its element types.
func (v *Verifier) arrayLit(id ast.ExprID, ctx model.TypeID) model.Symbol {
	arr, _ := v.b.Exprs.Array(id)
	in := v.m.Types
	if ctx != model.NoType {
		ctx = v.m.ToNonNullableType(ctx)
	}

	if tup := in.Tuple(ctx); tup != nil {
		got := make([]model.TypeID, 0, len(arr.Elems))
		for i, el := range arr.Elems {
			if v.isSpread(el) {
				v.spreadValue(el, model.NoType)
				got = append(got, v.m.Builtins.Any)
				continue
			}
			if i < len(tup.Elems) {
				v.valueAs(el, tup.Elems[i])
				got = append(got, tup.Elems[i])
				continue
			}
			got = append(got, v.typeOfValue(v.value(el, model.NoType)))
		}
		if len(got) != len(tup.Elems) {
			v.incompatible(v.spanOf(id), ctx, in.InternTuple(got))
		}
		return &model.Plain{Type: ctx}
	}

	elemCtx := model.NoType
	if e, ok := v.m.ElementOf(ctx); ok {
		elemCtx = e
	}
	var types []model.TypeID
	for _, el := range arr.Elems {
		if v.isSpread(el) {
			arrT := model.NoType
			if elemCtx != model.NoType {
				arrT = v.m.ArrayOf(elemCtx)
			}
			val := v.spreadValue(el, arrT)
			if e, ok := v.m.ElementOf(v.typeOfValue(val)); ok {
				types = append(types, e)
			} else {
				types = append(types, v.m.Builtins.Any)
			}
			continue
		}
		if elemCtx != model.NoType {
			v.valueAs(el, elemCtx)
			continue
		}
		types = append(types, v.typeOfValue(v.value(el, model.NoType)))
	}
	if elemCtx != model.NoType {
		return &model.Plain{Type: v.m.ArrayOf(elemCtx)}
	}
	elem := v.m.Builtins.Any
	if len(types) > 0 {
		elem = in.InternUnion(types)
	}
	return &model.Plain{Type: v.m.ArrayOf(elem)}
}

// objectLit types an object literal. An expected Map type checks keys and
// values against it; otherwise the literal is a record whose field types
// follow the expected record where it names the field.
func (v *Verifier) objectLit(id ast.ExprID, ctx model.TypeID) model.Symbol {
	obj, _ := v.b.Exprs.Object(id)
	in := v.m.Types
	b := &v.m.Builtins
	if ctx != model.NoType {
		ctx = v.m.ToNonNullableType(ctx)
	}

	if k, val, ok := v.m.MapTypes(ctx); ok {
		for _, f := range obj.Fields {
			if f.Spread {
				v.spreadObject(f, ctx)
				continue
			}
			if !v.implicitType(b.String, k) {
				v.incompatible(f.KeySpan, k, b.String)
			}
			v.fieldValue(f, val)
		}
		return &model.Plain{Type: ctx}
	}

	expected := in.Record(ctx)
	var fields []model.RecordField
	put := func(name string, t model.TypeID) {
		for i := range fields {
			if fields[i].Name == name {
				fields[i].Type = t
				return
			}
		}
		fields = append(fields, model.RecordField{Name: name, Type: t})
	}
	for _, f := range obj.Fields {
		if f.Spread {
			if rec := in.Record(v.spreadObject(f, model.NoType)); rec != nil {
				for _, rf := range rec.Fields {
					put(rf.Name, rf.Type)
				}
			}
			continue
		}
		want := model.NoType
		if expected != nil {
			want, _ = expected.Field(f.Key)
		}
		put(f.Key, v.typeOfValue(v.fieldValue(f, want)))
		if want != model.NoType {
			put(f.Key, want)
		}
	}
	if expected != nil && len(fields) == len(expected.Fields) {
		same := true
		for _, rf := range expected.Fields {
			if t, ok := fieldOf(fields, rf.Name); !ok || t != rf.Type {
				same = false
				break
			}
		}
		if same {
			return &model.Plain{Type: ctx}
		}
	}
	return &model.Plain{Type: in.InternRecord(fields)}
}

func fieldOf(fields []model.RecordField, name string) (model.TypeID, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return model.NoType, false
}

// fieldValue verifies the value of an object literal field. A shorthand
// field reads the variable of the same name.
func (v *Verifier) fieldValue(f ast.ObjectField, want model.TypeID) model.Symbol {
	if f.Value.IsValid() {
		if want != model.NoType {
			return v.valueAs(f.Value, want)
		}
		return v.value(f.Value, model.NoType)
	}
	sym, err := v.lookupName(f.Key, f.KeySpan)
	if err != nil {
		v.reportErr(err)
		return nil
	}
	val := v.asValue(sym, f.KeySpan)
	if val == nil || want == model.NoType {
		return val
	}
	return v.convertTo(val, want, f.KeySpan)
}

func (v *Verifier) spreadObject(f ast.ObjectField, want model.TypeID) model.TypeID {
	val := v.value(f.Value, want)
	if val == nil {
		return model.NoType
	}
	if want != model.NoType {
		if v.convertTo(val, want, v.spanOf(f.Value)) == nil {
			return model.NoType
		}
		return want
	}
	return v.m.TypeOf(val)
}

// typeOfValue is the type of a verified value, Any for a failed one.
func (v *Verifier) typeOfValue(val model.Symbol) model.TypeID {
	if val == nil {
		return v.m.Builtins.Any
	}
	t := v.m.TypeOf(val)
	if t == model.NoType {
		return v.m.Builtins.Any
	}
	return t
}
