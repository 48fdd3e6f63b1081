package verifier

import (
	"math/big"

	"github.com/hashicorp/go-set/v3"

	"ripple/internal/ast"
	"ripple/internal/convert"
	"ripple/internal/diag"
	"ripple/internal/model"
)

func (v *Verifier) resolveStmts(stmts []ast.StmtID) {
	for _, id := range stmts {
		if v.forIncludes(id, v.resolveStmts) {
			continue
		}
		if d, ok := v.b.Stmts.Decl(id); ok {
			v.resolveItem(d.Item)
		}
	}
}

func (v *Verifier) resolveItem(id ast.ItemID) {
	item := v.b.Items.Get(id)
	if item == nil {
		return
	}
	switch item.Kind {
	case ast.ItemNamespace:
		body, _ := v.b.Items.Namespace(id)
		exit := v.enter(item.Sem.Frame)
		v.resolveStmts(body.Body)
		exit()
	case ast.ItemClass:
		v.resolveClass(id, item)
	case ast.ItemInterface:
		v.resolveInterface(id, item)
	case ast.ItemEnum:
		v.resolveEnum(id, item)
	case ast.ItemFn:
		v.resolveFn(id, nil)
	case ast.ItemVar:
		v.resolveVarDecl(id)
	}
}

func (v *Verifier) resolveClass(id ast.ItemID, item *ast.Item) {
	data, _ := v.b.Items.Class(id)
	t, ok := item.Sem.Symbol.(model.TypeID)
	if !ok {
		return
	}
	info := v.m.Types.Class(t)
	exit := v.enter(item.Sem.Frame)
	defer exit()

	v.resolveBounds(info.TypeParams, data.TypeParams)
	info.Super = v.m.Builtins.Object
	if data.Extends.IsValid() {
		if super := v.resolveSuperClass(t, item, data.Extends); super != model.NoType {
			info.Super = super
		}
	}
	for _, it := range data.Implements {
		if iface := v.resolveInterfaceRef(it); iface != model.NoType {
			info.Implements = append(info.Implements, iface)
		}
	}
	info.Heritage = true
	v.resolveMembers(data.Members)
}

// resolveSuperClass evaluates an extends clause of class t and rejects
// non-classes, final classes and cycles.
func (v *Verifier) resolveSuperClass(t model.TypeID, item *ast.Item, ref ast.TypeID) model.TypeID {
	span := v.b.Types.Get(ref).Span
	super := v.resolveType(ref)
	if super == v.m.Builtins.Any {
		return model.NoType
	}
	sc := v.m.Types.Class(v.m.Types.OriginOf(super))
	if sc == nil {
		v.report(diag.VerifyNotAClass, span, diag.Args{"name": v.label(super)})
		return model.NoType
	}
	if sc.IsFinal() {
		v.report(diag.VerifyCannotExtendFinalClass, span, diag.Args{"name": v.label(super)})
		return model.NoType
	}
	seen := set.New[model.TypeID](4)
	for cur := super; cur != model.NoType; cur = v.m.SuperClass(cur) {
		origin := v.m.Types.OriginOf(cur)
		if origin == t {
			v.report(diag.VerifyCircularInheritance, item.NameSpan, diag.Args{"name": item.Name})
			return model.NoType
		}
		if !seen.Insert(origin) {
			break
		}
	}
	return super
}

func (v *Verifier) resolveInterfaceRef(ref ast.TypeID) model.TypeID {
	t := v.resolveType(ref)
	if t == v.m.Builtins.Any {
		return model.NoType
	}
	if !v.m.IsInterface(t) {
		v.report(diag.VerifyNotAnInterface, v.b.Types.Get(ref).Span, diag.Args{"name": v.label(t)})
		return model.NoType
	}
	return t
}

func (v *Verifier) resolveInterface(id ast.ItemID, item *ast.Item) {
	data, _ := v.b.Items.Interface(id)
	t, ok := item.Sem.Symbol.(model.TypeID)
	if !ok {
		return
	}
	info := v.m.Types.Interface(t)
	exit := v.enter(item.Sem.Frame)
	defer exit()

	v.resolveBounds(info.TypeParams, data.TypeParams)
	for _, ref := range data.Extends {
		ext := v.resolveInterfaceRef(ref)
		if ext == model.NoType {
			continue
		}
		if set.From(v.m.AllInterfaces(ext)).Contains(t) {
			v.report(diag.VerifyCircularInheritance, item.NameSpan, diag.Args{"name": item.Name})
			continue
		}
		info.Extends = append(info.Extends, ext)
	}
	info.Heritage = true
	v.resolveMembers(data.Members)
}

// resolveBounds evaluates "T: Super & I1 & I2". A leading class bound
// becomes Super; every other bound must be an interface.
func (v *Verifier) resolveBounds(params []model.TypeID, decls []ast.TypeParam) {
	for i, p := range params {
		if i >= len(decls) {
			break
		}
		info := v.m.Types.TypeParam(p)
		for j, ref := range decls[i].Bounds {
			bt := v.resolveType(ref)
			if bt == v.m.Builtins.Any {
				continue
			}
			switch {
			case v.m.IsInterface(bt):
				info.Interfaces = append(info.Interfaces, bt)
			case j == 0 && v.m.IsClass(bt):
				info.Super = bt
			default:
				v.report(diag.VerifyNotAnInterface, v.b.Types.Get(ref).Span, diag.Args{"name": v.label(bt)})
			}
		}
	}
}

func (v *Verifier) resolveMembers(members []ast.ItemID) {
	for _, mid := range members {
		item := v.b.Items.Get(mid)
		if item == nil {
			continue
		}
		switch item.Kind {
		case ast.ItemFn:
			v.resolveFn(mid, nil)
		case ast.ItemVar:
			restore := v.at(item.Sem.Frame, nil)
			v.resolveVarDecl(mid)
			restore()
		}
	}
}

func (v *Verifier) resolveEnum(id ast.ItemID, item *ast.Item) {
	data, _ := v.b.Items.Enum(id)
	t, ok := item.Sem.Symbol.(model.TypeID)
	if !ok {
		return
	}
	info := v.m.Types.Enum(t)
	exit := v.enter(item.Sem.Frame)
	defer exit()

	info.Repr = v.m.Builtins.Int
	if data.Repr.IsValid() {
		repr := v.resolveType(data.Repr)
		if !v.m.IsNumeric(repr) {
			v.report(diag.VerifyEnumValueNotNumeric, v.b.Types.Get(data.Repr).Span, diag.Args{"type": v.label(repr)})
		} else {
			info.Repr = repr
		}
	}

	next := big.NewInt(0)
	if info.IsFlags {
		next = big.NewInt(1)
	}
	seen := make(map[string]bool, len(data.Variants))
	for _, ev := range data.Variants {
		if seen[ev.Name] {
			continue
		}
		seen[ev.Name] = true
		value := new(big.Int).Set(next)
		if ev.Value.IsValid() {
			if n, ok := v.enumValue(ev.Value, info.Repr); ok {
				value = n
			}
		}
		info.Variants = append(info.Variants, model.EnumVariant{Name: ev.Name, Value: value})
		if sym, ok := info.Static.Get(ev.Name); ok {
			if slot, ok := sym.(*model.VariableSlot); ok {
				slot.Init = v.m.EnumConst(t, value)
			}
		}
		if info.IsFlags {
			next = new(big.Int).Lsh(value, 1)
			if value.Sign() == 0 {
				next.SetInt64(1)
			}
		} else {
			next = new(big.Int).Add(value, big.NewInt(1))
		}
	}
	v.resolveMembers(data.Members)
}

// enumValue folds a variant initialiser to an integer of the enum's
// representation type.
func (v *Verifier) enumValue(id ast.ExprID, repr model.TypeID) (*big.Int, bool) {
	val := v.value(id, repr)
	c, ok := val.(*model.Constant)
	if !ok {
		if val != nil {
			v.report(diag.VerifyConstantExpected, v.spanOf(id), nil)
		}
		return nil, false
	}
	folded := convert.Constant(v.m, c, repr)
	if folded == nil {
		v.incompatible(v.spanOf(id), repr, c.Type)
		return nil, false
	}
	switch {
	case folded.Int != nil:
		return new(big.Int).Set(folded.Int), true
	case folded.Kind == model.ConstNumber:
		f := big.NewFloat(folded.Num)
		if !f.IsInt() {
			v.incompatible(v.spanOf(id), v.m.Builtins.Int, c.Type)
			return nil, false
		}
		n, _ := f.Int(nil)
		return n, true
	case folded.Kind == model.ConstDecimal:
		if !folded.Dec.IsInt() {
			v.incompatible(v.spanOf(id), v.m.Builtins.Int, c.Type)
			return nil, false
		}
		n, _ := folded.Dec.Int(nil)
		return n, true
	}
	v.report(diag.VerifyConstantExpected, v.spanOf(id), nil)
	return nil, false
}

// resolveFn computes the signature of a function. hint supplies parameter
// and result types for unannotated function expressions passed where a
// function type is expected.
func (v *Verifier) resolveFn(id ast.ItemID, hint *model.FnInfo) *model.MethodSlot {
	item := v.b.Items.Get(id)
	fn, _ := v.b.Items.Fn(id)
	ms, _ := item.Sem.Symbol.(*model.MethodSlot)
	if ms == nil || fn == nil {
		return nil
	}
	if item.Sem.Phase >= phaseSignature || ms.Signature.Ready() {
		return ms
	}
	if item.Sem.Phase < phaseSignature {
		item.Sem.Phase = phaseSignature
	}
	restore := v.at(item.Sem.Frame, nil)
	defer restore()

	v.resolveBounds(ms.TypeParams, fn.TypeParams)
	anyT := v.m.Builtins.Any
	var sig model.FnInfo
	for i, p := range fn.Params {
		t := v.resolveType(p.Type)
		if t == model.NoType {
			if h := hintParam(hint, i); h != model.NoType {
				t = h
			} else {
				if hint == nil {
					v.warn(diag.WarnMissingTypeAnnotation, p.Span, diag.Args{"name": p.Name})
				}
				t = anyT
				if p.Rest {
					t = v.m.ArrayOf(anyT)
				}
			}
		}
		switch {
		case p.Rest:
			if _, ok := v.m.ElementOf(t); !ok && t != anyT {
				v.incompatible(p.Span, v.m.ArrayOf(anyT), t)
				t = v.m.ArrayOf(anyT)
			}
			if t == anyT {
				t = v.m.ArrayOf(anyT)
			}
			sig.Rest = t
		case p.Default.IsValid():
			sig.Optional = append(sig.Optional, t)
		default:
			sig.Params = append(sig.Params, t)
		}
	}

	sig.Result = v.resolveType(fn.Result)
	if sig.Result == model.NoType {
		sig.Result = v.defaultResult(item, fn, hint)
	}
	ms.Signature.Set(v.m.Types.InternFunction(sig))
	if ms.Virtual != nil {
		v.settleVirtual(ms, &sig, item)
	}
	return ms
}

func hintParam(hint *model.FnInfo, i int) model.TypeID {
	if hint == nil {
		return model.NoType
	}
	if i < len(hint.Params) {
		return hint.Params[i]
	}
	if j := i - len(hint.Params); j < len(hint.Optional) {
		return hint.Optional[j]
	}
	return model.NoType
}

// defaultResult is the result type of a function without a result
// annotation: void for constructors, setters and bodies that never return
// a value, otherwise the hint or Any with a warning.
func (v *Verifier) defaultResult(item *ast.Item, fn *ast.FnItem, hint *model.FnInfo) model.TypeID {
	switch {
	case fn.Kind == ast.FnConstructor || fn.Kind == ast.FnSetter:
		return v.m.Builtins.Void
	case hint != nil && hint.Result != model.NoType:
		return hint.Result
	case !fn.ExprBody.IsValid() && fn.Body.IsValid() && !v.returnsValue(fn.Body):
		return v.m.Builtins.Void
	}
	if hint == nil {
		v.warn(diag.WarnMissingReturnAnnotation, item.NameSpan, diag.Args{"name": item.Name})
	}
	return v.m.Builtins.Any
}

// settleVirtual derives the property type from an accessor signature and
// checks the getter and setter agree.
func (v *Verifier) settleVirtual(ms *model.MethodSlot, sig *model.FnInfo, item *ast.Item) {
	var t model.TypeID
	switch {
	case ms.Flags.Has(model.MethodGetter):
		t = sig.Result
	case len(sig.Params) > 0:
		t = sig.Params[0]
	default:
		t = v.m.Builtins.Any
	}
	vs := ms.Virtual
	if prev, ok := vs.Type.Get(); ok {
		if prev != t {
			v.report(diag.VerifyVirtualTypeMismatch, item.NameSpan, diag.Args{"name": vs.Name})
		}
		return
	}
	vs.Type.Set(t)
}

// returnsValue reports whether a body contains "return <value>" outside
// nested functions.
func (v *Verifier) returnsValue(id ast.StmtID) bool {
	found := false
	v.walkStmts(id, func(sid ast.StmtID) bool {
		if found {
			return false
		}
		st := v.b.Stmts.Get(sid)
		if st.Kind == ast.StmtReturn {
			if r, _ := v.b.Stmts.Value(sid); r.Value.IsValid() {
				found = true
			}
		}
		return st.Kind != ast.StmtDecl
	})
	return found
}

// resolveVarDecl settles annotated and uninitialised name bindings so
// other declarations can read their types before bodies are verified.
func (v *Verifier) resolveVarDecl(id ast.ItemID) {
	item := v.b.Items.Get(id)
	if item == nil || item.Sem.Phase >= phaseSignature {
		return
	}
	item.Sem.Phase = phaseSignature
	data, _ := v.b.Items.Var(id)
	pat := v.b.Patterns.Get(data.Pattern)
	if pat == nil || pat.Kind != ast.PatName {
		return
	}
	slot, ok := pat.Sem.Symbol.(*model.VariableSlot)
	if !ok || slot.Type.Ready() {
		return
	}
	t := v.resolveType(pat.Type)
	if pat.NonNull && t != model.NoType {
		t = v.m.ToNonNullableType(t)
	}
	if data.Init.IsValid() {
		if t != model.NoType {
			slot.Type.Set(t)
		}
		return
	}
	if t == model.NoType {
		v.warn(diag.WarnMissingTypeAnnotation, pat.Span, diag.Args{"name": slot.Name})
		t = v.m.Builtins.Any
	}
	slot.Type.Set(t)
	pat.Sem.Resolved, pat.Sem.Type = true, t
	slot.Init = v.m.DefaultValue(t)
	if slot.ReadOnly && slot.Init == nil {
		v.report(diag.VerifyVariableMustBeInit, pat.Span, diag.Args{"name": slot.Name})
	}
}
