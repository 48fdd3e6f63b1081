package verifier

import (
	"errors"

	"ripple/internal/ast"
	"ripple/internal/conformance"
	"ripple/internal/diag"
	"ripple/internal/model"
	"ripple/internal/source"
)

func (v *Verifier) checkStmts(stmts []ast.StmtID) {
	for _, id := range stmts {
		if v.forIncludes(id, v.checkStmts) {
			continue
		}
		d, ok := v.b.Stmts.Decl(id)
		if !ok {
			continue
		}
		item := v.b.Items.Get(d.Item)
		if item == nil || item.Sem.Phase >= phaseContract {
			continue
		}
		switch item.Kind {
		case ast.ItemNamespace:
			body, _ := v.b.Items.Namespace(d.Item)
			item.Sem.Phase = phaseContract
			exit := v.enter(item.Sem.Frame)
			v.checkStmts(body.Body)
			exit()
		case ast.ItemClass:
			item.Sem.Phase = phaseContract
			v.checkClass(d.Item, item)
		}
	}
}

// checkClass verifies override modifiers, inherited-member shadowing and
// the implementation of every implemented interface.
func (v *Verifier) checkClass(id ast.ItemID, item *ast.Item) {
	data, _ := v.b.Items.Class(id)
	t, ok := item.Sem.Symbol.(model.TypeID)
	if !ok {
		return
	}
	exit := v.enter(item.Sem.Frame)
	defer exit()

	for _, mid := range data.Members {
		member := v.b.Items.Get(mid)
		if member == nil || member.Modifiers.Has(ast.ModStatic) {
			continue
		}
		if member.Kind == ast.ItemVar {
			field, _ := v.b.Items.Var(mid)
			v.eachName(field.Pattern, func(pat *ast.Pattern, name string) {
				v.checkInheritedShadowing(t, name, pat.Span)
			})
			continue
		}
		if member.Kind != ast.ItemFn {
			continue
		}
		ms, ok := member.Sem.Symbol.(*model.MethodSlot)
		if !ok || ms.Flags.Has(model.MethodConstructor) || ms.Proxy != model.ProxyNone {
			continue
		}
		if member.Modifiers.Has(ast.ModOverride) {
			v.checkOverride(t, ms, member)
			continue
		}
		if base := conformance.Overridden(v.m, t, ms); base != nil || v.inheritsName(t, ms.Name) {
			v.report(diag.VerifyShadowingInheritedMember, member.NameSpan, diag.Args{"name": ms.Name})
		}
	}

	for _, iface := range v.m.Types.Class(t).Implements {
		conformance.VerifyImpl(v.m, t, iface, v.implHandlers(item.NameSpan))
	}
}

// inheritsName reports whether a superclass of t declares an instance
// member named name.
func (v *Verifier) inheritsName(t model.TypeID, name string) bool {
	super := v.m.SuperClass(t)
	if super == model.NoType {
		return false
	}
	_, found := v.m.ClassMember(super, name)
	return found
}

func (v *Verifier) checkOverride(t model.TypeID, ms *model.MethodSlot, member *ast.Item) {
	err := conformance.OverrideSingle(v.m, t, ms)
	if err == nil {
		return
	}
	args := diag.Args{"name": ms.Name}
	var code diag.Code
	switch {
	case errors.Is(err, conformance.ErrMustOverrideAMethod):
		code = diag.VerifyMustOverrideAMethod
	case errors.Is(err, conformance.ErrCannotOverrideGenericMethod):
		code = diag.VerifyCannotOverrideGeneric
	case errors.Is(err, conformance.ErrIncompatibleOverrideSignature):
		code = diag.VerifyIncompatibleOverride
		if base := conformance.Overridden(v.m, t, ms); base != nil {
			args["expected"] = v.label(v.m.TypeOf(base))
		}
	case errors.Is(err, conformance.ErrCannotOverrideFinalMethod):
		code = diag.VerifyCannotOverrideFinalMethod
	default:
		panic(err)
	}
	v.report(code, member.NameSpan, args)
}

func (v *Verifier) implHandlers(sp source.Span) conformance.ImplHandlers {
	missing := func(code diag.Code) func(string, model.TypeID) {
		return func(name string, iface model.TypeID) {
			v.report(code, sp, diag.Args{"name": name, "interface": v.label(iface)})
		}
	}
	wrong := func(code diag.Code) func(string, model.TypeID) {
		return func(name string, expected model.TypeID) {
			v.report(code, sp, diag.Args{"name": name, "expected": v.label(expected)})
		}
	}
	return conformance.ImplHandlers{
		MissingMethod: missing(diag.VerifyMissingMethod),
		MissingGetter: missing(diag.VerifyMissingGetter),
		MissingSetter: missing(diag.VerifyMissingSetter),
		KindMismatch: func(name, expected string, iface model.TypeID) {
			v.report(diag.VerifyRequirementKindMismatch, sp, diag.Args{"name": name, "expected": expected, "interface": v.label(iface)})
		},
		WrongMethodSignature: wrong(diag.VerifyWrongMethodSignature),
		WrongGetterSignature: wrong(diag.VerifyWrongGetterSignature),
		WrongSetterSignature: wrong(diag.VerifyWrongSetterSignature),
	}
}
