package verifier

import (
	"errors"
	"strings"

	"ripple/internal/diag"
	"ripple/internal/model"
	"ripple/internal/source"
)

// refError is a failed name or type lookup. Callers either report it or,
// inside the directive loop, keep the directive pending.
type refError struct {
	code diag.Code
	span source.Span
	args diag.Args
	// quiet failures go through an alias whose failure was already reported.
	quiet bool
	// pending failures go through an alias that may still resolve.
	pending bool
}

func (e *refError) Error() string {
	return e.code.ID()
}

func newRefError(code diag.Code, sp source.Span, args diag.Args) *refError {
	return &refError{code: code, span: sp, args: args}
}

// reportErr emits err unless it is quiet. Errors other than refError are
// programming errors and panic.
func (v *Verifier) reportErr(err error) {
	if err == nil {
		return
	}
	var re *refError
	if !errors.As(err, &re) {
		panic(err)
	}
	if re.quiet {
		return
	}
	v.report(re.code, re.span, re.args)
}

// lookupErr maps a model resolution error for name to a refError.
func lookupErr(err error, name string, sp source.Span) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, model.ErrFailedAlias):
		return &refError{code: diag.VerifyUnresolvedAlias, span: sp, args: diag.Args{"name": name}, quiet: true}
	case errors.Is(err, model.ErrUnresolvedAlias):
		return &refError{code: diag.VerifyUnresolvedAlias, span: sp, args: diag.Args{"name": name}, pending: true}
	case errors.Is(err, model.ErrAmbiguousReference):
		return newRefError(diag.VerifyAmbiguousReference, sp, diag.Args{"name": name})
	}
	return err
}

// lookupName resolves an unqualified name in the current frame.
func (v *Verifier) lookupName(name string, sp source.Span) (model.Symbol, error) {
	sym, err := v.m.ResolveProperty(v.frame, name)
	if err != nil {
		return nil, lookupErr(err, name, sp)
	}
	if sym == nil {
		return nil, newRefError(diag.VerifyUnresolvedReference, sp, diag.Args{"name": name})
	}
	if !v.accessible(sym) {
		return nil, newRefError(diag.VerifyInaccessibleReference, sp, diag.Args{"name": name})
	}
	return sym, nil
}

// lookupPath resolves a dotted path whose first segment is looked up in
// the current frame.
func (v *Verifier) lookupPath(path []string, sp source.Span) (model.Symbol, error) {
	if len(path) == 0 {
		return nil, newRefError(diag.VerifyUnresolvedReference, sp, diag.Args{"name": ""})
	}
	sym, err := v.lookupName(path[0], sp)
	if err != nil {
		return nil, err
	}
	return v.lookupRest(sym, path, 1, sp)
}

// lookupAbsolute resolves a fully qualified path from the global package.
func (v *Verifier) lookupAbsolute(path []string, sp source.Span) (model.Symbol, error) {
	return v.lookupRest(v.m.Global, path, 0, sp)
}

func (v *Verifier) lookupRest(sym model.Symbol, path []string, from int, sp source.Span) (model.Symbol, error) {
	for i := from; i < len(path); i++ {
		seg := path[i]
		next, err := v.m.ResolveProperty(sym, seg)
		if err != nil {
			return nil, lookupErr(err, seg, sp)
		}
		if next == nil {
			if _, ok := sym.(*model.Package); ok {
				if i == len(path)-1 {
					return nil, newRefError(diag.VerifyUnresolvedReference, sp, diag.Args{"name": strings.Join(path, ".")})
				}
				return nil, newRefError(diag.VerifyPackageNotFound, sp, diag.Args{"name": strings.Join(path[:i+1], ".")})
			}
			return nil, newRefError(diag.VerifyUndefinedProperty, sp, diag.Args{"name": seg, "type": v.describe(sym)})
		}
		if !v.accessible(next) {
			return nil, newRefError(diag.VerifyInaccessibleReference, sp, diag.Args{"name": seg})
		}
		sym = next
	}
	return sym, nil
}

// accessible checks the declared visibility of sym against the current
// frame. Types, namespaces and aliases only distinguish public from
// package-internal.
func (v *Verifier) accessible(sym model.Symbol) bool {
	vis := v.m.VisibilityOf(sym)
	if vis == model.Public {
		return true
	}
	switch sym.(type) {
	case model.TypeID, *model.Namespace, *model.Alias:
		return v.m.IsAccessible(v.frame, sym, model.Internal)
	}
	owner := model.Owner(sym)
	if owner == nil {
		return true
	}
	if _, ok := owner.(*model.MethodSlot); ok {
		return true
	}
	return v.m.IsAccessible(v.frame, owner, vis)
}

// describe names a symbol for diagnostics.
func (v *Verifier) describe(sym model.Symbol) string {
	switch s := sym.(type) {
	case model.TypeID:
		return v.label(s)
	case *model.Package:
		return s.Path
	case *model.Namespace:
		return s.QualifiedName()
	}
	if model.IsValue(sym) {
		return v.label(v.m.TypeOf(sym))
	}
	return model.SymbolName(sym)
}

// slotOf unwraps a reference to the slot behind it.
func slotOf(sym model.Symbol) model.Symbol {
	if ref, ok := sym.(*model.Reference); ok && ref.Prop != nil {
		return ref.Prop
	}
	return sym
}
