package verifier

import (
	"errors"
	"strings"

	"ripple/internal/ast"
	"ripple/internal/diag"
	"ripple/internal/model"
	"ripple/internal/source"
)

type directiveKind uint8

const (
	dirImport directiveKind = iota + 1
	dirUseNamespace
	dirNamespaceAlias
	dirTypeAlias
)

// directive is an import-like declaration whose target may depend on
// declarations or other directives not yet resolved.
type directive struct {
	kind  directiveKind
	frame model.FrameID
	unit  *diag.Unit
	span  source.Span
	name  string
	path  []string
	// wildcard imports open a package instead of declaring an alias
	wildcard bool
	typ      ast.TypeID
	alias    *model.Alias
	stmt     ast.StmtID
}

func (v *Verifier) queue(d *directive) {
	d.frame = v.frame
	d.unit = v.unit
	v.pending = append(v.pending, d)
}

// queueImport declares the alias an import introduces so that lookups of
// the imported name wait for it, and queues its resolution.
func (v *Verifier) queueImport(id ast.StmtID) {
	st := v.b.Stmts.Get(id)
	imp, _ := v.b.Stmts.Import(id)
	d := &directive{kind: dirImport, span: st.Span, path: imp.Path, wildcard: imp.Wildcard, stmt: id}
	if imp.Wildcard || len(imp.Path) == 0 {
		d.name = strings.Join(imp.Path, ".") + ".*"
		v.queue(d)
		return
	}
	d.name = imp.Alias
	if d.name == "" {
		d.name = imp.Path[len(imp.Path)-1]
	}
	d.alias = model.NewAlias(d.name, v.owner(), model.Internal)
	v.declare(d.name, d.alias, st.Span)
	v.queue(d)
}

func (v *Verifier) queueUseNamespace(id ast.StmtID) {
	st := v.b.Stmts.Get(id)
	use, _ := v.b.Stmts.UseNamespace(id)
	v.queue(&directive{kind: dirUseNamespace, span: st.Span, path: use.Path, name: strings.Join(use.Path, "."), stmt: id})
}

// resolveDirectives retries the pending directives silently until none is
// left, no round makes progress, or the bound is hit. A final round
// reports each directive that still fails exactly once and marks its
// alias failed.
func (v *Verifier) resolveDirectives() {
	if len(v.pending) == 0 {
		return
	}
	for round := 0; round < v.bound && len(v.pending) > 0; round++ {
		progress := false
		rest := v.pending[:0]
		for _, d := range v.pending {
			if err := v.tryDirective(d); err != nil {
				rest = append(rest, d)
				continue
			}
			progress = true
		}
		v.pending = rest
		if !progress {
			break
		}
	}
	pending := v.pending
	v.pending = nil
	for _, d := range pending {
		if err := v.tryDirective(d); err != nil {
			v.failDirective(d, err)
		}
	}
}

func (v *Verifier) tryDirective(d *directive) error {
	restore := v.at(d.frame, d.unit)
	defer restore()

	switch d.kind {
	case dirImport:
		return v.resolveImport(d)
	case dirUseNamespace:
		sym, err := v.lookupPath(d.path, d.span)
		if err != nil {
			return err
		}
		ns, ok := sym.(*model.Namespace)
		if !ok {
			return newRefError(diag.VerifyNotANamespace, d.span, diag.Args{"name": d.name})
		}
		v.curFrame().OpenSymbol(ns)
	case dirNamespaceAlias:
		sym, err := v.lookupPath(d.path, d.span)
		if err != nil {
			return err
		}
		if _, ok := sym.(*model.Namespace); !ok {
			return newRefError(diag.VerifyNotANamespace, d.span, diag.Args{"name": strings.Join(d.path, ".")})
		}
		d.alias.Resolve(sym)
	case dirTypeAlias:
		t, err := v.evalType(d.typ)
		if err != nil {
			return err
		}
		d.alias.Resolve(t)
	}
	return nil
}

func (v *Verifier) resolveImport(d *directive) error {
	if d.wildcard {
		if pkg := v.m.Package(d.path, false); pkg != nil {
			v.curFrame().OpenSymbol(pkg)
			return nil
		}
		sym, err := v.lookupAbsolute(d.path, d.span)
		if err != nil {
			var re *refError
			if errors.As(err, &re) && re.code == diag.VerifyUnresolvedReference {
				return newRefError(diag.VerifyPackageNotFound, d.span, diag.Args{"name": strings.Join(d.path, ".")})
			}
			return err
		}
		ns, ok := sym.(*model.Namespace)
		if !ok {
			return newRefError(diag.VerifyNotANamespace, d.span, diag.Args{"name": strings.Join(d.path, ".")})
		}
		v.curFrame().OpenSymbol(ns)
		return nil
	}
	sym, err := v.lookupAbsolute(d.path, d.span)
	if err != nil {
		return err
	}
	d.alias.Resolve(slotOf(sym))
	return nil
}

// failDirective reports why d could not be resolved. Failures rooted in
// another alias are reported as an unresolved alias of d itself.
func (v *Verifier) failDirective(d *directive, err error) {
	restore := v.at(d.frame, d.unit)
	defer restore()

	var re *refError
	if errors.As(err, &re) && !re.quiet && !re.pending {
		v.report(re.code, re.span, re.args)
	} else {
		v.report(diag.VerifyUnresolvedAlias, d.span, diag.Args{"name": d.name})
	}
	if d.alias != nil {
		d.alias.Fail()
	}
}
