package ast

import (
	"ripple/internal/source"
)

type Hints struct{ Files, Items, Stmts, Exprs, Types, Patterns uint }

// Builder owns every arena of one AST. Programs built by the same
// Builder may reference each other through includes.
type Builder struct {
	Files    *Files
	Items    *Items
	Stmts    *Stmts
	Exprs    *Exprs
	Types    *Types
	Patterns *Patterns
}

func NewBuilder(hints Hints) *Builder {
	if hints.Files == 0 {
		hints.Files = 1 << 4
	}
	if hints.Items == 0 {
		hints.Items = 1 << 7
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 8
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	return &Builder{
		Files:    NewFiles(hints.Files),
		Items:    NewItems(hints.Items),
		Stmts:    NewStmts(hints.Stmts),
		Exprs:    NewExprs(hints.Exprs),
		Types:    NewTypes(hints.Types),
		Patterns: NewPatterns(hints.Patterns),
	}
}

func (b *Builder) NewFile(sp source.Span, path string) FileID {
	return b.Files.New(sp, path)
}

func (b *Builder) PushPackage(file FileID, item ItemID) {
	f := b.Files.Get(file)
	f.Packages = append(f.Packages, item)
}

func (b *Builder) PushStmt(file FileID, stmt StmtID) {
	f := b.Files.Get(file)
	f.Stmts = append(f.Stmts, stmt)
}

// Decl wraps an item in a declaration statement.
func (b *Builder) Decl(item ItemID) StmtID {
	return b.Stmts.NewDecl(b.Items.Get(item).Span, item)
}

// TypeName is a shorthand for an unqualified type reference.
func (b *Builder) TypeName(name string, args ...TypeID) TypeID {
	return b.Types.NewName(source.NoSpan, []string{name}, args)
}
