package model

import "strings"

// Package is a dotted package. Members live in Props, child packages in
// Subs. The global package has an empty Path.
type Package struct {
	Name   string
	Path   string
	Parent *Package
	Props  *Properties
	Subs   *Properties
}

func newPackage(name string, parent *Package) *Package {
	path := name
	if parent != nil && parent.Path != "" {
		path = parent.Path + "." + name
	}
	return &Package{
		Name:   name,
		Path:   path,
		Parent: parent,
		Props:  NewProperties(),
		Subs:   NewProperties(),
	}
}

// Sub returns the direct child package name, creating it when create is set.
func (p *Package) Sub(name string, create bool) *Package {
	if sym, ok := p.Subs.Get(name); ok {
		return sym.(*Package)
	}
	if !create {
		return nil
	}
	child := newPackage(name, p)
	p.Subs.Set(name, child)
	return child
}

// Namespace is a named group of declarations inside a package or another
// namespace.
type Namespace struct {
	Name   string
	Parent Symbol
	Vis    Visibility
	Props  *Properties
}

func NewNamespace(name string, parent Symbol, vis Visibility) *Namespace {
	return &Namespace{Name: name, Parent: parent, Vis: vis, Props: NewProperties()}
}

// QualifiedName joins the namespace with its enclosing namespaces and
// package.
func (n *Namespace) QualifiedName() string {
	parts := []string{n.Name}
	for p := n.Parent; p != nil; {
		switch x := p.(type) {
		case *Namespace:
			parts = append(parts, x.Name)
			p = x.Parent
		case *Package:
			if x.Path != "" {
				parts = append(parts, x.Path)
			}
			p = nil
		default:
			p = nil
		}
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

type AliasState uint8

const (
	AliasUnresolved AliasState = iota
	AliasResolved
	AliasFailed
)

// Alias re-exports another symbol under Name: imports, namespace aliases
// and type aliases.
type Alias struct {
	Name   string
	Parent Symbol
	Vis    Visibility
	State  AliasState
	Target Symbol
}

func NewAlias(name string, parent Symbol, vis Visibility) *Alias {
	return &Alias{Name: name, Parent: parent, Vis: vis}
}

func (a *Alias) Resolve(target Symbol) {
	a.Target = target
	a.State = AliasResolved
}

// Fail marks the alias as permanently unresolvable. Lookups through it
// report ErrFailedAlias so the root cause is diagnosed only once.
func (a *Alias) Fail() {
	a.Target = nil
	a.State = AliasFailed
}
