package model

// Symbol is any compile-time entity: a type, a frame, a namespace or
// package, an alias, a slot or a value. The set of implementations is
// closed; callers switch on the concrete type.
type Symbol interface {
	symbol()
}

func (TypeID) symbol()        {}
func (FrameID) symbol()       {}
func (*Package) symbol()      {}
func (*Namespace) symbol()    {}
func (*Alias) symbol()        {}
func (*VariableSlot) symbol() {}
func (*MethodSlot) symbol()   {}
func (*VirtualSlot) symbol()  {}
func (*Constant) symbol()     {}
func (*Reference) symbol()    {}
func (*Conversion) symbol()   {}
func (*Plain) symbol()        {}
func (*This) symbol()         {}

// Visibility of a declaration.
type Visibility uint8

const (
	Public Visibility = iota
	Internal
	Protected
	Private
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Internal:
		return "internal"
	case Protected:
		return "protected"
	case Private:
		return "private"
	}
	return "unknown"
}

// Pending holds a field that is filled by a later verifier phase. Reading
// it before Set is either checked (Get) or a bug (MustGet).
type Pending[T any] struct {
	val T
	ok  bool
}

func Resolved[T any](v T) Pending[T] {
	return Pending[T]{val: v, ok: true}
}

func (p *Pending[T]) Set(v T) {
	p.val = v
	p.ok = true
}

func (p *Pending[T]) Get() (T, bool) {
	return p.val, p.ok
}

func (p *Pending[T]) Ready() bool {
	return p.ok
}

func (p *Pending[T]) MustGet() T {
	if !p.ok {
		panic("model: pending field read before resolution")
	}
	return p.val
}

// SymbolName returns the declared name of named symbols and "" otherwise.
func SymbolName(sym Symbol) string {
	switch s := sym.(type) {
	case *Package:
		return s.Path
	case *Namespace:
		return s.Name
	case *Alias:
		return s.Name
	case *VariableSlot:
		return s.Name
	case *MethodSlot:
		return s.Name
	case *VirtualSlot:
		return s.Name
	case *Reference:
		return s.Name
	}
	return ""
}
