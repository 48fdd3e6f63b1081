package model

// Builtins holds the TypeIDs created by New.
type Builtins struct {
	Any       TypeID
	Void      TypeID
	Undefined TypeID
	Null      TypeID

	Object    TypeID
	String    TypeID
	Boolean   TypeID
	Number    TypeID
	Decimal   TypeID
	Byte      TypeID
	Short     TypeID
	Int       TypeID
	Long      TypeID
	BigInt    TypeID
	ByteArray TypeID
	RegExp    TypeID
	Function  TypeID
	Class     TypeID

	Array     TypeID
	Map       TypeID
	Promise   TypeID
	Generator TypeID
}

// Model is the symbol and type universe of one verification run. It is
// not safe for concurrent use; independent runs use independent Models.
type Model struct {
	Types       *Interner
	Frames      *Frames
	Builtins    Builtins
	Global      *Package
	GlobalFrame FrameID

	lazy func(Symbol)
}

// New builds a model with the built-in classes declared in the global
// package.
func New() *Model {
	m := &Model{
		Types:  NewInterner(),
		Frames: NewFrames(),
		Global: newPackage("", nil),
	}
	m.GlobalFrame = m.Frames.New(FramePackage, m.Global, m.Global.Props)
	m.Frames.Claim(m.GlobalFrame, NoFrame)
	m.declareBuiltins()
	return m
}

// SetLazyResolver installs the hook called when a slot type is read while
// still pending. The verifier uses it to resolve declarations on demand.
func (m *Model) SetLazyResolver(fn func(Symbol)) {
	m.lazy = fn
}

// Ensure runs the lazy resolver for sym when its type is still pending.
func (m *Model) Ensure(sym Symbol) {
	if m.lazy == nil {
		return
	}
	pending := false
	switch s := sym.(type) {
	case *VariableSlot:
		pending = !s.Origin().Type.Ready()
	case *MethodSlot:
		pending = !s.Origin().Signature.Ready()
	case *VirtualSlot:
		pending = !s.Origin().Type.Ready()
	}
	if pending {
		m.lazy(sym)
	}
}

// TypeOf returns the static type of a value, resolving pending slots on
// demand. Slots themselves are accepted too.
func (m *Model) TypeOf(sym Symbol) TypeID {
	switch s := sym.(type) {
	case *Reference:
		if s.Type == NoType && s.Prop != nil {
			s.Type = m.slotTypeResolved(s.Prop)
		}
		return s.Type
	case *VariableSlot, *MethodSlot, *VirtualSlot:
		return m.slotTypeResolved(s)
	}
	return StaticType(sym)
}

func (m *Model) slotTypeResolved(sym Symbol) TypeID {
	if t := slotType(sym); t != NoType {
		return t
	}
	m.Ensure(sym)
	if t := slotType(sym); t != NoType {
		return t
	}
	// a specialised copy made while its origin was pending
	m.refreshSpecialised(sym)
	return slotType(sym)
}

// Package returns the package at path, creating missing segments when
// create is set.
func (m *Model) Package(path []string, create bool) *Package {
	p := m.Global
	for _, seg := range path {
		p = p.Sub(seg, create)
		if p == nil {
			return nil
		}
	}
	return p
}

func (m *Model) ArrayOf(elem TypeID) TypeID {
	return m.Types.InternInstance(m.Builtins.Array, []TypeID{elem})
}

func (m *Model) MapOf(key, val TypeID) TypeID {
	return m.Types.InternInstance(m.Builtins.Map, []TypeID{key, val})
}

func (m *Model) PromiseOf(t TypeID) TypeID {
	return m.Types.InternInstance(m.Builtins.Promise, []TypeID{t})
}

func (m *Model) GeneratorOf(t TypeID) TypeID {
	return m.Types.InternInstance(m.Builtins.Generator, []TypeID{t})
}

// ElementOf returns T for Array<T>.
func (m *Model) ElementOf(arr TypeID) (TypeID, bool) {
	inst := m.Types.Instance(arr)
	if inst == nil || inst.Origin != m.Builtins.Array {
		return NoType, false
	}
	return inst.Args[0], true
}

// MapTypes returns K and V for Map<K, V>.
func (m *Model) MapTypes(t TypeID) (TypeID, TypeID, bool) {
	inst := m.Types.Instance(t)
	if inst == nil || inst.Origin != m.Builtins.Map {
		return NoType, NoType, false
	}
	return inst.Args[0], inst.Args[1], true
}

func (m *Model) Fn(params []TypeID, result TypeID) TypeID {
	return m.Types.InternFunction(FnInfo{Params: params, Result: result})
}

// GeneratorElem returns T for Generator<T>.
func (m *Model) GeneratorElem(t TypeID) (TypeID, bool) {
	inst := m.Types.Instance(t)
	if inst == nil || inst.Origin != m.Builtins.Generator {
		return NoType, false
	}
	return inst.Args[0], true
}

// PromiseElem returns T for Promise<T>.
func (m *Model) PromiseElem(t TypeID) (TypeID, bool) {
	inst := m.Types.Instance(t)
	if inst == nil || inst.Origin != m.Builtins.Promise {
		return NoType, false
	}
	return inst.Args[0], true
}
