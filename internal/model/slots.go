package model

type MethodFlags uint16

const (
	MethodUsesYield MethodFlags = 1 << iota
	MethodUsesAwait
	MethodOverride
	MethodFinal
	MethodNative
	MethodConstructor
	MethodOptionalInterface
	MethodStatic
	MethodGetter
	MethodSetter
	MethodProxy
)

func (f MethodFlags) Has(flag MethodFlags) bool { return f&flag != 0 }

// ProxyKind names the special methods a type may declare to take part in
// conversions, indexing and iteration.
type ProxyKind uint8

const (
	ProxyNone ProxyKind = iota
	ProxyConvertImplicit
	ProxyConvertExplicit
	ProxyGetIndex
	ProxySetIndex
	ProxyIterateKeys
	ProxyIterateValues
)

var proxyNames = map[string]ProxyKind{
	"convertImplicit": ProxyConvertImplicit,
	"convertExplicit": ProxyConvertExplicit,
	"getIndex":        ProxyGetIndex,
	"setIndex":        ProxySetIndex,
	"iterateKeys":     ProxyIterateKeys,
	"iterateValues":   ProxyIterateValues,
}

// ParseProxy maps a proxy method name to its kind.
func ParseProxy(name string) (ProxyKind, bool) {
	k, ok := proxyNames[name]
	return k, ok
}

// Static reports whether proxies of kind k are static methods.
func (k ProxyKind) Static() bool {
	return k == ProxyConvertImplicit || k == ProxyConvertExplicit
}

func (k ProxyKind) String() string {
	for name, kind := range proxyNames {
		if kind == k {
			return name
		}
	}
	return "none"
}

// VariableSlot is a field, a local or a package-level variable.
type VariableSlot struct {
	Name     string
	Owner    Symbol
	Vis      Visibility
	ReadOnly bool
	Static   bool
	Type     Pending[TypeID]
	// Init is the constant initial value, when the initialiser folds.
	Init *Constant

	origin *VariableSlot
	subst  *Subst
}

// Origin returns the declared slot a specialised copy was made from.
func (s *VariableSlot) Origin() *VariableSlot {
	if s.origin != nil {
		return s.origin
	}
	return s
}

// MethodSlot is a method, function, getter, setter, constructor or proxy.
type MethodSlot struct {
	Name       string
	Owner      Symbol
	Vis        Visibility
	Flags      MethodFlags
	TypeParams []TypeID
	Signature  Pending[TypeID]
	Proxy      ProxyKind
	// Virtual links getters and setters to their property.
	Virtual *VirtualSlot
	// Overriders lists subtype methods that override this one.
	Overriders []*MethodSlot
	Overridden *MethodSlot

	origin *MethodSlot
	subst  *Subst
}

func (s *MethodSlot) Origin() *MethodSlot {
	if s.origin != nil {
		return s.origin
	}
	return s
}

func (s *MethodSlot) IsStatic() bool { return s.Flags.Has(MethodStatic) }

func (s *MethodSlot) IsGeneric() bool { return len(s.TypeParams) > 0 }

// VirtualSlot is a property backed by a getter, a setter or both. Type is
// the property type, set once either accessor signature is known.
type VirtualSlot struct {
	Name   string
	Owner  Symbol
	Vis    Visibility
	Static bool
	Getter *MethodSlot
	Setter *MethodSlot
	Type   Pending[TypeID]

	origin *VirtualSlot
	subst  *Subst
}

func (s *VirtualSlot) Origin() *VirtualSlot {
	if s.origin != nil {
		return s.origin
	}
	return s
}

// AttachGetter links g as the getter of s, keeping back-references in sync.
func (s *VirtualSlot) AttachGetter(g *MethodSlot) {
	s.Getter = g
	g.Virtual = s
	g.Flags |= MethodGetter
}

func (s *VirtualSlot) AttachSetter(st *MethodSlot) {
	s.Setter = st
	st.Virtual = s
	st.Flags |= MethodSetter
}
