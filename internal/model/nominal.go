package model

import "math/big"

type ClassFlags uint8

const (
	ClassFinal ClassFlags = 1 << iota
	ClassDynamic
	ClassNative
)

// ClassInfo describes a class. Super and Implements are filled in the
// heritage phase; Static and Instance are member tables.
type ClassInfo struct {
	Name       string
	Parent     Symbol
	Vis        Visibility
	Flags      ClassFlags
	TypeParams []TypeID
	Super      TypeID
	Implements []TypeID
	Static     *Properties
	Instance   *Properties
	Ctor       *MethodSlot
	Proxies    map[ProxyKind]*MethodSlot
	// Heritage is set once Super and Implements are final.
	Heritage bool
}

func (c *ClassInfo) IsFinal() bool { return c.Flags&ClassFinal != 0 }

type InterfaceInfo struct {
	Name       string
	Parent     Symbol
	Vis        Visibility
	TypeParams []TypeID
	Extends    []TypeID
	Instance   *Properties
	Heritage   bool
}

type EnumVariant struct {
	Name  string
	Value *big.Int
}

// EnumInfo describes a plain or flags enum. Repr is the numeric class the
// variants are represented by.
type EnumInfo struct {
	Name     string
	Parent   Symbol
	Vis      Visibility
	IsFlags  bool
	Repr     TypeID
	Variants []EnumVariant
	Static   *Properties
	Instance *Properties
	Proxies  map[ProxyKind]*MethodSlot
}

// Variant returns the variant named name.
func (e *EnumInfo) Variant(name string) (EnumVariant, bool) {
	for _, v := range e.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return EnumVariant{}, false
}

// VariantByValue returns the first variant whose value equals n.
func (e *EnumInfo) VariantByValue(n *big.Int) (EnumVariant, bool) {
	for _, v := range e.Variants {
		if v.Value.Cmp(n) == 0 {
			return v, true
		}
	}
	return EnumVariant{}, false
}

// TypeParamInfo describes a generic parameter. Super is the class bound
// (NoType when absent) and Interfaces the interface bounds.
type TypeParamInfo struct {
	Name       string
	Owner      Symbol
	Index      int
	Super      TypeID
	Interfaces []TypeID
}

func (in *Interner) NewClass(info ClassInfo) TypeID {
	if info.Static == nil {
		info.Static = NewProperties()
	}
	if info.Instance == nil {
		info.Instance = NewProperties()
	}
	in.classes = append(in.classes, &info)
	return in.add(Type{Kind: KindClass, Payload: slot(len(in.classes) - 1)})
}

func (in *Interner) NewInterface(info InterfaceInfo) TypeID {
	if info.Instance == nil {
		info.Instance = NewProperties()
	}
	in.ifaces = append(in.ifaces, &info)
	return in.add(Type{Kind: KindInterface, Payload: slot(len(in.ifaces) - 1)})
}

func (in *Interner) NewEnum(info EnumInfo) TypeID {
	if info.Static == nil {
		info.Static = NewProperties()
	}
	if info.Instance == nil {
		info.Instance = NewProperties()
	}
	in.enums = append(in.enums, &info)
	return in.add(Type{Kind: KindEnum, Payload: slot(len(in.enums) - 1)})
}

func (in *Interner) NewTypeParam(info TypeParamInfo) TypeID {
	in.params = append(in.params, &info)
	return in.add(Type{Kind: KindTypeParam, Payload: slot(len(in.params) - 1)})
}

// Class returns the info of a class type, or nil.
func (in *Interner) Class(id TypeID) *ClassInfo {
	if p, ok := in.payload(id, KindClass); ok {
		return in.classes[p]
	}
	return nil
}

func (in *Interner) Interface(id TypeID) *InterfaceInfo {
	if p, ok := in.payload(id, KindInterface); ok {
		return in.ifaces[p]
	}
	return nil
}

func (in *Interner) Enum(id TypeID) *EnumInfo {
	if p, ok := in.payload(id, KindEnum); ok {
		return in.enums[p]
	}
	return nil
}

func (in *Interner) TypeParam(id TypeID) *TypeParamInfo {
	if p, ok := in.payload(id, KindTypeParam); ok {
		return in.params[p]
	}
	return nil
}

// TypeParamsOf returns the generic parameters of a class or interface.
func (in *Interner) TypeParamsOf(id TypeID) []TypeID {
	if c := in.Class(id); c != nil {
		return c.TypeParams
	}
	if i := in.Interface(id); i != nil {
		return i.TypeParams
	}
	return nil
}

// NameOf returns the declared name of nominal types.
func (in *Interner) NameOf(id TypeID) string {
	switch in.Kind(id) {
	case KindClass:
		return in.Class(id).Name
	case KindInterface:
		return in.Interface(id).Name
	case KindEnum:
		return in.Enum(id).Name
	case KindTypeParam:
		return in.TypeParam(id).Name
	case KindInstance:
		return in.NameOf(in.Instance(id).Origin)
	}
	return ""
}
