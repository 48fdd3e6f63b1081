package ast

import (
	"ripple/internal/model"
	"ripple/internal/source"
)

type ItemKind uint8

const (
	ItemPackage ItemKind = iota + 1
	ItemNamespace
	ItemClass
	ItemInterface
	ItemEnum
	ItemFn
	ItemVar
	ItemTypeAlias
	ItemNamespaceAlias
)

func (k ItemKind) String() string {
	switch k {
	case ItemPackage:
		return "package"
	case ItemNamespace:
		return "namespace"
	case ItemClass:
		return "class"
	case ItemInterface:
		return "interface"
	case ItemEnum:
		return "enum"
	case ItemFn:
		return "function"
	case ItemVar:
		return "variable"
	case ItemTypeAlias:
		return "type alias"
	case ItemNamespaceAlias:
		return "namespace alias"
	}
	return "item"
}

// Item is a definition. Name is empty for variable definitions (their
// names live in the pattern) and anonymous functions.
type Item struct {
	Kind      ItemKind
	Span      source.Span
	Name      string
	NameSpan  source.Span
	Vis       Visibility
	Modifiers Modifiers
	Payload   PayloadID
	Sem       ItemSem
}

// ItemSem is written by the verifier. Symbol is the declared symbol
// (a TypeID for classes, interfaces and enums, a slot for functions, an
// alias for type and namespace aliases); Frame is the scope the item
// opens, if any.
type ItemSem struct {
	Symbol model.Symbol
	Frame  model.FrameID
	// Phase is the last verifier phase that completed on this item.
	Phase uint8
}

// TypeParam is a generic parameter with optional bounds; a class bound,
// when present, comes first.
type TypeParam struct {
	Name   string
	Span   source.Span
	Bounds []TypeID
}

type PackageItem struct {
	Path []string
	Body []StmtID
}

type NamespaceItem struct {
	Body []StmtID
}

type ClassItem struct {
	TypeParams []TypeParam
	Extends    TypeID
	Implements []TypeID
	Members    []ItemID
}

type InterfaceItem struct {
	TypeParams []TypeParam
	Extends    []TypeID
	Members    []ItemID
}

type EnumVariant struct {
	Name  string
	Span  source.Span
	Value ExprID
}

type EnumItem struct {
	Flags    bool
	Repr     TypeID
	Variants []EnumVariant
	Members  []ItemID
}

type FnKind uint8

const (
	FnPlain FnKind = iota
	FnGetter
	FnSetter
	FnConstructor
	FnProxy
)

func (k FnKind) String() string {
	switch k {
	case FnGetter:
		return "getter"
	case FnSetter:
		return "setter"
	case FnConstructor:
		return "constructor"
	case FnProxy:
		return "proxy"
	default:
		return "function"
	}
}

// Param is a function parameter. Default makes it optional; Rest marks
// the trailing rest parameter.
type Param struct {
	Name    string
	Span    source.Span
	Type    TypeID
	Default ExprID
	Rest    bool
	Sem     ParamSem
}

type ParamSem struct {
	Slot *model.VariableSlot
}

// FnItem is a function, method, accessor, constructor or proxy. Body is
// NoStmtID for native, abstract and interface methods; ExprBody holds the
// result of an expression-bodied lambda.
type FnItem struct {
	Kind       FnKind
	TypeParams []TypeParam
	Params     []Param
	Result     TypeID
	Body       StmtID
	ExprBody   ExprID
}

type VarItem struct {
	ReadOnly bool
	Pattern  PatternID
	Init     ExprID
}

type TypeAliasItem struct {
	Type TypeID
}

type NamespaceAliasItem struct {
	Target []string
}

type Items struct {
	Arena            *Arena[Item]
	Packages         *Arena[PackageItem]
	Namespaces       *Arena[NamespaceItem]
	Classes          *Arena[ClassItem]
	Interfaces       *Arena[InterfaceItem]
	Enums            *Arena[EnumItem]
	Fns              *Arena[FnItem]
	Vars             *Arena[VarItem]
	TypeAliases      *Arena[TypeAliasItem]
	NamespaceAliases *Arena[NamespaceAliasItem]
}

// NewItems creates the item arenas. If capHint is 0 a default of 1<<7 is
// used.
func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Items{
		Arena:            NewArena[Item](capHint),
		Packages:         NewArena[PackageItem](4),
		Namespaces:       NewArena[NamespaceItem](8),
		Classes:          NewArena[ClassItem](capHint),
		Interfaces:       NewArena[InterfaceItem](capHint),
		Enums:            NewArena[EnumItem](8),
		Fns:              NewArena[FnItem](capHint),
		Vars:             NewArena[VarItem](capHint),
		TypeAliases:      NewArena[TypeAliasItem](8),
		NamespaceAliases: NewArena[NamespaceAliasItem](4),
	}
}

func (i *Items) new(kind ItemKind, sp source.Span, name string, payload uint32) ItemID {
	return ItemID(i.Arena.Allocate(Item{
		Kind:     kind,
		Span:     sp,
		Name:     name,
		NameSpan: sp,
		Payload:  PayloadID(payload),
	}))
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}

func (i *Items) NewPackage(sp source.Span, path []string, body []StmtID) ItemID {
	p := i.Packages.Allocate(PackageItem{Path: append([]string(nil), path...), Body: body})
	name := ""
	if len(path) > 0 {
		name = path[len(path)-1]
	}
	return i.new(ItemPackage, sp, name, p)
}

func (i *Items) Package(id ItemID) (*PackageItem, bool) {
	it := i.Get(id)
	if it == nil {
		return nil, false
	}
	return payload(it.Kind, ItemPackage, it.Payload, i.Packages)
}

func (i *Items) NewNamespace(sp source.Span, name string, body []StmtID) ItemID {
	return i.new(ItemNamespace, sp, name, i.Namespaces.Allocate(NamespaceItem{Body: body}))
}

func (i *Items) Namespace(id ItemID) (*NamespaceItem, bool) {
	it := i.Get(id)
	if it == nil {
		return nil, false
	}
	return payload(it.Kind, ItemNamespace, it.Payload, i.Namespaces)
}

func (i *Items) NewClass(sp source.Span, name string, data ClassItem) ItemID {
	return i.new(ItemClass, sp, name, i.Classes.Allocate(data))
}

func (i *Items) Class(id ItemID) (*ClassItem, bool) {
	it := i.Get(id)
	if it == nil {
		return nil, false
	}
	return payload(it.Kind, ItemClass, it.Payload, i.Classes)
}

func (i *Items) NewInterface(sp source.Span, name string, data InterfaceItem) ItemID {
	return i.new(ItemInterface, sp, name, i.Interfaces.Allocate(data))
}

func (i *Items) Interface(id ItemID) (*InterfaceItem, bool) {
	it := i.Get(id)
	if it == nil {
		return nil, false
	}
	return payload(it.Kind, ItemInterface, it.Payload, i.Interfaces)
}

func (i *Items) NewEnum(sp source.Span, name string, data EnumItem) ItemID {
	return i.new(ItemEnum, sp, name, i.Enums.Allocate(data))
}

func (i *Items) Enum(id ItemID) (*EnumItem, bool) {
	it := i.Get(id)
	if it == nil {
		return nil, false
	}
	return payload(it.Kind, ItemEnum, it.Payload, i.Enums)
}

func (i *Items) NewFn(sp source.Span, name string, data FnItem) ItemID {
	return i.new(ItemFn, sp, name, i.Fns.Allocate(data))
}

func (i *Items) Fn(id ItemID) (*FnItem, bool) {
	it := i.Get(id)
	if it == nil {
		return nil, false
	}
	return payload(it.Kind, ItemFn, it.Payload, i.Fns)
}

func (i *Items) NewVar(sp source.Span, readOnly bool, pat PatternID, init ExprID) ItemID {
	return i.new(ItemVar, sp, "", i.Vars.Allocate(VarItem{ReadOnly: readOnly, Pattern: pat, Init: init}))
}

func (i *Items) Var(id ItemID) (*VarItem, bool) {
	it := i.Get(id)
	if it == nil {
		return nil, false
	}
	return payload(it.Kind, ItemVar, it.Payload, i.Vars)
}

func (i *Items) NewTypeAlias(sp source.Span, name string, typ TypeID) ItemID {
	return i.new(ItemTypeAlias, sp, name, i.TypeAliases.Allocate(TypeAliasItem{Type: typ}))
}

func (i *Items) TypeAlias(id ItemID) (*TypeAliasItem, bool) {
	it := i.Get(id)
	if it == nil {
		return nil, false
	}
	return payload(it.Kind, ItemTypeAlias, it.Payload, i.TypeAliases)
}

func (i *Items) NewNamespaceAlias(sp source.Span, name string, target []string) ItemID {
	p := i.NamespaceAliases.Allocate(NamespaceAliasItem{Target: append([]string(nil), target...)})
	return i.new(ItemNamespaceAlias, sp, name, p)
}

func (i *Items) NamespaceAlias(id ItemID) (*NamespaceAliasItem, bool) {
	it := i.Get(id)
	if it == nil {
		return nil, false
	}
	return payload(it.Kind, ItemNamespaceAlias, it.Payload, i.NamespaceAliases)
}
