package ast

import (
	"ripple/internal/model"
	"ripple/internal/source"
)

type TypeExprKind uint8

const (
	TypeExprName TypeExprKind = iota + 1
	TypeExprNullable
	TypeExprNonNullable
	TypeExprUnion
	TypeExprTuple
	TypeExprRecord
	TypeExprFunction
	TypeExprArray
)

// TypeExpr is a written type.
type TypeExpr struct {
	Kind    TypeExprKind
	Span    source.Span
	Payload PayloadID
	Sem     TypeSem
}

type TypeSem struct {
	Resolved bool
	Type     model.TypeID
}

// TypeName is a possibly qualified name with optional type arguments,
// e.g. a.b.Map<String, Int>.
type TypeName struct {
	Path []string
	Args []TypeID
}

// TypeElem serves nullable (T?), non-nullable (T!) and array (T[]) types.
type TypeElem struct {
	Elem TypeID
}

// TypeList serves unions and tuples.
type TypeList struct {
	Members []TypeID
}

type TypeRecordField struct {
	Name     string
	Span     source.Span
	Type     TypeID
	Optional bool
}

type TypeRecord struct {
	Fields []TypeRecordField
}

type TypeFunction struct {
	Params   []TypeID
	Optional []TypeID
	Rest     TypeID
	Result   TypeID
}

type Types struct {
	Arena     *Arena[TypeExpr]
	Names     *Arena[TypeName]
	Elems     *Arena[TypeElem]
	Lists     *Arena[TypeList]
	Records   *Arena[TypeRecord]
	Functions *Arena[TypeFunction]
}

func NewTypes(capHint uint) *Types {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Types{
		Arena:     NewArena[TypeExpr](capHint),
		Names:     NewArena[TypeName](capHint),
		Elems:     NewArena[TypeElem](capHint),
		Lists:     NewArena[TypeList](capHint),
		Records:   NewArena[TypeRecord](capHint),
		Functions: NewArena[TypeFunction](capHint),
	}
}

func (t *Types) new(kind TypeExprKind, span source.Span, p uint32) TypeID {
	return TypeID(t.Arena.Allocate(TypeExpr{Kind: kind, Span: span, Payload: PayloadID(p)}))
}

func (t *Types) Get(id TypeID) *TypeExpr {
	return t.Arena.Get(uint32(id))
}

func (t *Types) kindOf(id TypeID) (TypeExprKind, PayloadID) {
	x := t.Get(id)
	if x == nil {
		return 0, NoPayloadID
	}
	return x.Kind, x.Payload
}

func (t *Types) NewName(span source.Span, path []string, args []TypeID) TypeID {
	p := t.Names.Allocate(TypeName{Path: append([]string(nil), path...), Args: append([]TypeID(nil), args...)})
	return t.new(TypeExprName, span, p)
}

func (t *Types) Name(id TypeID) (*TypeName, bool) {
	k, p := t.kindOf(id)
	return payload(k, TypeExprName, p, t.Names)
}

// NewElem creates a nullable, non-nullable or array type around elem.
func (t *Types) NewElem(span source.Span, kind TypeExprKind, elem TypeID) TypeID {
	return t.new(kind, span, t.Elems.Allocate(TypeElem{Elem: elem}))
}

func (t *Types) Elem(id TypeID) (*TypeElem, bool) {
	k, p := t.kindOf(id)
	switch k {
	case TypeExprNullable, TypeExprNonNullable, TypeExprArray:
		return payload(k, k, p, t.Elems)
	}
	return nil, false
}

// NewList creates a union or tuple type.
func (t *Types) NewList(span source.Span, kind TypeExprKind, members []TypeID) TypeID {
	return t.new(kind, span, t.Lists.Allocate(TypeList{Members: append([]TypeID(nil), members...)}))
}

func (t *Types) List(id TypeID) (*TypeList, bool) {
	k, p := t.kindOf(id)
	switch k {
	case TypeExprUnion, TypeExprTuple:
		return payload(k, k, p, t.Lists)
	}
	return nil, false
}

func (t *Types) NewRecord(span source.Span, fields []TypeRecordField) TypeID {
	return t.new(TypeExprRecord, span, t.Records.Allocate(TypeRecord{Fields: append([]TypeRecordField(nil), fields...)}))
}

func (t *Types) Record(id TypeID) (*TypeRecord, bool) {
	k, p := t.kindOf(id)
	return payload(k, TypeExprRecord, p, t.Records)
}

func (t *Types) NewFunction(span source.Span, data TypeFunction) TypeID {
	return t.new(TypeExprFunction, span, t.Functions.Allocate(data))
}

func (t *Types) Function(id TypeID) (*TypeFunction, bool) {
	k, p := t.kindOf(id)
	return payload(k, TypeExprFunction, p, t.Functions)
}
