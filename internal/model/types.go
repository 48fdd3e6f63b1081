package model

import "fmt"

// TypeID identifies a type inside the Interner. Structural types are
// interned, so TypeID equality is type identity.
type TypeID uint32

// NoType marks an absent or not yet resolved type.
const NoType TypeID = 0

type Kind uint8

const (
	KindInvalid Kind = iota
	KindAny
	KindVoid
	KindUndefined
	KindNull
	KindClass
	KindInterface
	KindEnum
	KindRecord
	KindTuple
	KindUnion
	KindFunction
	KindTypeParam
	KindInstance
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindAny:
		return "any"
	case KindVoid:
		return "void"
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindRecord:
		return "record"
	case KindTuple:
		return "tuple"
	case KindUnion:
		return "union"
	case KindFunction:
		return "function"
	case KindTypeParam:
		return "type parameter"
	case KindInstance:
		return "instance"
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Type is the compact descriptor stored per TypeID. Payload indexes the
// per-kind info table.
type Type struct {
	Kind    Kind
	Payload uint32
}
