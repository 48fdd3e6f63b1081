package model

import (
	"math/big"
	"strconv"
)

type ConstKind uint8

const (
	ConstBoolean ConstKind = iota + 1
	ConstString
	ConstNumber
	ConstDecimal
	ConstByte
	ConstShort
	ConstInt
	ConstLong
	ConstBigInt
	ConstEnum
	ConstNull
	ConstUndefined
)

// IsInteger reports whether the payload lives in Constant.Int.
func (k ConstKind) IsInteger() bool {
	return k >= ConstByte && k <= ConstBigInt
}

// Constant is a compile-time value. The payload field used depends on Kind:
// Bool, Str, Num (Number), Dec (Decimal) or Int (integers and enums).
type Constant struct {
	Kind ConstKind
	Type TypeID
	Bool bool
	Str  string
	Num  float64
	Dec  *big.Float
	Int  *big.Int
}

func (c *Constant) String() string {
	switch c.Kind {
	case ConstBoolean:
		return strconv.FormatBool(c.Bool)
	case ConstString:
		return strconv.Quote(c.Str)
	case ConstNumber:
		return strconv.FormatFloat(c.Num, 'g', -1, 64)
	case ConstDecimal:
		return c.Dec.Text('g', -1)
	case ConstNull:
		return "null"
	case ConstUndefined:
		return "undefined"
	}
	if c.Int != nil {
		return c.Int.String()
	}
	return "?"
}

// WithType returns a copy of c retyped to t.
func (c *Constant) WithType(t TypeID) *Constant {
	cp := *c
	cp.Type = t
	return &cp
}

type RefKind uint8

const (
	RefFrameProperty RefKind = iota + 1
	RefTypeProperty
	RefInstanceProperty
	RefNamespaceProperty
	RefPackageProperty
	RefTupleElement
	RefIndexed
	RefDynamic
)

func (k RefKind) String() string {
	switch k {
	case RefFrameProperty:
		return "frame property"
	case RefTypeProperty:
		return "type property"
	case RefInstanceProperty:
		return "instance property"
	case RefNamespaceProperty:
		return "namespace property"
	case RefPackageProperty:
		return "package property"
	case RefTupleElement:
		return "tuple element"
	case RefIndexed:
		return "indexed"
	case RefDynamic:
		return "dynamic"
	}
	return "unknown"
}

// Reference is a property accessed through a base: a frame, a type, a
// namespace, a package or a value. Prop is the slot behind it, nil for
// record fields, tuple elements, indexing and dynamic access; Type is then
// the element type.
type Reference struct {
	Kind      RefKind
	Base      Symbol
	Name      string
	Prop      Symbol
	Type      TypeID
	Index     int
	Key       Symbol
	ReadOnly  bool
	WriteOnly bool
}

type ConversionKind uint8

const (
	ConvFromAny ConversionKind = iota + 1
	ConvToAny
	ConvImplicitProxy
	ConvNumericWidening
	ConvNonUnionToUnion
	ConvUnionToUnion
	ConvRecordToRecord
	ConvToCovariant
	ConvExplicitProxy
	ConvUnionMemberNarrowing
	ConvToContravariant
	ConvArrayCovariant
	ConvArrayContravariant
	ConvNumericNarrowing
	ConvStringToEnum
	ConvNumberToEnum
)

var conversionNames = [...]string{
	ConvFromAny:              "FromAny",
	ConvToAny:                "ToAny",
	ConvImplicitProxy:        "ImplicitProxy",
	ConvNumericWidening:      "NumericWidening",
	ConvNonUnionToUnion:      "NonUnionToUnion",
	ConvUnionToUnion:         "UnionToUnion",
	ConvRecordToRecord:       "RecordToRecord",
	ConvToCovariant:          "ToCovariant",
	ConvExplicitProxy:        "ExplicitProxy",
	ConvUnionMemberNarrowing: "UnionMemberNarrowing",
	ConvToContravariant:      "ToContravariant",
	ConvArrayCovariant:       "ArrayCovariant",
	ConvArrayContravariant:   "ArrayContravariant",
	ConvNumericNarrowing:     "NumericNarrowing",
	ConvStringToEnum:         "StringToEnum",
	ConvNumberToEnum:         "NumberToEnum",
}

func (k ConversionKind) String() string {
	if int(k) < len(conversionNames) && conversionNames[k] != "" {
		return conversionNames[k]
	}
	return "unknown"
}

// Conversion wraps Base under Type; Kind names the rule that allowed it.
// Optional marks an "as?" conversion whose result is nullable.
type Conversion struct {
	Kind     ConversionKind
	Base     Symbol
	Type     TypeID
	Optional bool
	Proxy    *MethodSlot
}

// Plain is an opaque runtime value of a known type (call results, literals
// that do not fold, operator results).
type Plain struct {
	Type TypeID
}

// This is the receiver of an instance method or constructor.
type This struct {
	Type TypeID
}

// IsValue reports whether sym denotes a value rather than a type, frame,
// namespace, package or slot.
func IsValue(sym Symbol) bool {
	switch sym.(type) {
	case *Constant, *Reference, *Conversion, *Plain, *This:
		return true
	}
	return false
}

// StaticType returns the static type of a value without triggering lazy
// slot resolution; use Model.TypeOf when slots may still be pending.
func StaticType(sym Symbol) TypeID {
	switch v := sym.(type) {
	case *Constant:
		return v.Type
	case *Conversion:
		return v.Type
	case *Plain:
		return v.Type
	case *This:
		return v.Type
	case *Reference:
		if v.Type != NoType || v.Prop == nil {
			return v.Type
		}
		return slotType(v.Prop)
	}
	return NoType
}

func slotType(sym Symbol) TypeID {
	switch s := sym.(type) {
	case *VariableSlot:
		t, _ := s.Type.Get()
		return t
	case *MethodSlot:
		t, _ := s.Signature.Get()
		return t
	case *VirtualSlot:
		t, _ := s.Type.Get()
		return t
	}
	return NoType
}
