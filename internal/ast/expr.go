package ast

import (
	"ripple/internal/model"
	"ripple/internal/source"
)

type ExprKind uint8

const (
	ExprIdent ExprKind = iota + 1
	ExprLit
	ExprThis
	ExprSuper
	ExprMember
	ExprIndex
	ExprCall
	ExprNew
	ExprAssign
	ExprUnary
	ExprBinary
	ExprCond
	ExprAs
	ExprIs
	ExprNonNull
	ExprArray
	ExprObject
	ExprFunction
	ExprAwait
	ExprYield
	ExprSpread
	ExprTypeof
	ExprParen
)

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) && exprKindNames[k] != "" {
		return exprKindNames[k]
	}
	return "expression"
}

var exprKindNames = [...]string{
	ExprIdent:    "identifier",
	ExprLit:      "literal",
	ExprThis:     "this",
	ExprSuper:    "super",
	ExprMember:   "member access",
	ExprIndex:    "index",
	ExprCall:     "call",
	ExprNew:      "new",
	ExprAssign:   "assignment",
	ExprUnary:    "unary",
	ExprBinary:   "binary",
	ExprCond:     "conditional",
	ExprAs:       "as",
	ExprIs:       "is",
	ExprNonNull:  "non-null assertion",
	ExprArray:    "array literal",
	ExprObject:   "object literal",
	ExprFunction: "function expression",
	ExprAwait:    "await",
	ExprYield:    "yield",
	ExprSpread:   "spread",
	ExprTypeof:   "typeof",
	ExprParen:    "parenthesized",
}

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
	Sem     ExprSem
}

// ExprSem caches the verifier result. Symbol is nil after a failed
// verification; Resolved is set either way so the node is not re-checked.
type ExprSem struct {
	Resolved bool
	Symbol   model.Symbol
}

type IdentExpr struct {
	Name string
}

type LitKind uint8

const (
	LitNull LitKind = iota + 1
	LitUndefined
	LitTrue
	LitFalse
	LitString
	LitNumber
	LitRegExp
)

type LitExpr struct {
	Kind  LitKind
	Value string
}

type MemberExpr struct {
	Target   ExprID
	Name     string
	NameSpan source.Span
	Optional bool
}

type IndexExpr struct {
	Target   ExprID
	Index    ExprID
	Optional bool
}

type CallExpr struct {
	Target   ExprID
	TypeArgs []TypeID
	Args     []ExprID
}

type NewExpr struct {
	Type TypeID
	Args []ExprID
}

// AssignExpr assigns Value to Target, or destructures it into Pattern
// when Target is NoExprID. Op is set for compound assignments.
type AssignExpr struct {
	Op      BinaryOp
	Target  ExprID
	Pattern PatternID
	Value   ExprID
}

type UnaryOp uint8

const (
	UnaryNeg UnaryOp = iota + 1
	UnaryPlus
	UnaryNot
	UnaryBitNot
	UnaryPreInc
	UnaryPreDec
	UnaryPostInc
	UnaryPostDec
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryNeg:
		return "-"
	case UnaryPlus:
		return "+"
	case UnaryNot:
		return "!"
	case UnaryBitNot:
		return "~"
	case UnaryPreInc, UnaryPostInc:
		return "++"
	case UnaryPreDec, UnaryPostDec:
		return "--"
	}
	return "?"
}

// IsUpdate reports increment and decrement operators.
func (op UnaryOp) IsUpdate() bool { return op >= UnaryPreInc }

type UnaryExpr struct {
	Op      UnaryOp
	Operand ExprID
}

type BinaryOp uint8

const (
	BinaryNone BinaryOp = iota
	BinaryAdd
	BinarySub
	BinaryMul
	BinaryDiv
	BinaryMod
	BinaryPow
	BinaryShl
	BinaryShr
	BinaryUShr
	BinaryBitAnd
	BinaryBitOr
	BinaryBitXor
	BinaryEq
	BinaryNotEq
	BinaryStrictEq
	BinaryStrictNotEq
	BinaryLt
	BinaryLe
	BinaryGt
	BinaryGe
	BinaryAnd
	BinaryOr
	BinaryNullish
	BinaryIn
)

var binaryOpText = [...]string{
	BinaryAdd:         "+",
	BinarySub:         "-",
	BinaryMul:         "*",
	BinaryDiv:         "/",
	BinaryMod:         "%",
	BinaryPow:         "**",
	BinaryShl:         "<<",
	BinaryShr:         ">>",
	BinaryUShr:        ">>>",
	BinaryBitAnd:      "&",
	BinaryBitOr:       "|",
	BinaryBitXor:      "^",
	BinaryEq:          "==",
	BinaryNotEq:       "!=",
	BinaryStrictEq:    "===",
	BinaryStrictNotEq: "!==",
	BinaryLt:          "<",
	BinaryLe:          "<=",
	BinaryGt:          ">",
	BinaryGe:          ">=",
	BinaryAnd:         "&&",
	BinaryOr:          "||",
	BinaryNullish:     "??",
	BinaryIn:          "in",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpText) && binaryOpText[op] != "" {
		return binaryOpText[op]
	}
	return "?"
}

// ParseBinaryOp maps operator text to its op.
func ParseBinaryOp(s string) (BinaryOp, bool) {
	for i, t := range binaryOpText {
		if t != "" && t == s {
			return BinaryOp(i), true
		}
	}
	return BinaryNone, false
}

func (op BinaryOp) IsComparison() bool {
	return op >= BinaryEq && op <= BinaryGe
}

func (op BinaryOp) IsLogical() bool {
	return op == BinaryAnd || op == BinaryOr || op == BinaryNullish
}

type BinaryExpr struct {
	Op    BinaryOp
	Left  ExprID
	Right ExprID
}

type CondExpr struct {
	Cond ExprID
	Then ExprID
	Else ExprID
}

// AsExpr is "v as T" or, with Optional, "v as? T".
type AsExpr struct {
	Value    ExprID
	Type     TypeID
	Optional bool
}

type IsExpr struct {
	Value ExprID
	Type  TypeID
}

// UnaryValueExpr serves non-null, await, yield, spread, typeof and
// parenthesized expressions.
type UnaryValueExpr struct {
	Value ExprID
}

type ArrayExpr struct {
	Elems []ExprID
}

// ObjectField is "key: value", a shorthand "key" (Value is NoExprID) or
// a spread "...value" (Key is empty).
type ObjectField struct {
	Key     string
	KeySpan source.Span
	Value   ExprID
	Spread  bool
}

type ObjectExpr struct {
	Fields []ObjectField
}

type FunctionExpr struct {
	Item ItemID
}

type Exprs struct {
	Arena     *Arena[Expr]
	Idents    *Arena[IdentExpr]
	Literals  *Arena[LitExpr]
	Members   *Arena[MemberExpr]
	Indices   *Arena[IndexExpr]
	Calls     *Arena[CallExpr]
	News      *Arena[NewExpr]
	Assigns   *Arena[AssignExpr]
	Unaries   *Arena[UnaryExpr]
	Binaries  *Arena[BinaryExpr]
	Conds     *Arena[CondExpr]
	Ases      *Arena[AsExpr]
	Ises      *Arena[IsExpr]
	Values    *Arena[UnaryValueExpr]
	Arrays    *Arena[ArrayExpr]
	Objects   *Arena[ObjectExpr]
	Functions *Arena[FunctionExpr]
}

// NewExprs creates the expression arenas. If capHint is 0, a default of
// 1<<8 is used.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Exprs{
		Arena:     NewArena[Expr](capHint),
		Idents:    NewArena[IdentExpr](capHint),
		Literals:  NewArena[LitExpr](capHint),
		Members:   NewArena[MemberExpr](capHint),
		Indices:   NewArena[IndexExpr](capHint),
		Calls:     NewArena[CallExpr](capHint),
		News:      NewArena[NewExpr](capHint),
		Assigns:   NewArena[AssignExpr](capHint),
		Unaries:   NewArena[UnaryExpr](capHint),
		Binaries:  NewArena[BinaryExpr](capHint),
		Conds:     NewArena[CondExpr](capHint),
		Ases:      NewArena[AsExpr](capHint),
		Ises:      NewArena[IsExpr](capHint),
		Values:    NewArena[UnaryValueExpr](capHint),
		Arrays:    NewArena[ArrayExpr](capHint),
		Objects:   NewArena[ObjectExpr](capHint),
		Functions: NewArena[FunctionExpr](capHint),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, p uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{Kind: kind, Span: span, Payload: PayloadID(p)}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) kindOf(id ExprID) (ExprKind, PayloadID) {
	x := e.Get(id)
	if x == nil {
		return 0, NoPayloadID
	}
	return x.Kind, x.Payload
}

func (e *Exprs) NewIdent(span source.Span, name string) ExprID {
	return e.new(ExprIdent, span, e.Idents.Allocate(IdentExpr{Name: name}))
}

func (e *Exprs) Ident(id ExprID) (*IdentExpr, bool) {
	k, p := e.kindOf(id)
	return payload(k, ExprIdent, p, e.Idents)
}

func (e *Exprs) NewLit(span source.Span, kind LitKind, value string) ExprID {
	return e.new(ExprLit, span, e.Literals.Allocate(LitExpr{Kind: kind, Value: value}))
}

func (e *Exprs) Lit(id ExprID) (*LitExpr, bool) {
	k, p := e.kindOf(id)
	return payload(k, ExprLit, p, e.Literals)
}

func (e *Exprs) NewThis(span source.Span) ExprID {
	return e.new(ExprThis, span, 0)
}

func (e *Exprs) NewSuper(span source.Span) ExprID {
	return e.new(ExprSuper, span, 0)
}

func (e *Exprs) NewMember(span source.Span, target ExprID, name string, optional bool) ExprID {
	p := e.Members.Allocate(MemberExpr{Target: target, Name: name, NameSpan: span, Optional: optional})
	return e.new(ExprMember, span, p)
}

func (e *Exprs) Member(id ExprID) (*MemberExpr, bool) {
	k, p := e.kindOf(id)
	return payload(k, ExprMember, p, e.Members)
}

func (e *Exprs) NewIndex(span source.Span, target, index ExprID, optional bool) ExprID {
	return e.new(ExprIndex, span, e.Indices.Allocate(IndexExpr{Target: target, Index: index, Optional: optional}))
}

func (e *Exprs) Index(id ExprID) (*IndexExpr, bool) {
	k, p := e.kindOf(id)
	return payload(k, ExprIndex, p, e.Indices)
}

func (e *Exprs) NewCall(span source.Span, target ExprID, typeArgs []TypeID, args []ExprID) ExprID {
	p := e.Calls.Allocate(CallExpr{
		Target:   target,
		TypeArgs: append([]TypeID(nil), typeArgs...),
		Args:     append([]ExprID(nil), args...),
	})
	return e.new(ExprCall, span, p)
}

func (e *Exprs) Call(id ExprID) (*CallExpr, bool) {
	k, p := e.kindOf(id)
	return payload(k, ExprCall, p, e.Calls)
}

func (e *Exprs) NewConstruct(span source.Span, typ TypeID, args []ExprID) ExprID {
	return e.new(ExprNew, span, e.News.Allocate(NewExpr{Type: typ, Args: append([]ExprID(nil), args...)}))
}

func (e *Exprs) Construct(id ExprID) (*NewExpr, bool) {
	k, p := e.kindOf(id)
	return payload(k, ExprNew, p, e.News)
}

func (e *Exprs) NewAssign(span source.Span, data AssignExpr) ExprID {
	return e.new(ExprAssign, span, e.Assigns.Allocate(data))
}

func (e *Exprs) Assign(id ExprID) (*AssignExpr, bool) {
	k, p := e.kindOf(id)
	return payload(k, ExprAssign, p, e.Assigns)
}

func (e *Exprs) NewUnary(span source.Span, op UnaryOp, operand ExprID) ExprID {
	return e.new(ExprUnary, span, e.Unaries.Allocate(UnaryExpr{Op: op, Operand: operand}))
}

func (e *Exprs) Unary(id ExprID) (*UnaryExpr, bool) {
	k, p := e.kindOf(id)
	return payload(k, ExprUnary, p, e.Unaries)
}

func (e *Exprs) NewBinary(span source.Span, op BinaryOp, left, right ExprID) ExprID {
	return e.new(ExprBinary, span, e.Binaries.Allocate(BinaryExpr{Op: op, Left: left, Right: right}))
}

func (e *Exprs) Binary(id ExprID) (*BinaryExpr, bool) {
	k, p := e.kindOf(id)
	return payload(k, ExprBinary, p, e.Binaries)
}

func (e *Exprs) NewCond(span source.Span, cond, then, els ExprID) ExprID {
	return e.new(ExprCond, span, e.Conds.Allocate(CondExpr{Cond: cond, Then: then, Else: els}))
}

func (e *Exprs) Cond(id ExprID) (*CondExpr, bool) {
	k, p := e.kindOf(id)
	return payload(k, ExprCond, p, e.Conds)
}

func (e *Exprs) NewAs(span source.Span, value ExprID, typ TypeID, optional bool) ExprID {
	return e.new(ExprAs, span, e.Ases.Allocate(AsExpr{Value: value, Type: typ, Optional: optional}))
}

func (e *Exprs) As(id ExprID) (*AsExpr, bool) {
	k, p := e.kindOf(id)
	return payload(k, ExprAs, p, e.Ases)
}

func (e *Exprs) NewIs(span source.Span, value ExprID, typ TypeID) ExprID {
	return e.new(ExprIs, span, e.Ises.Allocate(IsExpr{Value: value, Type: typ}))
}

func (e *Exprs) Is(id ExprID) (*IsExpr, bool) {
	k, p := e.kindOf(id)
	return payload(k, ExprIs, p, e.Ises)
}

// NewValue creates a single-operand expression of kind: non-null, await,
// yield, spread, typeof or paren.
func (e *Exprs) NewValue(span source.Span, kind ExprKind, value ExprID) ExprID {
	return e.new(kind, span, e.Values.Allocate(UnaryValueExpr{Value: value}))
}

// Value returns the operand of single-operand expressions.
func (e *Exprs) Value(id ExprID) (*UnaryValueExpr, bool) {
	k, p := e.kindOf(id)
	switch k {
	case ExprNonNull, ExprAwait, ExprYield, ExprSpread, ExprTypeof, ExprParen:
		return payload(k, k, p, e.Values)
	}
	return nil, false
}

func (e *Exprs) NewArray(span source.Span, elems []ExprID) ExprID {
	return e.new(ExprArray, span, e.Arrays.Allocate(ArrayExpr{Elems: append([]ExprID(nil), elems...)}))
}

func (e *Exprs) Array(id ExprID) (*ArrayExpr, bool) {
	k, p := e.kindOf(id)
	return payload(k, ExprArray, p, e.Arrays)
}

func (e *Exprs) NewObject(span source.Span, fields []ObjectField) ExprID {
	return e.new(ExprObject, span, e.Objects.Allocate(ObjectExpr{Fields: append([]ObjectField(nil), fields...)}))
}

func (e *Exprs) Object(id ExprID) (*ObjectExpr, bool) {
	k, p := e.kindOf(id)
	return payload(k, ExprObject, p, e.Objects)
}

func (e *Exprs) NewFunction(span source.Span, item ItemID) ExprID {
	return e.new(ExprFunction, span, e.Functions.Allocate(FunctionExpr{Item: item}))
}

func (e *Exprs) Function(id ExprID) (*FunctionExpr, bool) {
	k, p := e.kindOf(id)
	return payload(k, ExprFunction, p, e.Functions)
}
