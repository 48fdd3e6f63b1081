package ast

import (
	"ripple/internal/model"
	"ripple/internal/source"
)

type StmtKind uint8

const (
	StmtEmpty StmtKind = iota + 1
	StmtBlock
	StmtDecl
	StmtExpr
	StmtIf
	StmtWhile
	StmtDoWhile
	StmtFor
	StmtForIn
	StmtReturn
	StmtThrow
	StmtBreak
	StmtContinue
	StmtTry
	StmtSuperCall
	StmtWith
	StmtLabeled
	StmtInclude
	StmtImport
	StmtUseNamespace
)

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
	Sem     StmtSem
}

// StmtSem holds the frame a block-like statement opened and, for
// directives, whether it already resolved.
type StmtSem struct {
	Frame    model.FrameID
	Resolved bool
}

type BlockStmt struct {
	Stmts []StmtID
}

type DeclStmt struct {
	Item ItemID
}

type ExprStmt struct {
	Expr ExprID
}

type IfStmt struct {
	Cond ExprID
	Then StmtID
	Else StmtID
}

// WhileStmt serves both while and do-while loops.
type WhileStmt struct {
	Cond ExprID
	Body StmtID
}

type ForStmt struct {
	Init StmtID
	Cond ExprID
	Step ExprID
	Body StmtID
}

// ForInStmt iterates keys (for-in) or values (for-each when Each is set).
// The binding is either a declaration (Var) or an existing target (Target).
type ForInStmt struct {
	Each     bool
	Var      ItemID
	Target   ExprID
	Iterable ExprID
	Body     StmtID
}

// ValueStmt serves return and throw.
type ValueStmt struct {
	Value ExprID
}

// JumpStmt serves break and continue.
type JumpStmt struct {
	Label string
}

type CatchClause struct {
	Span    source.Span
	Pattern PatternID
	Body    StmtID
	Frame   model.FrameID
}

type TryStmt struct {
	Body    StmtID
	Catches []CatchClause
	Finally StmtID
}

type SuperCallStmt struct {
	Args []ExprID
}

type WithStmt struct {
	Object ExprID
	Body   StmtID
}

type LabeledStmt struct {
	Label string
	Body  StmtID
}

// IncludeStmt splices another program in place. File is filled by the
// loader.
type IncludeStmt struct {
	Path string
	File FileID
}

// ImportStmt is "import a.b.C", "import X = a.b.C" or "import a.b.*".
type ImportStmt struct {
	Path     []string
	Alias    string
	Wildcard bool
}

type UseNamespaceStmt struct {
	Path []string
}

type Stmts struct {
	Arena     *Arena[Stmt]
	Blocks    *Arena[BlockStmt]
	Decls     *Arena[DeclStmt]
	Exprs     *Arena[ExprStmt]
	Ifs       *Arena[IfStmt]
	Whiles    *Arena[WhileStmt]
	Fors      *Arena[ForStmt]
	ForIns    *Arena[ForInStmt]
	Values    *Arena[ValueStmt]
	Jumps     *Arena[JumpStmt]
	Tries     *Arena[TryStmt]
	SuperCall *Arena[SuperCallStmt]
	Withs     *Arena[WithStmt]
	Labeled   *Arena[LabeledStmt]
	Includes  *Arena[IncludeStmt]
	Imports   *Arena[ImportStmt]
	Uses      *Arena[UseNamespaceStmt]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Stmts{
		Arena:     NewArena[Stmt](capHint),
		Blocks:    NewArena[BlockStmt](capHint),
		Decls:     NewArena[DeclStmt](capHint),
		Exprs:     NewArena[ExprStmt](capHint),
		Ifs:       NewArena[IfStmt](capHint),
		Whiles:    NewArena[WhileStmt](capHint),
		Fors:      NewArena[ForStmt](capHint),
		ForIns:    NewArena[ForInStmt](capHint),
		Values:    NewArena[ValueStmt](capHint),
		Jumps:     NewArena[JumpStmt](capHint),
		Tries:     NewArena[TryStmt](capHint),
		SuperCall: NewArena[SuperCallStmt](8),
		Withs:     NewArena[WithStmt](8),
		Labeled:   NewArena[LabeledStmt](8),
		Includes:  NewArena[IncludeStmt](8),
		Imports:   NewArena[ImportStmt](capHint),
		Uses:      NewArena[UseNamespaceStmt](8),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, p uint32) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: kind, Span: span, Payload: PayloadID(p)}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) kindOf(id StmtID) (StmtKind, PayloadID) {
	st := s.Get(id)
	if st == nil {
		return 0, NoPayloadID
	}
	return st.Kind, st.Payload
}

func (s *Stmts) NewEmpty(span source.Span) StmtID {
	return s.new(StmtEmpty, span, 0)
}

func (s *Stmts) NewBlock(span source.Span, stmts []StmtID) StmtID {
	return s.new(StmtBlock, span, s.Blocks.Allocate(BlockStmt{Stmts: stmts}))
}

func (s *Stmts) Block(id StmtID) (*BlockStmt, bool) {
	k, p := s.kindOf(id)
	return payload(k, StmtBlock, p, s.Blocks)
}

func (s *Stmts) NewDecl(span source.Span, item ItemID) StmtID {
	return s.new(StmtDecl, span, s.Decls.Allocate(DeclStmt{Item: item}))
}

func (s *Stmts) Decl(id StmtID) (*DeclStmt, bool) {
	k, p := s.kindOf(id)
	return payload(k, StmtDecl, p, s.Decls)
}

func (s *Stmts) NewExpr(span source.Span, expr ExprID) StmtID {
	return s.new(StmtExpr, span, s.Exprs.Allocate(ExprStmt{Expr: expr}))
}

func (s *Stmts) Expr(id StmtID) (*ExprStmt, bool) {
	k, p := s.kindOf(id)
	return payload(k, StmtExpr, p, s.Exprs)
}

func (s *Stmts) NewIf(span source.Span, cond ExprID, then, els StmtID) StmtID {
	return s.new(StmtIf, span, s.Ifs.Allocate(IfStmt{Cond: cond, Then: then, Else: els}))
}

func (s *Stmts) If(id StmtID) (*IfStmt, bool) {
	k, p := s.kindOf(id)
	return payload(k, StmtIf, p, s.Ifs)
}

func (s *Stmts) NewWhile(span source.Span, cond ExprID, body StmtID, doWhile bool) StmtID {
	kind := StmtWhile
	if doWhile {
		kind = StmtDoWhile
	}
	return s.new(kind, span, s.Whiles.Allocate(WhileStmt{Cond: cond, Body: body}))
}

// While returns the payload of while and do-while statements.
func (s *Stmts) While(id StmtID) (*WhileStmt, bool) {
	k, p := s.kindOf(id)
	if k == StmtDoWhile {
		k = StmtWhile
	}
	return payload(k, StmtWhile, p, s.Whiles)
}

func (s *Stmts) NewFor(span source.Span, data ForStmt) StmtID {
	return s.new(StmtFor, span, s.Fors.Allocate(data))
}

func (s *Stmts) For(id StmtID) (*ForStmt, bool) {
	k, p := s.kindOf(id)
	return payload(k, StmtFor, p, s.Fors)
}

func (s *Stmts) NewForIn(span source.Span, data ForInStmt) StmtID {
	return s.new(StmtForIn, span, s.ForIns.Allocate(data))
}

func (s *Stmts) ForIn(id StmtID) (*ForInStmt, bool) {
	k, p := s.kindOf(id)
	return payload(k, StmtForIn, p, s.ForIns)
}

func (s *Stmts) NewReturn(span source.Span, value ExprID) StmtID {
	return s.new(StmtReturn, span, s.Values.Allocate(ValueStmt{Value: value}))
}

func (s *Stmts) NewThrow(span source.Span, value ExprID) StmtID {
	return s.new(StmtThrow, span, s.Values.Allocate(ValueStmt{Value: value}))
}

// Value returns the payload of return and throw statements.
func (s *Stmts) Value(id StmtID) (*ValueStmt, bool) {
	k, p := s.kindOf(id)
	if k == StmtThrow {
		k = StmtReturn
	}
	return payload(k, StmtReturn, p, s.Values)
}

func (s *Stmts) NewJump(span source.Span, cont bool, label string) StmtID {
	kind := StmtBreak
	if cont {
		kind = StmtContinue
	}
	return s.new(kind, span, s.Jumps.Allocate(JumpStmt{Label: label}))
}

func (s *Stmts) Jump(id StmtID) (*JumpStmt, bool) {
	k, p := s.kindOf(id)
	if k == StmtContinue {
		k = StmtBreak
	}
	return payload(k, StmtBreak, p, s.Jumps)
}

func (s *Stmts) NewTry(span source.Span, data TryStmt) StmtID {
	return s.new(StmtTry, span, s.Tries.Allocate(data))
}

func (s *Stmts) Try(id StmtID) (*TryStmt, bool) {
	k, p := s.kindOf(id)
	return payload(k, StmtTry, p, s.Tries)
}

func (s *Stmts) NewSuperCall(span source.Span, args []ExprID) StmtID {
	return s.new(StmtSuperCall, span, s.SuperCall.Allocate(SuperCallStmt{Args: args}))
}

func (s *Stmts) SuperCallData(id StmtID) (*SuperCallStmt, bool) {
	k, p := s.kindOf(id)
	return payload(k, StmtSuperCall, p, s.SuperCall)
}

func (s *Stmts) NewWith(span source.Span, object ExprID, body StmtID) StmtID {
	return s.new(StmtWith, span, s.Withs.Allocate(WithStmt{Object: object, Body: body}))
}

func (s *Stmts) With(id StmtID) (*WithStmt, bool) {
	k, p := s.kindOf(id)
	return payload(k, StmtWith, p, s.Withs)
}

func (s *Stmts) NewLabeled(span source.Span, label string, body StmtID) StmtID {
	return s.new(StmtLabeled, span, s.Labeled.Allocate(LabeledStmt{Label: label, Body: body}))
}

func (s *Stmts) LabeledData(id StmtID) (*LabeledStmt, bool) {
	k, p := s.kindOf(id)
	return payload(k, StmtLabeled, p, s.Labeled)
}

func (s *Stmts) NewInclude(span source.Span, path string, file FileID) StmtID {
	return s.new(StmtInclude, span, s.Includes.Allocate(IncludeStmt{Path: path, File: file}))
}

func (s *Stmts) Include(id StmtID) (*IncludeStmt, bool) {
	k, p := s.kindOf(id)
	return payload(k, StmtInclude, p, s.Includes)
}

func (s *Stmts) NewImport(span source.Span, data ImportStmt) StmtID {
	return s.new(StmtImport, span, s.Imports.Allocate(data))
}

func (s *Stmts) Import(id StmtID) (*ImportStmt, bool) {
	k, p := s.kindOf(id)
	return payload(k, StmtImport, p, s.Imports)
}

func (s *Stmts) NewUseNamespace(span source.Span, path []string) StmtID {
	return s.new(StmtUseNamespace, span, s.Uses.Allocate(UseNamespaceStmt{Path: path}))
}

func (s *Stmts) UseNamespace(id StmtID) (*UseNamespaceStmt, bool) {
	k, p := s.kindOf(id)
	return payload(k, StmtUseNamespace, p, s.Uses)
}
