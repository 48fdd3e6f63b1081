package fixture

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"ripple/internal/ast"
	"ripple/internal/source"
)

type tokKind uint8

const (
	tokEOF tokKind = iota
	tokIdent
	tokPunct
	tokArrow
	tokEllipsis
)

type typeTok struct {
	kind tokKind
	text string
	off  uint32
	end  uint32
}

// typeParser reads the written type syntax of program documents:
//
//	a.b.Name<Args>  T?  T!  T[]  A | B  [A, B]  {a: A, b?: B}  (A, B=, ...C[]) => R
//
// Offsets are relative to base, the span of the scalar holding the text.
type typeParser struct {
	types *ast.Types
	src   string
	base  source.Span
	pos   int
	tok   typeTok
}

type typeError struct {
	span source.Span
	msg  string
}

func (e *typeError) Error() string { return e.msg }

func parseType(types *ast.Types, text string, base source.Span) (ast.TypeID, error) {
	p := &typeParser{types: types, src: text, base: base}
	p.next()
	id, err := p.parseUnion()
	if err != nil {
		return ast.NoTypeID, err
	}
	if p.tok.kind != tokEOF {
		return ast.NoTypeID, p.errorf("unexpected %q in type", p.tok.text)
	}
	return id, nil
}

func (p *typeParser) span(start, end uint32) source.Span {
	return source.Span{File: p.base.File, Start: p.base.Start + start, End: p.base.Start + end}
}

func (p *typeParser) errorf(format string, args ...any) error {
	return &typeError{span: p.span(p.tok.off, p.tok.end), msg: fmt.Sprintf(format, args...)}
}

func (p *typeParser) next() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
	start := uint32(p.pos)
	if p.pos >= len(p.src) {
		p.tok = typeTok{kind: tokEOF, off: start, end: start}
		return
	}
	rest := p.src[p.pos:]
	switch {
	case len(rest) >= 3 && rest[:3] == "...":
		p.pos += 3
		p.tok = typeTok{kind: tokEllipsis, text: "...", off: start, end: uint32(p.pos)}
		return
	case len(rest) >= 2 && rest[:2] == "=>":
		p.pos += 2
		p.tok = typeTok{kind: tokArrow, text: "=>", off: start, end: uint32(p.pos)}
		return
	}
	r, size := utf8.DecodeRuneInString(rest)
	if isIdentStart(r) {
		end := p.pos
		for end < len(p.src) {
			r, size := utf8.DecodeRuneInString(p.src[end:])
			if !isIdentStart(r) && !unicode.IsDigit(r) {
				break
			}
			end += size
		}
		p.tok = typeTok{kind: tokIdent, text: norm.NFC.String(p.src[p.pos:end]), off: start, end: uint32(end)}
		p.pos = end
		return
	}
	p.pos += size
	p.tok = typeTok{kind: tokPunct, text: string(r), off: start, end: uint32(p.pos)}
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func (p *typeParser) at(punct string) bool {
	return p.tok.kind == tokPunct && p.tok.text == punct
}

func (p *typeParser) expect(punct string) (typeTok, error) {
	if !p.at(punct) {
		if p.tok.kind == tokEOF {
			return typeTok{}, p.errorf("expected %q, found end of type", punct)
		}
		return typeTok{}, p.errorf("expected %q, found %q", punct, p.tok.text)
	}
	tok := p.tok
	p.next()
	return tok, nil
}

func (p *typeParser) spanOf(id ast.TypeID) source.Span {
	if te := p.types.Get(id); te != nil {
		return te.Span
	}
	return p.base
}

func (p *typeParser) parseUnion() (ast.TypeID, error) {
	first, err := p.parsePostfix()
	if err != nil {
		return ast.NoTypeID, err
	}
	if !p.at("|") {
		return first, nil
	}
	members := []ast.TypeID{first}
	for p.at("|") {
		p.next()
		m, err := p.parsePostfix()
		if err != nil {
			return ast.NoTypeID, err
		}
		members = append(members, m)
	}
	sp := p.spanOf(first).Cover(p.spanOf(members[len(members)-1]))
	return p.types.NewList(sp, ast.TypeExprUnion, members), nil
}

// parsePostfix applies ?, ! and [] suffixes left to right.
func (p *typeParser) parsePostfix() (ast.TypeID, error) {
	t, err := p.parsePrimary()
	if err != nil {
		return ast.NoTypeID, err
	}
	for {
		start := p.spanOf(t)
		switch {
		case p.at("?"):
			sp := start.Cover(p.span(p.tok.off, p.tok.end))
			p.next()
			t = p.types.NewElem(sp, ast.TypeExprNullable, t)
		case p.at("!"):
			sp := start.Cover(p.span(p.tok.off, p.tok.end))
			p.next()
			t = p.types.NewElem(sp, ast.TypeExprNonNullable, t)
		case p.at("["):
			p.next()
			closing, err := p.expect("]")
			if err != nil {
				return ast.NoTypeID, err
			}
			t = p.types.NewElem(start.Cover(p.span(closing.off, closing.end)), ast.TypeExprArray, t)
		default:
			return t, nil
		}
	}
}

func (p *typeParser) parsePrimary() (ast.TypeID, error) {
	switch {
	case p.tok.kind == tokIdent:
		return p.parseName()
	case p.at("["):
		return p.parseTuple()
	case p.at("{"):
		return p.parseRecord()
	case p.at("("):
		return p.parseParens()
	case p.tok.kind == tokEOF:
		return ast.NoTypeID, p.errorf("expected a type, found end of type")
	}
	return ast.NoTypeID, p.errorf("expected a type, found %q", p.tok.text)
}

func (p *typeParser) parseName() (ast.TypeID, error) {
	startTok := p.tok
	path := []string{p.tok.text}
	last := p.tok
	p.next()
	for p.at(".") {
		p.next()
		if p.tok.kind != tokIdent {
			return ast.NoTypeID, p.errorf("expected identifier after '.'")
		}
		path = append(path, p.tok.text)
		last = p.tok
		p.next()
	}
	var args []ast.TypeID
	if p.at("<") {
		p.next()
		for {
			arg, err := p.parseUnion()
			if err != nil {
				return ast.NoTypeID, err
			}
			args = append(args, arg)
			if !p.at(",") {
				break
			}
			p.next()
		}
		closing, err := p.expect(">")
		if err != nil {
			return ast.NoTypeID, err
		}
		last = closing
	}
	return p.types.NewName(p.span(startTok.off, last.end), path, args), nil
}

func (p *typeParser) parseTuple() (ast.TypeID, error) {
	open := p.tok
	p.next()
	var elems []ast.TypeID
	for !p.at("]") {
		elem, err := p.parseUnion()
		if err != nil {
			return ast.NoTypeID, err
		}
		elems = append(elems, elem)
		if !p.at(",") {
			break
		}
		p.next()
	}
	closing, err := p.expect("]")
	if err != nil {
		return ast.NoTypeID, err
	}
	return p.types.NewList(p.span(open.off, closing.end), ast.TypeExprTuple, elems), nil
}

func (p *typeParser) parseRecord() (ast.TypeID, error) {
	open := p.tok
	p.next()
	var fields []ast.TypeRecordField
	for !p.at("}") {
		if p.tok.kind != tokIdent {
			return ast.NoTypeID, p.errorf("expected field name")
		}
		f := ast.TypeRecordField{Name: p.tok.text, Span: p.span(p.tok.off, p.tok.end)}
		p.next()
		if p.at("?") {
			f.Optional = true
			p.next()
		}
		if _, err := p.expect(":"); err != nil {
			return ast.NoTypeID, err
		}
		ft, err := p.parseUnion()
		if err != nil {
			return ast.NoTypeID, err
		}
		f.Type = ft
		fields = append(fields, f)
		if !p.at(",") {
			break
		}
		p.next()
	}
	closing, err := p.expect("}")
	if err != nil {
		return ast.NoTypeID, err
	}
	return p.types.NewRecord(p.span(open.off, closing.end), fields), nil
}

// parseParens reads a function type or a parenthesised type. Parameters
// marked with a trailing = are optional; a leading ... marks the rest
// parameter.
func (p *typeParser) parseParens() (ast.TypeID, error) {
	open := p.tok
	p.next()
	var fn ast.TypeFunction
	plain := 0
	marked := false
	for !p.at(")") {
		rest := p.tok.kind == tokEllipsis
		if rest {
			p.next()
		}
		t, err := p.parseUnion()
		if err != nil {
			return ast.NoTypeID, err
		}
		optional := p.at("=")
		if optional {
			p.next()
		}
		switch {
		case rest:
			if fn.Rest.IsValid() {
				return ast.NoTypeID, p.errorf("only one rest parameter is allowed")
			}
			fn.Rest = t
			marked = true
		case optional:
			fn.Optional = append(fn.Optional, t)
			marked = true
		default:
			if len(fn.Optional) > 0 || fn.Rest.IsValid() {
				return ast.NoTypeID, p.errorf("required parameter after optional or rest parameter")
			}
			fn.Params = append(fn.Params, t)
			plain++
		}
		if !p.at(",") {
			break
		}
		p.next()
	}
	closing, err := p.expect(")")
	if err != nil {
		return ast.NoTypeID, err
	}
	if p.tok.kind != tokArrow {
		if plain == 1 && !marked {
			return fn.Params[0], nil
		}
		return ast.NoTypeID, p.errorf("expected '=>' after parameter list")
	}
	p.next()
	res, err := p.parsePostfix()
	if err != nil {
		return ast.NoTypeID, err
	}
	fn.Result = res
	sp := p.span(open.off, closing.end).Cover(p.spanOf(res))
	return p.types.NewFunction(sp, fn), nil
}
