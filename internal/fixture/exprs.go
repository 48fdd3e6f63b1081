package fixture

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"ripple/internal/ast"
	"ripple/internal/source"
)

var valueKinds = map[string]ast.ExprKind{
	"nonnull": ast.ExprNonNull,
	"await":   ast.ExprAwait,
	"yield":   ast.ExprYield,
	"spread":  ast.ExprSpread,
	"typeof":  ast.ExprTypeof,
	"paren":   ast.ExprParen,
}

var unaryOps = map[string]ast.UnaryOp{
	"-":      ast.UnaryNeg,
	"+":      ast.UnaryPlus,
	"!":      ast.UnaryNot,
	"~":      ast.UnaryBitNot,
	"pre++":  ast.UnaryPreInc,
	"pre--":  ast.UnaryPreDec,
	"post++": ast.UnaryPostInc,
	"post--": ast.UnaryPostDec,
}

func (d *decoder) exprs(n *yaml.Node) []ast.ExprID {
	var out []ast.ExprID
	for _, c := range d.list(n) {
		out = append(out, d.expr(c))
	}
	return out
}

// expr decodes an expression. Scalars are literals or names; a sequence
// is an array literal; a mapping is selected by its first key.
func (d *decoder) expr(n *yaml.Node) ast.ExprID {
	n = resolve(n)
	sp := d.span(n)
	switch {
	case n == nil:
		return d.b.Exprs.NewLit(sp, ast.LitUndefined, "")
	case n.Kind == yaml.ScalarNode:
		return d.scalar(n)
	case n.Kind == yaml.SequenceNode:
		return d.b.Exprs.NewArray(sp, d.exprs(n))
	}
	o, ok := d.object(n)
	if !ok {
		return d.b.Exprs.NewLit(sp, ast.LitUndefined, "")
	}
	defer d.done(o)
	kind, v := o.kind()
	e := d.b.Exprs

	if vk, ok := valueKinds[kind]; ok {
		var val ast.ExprID
		if !isNull(v) || vk != ast.ExprYield {
			val = d.expr(v)
		}
		return e.NewValue(sp, vk, val)
	}
	switch kind {
	case "call":
		var typeArgs []ast.TypeID
		if ta := o.take("type_args"); ta != nil {
			typeArgs = d.types(ta)
		}
		return e.NewCall(sp, d.expr(v), typeArgs, d.exprs(o.take("args")))
	case "member":
		nameNode := o.take("name")
		id := e.NewMember(sp, d.expr(v), d.name(nameNode), d.flag(o.take("optional")))
		if m, ok := e.Member(id); ok {
			m.NameSpan = d.span(nameNode)
		}
		return id
	case "index":
		return e.NewIndex(sp, d.expr(v), d.expr(o.take("at")), d.flag(o.take("optional")))
	case "new":
		return e.NewConstruct(sp, d.typ(v), d.exprs(o.take("args")))
	case "cond":
		return e.NewCond(sp, d.expr(v), d.expr(o.take("then")), d.expr(o.take("else")))
	case "as":
		return e.NewAs(sp, d.expr(v), d.typ(o.take("type")), d.flag(o.take("optional")))
	case "is":
		return e.NewIs(sp, d.expr(v), d.typ(o.take("type")))
	case "array":
		return e.NewArray(sp, d.exprs(v))
	case "object":
		return e.NewObject(sp, d.objectFields(v))
	case "fn":
		name := ""
		if !isNull(v) {
			name = d.name(v)
		}
		item := d.b.Items.NewFn(sp, name, d.fn(o, ast.FnPlain))
		return e.NewFunction(sp, item)
	case "str":
		return e.NewLit(sp, ast.LitString, v.Value)
	case "regexp":
		return e.NewLit(sp, ast.LitRegExp, v.Value)
	case "num":
		return e.NewLit(sp, ast.LitNumber, v.Value)
	case "ident":
		return e.NewIdent(sp, d.name(v))
	case "=":
		return d.assign(sp, ast.BinaryNone, v)
	}
	if op, ok := ast.ParseBinaryOp(kind); ok {
		args := d.list(v)
		if len(args) == 2 {
			return e.NewBinary(sp, op, d.expr(args[0]), d.expr(args[1]))
		}
		if uop, ok := unaryOps[kind]; ok && len(args) == 1 {
			return e.NewUnary(sp, uop, d.expr(args[0]))
		}
		d.failNode(v, "operator %q takes two operands", kind)
		return e.NewLit(sp, ast.LitUndefined, "")
	}
	if uop, ok := unaryOps[kind]; ok {
		args := d.list(v)
		if len(args) != 1 {
			d.failNode(v, "operator %q takes one operand", kind)
			return e.NewLit(sp, ast.LitUndefined, "")
		}
		return e.NewUnary(sp, uop, d.expr(args[0]))
	}
	if base, found := strings.CutSuffix(kind, "="); found {
		if op, ok := ast.ParseBinaryOp(base); ok && !op.IsComparison() {
			return d.assign(sp, op, v)
		}
	}
	d.failNode(o.keys[0], "unknown expression %q", kind)
	return e.NewLit(sp, ast.LitUndefined, "")
}

// scalar decodes a scalar by its resolved YAML tag. Plain strings are
// names; quoted and block strings are string literals.
func (d *decoder) scalar(n *yaml.Node) ast.ExprID {
	sp := d.span(n)
	e := d.b.Exprs
	switch n.Tag {
	case "!!int", "!!float":
		return e.NewLit(sp, ast.LitNumber, n.Value)
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil && b {
			return e.NewLit(sp, ast.LitTrue, n.Value)
		}
		return e.NewLit(sp, ast.LitFalse, n.Value)
	case "!!null":
		return e.NewLit(sp, ast.LitNull, "")
	}
	if n.Style != 0 {
		return e.NewLit(sp, ast.LitString, n.Value)
	}
	switch n.Value {
	case "this":
		return e.NewThis(sp)
	case "super":
		return e.NewSuper(sp)
	case "undefined":
		return e.NewLit(sp, ast.LitUndefined, "")
	}
	return d.nameChain(n, sp)
}

// nameChain decodes a.b.c into an identifier followed by member
// accesses, each spanning the text read so far.
func (d *decoder) nameChain(n *yaml.Node, sp source.Span) ast.ExprID {
	e := d.b.Exprs
	parts := strings.Split(n.Value, ".")
	for _, p := range parts {
		if !isIdent(p) {
			d.failNode(n, "expected a name, found %q; quote string literals", n.Value)
			return e.NewLit(sp, ast.LitUndefined, "")
		}
	}
	end := sp.Start + uint32(len(parts[0]))
	at := func(start, end uint32) source.Span {
		return source.Span{File: sp.File, Start: start, End: end}
	}
	id := e.NewIdent(at(sp.Start, end), norm.NFC.String(parts[0]))
	for _, p := range parts[1:] {
		nameStart := end + 1
		end = nameStart + uint32(len(p))
		id = e.NewMember(at(sp.Start, end), id, norm.NFC.String(p), false)
		if m, ok := e.Member(id); ok {
			m.NameSpan = at(nameStart, end)
		}
	}
	return id
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == utf8.RuneError {
			return false
		}
		if !isIdentStart(r) && (i == 0 || !unicode.IsDigit(r)) {
			return false
		}
	}
	return true
}

// objectFields reads an object literal. A key starting with "..." spreads
// its value; a null value is the shorthand {key}.
func (d *decoder) objectFields(n *yaml.Node) []ast.ObjectField {
	n = resolve(n)
	if isNull(n) {
		return nil
	}
	if n.Kind != yaml.MappingNode {
		d.failNode(n, "expected a mapping of fields")
		return nil
	}
	var out []ast.ObjectField
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, val := n.Content[i], resolve(n.Content[i+1])
		if strings.HasPrefix(k.Value, "...") {
			out = append(out, ast.ObjectField{Value: d.expr(val), Spread: true})
			continue
		}
		f := ast.ObjectField{Key: norm.NFC.String(k.Value), KeySpan: d.span(k)}
		if !isNull(val) {
			f.Value = d.expr(val)
		}
		out = append(out, f)
	}
	return out
}

// assign decodes {"=": [target, value]} and compound forms such as
// {"+=": [target, value]}. A sequence or {record: ...} target destructures.
func (d *decoder) assign(sp source.Span, op ast.BinaryOp, v *yaml.Node) ast.ExprID {
	args := d.list(v)
	if len(args) != 2 {
		d.failNode(v, "assignment takes a target and a value")
		return d.b.Exprs.NewLit(sp, ast.LitUndefined, "")
	}
	data := ast.AssignExpr{Op: op, Value: d.expr(args[1])}
	target := args[0]
	if isDestructure(target) {
		if op != ast.BinaryNone {
			d.failNode(target, "compound assignment cannot destructure")
		}
		data.Pattern = d.targetPattern(target)
	} else {
		data.Target = d.expr(target)
	}
	return d.b.Exprs.NewAssign(sp, data)
}

func isDestructure(n *yaml.Node) bool {
	n = resolve(n)
	if n == nil {
		return false
	}
	if n.Kind == yaml.SequenceNode {
		return true
	}
	if n.Kind == yaml.MappingNode && len(n.Content) >= 2 {
		k := n.Content[0].Value
		return k == "record" || k == "array"
	}
	return false
}
