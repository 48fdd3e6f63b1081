package fixture

import (
	"gopkg.in/yaml.v3"

	"ripple/internal/ast"
	"ripple/internal/source"
)

// declKinds are the first keys that introduce a declaration.
var declKinds = map[string]bool{
	"class": true, "interface": true, "enum": true, "fn": true,
	"getter": true, "setter": true, "constructor": true, "proxy": true,
	"var": true, "const": true, "namespace": true,
	"type_alias": true, "namespace_alias": true,
}

var stmtKinds = map[string]bool{
	"block": true, "expr": true, "if": true, "while": true, "do": true,
	"for": true, "for_in": true, "for_each": true, "return": true,
	"throw": true, "break": true, "continue": true, "try": true,
	"super": true, "with": true, "label": true, "include": true,
	"import": true, "use": true,
}

func (d *decoder) stmts(n *yaml.Node) []ast.StmtID {
	var out []ast.StmtID
	for _, c := range d.list(n) {
		if s := d.stmt(c); s.IsValid() {
			out = append(out, s)
		}
	}
	return out
}

// body decodes the body of a compound statement: a sequence becomes a
// block, anything else a single statement.
func (d *decoder) body(n *yaml.Node) ast.StmtID {
	n = resolve(n)
	if isNull(n) {
		return ast.NoStmtID
	}
	if n.Kind == yaml.SequenceNode {
		return d.b.Stmts.NewBlock(d.span(n), d.stmts(n))
	}
	return d.stmt(n)
}

func (d *decoder) stmt(n *yaml.Node) ast.StmtID {
	n = resolve(n)
	if n == nil {
		return ast.NoStmtID
	}
	sp := d.span(n)
	if n.Kind == yaml.ScalarNode && n.Style == 0 && n.Tag == "!!str" {
		switch n.Value {
		case "break":
			return d.b.Stmts.NewJump(sp, false, "")
		case "continue":
			return d.b.Stmts.NewJump(sp, true, "")
		}
	}
	if n.Kind != yaml.MappingNode {
		return d.b.Stmts.NewExpr(sp, d.expr(n))
	}
	o, ok := d.object(n)
	if !ok {
		return ast.NoStmtID
	}
	kind, v := o.kind()
	switch {
	case declKinds[kind]:
		item := d.item(o, kind, v)
		if !item.IsValid() {
			return ast.NoStmtID
		}
		return d.b.Stmts.NewDecl(sp, item)
	case !stmtKinds[kind]:
		return d.b.Stmts.NewExpr(sp, d.expr(n))
	}
	defer d.done(o)

	switch kind {
	case "block":
		return d.b.Stmts.NewBlock(sp, d.stmts(v))
	case "expr":
		return d.b.Stmts.NewExpr(sp, d.expr(v))
	case "if":
		return d.b.Stmts.NewIf(sp, d.expr(v), d.body(o.take("then")), d.body(o.take("else")))
	case "while":
		return d.b.Stmts.NewWhile(sp, d.expr(v), d.body(o.take("body")), false)
	case "do":
		return d.b.Stmts.NewWhile(sp, d.expr(o.take("while")), d.body(v), true)
	case "for":
		data := ast.ForStmt{Body: d.body(o.take("body"))}
		if !isNull(v) {
			data.Init = d.stmt(v)
		}
		if c := o.take("cond"); !isNull(c) {
			data.Cond = d.expr(c)
		}
		if s := o.take("step"); !isNull(s) {
			data.Step = d.expr(s)
		}
		return d.b.Stmts.NewFor(sp, data)
	case "for_in", "for_each":
		data := ast.ForInStmt{Each: kind == "for_each", Iterable: d.expr(o.take("in"))}
		if isDecl(v) {
			bo, _ := d.object(v)
			bk, bv := bo.kind()
			data.Var = d.item(bo, bk, bv)
		} else {
			data.Target = d.expr(v)
		}
		data.Body = d.body(o.take("body"))
		return d.b.Stmts.NewForIn(sp, data)
	case "return":
		var val ast.ExprID
		if !isNull(v) {
			val = d.expr(v)
		}
		return d.b.Stmts.NewReturn(sp, val)
	case "throw":
		return d.b.Stmts.NewThrow(sp, d.expr(v))
	case "break", "continue":
		label := ""
		if !isNull(v) {
			label = d.name(v)
		}
		return d.b.Stmts.NewJump(sp, kind == "continue", label)
	case "try":
		return d.try(o, sp, v)
	case "super":
		return d.b.Stmts.NewSuperCall(sp, d.exprs(v))
	case "with":
		return d.b.Stmts.NewWith(sp, d.expr(v), d.body(o.take("body")))
	case "label":
		return d.b.Stmts.NewLabeled(sp, d.name(v), d.body(o.take("body")))
	case "include":
		return d.include(v, sp)
	case "import":
		return d.importStmt(o, v, sp)
	case "use":
		return d.b.Stmts.NewUseNamespace(sp, d.path(v))
	}
	return ast.NoStmtID
}

// isDecl recognises the declaration binding of a for-in loop, written
// as {var: pattern} or {const: pattern}.
func isDecl(n *yaml.Node) bool {
	n = resolve(n)
	if n == nil || n.Kind != yaml.MappingNode || len(n.Content) < 2 {
		return false
	}
	k := n.Content[0].Value
	return k == "var" || k == "const"
}

func (d *decoder) try(o *object, sp source.Span, body *yaml.Node) ast.StmtID {
	data := ast.TryStmt{Body: d.body(body)}
	for _, c := range d.list(o.take("catch")) {
		co, ok := d.object(c)
		if !ok {
			continue
		}
		clause := ast.CatchClause{Span: d.span(c)}
		if b := co.take("bind"); !isNull(b) {
			clause.Pattern = d.pattern(b, co.take("type"))
		}
		clause.Body = d.body(co.take("body"))
		d.done(co)
		data.Catches = append(data.Catches, clause)
	}
	if f := o.take("finally"); !isNull(f) {
		data.Finally = d.body(f)
	}
	return d.b.Stmts.NewTry(sp, data)
}

func (d *decoder) include(v *yaml.Node, sp source.Span) ast.StmtID {
	path := d.name(v)
	if path == "" {
		return ast.NoStmtID
	}
	file, err := d.l.include(d.src, path, d.unit, sp)
	if err != nil {
		d.fail(sp, "%v", err)
	}
	return d.b.Stmts.NewInclude(sp, path, file)
}

// importStmt decodes import a.b.C, import a.b.* and, with an "as" key,
// import X = a.b.C.
func (d *decoder) importStmt(o *object, v *yaml.Node, sp source.Span) ast.StmtID {
	path := d.path(v)
	data := ast.ImportStmt{Path: path}
	if n := len(path); n > 0 && path[n-1] == "*" {
		data.Path, data.Wildcard = path[:n-1], true
	}
	if as := o.take("as"); !isNull(as) {
		if data.Wildcard {
			d.failNode(as, "a wildcard import cannot have an alias")
		} else {
			data.Alias = d.name(as)
		}
	}
	return d.b.Stmts.NewImport(sp, data)
}
