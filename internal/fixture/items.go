package fixture

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"ripple/internal/ast"
	"ripple/internal/diag"
)

var fnKinds = map[string]ast.FnKind{
	"fn":          ast.FnPlain,
	"getter":      ast.FnGetter,
	"setter":      ast.FnSetter,
	"constructor": ast.FnConstructor,
	"proxy":       ast.FnProxy,
}

// item decodes a declaration whose kind key has already been read.
func (d *decoder) item(o *object, kind string, v *yaml.Node) ast.ItemID {
	defer d.done(o)
	sp := d.span(o.node)
	var id ast.ItemID
	switch kind {
	case "class":
		id = d.b.Items.NewClass(sp, d.name(v), ast.ClassItem{
			TypeParams: d.typeParams(o.take("type_params")),
			Extends:    d.typ(o.take("extends")),
			Implements: d.types(o.take("implements")),
			Members:    d.members(o.take("members")),
		})
	case "interface":
		id = d.b.Items.NewInterface(sp, d.name(v), ast.InterfaceItem{
			TypeParams: d.typeParams(o.take("type_params")),
			Extends:    d.types(o.take("extends")),
			Members:    d.members(o.take("members")),
		})
	case "enum":
		id = d.b.Items.NewEnum(sp, d.name(v), ast.EnumItem{
			Flags:    d.flag(o.take("flags")),
			Repr:     d.typ(o.take("repr")),
			Variants: d.variants(o.take("variants")),
			Members:  d.members(o.take("members")),
		})
	case "fn", "getter", "setter", "constructor", "proxy":
		name := "constructor"
		if kind != "constructor" || !isNull(v) {
			name = d.name(v)
		}
		id = d.b.Items.NewFn(sp, name, d.fn(o, fnKinds[kind]))
	case "var", "const":
		pat := d.pattern(v, o.take("type"))
		if d.flag(o.take("nonnull")) {
			if p := d.b.Patterns.Get(pat); p != nil {
				p.NonNull = true
			}
		}
		var init ast.ExprID
		if n := o.take("init"); !isNull(n) {
			init = d.expr(n)
		}
		id = d.b.Items.NewVar(sp, kind == "const", pat, init)
	case "namespace":
		id = d.b.Items.NewNamespace(sp, d.name(v), d.stmts(o.take("body")))
	case "type_alias":
		t := o.take("type")
		if t == nil {
			d.failNode(o.node, "type alias needs a type")
		}
		id = d.b.Items.NewTypeAlias(sp, d.name(v), d.typ(t))
	case "namespace_alias":
		id = d.b.Items.NewNamespaceAlias(sp, d.name(v), d.path(o.take("target")))
	default:
		d.failNode(o.node, "unknown declaration %q", kind)
		return ast.NoItemID
	}
	item := d.b.Items.Get(id)
	if kind != "var" && kind != "const" {
		item.NameSpan = d.span(v)
	}
	if n := o.take("vis"); !isNull(n) {
		vis, ok := ast.ParseVisibility(n.Value)
		if !ok {
			d.failNode(n, "unknown visibility %q", n.Value)
		}
		item.Vis = vis
	}
	item.Modifiers = d.modifiers(o.take("modifiers"))
	return id
}

func (d *decoder) modifiers(n *yaml.Node) ast.Modifiers {
	var out ast.Modifiers
	for _, c := range d.list(n) {
		m, ok := ast.ParseModifier(c.Value)
		if !ok {
			d.failNode(c, "unknown modifier %q", c.Value)
			continue
		}
		if out.Has(m) {
			d.rep.Report(diag.SynDuplicateModifier, diag.SevSyntaxError, d.span(c), diag.Args{"name": c.Value}, nil)
			continue
		}
		out |= m
	}
	return out
}

func (d *decoder) members(n *yaml.Node) []ast.ItemID {
	var out []ast.ItemID
	for _, c := range d.list(n) {
		o, ok := d.object(c)
		if !ok {
			continue
		}
		kind, v := o.kind()
		if !declKinds[kind] {
			d.failNode(c, "expected a member declaration")
			continue
		}
		if id := d.item(o, kind, v); id.IsValid() {
			out = append(out, id)
		}
	}
	return out
}

// variants reads enum variants written as a name or as {Name: value}.
func (d *decoder) variants(n *yaml.Node) []ast.EnumVariant {
	var out []ast.EnumVariant
	for _, c := range d.list(n) {
		if c.Kind == yaml.ScalarNode {
			out = append(out, ast.EnumVariant{Name: d.name(c), Span: d.span(c)})
			continue
		}
		if c.Kind != yaml.MappingNode || len(c.Content) != 2 {
			d.failNode(c, "expected a variant name or {name: value}")
			continue
		}
		out = append(out, ast.EnumVariant{
			Name:  d.name(c.Content[0]),
			Span:  d.span(c.Content[0]),
			Value: d.expr(c.Content[1]),
		})
	}
	return out
}

func (d *decoder) fn(o *object, kind ast.FnKind) ast.FnItem {
	fn := ast.FnItem{
		Kind:       kind,
		TypeParams: d.typeParams(o.take("type_params")),
		Result:     d.typ(o.take("result")),
	}
	for _, p := range d.list(o.take("params")) {
		fn.Params = append(fn.Params, d.param(p))
	}
	if n := o.take("body"); n != nil && !isNull(n) {
		if n.Kind == yaml.SequenceNode {
			fn.Body = d.b.Stmts.NewBlock(d.span(n), d.stmts(n))
		} else {
			fn.Body = d.b.Stmts.NewBlock(d.span(n), []ast.StmtID{d.stmt(n)})
		}
	}
	if n := o.take("expr_body"); n != nil {
		if fn.Body.IsValid() {
			d.failNode(n, "a function has either a body or an expression body")
		} else {
			fn.ExprBody = d.expr(n)
		}
	}
	return fn
}

// param reads "name", "name: Type", "...name: Type" or a mapping with
// name, type, default and rest keys.
func (d *decoder) param(n *yaml.Node) ast.Param {
	if n.Kind == yaml.ScalarNode {
		name, typ := d.splitTyped(n)
		p := ast.Param{Span: d.span(n), Type: typ}
		if strings.HasPrefix(name, "...") {
			name, p.Rest = strings.TrimPrefix(name, "..."), true
		}
		p.Name = name
		return p
	}
	o, ok := d.object(n)
	if !ok {
		return ast.Param{Span: d.span(n)}
	}
	defer d.done(o)
	p := ast.Param{
		Name: d.name(o.take("name")),
		Span: d.span(n),
		Type: d.typ(o.take("type")),
		Rest: d.flag(o.take("rest")),
	}
	if def := o.take("default"); def != nil {
		p.Default = d.expr(def)
	}
	return p
}

// splitTyped splits "name: Type" held in a scalar into the name and the
// parsed type.
func (d *decoder) splitTyped(n *yaml.Node) (string, ast.TypeID) {
	text := n.Value
	i := strings.IndexByte(text, ':')
	if i < 0 {
		return norm.NFC.String(strings.TrimSpace(text)), ast.NoTypeID
	}
	base := d.span(n)
	base.Start += uint32(i + 1)
	t, err := parseType(d.b.Types, text[i+1:], base)
	if err != nil {
		d.reportTypeErr(n, err)
	}
	return norm.NFC.String(strings.TrimSpace(text[:i])), t
}

func (d *decoder) reportTypeErr(n *yaml.Node, err error) {
	if te, ok := err.(*typeError); ok {
		d.fail(te.span, "%s", te.msg)
		return
	}
	d.failNode(n, "%v", err)
}

// typeParams reads "T" or "T: Bound & Other".
func (d *decoder) typeParams(n *yaml.Node) []ast.TypeParam {
	var out []ast.TypeParam
	for _, c := range d.list(n) {
		if c.Kind != yaml.ScalarNode {
			d.failNode(c, "expected a type parameter")
			continue
		}
		text := c.Value
		tp := ast.TypeParam{Span: d.span(c)}
		i := strings.IndexByte(text, ':')
		if i < 0 {
			tp.Name = norm.NFC.String(strings.TrimSpace(text))
			out = append(out, tp)
			continue
		}
		tp.Name = norm.NFC.String(strings.TrimSpace(text[:i]))
		off := i + 1
		for _, bound := range strings.Split(text[i+1:], "&") {
			base := d.span(c)
			base.Start += uint32(off)
			off += len(bound) + 1
			t, err := parseType(d.b.Types, bound, base)
			if err != nil {
				d.reportTypeErr(c, err)
				continue
			}
			tp.Bounds = append(tp.Bounds, t)
		}
		out = append(out, tp)
	}
	return out
}
