package fixture

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"ripple/internal/ast"
	"ripple/internal/diag"
	"ripple/internal/source"
)

// decoder turns the YAML tree of one document into AST nodes. Shape
// errors are reported and decoding continues with a placeholder.
type decoder struct {
	l    *Loader
	b    *ast.Builder
	src  *source.File
	rep  diag.Reporter
	unit *diag.Unit

	expect    []diag.Code
	hasExpect bool
}

func (d *decoder) fail(sp source.Span, format string, args ...any) {
	d.rep.Report(diag.SynIllegalFixtureShape, diag.SevSyntaxError, sp, diag.Args{"detail": fmt.Sprintf(format, args...)}, nil)
}

func (d *decoder) failNode(n *yaml.Node, format string, args ...any) {
	d.fail(d.span(n), format, args...)
}

// span maps a node to the bytes it starts at. Scalars cover their text;
// collections cover their first character.
func (d *decoder) span(n *yaml.Node) source.Span {
	if n == nil || n.Line == 0 {
		return source.Span{File: d.src.ID}
	}
	start := d.src.Offset(uint32(n.Line), uint32(n.Column))
	end := start + 1
	if n.Kind == yaml.ScalarNode && n.Value != "" {
		end = start + uint32(len(n.Value))
		if n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 {
			end += 2
		}
	}
	if limit := uint32(len(d.src.Content)); end > limit {
		end = limit
	}
	if start > end {
		start = end
	}
	return source.Span{File: d.src.ID, Start: start, End: end}
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	n = resolve(n)
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

// object is a mapping node whose entries are consumed by key. Entries
// left over when done is called are reported as unknown.
type object struct {
	node *yaml.Node
	keys []*yaml.Node
	vals map[string]*yaml.Node
	used map[string]bool
}

func (d *decoder) object(n *yaml.Node) (*object, bool) {
	n = resolve(n)
	if n == nil || n.Kind != yaml.MappingNode {
		d.failNode(n, "expected a mapping")
		return nil, false
	}
	o := &object{node: n, vals: make(map[string]*yaml.Node, len(n.Content)/2), used: make(map[string]bool)}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		if _, dup := o.vals[k.Value]; dup {
			d.failNode(k, "duplicate key %q", k.Value)
			continue
		}
		o.keys = append(o.keys, k)
		o.vals[k.Value] = resolve(n.Content[i+1])
	}
	return o, true
}

// kind returns the first key, which selects what the mapping denotes.
func (o *object) kind() (string, *yaml.Node) {
	if len(o.keys) == 0 {
		return "", nil
	}
	k := o.keys[0].Value
	o.used[k] = true
	return k, o.vals[k]
}

func (o *object) take(key string) *yaml.Node {
	v, ok := o.vals[key]
	if !ok {
		return nil
	}
	o.used[key] = true
	return v
}

func (o *object) has(key string) bool {
	_, ok := o.vals[key]
	return ok
}

func (d *decoder) done(o *object) {
	for _, k := range o.keys {
		if !o.used[k.Value] {
			d.failNode(k, "unknown key %q", k.Value)
		}
	}
}

// name reads an identifier. Identifiers are compared after NFC
// normalisation.
func (d *decoder) name(n *yaml.Node) string {
	n = resolve(n)
	if n == nil || n.Kind != yaml.ScalarNode || n.Value == "" {
		d.failNode(n, "expected a name")
		return ""
	}
	return norm.NFC.String(n.Value)
}

// path reads a dotted name such as a.b.C.
func (d *decoder) path(n *yaml.Node) []string {
	text := d.name(n)
	if text == "" {
		return nil
	}
	parts := strings.Split(text, ".")
	for _, p := range parts {
		if p == "" {
			d.failNode(n, "malformed path %q", text)
			return nil
		}
	}
	return parts
}

func (d *decoder) flag(n *yaml.Node) bool {
	n = resolve(n)
	if n == nil {
		return false
	}
	var b bool
	if err := n.Decode(&b); err != nil {
		d.failNode(n, "expected true or false")
		return false
	}
	return b
}

func (d *decoder) list(n *yaml.Node) []*yaml.Node {
	n = resolve(n)
	switch {
	case n == nil || isNull(n):
		return nil
	case n.Kind == yaml.SequenceNode:
		out := make([]*yaml.Node, 0, len(n.Content))
		for _, c := range n.Content {
			out = append(out, resolve(c))
		}
		return out
	}
	return []*yaml.Node{n}
}

// typ parses a written type held in a scalar.
func (d *decoder) typ(n *yaml.Node) ast.TypeID {
	n = resolve(n)
	if isNull(n) {
		return ast.NoTypeID
	}
	if n.Kind != yaml.ScalarNode {
		d.failNode(n, "expected a type")
		return ast.NoTypeID
	}
	base := d.span(n)
	if n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 {
		base.Start++
	}
	id, err := parseType(d.b.Types, n.Value, base)
	if err != nil {
		d.reportTypeErr(n, err)
		return ast.NoTypeID
	}
	return id
}

func (d *decoder) types(n *yaml.Node) []ast.TypeID {
	var out []ast.TypeID
	for _, c := range d.list(n) {
		if t := d.typ(c); t.IsValid() {
			out = append(out, t)
		}
	}
	return out
}

// file decodes a document: either a statement sequence or a mapping with
// packages, body and expect.
func (d *decoder) file(root *yaml.Node) ast.FileID {
	f := d.b.NewFile(source.Span{File: d.src.ID, End: uint32(len(d.src.Content))}, d.src.Path)
	root = resolve(root)
	if root == nil || isNull(root) {
		return f
	}
	if root.Kind == yaml.SequenceNode {
		for _, s := range d.stmts(root) {
			d.b.PushStmt(f, s)
		}
		return f
	}
	o, ok := d.object(root)
	if !ok {
		return f
	}
	if n := o.take("expect"); n != nil {
		d.hasExpect = true
		for _, c := range d.list(n) {
			code, ok := diag.ParseCode(c.Value)
			if !ok {
				d.failNode(c, "unknown diagnostic code %q", c.Value)
				continue
			}
			d.expect = append(d.expect, code)
		}
	}
	for _, pn := range d.list(o.take("packages")) {
		if item := d.pkg(pn); item.IsValid() {
			d.b.PushPackage(f, item)
		}
	}
	for _, s := range d.stmts(o.take("body")) {
		d.b.PushStmt(f, s)
	}
	d.done(o)
	return f
}

func (d *decoder) pkg(n *yaml.Node) ast.ItemID {
	o, ok := d.object(n)
	if !ok {
		return ast.NoItemID
	}
	defer d.done(o)
	kind, v := o.kind()
	if kind != "package" {
		d.failNode(o.node, "expected a package definition")
		return ast.NoItemID
	}
	var path []string
	if !isNull(v) {
		path = d.path(v)
	}
	body := d.stmts(o.take("body"))
	return d.b.Items.NewPackage(d.span(o.node), path, body)
}
