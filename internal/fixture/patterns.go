package fixture

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"ripple/internal/ast"
	"ripple/internal/source"
)

// pattern decodes a binding pattern. typ, when present, annotates the
// outermost pattern:
//
//	x  "x: Int"  [a, b, {spread: rest}]  {record: {a: null, b: c}}
//	{name: x, type: Int, nonnull: true}  {array: [a, b], type: "[Int, Int]"}
func (d *decoder) pattern(n, typ *yaml.Node) ast.PatternID {
	return d.patternOf(n, typ, false)
}

// targetPattern decodes the left side of a destructuring assignment. Plain
// names assign to existing variables; any other expression becomes a
// target.
func (d *decoder) targetPattern(n *yaml.Node) ast.PatternID {
	return d.patternOf(n, nil, true)
}

func (d *decoder) patternOf(n, typ *yaml.Node, assign bool) ast.PatternID {
	n = resolve(n)
	if isNull(n) {
		d.failNode(n, "expected a pattern")
		return ast.NoPatternID
	}
	sp := d.span(n)
	p := d.b.Patterns
	switch n.Kind {
	case yaml.ScalarNode:
		if assign {
			if n.Style == 0 && isIdent(n.Value) {
				return p.NewName(sp, norm.NFC.String(n.Value), ast.NoTypeID)
			}
			return p.NewTarget(sp, d.expr(n))
		}
		if typ == nil && strings.Contains(n.Value, ":") {
			name, t := d.splitTyped(n)
			return p.NewName(sp, name, t)
		}
		return p.NewName(sp, d.name(n), d.typ(typ))
	case yaml.SequenceNode:
		return p.NewArray(sp, d.arrayItems(n, assign), d.typ(typ))
	}

	o, ok := d.object(n)
	if !ok {
		return ast.NoPatternID
	}
	defer d.done(o)
	kind, v := o.kind()
	if t := o.take("type"); t != nil {
		if typ != nil {
			d.failNode(t, "pattern type given twice")
		}
		typ = t
	}
	var id ast.PatternID
	switch kind {
	case "name":
		id = p.NewName(sp, d.name(v), d.typ(typ))
	case "array":
		id = p.NewArray(sp, d.arrayItems(v, assign), d.typ(typ))
	case "record":
		id = p.NewRecord(sp, d.recordFields(v, assign), d.typ(typ))
	case "target":
		id = p.NewTarget(sp, d.expr(v))
	default:
		if !assign {
			d.failNode(o.keys[0], "unknown pattern %q", kind)
			return ast.NoPatternID
		}
		// Any other expression is an assignment target; its keys belong
		// to the expression decoder.
		for _, k := range o.keys {
			o.used[k.Value] = true
		}
		return p.NewTarget(sp, d.expr(n))
	}
	if d.flag(o.take("nonnull")) {
		p.Get(id).NonNull = true
	}
	return id
}

// arrayItems reads array pattern positions. A null item is a hole;
// {spread: p} collects the remaining elements.
func (d *decoder) arrayItems(n *yaml.Node, assign bool) []ast.ArrayPatternItem {
	n = resolve(n)
	if n == nil || n.Kind != yaml.SequenceNode {
		d.failNode(n, "expected a sequence of patterns")
		return nil
	}
	items := make([]ast.ArrayPatternItem, 0, len(n.Content))
	for _, c := range n.Content {
		c = resolve(c)
		switch {
		case isNull(c):
			items = append(items, ast.ArrayPatternItem{})
		case c.Kind == yaml.MappingNode && len(c.Content) == 2 && c.Content[0].Value == "spread":
			items = append(items, ast.ArrayPatternItem{
				Pattern: d.patternOf(c.Content[1], nil, assign),
				Spread:  true,
			})
		default:
			items = append(items, ast.ArrayPatternItem{Pattern: d.patternOf(c, nil, assign)})
		}
	}
	return items
}

// recordFields reads {key: pattern} with null meaning the shorthand that
// binds key itself, or the sequence form [{key, key_expr, value}] which
// also allows computed keys.
func (d *decoder) recordFields(n *yaml.Node, assign bool) []ast.RecordPatternField {
	n = resolve(n)
	switch {
	case isNull(n):
		return nil
	case n.Kind == yaml.MappingNode:
		fields := make([]ast.RecordPatternField, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, val := n.Content[i], resolve(n.Content[i+1])
			f := ast.RecordPatternField{Key: norm.NFC.String(k.Value), KeySpan: d.span(k)}
			f.Value = d.fieldPattern(f.Key, f.KeySpan, val, assign)
			fields = append(fields, f)
		}
		return fields
	case n.Kind == yaml.SequenceNode:
		var fields []ast.RecordPatternField
		for _, c := range n.Content {
			o, ok := d.object(c)
			if !ok {
				continue
			}
			f := ast.RecordPatternField{}
			if k := o.take("key"); k != nil {
				f.Key, f.KeySpan = d.name(k), d.span(k)
			}
			if ke := o.take("key_expr"); ke != nil {
				if f.Key != "" {
					d.failNode(ke, "a field has either a key or a key expression")
				}
				f.KeyExpr, f.KeySpan = d.expr(ke), d.span(ke)
			}
			if f.Key == "" && !f.KeyExpr.IsValid() {
				d.failNode(c, "record pattern field needs a key")
			}
			f.Value = d.fieldPattern(f.Key, f.KeySpan, o.take("value"), assign)
			d.done(o)
			fields = append(fields, f)
		}
		return fields
	}
	d.failNode(n, "expected a mapping of record fields")
	return nil
}

func (d *decoder) fieldPattern(key string, keySpan source.Span, val *yaml.Node, assign bool) ast.PatternID {
	if !isNull(val) {
		return d.patternOf(val, nil, assign)
	}
	if key == "" {
		d.fail(keySpan, "a computed key needs a value pattern")
		return ast.NoPatternID
	}
	return d.b.Patterns.NewName(keySpan, key, ast.NoTypeID)
}
