package model

import "strings"

// TypeLabel renders t the way diagnostics show it.
func (m *Model) TypeLabel(t TypeID) string {
	var sb strings.Builder
	m.writeLabel(&sb, t, 0)
	return sb.String()
}

func (m *Model) writeLabel(sb *strings.Builder, t TypeID, depth int) {
	if depth > 16 {
		sb.WriteString("...")
		return
	}
	in := m.Types
	switch in.Kind(t) {
	case KindInvalid:
		sb.WriteString("<invalid>")
	case KindAny:
		sb.WriteString("Any")
	case KindVoid:
		sb.WriteString("void")
	case KindUndefined:
		sb.WriteString("Undefined")
	case KindNull:
		sb.WriteString("Null")
	case KindClass, KindInterface, KindEnum, KindTypeParam:
		sb.WriteString(in.NameOf(t))
	case KindInstance:
		inst := in.Instance(t)
		sb.WriteString(in.NameOf(inst.Origin))
		sb.WriteByte('<')
		m.writeList(sb, inst.Args, ", ", depth)
		sb.WriteByte('>')
	case KindUnion:
		m.writeList(sb, in.Union(t).Members, " | ", depth)
	case KindTuple:
		sb.WriteByte('[')
		m.writeList(sb, in.Tuple(t).Elems, ", ", depth)
		sb.WriteByte(']')
	case KindRecord:
		sb.WriteByte('{')
		for i, f := range in.Record(t).Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.Name)
			sb.WriteString(": ")
			m.writeLabel(sb, f.Type, depth+1)
		}
		sb.WriteByte('}')
	case KindFunction:
		fn := in.Function(t)
		sb.WriteString("(")
		n := 0
		sep := func() {
			if n > 0 {
				sb.WriteString(", ")
			}
			n++
		}
		for _, p := range fn.Params {
			sep()
			m.writeLabel(sb, p, depth+1)
		}
		for _, p := range fn.Optional {
			sep()
			m.writeLabel(sb, p, depth+1)
			sb.WriteByte('=')
		}
		if fn.Rest != NoType {
			sep()
			sb.WriteString("...")
			m.writeLabel(sb, fn.Rest, depth+1)
		}
		sb.WriteString(") => ")
		m.writeLabel(sb, fn.Result, depth+1)
	}
}

func (m *Model) writeList(sb *strings.Builder, ids []TypeID, sep string, depth int) {
	for i, id := range ids {
		if i > 0 {
			sb.WriteString(sep)
		}
		m.writeLabel(sb, id, depth+1)
	}
}
