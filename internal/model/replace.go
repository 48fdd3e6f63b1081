package model

// Subst maps generic parameters to arguments position by position.
type Subst struct {
	From []TypeID
	To   []TypeID
}

func (s *Subst) lookup(t TypeID) (TypeID, bool) {
	for i, f := range s.From {
		if f == t && i < len(s.To) {
			return s.To[i], true
		}
	}
	return NoType, false
}

// ReplaceTypes substitutes to[i] for every occurrence of the type
// parameter from[i] inside t and re-interns the result.
func (m *Model) ReplaceTypes(t TypeID, from, to []TypeID) TypeID {
	if len(from) == 0 {
		return t
	}
	return m.replace(t, &Subst{From: from, To: to})
}

func (m *Model) replace(t TypeID, s *Subst) TypeID {
	in := m.Types
	switch in.Kind(t) {
	case KindTypeParam:
		if r, ok := s.lookup(t); ok {
			return r
		}
	case KindUnion:
		return in.InternUnion(m.replaceAll(in.Union(t).Members, s))
	case KindTuple:
		return in.InternTuple(m.replaceAll(in.Tuple(t).Elems, s))
	case KindRecord:
		src := in.Record(t).Fields
		fields := make([]RecordField, len(src))
		for i, f := range src {
			fields[i] = RecordField{Name: f.Name, Type: m.replace(f.Type, s)}
		}
		return in.InternRecord(fields)
	case KindFunction:
		fn := *in.Function(t)
		return in.InternFunction(FnInfo{
			Params:   m.replaceAll(fn.Params, s),
			Optional: m.replaceAll(fn.Optional, s),
			Rest:     m.replaceOpt(fn.Rest, s),
			Result:   m.replace(fn.Result, s),
		})
	case KindInstance:
		inst := in.Instance(t)
		return in.InternInstance(inst.Origin, m.replaceAll(inst.Args, s))
	}
	return t
}

func (m *Model) replaceAll(ids []TypeID, s *Subst) []TypeID {
	if len(ids) == 0 {
		return nil
	}
	out := make([]TypeID, len(ids))
	for i, id := range ids {
		out[i] = m.replace(id, s)
	}
	return out
}

func (m *Model) replaceOpt(t TypeID, s *Subst) TypeID {
	if t == NoType {
		return NoType
	}
	return m.replace(t, s)
}

// Specialise returns a copy of the slot sym with s applied to its types.
// Copies keep a link to their origin; methods keep their own type
// parameters.
func (m *Model) Specialise(sym Symbol, s *Subst) Symbol {
	if s == nil || len(s.From) == 0 {
		return sym
	}
	m.Ensure(sym)
	switch x := sym.(type) {
	case *VariableSlot:
		cp := *x
		cp.origin, cp.subst = x.Origin(), s
		cp.Type = Pending[TypeID]{}
		if t, ok := x.Type.Get(); ok {
			cp.Type.Set(m.replace(t, s))
		}
		return &cp
	case *MethodSlot:
		return m.specialiseMethod(x, s)
	case *VirtualSlot:
		cp := *x
		cp.origin, cp.subst = x.Origin(), s
		cp.Type = Pending[TypeID]{}
		if t, ok := x.Type.Get(); ok {
			cp.Type.Set(m.replace(t, s))
		}
		if x.Getter != nil {
			cp.Getter = m.specialiseMethod(x.Getter, s)
			cp.Getter.Virtual = &cp
		}
		if x.Setter != nil {
			cp.Setter = m.specialiseMethod(x.Setter, s)
			cp.Setter.Virtual = &cp
		}
		return &cp
	}
	return sym
}

func (m *Model) specialiseMethod(x *MethodSlot, s *Subst) *MethodSlot {
	cp := *x
	cp.origin, cp.subst = x.Origin(), s
	cp.Overriders = nil
	cp.Signature = Pending[TypeID]{}
	if t, ok := x.Signature.Get(); ok {
		cp.Signature.Set(m.replace(t, s))
	}
	return &cp
}

// refreshSpecialised fills a copy's type once its origin resolved.
func (m *Model) refreshSpecialised(sym Symbol) {
	switch x := sym.(type) {
	case *VariableSlot:
		if x.subst != nil && !x.Type.Ready() {
			if t, ok := x.Origin().Type.Get(); ok {
				x.Type.Set(m.replace(t, x.subst))
			}
		}
	case *MethodSlot:
		if x.subst != nil && !x.Signature.Ready() {
			if t, ok := x.Origin().Signature.Get(); ok {
				x.Signature.Set(m.replace(t, x.subst))
			}
		}
	case *VirtualSlot:
		if x.subst != nil && !x.Type.Ready() {
			if t, ok := x.Origin().Type.Get(); ok {
				x.Type.Set(m.replace(t, x.subst))
			}
		}
	}
}

func ready(sym Symbol) bool {
	switch x := sym.(type) {
	case *VariableSlot:
		return x.Type.Ready()
	case *MethodSlot:
		return x.Signature.Ready()
	case *VirtualSlot:
		return x.Type.Ready()
	}
	return true
}

// specialisedMember returns the member name of the generic origin of inst,
// specialised to inst's arguments.
func (m *Model) specialisedMember(inst TypeID, name string, static bool) Symbol {
	info := m.Types.Instance(inst)
	key := "i:" + name
	if static {
		key = "s:" + name
	}
	if sym, ok := info.members[key]; ok {
		return sym
	}
	props := m.memberTable(info.Origin, static)
	sym, ok := props.Get(name)
	if !ok {
		return nil
	}
	if static {
		return sym
	}
	spec := m.Specialise(sym, &Subst{From: m.Types.TypeParamsOf(info.Origin), To: info.Args})
	if ready(spec) {
		info.members[key] = spec
	}
	return spec
}

func (m *Model) memberTable(t TypeID, static bool) *Properties {
	in := m.Types
	switch in.Kind(t) {
	case KindClass:
		if static {
			return in.Class(t).Static
		}
		return in.Class(t).Instance
	case KindInterface:
		if static {
			return nil
		}
		return in.Interface(t).Instance
	case KindEnum:
		if static {
			return in.Enum(t).Static
		}
		return in.Enum(t).Instance
	}
	return nil
}

// Proxy returns the proxy method of kind declared by t or inherited from
// its superclasses, specialised for instance types.
func (m *Model) Proxy(t TypeID, kind ProxyKind) *MethodSlot {
	in := m.Types
	for cur, guard := t, 0; cur != NoType && guard < 64; cur, guard = m.SuperClass(cur), guard+1 {
		switch in.Kind(cur) {
		case KindClass:
			if p := in.Class(cur).Proxies[kind]; p != nil {
				return p
			}
		case KindEnum:
			if p := in.Enum(cur).Proxies[kind]; p != nil {
				return p
			}
			return nil
		case KindInstance:
			info := in.Instance(cur)
			c := in.Class(info.Origin)
			if c == nil {
				return nil
			}
			if p := c.Proxies[kind]; p != nil {
				key := "p:" + kind.String()
				if cached, ok := info.members[key]; ok {
					return cached.(*MethodSlot)
				}
				m.Ensure(p)
				spec := m.specialiseMethod(p, &Subst{From: c.TypeParams, To: info.Args})
				if spec.Signature.Ready() {
					info.members[key] = spec
				}
				return spec
			}
		case KindTypeParam:
			if sup := in.TypeParam(cur).Super; sup != NoType {
				return m.Proxy(sup, kind)
			}
			return nil
		default:
			return nil
		}
	}
	return nil
}
