package model

func (m *Model) declareBuiltins() {
	in := m.Types
	b := &m.Builtins
	b.Any, b.Void, b.Undefined, b.Null = in.Any(), in.Void(), in.Undefined(), in.Null()

	class := func(name string, flags ClassFlags, super TypeID) TypeID {
		id := in.NewClass(ClassInfo{
			Name:     name,
			Parent:   m.Global,
			Flags:    flags | ClassNative,
			Super:    super,
			Heritage: true,
		})
		m.Global.Props.Set(name, id)
		return id
	}
	generic := func(name string, params ...string) TypeID {
		id := class(name, ClassFinal, b.Object)
		info := in.Class(id)
		for i, p := range params {
			info.TypeParams = append(info.TypeParams, in.NewTypeParam(TypeParamInfo{Name: p, Owner: id, Index: i}))
		}
		return id
	}

	b.Object = class("Object", 0, NoType)
	b.String = class("String", ClassFinal, b.Object)
	b.Boolean = class("Boolean", ClassFinal, b.Object)
	b.Number = class("Number", ClassFinal, b.Object)
	b.Decimal = class("Decimal", ClassFinal, b.Object)
	b.Byte = class("Byte", ClassFinal, b.Object)
	b.Short = class("Short", ClassFinal, b.Object)
	b.Int = class("Int", ClassFinal, b.Object)
	b.Long = class("Long", ClassFinal, b.Object)
	b.BigInt = class("BigInt", ClassFinal, b.Object)
	b.ByteArray = class("ByteArray", ClassFinal, b.Object)
	b.RegExp = class("RegExp", ClassFinal, b.Object)
	b.Function = class("Function", ClassFinal, b.Object)
	b.Class = class("Class", ClassFinal, b.Object)
	b.Array = generic("Array", "T")
	b.Map = generic("Map", "K", "V")
	b.Promise = generic("Promise", "T")
	b.Generator = generic("Generator", "T")

	m.Global.Props.Set("Any", b.Any)
	m.Global.Props.Set("void", b.Void)
	m.Global.Props.Set("Null", b.Null)
	m.Global.Props.Set("Undefined", b.Undefined)

	m.declareBuiltinMembers()
}

func (m *Model) nativeMethod(owner TypeID, name string, sig FnInfo, flags MethodFlags) *MethodSlot {
	ms := &MethodSlot{
		Name:      name,
		Owner:     owner,
		Flags:     flags | MethodNative,
		Signature: Resolved(m.Types.InternFunction(sig)),
	}
	props := m.Types.Class(owner).Instance
	if flags.Has(MethodStatic) {
		props = m.Types.Class(owner).Static
	}
	props.Set(name, ms)
	return ms
}

func (m *Model) nativeProperty(owner TypeID, name string, t TypeID, writable bool) {
	info := m.Types.Class(owner)
	vs := &VirtualSlot{Name: name, Owner: owner, Type: Resolved(t)}
	vs.AttachGetter(&MethodSlot{
		Name:      name,
		Owner:     owner,
		Flags:     MethodNative,
		Signature: Resolved(m.Fn(nil, t)),
	})
	if writable {
		vs.AttachSetter(&MethodSlot{
			Name:      name,
			Owner:     owner,
			Flags:     MethodNative,
			Signature: Resolved(m.Fn([]TypeID{t}, m.Builtins.Void)),
		})
	}
	info.Instance.Set(name, vs)
}

func (m *Model) nativeProxy(owner TypeID, kind ProxyKind, sig FnInfo) {
	var flags MethodFlags = MethodProxy
	if kind.Static() {
		flags |= MethodStatic
	}
	ms := &MethodSlot{
		Name:      kind.String(),
		Owner:     owner,
		Flags:     flags | MethodNative,
		Proxy:     kind,
		Signature: Resolved(m.Types.InternFunction(sig)),
	}
	info := m.Types.Class(owner)
	if info.Proxies == nil {
		info.Proxies = make(map[ProxyKind]*MethodSlot)
	}
	info.Proxies[kind] = ms
}

func (m *Model) declareBuiltinMembers() {
	b := m.Builtins
	in := m.Types
	opt := func(t TypeID) TypeID { return in.InternUnion([]TypeID{t, b.Undefined}) }

	m.nativeMethod(b.Object, "toString", FnInfo{Result: b.String}, 0)

	m.nativeProperty(b.String, "length", b.Int, false)
	m.nativeMethod(b.String, "charAt", FnInfo{Params: []TypeID{b.Int}, Result: b.String}, 0)
	m.nativeMethod(b.String, "indexOf", FnInfo{Params: []TypeID{b.String}, Result: b.Int}, 0)
	m.nativeMethod(b.String, "toUpperCase", FnInfo{Result: b.String}, 0)
	m.nativeMethod(b.String, "toLowerCase", FnInfo{Result: b.String}, 0)
	m.nativeProxy(b.String, ProxyGetIndex, FnInfo{Params: []TypeID{b.Int}, Result: b.String})
	m.nativeProxy(b.String, ProxyIterateValues, FnInfo{Result: m.GeneratorOf(b.String)})

	m.nativeMethod(b.Number, "toFixed", FnInfo{Params: []TypeID{b.Int}, Result: b.String}, 0)

	m.nativeProperty(b.ByteArray, "length", b.Int, true)
	m.nativeProxy(b.ByteArray, ProxyGetIndex, FnInfo{Params: []TypeID{b.Int}, Result: b.Byte})
	m.nativeProxy(b.ByteArray, ProxySetIndex, FnInfo{Params: []TypeID{b.Int, b.Byte}, Result: b.Void})
	m.nativeProxy(b.ByteArray, ProxyIterateKeys, FnInfo{Result: m.GeneratorOf(b.Int)})
	m.nativeProxy(b.ByteArray, ProxyIterateValues, FnInfo{Result: m.GeneratorOf(b.Byte)})

	m.nativeProperty(b.RegExp, "source", b.String, false)
	m.nativeMethod(b.RegExp, "test", FnInfo{Params: []TypeID{b.String}, Result: b.Boolean}, 0)

	t := in.Class(b.Array).TypeParams[0]
	arrT := m.ArrayOf(t)
	m.nativeProperty(b.Array, "length", b.Int, true)
	m.nativeMethod(b.Array, "push", FnInfo{Rest: arrT, Result: b.Int}, 0)
	m.nativeMethod(b.Array, "pop", FnInfo{Result: opt(t)}, 0)
	m.nativeMethod(b.Array, "join", FnInfo{Optional: []TypeID{b.String}, Result: b.String}, 0)
	m.nativeMethod(b.Array, "indexOf", FnInfo{Params: []TypeID{t}, Result: b.Int}, 0)
	m.nativeProxy(b.Array, ProxyGetIndex, FnInfo{Params: []TypeID{b.Int}, Result: t})
	m.nativeProxy(b.Array, ProxySetIndex, FnInfo{Params: []TypeID{b.Int, t}, Result: b.Void})
	m.nativeProxy(b.Array, ProxyIterateKeys, FnInfo{Result: m.GeneratorOf(b.Int)})
	m.nativeProxy(b.Array, ProxyIterateValues, FnInfo{Result: m.GeneratorOf(t)})

	k, v := in.Class(b.Map).TypeParams[0], in.Class(b.Map).TypeParams[1]
	m.nativeProperty(b.Map, "size", b.Int, false)
	m.nativeMethod(b.Map, "get", FnInfo{Params: []TypeID{k}, Result: opt(v)}, 0)
	m.nativeMethod(b.Map, "set", FnInfo{Params: []TypeID{k, v}, Result: b.Void}, 0)
	m.nativeMethod(b.Map, "has", FnInfo{Params: []TypeID{k}, Result: b.Boolean}, 0)
	m.nativeProxy(b.Map, ProxyGetIndex, FnInfo{Params: []TypeID{k}, Result: opt(v)})
	m.nativeProxy(b.Map, ProxySetIndex, FnInfo{Params: []TypeID{k, v}, Result: b.Void})
	m.nativeProxy(b.Map, ProxyIterateKeys, FnInfo{Result: m.GeneratorOf(k)})
	m.nativeProxy(b.Map, ProxyIterateValues, FnInfo{Result: m.GeneratorOf(v)})

	g := in.Class(b.Generator).TypeParams[0]
	m.nativeMethod(b.Generator, "next", FnInfo{Result: opt(g)}, 0)
	m.nativeProxy(b.Generator, ProxyIterateValues, FnInfo{Result: m.GeneratorOf(g)})

	p := in.Class(b.Promise).TypeParams[0]
	m.nativeMethod(b.Promise, "then", FnInfo{Params: []TypeID{m.Fn([]TypeID{p}, b.Void)}, Result: m.PromiseOf(p)}, 0)
}
