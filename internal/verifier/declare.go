package verifier

import (
	"ripple/internal/ast"
	"ripple/internal/diag"
	"ripple/internal/model"
	"ripple/internal/source"
)

// lazyDecl remembers where a slot was declared so its type can be
// resolved on demand.
type lazyDecl struct {
	item  ast.ItemID
	frame model.FrameID
	unit  *diag.Unit
}

// declare adds sym to the current frame's table.
func (v *Verifier) declare(name string, sym model.Symbol, sp source.Span) bool {
	return v.declareIn(v.curFrame().Props, name, sym, sp)
}

func (v *Verifier) declareIn(props *model.Properties, name string, sym model.Symbol, sp source.Span) bool {
	if err := props.Declare(name, sym, false); err != nil {
		v.report(diag.VerifyDuplicateDefinition, sp, diag.Args{"name": name})
		return false
	}
	return true
}

// redeclaration is a variable that replaced an earlier one under
// allowDuplicates. Their types are compared once the run has typed both.
type redeclaration struct {
	prev, next *model.VariableSlot
	span       source.Span
	unit       *diag.Unit
}

// declareSlot declares a variable bound by a pattern. With duplicates
// allowed an earlier variable of the same name and mutability is replaced
// instead of reported.
func (v *Verifier) declareSlot(b *binding, name string, slot *model.VariableSlot, sp source.Span) {
	if b.allowDuplicates {
		if prev, ok := b.props.Get(name); ok {
			if ps, ok := prev.(*model.VariableSlot); ok && ps.ReadOnly == slot.ReadOnly && ps.Static == slot.Static {
				_ = b.props.Declare(name, slot, true)
				v.redeclared = append(v.redeclared, redeclaration{prev: ps, next: slot, span: sp, unit: v.unit})
				return
			}
		}
	}
	v.declareIn(b.props, name, slot, sp)
}

// checkRedeclarations reports every replaced variable whose type differs
// from its replacement.
func (v *Verifier) checkRedeclarations() {
	for _, r := range v.redeclared {
		if v.m.TypeOf(r.prev) == v.m.TypeOf(r.next) {
			continue
		}
		restore := v.at(v.frame, r.unit)
		v.report(diag.VerifyDuplicateDefinition, r.span, diag.Args{"name": r.next.Name})
		restore()
	}
	v.redeclared = nil
}

func (v *Verifier) declareStmts(stmts []ast.StmtID) {
	for _, id := range stmts {
		if v.forIncludes(id, v.declareStmts) {
			continue
		}
		st := v.b.Stmts.Get(id)
		switch st.Kind {
		case ast.StmtDecl:
			d, _ := v.b.Stmts.Decl(id)
			v.declareItem(d.Item)
		case ast.StmtImport:
			v.queueImport(id)
		case ast.StmtUseNamespace:
			v.queueUseNamespace(id)
		}
	}
}

func (v *Verifier) declareItem(id ast.ItemID) {
	item := v.b.Items.Get(id)
	if item == nil || item.Sem.Phase >= phaseDeclare {
		return
	}
	item.Sem.Phase = phaseDeclare
	vis := item.Vis.Model()

	switch item.Kind {
	case ast.ItemNamespace:
		body, _ := v.b.Items.Namespace(id)
		ns := model.NewNamespace(item.Name, v.owner(), vis)
		v.declare(item.Name, ns, item.NameSpan)
		frame := v.newFrame(model.FrameNamespace, ns, ns.Props)
		item.Sem.Symbol, item.Sem.Frame = ns, frame
		exit := v.enter(frame)
		v.declareStmts(body.Body)
		exit()
	case ast.ItemClass:
		v.declareClass(id, item)
	case ast.ItemInterface:
		v.declareInterface(id, item)
	case ast.ItemEnum:
		v.declareEnum(id, item)
	case ast.ItemFn:
		ms := v.declareFn(id, item, v.owner(), model.NoType)
		v.declare(item.Name, ms, item.NameSpan)
	case ast.ItemVar:
		data, _ := v.b.Items.Var(id)
		item.Sem.Frame = v.frame
		v.declarePattern(data.Pattern, &binding{
			props:    v.curFrame().Props,
			owner:           v.owner(),
			vis:             vis,
			readOnly:        data.ReadOnly,
			allowDuplicates: v.allowDuplicates,
		}, &lazyDecl{item: id, frame: v.frame, unit: v.unit})
	case ast.ItemTypeAlias:
		data, _ := v.b.Items.TypeAlias(id)
		alias := model.NewAlias(item.Name, v.owner(), vis)
		item.Sem.Symbol = alias
		v.declare(item.Name, alias, item.NameSpan)
		v.queue(&directive{kind: dirTypeAlias, span: item.Span, name: item.Name, typ: data.Type, alias: alias})
	case ast.ItemNamespaceAlias:
		data, _ := v.b.Items.NamespaceAlias(id)
		alias := model.NewAlias(item.Name, v.owner(), vis)
		item.Sem.Symbol = alias
		v.declare(item.Name, alias, item.NameSpan)
		v.queue(&directive{kind: dirNamespaceAlias, span: item.Span, name: item.Name, path: data.Target, alias: alias})
	}
}

// declareTypeParams creates the generic parameters of owner and declares
// them in the current frame. Bounds are resolved in phase 2.
func (v *Verifier) declareTypeParams(owner model.Symbol, params []ast.TypeParam) []model.TypeID {
	if len(params) == 0 {
		return nil
	}
	out := make([]model.TypeID, 0, len(params))
	for i, p := range params {
		tp := v.m.Types.NewTypeParam(model.TypeParamInfo{Name: p.Name, Owner: owner, Index: i})
		v.declare(p.Name, tp, p.Span)
		out = append(out, tp)
	}
	return out
}

func (v *Verifier) declareClass(id ast.ItemID, item *ast.Item) {
	data, _ := v.b.Items.Class(id)
	var flags model.ClassFlags
	if item.Modifiers.Has(ast.ModFinal) {
		flags |= model.ClassFinal
	}
	if item.Modifiers.Has(ast.ModDynamic) {
		flags |= model.ClassDynamic
	}
	if item.Modifiers.Has(ast.ModNative) {
		flags |= model.ClassNative
	}
	t := v.m.Types.NewClass(model.ClassInfo{
		Name:   item.Name,
		Parent: v.owner(),
		Vis:    item.Vis.Model(),
		Flags:  flags,
	})
	item.Sem.Symbol = t
	v.declare(item.Name, t, item.NameSpan)

	frame := v.newFrame(model.FrameClass, t, nil)
	item.Sem.Frame = frame
	exit := v.enter(frame)
	defer exit()
	info := v.m.Types.Class(t)
	info.TypeParams = v.declareTypeParams(t, data.TypeParams)
	v.declareMembers(t, data.Members, info.Static, info.Instance)
}

func (v *Verifier) declareInterface(id ast.ItemID, item *ast.Item) {
	data, _ := v.b.Items.Interface(id)
	t := v.m.Types.NewInterface(model.InterfaceInfo{
		Name:   item.Name,
		Parent: v.owner(),
		Vis:    item.Vis.Model(),
	})
	item.Sem.Symbol = t
	v.declare(item.Name, t, item.NameSpan)

	frame := v.newFrame(model.FrameInterface, t, nil)
	item.Sem.Frame = frame
	exit := v.enter(frame)
	defer exit()
	info := v.m.Types.Interface(t)
	info.TypeParams = v.declareTypeParams(t, data.TypeParams)
	v.declareMembers(t, data.Members, nil, info.Instance)
}

func (v *Verifier) declareEnum(id ast.ItemID, item *ast.Item) {
	data, _ := v.b.Items.Enum(id)
	t := v.m.Types.NewEnum(model.EnumInfo{
		Name:    item.Name,
		Parent:  v.owner(),
		Vis:     item.Vis.Model(),
		IsFlags: data.Flags,
	})
	item.Sem.Symbol = t
	v.declare(item.Name, t, item.NameSpan)

	frame := v.newFrame(model.FrameEnum, t, nil)
	item.Sem.Frame = frame
	exit := v.enter(frame)
	defer exit()
	info := v.m.Types.Enum(t)
	for _, ev := range data.Variants {
		slot := &model.VariableSlot{
			Name:     ev.Name,
			Owner:    t,
			ReadOnly: true,
			Static:   true,
			Type:     model.Resolved(t),
		}
		if err := info.Static.Declare(ev.Name, slot, false); err != nil {
			v.report(diag.VerifyDuplicateEnumVariant, ev.Span, diag.Args{"name": ev.Name})
		}
	}
	v.declareMembers(t, data.Members, info.Static, info.Instance)
}

// declareMembers declares the members of a class, interface or enum into
// its static and instance tables. statics is nil for interfaces.
func (v *Verifier) declareMembers(owner model.TypeID, members []ast.ItemID, statics, instance *model.Properties) {
	iface := statics == nil
	var initFrame model.FrameID
	for _, mid := range members {
		item := v.b.Items.Get(mid)
		if item == nil {
			continue
		}
		item.Sem.Phase = phaseDeclare
		static := item.Modifiers.Has(ast.ModStatic) && !iface
		table := instance
		if static {
			table = statics
		}
		switch item.Kind {
		case ast.ItemFn:
			v.declareMethod(owner, mid, item, table, static, iface)
		case ast.ItemVar:
			data, _ := v.b.Items.Var(mid)
			frame := v.frame
			if !static {
				if initFrame == model.NoFrame {
					initFrame = v.newFrame(model.FrameActivation, owner, nil)
					v.m.Frames.Claim(initFrame, v.frame)
					v.m.Frames.Get(initFrame).This = owner
				}
				frame = initFrame
			}
			item.Sem.Frame = frame
			v.declarePattern(data.Pattern, &binding{
				props:           table,
				owner:           owner,
				vis:             item.Vis.Model(),
				readOnly:        data.ReadOnly,
				static:          static,
				allowDuplicates: v.allowDuplicates,
			}, &lazyDecl{item: mid, frame: frame, unit: v.unit})
		default:
			v.report(diag.VerifyNotAValue, item.Span, diag.Args{"name": item.Name})
		}
	}
}

func (v *Verifier) declareMethod(owner model.TypeID, id ast.ItemID, item *ast.Item, table *model.Properties, static, iface bool) {
	fn, _ := v.b.Items.Fn(id)
	this := owner
	if static {
		this = model.NoType
	}
	ms := v.declareFn(id, item, owner, this)
	if static {
		ms.Flags |= model.MethodStatic
	}
	if iface && item.Modifiers.Has(ast.ModOptional) {
		ms.Flags |= model.MethodOptionalInterface
	}

	switch fn.Kind {
	case ast.FnConstructor:
		ms.Flags |= model.MethodConstructor
		ms.Flags &^= model.MethodStatic
		info := v.m.Types.Class(owner)
		if info == nil || info.Ctor != nil {
			v.report(diag.VerifyDuplicateDefinition, item.NameSpan, diag.Args{"name": item.Name})
			return
		}
		info.Ctor = ms
	case ast.FnGetter, ast.FnSetter:
		vs := v.virtualSlot(owner, item, table, static)
		if vs == nil {
			return
		}
		if fn.Kind == ast.FnGetter {
			if vs.Getter != nil {
				v.report(diag.VerifyDuplicateDefinition, item.NameSpan, diag.Args{"name": item.Name})
				return
			}
			vs.AttachGetter(ms)
		} else {
			if vs.Setter != nil {
				v.report(diag.VerifyDuplicateDefinition, item.NameSpan, diag.Args{"name": item.Name})
				return
			}
			vs.AttachSetter(ms)
		}
	case ast.FnProxy:
		kind, ok := model.ParseProxy(item.Name)
		if !ok {
			v.declareIn(table, item.Name, ms, item.NameSpan)
			return
		}
		ms.Proxy = kind
		ms.Flags |= model.MethodProxy
		if kind.Static() {
			ms.Flags |= model.MethodStatic
		}
		proxies := v.proxyTable(owner)
		if proxies == nil {
			v.report(diag.VerifyNotAValue, item.NameSpan, diag.Args{"name": item.Name})
			return
		}
		if _, dup := proxies[kind]; dup {
			v.report(diag.VerifyDuplicateDefinition, item.NameSpan, diag.Args{"name": item.Name})
			return
		}
		proxies[kind] = ms
	default:
		v.declareIn(table, item.Name, ms, item.NameSpan)
	}
}

// virtualSlot returns the property an accessor attaches to, creating it
// on first use.
func (v *Verifier) virtualSlot(owner model.TypeID, item *ast.Item, table *model.Properties, static bool) *model.VirtualSlot {
	if sym, ok := table.Get(item.Name); ok {
		vs, ok := sym.(*model.VirtualSlot)
		if !ok {
			v.report(diag.VerifyDuplicateDefinition, item.NameSpan, diag.Args{"name": item.Name})
			return nil
		}
		return vs
	}
	vs := &model.VirtualSlot{Name: item.Name, Owner: owner, Vis: item.Vis.Model(), Static: static}
	table.Set(item.Name, vs)
	return vs
}

func (v *Verifier) proxyTable(owner model.TypeID) map[model.ProxyKind]*model.MethodSlot {
	in := v.m.Types
	switch {
	case in.Class(owner) != nil:
		c := in.Class(owner)
		if c.Proxies == nil {
			c.Proxies = make(map[model.ProxyKind]*model.MethodSlot)
		}
		return c.Proxies
	case in.Enum(owner) != nil:
		e := in.Enum(owner)
		if e.Proxies == nil {
			e.Proxies = make(map[model.ProxyKind]*model.MethodSlot)
		}
		return e.Proxies
	}
	return nil
}

// declareFn creates the slot and activation frame of a function. this is
// the receiver type for instance methods and NoType otherwise; nested
// functions inherit the receiver of the enclosing activation.
func (v *Verifier) declareFn(id ast.ItemID, item *ast.Item, owner model.Symbol, this model.TypeID) *model.MethodSlot {
	fn, _ := v.b.Items.Fn(id)
	ms := &model.MethodSlot{Name: item.Name, Owner: owner, Vis: item.Vis.Model()}
	if item.Modifiers.Has(ast.ModFinal) {
		ms.Flags |= model.MethodFinal
	}
	if item.Modifiers.Has(ast.ModNative) {
		ms.Flags |= model.MethodNative
	}
	if _, isType := owner.(model.TypeID); !isType {
		if fr := v.enclosingActivation(); fr != nil {
			this = fr.This
		}
	}
	frame := v.newFrame(model.FrameActivation, ms, nil)
	v.m.Frames.Claim(frame, v.frame)
	fr := v.m.Frames.Get(frame)
	fr.Method = ms
	fr.This = this
	item.Sem.Symbol, item.Sem.Frame = ms, frame

	restore := v.at(frame, nil)
	ms.TypeParams = v.declareTypeParams(ms, fn.TypeParams)
	restore()

	v.lazy[ms] = &lazyDecl{item: id, frame: frame, unit: v.unit}
	return ms
}

func (v *Verifier) enclosingActivation() *model.Frame {
	id := v.m.Frames.Enclosing(v.frame, model.FrameActivation)
	return v.m.Frames.Get(id)
}
