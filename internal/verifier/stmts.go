package verifier

import (
	"ripple/internal/ast"
	"ripple/internal/diag"
	"ripple/internal/model"
	"ripple/internal/source"
)

func (v *Verifier) verifyStmts(stmts []ast.StmtID) {
	pop := func() {}
	if len(v.acts) == 0 {
		pop = v.push(&activation{})
	}
	defer pop()
	for _, id := range stmts {
		if v.forIncludes(id, v.verifyStmts) {
			continue
		}
		v.verifyStmt(id)
	}
}

// verifyBody verifies the body of a compound statement. A lone declaration
// is scoped to the current frame.
func (v *Verifier) verifyBody(id ast.StmtID) {
	if !id.IsValid() {
		return
	}
	if st := v.b.Stmts.Get(id); st != nil && st.Kind == ast.StmtBlock {
		v.verifyStmt(id)
		return
	}
	v.runLocalPhases([]ast.StmtID{id})
}

func (v *Verifier) verifyStmt(id ast.StmtID) {
	st := v.b.Stmts.Get(id)
	if st == nil {
		return
	}
	switch st.Kind {
	case ast.StmtBlock:
		block, _ := v.b.Stmts.Block(id)
		st.Sem.Frame = v.newFrame(model.FrameBlock, nil, nil)
		exit := v.enter(st.Sem.Frame)
		v.runLocalPhases(block.Stmts)
		exit()
	case ast.StmtDecl:
		d, _ := v.b.Stmts.Decl(id)
		v.verifyItem(d.Item)
	case ast.StmtExpr:
		e, _ := v.b.Stmts.Expr(id)
		v.verifyExpr(e.Expr, model.NoType)
	case ast.StmtIf:
		s, _ := v.b.Stmts.If(id)
		v.value(s.Cond, model.NoType)
		v.verifyBody(s.Then)
		v.verifyBody(s.Else)
	case ast.StmtWhile, ast.StmtDoWhile:
		s, _ := v.b.Stmts.While(id)
		v.value(s.Cond, model.NoType)
		v.loop(s.Body)
	case ast.StmtFor:
		v.verifyFor(st, id)
	case ast.StmtForIn:
		v.verifyForIn(st, id)
	case ast.StmtReturn:
		r, _ := v.b.Stmts.Value(id)
		v.verifyReturn(st.Span, r.Value)
	case ast.StmtThrow:
		r, _ := v.b.Stmts.Value(id)
		v.value(r.Value, model.NoType)
	case ast.StmtBreak, ast.StmtContinue:
		j, _ := v.b.Stmts.Jump(id)
		v.verifyJump(st, j.Label)
	case ast.StmtTry:
		v.verifyTry(id)
	case ast.StmtSuperCall:
		s, _ := v.b.Stmts.SuperCallData(id)
		v.verifySuperCall(st.Span, s.Args)
	case ast.StmtWith:
		w, _ := v.b.Stmts.With(id)
		obj := v.value(w.Object, model.NoType)
		st.Sem.Frame = v.newFrame(model.FrameWith, nil, nil)
		v.m.Frames.Get(st.Sem.Frame).With = obj
		exit := v.enter(st.Sem.Frame)
		v.verifyBody(w.Body)
		exit()
	case ast.StmtLabeled:
		l, _ := v.b.Stmts.LabeledData(id)
		act := v.act()
		body := v.b.Stmts.Get(l.Body)
		isLoop := body != nil && isLoopKind(body.Kind)
		act.labels = append(act.labels, label{name: l.Label, loop: isLoop})
		v.verifyBody(l.Body)
		act.labels = act.labels[:len(act.labels)-1]
	case ast.StmtInclude:
		v.forIncludes(id, v.verifyStmts)
	}
	st.Sem.Resolved = true
}

func isLoopKind(k ast.StmtKind) bool {
	switch k {
	case ast.StmtWhile, ast.StmtDoWhile, ast.StmtFor, ast.StmtForIn:
		return true
	}
	return false
}

func (v *Verifier) loop(body ast.StmtID) {
	act := v.act()
	act.loops++
	v.verifyBody(body)
	act.loops--
}

func (v *Verifier) verifyFor(st *ast.Stmt, id ast.StmtID) {
	s, _ := v.b.Stmts.For(id)
	st.Sem.Frame = v.newFrame(model.FrameBlock, nil, nil)
	exit := v.enter(st.Sem.Frame)
	defer exit()
	if s.Init.IsValid() {
		v.runLocalPhases([]ast.StmtID{s.Init})
	}
	if s.Cond.IsValid() {
		v.value(s.Cond, model.NoType)
	}
	if s.Step.IsValid() {
		v.verifyExpr(s.Step, model.NoType)
	}
	v.loop(s.Body)
}

func (v *Verifier) verifyForIn(st *ast.Stmt, id ast.StmtID) {
	s, _ := v.b.Stmts.ForIn(id)
	iter := v.value(s.Iterable, model.NoType)
	elem := v.m.Builtins.Any
	if iter != nil {
		elem = v.iterationType(v.m.TypeOf(iter), s.Each, v.spanOf(s.Iterable))
	}

	st.Sem.Frame = v.newFrame(model.FrameBlock, nil, nil)
	exit := v.enter(st.Sem.Frame)
	defer exit()
	switch {
	case s.Var.IsValid():
		v.declareItem(s.Var)
		item := v.b.Items.Get(s.Var)
		data, _ := v.b.Items.Var(s.Var)
		item.Sem.Phase = phaseBody
		v.bindPattern(data.Pattern, elem, &binding{props: v.curFrame().Props, owner: v.owner(), readOnly: data.ReadOnly})
	case s.Target.IsValid():
		target := v.verifyExpr(s.Target, model.NoType)
		if target != nil {
			if tt := v.assignable(target, v.spanOf(s.Target)); tt != model.NoType && !v.implicitType(elem, tt) {
				v.incompatible(v.spanOf(s.Target), tt, elem)
			}
		}
	}
	v.loop(s.Body)
}

// iterationType is the type of the keys (or values, with each) produced
// by iterating a value of type t.
func (v *Verifier) iterationType(t model.TypeID, each bool, sp source.Span) model.TypeID {
	in := v.m.Types
	anyT := v.m.Builtins.Any
	t = v.m.ToNonNullableType(t)
	if in.Kind(t) == model.KindAny {
		return anyT
	}
	kind := model.ProxyIterateKeys
	if each {
		kind = model.ProxyIterateValues
	}
	if p := v.m.Proxy(t, kind); p != nil {
		res := v.proxyResult(p)
		if e, ok := v.m.GeneratorElem(res); ok {
			return e
		}
		return res
	}
	switch in.Kind(t) {
	case model.KindRecord:
		if !each {
			return v.m.Builtins.String
		}
		var members []model.TypeID
		for _, f := range in.Record(t).Fields {
			members = append(members, f.Type)
		}
		if len(members) == 0 {
			return anyT
		}
		return in.InternUnion(members)
	case model.KindTuple:
		if !each {
			return v.m.Builtins.Int
		}
		if elems := in.Tuple(t).Elems; len(elems) > 0 {
			return in.InternUnion(elems)
		}
		return anyT
	}
	v.report(diag.VerifyNotIterable, sp, diag.Args{"type": v.label(t)})
	return anyT
}

func (v *Verifier) verifyReturn(sp source.Span, value ast.ExprID) {
	act := v.act()
	if act == nil || act.slot == nil {
		if value.IsValid() {
			v.value(value, model.NoType)
			v.report(diag.VerifyUnexpectedReturnValue, sp, nil)
		}
		return
	}
	result := act.result
	if elem, ok := v.m.GeneratorElem(result); ok && value.IsValid() {
		val := v.value(value, model.NoType)
		if val != nil && !v.implicitType(v.m.TypeOf(val), result) {
			v.convertTo(val, elem, v.spanOf(value))
		}
		return
	}
	switch {
	case result == v.m.Builtins.Void:
		if value.IsValid() {
			v.value(value, model.NoType)
			v.report(diag.VerifyUnexpectedReturnValue, sp, nil)
		}
	case !value.IsValid():
		if result != v.m.Builtins.Any && !v.m.IncludesUndefined(result) {
			v.report(diag.VerifyReturnValueExpected, sp, diag.Args{"type": v.label(result)})
		}
	default:
		if elem, ok := v.m.PromiseElem(result); ok {
			val := v.value(value, elem)
			if val != nil && !v.implicitType(v.m.TypeOf(val), result) {
				v.convertTo(val, elem, v.spanOf(value))
			}
			return
		}
		v.valueAs(value, result)
	}
}

func (v *Verifier) verifyJump(st *ast.Stmt, name string) {
	act := v.act()
	cont := st.Kind == ast.StmtContinue
	code := diag.VerifyIllegalBreak
	if cont {
		code = diag.VerifyIllegalContinue
	}
	if name != "" {
		for i := len(act.labels) - 1; i >= 0; i-- {
			if l := act.labels[i]; l.name == name {
				if cont && !l.loop {
					v.report(code, st.Span, nil)
				}
				return
			}
		}
		v.report(diag.VerifyUnresolvedReference, st.Span, diag.Args{"name": name})
		return
	}
	if act.loops == 0 {
		v.report(code, st.Span, nil)
	}
}

func (v *Verifier) verifyTry(id ast.StmtID) {
	s, _ := v.b.Stmts.Try(id)
	v.verifyBody(s.Body)
	for i := range s.Catches {
		c := &s.Catches[i]
		c.Frame = v.newFrame(model.FrameBlock, nil, nil)
		exit := v.enter(c.Frame)
		if c.Pattern.IsValid() {
			b := &binding{props: v.curFrame().Props, owner: v.owner()}
			v.declarePattern(c.Pattern, b, nil)
			t := v.m.Builtins.Any
			if p := v.b.Patterns.Get(c.Pattern); p != nil && p.Type.IsValid() {
				t = v.resolveType(p.Type)
			}
			v.bindPattern(c.Pattern, t, b)
		}
		v.verifyBody(c.Body)
		exit()
	}
	v.verifyBody(s.Finally)
}

func (v *Verifier) verifySuperCall(sp source.Span, args []ast.ExprID) {
	act := v.act()
	if act == nil || act.slot == nil || !act.slot.Flags.Has(model.MethodConstructor) {
		v.report(diag.VerifySuperCallOutsideCtor, sp, nil)
		v.looseArgs(args)
		return
	}
	owner, _ := act.slot.Owner.(model.TypeID)
	super := v.m.SuperClass(owner)
	v.checkCtorArgs(super, args, sp)
}

// verifyItem runs phase 7 on a declaration.
func (v *Verifier) verifyItem(id ast.ItemID) {
	item := v.b.Items.Get(id)
	if item == nil {
		return
	}
	switch item.Kind {
	case ast.ItemNamespace:
		if item.Sem.Phase >= phaseBody {
			return
		}
		item.Sem.Phase = phaseBody
		body, _ := v.b.Items.Namespace(id)
		exit := v.enter(item.Sem.Frame)
		v.verifyStmts(body.Body)
		exit()
	case ast.ItemClass, ast.ItemEnum, ast.ItemInterface:
		if item.Sem.Phase >= phaseBody {
			return
		}
		item.Sem.Phase = phaseBody
		exit := v.enter(item.Sem.Frame)
		for _, mid := range v.membersOf(id, item.Kind) {
			member := v.b.Items.Get(mid)
			switch member.Kind {
			case ast.ItemFn:
				v.verifyFnBody(mid)
			case ast.ItemVar:
				v.typeVar(mid)
			}
		}
		exit()
	case ast.ItemFn:
		v.verifyFnBody(id)
	case ast.ItemVar:
		v.typeVar(id)
	}
}

func (v *Verifier) membersOf(id ast.ItemID, kind ast.ItemKind) []ast.ItemID {
	switch kind {
	case ast.ItemClass:
		d, _ := v.b.Items.Class(id)
		return d.Members
	case ast.ItemInterface:
		d, _ := v.b.Items.Interface(id)
		return d.Members
	case ast.ItemEnum:
		d, _ := v.b.Items.Enum(id)
		return d.Members
	}
	return nil
}

// typeVar verifies a variable initialiser and binds the pattern's slots
// to their final types.
func (v *Verifier) typeVar(id ast.ItemID) {
	item := v.b.Items.Get(id)
	if item == nil || item.Sem.Phase >= phaseBody {
		return
	}
	v.resolveVarDecl(id)
	item.Sem.Phase = phaseBody
	v.inFlight[id] = true
	defer delete(v.inFlight, id)
	restore := v.at(item.Sem.Frame, nil)
	defer restore()

	data, _ := v.b.Items.Var(id)
	pat := v.b.Patterns.Get(data.Pattern)
	if pat == nil {
		return
	}
	if !data.Init.IsValid() {
		if pat.Kind != ast.PatName {
			v.bindPattern(data.Pattern, model.NoType, &binding{props: v.curFrame().Props, owner: v.owner()})
		}
		return
	}

	ctx := model.NoType
	if slot, ok := pat.Sem.Symbol.(*model.VariableSlot); ok && pat.Kind == ast.PatName {
		ctx, _ = slot.Type.Get()
	}
	if ctx == model.NoType {
		ctx = v.resolveType(pat.Type)
	}
	val := v.valueAs(data.Init, ctx)
	inferred := ctx
	switch {
	case val == nil && ctx == model.NoType:
		inferred = v.m.Builtins.Any
	case ctx == model.NoType:
		inferred = v.m.TypeOf(val)
		if inferred == v.m.Builtins.Null || inferred == v.m.Builtins.Undefined {
			inferred = v.m.Builtins.Any
		}
	}
	if pat.Kind == ast.PatName {
		if slot, ok := pat.Sem.Symbol.(*model.VariableSlot); ok && slot.ReadOnly {
			if c, ok := val.(*model.Constant); ok {
				slot.Init = c
			}
		}
	}
	v.bindPattern(data.Pattern, inferred, &binding{props: v.curFrame().Props, owner: v.owner()})
}

// verifyFnBody declares the parameters of a function and verifies its
// body under a new activation.
func (v *Verifier) verifyFnBody(id ast.ItemID) {
	item := v.b.Items.Get(id)
	fn, _ := v.b.Items.Fn(id)
	if item == nil || fn == nil || item.Sem.Phase >= phaseBody {
		return
	}
	ms := v.resolveFn(id, nil)
	item.Sem.Phase = phaseBody
	if ms == nil {
		return
	}
	restore := v.at(item.Sem.Frame, nil)
	defer restore()

	sig := v.m.Types.Function(v.m.TypeOf(ms))
	if sig == nil {
		return
	}
	req, opt := 0, 0
	for i := range fn.Params {
		p := &fn.Params[i]
		var t model.TypeID
		switch {
		case p.Rest:
			t = sig.Rest
		case p.Default.IsValid():
			t = sig.Optional[opt]
			opt++
		default:
			t = sig.Params[req]
			req++
		}
		slot := &model.VariableSlot{Name: p.Name, Owner: ms, Type: model.Resolved(t)}
		p.Sem.Slot = slot
		v.declare(p.Name, slot, p.Span)
		if p.Default.IsValid() {
			v.valueAs(p.Default, t)
		}
	}
	if !fn.Body.IsValid() && !fn.ExprBody.IsValid() {
		return
	}

	act := &activation{slot: ms, result: sig.Result}
	pop := v.push(act)
	defer pop()
	if fn.ExprBody.IsValid() {
		switch sig.Result {
		case v.m.Builtins.Void, v.m.Builtins.Any:
			v.value(fn.ExprBody, model.NoType)
		default:
			v.verifyReturn(v.spanOf(fn.ExprBody), fn.ExprBody)
		}
		return
	}
	body := v.b.Stmts.Get(fn.Body)
	if block, ok := v.b.Stmts.Block(fn.Body); ok {
		body.Sem.Frame = item.Sem.Frame
		v.runLocalPhases(block.Stmts)
	} else {
		v.runLocalPhases([]ast.StmtID{fn.Body})
	}

	if !fn.Result.IsValid() || sig.Result == v.m.Builtins.Any {
		return
	}
	if ms.Flags.Has(model.MethodUsesYield) {
		if _, ok := v.m.GeneratorElem(sig.Result); !ok {
			v.incompatible(item.NameSpan, v.m.GeneratorOf(v.m.Builtins.Any), sig.Result)
		}
	} else if ms.Flags.Has(model.MethodUsesAwait) {
		if _, ok := v.m.PromiseElem(sig.Result); !ok {
			v.incompatible(item.NameSpan, v.m.PromiseOf(v.m.Builtins.Any), sig.Result)
		}
	}
}

// walkStmts visits id and, while fn returns true, its nested statements.
// Nested function bodies are not entered.
func (v *Verifier) walkStmts(id ast.StmtID, fn func(ast.StmtID) bool) {
	st := v.b.Stmts.Get(id)
	if st == nil || !fn(id) {
		return
	}
	walk := func(ids ...ast.StmtID) {
		for _, c := range ids {
			if c.IsValid() {
				v.walkStmts(c, fn)
			}
		}
	}
	switch st.Kind {
	case ast.StmtBlock:
		b, _ := v.b.Stmts.Block(id)
		walk(b.Stmts...)
	case ast.StmtIf:
		s, _ := v.b.Stmts.If(id)
		walk(s.Then, s.Else)
	case ast.StmtWhile, ast.StmtDoWhile:
		s, _ := v.b.Stmts.While(id)
		walk(s.Body)
	case ast.StmtFor:
		s, _ := v.b.Stmts.For(id)
		walk(s.Init, s.Body)
	case ast.StmtForIn:
		s, _ := v.b.Stmts.ForIn(id)
		walk(s.Body)
	case ast.StmtTry:
		s, _ := v.b.Stmts.Try(id)
		walk(s.Body, s.Finally)
		for _, c := range s.Catches {
			walk(c.Body)
		}
	case ast.StmtWith:
		s, _ := v.b.Stmts.With(id)
		walk(s.Body)
	case ast.StmtLabeled:
		s, _ := v.b.Stmts.LabeledData(id)
		walk(s.Body)
	}
}
