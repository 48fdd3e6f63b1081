package verifier

import (
	"ripple/internal/ast"
	"ripple/internal/trace"
)

const (
	phaseDeclare   uint8 = 1
	phaseSignature uint8 = 2
	phaseContract  uint8 = 3
	phaseBody      uint8 = 7
)

// phase opens a trace span for one phase of group under the run span.
func (v *Verifier) phase(group, name string) func() {
	if !v.tracer.Level().ShouldEmit(trace.ScopePhase) {
		return func() {}
	}
	span := trace.Begin(v.tracer, trace.ScopePhase, group+"/"+name, v.rootSpan)
	return func() { span.End("") }
}

// runPhases drives every phase over regions, finishing one phase on all
// regions before the next starts.
func (v *Verifier) runPhases(group string, regions []region) {
	if len(regions) == 0 {
		return
	}
	each := func(name string, fn func(stmts []ast.StmtID)) {
		done := v.phase(group, name)
		defer done()
		for _, r := range regions {
			restore := v.enterRegion(r)
			fn(r.stmts)
			restore()
		}
	}

	each("declare", v.declareStmts)
	func() {
		done := v.phase(group, "directives")
		defer done()
		v.resolveDirectives()
	}()
	each("signatures", v.resolveStmts)
	each("contracts", v.checkStmts)
	// phases 4 and 5 have no work in this front end
	each("bodies", v.verifyStmts)
}

func (v *Verifier) enterRegion(r region) func() {
	prevFrame, prevUnit := v.frame, v.unit
	v.frame, v.unit = r.frame, r.unit
	return func() { v.frame, v.unit = prevFrame, prevUnit }
}

// runLocalPhases runs every phase over a nested statement list (a block
// or function body) in the current frame.
func (v *Verifier) runLocalPhases(stmts []ast.StmtID) {
	v.declareStmts(stmts)
	v.resolveDirectives()
	v.resolveStmts(stmts)
	v.checkStmts(stmts)
	v.verifyStmts(stmts)
}

// forIncludes visits stmt's included program with the included unit
// active, or returns false when stmt is not an include.
func (v *Verifier) forIncludes(id ast.StmtID, fn func(stmts []ast.StmtID)) bool {
	inc, ok := v.b.Stmts.Include(id)
	if !ok {
		return false
	}
	file := v.b.Files.Get(inc.File)
	if file == nil {
		return true
	}
	unit := v.unit
	if unit != nil {
		unit = v.includeUnit(id, unit)
	}
	prev := v.unit
	v.unit = unit
	fn(file.Stmts)
	v.unit = prev
	return true
}

