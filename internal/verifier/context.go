package verifier

import (
	"ripple/internal/ast"
	"ripple/internal/diag"
	"ripple/internal/model"
	"ripple/internal/source"
)

// region is a statement list verified under one frame and reported to
// one unit: a package definition or a program's top level.
type region struct {
	frame model.FrameID
	unit  *diag.Unit
	stmts []ast.StmtID
}

// activation tracks the function body being verified.
type activation struct {
	slot   *model.MethodSlot
	result model.TypeID
	loops  int
	labels []label
}

// label is an enclosing labelled statement; only loop labels accept
// continue.
type label struct {
	name string
	loop bool
}

// enter makes id the current frame, linking it to the current frame on
// first entry. The returned func restores the previous frame.
func (v *Verifier) enter(id model.FrameID) func() {
	prev := v.frame
	v.m.Frames.Claim(id, prev)
	v.frame = id
	return func() { v.frame = prev }
}

// at switches to an already linked frame and unit, for work done out of
// lexical order such as lazy resolution and directive retries.
func (v *Verifier) at(frame model.FrameID, unit *diag.Unit) func() {
	prevFrame, prevUnit := v.frame, v.unit
	v.frame = frame
	if unit != nil {
		v.unit = unit
	}
	return func() {
		v.frame = prevFrame
		v.unit = prevUnit
	}
}

func (v *Verifier) newFrame(kind model.FrameKind, owner model.Symbol, props *model.Properties) model.FrameID {
	return v.m.Frames.New(kind, owner, props)
}

func (v *Verifier) curFrame() *model.Frame {
	return v.m.Frames.Get(v.frame)
}

func (v *Verifier) push(act *activation) func() {
	v.acts = append(v.acts, act)
	return func() { v.acts = v.acts[:len(v.acts)-1] }
}

func (v *Verifier) act() *activation {
	if len(v.acts) == 0 {
		return nil
	}
	return v.acts[len(v.acts)-1]
}

// owner returns the declaration parent for symbols declared in the
// current frame: the enclosing package, namespace or type.
func (v *Verifier) owner() model.Symbol {
	for cur := v.frame; cur != model.NoFrame; cur = v.m.Frames.Parent(cur) {
		fr := v.m.Frames.Get(cur)
		switch fr.Kind {
		case model.FramePackage, model.FrameNamespace, model.FrameClass, model.FrameInterface, model.FrameEnum:
			return fr.Owner
		case model.FrameActivation:
			if fr.Method != nil {
				return fr.Method
			}
		}
	}
	return v.m.Global
}

func (v *Verifier) report(code diag.Code, sp source.Span, args diag.Args) {
	if v.unit == nil {
		return
	}
	v.unit.Report(code, diag.SevVerifyError, sp, args, nil)
}

func (v *Verifier) warn(code diag.Code, sp source.Span, args diag.Args) {
	if v.unit == nil {
		return
	}
	v.unit.Report(code, diag.SevWarning, sp, args, nil)
}

func (v *Verifier) label(t model.TypeID) string {
	return v.m.TypeLabel(t)
}

func (v *Verifier) incompatible(sp source.Span, expected, got model.TypeID) {
	v.report(diag.VerifyIncompatibleTypes, sp, diag.Args{"expected": v.label(expected), "got": v.label(got)})
}
