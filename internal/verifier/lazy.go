package verifier

import (
	"ripple/internal/model"
)

// resolveLazily is installed as the model's lazy resolver. It resolves
// the declaration behind a slot whose type is read before the phase that
// would normally settle it. A variable caught in its own initialiser
// becomes Any.
func (v *Verifier) resolveLazily(sym model.Symbol) {
	switch s := sym.(type) {
	case *model.VirtualSlot:
		o := s.Origin()
		if o.Getter != nil {
			v.resolveLazily(o.Getter)
		}
		if o.Setter != nil {
			v.resolveLazily(o.Setter)
		}
	case *model.MethodSlot:
		d := v.lazy[s.Origin()]
		if d == nil {
			return
		}
		restore := v.at(d.frame, d.unit)
		defer restore()
		v.resolveFn(d.item, nil)
	case *model.VariableSlot:
		o := s.Origin()
		if d := v.lazy[o]; d != nil && !v.inFlight[d.item] {
			restore := v.at(d.frame, d.unit)
			pop := v.push(&activation{})
			v.typeVar(d.item)
			pop()
			restore()
		}
		if !o.Type.Ready() {
			o.Type.Set(v.m.Builtins.Any)
		}
	}
}
