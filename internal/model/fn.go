package model

import "slices"

// FnInfo is a function signature. Rest, when set, is the Array type of
// the rest parameter.
type FnInfo struct {
	Params   []TypeID
	Optional []TypeID
	Rest     TypeID
	Result   TypeID
}

func (f *FnInfo) arity() int {
	n := len(f.Params) + len(f.Optional)
	if f.Rest != NoType {
		n++
	}
	return n
}

func (f *FnInfo) equal(o *FnInfo) bool {
	return f.Result == o.Result && f.Rest == o.Rest &&
		slices.Equal(f.Params, o.Params) && slices.Equal(f.Optional, o.Optional)
}

// InternFunction returns the canonical function type for sig, bucketed by
// total parameter count.
func (in *Interner) InternFunction(sig FnInfo) TypeID {
	bucket := sig.arity()
	for _, id := range in.fnBuckets[bucket] {
		if in.fns[in.types[id].Payload].equal(&sig) {
			return id
		}
	}
	in.fns = append(in.fns, FnInfo{
		Params:   cloneIDs(sig.Params),
		Optional: cloneIDs(sig.Optional),
		Rest:     sig.Rest,
		Result:   sig.Result,
	})
	id := in.add(Type{Kind: KindFunction, Payload: slot(len(in.fns) - 1)})
	in.fnBuckets[bucket] = append(in.fnBuckets[bucket], id)
	return id
}

func (in *Interner) Function(id TypeID) *FnInfo {
	if p, ok := in.payload(id, KindFunction); ok {
		return &in.fns[p]
	}
	return nil
}
