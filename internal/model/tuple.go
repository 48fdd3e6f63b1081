package model

import "slices"

type TupleInfo struct {
	Elems []TypeID
}

func (in *Interner) InternTuple(elems []TypeID) TypeID {
	bucket := len(elems)
	for _, id := range in.tupleBuckets[bucket] {
		if slices.Equal(in.tuples[in.types[id].Payload].Elems, elems) {
			return id
		}
	}
	in.tuples = append(in.tuples, TupleInfo{Elems: cloneIDs(elems)})
	id := in.add(Type{Kind: KindTuple, Payload: slot(len(in.tuples) - 1)})
	in.tupleBuckets[bucket] = append(in.tupleBuckets[bucket], id)
	return id
}

func (in *Interner) Tuple(id TypeID) *TupleInfo {
	if p, ok := in.payload(id, KindTuple); ok {
		return &in.tuples[p]
	}
	return nil
}
