package model

import (
	"fmt"

	"fortio.org/safecast"
)

// Interner stores every type of one Model. Nominal types (classes,
// interfaces, enums, type parameters) get a fresh TypeID per declaration;
// structural types are canonicalised through per-kind buckets keyed by a
// cheap discriminator and compared element-wise inside the bucket.
type Interner struct {
	types []Type

	classes   []*ClassInfo
	ifaces    []*InterfaceInfo
	enums     []*EnumInfo
	params    []*TypeParamInfo
	records   []RecordInfo
	tuples    []TupleInfo
	unions    []UnionInfo
	fns       []FnInfo
	instances []*InstanceInfo

	recordBuckets   map[int][]TypeID
	tupleBuckets    map[int][]TypeID
	unionBuckets    map[int][]TypeID
	fnBuckets       map[int][]TypeID
	instanceBuckets map[TypeID][]TypeID

	anyType, voidType, undefinedType, nullType TypeID
}

func NewInterner() *Interner {
	in := &Interner{
		types:           make([]Type, 1, 128), // 0 is NoType
		classes:         make([]*ClassInfo, 1, 32),
		ifaces:          make([]*InterfaceInfo, 1, 8),
		enums:           make([]*EnumInfo, 1, 8),
		params:          make([]*TypeParamInfo, 1, 8),
		records:         make([]RecordInfo, 1, 8),
		tuples:          make([]TupleInfo, 1, 8),
		unions:          make([]UnionInfo, 1, 16),
		fns:             make([]FnInfo, 1, 32),
		instances:       make([]*InstanceInfo, 1, 16),
		recordBuckets:   make(map[int][]TypeID),
		tupleBuckets:    make(map[int][]TypeID),
		unionBuckets:    make(map[int][]TypeID),
		fnBuckets:       make(map[int][]TypeID),
		instanceBuckets: make(map[TypeID][]TypeID),
	}
	in.anyType = in.add(Type{Kind: KindAny})
	in.voidType = in.add(Type{Kind: KindVoid})
	in.undefinedType = in.add(Type{Kind: KindUndefined})
	in.nullType = in.add(Type{Kind: KindNull})
	return in
}

func (in *Interner) Any() TypeID       { return in.anyType }
func (in *Interner) Void() TypeID      { return in.voidType }
func (in *Interner) Undefined() TypeID { return in.undefinedType }
func (in *Interner) Null() TypeID      { return in.nullType }

// Len is the number of allocated TypeIDs including the NoType sentinel.
func (in *Interner) Len() int { return len(in.types) }

func (in *Interner) add(t Type) TypeID {
	id, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	in.types = append(in.types, t)
	return TypeID(id)
}

func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoType || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

func (in *Interner) MustLookup(id TypeID) Type {
	t, ok := in.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("model: invalid TypeID %d", id))
	}
	return t
}

// Kind returns KindInvalid for unknown ids.
func (in *Interner) Kind(id TypeID) Kind {
	t, _ := in.Lookup(id)
	return t.Kind
}

func slot(n int) uint32 {
	s, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("info table overflow: %w", err))
	}
	return s
}

func (in *Interner) payload(id TypeID, kind Kind) (uint32, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != kind || t.Payload == 0 {
		return 0, false
	}
	return t.Payload, true
}

func cloneIDs(ids []TypeID) []TypeID {
	if len(ids) == 0 {
		return nil
	}
	out := make([]TypeID, len(ids))
	copy(out, ids)
	return out
}
