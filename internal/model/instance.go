package model

import "slices"

// InstanceInfo is a generic type applied to arguments. Members of the
// origin are specialised on first access and cached here.
type InstanceInfo struct {
	Origin TypeID
	Args   []TypeID

	members map[string]Symbol
}

// InternInstance returns the canonical Origin<Args...> type, bucketed by
// origin.
func (in *Interner) InternInstance(origin TypeID, args []TypeID) TypeID {
	for _, id := range in.instanceBuckets[origin] {
		if slices.Equal(in.instances[in.types[id].Payload].Args, args) {
			return id
		}
	}
	in.instances = append(in.instances, &InstanceInfo{
		Origin:  origin,
		Args:    cloneIDs(args),
		members: make(map[string]Symbol),
	})
	id := in.add(Type{Kind: KindInstance, Payload: slot(len(in.instances) - 1)})
	in.instanceBuckets[origin] = append(in.instanceBuckets[origin], id)
	return id
}

func (in *Interner) Instance(id TypeID) *InstanceInfo {
	if p, ok := in.payload(id, KindInstance); ok {
		return in.instances[p]
	}
	return nil
}

// OriginOf returns the generic origin of an instance type, or id itself.
func (in *Interner) OriginOf(id TypeID) TypeID {
	if inst := in.Instance(id); inst != nil {
		return inst.Origin
	}
	return id
}

// ArgsOf returns the type arguments of an instance type.
func (in *Interner) ArgsOf(id TypeID) []TypeID {
	if inst := in.Instance(id); inst != nil {
		return inst.Args
	}
	return nil
}
