package model

import (
	"github.com/hashicorp/go-set/v3"
)

// UnionInfo holds flattened, duplicate-free members in first-seen order.
type UnionInfo struct {
	Members []TypeID
}

// InternUnion canonicalises a union. Nested unions are flattened and
// duplicates dropped; member order does not matter for identity. A union
// containing Any is Any, a single member collapses to itself and an empty
// union is Void.
func (in *Interner) InternUnion(members []TypeID) TypeID {
	seen := set.New[TypeID](len(members))
	flat := make([]TypeID, 0, len(members))
	push := func(m TypeID) bool {
		switch in.Kind(m) {
		case KindInvalid, KindVoid:
			return true
		case KindAny:
			return false
		}
		if seen.Insert(m) {
			flat = append(flat, m)
		}
		return true
	}
	for _, m := range members {
		if u := in.Union(m); u != nil {
			for _, inner := range u.Members {
				if !push(inner) {
					return in.anyType
				}
			}
			continue
		}
		if !push(m) {
			return in.anyType
		}
	}

	switch len(flat) {
	case 0:
		return in.voidType
	case 1:
		return flat[0]
	}

	bucket := len(flat)
candidates:
	for _, id := range in.unionBuckets[bucket] {
		for _, m := range in.unions[in.types[id].Payload].Members {
			if !seen.Contains(m) {
				continue candidates
			}
		}
		return id
	}
	in.unions = append(in.unions, UnionInfo{Members: flat})
	id := in.add(Type{Kind: KindUnion, Payload: slot(len(in.unions) - 1)})
	in.unionBuckets[bucket] = append(in.unionBuckets[bucket], id)
	return id
}

func (in *Interner) Union(id TypeID) *UnionInfo {
	if p, ok := in.payload(id, KindUnion); ok {
		return &in.unions[p]
	}
	return nil
}

// Members returns the union members of id, or id itself for non-unions.
func (in *Interner) Members(id TypeID) []TypeID {
	if u := in.Union(id); u != nil {
		return u.Members
	}
	return []TypeID{id}
}
