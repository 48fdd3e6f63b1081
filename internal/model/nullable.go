package model

// IncludesNull reports whether null is a value of t. Any includes it.
func (m *Model) IncludesNull(t TypeID) bool {
	return m.includes(t, KindNull)
}

// IncludesUndefined reports whether undefined is a value of t.
func (m *Model) IncludesUndefined(t TypeID) bool {
	return m.includes(t, KindUndefined)
}

func (m *Model) includes(t TypeID, k Kind) bool {
	in := m.Types
	switch in.Kind(t) {
	case KindAny:
		return true
	case k:
		return true
	case KindUnion:
		for _, mem := range in.Union(t).Members {
			if in.Kind(mem) == k {
				return true
			}
		}
	}
	return false
}

// ToNullableType returns t | Null. It is idempotent and Any stays Any.
func (m *Model) ToNullableType(t TypeID) TypeID {
	if m.IncludesNull(t) {
		return t
	}
	return m.Types.InternUnion([]TypeID{t, m.Builtins.Null})
}

// ToNonNullableType removes Null and Undefined from t. When nothing would
// remain, t is returned unchanged.
func (m *Model) ToNonNullableType(t TypeID) TypeID {
	in := m.Types
	switch in.Kind(t) {
	case KindNull, KindUndefined:
		return t
	case KindUnion:
	default:
		return t
	}
	members := in.Union(t).Members
	kept := make([]TypeID, 0, len(members))
	for _, mem := range members {
		switch in.Kind(mem) {
		case KindNull, KindUndefined:
			continue
		}
		kept = append(kept, mem)
	}
	if len(kept) == 0 {
		return t
	}
	return in.InternUnion(kept)
}

// IsNullable reports whether t admits null or undefined.
func (m *Model) IsNullable(t TypeID) bool {
	return m.IncludesNull(t) || m.IncludesUndefined(t)
}
