package model

// PackageOf returns the package a declaration lives in.
func (m *Model) PackageOf(sym Symbol) *Package {
	for guard := 0; sym != nil && guard < aliasDepth; guard++ {
		switch s := sym.(type) {
		case *Package:
			return s
		case *Namespace:
			sym = s.Parent
		case *Alias:
			sym = s.Parent
		case FrameID:
			pf := m.Frames.Enclosing(s, FramePackage)
			if pf == NoFrame {
				return m.Global
			}
			p, _ := m.Frames.Get(pf).Owner.(*Package)
			return p
		case TypeID:
			sym = m.declParent(s)
		default:
			return nil
		}
	}
	return nil
}

func (m *Model) declParent(t TypeID) Symbol {
	in := m.Types
	t = in.OriginOf(t)
	switch in.Kind(t) {
	case KindClass:
		return in.Class(t).Parent
	case KindInterface:
		return in.Interface(t).Parent
	case KindEnum:
		return in.Enum(t).Parent
	case KindTypeParam:
		return in.TypeParam(t).Owner
	}
	return nil
}

// IsAccessible reports whether a member with visibility vis owned by
// owner may be referenced from frame from. Private members are visible
// inside the owner; protected members also inside subclasses; internal
// members inside the owner's package.
func (m *Model) IsAccessible(from FrameID, owner Symbol, vis Visibility) bool {
	switch vis {
	case Public:
		return true
	case Internal:
		return m.PackageOf(from) == m.PackageOf(owner)
	}
	if t, ok := owner.(TypeID); ok {
		owner = m.Types.OriginOf(t)
	}
	for cur := from; cur != NoFrame; cur = m.Frames.Parent(cur) {
		fr := m.Frames.Get(cur)
		if fr.Owner == owner {
			return true
		}
		if vis != Protected {
			continue
		}
		ft, ok := fr.Owner.(TypeID)
		ot, ok2 := owner.(TypeID)
		if ok && ok2 && fr.Kind == FrameClass && m.IsSubtypeOf(ft, ot) {
			return true
		}
	}
	return false
}

// Owner returns the owner recorded on a slot, following references.
func Owner(sym Symbol) Symbol {
	switch s := sym.(type) {
	case *Reference:
		if s.Prop != nil {
			return Owner(s.Prop)
		}
	case *VariableSlot:
		return s.Origin().Owner
	case *MethodSlot:
		return s.Origin().Owner
	case *VirtualSlot:
		return s.Origin().Owner
	}
	return nil
}

// VisibilityOf returns the declared visibility of a slot or declaration.
func (m *Model) VisibilityOf(sym Symbol) Visibility {
	switch s := sym.(type) {
	case *Reference:
		if s.Prop != nil {
			return m.VisibilityOf(s.Prop)
		}
	case *VariableSlot:
		return s.Vis
	case *MethodSlot:
		return s.Vis
	case *VirtualSlot:
		return s.Vis
	case *Namespace:
		return s.Vis
	case *Alias:
		return s.Vis
	case TypeID:
		in := m.Types
		switch in.Kind(s) {
		case KindClass:
			return in.Class(s).Vis
		case KindInterface:
			return in.Interface(s).Vis
		case KindEnum:
			return in.Enum(s).Vis
		}
	}
	return Public
}
