package ast

import "ripple/internal/model"

type Visibility uint8

const (
	VisDefault Visibility = iota
	VisPublic
	VisInternal
	VisProtected
	VisPrivate
)

func (v Visibility) String() string {
	switch v {
	case VisPublic:
		return "public"
	case VisInternal:
		return "internal"
	case VisProtected:
		return "protected"
	case VisPrivate:
		return "private"
	default:
		return ""
	}
}

// ParseVisibility maps a keyword to its visibility; "" is the default.
func ParseVisibility(s string) (Visibility, bool) {
	switch s {
	case "":
		return VisDefault, true
	case "public":
		return VisPublic, true
	case "internal":
		return VisInternal, true
	case "protected":
		return VisProtected, true
	case "private":
		return VisPrivate, true
	}
	return VisDefault, false
}

// Model converts to the model visibility. Declarations are public unless
// marked otherwise.
func (v Visibility) Model() model.Visibility {
	switch v {
	case VisInternal:
		return model.Internal
	case VisProtected:
		return model.Protected
	case VisPrivate:
		return model.Private
	default:
		return model.Public
	}
}

// Modifiers are the declaration keywords other than visibility.
type Modifiers uint16

const (
	ModStatic Modifiers = 1 << iota
	ModOverride
	ModFinal
	ModNative
	ModOptional
	ModDynamic
	ModAbstract
)

var modifierNames = []struct {
	name string
	mod  Modifiers
}{
	{"static", ModStatic},
	{"override", ModOverride},
	{"final", ModFinal},
	{"native", ModNative},
	{"optional", ModOptional},
	{"dynamic", ModDynamic},
	{"abstract", ModAbstract},
}

func (m Modifiers) Has(mod Modifiers) bool { return m&mod != 0 }

// ParseModifier maps a modifier keyword to its flag.
func ParseModifier(s string) (Modifiers, bool) {
	for _, n := range modifierNames {
		if n.name == s {
			return n.mod, true
		}
	}
	return 0, false
}

func (m Modifiers) String() string {
	out := ""
	for _, n := range modifierNames {
		if m.Has(n.mod) {
			if out != "" {
				out += " "
			}
			out += n.name
		}
	}
	return out
}
