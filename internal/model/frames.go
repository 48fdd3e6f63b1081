package model

import (
	"fmt"

	"fortio.org/safecast"
)

// FrameID is an arena handle for a lexical frame.
type FrameID uint32

const NoFrame FrameID = 0

type FrameKind uint8

const (
	FramePackage FrameKind = iota + 1
	FrameNamespace
	FrameClass
	FrameInterface
	FrameEnum
	FrameActivation
	FrameBlock
	FrameWith
)

func (k FrameKind) String() string {
	switch k {
	case FramePackage:
		return "package"
	case FrameNamespace:
		return "namespace"
	case FrameClass:
		return "class"
	case FrameInterface:
		return "interface"
	case FrameEnum:
		return "enum"
	case FrameActivation:
		return "activation"
	case FrameBlock:
		return "block"
	case FrameWith:
		return "with"
	}
	return "unknown"
}

// Frame is one lexical scope. Props holds locally declared names; for
// package and namespace frames it is the owner's own member table. Open
// lists namespaces and packages made visible by "use namespace" and
// wildcard imports.
type Frame struct {
	Kind  FrameKind
	Owner Symbol
	Props *Properties
	Open  []Symbol
	// This is the receiver type of an activation; NoType for static code.
	This   TypeID
	Method *MethodSlot
	// With is the object value whose members a with-frame exposes.
	With Symbol

	parent  FrameID
	claimed bool
}

// OpenSymbol adds sym to the open set once.
func (f *Frame) OpenSymbol(sym Symbol) {
	for _, o := range f.Open {
		if o == sym {
			return
		}
	}
	f.Open = append(f.Open, sym)
}

type Frames struct {
	items []*Frame
}

func NewFrames() *Frames {
	return &Frames{items: make([]*Frame, 1, 64)}
}

func (fs *Frames) New(kind FrameKind, owner Symbol, props *Properties) FrameID {
	if props == nil {
		props = NewProperties()
	}
	fs.items = append(fs.items, &Frame{Kind: kind, Owner: owner, Props: props})
	id, err := safecast.Conv[uint32](len(fs.items) - 1)
	if err != nil {
		panic(fmt.Errorf("frame arena overflow: %w", err))
	}
	return FrameID(id)
}

func (fs *Frames) Get(id FrameID) *Frame {
	if id == NoFrame || int(id) >= len(fs.items) {
		return nil
	}
	return fs.items[id]
}

func (fs *Frames) Parent(id FrameID) FrameID {
	if f := fs.Get(id); f != nil {
		return f.parent
	}
	return NoFrame
}

// Claim links id to parent on first entry. Later calls leave the link
// untouched; the effective parent is returned either way.
func (fs *Frames) Claim(id, parent FrameID) FrameID {
	f := fs.Get(id)
	if f == nil {
		panic(fmt.Sprintf("model: claim of unknown frame %d", id))
	}
	if !f.claimed {
		f.parent = parent
		f.claimed = true
	}
	return f.parent
}

func (fs *Frames) Claimed(id FrameID) bool {
	f := fs.Get(id)
	return f != nil && f.claimed
}

// Enclosing walks from id outwards and returns the first frame of kind.
func (fs *Frames) Enclosing(id FrameID, kind FrameKind) FrameID {
	for f := id; f != NoFrame; f = fs.Parent(f) {
		if fs.Get(f).Kind == kind {
			return f
		}
	}
	return NoFrame
}
