package model

import (
	"errors"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// ErrDuplicateDefinition is returned by Declare when the name is taken.
var ErrDuplicateDefinition = errors.New("duplicate definition")

// Properties is an insertion-ordered name to Symbol table, used for scopes
// and member tables alike.
type Properties struct {
	m *linkedhashmap.Map
}

func NewProperties() *Properties {
	return &Properties{m: linkedhashmap.New()}
}

func (p *Properties) Get(name string) (Symbol, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p.m.Get(name)
	if !ok {
		return nil, false
	}
	return v.(Symbol), true
}

func (p *Properties) Has(name string) bool {
	_, ok := p.Get(name)
	return ok
}

// Set inserts or replaces; a replaced entry keeps its position.
func (p *Properties) Set(name string, sym Symbol) {
	p.m.Put(name, sym)
}

// Declare inserts sym unless name is taken. With shadow set an existing
// entry is replaced instead.
func (p *Properties) Declare(name string, sym Symbol, shadow bool) error {
	if _, ok := p.m.Get(name); ok && !shadow {
		return ErrDuplicateDefinition
	}
	p.m.Put(name, sym)
	return nil
}

func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return p.m.Size()
}

// Names returns the keys in insertion order.
func (p *Properties) Names() []string {
	if p == nil {
		return nil
	}
	keys := p.m.Keys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.(string)
	}
	return out
}

// Each visits entries in insertion order.
func (p *Properties) Each(fn func(name string, sym Symbol)) {
	if p == nil {
		return
	}
	p.m.Each(func(k, v interface{}) {
		fn(k.(string), v.(Symbol))
	})
}
