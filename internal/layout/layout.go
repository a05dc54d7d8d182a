// Package layout computes the in-memory shape of lowered types: size,
// alignment, and for tagged unions the shared discriminant and per-variant
// payload placement.
package layout

import (
	"github.com/stevencartavia/cairo-native/internal/types"
)

// TypeLayout is the size/alignment of one lowered type.
type TypeLayout struct {
	Size  int
	Align int
}

// PayloadLayout pairs a variant's payload descriptor with its computed size.
type PayloadLayout struct {
	Desc *types.Descriptor
	Size int
}

// VariantLayout is the union-wide shape of a variant set. It is derived
// fresh per lowering of a variant operation; the computation is a
// deterministic function of the variant descriptors.
type VariantLayout struct {
	Size  int
	Align int

	// TagBits is the discriminant width: the smallest unsigned integer
	// width representing len(variants)-1, minimum 1 bit.
	TagBits int
	// Tag is the discriminant descriptor.
	Tag *types.Descriptor
	// PayloadOffset is where every variant's payload starts, relative to
	// the start of the union-wide buffer.
	PayloadOffset int
	// Payloads holds one entry per variant, in declaration order.
	Payloads []PayloadLayout
}

// Engine computes and caches type layouts.
type Engine struct {
	cache map[*types.Descriptor]TypeLayout
}

// NewEngine creates a new layout engine.
func NewEngine() *Engine {
	return &Engine{cache: make(map[*types.Descriptor]TypeLayout, 64)}
}

// LayoutOf computes and caches the layout of a descriptor.
func (e *Engine) LayoutOf(d *types.Descriptor) (TypeLayout, error) {
	if e == nil {
		return computeLayout(nil, d)
	}
	if e.cache == nil {
		e.cache = make(map[*types.Descriptor]TypeLayout, 64)
	}
	if l, ok := e.cache[d]; ok {
		return l, nil
	}
	l, err := computeLayout(e.cache, d)
	if err != nil {
		return l, err
	}
	e.cache[d] = l
	return l, nil
}

// SizeOf returns the size of a descriptor in bytes.
func (e *Engine) SizeOf(d *types.Descriptor) (int, error) {
	l, err := e.LayoutOf(d)
	return l.Size, err
}

// AlignOf returns the alignment requirement of a descriptor in bytes.
func (e *Engine) AlignOf(d *types.Descriptor) (int, error) {
	l, err := e.LayoutOf(d)
	return l.Align, err
}
