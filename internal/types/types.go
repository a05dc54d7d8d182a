// Package types defines the concrete type descriptors the lowering pass
// operates on, and the registry mapping Sierra type ids to them.
package types

import (
	"fmt"
	"strings"
)

// Kind discriminates the Descriptor union.
type Kind uint8

const (
	// KindSimple is a primitive scalar: an unsigned integer or a felt.
	KindSimple Kind = iota + 1
	// KindComposite is an ordered product of field descriptors.
	KindComposite
	// KindVariant is an ordered tagged union of payload descriptors.
	KindVariant
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindSimple:
		return "simple"
	case KindComposite:
		return "composite"
	case KindVariant:
		return "variant"
	default:
		return "unknown"
	}
}

// Descriptor describes the shape of one concrete type. A Composite/Variant
// descriptor owns its field list; field order is semantically significant
// (struct field order, enum variant index order) and is never reordered.
type Descriptor struct {
	Kind Kind

	// Simple only.
	Bits int  // bit width
	Felt bool // field element, arithmetic modulo the Cairo prime

	// Composite fields or Variant payloads, in declaration order. Non-empty.
	Fields []*Descriptor
}

// Uint returns a Simple descriptor for an unsigned integer of the given width.
func Uint(bits int) *Descriptor {
	if bits <= 0 {
		panic(fmt.Sprintf("types: invalid integer width %d", bits))
	}
	return &Descriptor{Kind: KindSimple, Bits: bits}
}

// FeltType returns the Simple descriptor for a Cairo field element.
func FeltType(bits int) *Descriptor {
	return &Descriptor{Kind: KindSimple, Bits: bits, Felt: true}
}

// Composite returns a product descriptor over the given fields.
func Composite(fields ...*Descriptor) *Descriptor {
	if len(fields) == 0 {
		panic("types: composite descriptor needs at least one field")
	}
	return &Descriptor{Kind: KindComposite, Fields: fields}
}

// Variant returns a tagged-union descriptor over the given payloads.
func Variant(payloads ...*Descriptor) *Descriptor {
	if len(payloads) == 0 {
		panic("types: variant descriptor needs at least one payload")
	}
	return &Descriptor{Kind: KindVariant, Fields: payloads}
}

// String renders the descriptor for diagnostics.
func (d *Descriptor) String() string {
	if d == nil {
		return "<nil>"
	}
	switch d.Kind {
	case KindSimple:
		if d.Felt {
			return fmt.Sprintf("felt%d", d.Bits)
		}
		return fmt.Sprintf("u%d", d.Bits)
	case KindComposite:
		return "struct" + fieldList(d.Fields)
	case KindVariant:
		return "enum" + fieldList(d.Fields)
	default:
		return "unknown"
	}
}

func fieldList(fields []*Descriptor) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.String())
	}
	return "<" + strings.Join(parts, ", ") + ">"
}
