package layout

import (
	"math/bits"

	"fortio.org/safecast"

	"github.com/stevencartavia/cairo-native/internal/types"
)

// maxScalarAlign caps scalar alignment: wide integers (u128, felt252) are
// stored 8-aligned in the target ABI.
const maxScalarAlign = 8

func computeLayout(cache map[*types.Descriptor]TypeLayout, d *types.Descriptor) (TypeLayout, error) {
	if d == nil {
		return TypeLayout{Size: 0, Align: 1}, &TypeBuildError{Kind: TypeBuildErrUnresolved}
	}

	switch d.Kind {
	case types.KindSimple:
		return scalarLayoutBits(d.Bits), nil

	case types.KindComposite:
		if len(d.Fields) == 0 {
			return TypeLayout{Size: 0, Align: 1}, &TypeBuildError{Kind: TypeBuildErrEmpty, Desc: d}
		}
		size := 0
		align := 1
		for _, f := range d.Fields {
			fl, err := cachedLayout(cache, f)
			if err != nil {
				return TypeLayout{Size: 0, Align: 1}, err
			}
			fAlign := fl.Align
			if fAlign <= 0 {
				fAlign = 1
			}
			size = roundUp(size, fAlign)
			size += fl.Size
			align = maxInt(align, fAlign)
		}
		size = roundUp(size, align)
		return TypeLayout{Size: size, Align: align}, nil

	case types.KindVariant:
		vl, err := variantLayout(cache, d.Fields)
		if err != nil {
			return TypeLayout{Size: 0, Align: 1}, err
		}
		return TypeLayout{Size: vl.Size, Align: vl.Align}, nil

	default:
		return TypeLayout{Size: 0, Align: 1}, &TypeBuildError{Kind: TypeBuildErrUnknownKind, Desc: d}
	}
}

func cachedLayout(cache map[*types.Descriptor]TypeLayout, d *types.Descriptor) (TypeLayout, error) {
	if cache != nil {
		if l, ok := cache[d]; ok {
			return l, nil
		}
	}
	l, err := computeLayout(cache, d)
	if err != nil {
		return l, err
	}
	if cache != nil {
		cache[d] = l
	}
	return l, nil
}

// ForVariants computes the union-wide layout of a variant set. The engine
// cache covers the per-variant payload folds; the VariantLayout itself is
// recomputed on every call.
func (e *Engine) ForVariants(variants []*types.Descriptor) (VariantLayout, error) {
	var cache map[*types.Descriptor]TypeLayout
	if e != nil {
		if e.cache == nil {
			e.cache = make(map[*types.Descriptor]TypeLayout, 64)
		}
		cache = e.cache
	}
	return variantLayout(cache, variants)
}

func variantLayout(cache map[*types.Descriptor]TypeLayout, variants []*types.Descriptor) (VariantLayout, error) {
	if len(variants) == 0 {
		return VariantLayout{}, &TypeBuildError{Kind: TypeBuildErrEmpty}
	}

	// The discriminant is the smallest unsigned width covering n-1 tag
	// values. A single variant still gets a 1-bit tag: uniform shape beats
	// special-casing the degenerate union.
	tagBits := tagWidth(len(variants))
	tagLayout := scalarLayoutBits(tagBits)

	payloads := make([]PayloadLayout, 0, len(variants))
	maxPayloadSize := 0
	payloadAlign := 1
	for _, v := range variants {
		if v == nil {
			return VariantLayout{}, &TypeBuildError{Kind: TypeBuildErrUnresolved}
		}
		pl, err := cachedLayout(cache, v)
		if err != nil {
			return VariantLayout{}, err
		}
		payloads = append(payloads, PayloadLayout{Desc: v, Size: pl.Size})
		maxPayloadSize = maxInt(maxPayloadSize, pl.Size)
		payloadAlign = maxInt(payloadAlign, pl.Align)
	}

	align := maxInt(tagLayout.Align, payloadAlign)
	payloadOffset := roundUp(tagLayout.Size, align)
	size := roundUp(payloadOffset+maxPayloadSize, align)

	return VariantLayout{
		Size:          size,
		Align:         align,
		TagBits:       tagBits,
		Tag:           types.Uint(tagBits),
		PayloadOffset: payloadOffset,
		Payloads:      payloads,
	}, nil
}

// tagWidth returns the discriminant width in bits for n variants.
func tagWidth(n int) int {
	u, err := safecast.Conv[uint64](n - 1)
	if err != nil || u == 0 {
		return 1
	}
	return bits.Len64(u)
}

func scalarLayoutBits(b int) TypeLayout {
	if b <= 0 {
		return TypeLayout{Size: 0, Align: 1}
	}
	size := (b + 7) / 8
	align := 1
	for align < size && align < maxScalarAlign {
		align <<= 1
	}
	return TypeLayout{Size: size, Align: align}
}

func roundUp(n, align int) int {
	if align <= 1 {
		return n
	}
	r := n % align
	if r == 0 {
		return n
	}
	return n + (align - r)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
