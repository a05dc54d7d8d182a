package llvm

import (
	"fmt"

	"fortio.org/safecast"
	lltypes "github.com/llir/llvm/ir/types"

	"github.com/stevencartavia/cairo-native/internal/felt"
	"github.com/stevencartavia/cairo-native/internal/layout"
	"github.com/stevencartavia/cairo-native/internal/types"
)

var (
	feltType       = lltypes.NewInt(felt.Bits)
	doubleFeltType = lltypes.NewInt(felt.DoubleBits)
)

// lowerType maps a descriptor to its target LLVM representation.
//
// Simple types are integers of the declared width. Composites are literal
// structs in field order. Variants use the union-wide representation
// {tag, [N x i8]}: an opaque byte region after the tag, sized so that every
// variant's concrete {tag, payload} struct fits; per-variant access goes
// through the store/reload round trip, never through this type's fields.
func (l *Lowerer) lowerType(d *types.Descriptor) (lltypes.Type, error) {
	if d == nil {
		return nil, &layout.TypeBuildError{Kind: layout.TypeBuildErrUnresolved}
	}
	switch d.Kind {
	case types.KindSimple:
		return intType(d.Bits)

	case types.KindComposite:
		fields := make([]lltypes.Type, 0, len(d.Fields))
		for _, f := range d.Fields {
			ft, err := l.lowerType(f)
			if err != nil {
				return nil, err
			}
			fields = append(fields, ft)
		}
		return lltypes.NewStruct(fields...), nil

	case types.KindVariant:
		vl, err := l.layouts.ForVariants(d.Fields)
		if err != nil {
			return nil, err
		}
		return uniformVariantType(vl)

	default:
		return nil, &layout.TypeBuildError{Kind: layout.TypeBuildErrUnknownKind, Desc: d}
	}
}

// uniformVariantType builds the union-wide {tag, bytes} representation for
// a computed variant layout.
func uniformVariantType(vl layout.VariantLayout) (lltypes.Type, error) {
	tagTy, err := intType(vl.TagBits)
	if err != nil {
		return nil, err
	}
	tagBytes := (vl.TagBits + 7) / 8
	n, err := safecast.Conv[uint64](vl.Size - tagBytes)
	if err != nil {
		return nil, fmt.Errorf("variant byte region: %w", err)
	}
	return lltypes.NewStruct(tagTy, lltypes.NewArray(n, lltypes.I8)), nil
}

// concreteVariantType is the narrow two-field view used to embed or extract
// one specific variant: {tag, that variant's own payload type}.
func concreteVariantType(tagTy lltypes.Type, payloadTy lltypes.Type) *lltypes.StructType {
	return lltypes.NewStruct(tagTy, payloadTy)
}

func intType(bitWidth int) (*lltypes.IntType, error) {
	n, err := safecast.Conv[uint64](bitWidth)
	if err != nil || n == 0 {
		return nil, fmt.Errorf("invalid integer width %d", bitWidth)
	}
	return lltypes.NewInt(n), nil
}

// returnType folds one or more return descriptors into a single LLVM return
// type: the type itself for one value, a literal struct for several (the
// sequencer unpacks it by position).
func (l *Lowerer) returnType(descs []*types.Descriptor) (lltypes.Type, error) {
	switch len(descs) {
	case 0:
		return lltypes.Void, nil
	case 1:
		return l.lowerType(descs[0])
	default:
		fields := make([]lltypes.Type, 0, len(descs))
		for _, d := range descs {
			ft, err := l.lowerType(d)
			if err != nil {
				return nil, err
			}
			fields = append(fields, ft)
		}
		return lltypes.NewStruct(fields...), nil
	}
}
