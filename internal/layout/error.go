package layout

import (
	"fmt"

	"github.com/stevencartavia/cairo-native/internal/types"
)

// TypeBuildErrorKind enumerates types of layout calculation errors.
type TypeBuildErrorKind uint8

const (
	// TypeBuildErrUnresolved indicates a nil field/variant descriptor,
	// i.e. a type missing from the upstream registry.
	TypeBuildErrUnresolved TypeBuildErrorKind = iota + 1
	// TypeBuildErrEmpty indicates a composite/variant with no fields.
	TypeBuildErrEmpty
	// TypeBuildErrUnknownKind indicates a descriptor with an invalid kind tag.
	TypeBuildErrUnknownKind
)

// TypeBuildError represents an error during memory layout calculation.
// Layout failures are fatal to the lowering pass: they indicate a missing
// or malformed upstream type declaration, never a transient condition.
type TypeBuildError struct {
	Kind TypeBuildErrorKind
	Desc *types.Descriptor
}

func (e *TypeBuildError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case TypeBuildErrUnresolved:
		return "layout of unresolved type descriptor"
	case TypeBuildErrEmpty:
		return fmt.Sprintf("layout of %s descriptor with no fields", e.Desc.Kind)
	case TypeBuildErrUnknownKind:
		return fmt.Sprintf("layout of descriptor with unknown kind (%s)", e.Desc)
	default:
		return fmt.Sprintf("layout error kind=%d (%s)", e.Kind, e.Desc)
	}
}
