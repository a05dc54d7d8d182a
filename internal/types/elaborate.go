package types

import (
	"fmt"

	"github.com/stevencartavia/cairo-native/internal/felt"
	"github.com/stevencartavia/cairo-native/internal/sierra"
)

// Elaborate builds a Registry from the program's type declarations. Sierra
// declares types in dependency order, so every field/payload reference
// resolves against already-registered entries. Unknown generic type ids are
// skipped; a later declaration referencing one fails with UnresolvedError.
func Elaborate(prog *sierra.Program) (*Registry, error) {
	reg := NewRegistry()
	if prog == nil {
		return reg, nil
	}
	for i := range prog.Types {
		decl := &prog.Types[i]
		desc, ok, err := elaborateDecl(reg, decl)
		if err != nil {
			return nil, fmt.Errorf("elaborate type %q (%s): %w", decl.ID, decl.GenericID, err)
		}
		if !ok {
			continue
		}
		reg.Register(decl.ID, desc)
	}
	return reg, nil
}

func elaborateDecl(reg *Registry, decl *sierra.TypeDeclaration) (*Descriptor, bool, error) {
	switch decl.GenericID {
	case "felt252":
		return FeltType(felt.Bits), true, nil
	case "u8":
		return Uint(8), true, nil
	case "u16":
		return Uint(16), true, nil
	case "u32":
		return Uint(32), true, nil
	case "u64":
		return Uint(64), true, nil
	case "u128":
		return Uint(128), true, nil
	case "Struct":
		fields, err := referencedTypes(reg, decl.Args)
		if err != nil {
			return nil, false, err
		}
		if len(fields) == 0 {
			return nil, false, fmt.Errorf("struct declaration has no field types")
		}
		return Composite(fields...), true, nil
	case "Enum":
		payloads, err := referencedTypes(reg, decl.Args)
		if err != nil {
			return nil, false, err
		}
		if len(payloads) == 0 {
			return nil, false, fmt.Errorf("enum declaration has no variant types")
		}
		return Variant(payloads...), true, nil
	default:
		return nil, false, nil
	}
}

// referencedTypes resolves the type-reference generic arguments in order,
// ignoring user-type name arguments that precede them.
func referencedTypes(reg *Registry, args []sierra.GenericArg) ([]*Descriptor, error) {
	var out []*Descriptor
	for _, a := range args {
		if a.Kind != sierra.ArgType {
			continue
		}
		d, err := reg.Resolve(a.Type)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
