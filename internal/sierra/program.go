// Package sierra models the parsed Sierra program surface consumed by the
// lowering pass: concrete type declarations and libfunc declarations with
// their generic arguments.
package sierra

import "math/big"

// TypeID is the stable identifier of a concrete type declaration.
type TypeID string

// DeclID is the unique identifier of a libfunc declaration.
type DeclID uint64

// Program is one compilation unit as handed to the lowering pass.
type Program struct {
	Types    []TypeDeclaration
	Libfuncs []LibfuncDeclaration
}

// TypeDeclaration declares one concrete type instance.
type TypeDeclaration struct {
	ID        TypeID
	GenericID string // "felt252", "u8", "Struct", "Enum", ...
	Args      []GenericArg
	DebugName string
}

// LibfuncDeclaration declares one invocation instance of a generic library
// function. Immutable once decoded.
type LibfuncDeclaration struct {
	ID        DeclID
	GenericID string
	Args      []GenericArg
	DebugName string
}

// GenericArgKind discriminates the GenericArg union.
type GenericArgKind uint8

const (
	// ArgValue is a literal integer argument.
	ArgValue GenericArgKind = iota + 1
	// ArgType references a concrete type declaration.
	ArgType
	// ArgUserFunc references a user-defined function.
	ArgUserFunc
	// ArgLibfunc references another libfunc declaration.
	ArgLibfunc
)

// String returns the string representation of GenericArgKind.
func (k GenericArgKind) String() string {
	switch k {
	case ArgValue:
		return "value"
	case ArgType:
		return "type"
	case ArgUserFunc:
		return "user_func"
	case ArgLibfunc:
		return "libfunc"
	default:
		return "unknown"
	}
}

// GenericArg is one generic argument of a declaration: a literal value, a
// type reference, or a function/libfunc reference.
type GenericArg struct {
	Kind  GenericArgKind
	Value *big.Int // ArgValue
	Type  TypeID   // ArgType
	Ref   string   // ArgUserFunc / ArgLibfunc
}

// ValueArg returns the i-th generic argument if it is a literal value.
func (d *LibfuncDeclaration) ValueArg(i int) (*big.Int, bool) {
	if d == nil || i < 0 || i >= len(d.Args) || d.Args[i].Kind != ArgValue {
		return nil, false
	}
	return d.Args[i].Value, true
}

// TypeArg returns the i-th generic argument if it is a type reference.
func (d *LibfuncDeclaration) TypeArg(i int) (TypeID, bool) {
	if d == nil || i < 0 || i >= len(d.Args) || d.Args[i].Kind != ArgType {
		return "", false
	}
	return d.Args[i].Type, true
}
