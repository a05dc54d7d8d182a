package llvm

import (
	"errors"
	"fmt"

	"github.com/stevencartavia/cairo-native/internal/layout"
	"github.com/stevencartavia/cairo-native/internal/sierra"
	"github.com/stevencartavia/cairo-native/internal/types"
)

// LowerErrorKind enumerates the fatal failure modes of the lowering pass.
type LowerErrorKind uint8

const (
	// LowerErrInvalidGenericArgs indicates a wrong arity or kind of generic
	// argument, or a narrowing upcast.
	LowerErrInvalidGenericArgs LowerErrorKind = iota + 1
	// LowerErrUnresolvedType indicates a type id absent from the registry.
	LowerErrUnresolvedType
	// LowerErrUnimplemented indicates a recognized but unsupported
	// operation (felt252 division, enum snapshot match).
	LowerErrUnimplemented
	// LowerErrDuplicateSignature indicates a name collision in the
	// signature table. This is an internal invariant violation.
	LowerErrDuplicateSignature
)

// String returns the string representation of LowerErrorKind.
func (k LowerErrorKind) String() string {
	switch k {
	case LowerErrInvalidGenericArgs:
		return "invalid generic args"
	case LowerErrUnresolvedType:
		return "unresolved type"
	case LowerErrUnimplemented:
		return "unimplemented"
	case LowerErrDuplicateSignature:
		return "duplicate signature"
	default:
		return "unknown"
	}
}

// LowerError is a fatal lowering failure. It always identifies the
// offending declaration's generic identity and id; the pass aborts without
// handing a partial module downstream.
type LowerError struct {
	Kind      LowerErrorKind
	GenericID string
	Decl      sierra.DeclID
	Detail    string
	Err       error // wrapped cause, if any
}

func (e *LowerError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: libfunc %q (decl %d)", e.Kind, e.GenericID, e.Decl)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LowerError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func invalidGenericArgs(decl *sierra.LibfuncDeclaration, format string, args ...any) *LowerError {
	return &LowerError{
		Kind:      LowerErrInvalidGenericArgs,
		GenericID: decl.GenericID,
		Decl:      decl.ID,
		Detail:    fmt.Sprintf(format, args...),
	}
}

func unresolvedType(decl *sierra.LibfuncDeclaration, err error) *LowerError {
	return &LowerError{
		Kind:      LowerErrUnresolvedType,
		GenericID: decl.GenericID,
		Decl:      decl.ID,
		Err:       err,
	}
}

func unimplemented(decl *sierra.LibfuncDeclaration, detail string) *LowerError {
	return &LowerError{
		Kind:      LowerErrUnimplemented,
		GenericID: decl.GenericID,
		Decl:      decl.ID,
		Detail:    detail,
	}
}

// classifyCause wraps an arbitrary builder failure against its declaration.
// Registry and layout causes become LowerErrUnresolvedType (they mean a
// missing or malformed upstream type); anything else is invalid generic
// args. Already-classified errors pass through unchanged.
func classifyCause(decl *sierra.LibfuncDeclaration, err error) error {
	var lerr *LowerError
	if errors.As(err, &lerr) {
		return err
	}
	var tbe *layout.TypeBuildError
	var ue *types.UnresolvedError
	if errors.As(err, &tbe) || errors.As(err, &ue) {
		return unresolvedType(decl, err)
	}
	return &LowerError{
		Kind:      LowerErrInvalidGenericArgs,
		GenericID: decl.GenericID,
		Decl:      decl.ID,
		Err:       err,
	}
}

func duplicateSignature(decl *sierra.LibfuncDeclaration, name string) *LowerError {
	return &LowerError{
		Kind:      LowerErrDuplicateSignature,
		GenericID: decl.GenericID,
		Decl:      decl.ID,
		Detail:    fmt.Sprintf("signature %q already registered", name),
	}
}
