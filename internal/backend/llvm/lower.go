// Package llvm lowers Sierra libfunc declarations into LLVM IR. Each
// supported libfunc becomes either an emitted callable plus a registered
// signature, or a compile-time table entry (constants).
package llvm

import (
	"strconv"

	"github.com/llir/llvm/ir"

	"github.com/stevencartavia/cairo-native/internal/felt"
	"github.com/stevencartavia/cairo-native/internal/layout"
	"github.com/stevencartavia/cairo-native/internal/sierra"
	"github.com/stevencartavia/cairo-native/internal/trace"
	"github.com/stevencartavia/cairo-native/internal/types"
)

// Lowerer owns one lowering pass over a program's libfunc declarations.
// All shared state (registry reads, storage writes, module appends) goes
// through this single object; the pass is synchronous and fail-fast.
type Lowerer struct {
	prog     *sierra.Program
	mod      *ir.Module
	registry *types.Registry
	layouts  *layout.Engine
	storage  *Storage
	tracer   trace.Tracer

	feltDesc *types.Descriptor

	// Lazily created module-level helpers.
	feltModulo *ir.Func
	abortFunc  *ir.Func
	putsFunc   *ir.Func
	tagMsg     *ir.Global
}

// NewLowerer creates a lowering pass appending into mod.
func NewLowerer(mod *ir.Module, prog *sierra.Program, registry *types.Registry, storage *Storage, tracer trace.Tracer) *Lowerer {
	if tracer == nil {
		tracer = trace.Nop
	}
	if storage == nil {
		storage = NewStorage()
	}
	return &Lowerer{
		prog:     prog,
		mod:      mod,
		registry: registry,
		layouts:  layout.NewEngine(),
		storage:  storage,
		tracer:   tracer,
		feltDesc: types.FeltType(felt.Bits),
	}
}

// Module returns the target module being appended to.
func (l *Lowerer) Module() *ir.Module { return l.mod }

// Storage returns the shared lowering state.
func (l *Lowerer) Storage() *Storage { return l.storage }

// libfuncKind is the closed enumeration of recognized libfunc identities.
type libfuncKind uint8

const (
	kindRevokeAPTracking libfuncKind = iota + 1
	kindDisableAPTracking
	kindBranchAlign
	kindDrop
	kindFeltConst
	kindFeltAdd
	kindFeltSub
	kindFeltMul
	kindFeltDiv
	kindDup
	kindStructConstruct
	kindStoreTemp
	kindRename
	kindU8Const
	kindU16Const
	kindU32Const
	kindU64Const
	kindU128Const
	kindUpcast
	kindEnumInit
	kindEnumMatch
	kindEnumSnapshotMatch
)

// classifyLibfunc maps a generic identity to its kind. The second result is
// false for identities this core does not recognize; those are skipped, not
// failed, so an evolving libfunc set stays forward compatible.
func classifyLibfunc(genericID string) (libfuncKind, bool) {
	switch genericID {
	case "revoke_ap_tracking":
		return kindRevokeAPTracking, true
	case "disable_ap_tracking":
		return kindDisableAPTracking, true
	case "branch_align":
		return kindBranchAlign, true
	case "drop":
		return kindDrop, true
	case "felt252_const":
		return kindFeltConst, true
	case "felt252_add":
		return kindFeltAdd, true
	case "felt252_sub":
		return kindFeltSub, true
	case "felt252_mul":
		return kindFeltMul, true
	case "felt252_div":
		return kindFeltDiv, true
	case "dup":
		return kindDup, true
	case "struct_construct":
		return kindStructConstruct, true
	case "store_temp":
		return kindStoreTemp, true
	case "rename":
		return kindRename, true
	case "u8_const":
		return kindU8Const, true
	case "u16_const":
		return kindU16Const, true
	case "u32_const":
		return kindU32Const, true
	case "u64_const":
		return kindU64Const, true
	case "u128_const":
		return kindU128Const, true
	case "upcast":
		return kindUpcast, true
	case "enum_init":
		return kindEnumInit, true
	case "enum_match":
		return kindEnumMatch, true
	case "enum_snapshot_match":
		return kindEnumSnapshotMatch, true
	default:
		return 0, false
	}
}

// ProcessLibfuncs drives the whole lowering core: it walks the declared
// libfunc instances in order and invokes the matching builder. The first
// builder error aborts the pass.
func (l *Lowerer) ProcessLibfuncs() error {
	if l.prog == nil {
		return nil
	}
	trace.Phase(l.tracer, "process libfuncs",
		trace.F("count", strconv.Itoa(len(l.prog.Libfuncs))))

	for i := range l.prog.Libfuncs {
		decl := &l.prog.Libfuncs[i]

		kind, ok := classifyLibfunc(decl.GenericID)
		if !ok {
			trace.Debug(l.tracer, "unhandled libfunc",
				trace.F("generic_id", decl.GenericID),
				trace.F("decl", strconv.Itoa(int(decl.ID))))
			continue
		}

		trace.Debug(l.tracer, "processing libfunc decl",
			trace.F("generic_id", decl.GenericID),
			trace.F("decl", strconv.Itoa(int(decl.ID))))

		var err error
		switch kind {
		case kindRevokeAPTracking, kindDisableAPTracking, kindBranchAlign, kindDrop:
			// no-ops

		case kindFeltConst:
			err = l.buildFeltConst(decl)
		case kindU8Const:
			err = l.buildUintConst(decl, 8)
		case kindU16Const:
			err = l.buildUintConst(decl, 16)
		case kindU32Const:
			err = l.buildUintConst(decl, 32)
		case kindU64Const:
			err = l.buildUintConst(decl, 64)
		case kindU128Const:
			err = l.buildUintConst(decl, 128)

		case kindStructConstruct:
			err = l.buildStructConstruct(decl)
		case kindDup:
			err = l.buildDup(decl)
		case kindStoreTemp, kindRename:
			err = l.buildStoreTemp(decl)

		case kindFeltAdd:
			err = l.buildFeltBinaryOp(decl, binaryOpAdd)
		case kindFeltSub:
			err = l.buildFeltBinaryOp(decl, binaryOpSub)
		case kindFeltMul:
			err = l.buildFeltBinaryOp(decl, binaryOpMul)
		case kindFeltDiv:
			err = l.buildFeltBinaryOp(decl, binaryOpDiv)
		case kindUpcast:
			err = l.buildUpcast(decl)

		case kindEnumInit:
			err = l.buildEnumInit(decl)
		case kindEnumMatch:
			err = l.registerEnumMatch(decl)
		case kindEnumSnapshotMatch:
			err = unimplemented(decl, "snapshot match is not supported")
		}

		if err != nil {
			trace.Error(l.tracer, "lowering failed",
				trace.F("generic_id", decl.GenericID),
				trace.F("decl", strconv.Itoa(int(decl.ID))),
				trace.F("error", err.Error()))
			return err
		}
	}
	return nil
}

// resolveTypeArg resolves the i-th generic argument as a type reference.
func (l *Lowerer) resolveTypeArg(decl *sierra.LibfuncDeclaration, i int) (*types.Descriptor, error) {
	id, ok := decl.TypeArg(i)
	if !ok {
		return nil, invalidGenericArgs(decl, "generic arg %d: expected a type reference", i)
	}
	desc, err := l.registry.Resolve(id)
	if err != nil {
		return nil, unresolvedType(decl, err)
	}
	return desc, nil
}

// registerFunction records a callable signature, enforcing insert-once.
func (l *Lowerer) registerFunction(decl *sierra.LibfuncDeclaration, name string, def FunctionDef) error {
	if err := l.storage.insertFunction(name, def); err != nil {
		return duplicateSignature(decl, name)
	}
	return nil
}
