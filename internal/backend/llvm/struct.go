package llvm

import (
	"fmt"

	"fortio.org/safecast"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/value"

	"github.com/stevencartavia/cairo-native/internal/sierra"
	"github.com/stevencartavia/cairo-native/internal/types"
)

// buildStructConstruct emits a callable packing N field values into one
// composite, in field order, and registers its signature.
func (l *Lowerer) buildStructConstruct(decl *sierra.LibfuncDeclaration) error {
	name := sierra.NormalizeFuncName(decl.DebugName)

	desc, err := l.resolveTypeArg(decl, 0)
	if err != nil {
		return err
	}
	if desc.Kind != types.KindComposite {
		return invalidGenericArgs(decl, "expected a struct type, got %s", desc.Kind)
	}

	structTy, err := l.lowerType(desc)
	if err != nil {
		return classifyCause(decl, err)
	}
	params := make([]*ir.Param, 0, len(desc.Fields))
	for i, f := range desc.Fields {
		ft, err := l.lowerType(f)
		if err != nil {
			return classifyCause(decl, err)
		}
		params = append(params, ir.NewParam(fmt.Sprintf("f%d", i), ft))
	}

	f := l.mod.NewFunc(name, structTy, params...)
	entry := f.NewBlock("entry")

	var agg value.Value = constant.NewUndef(structTy)
	for i, p := range f.Params {
		idx, err := safecast.Conv[uint64](i)
		if err != nil {
			return err
		}
		agg = entry.NewInsertValue(agg, p, idx)
	}
	entry.NewRet(agg)

	return l.registerFunction(decl, name, FunctionDef{
		Args:    desc.Fields,
		Returns: []*types.Descriptor{desc},
	})
}

// buildDup emits a callable returning its argument twice: the original,
// then the duplicate. The argument is never mutated.
func (l *Lowerer) buildDup(decl *sierra.LibfuncDeclaration) error {
	name := sierra.NormalizeFuncName(decl.DebugName)

	desc, err := l.resolveTypeArg(decl, 0)
	if err != nil {
		return err
	}
	argTy, err := l.lowerType(desc)
	if err != nil {
		return classifyCause(decl, err)
	}
	retDescs := []*types.Descriptor{desc, desc}
	retTy, err := l.returnType(retDescs)
	if err != nil {
		return classifyCause(decl, err)
	}

	f := l.mod.NewFunc(name, retTy, ir.NewParam("value", argTy))
	entry := f.NewBlock("entry")

	var agg value.Value = constant.NewUndef(retTy)
	agg = entry.NewInsertValue(agg, f.Params[0], 0)
	agg = entry.NewInsertValue(agg, f.Params[0], 1)
	entry.NewRet(agg)

	return l.registerFunction(decl, name, FunctionDef{
		Args:    []*types.Descriptor{desc},
		Returns: retDescs,
	})
}

// buildStoreTemp emits the identity callable shared by store_temp and
// rename: one value in, the same value out. It exists so every value
// binding has a uniform call representation for the statement sequencer.
func (l *Lowerer) buildStoreTemp(decl *sierra.LibfuncDeclaration) error {
	name := sierra.NormalizeFuncName(decl.DebugName)

	desc, err := l.resolveTypeArg(decl, 0)
	if err != nil {
		return err
	}
	argTy, err := l.lowerType(desc)
	if err != nil {
		return classifyCause(decl, err)
	}

	f := l.mod.NewFunc(name, argTy, ir.NewParam("value", argTy))
	entry := f.NewBlock("entry")
	entry.NewRet(f.Params[0])

	return l.registerFunction(decl, name, FunctionDef{
		Args:    []*types.Descriptor{desc},
		Returns: []*types.Descriptor{desc},
	})
}
