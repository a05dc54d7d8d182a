package llvm

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"

	"github.com/stevencartavia/cairo-native/internal/felt"
	"github.com/stevencartavia/cairo-native/internal/sierra"
	"github.com/stevencartavia/cairo-native/internal/types"
)

// binaryOp selects the raw arithmetic operation of a felt libfunc.
type binaryOp uint8

const (
	binaryOpAdd binaryOp = iota + 1
	binaryOpSub
	binaryOpMul
	binaryOpDiv
)

// buildFeltBinaryOp emits a callable computing a felt binary operation.
// Operands are zero-extended to the double-width integer type before the raw
// operation: canonical felts are non-negative but may have the top bit of
// the felt width set (p > 2^251), so a sign extension would reinterpret
// them as negatives. Zero extension is exact, and every raw result stays
// within signed double-width range: sums < 2p, differences > -p, products
// < 2^503. felt_modulo then reduces back into canonical range and the
// result is narrowed to the felt width.
func (l *Lowerer) buildFeltBinaryOp(decl *sierra.LibfuncDeclaration, op binaryOp) error {
	if op == binaryOpDiv {
		return unimplemented(decl, "felt252 division")
	}
	name := sierra.NormalizeFuncName(decl.DebugName)

	modulo, err := l.ensureFeltModulo()
	if err != nil {
		return err
	}

	f := l.mod.NewFunc(name, feltType,
		ir.NewParam("lhs", feltType),
		ir.NewParam("rhs", feltType))
	entry := f.NewBlock("entry")

	lhs := entry.NewZExt(f.Params[0], doubleFeltType)
	rhs := entry.NewZExt(f.Params[1], doubleFeltType)

	var raw value.Value
	switch op {
	case binaryOpAdd:
		raw = entry.NewAdd(lhs, rhs)
	case binaryOpSub:
		raw = entry.NewSub(lhs, rhs)
	case binaryOpMul:
		raw = entry.NewMul(lhs, rhs)
	default:
		return unimplemented(decl, "unknown felt binary op")
	}

	res := entry.NewCall(modulo, raw)
	entry.NewRet(res)

	return l.registerFunction(decl, name, FunctionDef{
		Args:    []*types.Descriptor{l.feltDesc, l.feltDesc},
		Returns: []*types.Descriptor{l.feltDesc},
	})
}

// ensureFeltModulo defines the module-level reduction helper once:
// felt_modulo(x: double felt) -> felt, returning x mod p in [0, p).
func (l *Lowerer) ensureFeltModulo() (*ir.Func, error) {
	if l.feltModulo != nil {
		return l.feltModulo, nil
	}

	p, err := constant.NewIntFromString(doubleFeltType, felt.Prime().String())
	if err != nil {
		return nil, fmt.Errorf("felt prime constant: %w", err)
	}

	f := l.mod.NewFunc("felt_modulo", feltType, ir.NewParam("x", doubleFeltType))
	entry := f.NewBlock("entry")

	rem := entry.NewSRem(f.Params[0], p)
	// srem keeps the dividend's sign; fold negative remainders back into
	// the canonical range.
	neg := entry.NewICmp(enum.IPredSLT, rem, constant.NewInt(doubleFeltType, 0))
	wrapped := entry.NewAdd(rem, p)
	canon := entry.NewSelect(neg, wrapped, rem)
	entry.NewRet(entry.NewTrunc(canon, feltType))

	l.feltModulo = f
	return f, nil
}

// buildUpcast lowers a width-widening integer conversion. The three-way
// policy: source narrower than destination emits a zero-extension callable;
// equal widths emit nothing (the representations are identical and the
// value binding aliases them); a narrowing upcast is invalid.
func (l *Lowerer) buildUpcast(decl *sierra.LibfuncDeclaration) error {
	name := sierra.NormalizeFuncName(decl.DebugName)

	srcDesc, err := l.resolveTypeArg(decl, 0)
	if err != nil {
		return err
	}
	dstDesc, err := l.resolveTypeArg(decl, 1)
	if err != nil {
		return err
	}
	if srcDesc.Kind != types.KindSimple || dstDesc.Kind != types.KindSimple {
		return invalidGenericArgs(decl, "upcast needs integer types, got %s -> %s", srcDesc, dstDesc)
	}

	switch {
	case srcDesc.Bits < dstDesc.Bits:
		srcTy, err := l.lowerType(srcDesc)
		if err != nil {
			return classifyCause(decl, err)
		}
		dstTy, err := l.lowerType(dstDesc)
		if err != nil {
			return classifyCause(decl, err)
		}

		f := l.mod.NewFunc(name, dstTy, ir.NewParam("value", srcTy))
		entry := f.NewBlock("entry")
		entry.NewRet(entry.NewZExt(f.Params[0], dstTy))

		return l.registerFunction(decl, name, FunctionDef{
			Args:    []*types.Descriptor{srcDesc},
			Returns: []*types.Descriptor{dstDesc},
		})

	case srcDesc.Bits == dstDesc.Bits:
		// Representation-compatible; no callable needed.
		return nil

	default:
		return invalidGenericArgs(decl, "narrowing upcast %s -> %s", srcDesc, dstDesc)
	}
}
