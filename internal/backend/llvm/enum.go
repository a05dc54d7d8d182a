package llvm

import (
	"fmt"

	"fortio.org/safecast"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/stevencartavia/cairo-native/internal/sierra"
	"github.com/stevencartavia/cairo-native/internal/types"
)

// Enum lowering. A tagged value lives in a union-wide buffer; construction
// and destructuring embed or extract the variant through an aligned
// store/reload round trip against the narrow {tag, payload} view. The
// reinterpretation always goes through memory, never through a raw value
// bit-cast.

// buildEnumInit emits a standalone callable for one enum_init declaration:
// (payload of variant i) -> tagged union value. Generic args: the enum
// type, then the literal variant index.
func (l *Lowerer) buildEnumInit(decl *sierra.LibfuncDeclaration) error {
	name := sierra.NormalizeFuncName(decl.DebugName)

	desc, err := l.resolveTypeArg(decl, 0)
	if err != nil {
		return err
	}
	if desc.Kind != types.KindVariant {
		return invalidGenericArgs(decl, "expected an enum type, got %s", desc.Kind)
	}
	idxArg, ok := decl.ValueArg(1)
	if !ok {
		return invalidGenericArgs(decl, "generic arg 1: expected a literal variant index")
	}
	if !idxArg.IsInt64() {
		return invalidGenericArgs(decl, "variant index %s out of range", idxArg)
	}
	index, err := safecast.Conv[int](idxArg.Int64())
	if err != nil || index < 0 || index >= len(desc.Fields) {
		return invalidGenericArgs(decl, "variant index %s out of range for %d variants", idxArg, len(desc.Fields))
	}

	payloadDesc := desc.Fields[index]
	payloadTy, err := l.lowerType(payloadDesc)
	if err != nil {
		return classifyCause(decl, err)
	}
	enumTy, err := l.lowerType(desc)
	if err != nil {
		return classifyCause(decl, err)
	}

	f := l.mod.NewFunc(name, enumTy, ir.NewParam("payload", payloadTy))
	entry := f.NewBlock("entry")
	exit := f.NewBlock("exit")
	helper := NewHelper(exit)

	if err := l.BuildEnumInit(entry, helper, desc, index, f.Params[0]); err != nil {
		return classifyCause(decl, err)
	}
	exit.NewRet(helper.Args(0)[0])

	return l.registerFunction(decl, name, FunctionDef{
		Args:    []*types.Descriptor{payloadDesc},
		Returns: []*types.Descriptor{desc},
	})
}

// BuildEnumInit emits the construction sequence into entry: build the
// narrow {tag, payload} struct for variant index, embed it into a buffer
// with the union-wide size and alignment, reload the buffer as the uniform
// representation and deliver it to successor 0.
func (l *Lowerer) BuildEnumInit(entry *ir.Block, helper *Helper, desc *types.Descriptor, index int, payload value.Value) error {
	if desc == nil || desc.Kind != types.KindVariant {
		return fmt.Errorf("enum init over non-variant descriptor %s", desc)
	}
	if index < 0 || index >= len(desc.Fields) {
		return fmt.Errorf("variant index %d out of range for %d variants", index, len(desc.Fields))
	}

	vl, err := l.layouts.ForVariants(desc.Fields)
	if err != nil {
		return err
	}
	tagTy, err := intType(vl.TagBits)
	if err != nil {
		return err
	}
	enumTy, err := uniformVariantType(vl)
	if err != nil {
		return err
	}
	align, err := safecast.Conv[uint64](vl.Align)
	if err != nil {
		return err
	}

	concreteTy := concreteVariantType(tagTy, payload.Type())
	idx64, err := safecast.Conv[int64](index)
	if err != nil {
		return err
	}

	var agg value.Value = constant.NewUndef(concreteTy)
	agg = entry.NewInsertValue(agg, constant.NewInt(tagTy, idx64), 0)
	agg = entry.NewInsertValue(agg, payload, 1)

	buf := entry.NewAlloca(enumTy)
	buf.Align = ir.Align(align)
	narrow := entry.NewBitCast(buf, lltypes.NewPointer(concreteTy))
	st := entry.NewStore(agg, narrow)
	st.Align = ir.Align(align)
	ld := entry.NewLoad(enumTy, buf)
	ld.Align = ir.Align(align)

	return helper.Br(entry, 0, ld)
}

// registerEnumMatch records the signature of an enum_match declaration.
// The body is emitted per invocation through BuildEnumMatch, because each
// use site supplies its own successor blocks.
func (l *Lowerer) registerEnumMatch(decl *sierra.LibfuncDeclaration) error {
	name := sierra.NormalizeFuncName(decl.DebugName)

	desc, err := l.resolveTypeArg(decl, 0)
	if err != nil {
		return err
	}
	if desc.Kind != types.KindVariant {
		return invalidGenericArgs(decl, "expected an enum type, got %s", desc.Kind)
	}
	// Successor i receives exactly one value: variant i's payload.
	return l.registerFunction(decl, name, FunctionDef{
		Args:    []*types.Descriptor{desc},
		Returns: desc.Fields,
	})
}

// BuildEnumMatch emits the dispatch sequence into entry: store the tagged
// value into a union-wide buffer, switch on its tag, and in each variant
// block reload the buffer through that variant's narrow view, extract the
// payload and deliver it to the matching successor. Together with the
// internal default trap the value flows into exactly len(variants)+1
// blocks; case i maps to successor i in declaration order.
func (l *Lowerer) BuildEnumMatch(entry *ir.Block, helper *Helper, desc *types.Descriptor, v value.Value) error {
	if desc == nil || desc.Kind != types.KindVariant {
		return fmt.Errorf("enum match over non-variant descriptor %s", desc)
	}
	n := len(desc.Fields)
	if helper.NumSuccessors() != n {
		return fmt.Errorf("enum match over %d variants needs %d successors, helper declares %d",
			n, n, helper.NumSuccessors())
	}

	vl, err := l.layouts.ForVariants(desc.Fields)
	if err != nil {
		return err
	}
	tagTy, err := intType(vl.TagBits)
	if err != nil {
		return err
	}
	enumTy, err := uniformVariantType(vl)
	if err != nil {
		return err
	}
	align, err := safecast.Conv[uint64](vl.Align)
	if err != nil {
		return err
	}

	f := entry.Parent
	buf := entry.NewAlloca(enumTy)
	buf.Align = ir.Align(align)
	st := entry.NewStore(v, buf)
	st.Align = ir.Align(align)

	// The tag comes straight off the value; no buffer needed for it.
	tag := entry.NewExtractValue(v, 0)

	defaultBlock := f.NewBlock("")
	variantBlocks := make([]*ir.Block, n)
	cases := make([]*ir.Case, n)
	for i := range variantBlocks {
		variantBlocks[i] = f.NewBlock("")
		idx64, err := safecast.Conv[int64](i)
		if err != nil {
			return err
		}
		cases[i] = ir.NewCase(constant.NewInt(tagTy, idx64), variantBlocks[i])
	}
	entry.NewSwitch(tag, defaultBlock, cases...)

	// A tag outside [0, n) means the value is corrupt. Unrecoverable.
	l.emitInvalidTagTrap(defaultBlock)

	for i, b := range variantBlocks {
		payloadTy, err := l.lowerType(desc.Fields[i])
		if err != nil {
			return err
		}
		concreteTy := concreteVariantType(tagTy, payloadTy)
		narrow := b.NewBitCast(buf, lltypes.NewPointer(concreteTy))
		ld := b.NewLoad(concreteTy, narrow)
		payload := b.NewExtractValue(ld, 1)
		if err := helper.Br(b, i, payload); err != nil {
			return err
		}
	}
	return nil
}

// emitInvalidTagTrap fills the default switch target: report the invalid
// tag and abort. The block never falls through.
func (l *Lowerer) emitInvalidTagTrap(block *ir.Block) {
	block.NewCall(l.ensurePuts(), l.ensureTagMsg())
	block.NewCall(l.ensureAbort())
	block.NewUnreachable()
}

func (l *Lowerer) ensurePuts() *ir.Func {
	if l.putsFunc == nil {
		l.putsFunc = l.mod.NewFunc("puts", lltypes.I32,
			ir.NewParam("s", lltypes.NewPointer(lltypes.I8)))
	}
	return l.putsFunc
}

func (l *Lowerer) ensureAbort() *ir.Func {
	if l.abortFunc == nil {
		l.abortFunc = l.mod.NewFunc("abort", lltypes.Void)
	}
	return l.abortFunc
}

func (l *Lowerer) ensureTagMsg() constant.Constant {
	if l.tagMsg == nil {
		msg := constant.NewCharArrayFromString("Invalid enum tag.\x00")
		l.tagMsg = l.mod.NewGlobalDef(".str.invalid_enum_tag", msg)
		l.tagMsg.Immutable = true
	}
	zero := constant.NewInt(lltypes.I64, 0)
	return constant.NewGetElementPtr(l.tagMsg.ContentType, l.tagMsg, zero, zero)
}
