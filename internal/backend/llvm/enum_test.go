package llvm

import (
	"errors"
	"strings"
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"

	"github.com/stevencartavia/cairo-native/internal/layout"
	"github.com/stevencartavia/cairo-native/internal/sierra"
	"github.com/stevencartavia/cairo-native/internal/types"
)

// Enum over {u8, u64}: tag i1, payload align 8, payload offset 8, size 16.
func enumRegistry(t *testing.T) (*types.Registry, *types.Descriptor) {
	t.Helper()
	reg := types.NewRegistry()
	u8 := types.Uint(8)
	u64 := types.Uint(64)
	enum := types.Variant(u8, u64)
	reg.Register("u8", u8)
	reg.Register("u64", u64)
	reg.Register("e", enum)
	return reg, enum
}

func TestEnumInitEmbedsThroughBuffer(t *testing.T) {
	reg, _ := enumRegistry(t)
	prog := &sierra.Program{
		Libfuncs: []sierra.LibfuncDeclaration{
			{ID: 0, GenericID: "enum_init", DebugName: "enum_init<E, 1>",
				Args: []sierra.GenericArg{typeArg("e"), valueArg(1)}},
		},
	}
	l := newTestLowerer(prog, reg)
	if err := l.ProcessLibfuncs(); err != nil {
		t.Fatalf("enum_init failed: %v", err)
	}

	name := sierra.NormalizeFuncName("enum_init<E, 1>")
	def, ok := l.storage.Function(name)
	if !ok {
		t.Fatalf("signature %q not registered", name)
	}
	if len(def.Args) != 1 || def.Args[0].Bits != 64 {
		t.Fatalf("enum_init<E, 1> must take the u64 payload, got %v", def.Args)
	}
	if len(def.Returns) != 1 || def.Returns[0].Kind != types.KindVariant {
		t.Fatalf("enum_init must return the enum type, got %v", def.Returns)
	}

	irText := l.mod.String()
	// Union-wide buffer: {i1 tag, 15 payload/padding bytes}, 8-aligned.
	if !strings.Contains(irText, "alloca { i1, [15 x i8] }") {
		t.Fatalf("expected union-wide alloca:\n%s", irText)
	}
	if !strings.Contains(irText, "align 8") {
		t.Fatalf("buffer accesses must carry the union-wide alignment:\n%s", irText)
	}
	// Narrow view stored, uniform view reloaded.
	if !strings.Contains(irText, "bitcast { i1, [15 x i8] }*") {
		t.Fatalf("expected bitcast to the narrow variant view:\n%s", irText)
	}
	if !strings.Contains(irText, "store { i1, i64 }") {
		t.Fatalf("expected store of the narrow {tag, payload} struct:\n%s", irText)
	}
	if !strings.Contains(irText, "load { i1, [15 x i8] }") {
		t.Fatalf("expected reload as the uniform representation:\n%s", irText)
	}

	// Tag constant equals the variant index.
	if !strings.Contains(irText, "insertvalue { i1, i64 } undef, i1 true, 0") {
		t.Fatalf("tag field must hold variant index 1:\n%s", irText)
	}
}

func TestEnumInitIndexOutOfRange(t *testing.T) {
	reg, _ := enumRegistry(t)
	prog := &sierra.Program{
		Libfuncs: []sierra.LibfuncDeclaration{
			{ID: 0, GenericID: "enum_init", DebugName: "enum_init<E, 2>",
				Args: []sierra.GenericArg{typeArg("e"), valueArg(2)}},
		},
	}
	l := newTestLowerer(prog, reg)
	if err := l.ProcessLibfuncs(); err == nil {
		t.Fatal("expected error for variant index out of range")
	}
}

// A variant with a missing payload descriptor is an upstream type problem,
// not an argument problem: the error kind must say so.
func TestEnumInitUnresolvedVariantPayload(t *testing.T) {
	reg := types.NewRegistry()
	u8 := types.Uint(8)
	reg.Register("u8", u8)
	reg.Register("bad", types.Variant(u8, nil))

	prog := &sierra.Program{
		Libfuncs: []sierra.LibfuncDeclaration{
			{ID: 5, GenericID: "enum_init", DebugName: "enum_init<Bad, 0>",
				Args: []sierra.GenericArg{typeArg("bad"), valueArg(0)}},
		},
	}
	l := newTestLowerer(prog, reg)
	err := l.ProcessLibfuncs()

	var lerr *LowerError
	if !errors.As(err, &lerr) || lerr.Kind != LowerErrUnresolvedType {
		t.Fatalf("expected unresolved type error, got %v", err)
	}
	if lerr.Decl != 5 {
		t.Fatalf("error must name declaration 5, got %d", lerr.Decl)
	}
	var tbe *layout.TypeBuildError
	if !errors.As(err, &tbe) {
		t.Fatalf("cause must be a layout error, got %v", err)
	}
}

func TestEnumMatchRegistersSignature(t *testing.T) {
	reg, enum := enumRegistry(t)
	prog := &sierra.Program{
		Libfuncs: []sierra.LibfuncDeclaration{
			{ID: 0, GenericID: "enum_match", DebugName: "enum_match<E>",
				Args: []sierra.GenericArg{typeArg("e")}},
		},
	}
	l := newTestLowerer(prog, reg)
	if err := l.ProcessLibfuncs(); err != nil {
		t.Fatalf("enum_match failed: %v", err)
	}
	def, ok := l.storage.Function(sierra.NormalizeFuncName("enum_match<E>"))
	if !ok {
		t.Fatal("enum_match signature not registered")
	}
	if len(def.Args) != 1 || def.Args[0] != enum {
		t.Fatalf("enum_match must take the enum, got %v", def.Args)
	}
	if len(def.Returns) != len(enum.Fields) {
		t.Fatalf("enum_match must expose one payload per variant, got %d", len(def.Returns))
	}
}

// buildMatchHost emits an enum_match into a hand-built host function with
// one successor block per variant, mirroring the statement sequencer.
func buildMatchHost(t *testing.T, l *Lowerer, enum *types.Descriptor) (*ir.Func, *ir.Block, *Helper) {
	t.Helper()
	enumTy, err := l.lowerType(enum)
	if err != nil {
		t.Fatalf("lower enum type: %v", err)
	}
	f := l.mod.NewFunc("host", lltypes.Void, ir.NewParam("e", enumTy))
	entry := f.NewBlock("entry")

	successors := make([]*ir.Block, len(enum.Fields))
	for i := range successors {
		successors[i] = f.NewBlock("")
	}
	helper := NewHelper(successors...)

	if err := l.BuildEnumMatch(entry, helper, enum, f.Params[0]); err != nil {
		t.Fatalf("BuildEnumMatch failed: %v", err)
	}
	for _, s := range successors {
		s.NewRet(nil)
	}
	return f, entry, helper
}

func TestEnumMatchSwitchShape(t *testing.T) {
	reg, enum := enumRegistry(t)
	l := newTestLowerer(&sierra.Program{}, reg)
	f, entry, helper := buildMatchHost(t, l, enum)

	sw, ok := entry.Term.(*ir.TermSwitch)
	if !ok {
		t.Fatalf("entry terminator is %T, want switch", entry.Term)
	}
	if len(sw.Cases) != len(enum.Fields) {
		t.Fatalf("switch has %d cases, want %d", len(sw.Cases), len(enum.Fields))
	}

	// Case i branches to a block that hands variant i's payload to
	// successor i; plus the default trap, the value flows into
	// len(variants)+1 blocks.
	for i, c := range sw.Cases {
		tagConst, ok := c.X.(*constant.Int)
		if !ok {
			t.Fatalf("case %d selector is %T, want integer constant", i, c.X)
		}
		if tagConst.X.Int64() != int64(i) {
			t.Fatalf("case %d selects tag %d", i, tagConst.X.Int64())
		}
		caseBlock, ok := c.Target.(*ir.Block)
		if !ok {
			t.Fatalf("case %d target is %T, want block", i, c.Target)
		}
		br, ok := caseBlock.Term.(*ir.TermBr)
		if !ok {
			t.Fatalf("case %d block terminator is %T, want br", i, caseBlock.Term)
		}
		if br.Target != helper.Successor(i) {
			t.Fatalf("case %d does not branch to successor %d", i, i)
		}
	}

	// Default path: fatal trap, never a variant successor.
	defaultBlock, ok := sw.TargetDefault.(*ir.Block)
	if !ok {
		t.Fatalf("default target is %T, want block", sw.TargetDefault)
	}
	if _, ok := defaultBlock.Term.(*ir.TermUnreachable); !ok {
		t.Fatalf("default block must be unreachable, got %T", defaultBlock.Term)
	}
	irText := f.Parent.String()
	if !strings.Contains(irText, "Invalid enum tag.") ||
		!strings.Contains(irText, "call void @abort()") {
		t.Fatalf("default block must assert and abort:\n%s", irText)
	}

	// Each successor receives exactly one value: the variant's own payload.
	wantPayloads := []lltypes.Type{lltypes.I8, lltypes.I64}
	for i, want := range wantPayloads {
		args := helper.Args(i)
		if len(args) != 1 {
			t.Fatalf("successor %d receives %d values, want 1", i, len(args))
		}
		if !args[0].Type().Equal(want) {
			t.Fatalf("successor %d payload type %s, want %s", i, args[0].Type(), want)
		}
	}
}

// Round-trip law at the IR level: enum_init(i, p) feeds enum_match and the
// value reaches successor i carrying a payload of variant i's exact type,
// extracted from the same {tag, payload} view the init stored.
func TestEnumInitMatchRoundTrip(t *testing.T) {
	reg, enum := enumRegistry(t)

	for index := range enum.Fields {
		l := newTestLowerer(&sierra.Program{}, reg)

		payloadTy, err := l.lowerType(enum.Fields[index])
		if err != nil {
			t.Fatalf("lower payload type: %v", err)
		}
		enumTy, err := l.lowerType(enum)
		if err != nil {
			t.Fatalf("lower enum type: %v", err)
		}

		f := l.mod.NewFunc("roundtrip", lltypes.Void, ir.NewParam("payload", payloadTy))
		entry := f.NewBlock("entry")
		mid := f.NewBlock("mid")
		initHelper := NewHelper(mid)

		if err := l.BuildEnumInit(entry, initHelper, enum, index, f.Params[0]); err != nil {
			t.Fatalf("BuildEnumInit(%d) failed: %v", index, err)
		}
		tagged := initHelper.Args(0)[0]
		if !tagged.Type().Equal(enumTy) {
			t.Fatalf("init result type %s, want uniform %s", tagged.Type(), enumTy)
		}

		successors := make([]*ir.Block, len(enum.Fields))
		for i := range successors {
			successors[i] = f.NewBlock("")
		}
		matchHelper := NewHelper(successors...)
		if err := l.BuildEnumMatch(mid, matchHelper, enum, tagged); err != nil {
			t.Fatalf("BuildEnumMatch failed: %v", err)
		}
		for _, s := range successors {
			s.NewRet(nil)
		}

		args := matchHelper.Args(index)
		if len(args) != 1 || !args[0].Type().Equal(payloadTy) {
			t.Fatalf("variant %d: payload did not round-trip (args %v)", index, args)
		}

		// Init and match reinterpret through the same narrow view.
		irText := l.mod.String()
		narrow := "{ " + payloadViewName(payloadTy) + " }"
		if !strings.Contains(irText, narrow) {
			t.Fatalf("variant %d: narrow view %s missing:\n%s", index, narrow, irText)
		}
	}
}

func payloadViewName(payloadTy lltypes.Type) string {
	return "i1, " + payloadTy.LLString()
}

func TestEnumMatchSuccessorCountMismatch(t *testing.T) {
	reg, enum := enumRegistry(t)
	l := newTestLowerer(&sierra.Program{}, reg)

	enumTy, err := l.lowerType(enum)
	if err != nil {
		t.Fatalf("lower enum type: %v", err)
	}
	f := l.mod.NewFunc("host", lltypes.Void, ir.NewParam("e", enumTy))
	entry := f.NewBlock("entry")
	helper := NewHelper(f.NewBlock("")) // one successor for two variants

	if err := l.BuildEnumMatch(entry, helper, enum, f.Params[0]); err == nil {
		t.Fatal("expected error for successor/variant count mismatch")
	}
}

func TestHelperBrRejectsUndeclaredSuccessor(t *testing.T) {
	l := newTestLowerer(&sierra.Program{}, nil)
	f := l.mod.NewFunc("h", lltypes.Void)
	entry := f.NewBlock("entry")
	helper := NewHelper(f.NewBlock("exit"))

	if err := helper.Br(entry, 1, constant.NewInt(lltypes.I8, 0)); err == nil {
		t.Fatal("expected error for out-of-range successor index")
	}
}
