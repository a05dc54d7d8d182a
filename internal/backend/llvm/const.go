package llvm

import (
	"math/big"

	"github.com/stevencartavia/cairo-native/internal/felt"
	"github.com/stevencartavia/cairo-native/internal/sierra"
	"github.com/stevencartavia/cairo-native/internal/trace"
)

// Constant libfuncs emit no callable. The literal is recorded against the
// instance name and materialized later, at each use site.

func (l *Lowerer) buildFeltConst(decl *sierra.LibfuncDeclaration) error {
	v, err := constLiteral(decl)
	if err != nil {
		return err
	}
	name := sierra.NormalizeFuncName(decl.DebugName)
	l.storage.FeltConsts[name] = felt.Canon(v)
	trace.Debug(l.tracer, "felt const", trace.F("name", name))
	return nil
}

func (l *Lowerer) buildUintConst(decl *sierra.LibfuncDeclaration, bits int) error {
	v, err := constLiteral(decl)
	if err != nil {
		return err
	}
	if v.Sign() < 0 || v.BitLen() > bits {
		return invalidGenericArgs(decl, "literal %s does not fit in u%d", v, bits)
	}
	name := sierra.NormalizeFuncName(decl.DebugName)
	switch bits {
	case 8:
		l.storage.U8Consts[name] = v.Uint64()
	case 16:
		l.storage.U16Consts[name] = v.Uint64()
	case 32:
		l.storage.U32Consts[name] = v.Uint64()
	case 64:
		l.storage.U64Consts[name] = v.Uint64()
	case 128:
		l.storage.U128Consts[name] = new(big.Int).Set(v)
	default:
		return invalidGenericArgs(decl, "unsupported constant width %d", bits)
	}
	trace.Debug(l.tracer, "uint const", trace.F("name", name))
	return nil
}

// constLiteral reads the single literal generic argument of a constant
// declaration.
func constLiteral(decl *sierra.LibfuncDeclaration) (*big.Int, error) {
	if len(decl.Args) != 1 {
		return nil, invalidGenericArgs(decl, "expected exactly one generic arg, got %d", len(decl.Args))
	}
	v, ok := decl.ValueArg(0)
	if !ok {
		return nil, invalidGenericArgs(decl, "generic arg 0: expected a literal value")
	}
	return v, nil
}
