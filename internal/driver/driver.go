package driver

import (
	"bytes"
	"encoding/hex"
	"io"

	"github.com/llir/llvm/ir"

	"github.com/stevencartavia/cairo-native/internal/backend/llvm"
	"github.com/stevencartavia/cairo-native/internal/sierra"
	"github.com/stevencartavia/cairo-native/internal/trace"
	"github.com/stevencartavia/cairo-native/internal/types"
)

// Result bundles everything a compilation produces: the emitted module, the
// signature/constant tables the statement sequencer consumes, and the
// rendered textual IR.
type Result struct {
	Module  *ir.Module
	Storage *llvm.Storage
	IR      string
}

// Compile elaborates the program's type declarations and lowers every
// recognized libfunc declaration into the module. The first fatal lowering
// error aborts the run.
func Compile(prog *sierra.Program, tracer trace.Tracer) (*Result, error) {
	if tracer == nil {
		tracer = trace.Nop
	}

	trace.Phase(tracer, "elaborating types")
	registry, err := types.Elaborate(prog)
	if err != nil {
		return nil, err
	}

	mod := ir.NewModule()
	storage := llvm.NewStorage()
	lowerer := llvm.NewLowerer(mod, prog, registry, storage, tracer)
	if err := lowerer.ProcessLibfuncs(); err != nil {
		return nil, err
	}

	return &Result{
		Module:  mod,
		Storage: storage,
		IR:      mod.String(),
	}, nil
}

// CompileFile loads a program artifact from disk and compiles it.
func CompileFile(path string, tracer trace.Tracer) (*Result, error) {
	prog, err := sierra.LoadProgram(path)
	if err != nil {
		return nil, err
	}
	return Compile(prog, tracer)
}

// CompileReader decodes a program artifact from r and compiles it.
func CompileReader(r io.Reader, tracer trace.Tracer) (*Result, error) {
	prog, err := sierra.ReadProgram(r)
	if err != nil {
		return nil, err
	}
	return Compile(prog, tracer)
}

// CompileCached compiles the raw program artifact, consulting cache first.
// On a hit the result carries the cached IR and constant tables but no live
// module. A nil cache always compiles. The bool reports whether the cache
// served the result.
func CompileCached(raw []byte, cache *DiskCache, tracer trace.Tracer) (*Result, bool, error) {
	if tracer == nil {
		tracer = trace.Nop
	}
	key := ProgramDigest(raw)

	if cache != nil {
		var payload DiskPayload
		hit, err := cache.Get(key, &payload)
		if err != nil {
			return nil, false, err
		}
		if hit {
			trace.Debug(tracer, "cache hit",
				trace.F("digest", hex.EncodeToString(key[:8])))
			storage, err := diskPayloadToStorage(&payload)
			if err != nil {
				return nil, false, err
			}
			return &Result{Storage: storage, IR: payload.IR}, true, nil
		}
	}

	res, err := CompileReader(bytes.NewReader(raw), tracer)
	if err != nil {
		return nil, false, err
	}
	if cache != nil {
		if err := cache.Put(key, resultToDiskPayload(res)); err != nil {
			trace.Error(tracer, "cache write failed", trace.F("error", err.Error()))
		}
	}
	return res, false, nil
}
