package llvm

import (
	"fmt"
	"math/big"

	"github.com/stevencartavia/cairo-native/internal/types"
)

// FunctionDef is the registered signature of one emitted callable: argument
// and return descriptors the statement sequencer needs to call it.
type FunctionDef struct {
	Args    []*types.Descriptor
	Returns []*types.Descriptor
}

// Storage is the shared mutable state of one lowering pass. It is populated
// monotonically while libfunc declarations are processed and read-only
// afterward. The pass is single-threaded; no locking.
type Storage struct {
	// Functions maps normalized callable names to signatures.
	// Insert-once: a duplicate insert is a logic error, not a race.
	Functions map[string]FunctionDef

	// Constant tables, one per width-specific constant kind. Append-only.
	U8Consts   map[string]uint64
	U16Consts  map[string]uint64
	U32Consts  map[string]uint64
	U64Consts  map[string]uint64
	U128Consts map[string]*big.Int
	FeltConsts map[string]*big.Int
}

// NewStorage creates empty lowering state.
func NewStorage() *Storage {
	return &Storage{
		Functions:  make(map[string]FunctionDef, 64),
		U8Consts:   make(map[string]uint64),
		U16Consts:  make(map[string]uint64),
		U32Consts:  make(map[string]uint64),
		U64Consts:  make(map[string]uint64),
		U128Consts: make(map[string]*big.Int),
		FeltConsts: make(map[string]*big.Int),
	}
}

// insertFunction registers a signature under name. Registering the same
// name twice violates the insert-once invariant.
func (s *Storage) insertFunction(name string, def FunctionDef) error {
	if s == nil {
		return fmt.Errorf("nil storage")
	}
	if _, ok := s.Functions[name]; ok {
		return fmt.Errorf("signature %q already registered", name)
	}
	s.Functions[name] = def
	return nil
}

// Function returns the registered signature for name.
func (s *Storage) Function(name string) (FunctionDef, bool) {
	if s == nil {
		return FunctionDef{}, false
	}
	def, ok := s.Functions[name]
	return def, ok
}
