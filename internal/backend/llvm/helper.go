package llvm

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"
)

// Helper connects emitted libfunc code to the successor blocks declared by
// the surrounding statement. Br branches to the idx-th declared successor
// and delivers the given values as that block's arguments (phi nodes).
//
// Successor index order is the declaration order of the libfunc's branch
// targets; builders rely on index i mapping to outcome i.
type Helper struct {
	successors []*ir.Block
	phis       [][]*ir.InstPhi
}

// NewHelper creates a helper over the declared successor blocks.
func NewHelper(successors ...*ir.Block) *Helper {
	return &Helper{
		successors: successors,
		phis:       make([][]*ir.InstPhi, len(successors)),
	}
}

// NumSuccessors returns the number of declared successor blocks.
func (h *Helper) NumSuccessors() int {
	if h == nil {
		return 0
	}
	return len(h.successors)
}

// Successor returns the idx-th declared successor block.
func (h *Helper) Successor(idx int) *ir.Block {
	if h == nil || idx < 0 || idx >= len(h.successors) {
		return nil
	}
	return h.successors[idx]
}

// Br terminates from with a branch to successor idx, passing vals in order.
// Every branch to the same successor must pass the same number of values.
func (h *Helper) Br(from *ir.Block, idx int, vals ...value.Value) error {
	if h == nil || idx < 0 || idx >= len(h.successors) {
		return fmt.Errorf("branch to undeclared successor %d (have %d)", idx, h.NumSuccessors())
	}
	dest := h.successors[idx]

	if h.phis[idx] == nil {
		phis := make([]*ir.InstPhi, len(vals))
		for i, v := range vals {
			phis[i] = dest.NewPhi(ir.NewIncoming(v, from))
		}
		h.phis[idx] = phis
	} else {
		if len(vals) != len(h.phis[idx]) {
			return fmt.Errorf("successor %d takes %d values, got %d", idx, len(h.phis[idx]), len(vals))
		}
		for i, v := range vals {
			phi := h.phis[idx][i]
			phi.Incs = append(phi.Incs, ir.NewIncoming(v, from))
		}
	}

	from.NewBr(dest)
	return nil
}

// Args returns the block-argument values of successor idx, in the order
// they were passed to Br. Nil until the successor has been branched to.
func (h *Helper) Args(idx int) []value.Value {
	if h == nil || idx < 0 || idx >= len(h.phis) || h.phis[idx] == nil {
		return nil
	}
	out := make([]value.Value, len(h.phis[idx]))
	for i, phi := range h.phis[idx] {
		out[i] = phi
	}
	return out
}
