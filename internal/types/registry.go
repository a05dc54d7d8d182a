package types

import (
	"fmt"

	"github.com/stevencartavia/cairo-native/internal/sierra"
)

// UnresolvedError reports a type id referenced by a declaration but absent
// from the registry. This always indicates a missing upstream declaration
// and is fatal to the lowering pass.
type UnresolvedError struct {
	ID sierra.TypeID
}

func (e *UnresolvedError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("unresolved type id %q", string(e.ID))
}

// Registry maps stable Sierra type ids to descriptors. It is populated by
// the elaboration step before the lowering pass runs; the pass only reads
// from it.
type Registry struct {
	byID map[sierra.TypeID]*Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[sierra.TypeID]*Descriptor, 64)}
}

// Register binds id to the descriptor. Later registrations of the same id
// replace earlier ones; elaboration runs once, so this never happens in
// practice.
func (r *Registry) Register(id sierra.TypeID, d *Descriptor) {
	if r == nil || d == nil {
		return
	}
	r.byID[id] = d
}

// Resolve returns the descriptor for id, or an *UnresolvedError.
func (r *Registry) Resolve(id sierra.TypeID) (*Descriptor, error) {
	if r != nil {
		if d, ok := r.byID[id]; ok {
			return d, nil
		}
	}
	return nil, &UnresolvedError{ID: id}
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.byID)
}
