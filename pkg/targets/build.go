package targets

import (
	"fmt"

	"github.com/dmitrymomot/textfix/pkg/reconcile"
)

// Factory creates the store behind one target.
type Factory func(backend Backend, spec Spec) (reconcile.Store, error)

// Build creates a store for every target and registers the targets in file
// order.
func Build(f *File, factory Factory) (*reconcile.Registry, error) {
	if factory == nil {
		return nil, ErrNilFactory
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	reg, err := reconcile.NewRegistry()
	if err != nil {
		return nil, err
	}
	for _, s := range f.Targets {
		store, err := factory(f.Backend, s)
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", s.Name, err)
		}
		var filter reconcile.Filter
		if len(s.Filter) > 0 {
			filter = reconcile.Filter(s.Filter)
		}
		if err := reg.Register(reconcile.Target{
			Name:             s.Name,
			Filter:           filter,
			Fields:           s.Fields,
			StructuredFields: s.Structured,
			Store:            store,
		}); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
