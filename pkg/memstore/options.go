package memstore

import "github.com/dmitrymomot/textfix/pkg/reconcile"

// ListHook runs before every page read. A non-nil error is returned from
// ListPage instead of the page.
type ListHook func(q reconcile.PageQuery) error

// UpdateHook runs before every write. attempt counts calls for the same id,
// starting at 1. A non-nil error fails the write without changing the record.
type UpdateHook func(id string, attempt int) error

// Option configures a Store.
type Option func(*Store)

// WithIDField sets the member holding the record id. Defaults to "id".
func WithIDField(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.idField = name
		}
	}
}

func WithListHook(h ListHook) Option {
	return func(s *Store) { s.listHook = h }
}

func WithUpdateHook(h UpdateHook) Option {
	return func(s *Store) { s.updateHook = h }
}
