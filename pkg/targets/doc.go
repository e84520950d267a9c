// Package targets describes reconcile targets in a YAML file and builds a
// reconcile.Registry from it.
//
//	backend: postgres
//	targets:
//	  - name: Listing
//	    collection: Listing
//	    filter: {deletedAt: null}
//	    fields: [name, description]
//	  - name: Tour
//	    collection: Tour
//	    fields: [name]
//	    structured: [itinerary]
//
// The store behind each target is created by a Factory supplied by the
// caller, so this package knows nothing about database connections.
// Default returns the built-in target set used when no file is given.
package targets
