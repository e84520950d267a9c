// Package memstore is an in-memory reconcile.Store.
//
// Records are JSON objects kept in id order. Decimal integer ids sort
// numerically ahead of all other ids, which sort as strings. The store is
// safe for concurrent use.
//
// It backs the "memory" backend of textfix, which repairs a JSON export
// file in place (Load, then WriteJSON after an apply run), and it is the
// store used by the reconciler tests: hooks inject read and write failures,
// and counters report how many pages were read and writes performed.
package memstore
