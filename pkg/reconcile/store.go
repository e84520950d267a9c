package reconcile

import (
	"context"

	"github.com/dmitrymomot/textfix/pkg/jsonvalue"
)

// Filter is a target's own predicate, expressed as field equality. A nil
// value matches a missing or NULL field, e.g. Filter{"deleted_at": nil}.
type Filter map[string]any

// PageQuery asks a store for the next page of a collection.
type PageQuery struct {
	// After is the last id already visited; empty on the first page.
	After string
	// Limit is the maximum number of records to return.
	Limit int
	// Fields are the flat text fields to load.
	Fields []string
	// StructuredFields are the JSON fields to load.
	StructuredFields []string
	// Filter is the target predicate.
	Filter Filter
}

// Columns returns every field the query asks for.
func (q PageQuery) Columns() []string {
	cols := make([]string, 0, len(q.Fields)+len(q.StructuredFields))
	cols = append(cols, q.Fields...)
	return append(cols, q.StructuredFields...)
}

// Record is one row or document loaded for inspection. Flat fields hold a
// jsonvalue.String or jsonvalue.Null; structured fields hold any value.
type Record struct {
	ID     string
	Fields map[string]jsonvalue.Value
}

// Patch holds the corrected values staged for one record.
type Patch struct {
	Fields     map[string]string
	Structured map[string]jsonvalue.Value
}

// Len returns the number of staged fields.
func (p Patch) Len() int {
	return len(p.Fields) + len(p.Structured)
}

// Store is the capability contract a collection backend implements.
//
// ListPage must return records whose id is strictly greater than q.After,
// ordered ascending by id, matching q.Filter and limited to q.Limit. Ids must
// be stable and unique within the collection.
//
// UpdateByID writes every field of the patch to one record as a single
// atomic partial update. Transient failures can be wrapped with
// retry.RetryableError from github.com/sethvargo/go-retry to have the
// reconciler retry them.
type Store interface {
	ListPage(ctx context.Context, q PageQuery) ([]Record, error)
	UpdateByID(ctx context.Context, id string, patch Patch) error
}
