package memstore

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"sync"

	"github.com/dmitrymomot/textfix/pkg/jsonvalue"
	"github.com/dmitrymomot/textfix/pkg/reconcile"
)

// DefaultIDField is the object member holding the record id.
const DefaultIDField = "id"

// Store implements reconcile.Store in memory.
type Store struct {
	mu       sync.RWMutex
	idField  string
	ids      []string
	records  map[string][]jsonvalue.Member
	idVals   map[string]jsonvalue.Value
	attempts map[string]int

	listHook   ListHook
	updateHook UpdateHook

	pageReads int
	writes    int
	failures  int
}

var _ reconcile.Store = (*Store)(nil)

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		idField:  DefaultIDField,
		records:  make(map[string][]jsonvalue.Member),
		idVals:   make(map[string]jsonvalue.Value),
		attempts: make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put inserts or replaces a record. The id member is managed by the store
// and any id key in fields is ignored.
func (s *Store) Put(id string, fields map[string]jsonvalue.Value) error {
	if id == "" {
		return ErrEmptyID
	}
	members := make([]jsonvalue.Member, 0, len(fields))
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		if k == s.idField {
			continue
		}
		members = append(members, jsonvalue.Member{Key: k, Value: fields[k]})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(id, members)
	return nil
}

// PutStrings is Put for records made only of text fields.
func (s *Store) PutStrings(id string, fields map[string]string) error {
	vals := make(map[string]jsonvalue.Value, len(fields))
	for k, v := range fields {
		vals[k] = jsonvalue.String(v)
	}
	return s.Put(id, vals)
}

func (s *Store) put(id string, members []jsonvalue.Member) {
	if _, ok := s.records[id]; !ok {
		i, _ := slices.BinarySearchFunc(s.ids, id, compareIDs)
		s.ids = slices.Insert(s.ids, i, id)
	}
	s.records[id] = members
}

// Get returns a copy of the record fields.
func (s *Store) Get(id string) (map[string]jsonvalue.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	members, ok := s.records[id]
	if !ok {
		return nil, false
	}
	out := make(map[string]jsonvalue.Value, len(members))
	for _, m := range members {
		out[m.Key] = m.Value
	}
	return out, true
}

// IDs returns every id in scan order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.ids)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// PageReads returns the number of ListPage calls that reached the data.
func (s *Store) PageReads() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pageReads
}

// Writes returns the number of successful UpdateByID calls.
func (s *Store) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// FailedWrites returns the number of UpdateByID calls that returned an error.
func (s *Store) FailedWrites() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.failures
}

// ListPage returns up to q.Limit matching records with an id after q.After.
func (s *Store) ListPage(ctx context.Context, q reconcile.PageQuery) ([]reconcile.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.listHook != nil {
		if err := s.listHook(q); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageReads++

	start := 0
	if q.After != "" {
		i, found := slices.BinarySearchFunc(s.ids, q.After, compareIDs)
		if found {
			i++
		}
		start = i
	}

	cols := q.Columns()
	var out []reconcile.Record
	for _, id := range s.ids[start:] {
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
		members := s.records[id]
		if !matches(members, q.Filter) {
			continue
		}
		rec := reconcile.Record{ID: id, Fields: make(map[string]jsonvalue.Value, len(cols))}
		for _, c := range cols {
			v, _ := lookup(members, c)
			rec.Fields[c] = v
		}
		out = append(out, rec)
	}
	return out, nil
}

// UpdateByID writes every field of the patch or none of them.
func (s *Store) UpdateByID(ctx context.Context, id string, patch reconcile.Patch) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	members, ok := s.records[id]
	if !ok {
		s.failures++
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.attempts[id]++
	if s.updateHook != nil {
		if err := s.updateHook(id, s.attempts[id]); err != nil {
			s.failures++
			return err
		}
	}

	updated := slices.Clone(members)
	for _, k := range slices.Sorted(maps.Keys(patch.Fields)) {
		updated = set(updated, k, jsonvalue.String(patch.Fields[k]))
	}
	for _, k := range slices.Sorted(maps.Keys(patch.Structured)) {
		updated = set(updated, k, patch.Structured[k])
	}
	s.records[id] = updated
	s.writes++
	return nil
}

func lookup(members []jsonvalue.Member, key string) (jsonvalue.Value, bool) {
	for _, m := range members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return jsonvalue.Null(), false
}

func set(members []jsonvalue.Member, key string, v jsonvalue.Value) []jsonvalue.Member {
	for i, m := range members {
		if m.Key == key {
			members[i].Value = v
			return members
		}
	}
	return append(members, jsonvalue.Member{Key: key, Value: v})
}

// matches applies equality filters; a nil wanted value matches a missing or
// null field.
func matches(members []jsonvalue.Member, f reconcile.Filter) bool {
	for k, want := range f {
		got, ok := lookup(members, k)
		if want == nil {
			if ok && !got.IsNull() {
				return false
			}
			continue
		}
		wv, err := jsonvalue.FromAny(want)
		if err != nil || !ok || !jsonvalue.Equal(got, wv) {
			return false
		}
	}
	return true
}

// compareIDs orders decimal ids numerically, before every other id, and
// the rest as strings.
func compareIDs(a, b string) int {
	ai, aerr := strconv.ParseInt(a, 10, 64)
	bi, berr := strconv.ParseInt(b, 10, 64)
	switch {
	case aerr == nil && berr == nil:
		return cmp.Compare(ai, bi)
	case aerr == nil:
		return -1
	case berr == nil:
		return 1
	}
	return cmp.Compare(a, b)
}
