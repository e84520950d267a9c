package reconcile

import (
	"errors"
	"fmt"
	"slices"

	"github.com/dmitrymomot/textfix/pkg/jsonvalue"
	"github.com/dmitrymomot/textfix/pkg/textnorm"
)

// Target binds the reconciler to one collection.
type Target struct {
	// Name identifies the target in run options and reports.
	Name string
	// Filter restricts the scan, e.g. to records that are not soft-deleted.
	Filter Filter
	// Fields are flat text fields normalised with textnorm.Normalize.
	Fields []string
	// StructuredFields are JSON fields normalised with textnorm.NormalizeValue.
	StructuredFields []string
	// Store reads and writes the collection.
	Store Store
}

// Validate checks that the target can be scanned.
func (t Target) Validate() error {
	if t.Name == "" {
		return errors.Join(ErrInvalidTarget, errors.New("name is required"))
	}
	if t.Store == nil {
		return errors.Join(ErrInvalidTarget, fmt.Errorf("%s: store is required", t.Name))
	}
	if len(t.Fields)+len(t.StructuredFields) == 0 {
		return errors.Join(ErrInvalidTarget, fmt.Errorf("%s: at least one field is required", t.Name))
	}
	seen := make(map[string]struct{}, len(t.Fields)+len(t.StructuredFields))
	for _, f := range slices.Concat(t.Fields, t.StructuredFields) {
		if f == "" {
			return errors.Join(ErrInvalidTarget, fmt.Errorf("%s: empty field name", t.Name))
		}
		if _, ok := seen[f]; ok {
			return errors.Join(ErrInvalidTarget, fmt.Errorf("%s: field %q listed twice", t.Name, f))
		}
		seen[f] = struct{}{}
	}
	return nil
}

func (t Target) pageQuery(after string, limit int) PageQuery {
	return PageQuery{
		After:            after,
		Limit:            limit,
		Fields:           t.Fields,
		StructuredFields: t.StructuredFields,
		Filter:           t.Filter,
	}
}

// FieldChange is a single corrected field.
type FieldChange struct {
	Field      string
	Structured bool
	Before     jsonvalue.Value
	After      jsonvalue.Value
}

// ChangeSet collects the corrections for one record.
type ChangeSet struct {
	RecordID string
	Changes  []FieldChange
}

// Empty reports whether no field needs to be written.
func (c ChangeSet) Empty() bool {
	return len(c.Changes) == 0
}

// Patch converts the change set into the update sent to the store.
func (c ChangeSet) Patch() Patch {
	p := Patch{}
	for _, ch := range c.Changes {
		if ch.Structured {
			if p.Structured == nil {
				p.Structured = make(map[string]jsonvalue.Value)
			}
			p.Structured[ch.Field] = ch.After
			continue
		}
		if p.Fields == nil {
			p.Fields = make(map[string]string)
		}
		s, _ := ch.After.Str()
		p.Fields[ch.Field] = s
	}
	return p
}

// Inspect normalises the configured fields of rec and returns the fields that
// changed. Flat fields are considered only when they hold a non-empty string;
// structured fields only when they are present and not null. Inspect never
// modifies rec.
func (t Target) Inspect(rec Record) ChangeSet {
	cs := ChangeSet{RecordID: rec.ID}

	for _, field := range t.Fields {
		v, ok := rec.Fields[field]
		if !ok {
			continue
		}
		s, isString := v.Str()
		if !isString || s == "" {
			continue
		}
		if fixed := textnorm.Normalize(s); fixed != s {
			cs.Changes = append(cs.Changes, FieldChange{
				Field:  field,
				Before: v,
				After:  jsonvalue.String(fixed),
			})
		}
	}

	for _, field := range t.StructuredFields {
		v, ok := rec.Fields[field]
		if !ok || v.IsNull() {
			continue
		}
		if fixed := textnorm.NormalizeValue(v); !jsonvalue.Equal(v, fixed) {
			cs.Changes = append(cs.Changes, FieldChange{
				Field:      field,
				Structured: true,
				Before:     v,
				After:      fixed,
			})
		}
	}

	return cs
}

// Registry holds the targets known to a reconciler in registration order.
type Registry struct {
	targets []Target
	index   map[string]int
}

// NewRegistry creates a registry and registers the given targets.
func NewRegistry(targets ...Target) (*Registry, error) {
	r := &Registry{index: make(map[string]int)}
	for _, t := range targets {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustNewRegistry is like NewRegistry but panics on invalid targets.
func MustNewRegistry(targets ...Target) *Registry {
	r, err := NewRegistry(targets...)
	if err != nil {
		panic(fmt.Sprintf("failed to create registry: %v", err))
	}
	return r
}

// Register validates and appends a target. Field slices are copied so later
// changes by the caller do not affect registered targets.
func (r *Registry) Register(t Target) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if _, ok := r.index[t.Name]; ok {
		return errors.Join(ErrDuplicateTarget, fmt.Errorf("%q", t.Name))
	}
	t.Fields = slices.Clone(t.Fields)
	t.StructuredFields = slices.Clone(t.StructuredFields)
	r.index[t.Name] = len(r.targets)
	r.targets = append(r.targets, t)
	return nil
}

// Names returns the registered target names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.targets))
	for i, t := range r.targets {
		names[i] = t.Name
	}
	return names
}

// Targets returns a copy of the registered targets.
func (r *Registry) Targets() []Target {
	return slices.Clone(r.targets)
}

// Len returns the number of registered targets.
func (r *Registry) Len() int {
	return len(r.targets)
}

// Select returns the targets named in names, in registration order. An empty
// list selects every target. Unknown names are reported together.
func (r *Registry) Select(names []string) ([]Target, error) {
	if len(r.targets) == 0 {
		return nil, ErrNoTargets
	}
	if len(names) == 0 {
		return slices.Clone(r.targets), nil
	}

	wanted := make(map[string]struct{}, len(names))
	var unknown []string
	for _, n := range names {
		if _, ok := r.index[n]; !ok {
			unknown = append(unknown, n)
			continue
		}
		wanted[n] = struct{}{}
	}
	if len(unknown) > 0 {
		return nil, errors.Join(ErrUnknownTarget, fmt.Errorf("%q (registered: %v)", unknown, r.Names()))
	}

	selected := make([]Target, 0, len(wanted))
	for _, t := range r.targets {
		if _, ok := wanted[t.Name]; ok {
			selected = append(selected, t)
		}
	}
	return selected, nil
}
