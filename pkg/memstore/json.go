package memstore

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrymomot/textfix/pkg/jsonvalue"
)

// Load reads a JSON array of objects and adds each one as a record. The id
// member must be a non-empty string or a number.
func (s *Store) Load(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	doc, err := jsonvalue.Parse(data)
	if err != nil {
		return errors.Join(ErrInvalidData, err)
	}
	if doc.Kind() != jsonvalue.KindArray {
		return ErrInvalidData
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range doc.Items() {
		if item.Kind() != jsonvalue.KindObject {
			return fmt.Errorf("%w: item %d", ErrInvalidRecord, i)
		}
		id, idVal, members, err := s.split(item)
		if err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		if _, dup := s.records[id]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
		s.put(id, members)
		s.idVals[id] = idVal
	}
	return nil
}

func (s *Store) split(obj jsonvalue.Value) (string, jsonvalue.Value, []jsonvalue.Member, error) {
	var id string
	var idVal jsonvalue.Value
	members := make([]jsonvalue.Member, 0, obj.Len())
	for _, m := range obj.Members() {
		if m.Key != s.idField {
			members = append(members, m)
			continue
		}
		idVal = m.Value
		if str, ok := m.Value.Str(); ok {
			id = str
		} else if lit, ok := m.Value.NumberLiteral(); ok {
			id = lit
		}
	}
	if id == "" {
		return "", idVal, nil, ErrEmptyID
	}
	return id, idVal, members, nil
}

// WriteJSON writes every record as a JSON array in scan order, one object
// per line, the id member first.
func (s *Store) WriteJSON(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var buf bytes.Buffer
	buf.WriteString("[")
	for i, id := range s.ids {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  ")
		members := append([]jsonvalue.Member{{Key: s.idField, Value: s.idValue(id)}}, s.records[id]...)
		buf.WriteString(jsonvalue.Object(members...).String())
	}
	if len(s.ids) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("]\n")
	_, err := w.Write(buf.Bytes())
	return err
}

// idValue returns the id as it was loaded, so numeric ids stay numbers.
func (s *Store) idValue(id string) jsonvalue.Value {
	if v, ok := s.idVals[id]; ok {
		return v
	}
	return jsonvalue.String(id)
}
