package jsonvalue

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Parse decodes a single JSON document. Object member order and number
// literals are kept exactly as they appear in data.
func Parse(data []byte) (Value, error) {
	if !gjson.ValidBytes(data) {
		return Value{}, ErrInvalidJSON
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

// ParseString is Parse for string input.
func ParseString(s string) (Value, error) {
	if !gjson.Valid(s) {
		return Value{}, ErrInvalidJSON
	}
	return fromResult(gjson.Parse(s)), nil
}

// MustParse is like Parse but panics on invalid input. Intended for tests and
// package-level fixtures.
func MustParse(s string) Value {
	v, err := ParseString(s)
	if err != nil {
		panic("jsonvalue: " + err.Error() + ": " + s)
	}
	return v
}

func fromResult(r gjson.Result) Value {
	switch r.Type {
	case gjson.False:
		return Bool(false)
	case gjson.True:
		return Bool(true)
	case gjson.Number:
		return Number(strings.TrimSpace(r.Raw))
	case gjson.String:
		return String(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			items := make([]Value, 0)
			r.ForEach(func(_, item gjson.Result) bool {
				items = append(items, fromResult(item))
				return true
			})
			return Value{kind: KindArray, items: items}
		}
		members := make([]Member, 0)
		r.ForEach(func(key, item gjson.Result) bool {
			members = append(members, Member{Key: key.Str, Value: fromResult(item)})
			return true
		})
		return Value{kind: KindObject, members: members}
	default:
		return Null()
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
