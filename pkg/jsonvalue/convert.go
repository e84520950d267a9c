package jsonvalue

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
)

// FromAny converts plain Go values, as produced by database drivers and
// encoding/json, into a Value. Map keys are sorted because Go maps carry no
// order; use Parse when the original member order matters.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case []byte:
		return String(string(t)), nil
	case json.Number:
		return Number(t.String()), nil
	case json.RawMessage:
		return Parse(t)
	case int:
		return Number(strconv.FormatInt(int64(t), 10)), nil
	case int8:
		return Number(strconv.FormatInt(int64(t), 10)), nil
	case int16:
		return Number(strconv.FormatInt(int64(t), 10)), nil
	case int32:
		return Number(strconv.FormatInt(int64(t), 10)), nil
	case int64:
		return Number(strconv.FormatInt(t, 10)), nil
	case uint:
		return Number(strconv.FormatUint(uint64(t), 10)), nil
	case uint8:
		return Number(strconv.FormatUint(uint64(t), 10)), nil
	case uint16:
		return Number(strconv.FormatUint(uint64(t), 10)), nil
	case uint32:
		return Number(strconv.FormatUint(uint64(t), 10)), nil
	case uint64:
		return Number(strconv.FormatUint(t, 10)), nil
	case float32:
		if !finite(float64(t)) {
			return Value{}, errors.Join(ErrUnsupportedType, fmt.Errorf("non-finite float %v", t))
		}
		return Number(strconv.FormatFloat(float64(t), 'g', -1, 32)), nil
	case float64:
		if !finite(t) {
			return Value{}, errors.Join(ErrUnsupportedType, fmt.Errorf("non-finite float %v", t))
		}
		return Number(strconv.FormatFloat(t, 'g', -1, 64)), nil
	case []any:
		items := make([]Value, 0, len(t))
		for _, item := range t {
			v, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return Value{kind: KindArray, items: items}, nil
	case map[string]any:
		members := make([]Member, 0, len(t))
		for _, k := range slices.Sorted(maps.Keys(t)) {
			v, err := FromAny(t[k])
			if err != nil {
				return Value{}, err
			}
			members = append(members, Member{Key: k, Value: v})
		}
		return Value{kind: KindObject, members: members}, nil
	default:
		return Value{}, errors.Join(ErrUnsupportedType, fmt.Errorf("%T", x))
	}
}

// finite reports whether f has a JSON representation.
func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
