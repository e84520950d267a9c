package jsonvalue

// MapStrings returns a copy of v with fn applied to every string leaf.
// Containers keep their order, keys and length; object keys are not passed to
// fn. Non-string scalars are returned unchanged.
func MapStrings(v Value, fn func(string) string) Value {
	switch v.kind {
	case KindString:
		return String(fn(v.text))
	case KindArray:
		items := make([]Value, len(v.items))
		for i, item := range v.items {
			items[i] = MapStrings(item, fn)
		}
		return Value{kind: KindArray, items: items}
	case KindObject:
		members := make([]Member, len(v.members))
		for i, m := range v.members {
			members[i] = Member{Key: m.Key, Value: MapStrings(m.Value, fn)}
		}
		return Value{kind: KindObject, members: members}
	default:
		return v
	}
}

// Strings returns every string leaf of v in document order.
func Strings(v Value) []string {
	var out []string
	var walk func(Value)
	walk = func(v Value) {
		switch v.kind {
		case KindString:
			out = append(out, v.text)
		case KindArray:
			for _, item := range v.items {
				walk(item)
			}
		case KindObject:
			for _, m := range v.members {
				walk(m.Value)
			}
		}
	}
	walk(v)
	return out
}
