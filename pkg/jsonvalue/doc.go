// Package jsonvalue provides an ordered, tagged representation of JSON data.
//
// A Value is one of Null, Bool, Number, String, Array or Object. Objects keep
// their members in document order and numbers keep their original literal, so
// a value parsed and written back without changes keeps its structure and
// numeric formatting. This makes the package suitable for
// rewriting structured columns in place: callers can transform string leaves
// with MapStrings and use Equal to decide whether anything changed at all.
//
// # Usage
//
//	v, err := jsonvalue.Parse([]byte(`{"title":"Safari","days":3}`))
//	if err != nil {
//		// handle malformed input
//	}
//
//	upper := jsonvalue.MapStrings(v, strings.ToUpper)
//	if !jsonvalue.Equal(v, upper) {
//		data, _ := upper.MarshalJSON() // {"title":"SAFARI","days":3}
//	}
//
// # Error handling
//
// Only Parse and UnmarshalJSON return errors (ErrInvalidJSON). All other
// operations are total.
//
// Values are immutable once built; every transformation returns a new Value
// and never shares mutable state with its input, so they are safe for
// concurrent use.
package jsonvalue
