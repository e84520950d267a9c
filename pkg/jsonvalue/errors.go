package jsonvalue

import "errors"

var (
	// ErrInvalidJSON is returned when the input is not a single well-formed JSON document.
	ErrInvalidJSON = errors.New("invalid json document")

	// ErrUnsupportedType is returned by FromAny for Go values with no JSON equivalent.
	ErrUnsupportedType = errors.New("unsupported type for json value")
)
