package targets

import "errors"

var (
	ErrReadFile       = errors.New("failed to read targets file")
	ErrParseFile      = errors.New("failed to parse targets file")
	ErrInvalidFile    = errors.New("invalid targets file")
	ErrUnknownBackend = errors.New("unknown backend")
	ErrNilFactory     = errors.New("store factory is required")
)
