package memstore

import "errors"

var (
	ErrEmptyID       = errors.New("record id is empty")
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateID   = errors.New("duplicate record id")
	ErrInvalidRecord = errors.New("record must be a JSON object")
	ErrInvalidData   = errors.New("data must be a JSON array of objects")
)
