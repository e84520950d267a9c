package reconcile

import (
	"errors"
	"fmt"
)

// Configuration errors. Run returns them before any record is read.
var (
	ErrInvalidMode      = errors.New("mode must be either \"dry-run\" or \"apply\"")
	ErrInvalidBatchSize = errors.New("batch size must be a positive integer")
	ErrInvalidLimit     = errors.New("limit must be a positive integer when set")
	ErrUnknownTarget    = errors.New("unknown target")
	ErrNoTargets        = errors.New("no targets registered")
	ErrDuplicateTarget  = errors.New("target is already registered")
	ErrInvalidTarget    = errors.New("invalid target definition")
	ErrNilRegistry      = errors.New("registry cannot be nil")
)

// Scan errors. They end one target and are recorded in the report.
var (
	ErrReadPage      = errors.New("failed to read page")
	ErrCursorStalled = errors.New("store returned a record that was already visited")
)

// Persistence errors.
var (
	ErrUpdateRecord = errors.New("failed to update record")
	ErrCheckpoint   = errors.New("failed to access checkpoint")
)

var configErrors = []error{
	ErrInvalidMode,
	ErrInvalidBatchSize,
	ErrInvalidLimit,
	ErrUnknownTarget,
	ErrNoTargets,
	ErrDuplicateTarget,
	ErrInvalidTarget,
	ErrNilRegistry,
}

// IsConfigError reports whether err was caused by invalid run options or
// target definitions.
func IsConfigError(err error) bool {
	for _, target := range configErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// RecordError is a persistence failure for a single record.
type RecordError struct {
	Target   string
	RecordID string
	Err      error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Target, e.RecordID, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// TargetError is a failure that ended the scan of one target early.
type TargetError struct {
	Target string
	Err    error
}

func (e *TargetError) Error() string {
	return fmt.Sprintf("%s: %v", e.Target, e.Err)
}

func (e *TargetError) Unwrap() error {
	return e.Err
}

// IsRecordError reports whether err wraps a RecordError.
func IsRecordError(err error) bool {
	var e *RecordError
	return errors.As(err, &e)
}

// IsTargetError reports whether err wraps a TargetError.
func IsTargetError(err error) bool {
	var e *TargetError
	return errors.As(err, &e)
}
