package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrFailedToOpenDBConnection = errors.New("failed to open db connection")
	ErrEmptyConnectionString    = errors.New("empty postgres connection string, use PG_CONN_URL env var")
	ErrHealthcheckFailed        = errors.New("healthcheck failed, connection is not available")
	ErrFailedToParseDBConfig    = errors.New("failed to parse db config")
	ErrInvalidCollection        = errors.New("invalid collection config")
	ErrInvalidCursor            = errors.New("invalid cursor for id type")
	ErrListFailed               = errors.New("failed to list records")
	ErrUpdateFailed             = errors.New("failed to update record")
	ErrRecordNotFound           = errors.New("record not found")
)

// SQLSTATE codes worth a second attempt.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeTooManyConnections   = "53300"
	codeAdminShutdown        = "57P01"
)

// IsRetryableError reports whether err is a transient failure: a connection
// error raised before the server saw the statement, a network timeout, or a
// serialization conflict. Cancellation of the caller's context is never
// retryable.
func IsRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeSerializationFailure, codeDeadlockDetected, codeTooManyConnections, codeAdminShutdown:
			return true
		}
	}
	return false
}
