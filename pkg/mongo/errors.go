package mongo

import (
	"context"
	"errors"

	"github.com/sethvargo/go-retry"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

var (
	ErrFailedToConnectToMongo = errors.New("failed to connect to mongo")
	ErrHealthcheckFailed      = errors.New("mongo healthcheck failed")
	ErrMissingDatabase        = errors.New("mongo database name is required")
	ErrInvalidCollection      = errors.New("invalid collection config")
	ErrInvalidCursor          = errors.New("invalid cursor for id type")
	ErrUnsupportedID          = errors.New("unsupported _id type")
	ErrListFailed             = errors.New("failed to list documents")
	ErrUpdateFailed           = errors.New("failed to update document")
	ErrDocumentNotFound       = errors.New("document not found")
	ErrConvertValue           = errors.New("failed to convert bson value")
)

// IsRetryableError reports whether err is a network error or a server
// timeout. Cancellation of the caller's context is never retryable.
func IsRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	return mongo.IsNetworkError(err) || mongo.IsTimeout(err)
}

func wrap(sentinel, err error) error {
	err = errors.Join(sentinel, err)
	if IsRetryableError(err) {
		return retry.RetryableError(err)
	}
	return err
}
