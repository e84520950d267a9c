package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/textfix/pkg/reconcile"
)

// CheckpointStore keeps reconcile cursors in one Redis hash, one field per
// target. Every save refreshes the TTL of the hash.
type CheckpointStore struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

var _ reconcile.Checkpointer = (*CheckpointStore)(nil)

// NewCheckpointStore creates a store under "<namespace>:checkpoints".
// A zero ttl never expires the hash.
func NewCheckpointStore(client redis.UniversalClient, namespace string, ttl time.Duration) (*CheckpointStore, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	if namespace == "" {
		namespace = "textfix"
	}
	return &CheckpointStore{
		client: client,
		key:    namespace + ":checkpoints",
		ttl:    ttl,
	}, nil
}

// Key returns the hash key holding the cursors.
func (s *CheckpointStore) Key() string {
	return s.key
}

func (s *CheckpointStore) Load(ctx context.Context, target string) (string, bool, error) {
	cursor, err := s.client.HGet(ctx, s.key, target).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return cursor, true, nil
}

func (s *CheckpointStore) Save(ctx context.Context, target, cursor string) error {
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, s.key, target, cursor)
		if s.ttl > 0 {
			p.Expire(ctx, s.key, s.ttl)
		}
		return nil
	})
	return err
}

func (s *CheckpointStore) Clear(ctx context.Context, target string) error {
	return s.client.HDel(ctx, s.key, target).Err()
}

// All returns every saved cursor keyed by target.
func (s *CheckpointStore) All(ctx context.Context) (map[string]string, error) {
	return s.client.HGetAll(ctx, s.key).Result()
}
