package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/textfix/pkg/redis"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestCheckpointStore(t *testing.T) {
	ctx := context.Background()

	t.Run("save load clear", func(t *testing.T) {
		mr, client := setupRedis(t)
		store, err := redis.NewCheckpointStore(client, "test", 0)
		require.NoError(t, err)
		assert.Equal(t, "test:checkpoints", store.Key())

		_, ok, err := store.Load(ctx, "Listing")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, store.Save(ctx, "Listing", "a100"))
		require.NoError(t, store.Save(ctx, "Tour", "7"))
		require.NoError(t, store.Save(ctx, "Listing", "a200"))

		cursor, ok, err := store.Load(ctx, "Listing")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "a200", cursor)
		assert.Equal(t, "a200", mr.HGet("test:checkpoints", "Listing"))

		all, err := store.All(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"Listing": "a200", "Tour": "7"}, all)

		require.NoError(t, store.Clear(ctx, "Listing"))
		_, ok, err = store.Load(ctx, "Listing")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, time.Duration(0), mr.TTL("test:checkpoints"))
	})

	t.Run("ttl is refreshed on save", func(t *testing.T) {
		mr, client := setupRedis(t)
		store, err := redis.NewCheckpointStore(client, "", time.Hour)
		require.NoError(t, err)
		assert.Equal(t, "textfix:checkpoints", store.Key())

		require.NoError(t, store.Save(ctx, "Event", "e1"))
		assert.Equal(t, time.Hour, mr.TTL("textfix:checkpoints"))

		mr.FastForward(2 * time.Hour)
		_, ok, err := store.Load(ctx, "Event")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("server error", func(t *testing.T) {
		mr, client := setupRedis(t)
		store, err := redis.NewCheckpointStore(client, "test", 0)
		require.NoError(t, err)

		mr.SetError("LOADING")
		_, _, err = store.Load(ctx, "Listing")
		assert.Error(t, err)
		assert.Error(t, store.Save(ctx, "Listing", "x"))
	})

	t.Run("nil client", func(t *testing.T) {
		_, err := redis.NewCheckpointStore(nil, "test", 0)
		assert.ErrorIs(t, err, redis.ErrNilClient)
	})
}

func TestConnect(t *testing.T) {
	ctx := context.Background()

	t.Run("connects", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client, err := redis.Connect(ctx, redis.Config{
			ConnectionURL:  "redis://" + mr.Addr() + "/0",
			RetryAttempts:  1,
			RetryInterval:  time.Millisecond,
			ConnectTimeout: time.Second,
		})
		require.NoError(t, err)
		defer client.Close()
		assert.NoError(t, redis.Healthcheck(client)(ctx))
	})

	t.Run("invalid url", func(t *testing.T) {
		_, err := redis.Connect(ctx, redis.Config{ConnectionURL: "mysql://nope"})
		assert.ErrorIs(t, err, redis.ErrFailedToParseRedisConnString)
	})

	t.Run("empty url", func(t *testing.T) {
		_, err := redis.Connect(ctx, redis.Config{})
		assert.ErrorIs(t, err, redis.ErrEmptyConnectionURL)
	})

	t.Run("unreachable server", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()
		_, err := redis.Connect(ctx, redis.Config{
			ConnectionURL:  "redis://" + addr,
			RetryAttempts:  2,
			RetryInterval:  time.Millisecond,
			ConnectTimeout: time.Second,
		})
		assert.ErrorIs(t, err, redis.ErrRedisNotReady)
	})
}
