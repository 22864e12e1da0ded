//go:build integration

package session

import (
	"context"
	"os"
	"testing"
	"time"

	"example.com/ciphermind/internal/game"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, rdb.Ping(ctx).Err(), "redis is not reachable")
	return rdb
}

func TestRedisPersistence_CreatePlayRestore(t *testing.T) {
	ctx := context.Background()
	rdb := newRedisClient(t)
	require.NoError(t, rdb.FlushDB(ctx).Err())

	persist := NewRedisStore(rdb, time.Hour)

	svc1 := NewService(game.DefaultRules(), zeroSource{}, persist, time.Hour, nil)
	sess, err := svc1.Create(ctx)
	require.NoError(t, err)

	_, _, err = sess.SubmitGuess("GGGG")
	require.NoError(t, err)
	_, v, err := sess.SubmitGuess("RRRR")
	require.NoError(t, err)
	require.Equal(t, game.StatusWon, v.State.Status)

	// simulate a restart: a new service with an empty cache
	svc2 := NewService(game.DefaultRules(), zeroSource{}, persist, time.Hour, nil)
	restored, ok, err := svc2.GetOrLoad(ctx, sess.ID())
	require.NoError(t, err)
	require.True(t, ok)

	got := restored.View()
	require.Equal(t, game.StatusWon, got.State.Status)
	require.Equal(t, 2, got.State.Attempt)
	require.Equal(t, "RRRR", got.State.Secret.String())
	require.Len(t, got.State.History, 2)
}

func TestRedisPersistence_TTLApplied(t *testing.T) {
	ctx := context.Background()
	rdb := newRedisClient(t)
	require.NoError(t, rdb.FlushDB(ctx).Err())

	persist := NewRedisStore(rdb, time.Minute)
	svc := NewService(game.DefaultRules(), zeroSource{}, persist, time.Hour, nil)
	sess, err := svc.Create(ctx)
	require.NoError(t, err)

	ttl, err := rdb.TTL(ctx, persist.key(sess.ID())).Result()
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))
	require.LessOrEqual(t, ttl, time.Minute)
}

func TestRedisPersistence_Missing(t *testing.T) {
	ctx := context.Background()
	persist := NewRedisStore(newRedisClient(t), time.Minute)

	_, ok, err := persist.Load(ctx, "does-not-exist")
	require.NoError(t, err)
	require.False(t, ok)
}
