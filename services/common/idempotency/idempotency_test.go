package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, time.Hour), mr
}

func TestRedisStore_ReserveCompleteReplay(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()

	id, reserved, err := s.Reserve(ctx, "u1", "k1")
	require.NoError(t, err)
	assert.True(t, reserved)
	assert.Empty(t, id)

	_, _, err = s.Reserve(ctx, "u1", "k1")
	assert.ErrorIs(t, err, ErrInProgress)

	require.NoError(t, s.Complete(ctx, "u1", "k1", "order-1"))
	id, reserved, err = s.Reserve(ctx, "u1", "k1")
	require.NoError(t, err)
	assert.False(t, reserved)
	assert.Equal(t, "order-1", id)

	assert.Equal(t, time.Hour, mr.TTL("idem:order:u1:k1"))
}

func TestRedisStore_KeysAreScopedPerUser(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Complete(ctx, "u1", "k1", "order-1"))
	_, reserved, err := s.Reserve(ctx, "u2", "k1")
	require.NoError(t, err)
	assert.True(t, reserved)
}

func TestRedisStore_Release(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()

	_, _, err := s.Reserve(ctx, "u1", "k1")
	require.NoError(t, err)
	s.Release(ctx, "u1", "k1")
	assert.False(t, mr.Exists("idem:order:u1:k1"))
}

func TestRedisStore_PendingExpires(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()

	_, _, err := s.Reserve(ctx, "u1", "k1")
	require.NoError(t, err)
	mr.FastForward(3 * time.Minute)

	_, reserved, err := s.Reserve(ctx, "u1", "k1")
	require.NoError(t, err)
	assert.True(t, reserved)
}

func TestNewClient_BadURL(t *testing.T) {
	_, err := NewClient("not a url")
	assert.Error(t, err)
}
