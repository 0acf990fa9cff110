package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/models"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client, 0, zap.NewNop()), mr
}

func TestProductRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	_, ok := c.Product(ctx, "p1")
	assert.False(t, ok)

	c.SetProduct(ctx, &models.Product{ProductID: "p1", Name: "Oil", Price: 9.5})
	p, ok := c.Product(ctx, "p1")
	require.True(t, ok)
	assert.Equal(t, "Oil", p.Name)
}

func TestInvalidateDropsListsAndProduct(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.SetList(ctx, "", []models.Product{{ProductID: "p1"}})
	c.SetList(ctx, "brakes", []models.Product{{ProductID: "p2"}})
	c.SetProduct(ctx, &models.Product{ProductID: "p1"})

	list, ok := c.List(ctx, "brakes")
	require.True(t, ok)
	assert.Len(t, list, 1)

	c.Invalidate(ctx, "p1")

	_, ok = c.List(ctx, "")
	assert.False(t, ok)
	_, ok = c.List(ctx, "brakes")
	assert.False(t, ok)
	_, ok = c.Product(ctx, "p1")
	assert.False(t, ok)

	v, err := mr.Get(versionKey)
	require.NoError(t, err)
	assert.Equal(t, "2", v)
}

func TestCorruptEntryIsAMiss(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set(productKeyPrefix+"p1", "{not json"))

	_, ok := c.Product(context.Background(), "p1")
	assert.False(t, ok)
}

func TestRedisDownIsAMiss(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	_, ok := c.List(context.Background(), "")
	assert.False(t, ok)
	c.SetProduct(context.Background(), &models.Product{ProductID: "p1"})
	c.Invalidate(context.Background(), "p1")
}
