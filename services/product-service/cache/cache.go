// Package cache keeps product reads in Redis. List entries are namespaced by
// a version counter so a single INCR invalidates every cached list.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/models"
)

const (
	productKeyPrefix = "product:detail:"
	listKeyPrefix    = "products:v:"
	versionKey       = "products:version"
	DefaultTTL       = 5 * time.Minute
)

// ProductCache is consulted before DynamoDB and invalidated on every write.
type ProductCache interface {
	Product(ctx context.Context, productID string) (*models.Product, bool)
	SetProduct(ctx context.Context, product *models.Product)
	List(ctx context.Context, category string) ([]models.Product, bool)
	SetList(ctx context.Context, category string, products []models.Product)
	Invalidate(ctx context.Context, productID string)
}

type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
	log    *zap.Logger
}

// NewClient parses a redis:// URL.
func NewClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

func NewRedisCache(client redis.Cmdable, ttl time.Duration, log *zap.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, ttl: ttl, log: log}
}

func (c *RedisCache) Product(ctx context.Context, productID string) (*models.Product, bool) {
	var p models.Product
	if !c.get(ctx, productKeyPrefix+productID, &p) {
		return nil, false
	}
	return &p, true
}

func (c *RedisCache) SetProduct(ctx context.Context, product *models.Product) {
	c.set(ctx, productKeyPrefix+product.ProductID, product)
}

func (c *RedisCache) List(ctx context.Context, category string) ([]models.Product, bool) {
	version, err := c.version(ctx)
	if err != nil {
		return nil, false
	}
	var products []models.Product
	if !c.get(ctx, listKey(version, category), &products) {
		return nil, false
	}
	return products, true
}

func (c *RedisCache) SetList(ctx context.Context, category string, products []models.Product) {
	version, err := c.version(ctx)
	if err != nil {
		c.log.Warn("product cache version unavailable", zap.Error(err))
		return
	}
	c.set(ctx, listKey(version, category), products)
}

// Invalidate bumps the list version and drops the product's own entry.
func (c *RedisCache) Invalidate(ctx context.Context, productID string) {
	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		c.log.Error("failed to invalidate product lists", zap.Error(err), zap.String("product_id", productID))
	}
	if productID == "" {
		return
	}
	if err := c.client.Del(ctx, productKeyPrefix+productID).Err(); err != nil {
		c.log.Warn("failed to delete product cache", zap.Error(err), zap.String("product_id", productID))
	}
}

func (c *RedisCache) version(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		// SETNX so concurrent initialisers agree on the first version
		if err := c.client.SetNX(ctx, versionKey, 1, 0).Err(); err != nil {
			return 0, fmt.Errorf("init cache version: %w", err)
		}
		return c.client.Get(ctx, versionKey).Int64()
	}
	return v, err
}

func (c *RedisCache) get(ctx context.Context, key string, dst interface{}) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("product cache read failed", zap.Error(err), zap.String("key", key))
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Warn("discarding unreadable cache entry", zap.Error(err), zap.String("key", key))
		return false
	}
	return true
}

func (c *RedisCache) set(ctx context.Context, key string, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("product cache write failed", zap.Error(err), zap.String("key", key))
	}
}

func listKey(version int64, category string) string {
	return fmt.Sprintf("%s%d:c:%s", listKeyPrefix, version, category)
}

// Nop is used when REDIS_URL is unset.
type Nop struct{}

func (Nop) Product(context.Context, string) (*models.Product, bool) { return nil, false }
func (Nop) SetProduct(context.Context, *models.Product)             {}
func (Nop) List(context.Context, string) ([]models.Product, bool)   { return nil, false }
func (Nop) SetList(context.Context, string, []models.Product)       {}
func (Nop) Invalidate(context.Context, string)                      {}
