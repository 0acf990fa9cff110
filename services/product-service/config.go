package main

import (
	"context"
	"os"
	"time"

	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/config"
)

type Config struct {
	config.Base

	ProductsTable   string
	CategoriesTable string
	ImageBucket     string
	ImageURLExpiry  time.Duration
	CacheTTL        time.Duration
}

func LoadConfig(ctx context.Context) *Config {
	cfg := &Config{
		Base:            config.LoadBase("product-service", "8082"),
		ProductsTable:   config.GetEnv("PRODUCTS_TABLE", "Products"),
		CategoriesTable: config.GetEnv("CATEGORIES_TABLE", "Categories"),
		ImageBucket:     os.Getenv("S3_BUCKET_IMAGES"),
		ImageURLExpiry:  config.GetDuration("IMAGE_URL_EXPIRY", 15*time.Minute),
		CacheTTL:        config.GetDuration("PRODUCT_CACHE_TTL", 5*time.Minute),
	}
	cfg.ApplySecrets(ctx, map[string]*string{"product/REDIS_URL": &cfg.RedisURL})
	// presigned URLs are capped at an hour
	if cfg.ImageURLExpiry > time.Hour {
		cfg.ImageURLExpiry = time.Hour
	}
	return cfg
}
