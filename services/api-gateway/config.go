package main

import (
	"context"
	"time"

	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/api-gateway/routes"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/config"
)

type Config struct {
	config.Base

	Upstreams       routes.Upstreams
	UpstreamTimeout time.Duration
}

func LoadConfig(ctx context.Context) *Config {
	cfg := &Config{
		Base: config.LoadBase("api-gateway", "8080"),
		Upstreams: routes.Upstreams{
			Product:   config.GetEnv("PRODUCT_SERVICE_URL", "http://product-service:8082"),
			Cart:      config.GetEnv("CART_SERVICE_URL", "http://cart-service:8081"),
			Order:     config.GetEnv("ORDER_SERVICE_URL", "http://order-service:8083"),
			Inventory: config.GetEnv("INVENTORY_SERVICE_URL", "http://inventory-service:8084"),
			Parts:     config.GetEnv("PARTS_SERVICE_URL", "http://parts-service:8085"),
		},
	}
	cfg.UpstreamTimeout = cfg.RequestTimeout
	cfg.ApplySecrets(ctx, nil)
	return cfg
}
