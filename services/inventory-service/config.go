package main

import (
	"context"

	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/config"
)

type Config struct {
	config.Base

	InventoryTable string
	ProductsTable  string
}

func LoadConfig(ctx context.Context) *Config {
	cfg := &Config{
		Base:           config.LoadBase("inventory-service", "8084"),
		InventoryTable: config.GetEnv("INVENTORY_TABLE", "Inventory"),
		ProductsTable:  config.GetEnv("PRODUCTS_TABLE", "Products"),
	}
	cfg.ApplySecrets(ctx, nil)
	return cfg
}
