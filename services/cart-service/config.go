package main

import (
	"context"
	"os"

	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/config"
)

type Config struct {
	config.Base

	CartTable     string
	ProductsTable string
	KafkaBrokers  []string
	KafkaTopic    string
	KafkaGroupID  string
}

func LoadConfig(ctx context.Context) *Config {
	cfg := &Config{
		Base:          config.LoadBase("cart-service", "8081"),
		CartTable:     config.GetEnv("CART_TABLE", "Cart"),
		ProductsTable: config.GetEnv("PRODUCTS_TABLE", "Products"),
		KafkaBrokers:  config.SplitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:    config.GetEnv("ORDER_EVENTS_TOPIC", "order.created"),
		KafkaGroupID:  config.GetEnv("KAFKA_GROUP_ID", "cart-service"),
	}
	cfg.ApplySecrets(ctx, nil)
	return cfg
}
