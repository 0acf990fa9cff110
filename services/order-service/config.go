package main

import (
	"context"
	"os"

	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/config"
)

type Config struct {
	config.Base

	OrdersTable      string
	ProductsTable    string
	CartTable        string
	InventoryTable   string
	OrderSNSTopicArn string
	KafkaBrokers     []string
	KafkaTopic       string
}

func LoadConfig(ctx context.Context) *Config {
	cfg := &Config{
		Base:             config.LoadBase("order-service", "8083"),
		OrdersTable:      config.GetEnv("ORDERS_TABLE", "Orders"),
		ProductsTable:    config.GetEnv("PRODUCTS_TABLE", "Products"),
		CartTable:        config.GetEnv("CART_TABLE", "Cart"),
		InventoryTable:   config.GetEnv("INVENTORY_TABLE", "Inventory"),
		OrderSNSTopicArn: os.Getenv("ORDER_SNS_TOPIC_ARN"),
		KafkaBrokers:     config.SplitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:       config.GetEnv("ORDER_EVENTS_TOPIC", "order.created"),
	}
	cfg.ApplySecrets(ctx, map[string]*string{
		"order/REDIS_URL": &cfg.RedisURL,
	})
	return cfg
}
