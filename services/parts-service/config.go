package main

import (
	"context"
	"os"

	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/config"
)

type Config struct {
	config.Base

	PartsTable        string
	StockTable        string
	RemindersTopicArn string
	ReorderQueueURL   string
}

func LoadConfig(ctx context.Context) *Config {
	cfg := &Config{
		Base:              config.LoadBase("parts-service", "8085"),
		PartsTable:        config.GetEnv("PARTS_TABLE", "Parts"),
		StockTable:        config.GetEnv("STOCK_TABLE", "Stock"),
		RemindersTopicArn: os.Getenv("REMINDERS_TOPIC_ARN"),
		ReorderQueueURL:   os.Getenv("REORDER_QUEUE_URL"),
	}
	cfg.ApplySecrets(ctx, nil)
	return cfg
}
