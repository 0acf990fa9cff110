// Command seed-catalog fills the Categories, Products and Inventory tables,
// either with a small demo catalog or from a legacy Mongo database.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	awspkg "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/pkg/aws"
	ddb "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/pkg/dynamodb"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/config"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/logger"
)

func main() {
	_ = godotenv.Load()

	var (
		source, mongoURI, dbName, location string
		tables                             Tables
		dryRun                             bool
	)
	flag.StringVar(&source, "source", "builtin", "builtin or mongo")
	flag.StringVar(&mongoURI, "mongo", os.Getenv("MONGO_DB_URL"), "MongoDB URI (source=mongo)")
	flag.StringVar(&dbName, "db", os.Getenv("MONGO_DB_NAME"), "MongoDB database name (source=mongo)")
	flag.StringVar(&location, "location", config.GetEnv("SEED_LOCATION", "main-warehouse"), "inventory location for seeded stock; empty skips inventory")
	flag.StringVar(&tables.Categories, "categories-table", config.GetEnv("CATEGORIES_TABLE", "Categories"), "DynamoDB categories table")
	flag.StringVar(&tables.Products, "products-table", config.GetEnv("PRODUCTS_TABLE", "Products"), "DynamoDB products table")
	flag.StringVar(&tables.Inventory, "inventory-table", config.GetEnv("INVENTORY_TABLE", "Inventory"), "DynamoDB inventory table")
	flag.BoolVar(&dryRun, "dry-run", false, "print counts without writing")
	flag.Parse()

	log := logger.Initialize(config.GetEnv("APP_ENV", "development"))
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	var cat Catalog
	switch source {
	case "builtin":
		cat = Builtin(location, time.Now())
	case "mongo":
		if mongoURI == "" || dbName == "" {
			log.Fatal("MONGO_DB_URL and MONGO_DB_NAME must be set or provided via flags")
		}
		products, categories, err := loadLegacy(ctx, mongoURI, dbName)
		if err != nil {
			log.Fatal("reading legacy catalog failed", zap.Error(err))
		}
		cat = fromLegacy(products, categories, location, time.Now())
	default:
		log.Fatal("unknown source", zap.String("source", source))
	}

	fields := []zap.Field{
		zap.String("source", source),
		zap.Int("categories", len(cat.Categories)),
		zap.Int("products", len(cat.Products)),
		zap.Int("inventory", len(cat.Inventory)),
	}
	if dryRun {
		log.Info("dry run, nothing written", fields...)
		return
	}

	awsCfg, err := awspkg.LoadAWSConfig(ctx)
	if err != nil {
		log.Fatal("aws config", zap.Error(err))
	}
	if err := Write(ctx, ddb.NewClientFromConfig(awsCfg), tables, cat); err != nil {
		log.Fatal("seeding failed", zap.Error(err))
	}
	log.Info("catalog seeded", fields...)
}
