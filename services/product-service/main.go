package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	awspkg "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/pkg/aws"
	ddb "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/pkg/dynamodb"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/auth"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/server"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/validation"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/product-service/cache"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/product-service/controllers"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/product-service/repository"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/product-service/routes"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/product-service/services"
)

func main() {
	ctx := context.Background()
	cfg := LoadConfig(ctx)

	rt, err := server.Bootstrap(ctx, cfg.Base)
	if err != nil {
		log.Fatalf("bootstrap failed: %v", err)
	}
	logger := rt.Logger

	client := ddb.NewClientFromConfig(rt.AWS)
	productRepo := repository.NewDynamoProductRepository(client, cfg.ProductsTable)
	categoryRepo := repository.NewDynamoCategoryRepository(client, cfg.CategoriesTable)

	var productCache cache.ProductCache = cache.Nop{}
	if cfg.RedisURL != "" {
		redisClient, err := cache.NewClient(cfg.RedisURL)
		if err != nil {
			logger.Fatal("invalid REDIS_URL", zap.Error(err))
		}
		rt.OnShutdown(func(context.Context) error { return redisClient.Close() })
		productCache = cache.NewRedisCache(redisClient, cfg.CacheTTL, logger)
	}

	var presigner services.Presigner
	if cfg.ImageBucket != "" {
		presigner = awspkg.NewS3Presigner(rt.AWS, cfg.ImageBucket, cfg.ImageURLExpiry)
	} else {
		logger.Warn("S3_BUCKET_IMAGES not set, image upload URLs are disabled")
	}

	v := validation.NewRequestValidator()
	productController := controllers.NewProductController(
		services.NewProductService(productRepo, productCache, presigner, logger), v)
	categoryController := controllers.NewCategoryController(
		services.NewCategoryService(categoryRepo, logger), v)

	r := server.NewRouter(cfg.Base, logger, rt.Metrics)
	routes.RegisterRoutes(r, auth.DefaultResolver(cfg.JWTSecret), productController, categoryController)

	if err := rt.Run(ctx, r); err != nil {
		logger.Fatal("product-service exited", zap.Error(err))
	}
}
