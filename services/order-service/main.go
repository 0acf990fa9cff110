package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	awspkg "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/pkg/aws"
	ddb "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/pkg/dynamodb"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/auth"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/idempotency"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/server"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/validation"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/order-service/controllers"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/order-service/kafka"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/order-service/repository"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/order-service/routes"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/order-service/services"
)

func main() {
	ctx := context.Background()
	cfg := LoadConfig(ctx)

	rt, err := server.Bootstrap(ctx, cfg.Base)
	if err != nil {
		log.Fatalf("bootstrap failed: %v", err)
	}
	logger := rt.Logger

	repo := repository.NewDynamoOrderRepository(ddb.NewClientFromConfig(rt.AWS), repository.Tables{
		Orders:    cfg.OrdersTable,
		Products:  cfg.ProductsTable,
		Cart:      cfg.CartTable,
		Inventory: cfg.InventoryTable,
	})

	opts := []services.Option{services.WithMetrics(rt.Metrics)}
	if cfg.RedisURL != "" {
		client, err := idempotency.NewClient(cfg.RedisURL)
		if err != nil {
			logger.Fatal("invalid REDIS_URL", zap.Error(err))
		}
		rt.OnShutdown(func(context.Context) error { return client.Close() })
		opts = append(opts, services.WithIdempotency(idempotency.NewRedisStore(client, idempotency.DefaultTTL)))
	} else {
		logger.Info("REDIS_URL not set, Idempotency-Key header is ignored")
	}
	if len(cfg.KafkaBrokers) > 0 {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		rt.OnShutdown(func(context.Context) error { return producer.Close() })
		opts = append(opts, services.WithProducer(producer))
	}
	if cfg.OrderSNSTopicArn != "" {
		opts = append(opts, services.WithSNS(awspkg.NewSNSClient(rt.AWS), cfg.OrderSNSTopicArn))
	}

	orderService := services.NewOrderService(repo, logger, opts...)
	orderController := controllers.NewOrderController(orderService, validation.NewRequestValidator())

	r := server.NewRouter(cfg.Base, logger, rt.Metrics)
	routes.RegisterOrderRoutes(r, auth.DefaultResolver(cfg.JWTSecret), orderController)

	if err := rt.Run(ctx, r); err != nil {
		logger.Fatal("order-service exited", zap.Error(err))
	}
}
