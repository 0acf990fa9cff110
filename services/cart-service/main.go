package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	ddb "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/pkg/dynamodb"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/cart-service/controllers"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/cart-service/kafka"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/cart-service/repository"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/cart-service/routes"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/cart-service/services"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/auth"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/server"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/validation"
)

func main() {
	ctx := context.Background()
	cfg := LoadConfig(ctx)

	rt, err := server.Bootstrap(ctx, cfg.Base)
	if err != nil {
		log.Fatalf("bootstrap failed: %v", err)
	}
	logger := rt.Logger

	repo := repository.NewDynamoCartRepository(ddb.NewClientFromConfig(rt.AWS), repository.Tables{
		Cart:     cfg.CartTable,
		Products: cfg.ProductsTable,
	})
	cartService := services.NewCartService(repo, logger)

	if len(cfg.KafkaBrokers) > 0 {
		consumeCtx, cancel := context.WithCancel(ctx)
		consumer := kafka.NewOrderConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID, cartService, logger)
		rt.OnShutdown(func(context.Context) error {
			cancel()
			return consumer.Close()
		})
		go func() {
			if err := consumer.Run(consumeCtx); err != nil {
				logger.Error("order event consumer stopped", zap.Error(err))
			}
		}()
	} else {
		logger.Info("KAFKA_BROKERS not set, order reconciliation disabled")
	}

	r := server.NewRouter(cfg.Base, logger, rt.Metrics)
	routes.RegisterRoutes(r, auth.DefaultResolver(cfg.JWTSecret), controllers.NewCartController(cartService, validation.NewRequestValidator()))

	if err := rt.Run(ctx, r); err != nil {
		logger.Fatal("cart-service exited", zap.Error(err))
	}
}
