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
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/parts-service/consumer"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/parts-service/controllers"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/parts-service/repository"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/parts-service/routes"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/parts-service/sender"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/parts-service/services"
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
	partsRepo := repository.NewDynamoPartsRepository(client, cfg.PartsTable)
	stockRepo := repository.NewDynamoStockRepository(client, cfg.StockTable)

	notifier := sender.NewSNSNotifier(awspkg.NewSNSClient(rt.AWS), cfg.RemindersTopicArn)
	if !notifier.Configured() {
		logger.Warn("REMINDERS_TOPIC_ARN not set, low stock alerts are disabled")
	}

	partService := services.NewPartService(partsRepo, logger)
	stockService := services.NewStockService(partsRepo, stockRepo, rt.Metrics, logger)
	reorderService := services.NewReorderService(partsRepo, notifier, rt.Metrics, logger)
	analyticsService := services.NewAnalyticsService(partsRepo)
	notificationService := services.NewNotificationService(partsRepo, notifier, logger)

	if cfg.ReorderQueueURL != "" {
		pollCtx, cancel := context.WithCancel(ctx)
		rt.OnShutdown(func(context.Context) error {
			cancel()
			return nil
		})
		sqsConsumer := awspkg.NewSQSConsumer(rt.AWS, cfg.ReorderQueueURL, logger)
		go consumer.Start(pollCtx, sqsConsumer, consumer.NewReorderTrigger(reorderService, rt.Metrics, logger))
	}

	v := validation.NewRequestValidator()
	r := server.NewRouter(cfg.Base, logger, rt.Metrics)
	routes.RegisterRoutes(r, auth.DefaultResolver(cfg.JWTSecret), routes.Controllers{
		Parts:   controllers.NewPartsController(partService, v),
		Stock:   controllers.NewStockController(stockService, v),
		Reorder: controllers.NewReorderController(reorderService, analyticsService, notificationService, v),
	})

	if err := rt.Run(ctx, r); err != nil {
		logger.Fatal("parts-service exited", zap.Error(err))
	}
}
