package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	ddb "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/pkg/dynamodb"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/auth"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/server"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/validation"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/inventory-service/controllers"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/inventory-service/repository"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/inventory-service/routes"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/inventory-service/services"
)

func main() {
	ctx := context.Background()
	cfg := LoadConfig(ctx)

	rt, err := server.Bootstrap(ctx, cfg.Base)
	if err != nil {
		log.Fatalf("bootstrap failed: %v", err)
	}
	logger := rt.Logger

	repo := repository.NewDynamoInventoryRepository(ddb.NewClientFromConfig(rt.AWS), repository.Tables{
		Inventory: cfg.InventoryTable,
		Products:  cfg.ProductsTable,
	})
	svc := services.NewInventoryService(repo, rt.Metrics, logger)

	r := server.NewRouter(cfg.Base, logger, rt.Metrics)
	routes.RegisterRoutes(r, auth.DefaultResolver(cfg.JWTSecret), controllers.NewInventoryController(svc, validation.NewRequestValidator()))

	if err := rt.Run(ctx, r); err != nil {
		logger.Fatal("inventory-service exited", zap.Error(err))
	}
}
