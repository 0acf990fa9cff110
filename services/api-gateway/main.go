package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/api-gateway/proxy"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/api-gateway/routes"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/auth"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/server"
)

func main() {
	ctx := context.Background()
	cfg := LoadConfig(ctx)

	rt, err := server.Bootstrap(ctx, cfg.Base)
	if err != nil {
		log.Fatalf("bootstrap failed: %v", err)
	}
	logger := rt.Logger

	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set, protected routes will reject every request")
	}
	// Clients never get to assert identity through headers at the edge.
	resolver := auth.NewResolver(auth.BearerToken{Secret: []byte(cfg.JWTSecret)})

	r := server.NewRouter(cfg.Base, logger, rt.Metrics)
	routes.RegisterRoutes(r, resolver, proxy.NewForwarder(cfg.UpstreamTimeout, logger), cfg.Upstreams)

	logger.Info("gateway upstreams",
		zap.String("product", cfg.Upstreams.Product),
		zap.String("cart", cfg.Upstreams.Cart),
		zap.String("order", cfg.Upstreams.Order),
		zap.String("inventory", cfg.Upstreams.Inventory),
		zap.String("parts", cfg.Upstreams.Parts))

	if err := rt.Run(ctx, r); err != nil {
		logger.Fatal("api-gateway exited", zap.Error(err))
	}
}
