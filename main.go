package main

import (
	"context"
	"log"

	"givehub-server/internal/bootstrap"
	"givehub-server/internal/config"
	"givehub-server/internal/observability"
	"givehub-server/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := observability.NewLogger()
	ctx := context.Background()

	deps, err := bootstrap.Initialize(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize dependencies: %v", err)
	}

	srv := server.New(cfg, deps, logger)
	srv.Setup()

	if err := srv.Start(ctx); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	if err := srv.WaitForShutdown(ctx); err != nil {
		log.Fatalf("Shutdown error: %v", err)
	}
}
