package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/forumhq/forumhq/config"
	"github.com/forumhq/forumhq/internal/application"
	pginfra "github.com/forumhq/forumhq/internal/infrastructure/postgres"
	"github.com/forumhq/forumhq/pkg/helpers"
)

// One-shot rebuild of the location popularity table. Run from cron
// (daily is plenty; the data only drifts as users edit their profile).
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-locations", cfg.Env)

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	svc := application.NewLocationService(pginfra.NewLocationRepository(pool), logger)
	if err := svc.Rebuild(); err != nil {
		logger.WithError(err).Fatal("location rebuild failed")
	}
}
