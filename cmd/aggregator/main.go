package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/studiopulse/aggregator/internal/config"
	"github.com/studiopulse/aggregator/internal/database"
	"github.com/studiopulse/aggregator/internal/identity"
	"github.com/studiopulse/aggregator/internal/logging"
	"github.com/studiopulse/aggregator/internal/migrations"
	"github.com/studiopulse/aggregator/internal/silver"
	"github.com/studiopulse/aggregator/internal/sources"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Logging.Level)

	db, err := database.NewDB(cfg.Database.DSN, cfg.Database.Debug)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := migrations.RunMigrations(ctx, db); err != nil {
		logger.Error("run migrations", "error", err)
		os.Exit(1)
	}

	aggregator := silver.New(db,
		identity.NewDeriver(cfg.IdentityKeys),
		sources.NewRegistry(cfg.Sources),
		silver.Options{
			BootstrapWindow: time.Duration(cfg.Aggregation.BootstrapWindow),
			Logger:          logger,
		})

	stats, err := aggregator.Run(ctx)
	if err != nil {
		logger.Error("aggregation failed", "error", err)
		os.Exit(1)
	}

	logger.Info("silver aggregation summary",
		"processed", stats.Processed,
		"inserted", stats.Inserted,
		"updated", stats.Updated,
		"cancelled", stats.Cancelled)
}
