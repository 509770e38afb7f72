// Package main loads the YAML configuration records and writes them to the
// PostgreSQL record store.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/shooter/internal/config"
	"github.com/cory-johannsen/shooter/internal/game/catalog"
	"github.com/cory-johannsen/shooter/internal/observability"
	"github.com/cory-johannsen/shooter/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	timeout := flag.Duration("timeout", 30*time.Second, "overall seeding deadline")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger := observability.MustLogger(cfg.Logging)
	defer func() { _ = logger.Sync() }()

	c, err := catalog.FromDirs(cfg.Content.WeaponsDir, cfg.Content.EnemiesDir, cfg.Content.RarityFile)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("weapons", len(c.Weapons())),
		zap.Int("enemies", len(c.Enemies())),
		zap.Int("rarities", len(c.Rarities())),
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	defer pool.Close()

	repo := postgres.NewRecordRepository(pool.DB())
	if err := repo.Seed(ctx, c.Weapons(), c.Enemies(), c.Rarities()); err != nil {
		logger.Fatal("seeding records", zap.Error(err))
	}
	logger.Info("seed complete", zap.Duration("elapsed", time.Since(start)))
}
