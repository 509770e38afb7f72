// Package main runs a scripted combat encounter in real time and logs every
// presentation request and the final tally.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/shooter/internal/config"
	"github.com/cory-johannsen/shooter/internal/game/catalog"
	"github.com/cory-johannsen/shooter/internal/game/fx"
	"github.com/cory-johannsen/shooter/internal/gameserver"
	"github.com/cory-johannsen/shooter/internal/observability"
	"github.com/cory-johannsen/shooter/internal/server"
	"github.com/cory-johannsen/shooter/internal/sim"
	"github.com/cory-johannsen/shooter/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	grace := flag.Duration("shutdown-grace", 5*time.Second, "how long to wait for services to stop")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	cat, err := loadCatalog(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("loading records", zap.Error(err))
	}
	logger.Info("records loaded",
		zap.String("source", cfg.Content.Source),
		zap.Int("weapons", len(cat.Weapons())),
		zap.Int("enemies", len(cat.Enemies())),
		zap.Int("rarities", len(cat.Rarities())),
	)

	enc, err := sim.NewEncounter(cfg, cat, sim.Deps{
		Presenter: fx.NewLogPresenter(logger),
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal("building encounter", zap.Error(err))
	}
	defer enc.Close()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if cfg.Simulation.Duration > 0 {
		runCtx, cancel = context.WithTimeout(runCtx, cfg.Simulation.Duration)
		defer cancel()
	}

	loop := gameserver.NewFrameLoop(cfg.Simulation.TickInterval(), func(dt time.Duration) {
		enc.Step(dt)
		if enc.Done() {
			cancel()
		}
	}, logger)

	lc := server.NewLifecycle(logger, *grace)
	lc.Add("frame_loop", server.ServiceFunc(loop.Run))
	logger.Info("encounter starting",
		zap.Int("tick_rate", cfg.Simulation.TickRate),
		zap.Uint64("seed", cfg.Simulation.Seed),
		zap.Duration("duration", cfg.Simulation.Duration),
		zap.Duration("startup", time.Since(start)),
	)
	if err := lc.Run(runCtx); err != nil {
		logger.Error("encounter aborted", zap.Error(err))
	}

	s := enc.Summary()
	logger.Info("encounter finished",
		zap.Uint64("frames", s.Frames),
		zap.Duration("game_time", s.Elapsed),
		zap.Int("shots", s.Shots),
		zap.Int("hits", s.Hits),
		zap.Int("headshots", s.Headshots),
		zap.Float64("damage_dealt", s.DamageDealt),
		zap.Float64("player_health", s.PlayerHealth),
		zap.Bool("player_dead", s.PlayerDead),
		zap.Int("enemies_left", s.EnemiesLeft),
		zap.Duration("wall_time", time.Since(start)),
	)
}

// loadCatalog reads the configuration records from YAML or from PostgreSQL.
func loadCatalog(ctx context.Context, cfg config.Config, logger *zap.Logger) (*catalog.Catalog, error) {
	if cfg.Content.Source != config.SourcePostgres {
		return catalog.FromDirs(cfg.Content.WeaponsDir, cfg.Content.EnemiesDir, cfg.Content.RarityFile)
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	pool, err := postgres.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	defer pool.Close()
	if err := pool.Health(ctx, 5*time.Second); err != nil {
		return nil, err
	}
	logger.Info("database connected", zap.String("host", cfg.Database.Host))
	return catalog.FromSource(ctx, postgres.NewRecordRepository(pool.DB()))
}
