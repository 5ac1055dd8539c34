package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nulzo/model-catalog/internal/config"
	"github.com/nulzo/model-catalog/internal/core/services"
	"github.com/nulzo/model-catalog/internal/platform/logger"
	"github.com/nulzo/model-catalog/internal/platform/otel"
	"github.com/nulzo/model-catalog/internal/server"
	"github.com/nulzo/model-catalog/internal/store/cache"
	"github.com/nulzo/model-catalog/internal/store/cache/memory"
	"github.com/nulzo/model-catalog/internal/store/cache/redis"
	"github.com/nulzo/model-catalog/internal/store/sqlite"
	"github.com/nulzo/model-catalog/internal/tokenizer"
	"github.com/nulzo/model-catalog/internal/version"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.Format = cfg.Log.Format
	logger.Initialize(logCfg)

	// components log through the global core without the wrapper's caller skip
	log := logger.Get().WithOptions(zap.AddCallerSkip(-1))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, log)
	stop()
	if err != nil {
		logger.Fatal("Model catalog stopped", zap.Error(err))
	}
	logger.Sync()
}

// run serves until ctx is done. Every resource it opens is released before
// it returns, including on error.
func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	if cfg.Tracing.Enabled {
		shutdown, err := otel.InitTracer(ctx, cfg.Tracing.ServiceName, version.Version, log, os.Stdout)
		if err != nil {
			return fmt.Errorf("initialize tracing: %w", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Error("Failed to flush traces", zap.Error(err))
			}
		}()
	}

	repo, err := sqlite.NewSQLiteStorage(cfg.Database.Path, log)
	if err != nil {
		return fmt.Errorf("open database %s: %w", cfg.Database.Path, err)
	}
	defer func() {
		_ = repo.Close()
	}()

	var recordCache cache.Service = memory.New()
	if cfg.Redis.Enabled {
		rc, err := redis.New(ctx, redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer func() {
			_ = rc.Close()
		}()
		recordCache = rc
		log.Info("Using redis record cache", zap.String("addr", cfg.Redis.Addr))
	}

	svc := services.NewModelService(log, repo, recordCache, tokenizer.New(log), cfg.Redis.TTL)
	srv := server.New(cfg, log, svc)

	log.Info("Starting model catalog",
		zap.String("version", version.Version),
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
	)
	return srv.Run(ctx)
}
