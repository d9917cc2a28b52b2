/*
 * Copyright (c) 2025 Alessandro Faranda Gancio (dba TraceApi)
 *
 * This source code is licensed under the Business Source License 1.1.
 *
 * Change Date: 2027-11-21
 * Change License: AGPL-3.0
 */

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sematx/opendata-seed/internal/config"
	"github.com/sematx/opendata-seed/internal/core/ports"
	"github.com/sematx/opendata-seed/internal/core/service"
	"github.com/sematx/opendata-seed/internal/platform/broker"
	"github.com/sematx/opendata-seed/internal/platform/bus"
	"github.com/sematx/opendata-seed/internal/platform/cache"
	"github.com/sematx/opendata-seed/internal/platform/logger"
	"github.com/sematx/opendata-seed/internal/platform/storage/local"
	"github.com/sematx/opendata-seed/internal/platform/storage/s3"
)

func main() {
	// 1. Config
	cfg := config.Load()

	logg, err := logger.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Invalid logger config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Infrastructure
	source, err := newSeedSource(ctx, cfg)
	if err != nil {
		logg.Error("invalid data source", "data_dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}

	client := broker.NewClient(broker.Config{
		BaseURL: cfg.BrokerURL,
		Token:   cfg.BrokerToken,
	})

	var events ports.EventBus
	if cfg.RedisEnabled() {
		rdb := cache.NewRedisClient(cfg.RedisAddr)
		defer rdb.Close()
		events = bus.NewRedisEventBus(rdb)
	}

	// 3. Wiring
	svc, err := service.NewLoaderService(client, source, events, logg, service.DefaultLoaderOptions(cfg.BrokerURL))
	if err != nil {
		logg.Error("failed to initialize loader", "error", err)
		os.Exit(1)
	}

	// 4. Run
	summary, err := svc.Run(ctx)
	if err != nil {
		logg.Error("seed load aborted", "error", err)
		os.Exit(1)
	}
	logg.Info("seed load finished", "total_entities", summary.TotalSucceeded(), "failed", summary.TotalFailed(), "files", len(summary.Files))
}

func newSeedSource(ctx context.Context, cfg *config.Config) (ports.SeedSource, error) {
	if !s3.IsURL(cfg.DataDir) {
		return local.NewDirSource(cfg.DataDir), nil
	}
	client, err := s3.NewClient(ctx, s3.Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		return nil, err
	}
	return s3.NewSeedSource(client, cfg.DataDir)
}
