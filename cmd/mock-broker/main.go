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
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/sematx/opendata-seed/internal/config"
	"github.com/sematx/opendata-seed/internal/core/ports"
	"github.com/sematx/opendata-seed/internal/platform/cache"
	"github.com/sematx/opendata-seed/internal/platform/logger"
	"github.com/sematx/opendata-seed/internal/platform/storage/memory"
	"github.com/sematx/opendata-seed/internal/transport/rest"
	authmw "github.com/sematx/opendata-seed/internal/transport/rest/middleware"
)

func main() {
	// 1. Configuration (Env Vars)
	cfg := config.Load()

	logg, err := logger.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Invalid logger config: %v", err)
	}

	// 2. Entity storage: Redis when configured, memory otherwise
	var repo ports.EntityRepository = memory.NewEntityStore()
	if cfg.RedisEnabled() {
		rdb := cache.NewRedisClient(cfg.RedisAddr)
		defer rdb.Close()
		repo = cache.NewEntityStore(rdb)
		logg.Info("using redis entity store", "addr", cfg.RedisAddr)
	}

	// 3. Wiring
	handler := rest.NewBrokerHandler(repo, logg)

	var protect func(http.Handler) http.Handler
	if cfg.BrokerRequireAuth {
		protect = authmw.AuthMiddleware(cfg.JWTSecret, logg)
		logg.Info("bearer token required on entity routes")
	}

	// 4. Router Setup
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	if cfg.RateLimitRPS > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimitRPS, time.Second))
	}

	handler.RegisterRoutes(r, protect)

	// 5. Start Server
	port := ":" + cfg.Port
	logg.Info("mock NGSI-LD broker starting", "addr", port)
	if err := http.ListenAndServe(port, r); err != nil {
		logg.Error("server failed", "error", err)
		os.Exit(1)
	}
}
