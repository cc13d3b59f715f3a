package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"starter-api/internal/cache"
	"starter-api/internal/config"
	"starter-api/internal/database"
	"starter-api/internal/logger"
	"starter-api/internal/server"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logr := logger.New(cfg.ServiceName, cfg.LogLevel)

	err := run(cfg, logr)
	if err != nil {
		logr.Error("Server stopped with error", zap.Error(err))
	}
	_ = logr.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// run returns instead of exiting so deferred cleanup always happens.
func run(cfg *config.Config, logr *zap.Logger) error {
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, logr)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logr.Warn("Failed to close database", zap.Error(err))
		}
	}()

	// Run database migrations
	if err := database.RunMigrations(db, logr); err != nil {
		return err
	}

	// Initialize Redis cache (optional - continue if Redis is unavailable)
	var cacheClient cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			logr.Warn("Failed to connect to Redis, continuing without cache", zap.Error(err))
			cacheClient = nil
		} else {
			logr.Info("Connected to Redis cache")
			defer func() { _ = cacheClient.Close() }()
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv := server.New(cfg, db, cacheClient, reg, logr)
	defer srv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx, ":"+cfg.Port, cfg.ShutdownTimeout)
}
