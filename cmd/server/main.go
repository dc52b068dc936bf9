package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront-embed/internal/api"
	"github.com/jafarshop/storefront-embed/internal/config"
	"github.com/jafarshop/storefront-embed/internal/domain"
	"github.com/jafarshop/storefront-embed/internal/repository"
	"github.com/jafarshop/storefront-embed/internal/repository/memory"
	"github.com/jafarshop/storefront-embed/internal/repository/postgres"
	redisrepo "github.com/jafarshop/storefront-embed/internal/repository/redis"
	"github.com/jafarshop/storefront-embed/internal/storefront"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting storefront embed server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("shop_domain", cfg.Storefront.ShopDomain),
		zap.String("cart_storage", cfg.CartStorage.String()),
	)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 10*time.Second)
	repos, closeRepos, err := openRepositories(startCtx, cfg, logger)
	cancelStart()
	if err != nil {
		logger.Fatal("Failed to open client storage", zap.Error(err))
	}
	defer closeRepos()

	client := storefront.NewClient(cfg.Storefront, logger)

	// Initialize router
	router := api.NewRouter(cfg, client, repos, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started successfully",
		zap.String("address", srv.Addr),
		zap.String("endpoint", client.Endpoint()),
	)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// newLogger builds the production or development logger at LOG_LEVEL
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if cfg.Environment == "production" {
		zc = zap.NewProductionConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	zc.Level = level
	return zc.Build()
}

// openRepositories opens the server-side client storage selected by CART_STORAGE.
// The cookie backend needs none and returns nil repositories.
func openRepositories(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*repository.Repositories, func(), error) {
	noop := func() {}

	switch cfg.CartStorage {
	case domain.StorageMemory:
		return &repository.Repositories{ClientStorage: memory.NewClientStorageRepository()}, noop, nil

	case domain.StorageRedis:
		client, err := redisrepo.NewConnection(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, noop, err
		}
		repos := &repository.Repositories{
			ClientStorage: redisrepo.NewClientStorageRepository(client, redisrepo.DefaultTTL, logger),
		}
		return repos, func() { client.Close() }, nil

	case domain.StoragePostgres:
		db, err := postgres.NewConnection(ctx, cfg.Database)
		if err != nil {
			return nil, noop, err
		}
		return postgres.NewRepositories(db, logger), func() { db.Close() }, nil
	}

	return nil, noop, nil
}
