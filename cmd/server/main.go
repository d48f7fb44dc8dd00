package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/haircare/backend/config"
	httpDelivery "github.com/haircare/backend/internal/delivery/http"
	"github.com/haircare/backend/internal/domain"
	"github.com/haircare/backend/internal/infrastructure/cache"
	"github.com/haircare/backend/internal/infrastructure/memstore"
	"github.com/haircare/backend/internal/infrastructure/postgres"
	"github.com/haircare/backend/internal/platform/logger"
	"github.com/haircare/backend/internal/usecase"
)

const version = "1.0.0"

func main() {
	// Load .env file if it exists
	if err := config.LoadEnvFile(); err != nil {
		log.Printf("Failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Encoding, cfg.Logger.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	appLogger.Info("starting haircare backend",
		"version", version,
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"catalog_driver", cfg.Catalog.Driver,
		"cache_type", cfg.Cache.Type,
	)

	ctx := context.Background()

	catalog, closeCatalog, err := openCatalog(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("could not open catalog", "error", err)
	}
	defer closeCatalog()

	responseCache, closeCache, err := openCache(ctx, cfg)
	if err != nil {
		appLogger.Fatal("could not open cache", "error", err)
	}
	defer closeCache()

	engine := usecase.NewRecommendationEngine(catalog, usecase.EngineConfig{
		MaxResults:     cfg.Recommend.MaxResults,
		MaxSimilar:     cfg.Recommend.MaxSimilar,
		MaxConcurrency: cfg.Recommend.MaxConcurrency,
	}, appLogger)

	recommendations := usecase.NewRecommendationService(engine, responseCache, usecase.RecommendationServiceConfig{
		CacheTTL:        cfg.Cache.TTL,
		CacheType:       cfg.Cache.Type,
		MaxProductTypes: cfg.Recommend.MaxProductTypes,
	}, appLogger)
	products := usecase.NewProductService(catalog, recommendations)

	handler := httpDelivery.NewHandler(recommendations, products, appLogger)
	router := httpDelivery.SetupRouter(cfg, handler, appLogger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server forced to shutdown", "error", err)
	}
	appLogger.Info("server exited")
}

// openCatalog builds the catalog store selected by catalog.driver
func openCatalog(ctx context.Context, cfg *config.Config, appLogger *logger.Logger) (domain.CatalogRepository, func(), error) {
	switch cfg.Catalog.Driver {
	case "postgres":
		db, err := postgres.Open(ctx, postgres.Config{
			DSN:             cfg.Database.DSN,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		})
		if err != nil {
			return nil, nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := postgres.Migrate(ctx, db); err != nil {
				_ = db.Close()
				return nil, nil, err
			}
			appLogger.Info("catalog schema applied")
		}
		appLogger.Info("connected to postgres catalog")
		return postgres.NewCatalogRepository(db), closeDB(db, appLogger), nil

	default:
		catalog, err := memstore.LoadFile(cfg.Catalog.SeedFile)
		if err != nil {
			return nil, nil, err
		}
		productCount, ingredientCount := catalog.Counts()
		appLogger.Info("loaded catalog file",
			"path", cfg.Catalog.SeedFile,
			"products", productCount,
			"ingredients", ingredientCount,
		)
		return catalog, func() {}, nil
	}
}

func closeDB(db *sqlx.DB, appLogger *logger.Logger) func() {
	return func() {
		if err := db.Close(); err != nil {
			appLogger.Warn("failed to close database", "error", err)
		}
	}
}

// openCache builds the response cache selected by cache.type. A nil cache
// disables caching.
func openCache(ctx context.Context, cfg *config.Config) (domain.CacheRepository, func(), error) {
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL, "haircare:")
		if err != nil {
			return nil, nil, err
		}
		return redisCache, func() { _ = redisCache.Close() }, nil
	case "memory":
		memoryCache := cache.NewMemoryCache(0)
		return memoryCache, func() { _ = memoryCache.Close() }, nil
	default:
		return nil, func() {}, nil
	}
}
