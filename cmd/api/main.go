package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ecomsuite/storefront/api/controllers"
	"github.com/ecomsuite/storefront/api/routes"
	"github.com/ecomsuite/storefront/internal/cart"
	"github.com/ecomsuite/storefront/internal/catalog"
	"github.com/ecomsuite/storefront/internal/catalog/source"
	"github.com/ecomsuite/storefront/pkg/config"
	"github.com/ecomsuite/storefront/pkg/db"
	"github.com/ecomsuite/storefront/pkg/logger"
	"github.com/ecomsuite/storefront/pkg/metrics"
	"github.com/ecomsuite/storefront/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	ctx := context.Background()
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	commerceMetrics := metrics.NewCommerceMetrics(registry)

	pingers := map[string]controllers.Pinger{}

	var backend cart.Backend
	switch cfg.Cart.Storage {
	case config.CartStorageRedis:
		redisClient, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(ctx, "error closing redis", err)
			}
		}()
		pingers["redis"] = redisClient
		backend = cart.NewRedisBackend(redisClient, cfg.Cart.SnapshotTTL)
	case config.CartStorageDB:
		dbClient, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap database", err)
			os.Exit(1)
		}
		defer func() {
			if err := dbClient.Close(); err != nil {
				logg.Error(ctx, "error closing database", err)
			}
		}()
		pingers["db"] = dbClient
		gormBackend := cart.NewGormBackend(dbClient.DB())
		if err := gormBackend.Migrate(); err != nil {
			logg.Error(ctx, "failed to migrate cart snapshots", err)
			os.Exit(1)
		}
		backend = gormBackend
	default:
		backend = cart.NewMemoryBackend()
	}

	hooks := cart.Hooks{
		OnMutation: commerceMetrics.IncCartMutation,
		OnAnomaly: func(operation, detail string) {
			c := logg.WithFields(ctx, map[string]any{"operation": operation, "detail": detail})
			logg.Warn(c, "cart input sanitized")
		},
		OnPersistError: func(err error) {
			logg.Error(ctx, "cart snapshot write failed", err)
		},
	}
	cartStore := cart.NewStore(backend, hooks)

	engine := catalog.NewEngine()
	fetcher, err := source.ForConfig(cfg.Catalog)
	if err != nil {
		logg.Error(ctx, "failed to build catalog source", err)
		os.Exit(1)
	}
	if err := source.Apply(ctx, fetcher, engine); err != nil {
		logg.Error(ctx, "failed to load catalog", err)
		os.Exit(1)
	}
	if cfg.Catalog.RefreshInterval > 0 {
		go refreshCatalog(ctx, cfg.Catalog.RefreshInterval, fetcher, engine, logg)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	startCtx := logg.WithFields(ctx, map[string]any{
		"env":            cfg.App.Env,
		"addr":           addr,
		"catalog_source": cfg.Catalog.Source,
		"cart_storage":   cfg.Cart.Storage,
	})
	logg.Info(startCtx, "starting storefront api")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:    cfg,
			Logger:    logg,
			Engine:    engine,
			CartStore: cartStore,
			Metrics:   commerceMetrics,
			Registry:  registry,
			Pingers:   pingers,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(startCtx, "storefront api stopped unexpectedly", err)
		os.Exit(1)
	}
}

// refreshCatalog re-fetches the collection on a fixed interval. A failed
// fetch keeps the previous collection; the engine is never cleared.
func refreshCatalog(ctx context.Context, interval time.Duration, fetcher source.Fetcher, engine *catalog.Engine, logg *logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		if err := source.Apply(ctx, fetcher, engine); err != nil {
			logg.Error(ctx, "catalog refresh failed", err)
		}
	}
}
