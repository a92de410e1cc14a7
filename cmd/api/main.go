package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"cart-pricing/internal/config"
	"cart-pricing/internal/db"
	"cart-pricing/internal/httpserver"
	"cart-pricing/internal/lock"
	"cart-pricing/internal/obs"
	"cart-pricing/internal/pricing"
	cartrepo "cart-pricing/internal/repository/cart"
	customerrepo "cart-pricing/internal/repository/customer"
	productrepo "cart-pricing/internal/repository/product"
	cartsvc "cart-pricing/internal/service/cart"
	"cart-pricing/internal/service/catalog"
	pricingsvc "cart-pricing/internal/service/pricing"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		bootLogger := obs.NewLogger("json", "info")
		bootLogger.Fatal().Err(err).Msg("load config")
	}
	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("component", "api").Logger()

	ctx := context.Background()

	var (
		pool   *pgxpool.Pool
		rdb    *redis.Client
		checks []httpserver.ReadinessCheck
	)
	if cfg.NeedsPostgres() {
		pool, err = db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			logger.Fatal().Err(err).Msg("connect to db")
		}
		defer pool.Close()
		checks = append(checks, httpserver.ReadinessCheck{Name: "db", Ping: pool.Ping})
	}
	if cfg.NeedsRedis() {
		rdb, err = db.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("connect to redis")
		}
		defer rdb.Close()
		checks = append(checks, httpserver.ReadinessCheck{
			Name: "redis",
			Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	}

	products, customers := catalogStores(cfg, pool, &logger)
	carts, locker := cartStore(cfg, pool, rdb, &logger)

	pricingMetrics := obs.NewPricingMetrics(cfg.MetricsNamespace, prometheus.DefaultRegisterer)
	engine := pricing.NewEngine(pricing.WithObserver(pricingMetrics.Observe))

	srv := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Carts:              cartsvc.New(carts, products, locker, &logger),
		Pricing:            pricingsvc.New(carts, customers, engine, &logger),
		Catalog:            catalog.New(products, customers),
		Metrics:            obs.NewHTTPMetrics(cfg.MetricsNamespace, prometheus.DefaultRegisterer),
		Checks:             checks,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	logger.Info().
		Str("cart_store", cfg.CartStore).
		Str("catalog_store", cfg.CatalogStore).
		Strs("strategies", engine.Strategies()).
		Msg("starting")

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serverErr:
		logger.Error().Err(err).Msg("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	} else {
		logger.Info().Msg("server stopped")
	}
}

func catalogStores(cfg config.Config, pool *pgxpool.Pool, logger *zerolog.Logger) (productrepo.Repository, customerrepo.Repository) {
	if cfg.CatalogStore == config.StorePostgres {
		return productrepo.NewPostgres(pool, logger), customerrepo.NewPostgres(pool, logger)
	}
	return productrepo.NewSeededMemory(), customerrepo.NewSeededMemory()
}

// cartStore picks the cart backend and a locker shared by every replica using
// it: Redis locks for Redis-backed stores, advisory locks for Postgres.
func cartStore(cfg config.Config, pool *pgxpool.Pool, rdb *redis.Client, logger *zerolog.Logger) (cartrepo.Repository, lock.Locker) {
	switch cfg.CartStore {
	case config.StoreRedis:
		return cartrepo.NewRedis(rdb, cfg.CartTTL, logger), lock.NewRedisLocker(rdb)
	case config.StoreHybrid:
		persistent := cartrepo.NewRedis(rdb, cfg.CartTTL, logger)
		return cartrepo.NewHybrid(cartrepo.NewMemory(), persistent, logger), lock.NewRedisLocker(rdb)
	case config.StorePostgres:
		return cartrepo.NewPostgres(pool, logger), lock.NewPostgresLocker(pool)
	default:
		return cartrepo.NewMemory(), lock.NewKeyedMutex()
	}
}
