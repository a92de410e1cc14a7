package main

import (
	"context"

	"cart-pricing/internal/config"
	"cart-pricing/internal/db"
	"cart-pricing/internal/obs"
	"cart-pricing/internal/seed"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		bootLogger := obs.NewLogger("json", "info")
		bootLogger.Fatal().Err(err).Msg("load config")
	}
	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("component", "seed").Logger()
	if cfg.DBConnString == "" {
		logger.Fatal().Msg("DB_DSN is required")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect db")
	}
	defer pool.Close()

	if err := seed.Apply(ctx, pool, &logger); err != nil {
		logger.Fatal().Err(err).Msg("seed apply")
	}
	logger.Info().Msg("seed applied")
}
