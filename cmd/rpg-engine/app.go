package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-engine/internal/config"
	"github.com/KirkDiggler/rpg-engine/internal/errors"
	"github.com/KirkDiggler/rpg-engine/internal/narrative"
	"github.com/KirkDiggler/rpg-engine/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-engine/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-engine/internal/pkg/rng"
	"github.com/KirkDiggler/rpg-engine/internal/redis"
	sessionrepo "github.com/KirkDiggler/rpg-engine/internal/repositories/session"
)

var cfg *config.Config

// setup loads the configuration, applies flag overrides and installs the logger
func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		loaded.LogLevel = logLevel
	}
	if flags.Changed("seed") {
		loaded.Seed = seedFlag
	}
	if flags.Changed("store") {
		loaded.Store = config.Store(storeFlag)
	}
	if err := loaded.Validate(); err != nil {
		return errors.Wrap(err, "invalid flags")
	}

	level, _ := config.ParseLogLevel(loaded.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg = loaded
	return nil
}

// seed returns the configured seed, generating one when none is set
func seed() string {
	if cfg.Seed != "" {
		return cfg.Seed
	}
	s := idgen.NewUUID("").Generate()
	slog.Info("No seed configured, using a fresh one", "seed", s)
	cfg.Seed = s
	return s
}

func newRNG() *rng.RNG {
	return rng.NewFromSeed(seed())
}

// openRepository connects the configured session store
func openRepository(ctx context.Context) (sessionrepo.Repository, func(), error) {
	clk := clock.New()

	switch cfg.Store {
	case config.StoreRedis:
		client, err := redis.NewClient(cfg.Redis.Addr, &redis.Options{
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			UseTLS:   cfg.Redis.UseTLS,
		})
		if err != nil {
			return nil, nil, err
		}
		if err := redis.Ping(ctx, client); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		repo, err := sessionrepo.NewRedisRepository(&sessionrepo.RedisConfig{Client: client, Clock: clk})
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return repo, func() { _ = client.Close() }, nil

	case config.StoreSQLite:
		repo, err := sessionrepo.OpenSQLite(ctx, &sessionrepo.SQLiteConfig{Path: cfg.SQLite.Path, Clock: clk})
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close() }, nil

	default:
		return nil, nil, errors.FailedPreconditionf("no session store configured (use --store redis or --store sqlite)")
	}
}

// newNarrative returns the Gemini generator when a key is configured, and
// nil otherwise
func newNarrative(ctx context.Context) (narrative.Generator, func()) {
	if !cfg.NarrativeEnabled() {
		return nil, func() {}
	}

	gen, err := narrative.NewGemini(ctx, &narrative.GeminiConfig{
		APIKey: cfg.Gemini.APIKey,
		Model:  cfg.Gemini.Model,
	})
	if err != nil {
		slog.Warn("Narrative generation disabled", "error", err)
		return nil, func() {}
	}
	return gen, func() { _ = gen.Close() }
}
