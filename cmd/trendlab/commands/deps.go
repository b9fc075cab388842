package commands

import (
	"fmt"

	"github.com/wonny/trendlab/backend/internal/marketdata"
	"github.com/wonny/trendlab/backend/internal/strategy"
	"github.com/wonny/trendlab/backend/pkg/config"
	"github.com/wonny/trendlab/backend/pkg/database"
	"github.com/wonny/trendlab/backend/pkg/logger"
	"github.com/wonny/trendlab/backend/pkg/redis"
)

// stack holds the shared dependencies a command needs. Commands build
// only what they use; the database and Redis are optional.
type stack struct {
	cfg *config.Config
	log *logger.Logger
}

func initStack() (*stack, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return &stack{cfg: cfg, log: logger.New(cfg)}, nil
}

// loadStrategy returns the strategy from --strategy, or the built-in
// baseline when the flag is unset.
func loadStrategy() (*strategy.Config, error) {
	if strategyFile == "" {
		cfg := strategy.Default()
		return &cfg, nil
	}
	return strategy.Load(strategyFile)
}

// newFetcher wires the brapi client with optional cache and store. When
// withStore is false the database is never touched.
func (s *stack) newFetcher(withStore bool) (*marketdata.Fetcher, *database.DB, error) {
	client := marketdata.NewBrapiClient(s.cfg.Brapi, s.log)

	var cache *redis.Cache
	if redisClient, err := redis.New(s.cfg); err != nil {
		s.log.WithError(err).Warn("Redis unavailable, caching disabled")
	} else {
		cache = redis.NewCache(redisClient, "trendlab")
	}

	if !withStore {
		return marketdata.NewFetcher(client, nil, cache, s.log), nil, nil
	}

	db, err := database.New(s.cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	repo := marketdata.NewPriceRepository(db.Pool)
	return marketdata.NewFetcher(client, repo, cache, s.log), db, nil
}
