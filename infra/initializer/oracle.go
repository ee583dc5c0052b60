package initializer

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/amirasaad/goldvault/infra/cache"
	infra_provider "github.com/amirasaad/goldvault/infra/provider"
	"github.com/amirasaad/goldvault/pkg/config"
	"github.com/amirasaad/goldvault/pkg/domain/money"
	"github.com/amirasaad/goldvault/pkg/provider"
	"github.com/redis/go-redis/v9"
)

// initOracle builds the configured price source and wraps it in the quote cache.
// A zero CacheTTL disables caching.
func initOracle(cfg *config.Oracle, redisCfg *config.Redis, logger *slog.Logger) (provider.PriceOracle, func() error, error) {
	noop := func() error { return nil }

	var source provider.PriceOracle
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case "", "fixed":
		price, err := money.NewPriceFromString(cfg.FixedPrice)
		if err != nil {
			return nil, noop, fmt.Errorf("ORACLE_FIXED_PRICE: %w", err)
		}
		source = infra_provider.NewFixedPrice(price)
	case "sheet":
		sheet, err := infra_provider.LoadPriceSheet(cfg.SheetPath)
		if err != nil {
			return nil, noop, err
		}
		source = sheet
	case "http":
		if cfg.URL == "" {
			return nil, noop, fmt.Errorf("ORACLE_URL is required for the http oracle")
		}
		source = infra_provider.NewHTTPOracle(*cfg, logger)
	default:
		return nil, noop, fmt.Errorf("unsupported oracle kind %q", cfg.Kind)
	}

	if cfg.CacheTTL <= 0 {
		logger.Info("Price oracle initialized", "source", source.Name(), "cache", "none")
		return source, noop, nil
	}

	switch strings.ToLower(strings.TrimSpace(cfg.CacheKind)) {
	case "", "memory":
		logger.Info("Price oracle initialized", "source", source.Name(), "cache", "memory", "ttl", cfg.CacheTTL)
		return infra_provider.NewCached(source, cache.NewMemoryCache(), cfg.CacheTTL, logger).WithFetchTimeout(cfg.HTTPTimeout), noop, nil
	case "redis":
		if redisCfg == nil || redisCfg.URL == "" {
			return nil, noop, fmt.Errorf("REDIS_URL is required for the redis quote cache")
		}
		opt, err := redis.ParseURL(redisCfg.URL)
		if err != nil {
			return nil, noop, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		opt.PoolSize = redisCfg.PoolSize
		opt.DialTimeout = redisCfg.DialTimeout
		opt.ReadTimeout = redisCfg.ReadTimeout
		opt.WriteTimeout = redisCfg.WriteTimeout
		rc := cache.NewRedisCache(opt, redisCfg.KeyPrefix, logger)
		logger.Info("Price oracle initialized", "source", source.Name(), "cache", "redis", "ttl", cfg.CacheTTL)
		return infra_provider.NewCached(source, rc, cfg.CacheTTL, logger).WithFetchTimeout(cfg.HTTPTimeout), rc.Close, nil
	default:
		return nil, noop, fmt.Errorf("unsupported oracle cache kind %q", cfg.CacheKind)
	}
}
