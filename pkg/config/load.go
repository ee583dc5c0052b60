package config

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load builds the App configuration. Every name in envFiles that FindEnvFile
// resolves is loaded, earlier files taking precedence; when none resolves,
// .env is tried. Variables already set in the process always win over files.
// A file that exists but does not parse is an error, as are ledger limits that
// do not fit their fixed-point units.
func Load(envFiles ...string) (*App, error) {
	logger := slog.Default().With("component", "config")

	var found []string
	for _, name := range envFiles {
		path, err := FindEnvFile(name)
		if err != nil {
			logger.Debug("Env file not found", "name", name)
			continue
		}
		found = append(found, path)
	}
	if len(found) == 0 {
		if path, err := FindEnvFile(".env"); err == nil {
			found = append(found, path)
		}
	}
	if len(found) > 0 {
		if err := godotenv.Load(found...); err != nil {
			return nil, fmt.Errorf("load env files %v: %w", found, err)
		}
		logger.Info("Env files loaded", "files", found)
	}

	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	limits, err := cfg.Ledger.Limits()
	if err != nil {
		return nil, err
	}

	logger.Info("Config loaded",
		"env", cfg.Env,
		"db", maskValue(cfg.DB.Url),
		slog.Group("ledger",
			"currency", cfg.Ledger.Currency,
			"min_investment", limits.MinInvestment.String(),
			"min_sell", limits.MinSell.String(),
			"max_deposit", limits.MaxDeposit.String(),
			"max_retries", cfg.Ledger.MaxRetries,
		),
		slog.Group("oracle",
			"kind", cfg.Oracle.Kind,
			"url", cfg.Oracle.URL,
			"api_key", maskValue(cfg.Oracle.ApiKey),
			"cache_ttl", cfg.Oracle.CacheTTL,
		),
		"event_bus", cfg.EventBus.Kind,
		"rate_limit", cfg.RateLimit.MaxRequests,
		"jwt_expiry", cfg.Auth.Jwt.Expiry,
	)
	return &cfg, nil
}
