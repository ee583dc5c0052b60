// Package app assembles the services from their infrastructure dependencies.
package app

import (
	"fmt"

	"github.com/amirasaad/goldvault/pkg/config"
	"github.com/amirasaad/goldvault/pkg/service/auth"
	"github.com/amirasaad/goldvault/pkg/service/ledger"
	"github.com/amirasaad/goldvault/pkg/service/recurring"
)

type App struct {
	Deps             config.Deps
	Config           *config.App
	AuthService      *auth.Service
	LedgerService    *ledger.Service
	RecurringService *recurring.Service
}

// New builds the services. The ledger bounds come from cfg.Ledger.
func New(deps config.Deps, cfg *config.App) (*App, error) {
	opts := ledger.DefaultOptions()
	if cfg.Ledger != nil {
		limits, err := cfg.Ledger.Limits()
		if err != nil {
			return nil, fmt.Errorf("ledger limits: %w", err)
		}
		opts.Limits = limits
		opts.Currency = cfg.Ledger.Currency
		opts.MaxRetries = cfg.Ledger.MaxRetries
		opts.PageSize = cfg.Ledger.PageSize
	}
	if cfg.Oracle != nil && cfg.Oracle.HTTPTimeout > 0 {
		opts.OracleTimeout = cfg.Oracle.HTTPTimeout
	}

	var jwtCfg *config.Jwt
	if cfg.Auth != nil {
		jwtCfg = cfg.Auth.Jwt
	}

	a := &App{
		Deps:          deps,
		Config:        cfg,
		AuthService:   auth.New(jwtCfg, deps.Logger),
		LedgerService: ledger.New(deps, opts),
	}
	a.RecurringService = recurring.New(deps, a.LedgerService, recurring.DefaultConcurrency)
	a.setupEventBus()
	return a, nil
}
