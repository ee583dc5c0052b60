package config

import (
	"log/slog"

	"github.com/amirasaad/goldvault/pkg/eventbus"
	"github.com/amirasaad/goldvault/pkg/metrics"
	"github.com/amirasaad/goldvault/pkg/provider"
	"github.com/amirasaad/goldvault/pkg/repository"
)

// Deps holds all infrastructure dependencies for building the app and services.
type Deps struct {
	Uow         repository.UnitOfWork
	PriceOracle provider.PriceOracle
	EventBus    eventbus.Bus
	Metrics     *metrics.Ledger
	Logger      *slog.Logger
}
