// Package initializer wires configuration into the infrastructure the
// services run on.
package initializer

import (
	"errors"
	"fmt"
	"io"

	"github.com/amirasaad/goldvault/infra"
	infra_repository "github.com/amirasaad/goldvault/infra/repository"
	"github.com/amirasaad/goldvault/pkg/config"
	"github.com/amirasaad/goldvault/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

// Deps is config.Deps plus the handles the process needs to serve and shut down.
type Deps struct {
	config.Deps
	DB       *gorm.DB
	Registry *prometheus.Registry
	closers  []func() error
}

// Close releases the event bus, caches and database, in reverse order of creation.
func (d *Deps) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}

// InitializeDependencies initializes all the application dependencies. When
// logWriter is nil the logger writes to stdout.
func InitializeDependencies(cfg *config.App, logWriter io.Writer) (deps *Deps, err error) {
	logger := NewLogger(cfg.Log, logWriter)
	deps = &Deps{Deps: config.Deps{Logger: logger}}
	defer func() {
		if err != nil {
			_ = deps.Close()
			deps = nil
		}
	}()

	db, err := infra.NewDBConnection(*cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return deps, err
	}
	deps.DB = db
	deps.closers = append(deps.closers, func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})
	if err = infra.Migrate(db, cfg.DB.MigrationsPath); err != nil {
		return deps, fmt.Errorf("failed to migrate database: %w", err)
	}
	deps.Uow = infra_repository.NewUoW(db)

	oracle, closeCache, err := initOracle(cfg.Oracle, cfg.Redis, logger)
	if err != nil {
		return deps, fmt.Errorf("failed to initialize price oracle: %w", err)
	}
	deps.PriceOracle = oracle
	deps.closers = append(deps.closers, closeCache)

	bus, closer, err := initEventBus(cfg, logger)
	if err != nil {
		return deps, fmt.Errorf("failed to initialize event bus: %w", err)
	}
	if closer != nil {
		deps.closers = append(deps.closers, closer.Close)
	}
	deps.EventBus = bus

	deps.Registry = prometheus.NewRegistry()
	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deps.Metrics = metrics.NewLedger(deps.Registry)

	logger.Info("Dependencies initialized",
		"env", cfg.Env,
		"oracle", oracle.Name(),
		"event_bus", fmt.Sprintf("%T", bus),
	)
	return deps, nil
}
