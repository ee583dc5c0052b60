package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amirasaad/goldvault/infra/initializer"
	"github.com/amirasaad/goldvault/pkg/app"
	"github.com/amirasaad/goldvault/pkg/config"
	"github.com/amirasaad/goldvault/webapi"
	log "github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
)

const shutdownTimeout = 10 * time.Second

// @title Goldvault API
// @version 1.0.0
// @description Digital gold ledger API
// @contact.name API Support
// @host localhost:3000
// @BasePath /
//
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description "Enter your Bearer token in the format: `Bearer {token}`"
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx, cfg, nil)
}

// build wires the dependencies and the HTTP app. The returned closer releases
// the database, caches and event bus.
func build(cfg *config.App, logWriter io.Writer) (*fiber.App, func() error, error) {
	deps, err := initializer.InitializeDependencies(cfg, logWriter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	a, err := app.New(deps.Deps, cfg)
	if err != nil {
		_ = deps.Close()
		return nil, nil, err
	}
	return webapi.SetupApp(a, deps.Registry), deps.Close, nil
}

// serve listens until ctx is done, then drains in-flight requests.
func serve(ctx context.Context, cfg *config.App, logWriter io.Writer) error {
	fiberApp, closeDeps, err := build(cfg, logWriter)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeDeps(); err != nil {
			slog.Error("Failed to release dependencies", "error", err)
		}
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	slog.Info("Starting server",
		"env", cfg.Env,
		"address", addr,
		"scheme", cfg.Server.Scheme,
	)

	errCh := make(chan error, 1)
	go func() { errCh <- fiberApp.Listen(addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := fiberApp.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
