// Command kafka_smoketest publishes one ledger event through the Kafka event
// bus and waits for it to come back, to check a broker setup end to end.
//
// Usage: EVENT_BUS_BROKERS=localhost:9092 go run ./scripts/kafka_smoketest
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	infra_eventbus "github.com/amirasaad/goldvault/infra/eventbus"
	"github.com/amirasaad/goldvault/pkg/config"
	"github.com/amirasaad/goldvault/pkg/domain/events"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// RunSmokeTest emits a Gold.Invested event and waits for its delivery.
func RunSmokeTest(ctx context.Context, cfg config.EventBus, logger *slog.Logger) error {
	if cfg.TopicPrefix == "" {
		cfg.TopicPrefix = "goldvault.smoketest"
	}
	cfg.Group = "goldvault-smoketest-" + uuid.NewString()[:8]

	bus, err := infra_eventbus.NewWithKafka(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = bus.Close() }()

	sent := &events.GoldInvested{
		LedgerEvent:  events.NewLedgerEvent(uuid.New(), uuid.New(), "", time.Now()),
		Amount:       "1000.00",
		Grams:        "0.050000",
		PricePerGram: "20000.00",
		GoldBalance:  "0.050000",
	}
	got := make(chan events.Event, 1)
	bus.Register(events.EventTypeGoldInvested.String(), func(_ context.Context, e events.Event) error {
		if inv, ok := e.(*events.GoldInvested); ok && inv.ID == sent.ID {
			select {
			case got <- e:
			default:
			}
		}
		return nil
	})

	if err := bus.Emit(ctx, sent); err != nil {
		return err
	}
	logger.Info("produced", "type", sent.Type(), "eventID", sent.ID)

	select {
	case e := <-got:
		logger.Info("consumed", "type", e.Type(), "accountID", e.(*events.GoldInvested).Account())
		return nil
	case <-ctx.Done():
		return errors.New("event was not delivered before the deadline")
	}
}

// main runs the smoke test and exits non-zero on failure.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	_ = godotenv.Load()
	var busCfg config.EventBus
	if err := envconfig.Process("EVENT_BUS", &busCfg); err != nil {
		logger.Error("config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := RunSmokeTest(ctx, busCfg, logger); err != nil {
		logger.Error("kafka smoke test failed", "error", err)
		os.Exit(1)
	}
	logger.Info("kafka smoke test passed")
}
