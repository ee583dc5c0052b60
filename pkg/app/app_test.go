package app_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/amirasaad/goldvault/infra"
	infra_eventbus "github.com/amirasaad/goldvault/infra/eventbus"
	infra_provider "github.com/amirasaad/goldvault/infra/provider"
	infra_repository "github.com/amirasaad/goldvault/infra/repository"
	"github.com/amirasaad/goldvault/pkg/app"
	"github.com/amirasaad/goldvault/pkg/config"
	"github.com/amirasaad/goldvault/pkg/domain/account"
	"github.com/amirasaad/goldvault/pkg/domain/money"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWiresServicesAndConsumers(t *testing.T) {
	db, err := infra.OpenSQLite(":memory:", nil)
	require.NoError(t, err)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	bus := infra_eventbus.NewWithMemory(logger)
	deps := config.Deps{
		Uow:         infra_repository.NewUoW(db),
		PriceOracle: infra_provider.NewFixedPrice(money.MustPrice("20000")),
		EventBus:    bus,
		Logger:      logger,
	}
	cfg := &config.App{
		Auth: &config.Auth{Jwt: &config.Jwt{Secret: "secret", Expiry: time.Hour}},
		Ledger: &config.Ledger{
			Currency:      "LKR",
			MinInvestment: "100",
			MinSell:       "0.001",
			MaxDeposit:    "1000000",
			MaxRetries:    3,
			PageSize:      50,
		},
	}

	a, err := app.New(deps, cfg)
	require.NoError(t, err)
	require.NotNil(t, a.LedgerService)
	require.NotNil(t, a.RecurringService)
	require.NotNil(t, a.AuthService)

	ctx := context.Background()
	userID := uuid.New()
	acc, err := a.LedgerService.OpenAccount(ctx, userID)
	require.NoError(t, err)
	_, err = a.LedgerService.Deposit(ctx, acc.ID, userID, money.MustMoney("500"))
	require.NoError(t, err)
	_, err = a.LedgerService.Withdraw(ctx, acc.ID, userID, money.MustMoney("200"),
		account.Destination{BankName: "HNB", AccountNumber: "12345678"})
	require.NoError(t, err)

	assert.Len(t, bus.Published(), 2)
	assert.Contains(t, logs.String(), "ledger event")
	assert.Contains(t, logs.String(), "withdrawal awaiting settlement")
	assert.Contains(t, logs.String(), "HNB ****5678")
}

func TestNewRejectsBadLimits(t *testing.T) {
	_, err := app.New(config.Deps{}, &config.App{Ledger: &config.Ledger{MinInvestment: "abc"}})
	assert.Error(t, err)
}
