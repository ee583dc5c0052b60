package app

import (
	"context"
	"log/slog"

	"github.com/amirasaad/goldvault/pkg/domain/events"
	"github.com/amirasaad/goldvault/pkg/eventbus"
)

// setupEventBus registers the in-process consumers. They only observe events;
// nothing registered here may change balances.
func (a *App) setupEventBus() {
	if a.Deps.EventBus == nil {
		return
	}
	logger := a.Deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	a.Deps.EventBus.Register(eventbus.AllEvents, AuditHandler(logger))
	a.Deps.EventBus.Register(events.EventTypeWithdrawalRequested.String(), PayoutNotifier(logger))
}

// AuditHandler writes every ledger event to the log.
func AuditHandler(logger *slog.Logger) eventbus.HandlerFunc {
	logger = logger.With("component", "audit")
	return func(_ context.Context, e events.Event) error {
		attrs := []any{"type", e.Type()}
		if scoped, ok := e.(interface{ Account() string }); ok {
			attrs = append(attrs, "accountID", scoped.Account())
		}
		logger.Info("ledger event", attrs...)
		return nil
	}
}

// PayoutNotifier announces withdrawals awaiting settlement to the operator log.
func PayoutNotifier(logger *slog.Logger) eventbus.HandlerFunc {
	logger = logger.With("component", "payouts")
	return func(_ context.Context, e events.Event) error {
		w, ok := e.(*events.WithdrawalRequested)
		if !ok {
			return nil
		}
		logger.Info("withdrawal awaiting settlement",
			"accountID", w.AccountID,
			"entryID", w.EntryID,
			"amount", w.Amount,
			"destination", w.Destination,
		)
		return nil
	}
}
