// Package events defines the facts the ledger publishes after a committed
// operation. Consumers (projections, notifications) read them; they never
// feed back into balances.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is implemented by every ledger event.
type Event interface {
	Type() string
}

// EventType names an event on the bus.
type EventType string

// Event type constants.
const (
	EventTypeGoldInvested        EventType = "Gold.Invested"
	EventTypeGoldSold            EventType = "Gold.Sold"
	EventTypeFundsDeposited      EventType = "Funds.Deposited"
	EventTypeWithdrawalRequested EventType = "Withdrawal.Requested"
	EventTypeWithdrawalSettled   EventType = "Withdrawal.Settled"
	EventTypeRecurringRuleAdded  EventType = "RecurringRule.Added"
)

func (t EventType) String() string { return string(t) }

// LedgerEvent carries the fields shared by every ledger event.
type LedgerEvent struct {
	ID         uuid.UUID `json:"id"`
	AccountID  uuid.UUID `json:"account_id"`
	UserID     uuid.UUID `json:"user_id"`
	EntryID    string    `json:"entry_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewLedgerEvent stamps a new event header.
func NewLedgerEvent(accountID, userID uuid.UUID, entryID string, at time.Time) LedgerEvent {
	return LedgerEvent{
		ID:         uuid.New(),
		AccountID:  accountID,
		UserID:     userID,
		EntryID:    entryID,
		OccurredAt: at.UTC(),
	}
}

// Account returns the account the event belongs to. Transports use it as the
// partition key.
func (e LedgerEvent) Account() string { return e.AccountID.String() }

// Amounts are carried as decimal strings so the payload survives any transport unchanged.

// GoldInvested is published after gold was bought.
type GoldInvested struct {
	LedgerEvent
	Amount       string `json:"amount"`
	Grams        string `json:"grams"`
	PricePerGram string `json:"price_per_gram"`
	GoldBalance  string `json:"gold_balance"`
}

func (e *GoldInvested) Type() string { return EventTypeGoldInvested.String() }

// GoldSold is published after gold was sold for cash.
type GoldSold struct {
	LedgerEvent
	Grams        string `json:"grams"`
	Proceeds     string `json:"proceeds"`
	PricePerGram string `json:"price_per_gram"`
	GoldBalance  string `json:"gold_balance"`
	CashBalance  string `json:"cash_balance"`
}

func (e *GoldSold) Type() string { return EventTypeGoldSold.String() }

// FundsDeposited is published after a deposit was credited.
type FundsDeposited struct {
	LedgerEvent
	Amount      string `json:"amount"`
	CashBalance string `json:"cash_balance"`
}

func (e *FundsDeposited) Type() string { return EventTypeFundsDeposited.String() }

// WithdrawalRequested is published after cash was reserved for a payout. The
// settlement process listens for it.
type WithdrawalRequested struct {
	LedgerEvent
	Amount      string `json:"amount"`
	Destination string `json:"destination"`
	CashBalance string `json:"cash_balance"`
}

func (e *WithdrawalRequested) Type() string { return EventTypeWithdrawalRequested.String() }

// WithdrawalSettled is published after a pending withdrawal reached its final status.
type WithdrawalSettled struct {
	LedgerEvent
	Status      string `json:"status"`
	Amount      string `json:"amount"`
	CashBalance string `json:"cash_balance"`
}

func (e *WithdrawalSettled) Type() string { return EventTypeWithdrawalSettled.String() }

// RecurringRuleAdded is published when a new recurring investment rule was created.
type RecurringRuleAdded struct {
	LedgerEvent
	RuleID    uuid.UUID `json:"rule_id"`
	Frequency string    `json:"frequency"`
	Amount    string    `json:"amount"`
}

func (e *RecurringRuleAdded) Type() string { return EventTypeRecurringRuleAdded.String() }

// EventTypes maps type names to constructors, used by transports that decode
// events from the wire.
var EventTypes = map[string]func() Event{
	EventTypeGoldInvested.String():        func() Event { return &GoldInvested{} },
	EventTypeGoldSold.String():            func() Event { return &GoldSold{} },
	EventTypeFundsDeposited.String():      func() Event { return &FundsDeposited{} },
	EventTypeWithdrawalRequested.String(): func() Event { return &WithdrawalRequested{} },
	EventTypeWithdrawalSettled.String():   func() Event { return &WithdrawalSettled{} },
	EventTypeRecurringRuleAdded.String():  func() Event { return &RecurringRuleAdded{} },
}
