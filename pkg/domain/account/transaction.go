package account

import (
	"fmt"
	"time"

	"github.com/amirasaad/goldvault/pkg/domain"
	"github.com/amirasaad/goldvault/pkg/domain/money"
	"github.com/amirasaad/goldvault/pkg/id"
	"github.com/google/uuid"
)

// Kind classifies a transaction entry.
type Kind string

// Entry kinds.
const (
	KindInvestment Kind = "investment"
	KindSellGold   Kind = "sell_gold"
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
	KindRedemption Kind = "redemption"
	KindBonus      Kind = "bonus"
	KindFee        Kind = "fee"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindInvestment, KindSellGold, KindDeposit, KindWithdrawal,
		KindRedemption, KindBonus, KindFee:
		return true
	}
	return false
}

// Status is the lifecycle state of a transaction entry.
type Status string

// Entry statuses.
const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// ParseStatus converts s to a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusPending, StatusCompleted, StatusFailed, StatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown status %q", domain.ErrValidation, s)
}

// Terminal reports whether no further transition is possible from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// CanTransitionTo reports whether s may move to next. Only pending entries move,
// and only to a terminal status.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusPending && next.Terminal()
}

// Transaction is one entry of an account's append-only log.
//
// Invariants:
//   - Entries in a terminal status are immutable.
//   - A pending entry changes status exactly once.
//   - UnitPrice is set only for investment and sell_gold entries.
type Transaction struct {
	ID          string // ULID, sorts in append order within an account
	AccountID   uuid.UUID
	Kind        Kind
	Status      Status
	AmountGold  *money.Grams
	AmountCash  *money.Money
	UnitPrice   *money.Price
	Description string
	Destination string // masked payout destination, withdrawals only
	Timestamp   time.Time
	UpdatedAt   time.Time
}

func newEntry(accountID uuid.UUID, kind Kind, status Status, at time.Time) *Transaction {
	return &Transaction{
		ID:        id.NewAt(at),
		AccountID: accountID,
		Kind:      kind,
		Status:    status,
		Timestamp: at,
		UpdatedAt: at,
	}
}

func (t *Transaction) withGold(g money.Grams) *Transaction {
	t.AmountGold = &g
	return t
}

func (t *Transaction) withCash(m money.Money) *Transaction {
	t.AmountCash = &m
	return t
}

func (t *Transaction) withPrice(p money.Price) *Transaction {
	t.UnitPrice = &p
	return t
}

// Transition moves a pending entry to next.
func (t *Transaction) Transition(next Status, at time.Time) error {
	if !t.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, t.Status, next)
	}
	t.Status = next
	if at.Before(t.Timestamp) {
		at = t.Timestamp
	}
	t.UpdatedAt = at.UTC().Truncate(time.Microsecond)
	return nil
}

// SignedEffect returns the change this entry contributes to the account balances.
//
// Only completed entries count, with one exception: a withdrawal reserves its
// cash at request time, so it counts while pending and stops counting once it
// has failed or been cancelled.
func (t *Transaction) SignedEffect() (money.Money, money.Grams) {
	cash, gold := money.ZeroMoney(), money.ZeroGrams()
	if t.AmountCash != nil {
		cash = *t.AmountCash
	}
	if t.AmountGold != nil {
		gold = *t.AmountGold
	}

	if t.Kind == KindWithdrawal {
		if t.Status == StatusPending || t.Status == StatusCompleted {
			return cash.Neg(), money.ZeroGrams()
		}
		return money.ZeroMoney(), money.ZeroGrams()
	}
	if t.Status != StatusCompleted {
		return money.ZeroMoney(), money.ZeroGrams()
	}

	switch t.Kind {
	case KindDeposit:
		return cash, money.ZeroGrams()
	case KindInvestment, KindBonus:
		return money.ZeroMoney(), gold
	case KindSellGold:
		return cash, gold.Neg()
	case KindRedemption:
		return money.ZeroMoney(), gold.Neg()
	case KindFee:
		return cash.Neg(), money.ZeroGrams()
	}
	return money.ZeroMoney(), money.ZeroGrams()
}
