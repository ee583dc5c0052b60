// Package repository defines persistence contracts for the ledger.
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amirasaad/goldvault/pkg/domain"
	"github.com/amirasaad/goldvault/pkg/domain/account"
	"github.com/amirasaad/goldvault/pkg/domain/money"
	"github.com/google/uuid"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*account.Account, error)
	Create(ctx context.Context, a *account.Account) error
	// Update saves balances only if the stored version still equals a.Version,
	// then bumps a.Version. A stale version yields domain.ErrPersistenceConflict.
	Update(ctx context.Context, a *account.Account) error
}

// TransactionRepository defines data access for the append-only transaction log.
type TransactionRepository interface {
	// Append is the only way an entry enters the log.
	Append(ctx context.Context, t *account.Transaction) error
	Get(ctx context.Context, accountID uuid.UUID, id string) (*account.Transaction, error)
	// UpdateStatus persists t.Status only if the stored status still equals from.
	UpdateStatus(ctx context.Context, t *account.Transaction, from account.Status) error
	// ListPage returns up to limit entries strictly after cursor in the given order.
	// A nil cursor starts from the beginning.
	ListPage(ctx context.Context, accountID uuid.UUID, order Order, after *Cursor, limit int) ([]*account.Transaction, error)
}

// RecurringRuleRepository defines data access for recurring investment rules.
type RecurringRuleRepository interface {
	Create(ctx context.Context, r *account.RecurringRule) error
	// Get returns domain.ErrNotFound unless rule id belongs to accountID.
	Get(ctx context.Context, accountID, id uuid.UUID) (*account.RecurringRule, error)
	Update(ctx context.Context, r *account.RecurringRule) error
	Delete(ctx context.Context, accountID, id uuid.UUID) error
	// FindMatching returns the account's rule with the same frequency and amount,
	// or domain.ErrNotFound.
	FindMatching(ctx context.Context, accountID uuid.UUID, f account.Frequency, amount money.Money) (*account.RecurringRule, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*account.RecurringRule, error)
	ListByFrequency(ctx context.Context, f account.Frequency) ([]*account.RecurringRule, error)
}

// Order is the sort direction of a log listing.
type Order string

const (
	NewestFirst Order = "desc"
	OldestFirst Order = "asc"
)

// ParseOrder accepts "desc"/"newest" and "asc"/"oldest"; empty means NewestFirst.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "desc", "newest":
		return NewestFirst, nil
	case "asc", "oldest":
		return OldestFirst, nil
	}
	return "", fmt.Errorf("%w: unknown order %q", domain.ErrValidation, s)
}

// Cursor is a keyset position in the log.
type Cursor struct {
	Timestamp time.Time
	ID        string
}

// CursorOf returns the position of t.
func CursorOf(t *account.Transaction) *Cursor {
	return &Cursor{Timestamp: t.Timestamp, ID: t.ID}
}
