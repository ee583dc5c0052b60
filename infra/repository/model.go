package repository

import (
	"time"

	"github.com/google/uuid"
)

// Account is the accounts row. Balances are stored in minor units.
type Account struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Currency       string    `gorm:"type:varchar(3);not null;default:'LKR'"`
	CashCents      int64     `gorm:"not null;default:0"`
	GoldMicrograms int64     `gorm:"not null;default:0"`
	Version        int64     `gorm:"not null;default:0"`
	LastEntryAt    time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string { return "accounts" }

// Transaction is the transactions row.
type Transaction struct {
	ID             string    `gorm:"type:varchar(26);primaryKey"`
	AccountID      uuid.UUID `gorm:"type:uuid;not null;index:idx_transactions_account_time,priority:1"`
	Kind           string    `gorm:"type:varchar(16);not null"`
	Status         string    `gorm:"type:varchar(16);not null"`
	CashCents      *int64
	GoldMicrograms *int64
	PriceCents     *int64
	Description    string    `gorm:"type:varchar(255)"`
	Destination    string    `gorm:"type:varchar(140)"`
	OccurredAt     time.Time `gorm:"not null;index:idx_transactions_account_time,priority:2"`
	UpdatedAt      time.Time
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string { return "transactions" }

// RecurringRule is the recurring_rules row. The unique index makes rule
// insertion idempotent across processes.
type RecurringRule struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	AccountID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recurring_rules_identity,priority:1"`
	Frequency   string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_recurring_rules_identity,priority:2;index"`
	AmountCents int64     `gorm:"not null;uniqueIndex:idx_recurring_rules_identity,priority:3"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the table name for the RecurringRule model.
func (RecurringRule) TableName() string { return "recurring_rules" }

// Models lists every model for AutoMigrate.
func Models() []any {
	return []any{&Account{}, &Transaction{}, &RecurringRule{}}
}
