package account

import (
	"fmt"
	"strings"
	"time"

	"github.com/amirasaad/goldvault/pkg/domain"
	"github.com/amirasaad/goldvault/pkg/domain/money"
	"github.com/google/uuid"
)

// Frequency is how often a recurring investment runs.
type Frequency string

// Supported frequencies.
const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

// Frequencies lists every supported frequency.
var Frequencies = []Frequency{Daily, Weekly, Monthly, Yearly}

// ParseFrequency converts s (case-insensitive) to a Frequency.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidFrequency, s)
	}
	return f, nil
}

// Valid reports whether f is supported.
func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// RecurringRule schedules an automatic investment of Amount every Frequency.
type RecurringRule struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Frequency Frequency
	Amount    money.Money
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewRecurringRule validates freq and amount against limits and returns a new rule.
func NewRecurringRule(accountID uuid.UUID, freq Frequency, amount money.Money, limits Limits, now time.Time) (*RecurringRule, error) {
	if err := validateRule(freq, amount, limits); err != nil {
		return nil, err
	}
	now = now.UTC()
	return &RecurringRule{
		ID:        uuid.New(),
		AccountID: accountID,
		Frequency: freq,
		Amount:    amount,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Matches reports whether r already schedules amount at freq.
func (r *RecurringRule) Matches(freq Frequency, amount money.Money) bool {
	return r.Frequency == freq && r.Amount.Equal(amount)
}

// Update overwrites the schedule in place.
func (r *RecurringRule) Update(freq Frequency, amount money.Money, limits Limits, now time.Time) error {
	if err := validateRule(freq, amount, limits); err != nil {
		return err
	}
	r.Frequency = freq
	r.Amount = amount
	r.UpdatedAt = now.UTC()
	return nil
}

func validateRule(freq Frequency, amount money.Money, limits Limits) error {
	if !freq.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidFrequency, freq)
	}
	return limits.CheckInvestment(amount)
}
