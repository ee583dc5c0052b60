package account

import (
	"fmt"

	"github.com/amirasaad/goldvault/pkg/domain"
	"github.com/amirasaad/goldvault/pkg/domain/money"
)

// Limits holds the configurable amount bounds of ledger operations.
type Limits struct {
	MinInvestment money.Money
	MinSell       money.Grams
	MaxDeposit    money.Money
}

// DefaultLimits returns the production bounds: invest at least 100, sell at
// least 0.001 g, deposit at most 1,000,000.
func DefaultLimits() Limits {
	return Limits{
		MinInvestment: money.MustMoney("100"),
		MinSell:       money.MustGrams("0.001"),
		MaxDeposit:    money.MustMoney("1000000"),
	}
}

// CheckInvestment validates an investment or recurring rule amount.
func (l Limits) CheckInvestment(amount money.Money) error {
	if amount.LessThan(l.MinInvestment) {
		return fmt.Errorf("%w: minimum investment is %s", domain.ErrInvalidAmount, l.MinInvestment)
	}
	return nil
}

// CheckSell validates a sell quantity.
func (l Limits) CheckSell(grams money.Grams) error {
	if !grams.IsPositive() || grams.LessThan(l.MinSell) {
		return fmt.Errorf("%w: minimum sell quantity is %s g", domain.ErrInvalidAmount, l.MinSell)
	}
	return nil
}

// CheckDeposit validates a deposit amount.
func (l Limits) CheckDeposit(amount money.Money) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: deposit must be positive", domain.ErrInvalidAmount)
	}
	if amount.GreaterThan(l.MaxDeposit) {
		return fmt.Errorf("%w: maximum deposit is %s", domain.ErrInvalidAmount, l.MaxDeposit)
	}
	return nil
}

// CheckWithdrawal validates a withdrawal amount.
func (l Limits) CheckWithdrawal(amount money.Money) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: withdrawal must be positive", domain.ErrInvalidAmount)
	}
	return nil
}
