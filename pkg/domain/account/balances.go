package account

import (
	"github.com/amirasaad/goldvault/pkg/domain/money"
)

// Balances is a cash and gold pair, either stored on an account or rebuilt from its log.
type Balances struct {
	Cash money.Money `json:"cash"`
	Gold money.Grams `json:"gold"`
}

// Apply adds the signed effect of t.
func (b *Balances) Apply(t *Transaction) {
	cash, gold := t.SignedEffect()
	b.Cash = b.Cash.Add(cash)
	b.Gold = b.Gold.Add(gold)
}

// Equal reports whether both components match exactly.
func (b Balances) Equal(o Balances) bool {
	return b.Cash.Equal(o.Cash) && b.Gold.Equal(o.Gold)
}

// NonNegative reports whether neither balance is below zero.
func (b Balances) NonNegative() bool {
	return !b.Cash.IsNegative() && !b.Gold.IsNegative()
}

// Reconstruct replays entries from a zero balance.
func Reconstruct(entries []*Transaction) Balances {
	b := Balances{Cash: money.ZeroMoney(), Gold: money.ZeroGrams()}
	for _, t := range entries {
		b.Apply(t)
	}
	return b
}
