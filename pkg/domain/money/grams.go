package money

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Grams represents a physical quantity of gold.
type Grams struct {
	amount decimal.Decimal
}

// ZeroGrams returns a zero quantity.
func ZeroGrams() Grams {
	return Grams{amount: decimal.Zero}
}

// NewGrams parses a decimal string such as "0.025".
func NewGrams(s string) (Grams, error) {
	d, err := parse(s, GoldDecimals)
	if err != nil {
		return Grams{}, err
	}
	return Grams{amount: d}, nil
}

// NewGramsFromDecimal creates Grams from a decimal, rejecting sub-microgram precision.
func NewGramsFromDecimal(d decimal.Decimal) (Grams, error) {
	d, err := fixed(d, GoldDecimals)
	if err != nil {
		return Grams{}, err
	}
	return Grams{amount: d}, nil
}

// NewGramsFromMicrograms creates Grams from micrograms. Used for hydration from storage.
func NewGramsFromMicrograms(units int64) Grams {
	return Grams{amount: decimal.New(units, -GoldDecimals)}
}

// MustGrams is like NewGrams but panics on error.
func MustGrams(s string) Grams {
	g, err := NewGrams(s)
	if err != nil {
		panic(fmt.Sprintf("money.MustGrams(%q): %v", s, err))
	}
	return g
}

// Decimal returns the underlying decimal value.
func (g Grams) Decimal() decimal.Decimal { return g.amount }

// Micrograms returns the quantity in its smallest unit.
func (g Grams) Micrograms() int64 {
	return g.amount.Shift(GoldDecimals).IntPart()
}

// Add returns g + o.
func (g Grams) Add(o Grams) Grams { return Grams{amount: g.amount.Add(o.amount)} }

// Sub returns g - o. The result may be negative; callers enforce balance invariants.
func (g Grams) Sub(o Grams) Grams { return Grams{amount: g.amount.Sub(o.amount)} }

// Neg returns -g.
func (g Grams) Neg() Grams { return Grams{amount: g.amount.Neg()} }

// Cmp compares g and o and returns -1, 0 or +1.
func (g Grams) Cmp(o Grams) int { return g.amount.Cmp(o.amount) }

// LessThan reports whether g < o.
func (g Grams) LessThan(o Grams) bool { return g.amount.LessThan(o.amount) }

// GreaterThan reports whether g > o.
func (g Grams) GreaterThan(o Grams) bool { return g.amount.GreaterThan(o.amount) }

// Equal reports whether g == o.
func (g Grams) Equal(o Grams) bool { return g.amount.Equal(o.amount) }

// IsPositive reports whether g > 0.
func (g Grams) IsPositive() bool { return g.amount.IsPositive() }

// IsNegative reports whether g < 0.
func (g Grams) IsNegative() bool { return g.amount.IsNegative() }

// IsZero reports whether g == 0.
func (g Grams) IsZero() bool { return g.amount.IsZero() }

// DivInt splits g into n equal parts truncated to gold precision. n must be positive.
func (g Grams) DivInt(n int64) (Grams, error) {
	if n <= 0 {
		return Grams{}, fmt.Errorf("%w: %d", ErrBadDivisor, n)
	}
	q, _ := g.amount.QuoRem(decimal.NewFromInt(n), GoldDecimals)
	return Grams{amount: q}, nil
}

// String renders the quantity with exactly GoldDecimals fractional digits.
func (g Grams) String() string { return g.amount.StringFixed(GoldDecimals) }

// MarshalJSON encodes the quantity as a decimal string.
func (g Grams) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.String())
}

// UnmarshalJSON accepts a JSON string or number.
func (g *Grams) UnmarshalJSON(data []byte) error {
	d, err := unmarshalDecimal(data, GoldDecimals)
	if err != nil {
		return err
	}
	g.amount = d
	return nil
}
