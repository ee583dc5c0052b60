package money

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Price is the market price of one gram of gold in the account currency.
// Invariants:
//   - Always strictly positive.
//   - Held at cash precision; quotes with more digits are rounded half-up on construction.
type Price struct {
	perGram decimal.Decimal
}

// NewPrice creates a Price from a quoted decimal.
func NewPrice(d decimal.Decimal) (Price, error) {
	if err := bounded(d, describe(d)); err != nil {
		return Price{}, err
	}
	d = d.Round(CashDecimals)
	if !d.IsPositive() {
		return Price{}, fmt.Errorf("%w: %s", ErrNonPositivePrice, d)
	}
	if _, err := fixed(d, CashDecimals); err != nil {
		return Price{}, err
	}
	return Price{perGram: d}, nil
}

// NewPriceFromString parses a quoted price such as "20000.00".
func NewPriceFromString(s string) (Price, error) {
	s = strings.TrimSpace(s)
	if len(s) > maxInputLen {
		return Price{}, fmt.Errorf("%w: %s", ErrMalformed, quoted(s))
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, fmt.Errorf("%w: %s", ErrMalformed, quoted(s))
	}
	return NewPrice(d)
}

// NewPriceFromMinorUnits creates a Price from cents per gram. Used for hydration.
func NewPriceFromMinorUnits(units int64) (Price, error) {
	return NewPrice(decimal.New(units, -CashDecimals))
}

// MustPrice is like NewPriceFromString but panics on error.
func MustPrice(s string) Price {
	p, err := NewPriceFromString(s)
	if err != nil {
		panic(fmt.Sprintf("money.MustPrice(%q): %v", s, err))
	}
	return p
}

// Decimal returns the underlying decimal value.
func (p Price) Decimal() decimal.Decimal { return p.perGram }

// MinorUnits returns the price in cents per gram.
func (p Price) MinorUnits() int64 {
	return p.perGram.Shift(CashDecimals).IntPart()
}

// IsValid reports whether p was constructed (zero Price values are invalid).
func (p Price) IsValid() bool { return p.perGram.IsPositive() }

// GramsFor converts a cash amount to gold at this price, truncated toward zero to
// gold precision. Truncation never credits more gold than was paid for.
func (p Price) GramsFor(m Money) Grams {
	q, _ := m.amount.QuoRem(p.perGram, GoldDecimals)
	return Grams{amount: q}
}

// ValueOf converts a gold quantity to cash at this price, truncated toward zero to
// cash precision.
func (p Price) ValueOf(g Grams) Money {
	return Money{amount: g.amount.Mul(p.perGram).Truncate(CashDecimals)}
}

// String renders the price with exactly CashDecimals fractional digits.
func (p Price) String() string { return p.perGram.StringFixed(CashDecimals) }

// MarshalJSON encodes the price as a decimal string.
func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts a JSON string or number and rejects non-positive prices.
func (p *Price) UnmarshalJSON(data []byte) error {
	d, err := unmarshalDecimal(data, CashDecimals)
	if err != nil {
		return err
	}
	np, err := NewPrice(d)
	if err != nil {
		return err
	}
	*p = np
	return nil
}
