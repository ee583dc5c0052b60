// Package money provides the fixed-point value objects used by the ledger.
//
// Invariants:
//   - Money is always held at cash precision (CashDecimals fractional digits).
//   - Grams are always held at gold precision (GoldDecimals fractional digits).
//   - Price is held at cash precision and is strictly positive.
//   - No arithmetic path goes through binary floating point.
//   - Every value fits in an int64 of its smallest unit (cents, micrograms).
package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// CashDecimals is the number of fractional digits kept for cash amounts.
	CashDecimals int32 = 2
	// GoldDecimals is the number of fractional digits kept for gold quantities (grams).
	GoldDecimals int32 = 6
)

var (
	// ErrMalformed is returned when an amount cannot be parsed as a decimal number.
	ErrMalformed = errors.New("malformed amount")

	// ErrTooPrecise is returned when an amount has more fractional digits than its unit allows.
	ErrTooPrecise = errors.New("amount has too many fractional digits")

	// ErrOverflow is returned when an amount does not fit in its smallest unit.
	ErrOverflow = errors.New("amount exceeds maximum safe integer value")

	// ErrNonPositivePrice is returned when a price is zero or negative.
	ErrNonPositivePrice = errors.New("price must be positive")

	// ErrBadDivisor is returned when a quantity is split into zero or fewer parts.
	ErrBadDivisor = errors.New("divisor must be positive")
)

var maxUnits = decimal.NewFromInt(math.MaxInt64)

const (
	// maxInputLen bounds the textual form of an amount before it is parsed.
	maxInputLen = 64
	// maxExponent is the largest decimal exponent that can still fit in int64 units.
	maxExponent = 18
	// maxScale bounds both the coefficient width and the number of fractional
	// digits accepted. Anything wider cannot be an exact int64 amount.
	maxScale = 64
)

// bounded rejects decimals whose rescaling would cost more than the amount is
// worth: exponents past int64 range, coefficients wider than maxScale digits and
// scales deeper than maxScale. label names the value in the error.
func bounded(d decimal.Decimal, label string) error {
	if d.IsZero() {
		return nil
	}
	exp := d.Exponent()
	switch {
	case exp > maxExponent:
		return fmt.Errorf("%w: %s", ErrOverflow, label)
	case exp < -maxScale:
		return fmt.Errorf("%w: %s", ErrTooPrecise, label)
	case d.NumDigits() > maxScale:
		return fmt.Errorf("%w: %s", ErrOverflow, label)
	}
	return nil
}

// fixed validates that d is representable at the given precision and within int64 range.
func fixed(d decimal.Decimal, places int32) (decimal.Decimal, error) {
	return fixedLabeled(d, places, describe(d))
}

func fixedLabeled(d decimal.Decimal, places int32, label string) (decimal.Decimal, error) {
	if err := bounded(d, label); err != nil {
		return decimal.Decimal{}, err
	}
	if d.IsZero() {
		return decimal.Zero, nil
	}
	if !d.Equal(d.Truncate(places)) {
		return decimal.Decimal{}, fmt.Errorf("%w: %s (max %d)", ErrTooPrecise, label, places)
	}
	if d.Abs().Shift(places).GreaterThan(maxUnits) {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrOverflow, label)
	}
	return d, nil
}

// describe renders d for an error message without expanding large exponents.
func describe(d decimal.Decimal) string {
	if bounded(d, "") != nil {
		return fmt.Sprintf("%d-digit value with exponent %d", d.NumDigits(), d.Exponent())
	}
	return d.String()
}

// quoted renders user input for an error message, clipped to maxInputLen.
func quoted(s string) string {
	if len(s) > maxInputLen {
		s = s[:maxInputLen] + "..."
	}
	return strconv.Quote(s)
}

func parse(s string, places int32) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if len(s) > maxInputLen {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrMalformed, quoted(s))
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrMalformed, quoted(s))
	}
	return fixedLabeled(d, places, quoted(s))
}

// unmarshalDecimal accepts both a JSON string ("100.50") and a JSON number (100.50).
func unmarshalDecimal(data []byte, places int32) (decimal.Decimal, error) {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return decimal.Zero, nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrMalformed, quoted(raw))
		}
		raw = s
	}
	return parse(raw, places)
}

// Money represents a cash amount in the account currency.
type Money struct {
	amount decimal.Decimal
}

// ZeroMoney returns a zero cash amount.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

// NewMoney parses a decimal string such as "100.50".
func NewMoney(s string) (Money, error) {
	d, err := parse(s, CashDecimals)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: d}, nil
}

// NewMoneyFromDecimal creates Money from a decimal, rejecting sub-cent precision.
func NewMoneyFromDecimal(d decimal.Decimal) (Money, error) {
	d, err := fixed(d, CashDecimals)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: d}, nil
}

// NewMoneyFromMinorUnits creates Money from cents. Used for hydration from storage.
func NewMoneyFromMinorUnits(units int64) Money {
	return Money{amount: decimal.New(units, -CashDecimals)}
}

// MustMoney is like NewMoney but panics on error. Intended for constants and tests.
func MustMoney(s string) Money {
	m, err := NewMoney(s)
	if err != nil {
		panic(fmt.Sprintf("money.MustMoney(%q): %v", s, err))
	}
	return m
}

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal { return m.amount }

// MinorUnits returns the amount in cents.
func (m Money) MinorUnits() int64 {
	return m.amount.Shift(CashDecimals).IntPart()
}

// Add returns m + o.
func (m Money) Add(o Money) Money { return Money{amount: m.amount.Add(o.amount)} }

// Sub returns m - o. The result may be negative; callers enforce balance invariants.
func (m Money) Sub(o Money) Money { return Money{amount: m.amount.Sub(o.amount)} }

// Neg returns -m.
func (m Money) Neg() Money { return Money{amount: m.amount.Neg()} }

// Cmp compares m and o and returns -1, 0 or +1.
func (m Money) Cmp(o Money) int { return m.amount.Cmp(o.amount) }

// LessThan reports whether m < o.
func (m Money) LessThan(o Money) bool { return m.amount.LessThan(o.amount) }

// GreaterThan reports whether m > o.
func (m Money) GreaterThan(o Money) bool { return m.amount.GreaterThan(o.amount) }

// Equal reports whether m == o.
func (m Money) Equal(o Money) bool { return m.amount.Equal(o.amount) }

// IsPositive reports whether m > 0.
func (m Money) IsPositive() bool { return m.amount.IsPositive() }

// IsNegative reports whether m < 0.
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// IsZero reports whether m == 0.
func (m Money) IsZero() bool { return m.amount.IsZero() }

// String renders the amount with exactly CashDecimals fractional digits.
func (m Money) String() string { return m.amount.StringFixed(CashDecimals) }

// MarshalJSON encodes the amount as a decimal string to avoid float rounding in clients.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts a JSON string or number.
func (m *Money) UnmarshalJSON(data []byte) error {
	d, err := unmarshalDecimal(data, CashDecimals)
	if err != nil {
		return err
	}
	m.amount = d
	return nil
}
