package account

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/amirasaad/goldvault/pkg/domain"
	"github.com/amirasaad/goldvault/pkg/domain/money"
	"github.com/google/uuid"
)

// DefaultCurrency is the display currency of new accounts.
const DefaultCurrency = "LKR"

var currencyCode = regexp.MustCompile(`^[A-Z]{3}$`)

var (
	// ErrNotOwner is returned when a user attempts to act on an account they do not own.
	// It wraps domain.ErrNotFound so callers cannot probe for other users' accounts.
	ErrNotOwner = fmt.Errorf("%w: not owner", domain.ErrNotFound)

	// ErrUserRequired is returned by Build when no owner was set.
	ErrUserRequired = errors.New("userID is required")

	// ErrInvalidCurrency is returned by Build for a malformed currency code.
	ErrInvalidCurrency = errors.New("invalid currency code")

	// ErrNegativeBalance is returned by Build when hydrated balances are negative.
	ErrNegativeBalance = errors.New("balance cannot be negative")
)

// Account is a user's cash and gold holdings. It is the aggregate root of the
// ledger: every balance change goes through one of its methods, and each method
// returns the transaction entry that records the change.
//
// Invariants:
//   - An account always has an owner (UserID).
//   - Cash >= 0 and Gold >= 0 between operations.
//   - Methods validate everything before touching state; on error the account is unchanged.
//   - LastEntryAt never decreases; new entries are stamped with max(now, LastEntryAt).
type Account struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Currency    string
	Cash        money.Money
	Gold        money.Grams
	Version     int64 // optimistic concurrency token, bumped by the repository on save
	LastEntryAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Builder provides a fluent API for constructing Account instances.
type Builder struct {
	id          uuid.UUID
	userID      uuid.UUID
	currency    string
	cash        int64
	gold        int64
	version     int64
	lastEntryAt time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

// New creates a new Builder with a fresh ID, the default currency and zero balances.
func New() *Builder {
	now := time.Now().UTC()
	return &Builder{
		id:        uuid.New(),
		currency:  DefaultCurrency,
		createdAt: now,
		updatedAt: now,
	}
}

// WithID sets the ID for the account being built.
func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.id = id
	return b
}

// WithUserID sets the owner. This is a mandatory field.
func (b *Builder) WithUserID(userID uuid.UUID) *Builder {
	b.userID = userID
	return b
}

// WithCurrency sets the display currency code.
func (b *Builder) WithCurrency(code string) *Builder {
	b.currency = code
	return b
}

// WithCash sets the cash balance in minor units. This should only be used
// for hydrating an existing account from a data store or for test setup.
func (b *Builder) WithCash(cents int64) *Builder {
	b.cash = cents
	return b
}

// WithGold sets the gold balance in micrograms. Hydration and tests only.
func (b *Builder) WithGold(micrograms int64) *Builder {
	b.gold = micrograms
	return b
}

// WithVersion sets the concurrency token. Hydration only.
func (b *Builder) WithVersion(v int64) *Builder {
	b.version = v
	return b
}

// WithLastEntryAt sets the log high-water mark. Hydration only.
func (b *Builder) WithLastEntryAt(t time.Time) *Builder {
	b.lastEntryAt = t
	return b
}

// WithCreatedAt sets the creation timestamp. Hydration only.
func (b *Builder) WithCreatedAt(t time.Time) *Builder {
	b.createdAt = t
	return b
}

// WithUpdatedAt sets the last-updated timestamp. Hydration only.
func (b *Builder) WithUpdatedAt(t time.Time) *Builder {
	b.updatedAt = t
	return b
}

// Build validates the collected fields and returns the Account.
func (b *Builder) Build() (*Account, error) {
	if b.userID == uuid.Nil {
		return nil, ErrUserRequired
	}
	if !currencyCode.MatchString(b.currency) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCurrency, b.currency)
	}
	if b.cash < 0 || b.gold < 0 {
		return nil, ErrNegativeBalance
	}
	return &Account{
		ID:          b.id,
		UserID:      b.userID,
		Currency:    b.currency,
		Cash:        money.NewMoneyFromMinorUnits(b.cash),
		Gold:        money.NewGramsFromMicrograms(b.gold),
		Version:     b.version,
		LastEntryAt: b.lastEntryAt,
		CreatedAt:   b.createdAt,
		UpdatedAt:   b.updatedAt,
	}, nil
}

// Balances returns a snapshot of the current balances.
func (a *Account) Balances() Balances {
	return Balances{Cash: a.Cash, Gold: a.Gold}
}

// CheckOwner returns ErrNotOwner unless userID owns the account.
func (a *Account) CheckOwner(userID uuid.UUID) error {
	if a.UserID != userID {
		return ErrNotOwner
	}
	return nil
}

// Invest credits gold bought with amount at price. Cash is not debited: the
// purchase is paid through an external payment that is treated as settled.
//
// Invariants enforced:
//   - Only the owner can invest.
//   - amount must be positive and buy at least one microgram at price.
//   - price must be a valid (positive) quote.
func (a *Account) Invest(userID uuid.UUID, amount money.Money, price money.Price, now time.Time) (*Transaction, error) {
	if err := a.CheckOwner(userID); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: investment must be positive", domain.ErrInvalidAmount)
	}
	if !price.IsValid() {
		return nil, domain.ErrPriceUnavailable
	}
	grams := price.GramsFor(amount)
	if !grams.IsPositive() {
		return nil, fmt.Errorf("%w: %s buys no gold at %s", domain.ErrInvalidAmount, amount, price)
	}
	gold, err := checkedGrams(a.Gold.Add(grams))
	if err != nil {
		return nil, err
	}

	at := a.stamp(now)
	a.Gold = gold
	return newEntry(a.ID, KindInvestment, StatusCompleted, at).
		withGold(grams).withCash(amount).withPrice(price), nil
}

// Sell converts grams of gold to cash at price.
//
// Invariants enforced:
//   - Only the owner can sell.
//   - grams must be positive and not exceed the gold balance.
//   - Proceeds are truncated to whole cents.
func (a *Account) Sell(userID uuid.UUID, grams money.Grams, price money.Price, now time.Time) (*Transaction, error) {
	if err := a.CheckOwner(userID); err != nil {
		return nil, err
	}
	if !grams.IsPositive() {
		return nil, fmt.Errorf("%w: sell quantity must be positive", domain.ErrInvalidAmount)
	}
	if !price.IsValid() {
		return nil, domain.ErrPriceUnavailable
	}
	if grams.GreaterThan(a.Gold) {
		return nil, fmt.Errorf("%w: have %s g, want %s g", domain.ErrInsufficientGold, a.Gold, grams)
	}
	proceeds := price.ValueOf(grams)
	cash, err := checkedMoney(a.Cash.Add(proceeds))
	if err != nil {
		return nil, err
	}

	at := a.stamp(now)
	a.Gold = a.Gold.Sub(grams)
	a.Cash = cash
	return newEntry(a.ID, KindSellGold, StatusCompleted, at).
		withGold(grams).withCash(proceeds).withPrice(price), nil
}

// Deposit credits cash to the account.
func (a *Account) Deposit(userID uuid.UUID, amount money.Money, now time.Time) (*Transaction, error) {
	if err := a.CheckOwner(userID); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: deposit must be positive", domain.ErrInvalidAmount)
	}
	cash, err := checkedMoney(a.Cash.Add(amount))
	if err != nil {
		return nil, err
	}

	at := a.stamp(now)
	a.Cash = cash
	return newEntry(a.ID, KindDeposit, StatusCompleted, at).withCash(amount), nil
}

// Withdraw reserves cash for a payout to dest. The cash leaves the balance
// immediately and the returned entry stays pending until SettleWithdrawal.
func (a *Account) Withdraw(userID uuid.UUID, amount money.Money, dest Destination, now time.Time) (*Transaction, error) {
	if err := a.CheckOwner(userID); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: withdrawal must be positive", domain.ErrInvalidAmount)
	}
	if err := dest.Validate(); err != nil {
		return nil, err
	}
	if amount.GreaterThan(a.Cash) {
		return nil, fmt.Errorf("%w: have %s, want %s", domain.ErrInsufficientFunds, a.Cash, amount)
	}

	at := a.stamp(now)
	a.Cash = a.Cash.Sub(amount)
	tx := newEntry(a.ID, KindWithdrawal, StatusPending, at).withCash(amount)
	tx.Destination = dest.Masked()
	tx.Description = fmt.Sprintf("Withdrawal to %s", tx.Destination)
	return tx, nil
}

// SettleWithdrawal moves a pending withdrawal to its final status. A failed or
// cancelled payout credits the reserved cash back to the account.
func (a *Account) SettleWithdrawal(tx *Transaction, outcome Status, now time.Time) error {
	if tx == nil || tx.AccountID != a.ID {
		return fmt.Errorf("%w: withdrawal entry", domain.ErrNotFound)
	}
	if tx.Kind != KindWithdrawal {
		return fmt.Errorf("%w: %s entries are not settled", domain.ErrInvalidTransition, tx.Kind)
	}
	if !outcome.Terminal() {
		return fmt.Errorf("%w: %q is not a settlement outcome", domain.ErrInvalidTransition, outcome)
	}
	if !tx.Status.CanTransitionTo(outcome) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, tx.Status, outcome)
	}
	cash := a.Cash
	if outcome == StatusFailed || outcome == StatusCancelled {
		if tx.AmountCash == nil {
			return fmt.Errorf("%w: withdrawal without amount", domain.ErrInvalidTransition)
		}
		var err error
		if cash, err = checkedMoney(a.Cash.Add(*tx.AmountCash)); err != nil {
			return err
		}
	}
	if err := tx.Transition(outcome, now); err != nil {
		return err
	}
	a.Cash = cash
	a.UpdatedAt = tx.UpdatedAt
	return nil
}

// stamp returns the timestamp for the next entry and advances LastEntryAt.
// Timestamps are kept at microsecond precision, the finest the stores hold.
func (a *Account) stamp(now time.Time) time.Time {
	now = now.UTC().Truncate(time.Microsecond)
	if now.Before(a.LastEntryAt) {
		now = a.LastEntryAt
	}
	a.LastEntryAt = now
	a.UpdatedAt = now
	return now
}

func checkedMoney(m money.Money) (money.Money, error) {
	if _, err := money.NewMoneyFromDecimal(m.Decimal()); err != nil {
		return money.Money{}, fmt.Errorf("%w: %w", domain.ErrInvalidAmount, err)
	}
	return m, nil
}

func checkedGrams(g money.Grams) (money.Grams, error) {
	if _, err := money.NewGramsFromDecimal(g.Decimal()); err != nil {
		return money.Grams{}, fmt.Errorf("%w: %w", domain.ErrInvalidAmount, err)
	}
	return g, nil
}
