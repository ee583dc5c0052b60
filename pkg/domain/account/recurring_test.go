package account_test

import (
	"testing"

	"github.com/amirasaad/goldvault/pkg/domain"
	"github.com/amirasaad/goldvault/pkg/domain/account"
	"github.com/amirasaad/goldvault/pkg/domain/money"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrequency(t *testing.T) {
	t.Parallel()
	f, err := account.ParseFrequency(" Weekly ")
	require.NoError(t, err)
	assert.Equal(t, account.Weekly, f)

	_, err = account.ParseFrequency("hourly")
	assert.ErrorIs(t, err, domain.ErrInvalidFrequency)
}

func TestNewRecurringRule(t *testing.T) {
	t.Parallel()
	limits := account.DefaultLimits()
	accID := uuid.New()

	r, err := account.NewRecurringRule(accID, account.Daily, money.MustMoney("500"), limits, t0)
	require.NoError(t, err)
	assert.True(t, r.Matches(account.Daily, money.MustMoney("500.00")))
	assert.False(t, r.Matches(account.Daily, money.MustMoney("501")))
	assert.False(t, r.Matches(account.Weekly, money.MustMoney("500")))

	_, err = account.NewRecurringRule(accID, account.Daily, money.MustMoney("99.99"), limits, t0)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = account.NewRecurringRule(accID, account.Frequency("hourly"), money.MustMoney("500"), limits, t0)
	assert.ErrorIs(t, err, domain.ErrInvalidFrequency)
}

func TestRecurringRule_Update(t *testing.T) {
	t.Parallel()
	limits := account.DefaultLimits()
	r, err := account.NewRecurringRule(uuid.New(), account.Daily, money.MustMoney("500"), limits, t0)
	require.NoError(t, err)

	require.NoError(t, r.Update(account.Monthly, money.MustMoney("1000"), limits, t0))
	assert.Equal(t, account.Monthly, r.Frequency)

	err = r.Update(account.Yearly, money.MustMoney("1"), limits, t0)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	assert.Equal(t, account.Monthly, r.Frequency, "failed update leaves rule unchanged")
}

func TestLimits(t *testing.T) {
	t.Parallel()
	l := account.DefaultLimits()

	assert.NoError(t, l.CheckInvestment(money.MustMoney("100")))
	assert.ErrorIs(t, l.CheckInvestment(money.MustMoney("99.99")), domain.ErrInvalidAmount)

	assert.NoError(t, l.CheckSell(money.MustGrams("0.001")))
	assert.ErrorIs(t, l.CheckSell(money.MustGrams("0.000999")), domain.ErrInvalidAmount)
	assert.ErrorIs(t, l.CheckSell(money.MustGrams("-1")), domain.ErrInvalidAmount)

	assert.NoError(t, l.CheckDeposit(money.MustMoney("1000000")))
	assert.ErrorIs(t, l.CheckDeposit(money.MustMoney("1000000.01")), domain.ErrInvalidAmount)
	assert.ErrorIs(t, l.CheckDeposit(money.ZeroMoney()), domain.ErrInvalidAmount)

	assert.ErrorIs(t, l.CheckWithdrawal(money.MustMoney("-1")), domain.ErrInvalidAmount)
}
