package account_test

import (
	"testing"

	"github.com/amirasaad/goldvault/pkg/domain"
	"github.com/amirasaad/goldvault/pkg/domain/account"
	"github.com/amirasaad/goldvault/pkg/domain/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(kind account.Kind, status account.Status, cash, gold string) *account.Transaction {
	t := &account.Transaction{Kind: kind, Status: status}
	if cash != "" {
		m := money.MustMoney(cash)
		t.AmountCash = &m
	}
	if gold != "" {
		g := money.MustGrams(gold)
		t.AmountGold = &g
	}
	return t
}

func TestSignedEffect(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		entry    *account.Transaction
		wantCash string
		wantGold string
	}{
		{"deposit", entry(account.KindDeposit, account.StatusCompleted, "10", ""), "10.00", "0.000000"},
		{"investment", entry(account.KindInvestment, account.StatusCompleted, "500", "0.025"), "0.00", "0.025000"},
		{"sell", entry(account.KindSellGold, account.StatusCompleted, "220", "0.01"), "220.00", "-0.010000"},
		{"pending withdrawal", entry(account.KindWithdrawal, account.StatusPending, "5", ""), "-5.00", "0.000000"},
		{"completed withdrawal", entry(account.KindWithdrawal, account.StatusCompleted, "5", ""), "-5.00", "0.000000"},
		{"failed withdrawal", entry(account.KindWithdrawal, account.StatusFailed, "5", ""), "0.00", "0.000000"},
		{"cancelled withdrawal", entry(account.KindWithdrawal, account.StatusCancelled, "5", ""), "0.00", "0.000000"},
		{"bonus", entry(account.KindBonus, account.StatusCompleted, "", "0.5"), "0.00", "0.500000"},
		{"redemption", entry(account.KindRedemption, account.StatusCompleted, "", "0.5"), "0.00", "-0.500000"},
		{"fee", entry(account.KindFee, account.StatusCompleted, "1.5", ""), "-1.50", "0.000000"},
		{"pending deposit", entry(account.KindDeposit, account.StatusPending, "10", ""), "0.00", "0.000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cash, gold := tt.entry.SignedEffect()
			assert.Equal(t, tt.wantCash, cash.String())
			assert.Equal(t, tt.wantGold, gold.String())
		})
	}
}

func TestTransition(t *testing.T) {
	t.Parallel()
	tx := entry(account.KindWithdrawal, account.StatusPending, "1", "")
	tx.Timestamp = t0

	require.NoError(t, tx.Transition(account.StatusCompleted, t0.Add(-1)))
	assert.Equal(t, t0, tx.UpdatedAt, "updated time never precedes creation")

	for _, next := range []account.Status{account.StatusPending, account.StatusFailed, account.StatusCancelled, account.StatusCompleted} {
		assert.ErrorIs(t, tx.Transition(next, t0), domain.ErrInvalidTransition)
	}

	pending := entry(account.KindWithdrawal, account.StatusPending, "1", "")
	assert.ErrorIs(t, pending.Transition(account.StatusPending, t0), domain.ErrInvalidTransition)
}

func TestParseStatus(t *testing.T) {
	t.Parallel()
	s, err := account.ParseStatus("failed")
	require.NoError(t, err)
	assert.Equal(t, account.StatusFailed, s)

	_, err = account.ParseStatus("done")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestKindValid(t *testing.T) {
	t.Parallel()
	assert.True(t, account.KindSellGold.Valid())
	assert.False(t, account.Kind("transfer").Valid())
}
