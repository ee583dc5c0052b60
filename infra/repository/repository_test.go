package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/amirasaad/goldvault/infra"
	infrarepo "github.com/amirasaad/goldvault/infra/repository"
	"github.com/amirasaad/goldvault/pkg/domain"
	"github.com/amirasaad/goldvault/pkg/domain/account"
	"github.com/amirasaad/goldvault/pkg/domain/money"
	"github.com/amirasaad/goldvault/pkg/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*infrarepo.UoW, *account.Account, uuid.UUID) {
	t.Helper()
	db, err := infra.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	uow := infrarepo.NewUoW(db)
	userID := uuid.New()
	acc, err := account.New().WithUserID(userID).Build()
	require.NoError(t, err)
	accounts, err := uow.AccountRepository()
	require.NoError(t, err)
	require.NoError(t, accounts.Create(context.Background(), acc))
	return uow, acc, userID
}

func TestAccountRepository_RoundTripAndCAS(t *testing.T) {
	ctx := context.Background()
	uow, acc, user := setup(t)
	accounts, err := uow.AccountRepository()
	require.NoError(t, err)

	_, err = acc.Deposit(user, money.MustMoney("1000.50"), t0)
	require.NoError(t, err)
	_, err = acc.Invest(user, money.MustMoney("500"), money.MustPrice("20000"), t0.Add(time.Second))
	require.NoError(t, err)
	require.NoError(t, accounts.Update(ctx, acc))
	assert.Equal(t, int64(1), acc.Version)

	got, err := accounts.Get(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "1000.50", got.Cash.String())
	assert.Equal(t, "0.025000", got.Gold.String())
	assert.Equal(t, int64(1), got.Version)
	assert.True(t, got.LastEntryAt.Equal(acc.LastEntryAt))

	// A copy loaded before the update is now stale.
	stale := *got
	stale.Version = 0
	err = accounts.Update(ctx, &stale)
	assert.ErrorIs(t, err, domain.ErrPersistenceConflict)

	_, err = accounts.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	missing, err := account.New().WithUserID(user).Build()
	require.NoError(t, err)
	assert.ErrorIs(t, accounts.Update(ctx, missing), domain.ErrNotFound)

	assert.ErrorIs(t, accounts.Create(ctx, acc), domain.ErrAlreadyExists)
}

func TestTransactionRepository_AppendGetUpdateStatus(t *testing.T) {
	ctx := context.Background()
	uow, acc, user := setup(t)
	txs, err := uow.TransactionRepository()
	require.NoError(t, err)

	_, err = acc.Deposit(user, money.MustMoney("300"), t0)
	require.NoError(t, err)
	w, err := acc.Withdraw(user, money.MustMoney("120.25"), account.Destination{BankName: "HNB", AccountNumber: "0012345678"}, t0.Add(time.Minute))
	require.NoError(t, err)
	require.NoError(t, txs.Append(ctx, w))
	assert.ErrorIs(t, txs.Append(ctx, w), domain.ErrAlreadyExists)

	got, err := txs.Get(ctx, acc.ID, w.ID)
	require.NoError(t, err)
	assert.Equal(t, account.KindWithdrawal, got.Kind)
	assert.Equal(t, account.StatusPending, got.Status)
	assert.Equal(t, "120.25", got.AmountCash.String())
	assert.Nil(t, got.AmountGold)
	assert.Nil(t, got.UnitPrice)
	assert.Equal(t, "HNB ******5678", got.Destination)
	assert.True(t, got.Timestamp.Equal(w.Timestamp))

	_, err = txs.Get(ctx, uuid.New(), w.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "entries are scoped to their account")

	require.NoError(t, acc.SettleWithdrawal(got, account.StatusCompleted, t0.Add(time.Hour)))
	require.NoError(t, txs.UpdateStatus(ctx, got, account.StatusPending))

	// A second settlement racing on the same pending entry loses.
	again := *got
	again.Status = account.StatusFailed
	err = txs.UpdateStatus(ctx, &again, account.StatusPending)
	assert.ErrorIs(t, err, domain.ErrPersistenceConflict)

	final, err := txs.Get(ctx, acc.ID, w.ID)
	require.NoError(t, err)
	assert.Equal(t, account.StatusCompleted, final.Status)
	assert.Equal(t, "120.25", final.AmountCash.String(), "amounts are never rewritten")
}

func TestTransactionRepository_ListPage(t *testing.T) {
	ctx := context.Background()
	uow, acc, user := setup(t)
	txs, err := uow.TransactionRepository()
	require.NoError(t, err)

	// Entries 2 and 3 share a timestamp, so the id breaks the tie.
	stamps := []time.Time{t0, t0.Add(time.Second), t0.Add(time.Second), t0.Add(2 * time.Second), t0.Add(3 * time.Second)}
	var appended []*account.Transaction
	for i, at := range stamps {
		e, err := acc.Deposit(user, money.NewMoneyFromMinorUnits(int64(100*(i+1))), at)
		require.NoError(t, err)
		require.NoError(t, txs.Append(ctx, e))
		appended = append(appended, e)
	}

	collect := func(order repository.Order, size int) []string {
		var ids []string
		var cursor *repository.Cursor
		for {
			page, err := txs.ListPage(ctx, acc.ID, order, cursor, size)
			require.NoError(t, err)
			for _, e := range page {
				ids = append(ids, e.ID)
			}
			if len(page) < size {
				return ids
			}
			cursor = repository.CursorOf(page[len(page)-1])
		}
	}

	var oldest []string
	for _, e := range appended {
		oldest = append(oldest, e.ID)
	}
	newest := make([]string, len(oldest))
	for i, v := range oldest {
		newest[len(oldest)-1-i] = v
	}

	assert.Equal(t, oldest, collect(repository.OldestFirst, 2))
	assert.Equal(t, newest, collect(repository.NewestFirst, 2))
	assert.Equal(t, newest, collect(repository.NewestFirst, 10))

	empty, err := txs.ListPage(ctx, uuid.New(), repository.NewestFirst, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = txs.ListPage(ctx, acc.ID, repository.NewestFirst, nil, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = txs.ListPage(ctx, acc.ID, repository.Order("sideways"), nil, 1)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRecurringRuleRepository(t *testing.T) {
	ctx := context.Background()
	uow, acc, _ := setup(t)
	rules, err := uow.RecurringRuleRepository()
	require.NoError(t, err)
	limits := account.DefaultLimits()

	monthly, err := account.NewRecurringRule(acc.ID, account.Monthly, money.MustMoney("1000"), limits, t0)
	require.NoError(t, err)
	require.NoError(t, rules.Create(ctx, monthly))

	dup, err := account.NewRecurringRule(acc.ID, account.Monthly, money.MustMoney("1000.00"), limits, t0)
	require.NoError(t, err)
	assert.ErrorIs(t, rules.Create(ctx, dup), domain.ErrAlreadyExists)

	found, err := rules.FindMatching(ctx, acc.ID, account.Monthly, money.MustMoney("1000"))
	require.NoError(t, err)
	assert.Equal(t, monthly.ID, found.ID)
	_, err = rules.FindMatching(ctx, acc.ID, account.Weekly, money.MustMoney("1000"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	weekly, err := account.NewRecurringRule(acc.ID, account.Weekly, money.MustMoney("250"), limits, t0.Add(time.Second))
	require.NoError(t, err)
	require.NoError(t, rules.Create(ctx, weekly))

	// Updating into an existing identity violates the unique index.
	require.NoError(t, weekly.Update(account.Monthly, money.MustMoney("1000"), limits, t0.Add(time.Minute)))
	assert.ErrorIs(t, rules.Update(ctx, weekly), domain.ErrAlreadyExists)

	require.NoError(t, weekly.Update(account.Daily, money.MustMoney("300"), limits, t0.Add(time.Minute)))
	require.NoError(t, rules.Update(ctx, weekly))
	got, err := rules.Get(ctx, acc.ID, weekly.ID)
	require.NoError(t, err)
	assert.Equal(t, account.Daily, got.Frequency)
	assert.Equal(t, "300.00", got.Amount.String())

	list, err := rules.ListByAccount(ctx, acc.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, monthly.ID, list[0].ID)

	daily, err := rules.ListByFrequency(ctx, account.Daily)
	require.NoError(t, err)
	require.Len(t, daily, 1)
	assert.Equal(t, weekly.ID, daily[0].ID)

	_, err = rules.Get(ctx, uuid.New(), weekly.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, rules.Delete(ctx, uuid.New(), weekly.ID), domain.ErrNotFound)
	require.NoError(t, rules.Delete(ctx, acc.ID, weekly.ID))
	assert.ErrorIs(t, rules.Delete(ctx, acc.ID, weekly.ID), domain.ErrNotFound)

	ghost := *monthly
	ghost.ID = uuid.New()
	assert.ErrorIs(t, rules.Update(ctx, &ghost), domain.ErrNotFound)
}

func TestUoW_RollsBackAllWrites(t *testing.T) {
	ctx := context.Background()
	uow, acc, user := setup(t)

	var entryID string
	err := uow.Do(ctx, func(u repository.UnitOfWork) error {
		accounts, err := u.AccountRepository()
		require.NoError(t, err)
		txs, err := u.TransactionRepository()
		require.NoError(t, err)

		loaded, err := accounts.Get(ctx, acc.ID)
		require.NoError(t, err)
		e, err := loaded.Deposit(user, money.MustMoney("50"), t0)
		require.NoError(t, err)
		entryID = e.ID
		require.NoError(t, txs.Append(ctx, e))
		require.NoError(t, accounts.Update(ctx, loaded))
		return domain.ErrInsufficientFunds
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	accounts, err := uow.AccountRepository()
	require.NoError(t, err)
	got, err := accounts.Get(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, got.Cash.IsZero())
	assert.Equal(t, int64(0), got.Version)

	txs, err := uow.TransactionRepository()
	require.NoError(t, err)
	_, err = txs.Get(ctx, acc.ID, entryID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
