package cmd

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/amirasaad/goldvault/pkg/config"
	"github.com/amirasaad/goldvault/pkg/domain/account"
	"github.com/amirasaad/goldvault/pkg/domain/money"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileConfig(t *testing.T) *config.App {
	t.Helper()
	return &config.App{
		Env:  "test",
		Log:  &config.Log{Format: "text"},
		DB:   &config.DB{Url: "sqlite://" + filepath.Join(t.TempDir(), "ledger.db")},
		Auth: &config.Auth{Strategy: "jwt", Jwt: &config.Jwt{Secret: "ops-secret", Expiry: time.Hour}},
		Ledger: &config.Ledger{
			Currency:      "LKR",
			MinInvestment: "100",
			MinSell:       "0.001",
			MaxDeposit:    "1000000",
			MaxRetries:    3,
			PageSize:      50,
		},
		Oracle:   &config.Oracle{Kind: "fixed", FixedPrice: "25000"},
		EventBus: &config.EventBus{Kind: "memory"},
	}
}

func testOptions(cfg *config.App) *options {
	return &options{load: func(string) (*config.App, error) { return cfg, nil }}
}

func execute(t *testing.T, opts *options, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(opts)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// services bootstraps the same database the commands use.
func services(t *testing.T, opts *options) *runtime {
	t.Helper()
	cmd := &cobra.Command{}
	cmd.SetErr(io.Discard)
	rt, done, err := opts.bootstrap(cmd)
	require.NoError(t, err)
	t.Cleanup(done)
	return rt
}

var accountLine = regexp.MustCompile(`opened account ([0-9a-f-]{36})`)

func TestAccountOpenAndReconcile(t *testing.T) {
	opts := testOptions(fileConfig(t))
	userID := uuid.New()

	out, err := execute(t, opts, "account", "open", userID.String())
	require.NoError(t, err)
	m := accountLine.FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	accountID := uuid.MustParse(m[1])

	rt := services(t, opts)
	ctx := context.Background()
	_, err = rt.app.LedgerService.Deposit(ctx, accountID, userID, money.MustMoney("1000"))
	require.NoError(t, err)
	res, err := rt.app.LedgerService.Withdraw(ctx, accountID, userID, money.MustMoney("400"),
		account.Destination{BankName: "NSB", AccountNumber: "556677"})
	require.NoError(t, err)

	out, err = execute(t, opts, "account", "settle", accountID.String(), res.Entry.ID, "failed")
	require.NoError(t, err)
	assert.Contains(t, out, "is failed; cash balance 1000.00")

	_, err = execute(t, opts, "account", "settle", accountID.String(), res.Entry.ID, "completed")
	assert.Error(t, err, "settled withdrawals are final")

	out, err = execute(t, opts, "account", "reconcile", accountID.String())
	require.NoError(t, err)
	assert.Contains(t, out, "is consistent over 2 entries")
	assert.Contains(t, out, `"consistent": true`)
}

func TestRecurringRunAndList(t *testing.T) {
	opts := testOptions(fileConfig(t))
	rt := services(t, opts)
	ctx := context.Background()
	userID := uuid.New()
	acc, err := rt.app.LedgerService.OpenAccount(ctx, userID)
	require.NoError(t, err)
	rule, _, err := rt.app.RecurringService.Add(ctx, acc.ID, userID, account.Weekly, money.MustMoney("500"))
	require.NoError(t, err)

	out, err := execute(t, opts, "recurring", "run", "weekly")
	require.NoError(t, err)
	assert.Contains(t, out, "weekly: 1 of 1 rules invested")

	out, err = execute(t, opts, "recurring", "list", acc.ID.String())
	require.NoError(t, err)
	assert.Contains(t, out, rule.ID.String())
	assert.Contains(t, out, "500.00")

	got, err := rt.app.LedgerService.Account(ctx, acc.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, "0.020000", got.Gold.String())
}

func TestTokenIsAccepted(t *testing.T) {
	opts := testOptions(fileConfig(t))
	userID := uuid.New()
	out, err := execute(t, opts, "token", userID.String())
	require.NoError(t, err)

	rt := services(t, opts)
	token, err := rt.app.AuthService.ParseToken(string(bytes.TrimSpace([]byte(out))))
	require.NoError(t, err)
	got, err := rt.app.AuthService.GetCurrentUserID(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestMigrate(t *testing.T) {
	opts := testOptions(fileConfig(t))
	out, err := execute(t, opts, "migrate", "up")
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")

	_, err = execute(t, opts, "migrate", "down")
	assert.ErrorContains(t, err, "only supported on postgres")
}

func TestArgumentErrors(t *testing.T) {
	opts := testOptions(fileConfig(t))
	tests := [][]string{
		{"account", "open", "not-a-uuid"},
		{"account", "settle", uuid.NewString(), "01J0000000000000000000000", "pending"},
		{"recurring", "run", "hourly"},
		{"token"},
	}
	for _, args := range tests {
		_, err := execute(t, opts, args...)
		assert.Error(t, err, "%v", args)
	}
}
