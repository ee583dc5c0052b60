package recurring_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/amirasaad/goldvault/infra"
	"github.com/amirasaad/goldvault/infra/provider"
	infrarepo "github.com/amirasaad/goldvault/infra/repository"
	"github.com/amirasaad/goldvault/pkg/config"
	"github.com/amirasaad/goldvault/pkg/domain"
	"github.com/amirasaad/goldvault/pkg/domain/account"
	"github.com/amirasaad/goldvault/pkg/domain/money"
	"github.com/amirasaad/goldvault/pkg/repository"
	"github.com/amirasaad/goldvault/pkg/service/ledger"
	"github.com/amirasaad/goldvault/pkg/service/recurring"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

type RecurringTestSuite struct {
	suite.Suite
	ctx     context.Context
	ledger  *ledger.Service
	svc     *recurring.Service
	user    uuid.UUID
	account *account.Account
}

func TestRecurringTestSuite(t *testing.T) {
	suite.Run(t, new(RecurringTestSuite))
}

func (s *RecurringTestSuite) SetupTest() {
	s.ctx = context.Background()
	db, err := infra.OpenSQLite(":memory:", nil)
	s.Require().NoError(err)
	s.T().Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	deps := config.Deps{
		Uow:         infrarepo.NewUoW(db),
		PriceOracle: provider.NewFixedPrice(money.MustPrice("20000")),
		Logger:      slog.Default(),
	}
	s.ledger = ledger.New(deps, ledger.DefaultOptions())
	s.svc = recurring.New(deps, s.ledger, 2)
	s.user = uuid.New()
	s.account, err = s.ledger.OpenAccount(s.ctx, s.user)
	s.Require().NoError(err)
}

func (s *RecurringTestSuite) TestAddIsIdempotent() {
	first, created, err := s.svc.Add(s.ctx, s.account.ID, s.user, account.Monthly, money.MustMoney("1000"))
	s.Require().NoError(err)
	s.True(created)

	second, created, err := s.svc.Add(s.ctx, s.account.ID, s.user, account.Monthly, money.MustMoney("1000.00"))
	s.Require().NoError(err)
	s.False(created)
	s.Equal(first.ID, second.ID)

	_, created, err = s.svc.Add(s.ctx, s.account.ID, s.user, account.Weekly, money.MustMoney("1000"))
	s.Require().NoError(err)
	s.True(created, "a different frequency is a different rule")

	rules, err := s.svc.List(s.ctx, s.account.ID, s.user)
	s.Require().NoError(err)
	s.Len(rules, 2)
}

func (s *RecurringTestSuite) TestAddValidates() {
	_, _, err := s.svc.Add(s.ctx, s.account.ID, s.user, account.Frequency("hourly"), money.MustMoney("1000"))
	s.ErrorIs(err, domain.ErrInvalidFrequency)

	_, _, err = s.svc.Add(s.ctx, s.account.ID, s.user, account.Daily, money.MustMoney("99.99"))
	s.ErrorIs(err, domain.ErrInvalidAmount)

	_, _, err = s.svc.Add(s.ctx, s.account.ID, uuid.New(), account.Daily, money.MustMoney("100"))
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *RecurringTestSuite) TestUpdate() {
	rule, _, err := s.svc.Add(s.ctx, s.account.ID, s.user, account.Monthly, money.MustMoney("1000"))
	s.Require().NoError(err)
	other, _, err := s.svc.Add(s.ctx, s.account.ID, s.user, account.Weekly, money.MustMoney("500"))
	s.Require().NoError(err)

	updated, err := s.svc.Update(s.ctx, s.account.ID, s.user, rule.ID, account.Yearly, money.MustMoney("12000"))
	s.Require().NoError(err)
	s.Equal(rule.ID, updated.ID)
	s.Equal(account.Yearly, updated.Frequency)

	_, err = s.svc.Update(s.ctx, s.account.ID, s.user, other.ID, account.Yearly, money.MustMoney("12000"))
	s.ErrorIs(err, domain.ErrAlreadyExists)

	_, err = s.svc.Update(s.ctx, s.account.ID, s.user, rule.ID, account.Yearly, money.MustMoney("50"))
	s.ErrorIs(err, domain.ErrInvalidAmount)

	_, err = s.svc.Update(s.ctx, s.account.ID, s.user, uuid.New(), account.Daily, money.MustMoney("100"))
	s.ErrorIs(err, domain.ErrNotFound)

	otherAcc, err := s.ledger.OpenAccount(s.ctx, s.user)
	s.Require().NoError(err)
	_, err = s.svc.Update(s.ctx, otherAcc.ID, s.user, rule.ID, account.Daily, money.MustMoney("100"))
	s.ErrorIs(err, domain.ErrNotFound, "rule must belong to the account")
}

func (s *RecurringTestSuite) TestRemoveKeepsHistory() {
	freq := account.Daily
	res, err := s.ledger.Invest(s.ctx, ledger.InvestRequest{
		AccountID: s.account.ID, UserID: s.user, Amount: money.MustMoney("200"), Recurring: &freq,
	})
	s.Require().NoError(err)
	s.Require().True(res.RuleCreated)

	s.Require().NoError(s.svc.Remove(s.ctx, s.account.ID, s.user, res.Rule.ID))
	s.ErrorIs(s.svc.Remove(s.ctx, s.account.ID, s.user, res.Rule.ID), domain.ErrNotFound)

	rules, err := s.svc.List(s.ctx, s.account.ID, s.user)
	s.Require().NoError(err)
	s.Empty(rules)

	n := 0
	for _, err := range s.ledger.Transactions(s.ctx, s.account.ID, s.user, repository.NewestFirst) {
		s.Require().NoError(err)
		n++
	}
	s.Equal(1, n)
}

func (s *RecurringTestSuite) TestRunDue() {
	second, err := s.ledger.OpenAccount(s.ctx, uuid.New())
	s.Require().NoError(err)

	_, _, err = s.svc.Add(s.ctx, s.account.ID, s.user, account.Weekly, money.MustMoney("1000"))
	s.Require().NoError(err)
	_, _, err = s.svc.Add(s.ctx, s.account.ID, s.user, account.Weekly, money.MustMoney("200"))
	s.Require().NoError(err)
	_, _, err = s.svc.Add(s.ctx, second.ID, second.UserID, account.Weekly, money.MustMoney("400"))
	s.Require().NoError(err)
	_, _, err = s.svc.Add(s.ctx, second.ID, second.UserID, account.Monthly, money.MustMoney("400"))
	s.Require().NoError(err)

	report, err := s.svc.RunDue(s.ctx, account.Weekly)
	s.Require().NoError(err)
	s.Equal(3, report.Due)
	s.Equal(3, report.Invested)
	s.Empty(report.Failures)

	b, err := s.ledger.Balance(s.ctx, s.account.ID, s.user)
	s.Require().NoError(err)
	s.Equal("0.060000", b.Gold.String())
	b, err = s.ledger.Balance(s.ctx, second.ID, second.UserID)
	s.Require().NoError(err)
	s.Equal("0.020000", b.Gold.String())

	_, err = s.svc.RunDue(s.ctx, account.Frequency("hourly"))
	s.ErrorIs(err, domain.ErrInvalidFrequency)
}

func (s *RecurringTestSuite) TestRunDueCollectsFailures() {
	deps := config.Deps{
		Uow:         infrarepo.NewUoW(mustDB(s)),
		PriceOracle: provider.NewFixedPrice(money.Price{}),
		Logger:      slog.Default(),
	}
	broken := ledger.New(deps, ledger.DefaultOptions())
	svc := recurring.New(deps, broken, 0)
	acc, err := broken.OpenAccount(s.ctx, s.user)
	s.Require().NoError(err)
	_, _, err = svc.Add(s.ctx, acc.ID, s.user, account.Daily, money.MustMoney("100"))
	s.Require().NoError(err)

	report, err := svc.RunDue(s.ctx, account.Daily)
	s.Require().NoError(err)
	s.Equal(1, report.Due)
	s.Equal(0, report.Invested)
	s.Require().Len(report.Failures, 1)
	s.ErrorIs(report.Failures[0].Err, domain.ErrPriceUnavailable)
}

func mustDB(s *RecurringTestSuite) *gorm.DB {
	db, err := infra.OpenSQLite(":memory:", nil)
	s.Require().NoError(err)
	return db
}
