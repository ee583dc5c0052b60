// Package recurring manages the auto-investment rules attached to accounts and
// runs the rules that are due by calling back into the ledger.
package recurring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/goldvault/pkg/config"
	"github.com/amirasaad/goldvault/pkg/domain"
	"github.com/amirasaad/goldvault/pkg/domain/account"
	"github.com/amirasaad/goldvault/pkg/domain/events"
	"github.com/amirasaad/goldvault/pkg/domain/money"
	"github.com/amirasaad/goldvault/pkg/eventbus"
	"github.com/amirasaad/goldvault/pkg/repository"
	"github.com/amirasaad/goldvault/pkg/service/ledger"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds how many rules RunDue executes at once.
const DefaultConcurrency = 8

// Service provides the recurring payment registry.
type Service struct {
	uow         repository.UnitOfWork
	ledger      *ledger.Service
	bus         eventbus.Bus
	logger      *slog.Logger
	concurrency int
	now         func() time.Time
}

// New creates a Service. Amount bounds come from ledgerSvc so rules and
// investments are validated alike.
func New(deps config.Deps, ledgerSvc *ledger.Service, concurrency int) *Service {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		uow:         deps.Uow,
		ledger:      ledgerSvc,
		bus:         deps.EventBus,
		logger:      logger.With("service", "recurring"),
		concurrency: concurrency,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Add schedules amount at freq for the account. An identical rule is never
// duplicated: when one exists it is returned with created == false.
func (s *Service) Add(
	ctx context.Context,
	accountID, userID uuid.UUID,
	freq account.Frequency,
	amount money.Money,
) (rule *account.RecurringRule, created bool, err error) {
	logger := s.logger.With("op", "add", "accountID", accountID, "frequency", freq, "amount", amount)
	logger.Info("Add started")
	defer func() {
		if err != nil {
			logger.Error("Add failed", "error", err)
		} else {
			logger.Info("Add successful", "ruleID", rule.ID, "created", created)
		}
	}()

	candidate, err := account.NewRecurringRule(accountID, freq, amount, s.ledger.Limits(), s.now())
	if err != nil {
		return nil, false, err
	}
	err = s.withOwnedAccount(ctx, accountID, userID, func(rules repository.RecurringRuleRepository) error {
		existing, err := rules.FindMatching(ctx, accountID, freq, amount)
		switch {
		case err == nil:
			rule = existing
			return nil
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}
		if err := rules.Create(ctx, candidate); err != nil {
			return err
		}
		rule, created = candidate, true
		return nil
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		// A concurrent Add inserted the same rule between our lookup and insert.
		return s.findMatching(ctx, accountID, freq, amount)
	}
	if err != nil {
		return nil, false, err
	}
	if created {
		s.emit(ctx, &events.RecurringRuleAdded{
			LedgerEvent: events.NewLedgerEvent(accountID, userID, "", rule.CreatedAt),
			RuleID:      rule.ID,
			Frequency:   string(rule.Frequency),
			Amount:      rule.Amount.String(),
		})
	}
	return rule, created, nil
}

// Update overwrites the rule's frequency and amount. It returns
// domain.ErrNotFound when the rule is not the account's, and
// domain.ErrAlreadyExists when the account already has a rule with the new
// frequency and amount.
func (s *Service) Update(
	ctx context.Context,
	accountID, userID, ruleID uuid.UUID,
	freq account.Frequency,
	amount money.Money,
) (rule *account.RecurringRule, err error) {
	logger := s.logger.With("op", "update", "accountID", accountID, "ruleID", ruleID)
	logger.Info("Update started")
	defer func() {
		if err != nil {
			logger.Error("Update failed", "error", err)
		} else {
			logger.Info("Update successful", "frequency", rule.Frequency, "amount", rule.Amount)
		}
	}()

	err = s.withOwnedAccount(ctx, accountID, userID, func(rules repository.RecurringRuleRepository) error {
		r, err := rules.Get(ctx, accountID, ruleID)
		if err != nil {
			return err
		}
		if err := r.Update(freq, amount, s.ledger.Limits(), s.now()); err != nil {
			return err
		}
		if err := rules.Update(ctx, r); err != nil {
			return err
		}
		rule = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rule, nil
}

// Remove deletes the rule permanently. Past investments it made stay in the log.
func (s *Service) Remove(ctx context.Context, accountID, userID, ruleID uuid.UUID) (err error) {
	logger := s.logger.With("op", "remove", "accountID", accountID, "ruleID", ruleID)
	logger.Info("Remove started")
	defer func() {
		if err != nil {
			logger.Error("Remove failed", "error", err)
		} else {
			logger.Info("Remove successful")
		}
	}()

	return s.withOwnedAccount(ctx, accountID, userID, func(rules repository.RecurringRuleRepository) error {
		return rules.Delete(ctx, accountID, ruleID)
	})
}

// List returns the account's rules, oldest first.
func (s *Service) List(ctx context.Context, accountID, userID uuid.UUID) ([]*account.RecurringRule, error) {
	if _, err := s.ledger.Account(ctx, accountID, userID); err != nil {
		return nil, err
	}
	rules, err := s.uow.RecurringRuleRepository()
	if err != nil {
		return nil, err
	}
	return rules.ListByAccount(ctx, accountID)
}

// Failure records a rule that could not be executed.
type Failure struct {
	RuleID    uuid.UUID `json:"rule_id"`
	AccountID uuid.UUID `json:"account_id"`
	Err       error     `json:"-"`
	Message   string    `json:"error"`
}

// Report summarises one RunDue pass.
type Report struct {
	Frequency account.Frequency `json:"frequency"`
	Due       int               `json:"due"`
	Invested  int               `json:"invested"`
	Failures  []Failure         `json:"failures"`
}

// RunDue executes every rule of freq by investing its amount through the
// ledger on behalf of the account owner. A failing rule is recorded in the
// report and does not stop the others.
func (s *Service) RunDue(ctx context.Context, freq account.Frequency) (*Report, error) {
	if !freq.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidFrequency, freq)
	}
	logger := s.logger.With("op", "run_due", "frequency", freq)

	repo, err := s.uow.RecurringRuleRepository()
	if err != nil {
		return nil, err
	}
	rules, err := repo.ListByFrequency(ctx, freq)
	if err != nil {
		return nil, err
	}
	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}

	results := make([]error, len(rules))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, rule := range rules {
		g.Go(func() error {
			acc, err := accounts.Get(gctx, rule.AccountID)
			if err == nil {
				_, err = s.ledger.Invest(gctx, ledger.InvestRequest{
					AccountID: rule.AccountID,
					UserID:    acc.UserID,
					Amount:    rule.Amount,
				})
			}
			results[i] = err
			// Per-rule failures never cancel the rest of the pass.
			return nil
		})
	}
	_ = g.Wait()

	report := &Report{Frequency: freq, Due: len(rules), Failures: []Failure{}}
	for i, err := range results {
		if err == nil {
			report.Invested++
			continue
		}
		report.Failures = append(report.Failures, Failure{
			RuleID:    rules[i].ID,
			AccountID: rules[i].AccountID,
			Err:       err,
			Message:   err.Error(),
		})
		logger.Warn("recurring investment failed", "ruleID", rules[i].ID, "accountID", rules[i].AccountID, "error", err)
	}
	logger.Info("RunDue finished", "due", report.Due, "invested", report.Invested, "failed", len(report.Failures))
	return report, nil
}

func (s *Service) withOwnedAccount(
	ctx context.Context,
	accountID, userID uuid.UUID,
	fn func(rules repository.RecurringRuleRepository) error,
) error {
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acc, err := accounts.Get(ctx, accountID)
		if err != nil {
			return err
		}
		if err := acc.CheckOwner(userID); err != nil {
			return err
		}
		rules, err := uow.RecurringRuleRepository()
		if err != nil {
			return err
		}
		return fn(rules)
	})
}

func (s *Service) findMatching(ctx context.Context, accountID uuid.UUID, freq account.Frequency, amount money.Money) (*account.RecurringRule, bool, error) {
	rules, err := s.uow.RecurringRuleRepository()
	if err != nil {
		return nil, false, err
	}
	rule, err := rules.FindMatching(ctx, accountID, freq, amount)
	if err != nil {
		return nil, false, err
	}
	return rule, false, nil
}

func (s *Service) emit(ctx context.Context, e events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Emit(ctx, e); err != nil {
		s.logger.Error("failed to emit event", "type", e.Type(), "error", err)
	}
}
