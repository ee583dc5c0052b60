package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amirasaad/goldvault/pkg/domain"
	"github.com/amirasaad/goldvault/pkg/domain/account"
	"github.com/amirasaad/goldvault/pkg/domain/events"
	"github.com/amirasaad/goldvault/pkg/domain/money"
	"github.com/amirasaad/goldvault/pkg/repository"
	"github.com/google/uuid"
)

// InvestRequest buys gold for Amount. When Recurring is set the same amount is
// also scheduled at that frequency, idempotently, in the same unit of work.
type InvestRequest struct {
	AccountID uuid.UUID
	UserID    uuid.UUID
	Amount    money.Money
	Recurring *account.Frequency
}

// OpenAccount provisions an account with zero balances for userID.
func (s *Service) OpenAccount(ctx context.Context, userID uuid.UUID) (acc *account.Account, err error) {
	logger := s.logger.With("op", "open_account", "userID", userID)
	logger.Info("OpenAccount started")
	defer func() {
		if err != nil {
			logger.Error("OpenAccount failed", "error", err)
		} else {
			logger.Info("OpenAccount successful", "accountID", acc.ID)
		}
	}()

	acc, err = account.New().WithUserID(userID).WithCurrency(s.opts.Currency).Build()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		return repo.Create(ctx, acc)
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// Invest credits gold bought at the current oracle price. Cash is not debited;
// the purchase is paid externally.
func (s *Service) Invest(ctx context.Context, req InvestRequest) (*Result, error) {
	return s.execute(ctx, mutation{
		op:         "invest",
		accountID:  req.AccountID,
		userID:     req.UserID,
		checkOwner: true,
		needsPrice: true,
		validate: func() error {
			if req.Recurring != nil && !req.Recurring.Valid() {
				return fmt.Errorf("%w: %q", domain.ErrInvalidFrequency, *req.Recurring)
			}
			return s.opts.Limits.CheckInvestment(req.Amount)
		},
		apply: func(ctx context.Context, acc *account.Account, r repos, price money.Price, now time.Time) (*Result, error) {
			tx, err := acc.Invest(req.UserID, req.Amount, price, now)
			if err != nil {
				return nil, err
			}
			if err := r.transactions.Append(ctx, tx); err != nil {
				return nil, err
			}
			res := &Result{Entry: tx}
			if req.Recurring != nil {
				rule, created, err := addRule(ctx, r, acc.ID, *req.Recurring, req.Amount, s.opts.Limits, now)
				if err != nil {
					return nil, err
				}
				res.Rule, res.RuleCreated = rule, created
			}
			return res, nil
		},
		events: func(res *Result) []events.Event {
			evts := []events.Event{&events.GoldInvested{
				LedgerEvent:  s.header(res),
				Amount:       res.Entry.AmountCash.String(),
				Grams:        res.Entry.AmountGold.String(),
				PricePerGram: res.Entry.UnitPrice.String(),
				GoldBalance:  res.Account.Gold.String(),
			}}
			if res.RuleCreated {
				evts = append(evts, ruleAdded(res.Account, res.Rule))
			}
			return evts
		},
	})
}

// Sell converts grams of gold to cash at the current oracle price.
func (s *Service) Sell(ctx context.Context, accountID, userID uuid.UUID, grams money.Grams) (*Result, error) {
	return s.execute(ctx, mutation{
		op:         "sell",
		accountID:  accountID,
		userID:     userID,
		checkOwner: true,
		needsPrice: true,
		validate:   func() error { return s.opts.Limits.CheckSell(grams) },
		apply: func(ctx context.Context, acc *account.Account, r repos, price money.Price, now time.Time) (*Result, error) {
			tx, err := acc.Sell(userID, grams, price, now)
			if err != nil {
				return nil, err
			}
			if err := r.transactions.Append(ctx, tx); err != nil {
				return nil, err
			}
			return &Result{Entry: tx}, nil
		},
		events: func(res *Result) []events.Event {
			return []events.Event{&events.GoldSold{
				LedgerEvent:  s.header(res),
				Grams:        res.Entry.AmountGold.String(),
				Proceeds:     res.Entry.AmountCash.String(),
				PricePerGram: res.Entry.UnitPrice.String(),
				GoldBalance:  res.Account.Gold.String(),
				CashBalance:  res.Account.Cash.String(),
			}}
		},
	})
}

// Deposit credits cash, bounded by the configured maximum.
func (s *Service) Deposit(ctx context.Context, accountID, userID uuid.UUID, amount money.Money) (*Result, error) {
	return s.execute(ctx, mutation{
		op:         "deposit",
		accountID:  accountID,
		userID:     userID,
		checkOwner: true,
		validate:   func() error { return s.opts.Limits.CheckDeposit(amount) },
		apply: func(ctx context.Context, acc *account.Account, r repos, _ money.Price, now time.Time) (*Result, error) {
			tx, err := acc.Deposit(userID, amount, now)
			if err != nil {
				return nil, err
			}
			if err := r.transactions.Append(ctx, tx); err != nil {
				return nil, err
			}
			return &Result{Entry: tx}, nil
		},
		events: func(res *Result) []events.Event {
			return []events.Event{&events.FundsDeposited{
				LedgerEvent: s.header(res),
				Amount:      res.Entry.AmountCash.String(),
				CashBalance: res.Account.Cash.String(),
			}}
		},
	})
}

// Withdraw reserves cash for a payout and appends a pending withdrawal. The
// payout is settled later through SettleWithdrawal.
func (s *Service) Withdraw(ctx context.Context, accountID, userID uuid.UUID, amount money.Money, dest account.Destination) (*Result, error) {
	return s.execute(ctx, mutation{
		op:         "withdraw",
		accountID:  accountID,
		userID:     userID,
		checkOwner: true,
		validate: func() error {
			if err := s.opts.Limits.CheckWithdrawal(amount); err != nil {
				return err
			}
			return dest.Validate()
		},
		apply: func(ctx context.Context, acc *account.Account, r repos, _ money.Price, now time.Time) (*Result, error) {
			tx, err := acc.Withdraw(userID, amount, dest, now)
			if err != nil {
				return nil, err
			}
			if err := r.transactions.Append(ctx, tx); err != nil {
				return nil, err
			}
			return &Result{Entry: tx}, nil
		},
		events: func(res *Result) []events.Event {
			return []events.Event{&events.WithdrawalRequested{
				LedgerEvent: s.header(res),
				Amount:      res.Entry.AmountCash.String(),
				Destination: res.Entry.Destination,
				CashBalance: res.Account.Cash.String(),
			}}
		},
	})
}

// SettleWithdrawal is the settlement contract for pending withdrawals. It is
// called by the payout process, not by account owners: completed keeps the
// reservation, failed and cancelled credit it back. Both the entry status and
// the balance change commit together.
func (s *Service) SettleWithdrawal(ctx context.Context, accountID uuid.UUID, entryID string, outcome account.Status) (*Result, error) {
	return s.settle(ctx, mutation{
		op:        "settle_withdrawal",
		accountID: accountID,
	}, entryID, outcome)
}

// CancelWithdrawal lets the owner cancel their own pending withdrawal.
func (s *Service) CancelWithdrawal(ctx context.Context, accountID, userID uuid.UUID, entryID string) (*Result, error) {
	return s.settle(ctx, mutation{
		op:         "cancel_withdrawal",
		accountID:  accountID,
		userID:     userID,
		checkOwner: true,
	}, entryID, account.StatusCancelled)
}

func (s *Service) settle(ctx context.Context, m mutation, entryID string, outcome account.Status) (*Result, error) {
	m.validate = func() error {
		if !outcome.Terminal() {
			return fmt.Errorf("%w: %q is not a settlement outcome", domain.ErrInvalidTransition, outcome)
		}
		return nil
	}
	m.apply = func(ctx context.Context, acc *account.Account, r repos, _ money.Price, now time.Time) (*Result, error) {
		tx, err := r.transactions.Get(ctx, acc.ID, entryID)
		if err != nil {
			return nil, err
		}
		from := tx.Status
		if err := acc.SettleWithdrawal(tx, outcome, now); err != nil {
			return nil, err
		}
		if err := r.transactions.UpdateStatus(ctx, tx, from); err != nil {
			return nil, err
		}
		return &Result{Entry: tx}, nil
	}
	m.events = func(res *Result) []events.Event {
		return []events.Event{&events.WithdrawalSettled{
			LedgerEvent: s.header(res),
			Status:      string(res.Entry.Status),
			Amount:      res.Entry.AmountCash.String(),
			CashBalance: res.Account.Cash.String(),
		}}
	}
	return s.execute(ctx, m)
}

// addRule inserts a recurring rule unless the account already has one with the
// same frequency and amount, in which case that rule is returned.
func addRule(ctx context.Context, r repos, accountID uuid.UUID, freq account.Frequency, amount money.Money, limits account.Limits, now time.Time) (*account.RecurringRule, bool, error) {
	existing, err := r.rules.FindMatching(ctx, accountID, freq, amount)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}
	rule, err := account.NewRecurringRule(accountID, freq, amount, limits, now)
	if err != nil {
		return nil, false, err
	}
	if err := r.rules.Create(ctx, rule); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			// Another process inserted the same rule; retrying will find it.
			return nil, false, fmt.Errorf("%w: %w", domain.ErrPersistenceConflict, err)
		}
		return nil, false, err
	}
	return rule, true, nil
}

func (s *Service) header(res *Result) events.LedgerEvent {
	return events.NewLedgerEvent(res.Account.ID, res.Account.UserID, res.Entry.ID, res.Entry.UpdatedAt)
}

func ruleAdded(acc *account.Account, rule *account.RecurringRule) *events.RecurringRuleAdded {
	return &events.RecurringRuleAdded{
		LedgerEvent: events.NewLedgerEvent(acc.ID, acc.UserID, "", rule.CreatedAt),
		RuleID:      rule.ID,
		Frequency:   string(rule.Frequency),
		Amount:      rule.Amount.String(),
	}
}
