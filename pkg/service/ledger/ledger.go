// Package ledger is the only code path that changes account balances.
//
// Every operation follows the same shape: validate input, fetch a price when
// the operation needs one, take the per-account lock, then load the account,
// apply the domain mutation, append or update the log entry and save the
// account inside one unit of work. Optimistic version conflicts are retried a
// bounded number of times. Events are published only after commit.
package ledger

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
	"github.com/amirasaad/goldvault/pkg/metrics"
	"github.com/amirasaad/goldvault/pkg/provider"
	"github.com/amirasaad/goldvault/pkg/repository"
	"github.com/google/uuid"
)

// Options tunes the service.
type Options struct {
	Limits        account.Limits
	Currency      string
	MaxRetries    int
	PageSize      int
	OracleTimeout time.Duration
}

// DefaultOptions returns production defaults.
func DefaultOptions() Options {
	return Options{
		Limits:        account.DefaultLimits(),
		Currency:      account.DefaultCurrency,
		MaxRetries:    3,
		PageSize:      50,
		OracleTimeout: 5 * time.Second,
	}
}

// Service provides the ledger operations and the read side of the transaction log.
type Service struct {
	uow     repository.UnitOfWork
	oracle  provider.PriceOracle
	bus     eventbus.Bus
	metrics *metrics.Ledger
	logger  *slog.Logger
	opts    Options
	locks   *Locker
	now     func() time.Time
}

// New creates a Service. A nil EventBus or Metrics disables that concern.
func New(deps config.Deps, opts Options) *Service {
	def := DefaultOptions()
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.PageSize <= 0 {
		opts.PageSize = def.PageSize
	}
	if opts.OracleTimeout <= 0 {
		opts.OracleTimeout = def.OracleTimeout
	}
	if opts.Currency == "" {
		opts.Currency = def.Currency
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		uow:     deps.Uow,
		oracle:  deps.PriceOracle,
		bus:     deps.EventBus,
		metrics: deps.Metrics,
		logger:  logger.With("service", "ledger"),
		opts:    opts,
		locks:   NewLocker(),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Limits returns the amount bounds the service enforces.
func (s *Service) Limits() account.Limits { return s.opts.Limits }

// Result is what a successful mutation returns: the account after the change
// and the entry recording it.
type Result struct {
	Account     *account.Account
	Entry       *account.Transaction
	Rule        *account.RecurringRule // set when an investment also scheduled a rule
	RuleCreated bool
	Quote       *provider.Quote
}

type repos struct {
	accounts     repository.AccountRepository
	transactions repository.TransactionRepository
	rules        repository.RecurringRuleRepository
}

// mutation describes one ledger operation for execute.
type mutation struct {
	op         string
	accountID  uuid.UUID
	userID     uuid.UUID
	checkOwner bool
	needsPrice bool
	validate   func() error
	apply      func(ctx context.Context, acc *account.Account, r repos, price money.Price, now time.Time) (*Result, error)
	events     func(res *Result) []events.Event
}

func (s *Service) execute(ctx context.Context, m mutation) (res *Result, err error) {
	started := time.Now()
	logger := s.logger.With("op", m.op, "accountID", m.accountID, "userID", m.userID)
	logger.Info("ledger operation started")
	defer func() {
		s.metrics.Observe(m.op, started, err)
		if err != nil {
			logger.Error("ledger operation failed", "error", err)
		} else {
			logger.Info("ledger operation successful", "entryID", res.Entry.ID, "status", res.Entry.Status)
		}
	}()

	if m.validate != nil {
		if err = m.validate(); err != nil {
			return nil, err
		}
	}

	// Price first: oracle latency never holds a lock or a database transaction,
	// and an oracle failure returns before anything is written.
	var quote *provider.Quote
	if m.needsPrice {
		if quote, err = s.currentPrice(ctx); err != nil {
			return nil, err
		}
	}

	unlock, err := s.locks.Lock(ctx, m.accountID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	for attempt := 0; ; attempt++ {
		res, err = s.attempt(ctx, m, quote)
		if err == nil || !errors.Is(err, domain.ErrPersistenceConflict) || attempt >= s.opts.MaxRetries {
			break
		}
		s.metrics.Retry(m.op)
		logger.Warn("ledger operation conflict, retrying", "attempt", attempt+1)
	}
	if err != nil {
		return nil, err
	}

	res.Quote = quote
	if m.events != nil {
		s.emit(ctx, m.events(res)...)
	}
	return res, nil
}

func (s *Service) attempt(ctx context.Context, m mutation, quote *provider.Quote) (*Result, error) {
	var res *Result
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		r, err := getRepositories(uow)
		if err != nil {
			return err
		}
		acc, err := r.accounts.Get(ctx, m.accountID)
		if err != nil {
			return err
		}
		if m.checkOwner {
			if err := acc.CheckOwner(m.userID); err != nil {
				return err
			}
		}

		var price money.Price
		if quote != nil {
			price = quote.PricePerGram
		}
		res, err = m.apply(ctx, acc, r, price, s.now())
		if err != nil {
			return err
		}
		if err := r.accounts.Update(ctx, acc); err != nil {
			return err
		}
		res.Account = acc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// currentPrice asks the oracle for a quote under the configured timeout and
// rejects anything that is not a positive price.
func (s *Service) currentPrice(ctx context.Context) (*provider.Quote, error) {
	if s.oracle == nil {
		return nil, fmt.Errorf("%w: no price oracle configured", domain.ErrPriceUnavailable)
	}
	ctx, cancel := context.WithTimeout(ctx, s.opts.OracleTimeout)
	defer cancel()

	q, err := s.oracle.CurrentPrice(ctx)
	if err == nil {
		err = provider.ValidateQuote(q)
	}
	if err != nil {
		s.metrics.OracleFailure(s.oracle.Name())
		if errors.Is(err, domain.ErrPriceUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrPriceUnavailable, s.oracle.Name(), err)
	}
	return q, nil
}

// emit publishes events after commit. A failed publish is logged; the ledger
// change it describes is already durable.
func (s *Service) emit(ctx context.Context, evts ...events.Event) {
	if s.bus == nil {
		return
	}
	for _, e := range evts {
		if err := s.bus.Emit(ctx, e); err != nil {
			s.logger.Error("failed to emit event", "type", e.Type(), "error", err)
		}
	}
}

func getRepositories(uow repository.UnitOfWork) (repos, error) {
	accounts, err := uow.AccountRepository()
	if err != nil {
		return repos{}, err
	}
	transactions, err := uow.TransactionRepository()
	if err != nil {
		return repos{}, err
	}
	rules, err := uow.RecurringRuleRepository()
	if err != nil {
		return repos{}, err
	}
	return repos{accounts: accounts, transactions: transactions, rules: rules}, nil
}
