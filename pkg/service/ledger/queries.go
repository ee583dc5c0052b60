package ledger

import (
	"context"
	"fmt"
	"iter"

	"github.com/amirasaad/goldvault/pkg/domain"
	"github.com/amirasaad/goldvault/pkg/domain/account"
	"github.com/amirasaad/goldvault/pkg/domain/money"
	"github.com/amirasaad/goldvault/pkg/id"
	"github.com/amirasaad/goldvault/pkg/repository"
	"github.com/google/uuid"
)

// Account returns the account if userID owns it.
func (s *Service) Account(ctx context.Context, accountID, userID uuid.UUID) (*account.Account, error) {
	acc, err := s.load(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := acc.CheckOwner(userID); err != nil {
		return nil, err
	}
	return acc, nil
}

// Balance returns the stored balances of an account owned by userID.
func (s *Service) Balance(ctx context.Context, accountID, userID uuid.UUID) (account.Balances, error) {
	acc, err := s.Account(ctx, accountID, userID)
	if err != nil {
		return account.Balances{}, err
	}
	return acc.Balances(), nil
}

// Transactions lists the account's log lazily, one page at a time. The
// sequence is restartable: every range over it queries from the start.
// Ownership is checked when iteration begins; a failure is yielded as the
// only element.
func (s *Service) Transactions(ctx context.Context, accountID, userID uuid.UUID, order repository.Order) iter.Seq2[*account.Transaction, error] {
	return s.TransactionsAfter(ctx, accountID, userID, order, "")
}

// TransactionsAfter is Transactions resuming strictly after the entry afterID.
// An empty afterID starts at the head of the log. An entry that is not in the
// account's log is ErrNotFound; a malformed id is ErrValidation.
func (s *Service) TransactionsAfter(
	ctx context.Context,
	accountID, userID uuid.UUID,
	order repository.Order,
	afterID string,
) iter.Seq2[*account.Transaction, error] {
	return func(yield func(*account.Transaction, error) bool) {
		if _, err := s.Account(ctx, accountID, userID); err != nil {
			yield(nil, err)
			return
		}
		start, err := s.cursorAt(ctx, accountID, afterID)
		if err != nil {
			yield(nil, err)
			return
		}
		for t, err := range s.entriesFrom(ctx, accountID, order, start) {
			if !yield(t, err) || err != nil {
				return
			}
		}
	}
}

func (s *Service) cursorAt(ctx context.Context, accountID uuid.UUID, entryID string) (*repository.Cursor, error) {
	if entryID == "" {
		return nil, nil
	}
	if !id.Valid(entryID) {
		return nil, fmt.Errorf("%w: malformed entry id %q", domain.ErrValidation, entryID)
	}
	repo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	t, err := repo.Get(ctx, accountID, entryID)
	if err != nil {
		return nil, err
	}
	return repository.CursorOf(t), nil
}

func (s *Service) entries(ctx context.Context, accountID uuid.UUID, order repository.Order) iter.Seq2[*account.Transaction, error] {
	return s.entriesFrom(ctx, accountID, order, nil)
}

func (s *Service) entriesFrom(
	ctx context.Context,
	accountID uuid.UUID,
	order repository.Order,
	cursor *repository.Cursor,
) iter.Seq2[*account.Transaction, error] {
	return func(yield func(*account.Transaction, error) bool) {
		repo, err := s.uow.TransactionRepository()
		if err != nil {
			yield(nil, err)
			return
		}
		for {
			page, err := repo.ListPage(ctx, accountID, order, cursor, s.opts.PageSize)
			if err != nil {
				yield(nil, err)
				return
			}
			for _, t := range page {
				if !yield(t, nil) {
					return
				}
			}
			if len(page) < s.opts.PageSize {
				return
			}
			cursor = repository.CursorOf(page[len(page)-1])
		}
	}
}

// Reconciliation compares stored balances with balances rebuilt from the log.
type Reconciliation struct {
	AccountID     uuid.UUID        `json:"account_id"`
	Stored        account.Balances `json:"stored"`
	Reconstructed account.Balances `json:"reconstructed"`
	Entries       int              `json:"entries"`
	Consistent    bool             `json:"consistent"`
}

// Reconcile replays the account's whole log and reports whether it reproduces
// the stored balances. It holds the account lock so no operation in this
// process interleaves with the replay.
func (s *Service) Reconcile(ctx context.Context, accountID uuid.UUID) (rec *Reconciliation, err error) {
	logger := s.logger.With("op", "reconcile", "accountID", accountID)
	logger.Info("Reconcile started")
	defer func() {
		if err != nil {
			logger.Error("Reconcile failed", "error", err)
		} else if !rec.Consistent {
			logger.Warn("Reconcile found drift", "stored", rec.Stored, "reconstructed", rec.Reconstructed)
		} else {
			logger.Info("Reconcile successful", "entries", rec.Entries)
		}
	}()

	unlock, err := s.locks.Lock(ctx, accountID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	acc, err := s.load(ctx, accountID)
	if err != nil {
		return nil, err
	}
	rebuilt := account.Balances{Cash: money.ZeroMoney(), Gold: money.ZeroGrams()}
	n := 0
	for t, err := range s.entries(ctx, accountID, repository.OldestFirst) {
		if err != nil {
			return nil, err
		}
		rebuilt.Apply(t)
		n++
	}
	return &Reconciliation{
		AccountID:     accountID,
		Stored:        acc.Balances(),
		Reconstructed: rebuilt,
		Entries:       n,
		Consistent:    rebuilt.Equal(acc.Balances()),
	}, nil
}

func (s *Service) load(ctx context.Context, accountID uuid.UUID) (*account.Account, error) {
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	return repo.Get(ctx, accountID)
}
