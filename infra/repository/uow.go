package repository

import (
	"context"
	"fmt"
	"reflect"

	"github.com/amirasaad/goldvault/pkg/repository"
	"gorm.io/gorm"
)

// UoW provides the transaction boundary and repository access in one abstraction.
//
// Repositories handed out inside Do are bound to that transaction. Outside Do
// they run on the base connection, which is what read-only queries use.
type UoW struct {
	db           *gorm.DB
	tx           *gorm.DB
	repoRegistry map[reflect.Type]func(*gorm.DB) any
}

var (
	accountRepoType       = reflect.TypeOf((*repository.AccountRepository)(nil)).Elem()
	transactionRepoType   = reflect.TypeOf((*repository.TransactionRepository)(nil)).Elem()
	recurringRuleRepoType = reflect.TypeOf((*repository.RecurringRuleRepository)(nil)).Elem()
)

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{
		db: db,
		repoRegistry: map[reflect.Type]func(*gorm.DB) any{
			accountRepoType:       func(db *gorm.DB) any { return NewAccountRepository(db) },
			transactionRepoType:   func(db *gorm.DB) any { return NewTransactionRepository(db) },
			recurringRuleRepoType: func(db *gorm.DB) any { return NewRecurringRuleRepository(db) },
		},
	}
}

// Do runs fn in a database transaction. A nested Do joins the outer transaction.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if u.tx != nil {
		return fn(u)
	}
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txnUow := &UoW{db: u.db, tx: tx, repoRegistry: u.repoRegistry}
		return fn(txnUow)
	})
}

// GetRepository returns a repository of the requested interface type bound to
// the current session.
func (u *UoW) GetRepository(repoType reflect.Type) (any, error) {
	if repoType != nil && repoType.Kind() == reflect.Ptr && repoType.Elem().Kind() == reflect.Interface {
		repoType = repoType.Elem()
	}
	constructor, ok := u.repoRegistry[repoType]
	if !ok {
		return nil, fmt.Errorf("unsupported repository type: %v", repoType)
	}
	return constructor(u.session()), nil
}

// AccountRepository returns the account repository for the current session.
func (u *UoW) AccountRepository() (repository.AccountRepository, error) {
	repo, err := u.GetRepository(accountRepoType)
	if err != nil {
		return nil, err
	}
	return repo.(repository.AccountRepository), nil
}

// TransactionRepository returns the transaction log repository for the current session.
func (u *UoW) TransactionRepository() (repository.TransactionRepository, error) {
	repo, err := u.GetRepository(transactionRepoType)
	if err != nil {
		return nil, err
	}
	return repo.(repository.TransactionRepository), nil
}

// RecurringRuleRepository returns the recurring rule repository for the current session.
func (u *UoW) RecurringRuleRepository() (repository.RecurringRuleRepository, error) {
	repo, err := u.GetRepository(recurringRuleRepoType)
	if err != nil {
		return nil, err
	}
	return repo.(repository.RecurringRuleRepository), nil
}

func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}
