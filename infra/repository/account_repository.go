package repository

import (
	"context"
	"fmt"

	"github.com/amirasaad/goldvault/pkg/domain"
	"github.com/amirasaad/goldvault/pkg/domain/account"
	"github.com/amirasaad/goldvault/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates an AccountRepository bound to db, which may be a transaction.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// Get implements repository.AccountRepository.
func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	var m Account
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return mapAccountModelToDomain(&m)
}

// Create implements repository.AccountRepository.
func (r *accountRepository) Create(ctx context.Context, a *account.Account) error {
	m := mapAccountDomainToModel(a)
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(&m).Error
	})
}

// Update implements repository.AccountRepository. The write is a compare-and-swap
// on the version column.
func (r *accountRepository) Update(ctx context.Context, a *account.Account) error {
	next := a.Version + 1
	res := r.db.WithContext(ctx).
		Model(&Account{}).
		Where("id = ? AND version = ?", a.ID, a.Version).
		Updates(map[string]any{
			"cash_cents":      a.Cash.MinorUnits(),
			"gold_micrograms": a.Gold.Micrograms(),
			"currency":        a.Currency,
			"version":         next,
			"last_entry_at":   a.LastEntryAt,
			"updated_at":      a.UpdatedAt,
		})
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&Account{}).Where("id = ?", a.ID).Count(&count).Error; err != nil {
			return MapGormErrorToDomain(err)
		}
		if count == 0 {
			return domain.ErrNotFound
		}
		return fmt.Errorf("%w: account %s changed since version %d", domain.ErrPersistenceConflict, a.ID, a.Version)
	}
	a.Version = next
	return nil
}
