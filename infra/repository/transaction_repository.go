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

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a TransactionRepository bound to db.
func NewTransactionRepository(db *gorm.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

// Append implements repository.TransactionRepository.
func (r *transactionRepository) Append(ctx context.Context, t *account.Transaction) error {
	m := mapTransactionDomainToModel(t)
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(&m).Error
	})
}

// Get implements repository.TransactionRepository.
func (r *transactionRepository) Get(ctx context.Context, accountID uuid.UUID, id string) (*account.Transaction, error) {
	var m Transaction
	err := r.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", id, accountID).
		First(&m).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return mapTransactionModelToDomain(&m)
}

// UpdateStatus implements repository.TransactionRepository. Only the status and
// its timestamp change; amounts are never rewritten.
func (r *transactionRepository) UpdateStatus(ctx context.Context, t *account.Transaction, from account.Status) error {
	res := r.db.WithContext(ctx).
		Model(&Transaction{}).
		Where("id = ? AND account_id = ? AND status = ?", t.ID, t.AccountID, string(from)).
		Updates(map[string]any{
			"status":     string(t.Status),
			"updated_at": t.UpdatedAt,
		})
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: entry %s is no longer %s", domain.ErrPersistenceConflict, t.ID, from)
	}
	return nil
}

// ListPage implements repository.TransactionRepository using keyset pagination
// on (occurred_at, id).
func (r *transactionRepository) ListPage(
	ctx context.Context,
	accountID uuid.UUID,
	order repository.Order,
	after *repository.Cursor,
	limit int,
) ([]*account.Transaction, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: page size must be positive", domain.ErrValidation)
	}
	q := r.db.WithContext(ctx).Where("account_id = ?", accountID)
	switch order {
	case repository.OldestFirst:
		if after != nil {
			q = q.Where("(occurred_at > ? OR (occurred_at = ? AND id > ?))", after.Timestamp, after.Timestamp, after.ID)
		}
		q = q.Order("occurred_at ASC").Order("id ASC")
	case repository.NewestFirst:
		if after != nil {
			q = q.Where("(occurred_at < ? OR (occurred_at = ? AND id < ?))", after.Timestamp, after.Timestamp, after.ID)
		}
		q = q.Order("occurred_at DESC").Order("id DESC")
	default:
		return nil, fmt.Errorf("%w: unknown order %q", domain.ErrValidation, order)
	}

	var rows []Transaction
	if err := q.Limit(limit).Find(&rows).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*account.Transaction, 0, len(rows))
	for i := range rows {
		t, err := mapTransactionModelToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
