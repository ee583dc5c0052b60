package repository

import (
	"context"

	"github.com/amirasaad/goldvault/pkg/domain"
	"github.com/amirasaad/goldvault/pkg/domain/account"
	"github.com/amirasaad/goldvault/pkg/domain/money"
	"github.com/amirasaad/goldvault/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type recurringRuleRepository struct {
	db *gorm.DB
}

// NewRecurringRuleRepository creates a RecurringRuleRepository bound to db.
func NewRecurringRuleRepository(db *gorm.DB) repository.RecurringRuleRepository {
	return &recurringRuleRepository{db: db}
}

func (r *recurringRuleRepository) Create(ctx context.Context, rule *account.RecurringRule) error {
	m := mapRuleDomainToModel(rule)
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(&m).Error
	})
}

func (r *recurringRuleRepository) Get(ctx context.Context, accountID, id uuid.UUID) (*account.RecurringRule, error) {
	var m RecurringRule
	err := r.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", id, accountID).
		First(&m).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return mapRuleModelToDomain(&m)
}

func (r *recurringRuleRepository) Update(ctx context.Context, rule *account.RecurringRule) error {
	res := r.db.WithContext(ctx).
		Model(&RecurringRule{}).
		Where("id = ? AND account_id = ?", rule.ID, rule.AccountID).
		Updates(map[string]any{
			"frequency":    string(rule.Frequency),
			"amount_cents": rule.Amount.MinorUnits(),
			"updated_at":   rule.UpdatedAt,
		})
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *recurringRuleRepository) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", id, accountID).
		Delete(&RecurringRule{})
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *recurringRuleRepository) FindMatching(
	ctx context.Context,
	accountID uuid.UUID,
	f account.Frequency,
	amount money.Money,
) (*account.RecurringRule, error) {
	var m RecurringRule
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND frequency = ? AND amount_cents = ?", accountID, string(f), amount.MinorUnits()).
		First(&m).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return mapRuleModelToDomain(&m)
}

func (r *recurringRuleRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*account.RecurringRule, error) {
	return r.list(r.db.WithContext(ctx).Where("account_id = ?", accountID))
}

func (r *recurringRuleRepository) ListByFrequency(ctx context.Context, f account.Frequency) ([]*account.RecurringRule, error) {
	return r.list(r.db.WithContext(ctx).Where("frequency = ?", string(f)))
}

func (r *recurringRuleRepository) list(q *gorm.DB) ([]*account.RecurringRule, error) {
	var rows []RecurringRule
	if err := q.Order("created_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*account.RecurringRule, 0, len(rows))
	for i := range rows {
		rule, err := mapRuleModelToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, nil
}
