package repository

import (
	"fmt"

	"github.com/amirasaad/goldvault/pkg/domain"
	"github.com/amirasaad/goldvault/pkg/domain/account"
	"github.com/amirasaad/goldvault/pkg/domain/money"
)

func mapAccountModelToDomain(m *Account) (*account.Account, error) {
	acc, err := account.New().
		WithID(m.ID).
		WithUserID(m.UserID).
		WithCurrency(m.Currency).
		WithCash(m.CashCents).
		WithGold(m.GoldMicrograms).
		WithVersion(m.Version).
		WithLastEntryAt(m.LastEntryAt.UTC()).
		WithCreatedAt(m.CreatedAt.UTC()).
		WithUpdatedAt(m.UpdatedAt.UTC()).
		Build()
	if err != nil {
		return nil, fmt.Errorf("%w: account %s: %w", domain.ErrPersistenceFailure, m.ID, err)
	}
	return acc, nil
}

func mapAccountDomainToModel(a *account.Account) Account {
	return Account{
		ID:             a.ID,
		UserID:         a.UserID,
		Currency:       a.Currency,
		CashCents:      a.Cash.MinorUnits(),
		GoldMicrograms: a.Gold.Micrograms(),
		Version:        a.Version,
		LastEntryAt:    a.LastEntryAt,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func mapTransactionDomainToModel(t *account.Transaction) Transaction {
	m := Transaction{
		ID:          t.ID,
		AccountID:   t.AccountID,
		Kind:        string(t.Kind),
		Status:      string(t.Status),
		Description: t.Description,
		Destination: t.Destination,
		OccurredAt:  t.Timestamp,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.AmountCash != nil {
		v := t.AmountCash.MinorUnits()
		m.CashCents = &v
	}
	if t.AmountGold != nil {
		v := t.AmountGold.Micrograms()
		m.GoldMicrograms = &v
	}
	if t.UnitPrice != nil {
		v := t.UnitPrice.MinorUnits()
		m.PriceCents = &v
	}
	return m
}

func mapTransactionModelToDomain(m *Transaction) (*account.Transaction, error) {
	kind := account.Kind(m.Kind)
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: entry %s has kind %q", domain.ErrPersistenceFailure, m.ID, m.Kind)
	}
	status, err := account.ParseStatus(m.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: entry %s: %w", domain.ErrPersistenceFailure, m.ID, err)
	}
	t := &account.Transaction{
		ID:          m.ID,
		AccountID:   m.AccountID,
		Kind:        kind,
		Status:      status,
		Description: m.Description,
		Destination: m.Destination,
		Timestamp:   m.OccurredAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
	if m.CashCents != nil {
		v := money.NewMoneyFromMinorUnits(*m.CashCents)
		t.AmountCash = &v
	}
	if m.GoldMicrograms != nil {
		v := money.NewGramsFromMicrograms(*m.GoldMicrograms)
		t.AmountGold = &v
	}
	if m.PriceCents != nil {
		p, err := money.NewPriceFromMinorUnits(*m.PriceCents)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %s: %w", domain.ErrPersistenceFailure, m.ID, err)
		}
		t.UnitPrice = &p
	}
	return t, nil
}

func mapRuleDomainToModel(r *account.RecurringRule) RecurringRule {
	return RecurringRule{
		ID:          r.ID,
		AccountID:   r.AccountID,
		Frequency:   string(r.Frequency),
		AmountCents: r.Amount.MinorUnits(),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func mapRuleModelToDomain(m *RecurringRule) (*account.RecurringRule, error) {
	freq, err := account.ParseFrequency(m.Frequency)
	if err != nil {
		return nil, fmt.Errorf("%w: rule %s: %w", domain.ErrPersistenceFailure, m.ID, err)
	}
	return &account.RecurringRule{
		ID:        m.ID,
		AccountID: m.AccountID,
		Frequency: freq,
		Amount:    money.NewMoneyFromMinorUnits(m.AmountCents),
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}, nil
}
