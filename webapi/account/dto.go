package account

import (
	"time"

	"github.com/amirasaad/goldvault/pkg/domain/account"
	"github.com/amirasaad/goldvault/pkg/domain/money"
	"github.com/amirasaad/goldvault/pkg/provider"
	"github.com/amirasaad/goldvault/pkg/service/ledger"
)

//revive:disable

// InvestRequest represents the request body for buying gold with cash.
// Recurring, when set, also schedules the same amount at that frequency.
type InvestRequest struct {
	Amount    *money.Money `json:"amount" validate:"required"`
	Recurring string       `json:"recurring,omitempty" validate:"omitempty,max=16"`
}

// SellRequest represents the request body for selling gold.
type SellRequest struct {
	Grams *money.Grams `json:"grams" validate:"required"`
}

// DepositRequest represents the request body for depositing cash.
type DepositRequest struct {
	Amount *money.Money `json:"amount" validate:"required"`
}

// WithdrawRequest represents the request body for withdrawing cash to a bank account.
type WithdrawRequest struct {
	Amount      *money.Money        `json:"amount" validate:"required"`
	Destination account.Destination `json:"destination" validate:"required"`
}

// AccountDTO is the API response representation of an account.
type AccountDTO struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	Currency    string      `json:"currency"`
	Cash        money.Money `json:"cash"`
	Gold        money.Grams `json:"gold"`
	Version     int64       `json:"version"`
	LastEntryAt *time.Time  `json:"last_entry_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// TransactionDTO is the API response representation of a log entry.
type TransactionDTO struct {
	ID          string       `json:"id"`
	AccountID   string       `json:"account_id"`
	Kind        string       `json:"kind"`
	Status      string       `json:"status"`
	AmountGold  *money.Grams `json:"amount_gold,omitempty"`
	AmountCash  *money.Money `json:"amount_cash,omitempty"`
	UnitPrice   *money.Price `json:"unit_price,omitempty"`
	Description string       `json:"description,omitempty"`
	Destination string       `json:"destination,omitempty"`
	Timestamp   time.Time    `json:"timestamp"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// RuleDTO is the API response representation of a recurring rule.
type RuleDTO struct {
	ID        string      `json:"id"`
	AccountID string      `json:"account_id"`
	Frequency string      `json:"frequency"`
	Amount    money.Money `json:"amount"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// OperationResponse is returned by every balance mutation.
type OperationResponse struct {
	Account     *AccountDTO     `json:"account"`
	Transaction *TransactionDTO `json:"transaction"`
	Quote       *provider.Quote `json:"quote,omitempty"`
	Rule        *RuleDTO        `json:"rule,omitempty"`
	RuleCreated bool            `json:"rule_created,omitempty"`
}

// ToAccountDTO maps a domain account to its API representation.
func ToAccountDTO(a *account.Account) *AccountDTO {
	if a == nil {
		return nil
	}
	dto := &AccountDTO{
		ID:        a.ID.String(),
		UserID:    a.UserID.String(),
		Currency:  a.Currency,
		Cash:      a.Cash,
		Gold:      a.Gold,
		Version:   a.Version,
		CreatedAt: a.CreatedAt,
	}
	if !a.LastEntryAt.IsZero() {
		last := a.LastEntryAt
		dto.LastEntryAt = &last
	}
	return dto
}

// ToTransactionDTO maps a log entry to its API representation.
func ToTransactionDTO(tx *account.Transaction) *TransactionDTO {
	if tx == nil {
		return nil
	}
	return &TransactionDTO{
		ID:          tx.ID,
		AccountID:   tx.AccountID.String(),
		Kind:        string(tx.Kind),
		Status:      string(tx.Status),
		AmountGold:  tx.AmountGold,
		AmountCash:  tx.AmountCash,
		UnitPrice:   tx.UnitPrice,
		Description: tx.Description,
		Destination: tx.Destination,
		Timestamp:   tx.Timestamp,
		UpdatedAt:   tx.UpdatedAt,
	}
}

// ToRuleDTO maps a recurring rule to its API representation.
func ToRuleDTO(r *account.RecurringRule) *RuleDTO {
	if r == nil {
		return nil
	}
	return &RuleDTO{
		ID:        r.ID.String(),
		AccountID: r.AccountID.String(),
		Frequency: string(r.Frequency),
		Amount:    r.Amount,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// ToOperationResponse maps a ledger result to its API representation.
func ToOperationResponse(res *ledger.Result) *OperationResponse {
	return &OperationResponse{
		Account:     ToAccountDTO(res.Account),
		Transaction: ToTransactionDTO(res.Entry),
		Quote:       res.Quote,
		Rule:        ToRuleDTO(res.Rule),
		RuleCreated: res.RuleCreated,
	}
}
