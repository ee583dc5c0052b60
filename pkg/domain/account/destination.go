package account

import (
	"fmt"
	"strings"

	"github.com/amirasaad/goldvault/pkg/domain"
)

// Destination identifies the bank account a withdrawal is paid out to.
type Destination struct {
	BankName      string `json:"bank_name" validate:"required,max=100"`
	AccountNumber string `json:"account_number" validate:"required,max=34"`
}

// Validate checks that both bank name and account number are present.
func (d Destination) Validate() error {
	if strings.TrimSpace(d.BankName) == "" || strings.TrimSpace(d.AccountNumber) == "" {
		return fmt.Errorf("%w: bank name and account number are required", domain.ErrInvalidDestination)
	}
	return nil
}

// Masked renders the destination with all but the last four account digits hidden.
func (d Destination) Masked() string {
	num := strings.TrimSpace(d.AccountNumber)
	if len(num) > 4 {
		num = strings.Repeat("*", len(num)-4) + num[len(num)-4:]
	}
	return fmt.Sprintf("%s %s", strings.TrimSpace(d.BankName), num)
}
