// Package provider defines the collaborators the ledger consumes but does not own.
package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/amirasaad/goldvault/pkg/domain"
	"github.com/amirasaad/goldvault/pkg/domain/money"
)

// Quote is a price observation for one gram of gold.
type Quote struct {
	PricePerGram money.Price `json:"price_per_gram"`
	AsOf         time.Time   `json:"as_of"`
	Source       string      `json:"source"`
}

// PriceOracle supplies the current market price of gold.
//
// Implementations return an error (wrapping domain.ErrPriceUnavailable where
// possible) when no usable price exists. They are injected into the ledger and
// hold no balance state.
type PriceOracle interface {
	// CurrentPrice returns the latest quote. It must honour ctx cancellation.
	CurrentPrice(ctx context.Context) (*Quote, error)

	// Name returns the oracle's name for logging and identification.
	Name() string
}

// ValidateQuote rejects missing quotes and non-positive prices.
func ValidateQuote(q *Quote) error {
	if q == nil {
		return fmt.Errorf("%w: no quote", domain.ErrPriceUnavailable)
	}
	if !q.PricePerGram.IsValid() {
		return fmt.Errorf("%w: non-positive price from %s", domain.ErrPriceUnavailable, q.Source)
	}
	return nil
}
