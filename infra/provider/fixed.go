package provider

import (
	"context"
	"time"

	"github.com/amirasaad/goldvault/pkg/domain/money"
	"github.com/amirasaad/goldvault/pkg/provider"
)

// FixedPrice quotes the same price on every call. It is the default oracle
// for local development and the deterministic oracle in tests.
type FixedPrice struct {
	price money.Price
	now   func() time.Time
}

// NewFixedPrice returns an oracle that always quotes price.
func NewFixedPrice(price money.Price) *FixedPrice {
	return &FixedPrice{price: price, now: time.Now}
}

// CurrentPrice implements provider.PriceOracle.
func (f *FixedPrice) CurrentPrice(ctx context.Context) (*provider.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &provider.Quote{PricePerGram: f.price, AsOf: f.now().UTC(), Source: f.Name()}, nil
}

// Name implements provider.PriceOracle.
func (f *FixedPrice) Name() string { return "fixed" }
