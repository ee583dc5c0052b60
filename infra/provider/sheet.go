package provider

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/amirasaad/goldvault/pkg/domain"
	"github.com/amirasaad/goldvault/pkg/domain/money"
	"github.com/amirasaad/goldvault/pkg/provider"
	"gopkg.in/yaml.v3"
)

// SheetPoint is one row of a price sheet.
type SheetPoint struct {
	AsOf         time.Time `yaml:"as_of"`
	PricePerGram string    `yaml:"price_per_gram"`
}

type sheetFile struct {
	Source string       `yaml:"source"`
	Prices []SheetPoint `yaml:"prices"`
}

type sheetEntry struct {
	asOf  time.Time
	price money.Price
}

// PriceSheet replays a published price sheet: the quote is the latest point
// whose as_of is not in the future.
//
//	source: cbsl-daily
//	prices:
//	  - as_of: 2025-03-01T09:00:00Z
//	    price_per_gram: "20000.00"
type PriceSheet struct {
	source string
	points []sheetEntry // ascending by asOf
	now    func() time.Time
}

// LoadPriceSheet reads and validates a YAML price sheet.
func LoadPriceSheet(path string) (*PriceSheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read price sheet: %w", err)
	}
	return ParsePriceSheet(data)
}

// ParsePriceSheet parses a YAML price sheet. Every price must be positive.
func ParsePriceSheet(data []byte) (*PriceSheet, error) {
	var f sheetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse price sheet: %w", err)
	}
	if len(f.Prices) == 0 {
		return nil, fmt.Errorf("price sheet has no prices")
	}
	points := make([]sheetEntry, 0, len(f.Prices))
	for i, p := range f.Prices {
		price, err := money.NewPriceFromString(p.PricePerGram)
		if err != nil {
			return nil, fmt.Errorf("price sheet row %d: %w", i, err)
		}
		if p.AsOf.IsZero() {
			return nil, fmt.Errorf("price sheet row %d: as_of is required", i)
		}
		points = append(points, sheetEntry{asOf: p.AsOf.UTC(), price: price})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].asOf.Before(points[j].asOf) })
	if f.Source == "" {
		f.Source = "sheet"
	}
	return &PriceSheet{source: f.Source, points: points, now: time.Now}, nil
}

// CurrentPrice implements provider.PriceOracle.
func (s *PriceSheet) CurrentPrice(ctx context.Context) (*provider.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	i := sort.Search(len(s.points), func(i int) bool { return s.points[i].asOf.After(now) })
	if i == 0 {
		return nil, fmt.Errorf("%w: price sheet starts at %s", domain.ErrPriceUnavailable, s.points[0].asOf.Format(time.RFC3339))
	}
	p := s.points[i-1]
	return &provider.Quote{PricePerGram: p.price, AsOf: p.asOf, Source: s.source}, nil
}

// Name implements provider.PriceOracle.
func (s *PriceSheet) Name() string { return s.source }
