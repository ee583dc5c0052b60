package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/amirasaad/goldvault/pkg/config"
	"github.com/amirasaad/goldvault/pkg/domain"
	"github.com/amirasaad/goldvault/pkg/domain/money"
	"github.com/amirasaad/goldvault/pkg/provider"
)

// HTTPOracle fetches the gold price from a JSON endpoint.
type HTTPOracle struct {
	apiKey     string
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// PriceResponse is the payload served by the price endpoint, for example
// {"price_per_gram": "20000.00", "as_of": "2025-03-01T09:00:00Z"}.
type PriceResponse struct {
	PricePerGram json.Number `json:"price_per_gram"`
	AsOf         time.Time   `json:"as_of"`
	Source       string      `json:"source,omitempty"`
}

// NewHTTPOracle creates an HTTPOracle from config.
func NewHTTPOracle(cfg config.Oracle, logger *slog.Logger) *HTTPOracle {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPOracle{
		apiKey: cfg.ApiKey,
		url:    cfg.URL,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		logger: logger,
	}
}

// CurrentPrice implements provider.PriceOracle.
func (o *HTTPOracle) CurrentPrice(ctx context.Context) (*provider.Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if o.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to make request: %w", domain.ErrPriceUnavailable, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: API returned status %d: %s", domain.ErrPriceUnavailable, resp.StatusCode, string(body))
	}

	var apiResp PriceResponse
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %w", domain.ErrPriceUnavailable, err)
	}
	price, err := money.NewPriceFromString(apiResp.PricePerGram.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPriceUnavailable, err)
	}
	asOf := apiResp.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}
	source := apiResp.Source
	if source == "" {
		source = o.Name()
	}
	o.logger.Debug("Fetched gold price", "price", price, "asOf", asOf, "source", source)
	return &provider.Quote{PricePerGram: price, AsOf: asOf.UTC(), Source: source}, nil
}

// Name implements provider.PriceOracle.
func (o *HTTPOracle) Name() string { return "http" }
