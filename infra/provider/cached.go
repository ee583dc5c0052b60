package provider

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/goldvault/pkg/domain"
	"github.com/amirasaad/goldvault/pkg/provider"
	"golang.org/x/sync/singleflight"
)

// QuoteCache stores the last quote of an oracle. Get returns (nil, nil) on a miss.
type QuoteCache interface {
	Get(ctx context.Context, key string) (*provider.Quote, error)
	Set(ctx context.Context, key string, q *provider.Quote, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Cached decorates an oracle with a TTL cache. Concurrent misses share one
// upstream call. Failures are never cached.
type Cached struct {
	next    provider.PriceOracle
	cache   QuoteCache
	ttl     time.Duration
	timeout time.Duration
	group   singleflight.Group
	logger  *slog.Logger
}

// DefaultFetchTimeout bounds a shared upstream call when none is configured.
const DefaultFetchTimeout = 5 * time.Second

// NewCached creates a Cached oracle.
func NewCached(next provider.PriceOracle, cache QuoteCache, ttl time.Duration, logger *slog.Logger) *Cached {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cached{next: next, cache: cache, ttl: ttl, timeout: DefaultFetchTimeout, logger: logger}
}

// WithFetchTimeout bounds each shared upstream call. The call runs detached from
// the caller that started it, so one cancelled request cannot fail the others
// waiting on the same flight.
func (c *Cached) WithFetchTimeout(d time.Duration) *Cached {
	if d > 0 {
		c.timeout = d
	}
	return c
}

func (c *Cached) key() string { return "gold_price:" + c.next.Name() }

// CurrentPrice implements provider.PriceOracle.
func (c *Cached) CurrentPrice(ctx context.Context) (*provider.Quote, error) {
	key := c.key()
	if q, err := c.cache.Get(ctx, key); err == nil && q != nil {
		c.logger.Debug("Cache hit for CurrentPrice", "key", key)
		return q, nil
	} else if err != nil {
		c.logger.Error("Error getting from cache", "key", key, "error", err)
	}

	c.logger.Debug("Cache miss for CurrentPrice, fetching from next oracle", "key", key)
	ch := c.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		q, err := c.next.CurrentPrice(fetchCtx)
		if err != nil {
			return nil, err
		}
		if err := provider.ValidateQuote(q); err != nil {
			return nil, err
		}
		if err := c.cache.Set(fetchCtx, key, q, c.ttl); err != nil {
			c.logger.Error("Error setting cache for CurrentPrice", "key", key, "error", err)
		}
		return q, nil
	})
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", domain.ErrPriceUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*provider.Quote), nil
	}
}

// Name implements provider.PriceOracle.
func (c *Cached) Name() string { return c.next.Name() }
