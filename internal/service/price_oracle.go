package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/16navigabraham/Tipjar/internal/domain"
	"github.com/16navigabraham/Tipjar/internal/metrics"
)

// DefaultPriceTTL is how long fetched prices are considered fresh.
const DefaultPriceTTL = 5 * time.Minute

// PriceCache holds the last fetched prices keyed by token symbol.
type PriceCache struct {
	mu        sync.RWMutex
	prices    map[string]float64
	fetchedAt time.Time
	failedAt  time.Time
	ttl       time.Duration
	now       func() time.Time
}

func NewPriceCache(ttl time.Duration) *PriceCache {
	if ttl <= 0 {
		ttl = DefaultPriceTTL
	}
	return &PriceCache{
		prices: map[string]float64{},
		ttl:    ttl,
		now:    time.Now,
	}
}

func (c *PriceCache) Get(symbol string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.prices[strings.ToUpper(symbol)]
	return p, ok
}

// Fresh reports whether prices were fetched within the TTL.
func (c *PriceCache) Fresh() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.fetchedAt.IsZero() && c.now().Sub(c.fetchedAt) < c.ttl
}

// Due reports whether a refresh should be attempted: prices are stale and no
// fetch has failed within the current TTL window.
func (c *PriceCache) Due() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	now := c.now()
	if !c.fetchedAt.IsZero() && now.Sub(c.fetchedAt) < c.ttl {
		return false
	}
	return c.failedAt.IsZero() || now.Sub(c.failedAt) >= c.ttl
}

// MarkFailed records a failed fetch so callers back off until the TTL passes.
func (c *PriceCache) MarkFailed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failedAt = c.now()
}

// Snapshot copies the cached prices.
func (c *PriceCache) Snapshot() map[string]float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]float64, len(c.prices))
	for sym, p := range c.prices {
		out[sym] = p
	}
	return out
}

// Store replaces the cached prices and stamps the fetch time.
func (c *PriceCache) Store(prices map[string]float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prices = make(map[string]float64, len(prices))
	for sym, p := range prices {
		c.prices[strings.ToUpper(sym)] = p
	}
	c.fetchedAt = c.now()
	c.failedAt = time.Time{}
}

func (c *PriceCache) FetchedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetchedAt
}

// PriceOracle answers USD prices per token symbol from a cached feed.
// Pegged tokens always report their peg. Unknown symbols are worth 0.
type PriceOracle struct {
	feed    PriceFeed
	cache   *PriceCache
	feedIDs map[string][]string // feed id -> symbols
	pegs    map[string]float64
	refresh sync.Mutex
	metrics *metrics.Tips
	logger  *slog.Logger
}

func NewPriceOracle(feed PriceFeed, cache *PriceCache, tokens []domain.Token, m *metrics.Tips, logger *slog.Logger) *PriceOracle {
	if cache == nil {
		cache = NewPriceCache(DefaultPriceTTL)
	}
	if logger == nil {
		logger = slog.Default()
	}
	o := &PriceOracle{
		feed:    feed,
		cache:   cache,
		feedIDs: map[string][]string{},
		pegs:    map[string]float64{},
		metrics: m,
		logger:  logger,
	}
	for _, t := range tokens {
		sym := strings.ToUpper(t.Symbol)
		if t.USDPeg > 0 {
			o.pegs[sym] = t.USDPeg
			continue
		}
		if t.CoinGeckoID != "" && !contains(o.feedIDs[t.CoinGeckoID], sym) {
			o.feedIDs[t.CoinGeckoID] = append(o.feedIDs[t.CoinGeckoID], sym)
		}
	}
	return o
}

// Price returns the USD price of one unit of symbol.
func (o *PriceOracle) Price(ctx context.Context, symbol string) float64 {
	sym := strings.ToUpper(symbol)
	if peg, ok := o.pegs[sym]; ok {
		return peg
	}
	if o.cache.Due() {
		o.Refresh(ctx)
	}
	p, _ := o.cache.Get(sym)
	return p
}

// Prices returns every known symbol's USD price from at most one feed call.
func (o *PriceOracle) Prices(ctx context.Context) map[string]float64 {
	if o.cache.Due() {
		o.Refresh(ctx)
	}
	out := make(map[string]float64, len(o.pegs)+len(o.feedIDs))
	for sym, p := range o.cache.Snapshot() {
		out[sym] = p
	}
	for _, syms := range o.feedIDs {
		for _, sym := range syms {
			if _, ok := out[sym]; !ok {
				out[sym] = 0
			}
		}
	}
	for sym, peg := range o.pegs {
		out[sym] = peg
	}
	return out
}

// Refresh fetches prices from the feed. On failure the previous prices stay
// in place and no new attempt is made until the TTL has passed.
func (o *PriceOracle) Refresh(ctx context.Context) {
	o.refresh.Lock()
	defer o.refresh.Unlock()
	if !o.cache.Due() || len(o.feedIDs) == 0 {
		return
	}

	ids := make([]string, 0, len(o.feedIDs))
	for id := range o.feedIDs {
		ids = append(ids, id)
	}
	fetched, err := o.feed.FetchPrices(ctx, ids)
	if err != nil {
		o.cache.MarkFailed()
		o.metrics.PriceFetch(false)
		o.logger.Warn("price feed unavailable, using cached prices", "err", err, "fetched_at", o.cache.FetchedAt())
		return
	}
	o.metrics.PriceFetch(true)

	prices := make(map[string]float64, len(fetched))
	for id, p := range fetched {
		for _, sym := range o.feedIDs[id] {
			prices[sym] = p
		}
	}
	o.cache.Store(prices)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
