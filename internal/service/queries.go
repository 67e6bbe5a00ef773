package service

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/16navigabraham/Tipjar/internal/domain"
)

const (
	keySender      = "sender:"
	keyReceiver    = "receiver:"
	keyTopTippers  = "top:"
	keyProfile     = "profile:"
	keyLeaderboard = "leaderboard"
)

// TipQueries serves the read side with a short-lived cache in front of the
// ledger and the aggregation engine. The orchestrator drops the affected
// entries after every submitted tip.
type TipQueries struct {
	ledger Ledger
	engine *AggregationEngine
	cache  *cache.Cache

	// gen counts invalidations. A load only populates the cache when no
	// invalidation happened while it ran.
	mu  sync.Mutex
	gen uint64
}

func NewTipQueries(ledger Ledger, engine *AggregationEngine, ttl time.Duration) *TipQueries {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &TipQueries{
		ledger: ledger,
		engine: engine,
		cache:  cache.New(ttl, 2*ttl),
	}
}

// TipsBySender returns tips sent by address, newest first.
func (q *TipQueries) TipsBySender(ctx context.Context, address string) ([]*domain.TipRecord, error) {
	return q.history(ctx, keySender+cacheAddr(address), func() ([]*domain.TipRecord, error) {
		return q.ledger.QueryBySender(ctx, address)
	})
}

// TipsByReceiver returns tips received by address, newest first.
func (q *TipQueries) TipsByReceiver(ctx context.Context, address string) ([]*domain.TipRecord, error) {
	return q.history(ctx, keyReceiver+cacheAddr(address), func() ([]*domain.TipRecord, error) {
		return q.ledger.QueryByReceiver(ctx, address)
	})
}

func (q *TipQueries) history(_ context.Context, key string, load func() ([]*domain.TipRecord, error)) ([]*domain.TipRecord, error) {
	if v, ok := q.cache.Get(key); ok {
		return v.([]*domain.TipRecord), nil
	}
	gen := q.generation()
	tips, err := load()
	if err != nil {
		return nil, err
	}
	if tips == nil {
		tips = []*domain.TipRecord{}
	}
	q.store(gen, key, tips)
	return tips, nil
}

// TopTippers returns the top n supporters of receiver.
func (q *TipQueries) TopTippers(ctx context.Context, receiver string, n int) []domain.TipperEntry {
	if n <= 0 {
		return []domain.TipperEntry{}
	}
	key := keyTopTippers + cacheAddr(receiver)
	return q.ranking(key, n, func() []domain.TipperEntry {
		return q.engine.TopTippers(ctx, receiver, math.MaxInt)
	})
}

// GlobalLeaderboard returns the top n senders by USD value.
func (q *TipQueries) GlobalLeaderboard(ctx context.Context, n int) []domain.TipperEntry {
	if n <= 0 {
		return []domain.TipperEntry{}
	}
	return q.ranking(keyLeaderboard, n, func() []domain.TipperEntry {
		return q.engine.GlobalLeaderboard(ctx, math.MaxInt)
	})
}

func (q *TipQueries) ranking(key string, n int, load func() []domain.TipperEntry) []domain.TipperEntry {
	var full []domain.TipperEntry
	if v, ok := q.cache.Get(key); ok {
		full = v.([]domain.TipperEntry)
	} else {
		gen := q.generation()
		full = load()
		// An empty ranking may be a ledger outage; do not pin it.
		if len(full) > 0 {
			q.store(gen, key, full)
		}
	}
	if len(full) > n {
		full = full[:n]
	}
	out := make([]domain.TipperEntry, len(full))
	copy(out, full)
	return out
}

// Profile returns the profile aggregates of address.
func (q *TipQueries) Profile(ctx context.Context, address string) domain.ProfileSummary {
	key := keyProfile + cacheAddr(address)
	if v, ok := q.cache.Get(key); ok {
		return v.(domain.ProfileSummary)
	}
	gen := q.generation()
	summary := q.engine.ProfileSummary(ctx, address)
	q.store(gen, key, summary)
	return summary
}

// InvalidateTip drops every view a tip from sender to receiver can change.
func (q *TipQueries) InvalidateTip(sender, receiver string) {
	s, r := cacheAddr(sender), cacheAddr(receiver)
	q.mu.Lock()
	defer q.mu.Unlock()
	q.gen++
	q.cache.Delete(keySender + s)
	q.cache.Delete(keyReceiver + r)
	q.cache.Delete(keyTopTippers + r)
	q.cache.Delete(keyLeaderboard)
	q.cache.Delete(keyProfile + s)
	q.cache.Delete(keyProfile + r)
}

func (q *TipQueries) generation() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.gen
}

// store caches v unless an invalidation happened since gen was read.
func (q *TipQueries) store(gen uint64, key string, v interface{}) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.gen != gen {
		return
	}
	q.cache.Set(key, v, cache.DefaultExpiration)
}

func cacheAddr(address string) string {
	if addr, ok := domain.NormalizeAddress(address); ok {
		return addr
	}
	return strings.ToLower(strings.TrimSpace(address))
}
