package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/16navigabraham/Tipjar/internal/domain"
)

// Pricer returns USD prices per upper-case token symbol. Missing symbols are
// worth 0.
type Pricer interface {
	Prices(ctx context.Context) map[string]float64
}

// AggregationEngine derives rankings and profile totals from the ledger.
// Ledger failures degrade to empty results.
type AggregationEngine struct {
	ledger Ledger
	prices Pricer
	logger *slog.Logger
}

func NewAggregationEngine(ledger Ledger, prices Pricer, logger *slog.Logger) *AggregationEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &AggregationEngine{ledger: ledger, prices: prices, logger: logger}
}

// TopTippers ranks the senders to receiver by the raw sum of tipped amounts,
// regardless of token. Ties keep the order in which senders first appear in
// the newest-first ledger.
func (e *AggregationEngine) TopTippers(ctx context.Context, receiver string, n int) []domain.TipperEntry {
	if n <= 0 {
		return []domain.TipperEntry{}
	}
	records, err := e.ledger.QueryByReceiver(ctx, receiver)
	if err != nil {
		e.logger.Warn("top tippers: ledger unavailable", "receiver", receiver, "err", err)
		return []domain.TipperEntry{}
	}
	return rank(records, n, func(r *domain.TipRecord) decimal.Decimal {
		return domain.LenientAmount(r.Amount)
	})
}

// GlobalLeaderboard ranks all senders by the USD value of their tips.
func (e *AggregationEngine) GlobalLeaderboard(ctx context.Context, n int) []domain.TipperEntry {
	if n <= 0 {
		return []domain.TipperEntry{}
	}
	records, err := e.ledger.QueryAll(ctx)
	if err != nil {
		e.logger.Warn("leaderboard: ledger unavailable", "err", err)
		return []domain.TipperEntry{}
	}
	prices := e.prices.Prices(ctx)
	return rank(records, n, func(r *domain.TipRecord) decimal.Decimal {
		return usdValue(prices, r)
	})
}

// ProfileSummary counts and values an address's sent and received tips.
func (e *AggregationEngine) ProfileSummary(ctx context.Context, address string) domain.ProfileSummary {
	summary := domain.ProfileSummary{
		Address:          address,
		TotalSentUSD:     decimal.Zero,
		TotalReceivedUSD: decimal.Zero,
	}
	if addr, ok := domain.NormalizeAddress(address); ok {
		summary.Address = addr
	}

	sent, err := e.ledger.QueryBySender(ctx, address)
	if err != nil {
		e.logger.Warn("profile: ledger unavailable", "address", address, "err", err)
	}
	received, err := e.ledger.QueryByReceiver(ctx, address)
	if err != nil {
		e.logger.Warn("profile: ledger unavailable", "address", address, "err", err)
	}

	var prices map[string]float64
	if len(sent)+len(received) > 0 {
		prices = e.prices.Prices(ctx)
	}
	summary.TipsSent = len(sent)
	for _, r := range sent {
		summary.TotalSentUSD = summary.TotalSentUSD.Add(usdValue(prices, r))
	}
	summary.TipsReceived = len(received)
	for _, r := range received {
		summary.TotalReceivedUSD = summary.TotalReceivedUSD.Add(usdValue(prices, r))
	}
	return summary
}

func usdValue(prices map[string]float64, r *domain.TipRecord) decimal.Decimal {
	amount := domain.LenientAmount(r.Amount)
	if amount.IsZero() {
		return decimal.Zero
	}
	price := prices[strings.ToUpper(r.Token)]
	if price <= 0 {
		return decimal.Zero
	}
	return amount.Mul(decimal.NewFromFloat(price))
}

func rank(records []*domain.TipRecord, n int, value func(*domain.TipRecord) decimal.Decimal) []domain.TipperEntry {
	index := make(map[string]int)
	entries := make([]domain.TipperEntry, 0)
	for _, r := range records {
		key := r.Sender
		if addr, ok := domain.NormalizeAddress(r.Sender); ok {
			key = addr
		}
		i, seen := index[key]
		if !seen {
			i = len(entries)
			index[key] = i
			entries = append(entries, domain.TipperEntry{Sender: key, Total: decimal.Zero})
		}
		entries[i].Total = entries[i].Total.Add(value(r))
		entries[i].TipCount++
	}

	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].Total.GreaterThan(entries[b].Total)
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
