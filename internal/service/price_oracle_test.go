package service

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/16navigabraham/Tipjar/internal/domain"
	"github.com/16navigabraham/Tipjar/internal/service/mocks"
)

var priceTokens = []domain.Token{
	{Symbol: "ETH", ChainID: 8453, CoinGeckoID: "ethereum"},
	{Symbol: "USDC", ChainID: 8453, CoinGeckoID: "usd-coin", USDPeg: 1},
	{Symbol: "DEGEN", ChainID: 8453, CoinGeckoID: "degen-base"},
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestOracle(t *testing.T) (*PriceOracle, *mocks.MockPriceFeed, *clock) {
	t.Helper()
	feed := mocks.NewMockPriceFeed(gomock.NewController(t))
	clk := &clock{t: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	cache := NewPriceCache(5 * time.Minute)
	cache.now = clk.now
	return NewPriceOracle(feed, cache, priceTokens, nil, nil), feed, clk
}

func TestPriceOracle(t *testing.T) {
	ctx := context.Background()

	t.Run("pegged tokens never hit the feed", func(t *testing.T) {
		oracle, _, _ := newTestOracle(t)
		assert.Equal(t, 1.0, oracle.Price(ctx, "usdc"))
	})

	t.Run("prices are cached for the ttl", func(t *testing.T) {
		oracle, feed, clk := newTestOracle(t)
		feed.EXPECT().FetchPrices(gomock.Any(), gomock.InAnyOrder([]string{"ethereum", "degen-base"})).
			Return(map[string]float64{"ethereum": 3000, "degen-base": 0.01}, nil).Times(1)

		assert.Equal(t, 3000.0, oracle.Price(ctx, "ETH"))
		clk.t = clk.t.Add(4 * time.Minute)
		assert.Equal(t, 0.01, oracle.Price(ctx, "DEGEN"))
	})

	t.Run("stale prices refresh after the ttl", func(t *testing.T) {
		oracle, feed, clk := newTestOracle(t)
		gomock.InOrder(
			feed.EXPECT().FetchPrices(gomock.Any(), gomock.Any()).Return(map[string]float64{"ethereum": 3000}, nil),
			feed.EXPECT().FetchPrices(gomock.Any(), gomock.Any()).Return(map[string]float64{"ethereum": 3100}, nil),
		)

		assert.Equal(t, 3000.0, oracle.Price(ctx, "ETH"))
		clk.t = clk.t.Add(5 * time.Minute)
		assert.Equal(t, 3100.0, oracle.Price(ctx, "ETH"))
	})

	t.Run("feed failure keeps previous prices", func(t *testing.T) {
		oracle, feed, clk := newTestOracle(t)
		gomock.InOrder(
			feed.EXPECT().FetchPrices(gomock.Any(), gomock.Any()).Return(map[string]float64{"ethereum": 3000}, nil),
			feed.EXPECT().FetchPrices(gomock.Any(), gomock.Any()).Return(nil, errors.New("429")),
		)

		assert.Equal(t, 3000.0, oracle.Price(ctx, "ETH"))
		clk.t = clk.t.Add(10 * time.Minute)
		assert.Equal(t, 3000.0, oracle.Price(ctx, "ETH"))
	})

	t.Run("failed fetch backs off until the ttl passes", func(t *testing.T) {
		oracle, feed, clk := newTestOracle(t)
		gomock.InOrder(
			feed.EXPECT().FetchPrices(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout")),
			feed.EXPECT().FetchPrices(gomock.Any(), gomock.Any()).Return(map[string]float64{"ethereum": 2900}, nil),
		)

		assert.Zero(t, oracle.Price(ctx, "ETH"))
		assert.Zero(t, oracle.Price(ctx, "DEGEN"))
		assert.Equal(t, map[string]float64{"ETH": 0, "USDC": 1, "DEGEN": 0}, oracle.Prices(ctx))

		clk.t = clk.t.Add(5 * time.Minute)
		assert.Equal(t, 2900.0, oracle.Price(ctx, "ETH"))
	})

	t.Run("unknown symbols are worth zero", func(t *testing.T) {
		oracle, feed, _ := newTestOracle(t)
		feed.EXPECT().FetchPrices(gomock.Any(), gomock.Any()).Return(map[string]float64{}, nil)
		assert.Zero(t, oracle.Price(ctx, "MEME"))
	})

	t.Run("Prices lists every symbol", func(t *testing.T) {
		oracle, feed, _ := newTestOracle(t)
		feed.EXPECT().FetchPrices(gomock.Any(), gomock.Any()).Return(map[string]float64{"ethereum": 3000, "degen-base": 0.02}, nil)
		assert.Equal(t, map[string]float64{"ETH": 3000, "USDC": 1, "DEGEN": 0.02}, oracle.Prices(ctx))
	})
}
