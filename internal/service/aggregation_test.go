package service

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/16navigabraham/Tipjar/internal/domain"
	"github.com/16navigabraham/Tipjar/internal/service/mocks"
)

const (
	alice = "0x1111111111111111111111111111111111111111"
	bob   = "0x2222222222222222222222222222222222222222"
	carol = "0x3333333333333333333333333333333333333333"
)

type fixedPrices map[string]float64

func (p fixedPrices) Prices(context.Context) map[string]float64 {
	return p
}

func tip(sender, token, amount string) *domain.TipRecord {
	return &domain.TipRecord{Sender: sender, Receiver: creator, Token: token, Amount: amount}
}

func TestTopTippers(t *testing.T) {
	ctx := context.Background()

	t.Run("sums raw amounts per sender", func(t *testing.T) {
		ledger := mocks.NewMockLedger(gomock.NewController(t))
		ledger.EXPECT().QueryByReceiver(gomock.Any(), creator).Return([]*domain.TipRecord{
			tip(alice, "USDC", "5"),
			tip(bob, "ETH", "3"),
			tip(alice, "ETH", "0.5"),
		}, nil)

		top := NewAggregationEngine(ledger, fixedPrices{}, nil).TopTippers(ctx, creator, 10)
		require.Len(t, top, 2)
		assert.Equal(t, alice, top[0].Sender)
		assert.Equal(t, "5.5", top[0].Total.String())
		assert.Equal(t, 2, top[0].TipCount)
		assert.Equal(t, bob, top[1].Sender)
		assert.Equal(t, "3", top[1].Total.String())
	})

	t.Run("ties keep first-seen order", func(t *testing.T) {
		ledger := mocks.NewMockLedger(gomock.NewController(t))
		ledger.EXPECT().QueryByReceiver(gomock.Any(), creator).Return([]*domain.TipRecord{
			tip(bob, "USDC", "2"),
			tip(alice, "USDC", "1"),
			tip(carol, "USDC", "2"),
			tip(alice, "USDC", "1"),
		}, nil)

		top := NewAggregationEngine(ledger, fixedPrices{}, nil).TopTippers(ctx, creator, 10)
		require.Len(t, top, 3)
		assert.Equal(t, []string{bob, alice, carol}, []string{top[0].Sender, top[1].Sender, top[2].Sender})
	})

	t.Run("truncates to n", func(t *testing.T) {
		ledger := mocks.NewMockLedger(gomock.NewController(t))
		ledger.EXPECT().QueryByReceiver(gomock.Any(), creator).Return([]*domain.TipRecord{
			tip(alice, "USDC", "1"),
			tip(bob, "USDC", "2"),
			tip(carol, "USDC", "3"),
		}, nil)

		top := NewAggregationEngine(ledger, fixedPrices{}, nil).TopTippers(ctx, creator, 2)
		require.Len(t, top, 2)
		assert.Equal(t, carol, top[0].Sender)
		assert.Equal(t, bob, top[1].Sender)
	})

	t.Run("bad amounts count as zero", func(t *testing.T) {
		ledger := mocks.NewMockLedger(gomock.NewController(t))
		ledger.EXPECT().QueryByReceiver(gomock.Any(), creator).Return([]*domain.TipRecord{
			tip(alice, "USDC", "abc"),
			tip(bob, "USDC", "-4"),
			tip(carol, "USDC", "1"),
		}, nil)

		top := NewAggregationEngine(ledger, fixedPrices{}, nil).TopTippers(ctx, creator, 10)
		require.Len(t, top, 3)
		assert.Equal(t, carol, top[0].Sender)
		assert.True(t, top[1].Total.IsZero())
		assert.True(t, top[2].Total.IsZero())
	})

	t.Run("ledger failure yields empty", func(t *testing.T) {
		ledger := mocks.NewMockLedger(gomock.NewController(t))
		ledger.EXPECT().QueryByReceiver(gomock.Any(), creator).Return(nil, errors.New("db down"))

		top := NewAggregationEngine(ledger, fixedPrices{}, nil).TopTippers(ctx, creator, 10)
		assert.NotNil(t, top)
		assert.Empty(t, top)
	})

	t.Run("non-positive n touches nothing", func(t *testing.T) {
		ledger := mocks.NewMockLedger(gomock.NewController(t))
		engine := NewAggregationEngine(ledger, fixedPrices{}, nil)
		assert.Empty(t, engine.TopTippers(ctx, creator, 0))
		assert.Empty(t, engine.TopTippers(ctx, creator, -3))
		assert.Empty(t, engine.GlobalLeaderboard(ctx, 0))
	})
}

func TestGlobalLeaderboard(t *testing.T) {
	ctx := context.Background()
	prices := fixedPrices{"ETH": 3000, "USDC": 1}

	t.Run("ranks by USD value", func(t *testing.T) {
		ledger := mocks.NewMockLedger(gomock.NewController(t))
		ledger.EXPECT().QueryAll(gomock.Any()).Return([]*domain.TipRecord{
			tip(alice, "USDC", "100"),
			tip(bob, "ETH", "0.1"),
			tip(alice, "ETH", "0.01"),
			tip(carol, "MEME", "1000000"),
			tip(alice, "ETH", "abc"),
		}, nil)

		board := NewAggregationEngine(ledger, prices, nil).GlobalLeaderboard(ctx, 10)
		require.Len(t, board, 3)
		assert.Equal(t, bob, board[0].Sender)
		assert.Equal(t, "300", board[0].Total.String())
		assert.Equal(t, alice, board[1].Sender)
		assert.Equal(t, "130", board[1].Total.String())
		assert.Equal(t, 3, board[1].TipCount)
		assert.Equal(t, carol, board[2].Sender)
		assert.True(t, board[2].Total.IsZero())
	})

	t.Run("ledger failure yields empty", func(t *testing.T) {
		ledger := mocks.NewMockLedger(gomock.NewController(t))
		ledger.EXPECT().QueryAll(gomock.Any()).Return(nil, errors.New("db down"))
		assert.Empty(t, NewAggregationEngine(ledger, prices, nil).GlobalLeaderboard(ctx, 10))
	})

	t.Run("feed outage costs one fetch per ttl", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		records := make([]*domain.TipRecord, 0, 200)
		for i := 0; i < 200; i++ {
			records = append(records, tip([]string{alice, bob, carol}[i%3], "ETH", "1"))
		}
		ledger := mocks.NewMockLedger(ctrl)
		ledger.EXPECT().QueryAll(gomock.Any()).Return(records, nil).Times(2)
		feed := mocks.NewMockPriceFeed(ctrl)
		feed.EXPECT().FetchPrices(gomock.Any(), gomock.Any()).Return(nil, errors.New("503")).Times(1)

		engine := NewAggregationEngine(ledger, NewPriceOracle(feed, NewPriceCache(time.Minute), priceTokens, nil, nil), nil)
		for i := 0; i < 2; i++ {
			board := engine.GlobalLeaderboard(ctx, 10)
			require.Len(t, board, 3)
			assert.True(t, board[0].Total.IsZero())
		}
	})
}

func TestProfileSummary(t *testing.T) {
	ctx := context.Background()
	ledger := mocks.NewMockLedger(gomock.NewController(t))
	ledger.EXPECT().QueryBySender(gomock.Any(), alice).Return([]*domain.TipRecord{
		tip(alice, "USDC", "10"),
		tip(alice, "ETH", "0.5"),
	}, nil)
	ledger.EXPECT().QueryByReceiver(gomock.Any(), alice).Return(nil, errors.New("timeout"))

	summary := NewAggregationEngine(ledger, fixedPrices{"ETH": 2000, "USDC": 1}, nil).ProfileSummary(ctx, alice)
	assert.Equal(t, alice, summary.Address)
	assert.Equal(t, 2, summary.TipsSent)
	assert.Equal(t, "1010", summary.TotalSentUSD.String())
	assert.Zero(t, summary.TipsReceived)
	assert.True(t, summary.TotalReceivedUSD.IsZero())
}
