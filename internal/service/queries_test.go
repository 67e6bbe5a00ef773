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

func TestTipQueries(t *testing.T) {
	ctx := context.Background()

	newQueries := func(t *testing.T) (*TipQueries, *mocks.MockLedger) {
		ledger := mocks.NewMockLedger(gomock.NewController(t))
		engine := NewAggregationEngine(ledger, fixedPrices{"USDC": 1}, nil)
		return NewTipQueries(ledger, engine, time.Minute), ledger
	}

	t.Run("history is cached until invalidated", func(t *testing.T) {
		q, ledger := newQueries(t)
		first := []*domain.TipRecord{tip(alice, "USDC", "1")}
		second := []*domain.TipRecord{tip(alice, "USDC", "2"), tip(alice, "USDC", "1")}
		gomock.InOrder(
			ledger.EXPECT().QueryBySender(gomock.Any(), alice).Return(first, nil),
			ledger.EXPECT().QueryBySender(gomock.Any(), alice).Return(second, nil),
		)

		got, err := q.TipsBySender(ctx, alice)
		require.NoError(t, err)
		assert.Len(t, got, 1)
		got, err = q.TipsBySender(ctx, alice)
		require.NoError(t, err)
		assert.Len(t, got, 1)

		q.InvalidateTip(alice, creator)
		got, err = q.TipsBySender(ctx, alice)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("history errors are not cached", func(t *testing.T) {
		q, ledger := newQueries(t)
		gomock.InOrder(
			ledger.EXPECT().QueryByReceiver(gomock.Any(), creator).Return(nil, errors.New("db down")),
			ledger.EXPECT().QueryByReceiver(gomock.Any(), creator).Return(nil, nil),
		)

		_, err := q.TipsByReceiver(ctx, creator)
		assert.Error(t, err)
		got, err := q.TipsByReceiver(ctx, creator)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("top tippers cache the full ranking", func(t *testing.T) {
		q, ledger := newQueries(t)
		ledger.EXPECT().QueryByReceiver(gomock.Any(), creator).Return([]*domain.TipRecord{
			tip(alice, "USDC", "1"),
			tip(bob, "USDC", "2"),
			tip(carol, "USDC", "3"),
		}, nil).Times(1)

		assert.Len(t, q.TopTippers(ctx, creator, 1), 1)
		three := q.TopTippers(ctx, creator, 5)
		require.Len(t, three, 3)
		assert.Equal(t, carol, three[0].Sender)
		assert.Empty(t, q.TopTippers(ctx, creator, 0))
	})

	t.Run("tip invalidates receiver views and the leaderboard", func(t *testing.T) {
		q, ledger := newQueries(t)
		ledger.EXPECT().QueryByReceiver(gomock.Any(), creator).Return([]*domain.TipRecord{tip(alice, "USDC", "1")}, nil).Times(2)
		ledger.EXPECT().QueryAll(gomock.Any()).Return([]*domain.TipRecord{tip(alice, "USDC", "1")}, nil).Times(2)

		q.TopTippers(ctx, creator, 10)
		q.GlobalLeaderboard(ctx, 10)
		q.TopTippers(ctx, creator, 10)
		q.GlobalLeaderboard(ctx, 10)

		q.InvalidateTip(bob, creator)
		q.TopTippers(ctx, creator, 10)
		q.GlobalLeaderboard(ctx, 10)
	})

	t.Run("load racing an invalidation is not cached", func(t *testing.T) {
		q, ledger := newQueries(t)
		started := make(chan struct{})
		release := make(chan struct{})
		gomock.InOrder(
			ledger.EXPECT().QueryAll(gomock.Any()).DoAndReturn(func(context.Context) ([]*domain.TipRecord, error) {
				close(started)
				<-release
				return []*domain.TipRecord{tip(alice, "USDC", "1")}, nil
			}),
			ledger.EXPECT().QueryAll(gomock.Any()).Return([]*domain.TipRecord{
				tip(bob, "USDC", "5"),
				tip(alice, "USDC", "1"),
			}, nil),
		)

		done := make(chan []domain.TipperEntry)
		go func() { done <- q.GlobalLeaderboard(ctx, 10) }()
		<-started
		q.InvalidateTip(bob, creator)
		close(release)

		old := <-done
		require.Len(t, old, 1)

		board := q.GlobalLeaderboard(ctx, 10)
		require.Len(t, board, 2)
		assert.Equal(t, bob, board[0].Sender)
	})

	t.Run("profiles are cached per address", func(t *testing.T) {
		q, ledger := newQueries(t)
		ledger.EXPECT().QueryBySender(gomock.Any(), alice).Return([]*domain.TipRecord{tip(alice, "USDC", "4")}, nil).Times(2)
		ledger.EXPECT().QueryByReceiver(gomock.Any(), alice).Return(nil, nil).Times(2)

		assert.Equal(t, 1, q.Profile(ctx, alice).TipsSent)
		assert.Equal(t, "4", q.Profile(ctx, alice).TotalSentUSD.String())

		q.InvalidateTip(alice, creator)
		assert.Equal(t, 1, q.Profile(ctx, alice).TipsSent)
	})
}
