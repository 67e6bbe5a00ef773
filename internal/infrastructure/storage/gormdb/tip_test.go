package gormdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"

	"github.com/16navigabraham/Tipjar/internal/config"
	"github.com/16navigabraham/Tipjar/internal/domain"
)

const (
	alice = "0x1111111111111111111111111111111111111111"
	bob   = "0x2222222222222222222222222222222222222222"
	carol = "0x3525a342340576d4229415494848316239b27f12"
)

func newTestRepo(t *testing.T) *TipRepository {
	t.Helper()
	db, err := NewDB(sqlite.Open(filepath.Join(t.TempDir(), "tips.db")), nil)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	repo := NewTipRepository(db)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	return repo
}

func TestTipRepository(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	seed := []*domain.TipRecord{
		{Sender: alice, Receiver: carol, Token: "ETH", Amount: "0.5", TxID: "0x01", ChainID: 8453},
		{Sender: bob, Receiver: carol, Token: "USDC", Amount: "10", Message: "gm", TxID: "0x02", ChainID: 8453},
		{Sender: alice, Receiver: bob, Token: "USDC", Amount: "3", TxID: "0x03", ChainID: 8453},
	}

	t.Run("Append assigns id and timestamp", func(t *testing.T) {
		for _, rec := range seed {
			require.NoError(t, repo.Append(ctx, rec))
			assert.NotEmpty(t, rec.ID)
			assert.False(t, rec.Timestamp.IsZero())
		}
		assert.Equal(t, "0x3525a342340576D4229415494848316239B27f12", seed[0].Receiver)
	})

	t.Run("duplicate transaction is rejected", func(t *testing.T) {
		dup := &domain.TipRecord{Sender: alice, Receiver: carol, Token: "ETH", Amount: "1", TxID: "0x01", ChainID: 8453}
		err := repo.Append(ctx, dup)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDuplicateTx))

		sameTxOtherChain := &domain.TipRecord{Sender: alice, Receiver: carol, Token: "CELO", Amount: "1", TxID: "0x01", ChainID: 42220}
		require.NoError(t, repo.Append(ctx, sameTxOtherChain))
	})

	t.Run("invalid addresses are rejected", func(t *testing.T) {
		err := repo.Append(ctx, &domain.TipRecord{Sender: "nope", Receiver: carol, Token: "ETH", Amount: "1", TxID: "0x09"})
		assert.Error(t, err)
	})

	t.Run("QueryByReceiver is newest first and case-insensitive", func(t *testing.T) {
		tips, err := repo.QueryByReceiver(ctx, carol)
		require.NoError(t, err)
		require.Len(t, tips, 3)
		assert.Equal(t, "0x01", tips[0].TxID)
		assert.Equal(t, int64(42220), tips[0].ChainID)
		assert.Equal(t, "0x02", tips[1].TxID)
		assert.Equal(t, "gm", tips[1].Message)
		assert.Equal(t, "0x01", tips[2].TxID)
	})

	t.Run("QueryBySender", func(t *testing.T) {
		tips, err := repo.QueryBySender(ctx, alice)
		require.NoError(t, err)
		require.Len(t, tips, 3)
		for _, tip := range tips {
			assert.Equal(t, alice, tip.Sender)
		}

		none, err := repo.QueryBySender(ctx, "not-an-address")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("QueryAll", func(t *testing.T) {
		tips, err := repo.QueryAll(ctx)
		require.NoError(t, err)
		require.Len(t, tips, 4)
		assert.True(t, tips[0].Timestamp.After(tips[3].Timestamp))
	})
}

func TestDialector(t *testing.T) {
	d, err := Dialector(config.Database{Driver: config.DriverSQLite, SQLitePath: ":memory:"}, config.PostgreSQL{})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	d, err = Dialector(config.Database{Driver: config.DriverPostgres}, config.PostgreSQL{Host: "localhost"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	_, err = Dialector(config.Database{Driver: "mysql"}, config.PostgreSQL{})
	assert.Error(t, err)
}
