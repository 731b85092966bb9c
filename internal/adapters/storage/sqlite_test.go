package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/polycopy/internal/adapters/storage"
	"github.com/alejandrodnm/polycopy/internal/domain"
)

const testAddr = "0x56687bf447db6ffa42ffe2204a05edaa20f55839"

func makeTrade(conditionID string, side domain.Side, ts int64) domain.Trade {
	return domain.Trade{
		Key:       domain.MarketKey{ConditionID: conditionID, AssetID: "tok1", OutcomeIndex: 0},
		Side:      side,
		Size:      100,
		Price:     0.42,
		Timestamp: ts,
		Title:     "Will X happen?",
		Slug:      "will-x-happen",
		Outcome:   "Yes",
	}
}

func TestSQLiteStorage_SaveAndGetTrades(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	trades := []domain.Trade{
		makeTrade("0xbbb", domain.SideSell, 200),
		makeTrade("0xaaa", domain.SideBuy, 100),
	}
	require.NoError(t, db.SaveTrades(context.Background(), testAddr, trades))

	got, err := db.GetTrades(context.Background(), testAddr)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Ordered by timestamp ascending.
	assert.Equal(t, int64(100), got[0].Timestamp)
	assert.Equal(t, "0xaaa", got[0].Key.ConditionID)
	assert.Equal(t, domain.SideBuy, got[0].Side)
	assert.Equal(t, "Will X happen?", got[0].Title)
}

func TestSQLiteStorage_UpsertIsIdempotent(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	trades := []domain.Trade{makeTrade("0xaaa", domain.SideBuy, 100)}
	require.NoError(t, db.SaveTrades(context.Background(), testAddr, trades))
	require.NoError(t, db.SaveTrades(context.Background(), testAddr, trades))

	got, err := db.GetTrades(context.Background(), testAddr)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSQLiteStorage_TradesScopedByAddress(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	other := "0x0000000000000000000000000000000000000001"
	require.NoError(t, db.SaveTrades(context.Background(), testAddr,
		[]domain.Trade{makeTrade("0xaaa", domain.SideBuy, 100)}))

	got, err := db.GetTrades(context.Background(), other)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteStorage_LatestTradeTs(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ts, err := db.LatestTradeTs(context.Background(), testAddr)
	require.NoError(t, err)
	assert.Equal(t, int64(0), ts)

	require.NoError(t, db.SaveTrades(context.Background(), testAddr, []domain.Trade{
		makeTrade("0xaaa", domain.SideBuy, 100),
		makeTrade("0xbbb", domain.SideSell, 300),
	}))

	ts, err = db.LatestTradeTs(context.Background(), testAddr)
	require.NoError(t, err)
	assert.Equal(t, int64(300), ts)
}

func TestSQLiteStorage_SaveEmptySlice(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.SaveTrades(context.Background(), testAddr, nil))
}

func TestSQLiteStorage_SaveAndGetRuns(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	run := domain.Run{
		ID:             uuid.New().String(),
		Address:        testAddr,
		InitialCapital: 1000,
		SizingMode:     domain.SizingFixed,
		Budget:         100,
		EndTs:          1700000000,
		PartialFills:   true,
		FinalEquity:    1020,
		PnL:            20,
		PnLPct:         2,
		Trades:         2,
		CreatedAt:      time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, db.SaveRun(context.Background(), run))

	runs, err := db.GetRuns(context.Background(), testAddr)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, domain.SizingFixed, runs[0].SizingMode)
	assert.InDelta(t, 1020.0, runs[0].FinalEquity, 1e-9)
	assert.True(t, runs[0].PartialFills)

	// The snapshot reconstructs the config it ran with.
	cfg := runs[0].Config()
	assert.Equal(t, domain.SizingFixed, cfg.Sizing.Mode)
	assert.InDelta(t, 100.0, cfg.Sizing.Budget, 1e-9)
	assert.True(t, cfg.AllowPartialFills)
}
