package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/polycopy/internal/domain"
)

func points(values ...float64) []domain.EquityPoint {
	pts := make([]domain.EquityPoint, len(values))
	for i, v := range values {
		pts[i] = domain.EquityPoint{Timestamp: int64(i + 1), Equity: v}
	}
	return pts
}

func TestMaxDrawdownPct_PeakToTrough(t *testing.T) {
	// Peak 120 → trough 90 is a 25% decline; the later recovery to 130
	// and dip to 110 is smaller.
	dd := maxDrawdownPct(points(100, 120, 90, 130, 110))
	assert.InDelta(t, 25.0, dd, 1e-9)
}

func TestMaxDrawdownPct_MonotoneRise(t *testing.T) {
	assert.Equal(t, 0.0, maxDrawdownPct(points(100, 110, 120)))
}

func TestMaxDrawdownPct_Empty(t *testing.T) {
	assert.Equal(t, 0.0, maxDrawdownPct(nil))
}

func TestSharpeLike_TooFewSamples(t *testing.T) {
	assert.Equal(t, 0.0, sharpeLike(points(100)))
	assert.Equal(t, 0.0, sharpeLike(points(100, 110)))
}

func TestSharpeLike_ZeroVariance(t *testing.T) {
	// Constant 10% step returns → zero sample variance → zero ratio.
	assert.Equal(t, 0.0, sharpeLike(points(100, 110, 121)))
}

func TestSharpeLike_KnownSeries(t *testing.T) {
	// Returns: +0.10, -0.10. mean 0, so the ratio is 0 regardless of n.
	assert.InDelta(t, 0.0, sharpeLike(points(100, 110, 99)), 1e-9)

	// Returns: +0.10, +0.20. mean 0.15, stddev (n−1) ≈ 0.0707107,
	// × √2 → ≈ 3.0.
	got := sharpeLike(points(100, 110, 132))
	assert.InDelta(t, 3.0, got, 1e-6)
}

func realizedAt(key domain.MarketKey, pnl float64, ts int64) domain.RealizedEvent {
	return domain.RealizedEvent{Key: key, PnL: pnl, Timestamp: ts}
}

func TestMarketRows_GroupedAndSorted(t *testing.T) {
	k1 := domain.MarketKey{ConditionID: "0xa", AssetID: "t1"}
	k2 := domain.MarketKey{ConditionID: "0xb", AssetID: "t2"}

	rows := marketRows([]domain.RealizedEvent{
		realizedAt(k1, -5, 1),
		realizedAt(k2, 3, 2),
		realizedAt(k1, 2, 3),
		realizedAt(k2, 4, 4),
	})

	require.Len(t, rows, 2)
	assert.Equal(t, k2, rows[0].Key)
	assert.InDelta(t, 7.0, rows[0].PnL, 1e-9)
	assert.Equal(t, 2, rows[0].Wins)
	assert.Equal(t, k1, rows[1].Key)
	assert.InDelta(t, -3.0, rows[1].PnL, 1e-9)
	assert.Equal(t, 1, rows[1].Wins)
}

func TestDaypartBuckets_Boundaries(t *testing.T) {
	k := domain.MarketKey{ConditionID: "0xa"}
	// 2024-01-01 (Monday) UTC at 07:59, 08:00, 19:59, 20:00.
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	events := []domain.RealizedEvent{
		realizedAt(k, 1, base+7*3600+59*60),  // night
		realizedAt(k, 2, base+8*3600),        // day
		realizedAt(k, 4, base+19*3600+59*60), // day
		realizedAt(k, -8, base+20*3600),      // night
	}

	day, night := daypartBuckets(events, time.UTC)

	assert.Equal(t, 2, day.Trades)
	assert.InDelta(t, 6.0, day.PnL, 1e-9)
	assert.InDelta(t, 1.0, day.WinRate, 1e-9)

	assert.Equal(t, 2, night.Trades)
	assert.InDelta(t, -7.0, night.PnL, 1e-9)
	assert.InDelta(t, 0.5, night.WinRate, 1e-9)
}

func TestWeeklyHeatmap_CellPlacement(t *testing.T) {
	k := domain.MarketKey{ConditionID: "0xa"}
	// Wednesday 2024-01-03 14:30 UTC.
	ts := time.Date(2024, 1, 3, 14, 30, 0, 0, time.UTC).Unix()

	grid := weeklyHeatmap([]domain.RealizedEvent{
		realizedAt(k, 12.5, ts),
		realizedAt(k, -2.5, ts),
	}, time.UTC)

	assert.InDelta(t, 10.0, grid[int(time.Wednesday)][14], 1e-9)
	assert.Equal(t, 0.0, grid[int(time.Wednesday)][15])
}
