package domain

// EquityPoint is one snapshot of portfolio value. The engine appends one
// after every considered trade, fill or not, so the series reconstructs
// portfolio value over time rather than listing executed fills.
type EquityPoint struct {
	Timestamp int64
	Equity    float64 // cash + Σ heldQty × lastObservedPrice
	Cash      float64
}

// RealizedEvent is P&L locked in by a SELL that matched held quantity.
type RealizedEvent struct {
	Key        MarketKey
	Title      string
	Outcome    string
	Timestamp  int64
	Quantity   float64
	EntryPrice float64 // position average at the time of the sell
	ExitPrice  float64
	PnL        float64
}

// MarketPnL aggregates realized events for one market-outcome key.
type MarketPnL struct {
	Key    MarketKey
	Title  string
	Trades int
	Wins   int
	PnL    float64
}

// DaypartStats sums realized results for the day (08:00–19:59) or night
// bucket.
type DaypartStats struct {
	Trades  int
	Wins    int
	PnL     float64
	WinRate float64
}

// Summary holds the headline statistics of one replay.
type Summary struct {
	InitialCapital float64
	FinalEquity    float64
	PnL            float64
	PnLPct         float64
	WinRate        float64 // fraction of realized events with PnL > 0
	MaxWin         float64
	MaxLoss        float64 // most negative realized PnL, clamped ≤ 0
	MaxDrawdownPct float64
	SharpeLike     float64 // mean step return / stddev × √n, no annualization

	TradesConsidered int
	FilledTrades     int
	PartialFills     int
	SkippedTrades    int
}

// Result is the single immutable output of a replay. The engine builds
// it fresh on every invocation and never touches it after returning.
type Result struct {
	Summary  Summary
	Equity   []EquityPoint
	Realized []RealizedEvent
	Markets  []MarketPnL // sorted by PnL descending

	Day   DaypartStats
	Night DaypartStats

	// Heatmap[dow][hour] sums realized PnL per weekday × hour cell.
	Heatmap [7][24]float64

	// SkipReasons keeps the first MaxSkipReasons human-readable skip
	// explanations; later ones are counted but not recorded.
	SkipReasons []string
}

// MaxSkipReasons caps the skip log. The cap keeps the earliest entries:
// on a replay with systemic failures, later distinct failure modes are
// not shown. Deliberate, see the product notes before changing.
const MaxSkipReasons = 200
