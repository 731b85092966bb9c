package domain

import "time"

// Run is the persisted record of one replay invocation: the inputs that
// shaped it and the headline outputs. Engine state itself is never
// persisted; a run can always be reproduced from the trade history and
// this snapshot.
type Run struct {
	ID      string // uuid
	Address string

	InitialCapital float64
	SizingMode     SizingMode
	Ratio          float64
	Budget         float64
	StartTs        int64
	EndTs          int64
	PartialFills   bool

	FinalEquity   float64
	PnL           float64
	PnLPct        float64
	Trades        int
	SkippedTrades int

	CreatedAt time.Time
}

// Config reconstructs the SimulationConfig this run was executed with.
func (r Run) Config() SimulationConfig {
	return SimulationConfig{
		InitialCapital:    r.InitialCapital,
		Sizing:            SizingPolicy{Mode: r.SizingMode, Ratio: r.Ratio, Budget: r.Budget},
		StartTs:           r.StartTs,
		EndTs:             r.EndTs,
		AllowPartialFills: r.PartialFills,
	}
}
