package domain

import "time"

// SizingMode discriminates the follow-sizing policy explicitly. The
// original UI inferred the mode from which field was filled in; a budget
// of exactly zero would silently fall back to ratio mode, so here the
// caller always tags the variant.
type SizingMode string

const (
	// SizingRatio mirrors the source trader's size scaled by a fraction.
	SizingRatio SizingMode = "RATIO"
	// SizingFixed spends a constant notional per trade, converted to
	// shares at the observed trade price.
	SizingFixed SizingMode = "FIXED"
)

// SizingPolicy converts a source trade size into the followed size.
type SizingPolicy struct {
	Mode   SizingMode
	Ratio  float64 // used only in SizingRatio; 1.0 = mirror exactly
	Budget float64 // USDC per trade, used only in SizingFixed
}

// RatioSizing follows the source size scaled by ratio.
func RatioSizing(ratio float64) SizingPolicy {
	return SizingPolicy{Mode: SizingRatio, Ratio: ratio}
}

// FixedNotionalSizing spends budget USDC on every followed trade.
func FixedNotionalSizing(budget float64) SizingPolicy {
	return SizingPolicy{Mode: SizingFixed, Budget: budget}
}

// SimulationConfig is everything the replay engine needs besides the
// trade list. It is copied by value into each run; the engine never
// mutates the caller's instance.
type SimulationConfig struct {
	InitialCapital float64
	Sizing         SizingPolicy

	// Inclusive window in unix seconds. Zero means unbounded on that
	// side. Nothing outside the window is considered, not even to seed
	// an opening position.
	StartTs int64
	EndTs   int64

	AllowPartialFills bool

	// Location is used only for the hour-of-day metrics buckets.
	// Nil means UTC, which keeps replays reproducible across machines.
	Location *time.Location
}

// Loc returns the configured location or UTC.
func (c SimulationConfig) Loc() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}
