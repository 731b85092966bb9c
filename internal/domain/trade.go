package domain

import "fmt"

// Side is the direction of a trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// MarketKey identifies one outcome of one market. Positions are tracked
// per key, never per condition alone.
type MarketKey struct {
	ConditionID  string
	AssetID      string
	OutcomeIndex int
}

// String returns the stable form used for map keys and display.
func (k MarketKey) String() string {
	return fmt.Sprintf("%s:%s:%d", k.ConditionID, k.AssetID, k.OutcomeIndex)
}

// Trade is a historical fill from the Data API, already validated and
// typed. The engine only ever sees trades that went through the adapter
// mapping.
type Trade struct {
	Key       MarketKey
	Side      Side
	Size      float64 // shares
	Price     float64 // probability in (0,1), treated as a unit price
	Timestamp int64   // unix seconds

	// Display metadata, never used by the engine math.
	Title   string
	Slug    string
	Outcome string
}

// Label returns the market title truncated to maxLen, falling back to
// the condition id when the feed gave no title.
func (t Trade) Label(maxLen int) string {
	s := t.Title
	if s == "" {
		s = t.Key.ConditionID
	}
	if len(s) > maxLen && maxLen > 3 {
		s = s[:maxLen-3] + "..."
	}
	return s
}
