package sim

import (
	"sort"

	"github.com/alejandrodnm/polycopy/internal/domain"
)

// selectTrades returns the trades inside the configured window, sorted
// ascending by timestamp. Both bounds are inclusive; zero means
// unbounded on that side. The sort is stable so equal timestamps keep
// their input order and two runs over the same slice always replay in
// the same sequence.
func selectTrades(trades []domain.Trade, startTs, endTs int64) []domain.Trade {
	selected := make([]domain.Trade, 0, len(trades))
	for _, t := range trades {
		if startTs > 0 && t.Timestamp < startTs {
			continue
		}
		if endTs > 0 && t.Timestamp > endTs {
			continue
		}
		selected = append(selected, t)
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Timestamp < selected[j].Timestamp
	})

	return selected
}
