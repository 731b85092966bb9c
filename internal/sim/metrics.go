package sim

import (
	"math"
	"sort"
	"time"

	"github.com/alejandrodnm/polycopy/internal/domain"
)

// Day bucket bounds, inclusive: 08:00–19:59 local hour. Everything else
// is night.
const (
	dayStartHour = 8
	dayEndHour   = 19
)

// finalize derives the summary statistics and aggregation views from
// the raw equity series and realized events. Runs once per replay,
// after the full trade list has been applied.
func finalize(res *domain.Result, cfg domain.SimulationConfig) {
	s := &res.Summary

	s.FinalEquity = s.InitialCapital
	if n := len(res.Equity); n > 0 {
		s.FinalEquity = res.Equity[n-1].Equity
	}
	s.PnL = s.FinalEquity - s.InitialCapital
	if s.InitialCapital != 0 {
		s.PnLPct = s.PnL / s.InitialCapital * 100
	}

	wins := 0
	for _, ev := range res.Realized {
		if ev.PnL > 0 {
			wins++
		}
		if ev.PnL > s.MaxWin {
			s.MaxWin = ev.PnL
		}
		if ev.PnL < s.MaxLoss {
			s.MaxLoss = ev.PnL
		}
	}
	if len(res.Realized) > 0 {
		s.WinRate = float64(wins) / float64(len(res.Realized))
	}

	s.MaxDrawdownPct = maxDrawdownPct(res.Equity)
	s.SharpeLike = sharpeLike(res.Equity)

	res.Markets = marketRows(res.Realized)
	res.Day, res.Night = daypartBuckets(res.Realized, cfg.Loc())
	res.Heatmap = weeklyHeatmap(res.Realized, cfg.Loc())
}

// maxDrawdownPct is the largest peak-to-trough percentage decline seen
// scanning the series left to right against a running peak.
func maxDrawdownPct(equity []domain.EquityPoint) float64 {
	var peak, maxDD float64
	for _, p := range equity {
		if p.Equity > peak {
			peak = p.Equity
		}
		if peak <= 0 {
			continue
		}
		dd := (peak - p.Equity) / peak * 100
		if dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// sharpeLike is the mean of step-over-step percentage returns divided
// by their sample standard deviation, scaled by √n. No annualization:
// it is a raw ratio over the replay horizon.
func sharpeLike(equity []domain.EquityPoint) float64 {
	var returns []float64
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Equity
		if prev == 0 {
			continue
		}
		returns = append(returns, (equity[i].Equity-prev)/prev)
	}
	n := len(returns)
	if n < 2 {
		return 0
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(n)

	var variance float64
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(n - 1)
	if variance == 0 {
		return 0
	}

	return mean / math.Sqrt(variance) * math.Sqrt(float64(n))
}

// marketRows groups realized events by market-outcome key and sorts
// descending by summed PnL.
func marketRows(realized []domain.RealizedEvent) []domain.MarketPnL {
	byKey := make(map[domain.MarketKey]*domain.MarketPnL)
	order := make([]domain.MarketKey, 0)

	for _, ev := range realized {
		row, ok := byKey[ev.Key]
		if !ok {
			row = &domain.MarketPnL{Key: ev.Key, Title: ev.Title}
			byKey[ev.Key] = row
			order = append(order, ev.Key)
		}
		row.Trades++
		if ev.PnL > 0 {
			row.Wins++
		}
		row.PnL += ev.PnL
	}

	rows := make([]domain.MarketPnL, 0, len(order))
	for _, k := range order {
		rows = append(rows, *byKey[k])
	}
	// Stable over first-seen order so equal PnL rows stay deterministic.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].PnL > rows[j].PnL
	})
	return rows
}

func daypartBuckets(realized []domain.RealizedEvent, loc *time.Location) (day, night domain.DaypartStats) {
	for _, ev := range realized {
		hour := time.Unix(ev.Timestamp, 0).In(loc).Hour()
		bucket := &night
		if hour >= dayStartHour && hour <= dayEndHour {
			bucket = &day
		}
		bucket.Trades++
		if ev.PnL > 0 {
			bucket.Wins++
		}
		bucket.PnL += ev.PnL
	}
	if day.Trades > 0 {
		day.WinRate = float64(day.Wins) / float64(day.Trades)
	}
	if night.Trades > 0 {
		night.WinRate = float64(night.Wins) / float64(night.Trades)
	}
	return day, night
}

// weeklyHeatmap sums realized PnL into a weekday × hour grid, for
// spotting when a trader's followed positions close profitably.
func weeklyHeatmap(realized []domain.RealizedEvent, loc *time.Location) [7][24]float64 {
	var grid [7][24]float64
	for _, ev := range realized {
		t := time.Unix(ev.Timestamp, 0).In(loc)
		grid[int(t.Weekday())][t.Hour()] += ev.PnL
	}
	return grid
}
