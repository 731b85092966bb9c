// Package sim replays a trader's historical fills as if they had been
// copy-followed with a budget. The replay is a pure function: fixed-point
// state machine in, immutable Result out, no shared state between
// invocations. Re-running with identical inputs reproduces an identical
// result bit for bit.
package sim

import (
	"fmt"
	"time"

	"github.com/alejandrodnm/polycopy/internal/domain"
	"github.com/alejandrodnm/polycopy/internal/fixed"
)

// position is the per-market-outcome state. avg is the volume-weighted
// entry price, reset to zero whenever qty returns to zero so a reopened
// key never inherits a stale cost basis. last is the most recently
// observed trade price for the key, used for mark-to-market valuation
// even when no fill occurred. mark caches qty×last, the key's current
// contribution to the portfolio mark sum.
type position struct {
	qty  fixed.Amount
	avg  fixed.Amount
	last fixed.Amount
	mark fixed.Amount
}

// replayState is everything one run owns. Allocated fresh per call, so
// parallel callers with different inputs are safe.
type replayState struct {
	cfg       domain.SimulationConfig
	cash      fixed.Amount
	positions map[domain.MarketKey]*position
	markSum   fixed.Amount

	res *domain.Result
}

// Replay runs the copy-trade simulation over the full trade history and
// the configured window. It never fails: every anomalous input degrades
// to a recorded skip, never an error that aborts the replay.
func Replay(trades []domain.Trade, cfg domain.SimulationConfig) *domain.Result {
	selected := selectTrades(trades, cfg.StartTs, cfg.EndTs)

	st := &replayState{
		cfg:       cfg,
		cash:      fixed.FromFloat(cfg.InitialCapital),
		positions: make(map[domain.MarketKey]*position),
		res: &domain.Result{
			Equity: make([]domain.EquityPoint, 0, len(selected)),
		},
	}
	st.res.Summary.InitialCapital = cfg.InitialCapital
	st.res.Summary.TradesConsidered = len(selected)

	for _, t := range selected {
		st.apply(t)
	}

	if len(selected) == 0 {
		// Always produce a well-formed curve, even with nothing to
		// replay.
		st.appendEquity(emptyWindowTs(cfg))
	}

	finalize(st.res, cfg)
	return st.res
}

// apply advances the state machine by one trade and appends one equity
// point regardless of the branch taken.
func (st *replayState) apply(t domain.Trade) {
	price := fixed.FromFloat(t.Price)
	if price <= 0 {
		// An unusable price reveals nothing about the market either,
		// so the mark is left alone.
		st.skip(fmt.Sprintf("unusable price %.4f for %s", t.Price, t.Label(40)))
		st.appendEquity(t.Timestamp)
		return
	}

	desired := followQuantity(t, price, st.cfg.Sizing)
	if desired <= 0 {
		st.skip(fmt.Sprintf("followed quantity is zero for %s", t.Label(40)))
		st.touch(t.Key, price)
		st.appendEquity(t.Timestamp)
		return
	}

	switch t.Side {
	case domain.SideBuy:
		st.buy(t, price, desired)
	case domain.SideSell:
		st.sell(t, price, desired)
	default:
		st.skip(fmt.Sprintf("unknown side %q for %s", t.Side, t.Label(40)))
	}

	// Even a skipped trade reveals the market's current price.
	st.touch(t.Key, price)
	st.appendEquity(t.Timestamp)
}

func (st *replayState) buy(t domain.Trade, price, desired fixed.Amount) {
	notional := fixed.Mul(price, desired)

	fillQty := desired
	if notional > st.cash {
		if !st.cfg.AllowPartialFills {
			st.skip(fmt.Sprintf("insufficient cash for %s: need $%.2f, have $%.2f",
				t.Label(40), notional.Float(), st.cash.Float()))
			return
		}

		affordable := fixed.Div(st.cash, price)
		if affordable <= 0 {
			st.skip(fmt.Sprintf("no cash left for %s", t.Label(40)))
			return
		}
		fillQty = affordable
		notional = fixed.Mul(price, fillQty)
		st.res.Summary.PartialFills++
	} else {
		st.res.Summary.FilledTrades++
	}

	pos := st.pos(t.Key)
	newQty := pos.qty + fillQty
	pos.avg = fixed.Div(fixed.Mul(pos.avg, pos.qty)+fixed.Mul(price, fillQty), newQty)
	pos.qty = newQty
	st.cash -= notional
}

func (st *replayState) sell(t domain.Trade, price, desired fixed.Amount) {
	pos := st.pos(t.Key)
	if pos.qty <= 0 {
		st.skip(fmt.Sprintf("no position to sell in %s", t.Label(40)))
		return
	}

	sellQty := desired
	if sellQty > pos.qty {
		sellQty = pos.qty
		st.res.Summary.PartialFills++
	} else {
		st.res.Summary.FilledTrades++
	}
	if sellQty <= 0 {
		st.skip(fmt.Sprintf("zero sellable quantity for %s", t.Label(40)))
		return
	}

	st.cash += fixed.Mul(price, sellQty)

	st.res.Realized = append(st.res.Realized, domain.RealizedEvent{
		Key:        t.Key,
		Title:      t.Title,
		Outcome:    t.Outcome,
		Timestamp:  t.Timestamp,
		Quantity:   sellQty.Float(),
		EntryPrice: pos.avg.Float(),
		ExitPrice:  price.Float(),
		PnL:        fixed.Mul(price-pos.avg, sellQty).Float(),
	})

	pos.qty -= sellQty
	if pos.qty == 0 {
		pos.avg = 0
	}
}

// touch records price as the last observed price for key and refreshes
// the key's cached contribution to the mark sum.
func (st *replayState) touch(key domain.MarketKey, price fixed.Amount) {
	pos := st.pos(key)
	pos.last = price
	st.markSum -= pos.mark
	pos.mark = fixed.Mul(pos.qty, pos.last)
	st.markSum += pos.mark
}

func (st *replayState) pos(key domain.MarketKey) *position {
	p, ok := st.positions[key]
	if !ok {
		p = &position{}
		st.positions[key] = p
	}
	return p
}

func (st *replayState) appendEquity(ts int64) {
	// Quantities can have drifted since the last touch of this key's
	// mark, so the cached sum is refreshed per trade inside touch();
	// here cash + markSum is already current.
	st.res.Equity = append(st.res.Equity, domain.EquityPoint{
		Timestamp: ts,
		Equity:    (st.cash + st.markSum).Float(),
		Cash:      st.cash.Float(),
	})
}

func (st *replayState) skip(reason string) {
	st.res.Summary.SkippedTrades++
	if len(st.res.SkipReasons) < domain.MaxSkipReasons {
		st.res.SkipReasons = append(st.res.SkipReasons, reason)
	}
}

// emptyWindowTs picks the timestamp for the synthetic equity point when
// no trade fell inside the window: start, else end, else now.
func emptyWindowTs(cfg domain.SimulationConfig) int64 {
	if cfg.StartTs > 0 {
		return cfg.StartTs
	}
	if cfg.EndTs > 0 {
		return cfg.EndTs
	}
	return time.Now().Unix()
}
