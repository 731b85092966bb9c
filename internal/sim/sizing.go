package sim

import (
	"github.com/alejandrodnm/polycopy/internal/domain"
	"github.com/alejandrodnm/polycopy/internal/fixed"
)

// followQuantity converts a source trade into the quantity the follower
// would trade, given the scaled trade price.
//
//   - Ratio mode: sourceQty × ratio (1.0 mirrors the source exactly).
//   - Fixed mode, BUY: budget / price — a constant notional converted
//     to shares at the observed price.
//   - Fixed mode, SELL: the source's own size. Exits mirror the source
//     and are capped at the held quantity by the engine; sizing the
//     sell through budget/exitPrice would strand part of the position
//     open forever.
//
// A non-positive result means the trade is not followable at this size.
func followQuantity(t domain.Trade, price fixed.Amount, sizing domain.SizingPolicy) fixed.Amount {
	if price <= 0 {
		return 0
	}

	if sizing.Mode == domain.SizingFixed {
		if t.Side == domain.SideSell {
			return fixed.FromFloat(t.Size)
		}
		return fixed.Div(fixed.FromFloat(sizing.Budget), price)
	}

	return fixed.Mul(fixed.FromFloat(t.Size), fixed.FromFloat(sizing.Ratio))
}
