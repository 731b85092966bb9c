// Package fixed implements the scaled-integer arithmetic used by the
// simulation engine. Every price, quantity and cash value is an int64
// carrying four implied decimal digits, so thousands of sequential
// buy/sell operations produce bit-identical results on every platform.
package fixed

import "math"

// Scale is the implied-decimal factor: 1.0 == 10000.
const Scale = 10_000

// Amount is a monetary or quantity value scaled by Scale.
type Amount int64

// FromFloat converts an external float to scaled form. Non-finite
// inputs clamp to zero instead of poisoning the replay with NaN.
func FromFloat(f float64) Amount {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return Amount(math.Round(f * Scale))
}

// Float converts back to a real number. Only used at output boundaries;
// internal logic stays in Amount.
func (a Amount) Float() float64 {
	return float64(a) / Scale
}

// Mul returns a×b descaled, e.g. price × quantity → notional.
func Mul(a, b Amount) Amount {
	return Amount(int64(a) * int64(b) / Scale)
}

// Div returns a/b rescaled, e.g. cash budget / price → quantity.
// Returns 0 when b is zero.
func Div(a, b Amount) Amount {
	if b == 0 {
		return 0
	}
	return Amount(int64(a) * Scale / int64(b))
}
