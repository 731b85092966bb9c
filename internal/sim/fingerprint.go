package sim

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/alejandrodnm/polycopy/internal/domain"
)

// Fingerprint derives the memoization key for one (trades, config)
// pair. Two calls with identical logical inputs hash identically, so
// the surrounding loop can re-run the simulator on every poll without
// replaying unchanged backtests.
func Fingerprint(trades []domain.Trade, cfg domain.SimulationConfig) uint64 {
	d := xxhash.New()
	buf := make([]byte, 8)

	writeF64 := func(f float64) {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(f))
		d.Write(buf)
	}
	writeI64 := func(v int64) {
		binary.LittleEndian.PutUint64(buf, uint64(v))
		d.Write(buf)
	}
	writeStr := func(s string) {
		writeI64(int64(len(s)))
		d.WriteString(s)
	}

	writeF64(cfg.InitialCapital)
	writeStr(string(cfg.Sizing.Mode))
	writeF64(cfg.Sizing.Ratio)
	writeF64(cfg.Sizing.Budget)
	writeI64(cfg.StartTs)
	writeI64(cfg.EndTs)
	if cfg.AllowPartialFills {
		d.WriteString("p")
	}
	writeStr(cfg.Loc().String())

	writeI64(int64(len(trades)))
	for _, t := range trades {
		writeStr(t.Key.ConditionID)
		writeStr(t.Key.AssetID)
		writeI64(int64(t.Key.OutcomeIndex))
		writeStr(string(t.Side))
		writeF64(t.Size)
		writeF64(t.Price)
		writeI64(t.Timestamp)
	}

	return d.Sum64()
}
