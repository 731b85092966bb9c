package sim

import (
	"fmt"
	"log/slog"

	"github.com/dgraph-io/ristretto"

	"github.com/alejandrodnm/polycopy/internal/domain"
)

const (
	cacheMaxResults = 64
	cacheCounters   = 10 * cacheMaxResults
)

// Simulator memoizes Replay results by input fingerprint. The follow
// loop re-invokes it with the full, slowly growing trade list on every
// poll; only a genuinely new (trades, config) pair pays for a replay.
type Simulator struct {
	cache *ristretto.Cache
}

// NewSimulator creates a memoizing simulator.
func NewSimulator() (*Simulator, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cacheCounters,
		MaxCost:     cacheMaxResults,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("sim.NewSimulator: %w", err)
	}
	return &Simulator{cache: c}, nil
}

// Run replays trades under cfg, serving repeated identical inputs from
// cache. The returned Result is shared across cache hits and must be
// treated as read-only, same as any Replay output.
func (s *Simulator) Run(trades []domain.Trade, cfg domain.SimulationConfig) *domain.Result {
	key := Fingerprint(trades, cfg)

	if v, ok := s.cache.Get(key); ok {
		slog.Debug("sim: cache hit", "fingerprint", fmt.Sprintf("%016x", key))
		return v.(*domain.Result)
	}

	res := Replay(trades, cfg)
	s.cache.Set(key, res, 1)
	slog.Debug("sim: replayed",
		"fingerprint", fmt.Sprintf("%016x", key),
		"trades", res.Summary.TradesConsidered,
		"final_equity", fmt.Sprintf("$%.2f", res.Summary.FinalEquity),
	)
	return res
}

// Close releases the cache resources.
func (s *Simulator) Close() {
	s.cache.Close()
}
