package ports

import (
	"context"

	"github.com/alejandrodnm/polycopy/internal/domain"
)

// TradeStore caches fetched trade history per address so repeated
// backtests and the follow loop don't refetch the full feed.
type TradeStore interface {
	// SaveTrades upserts trades by id; refetching overlapping pages is
	// harmless.
	SaveTrades(ctx context.Context, address string, trades []domain.Trade) error

	// GetTrades returns the cached history ordered by timestamp.
	GetTrades(ctx context.Context, address string) ([]domain.Trade, error)

	// LatestTradeTs returns the newest cached timestamp for the
	// address, or 0 when nothing is cached.
	LatestTradeTs(ctx context.Context, address string) (int64, error)

	Close() error
}

// RunStore records replay invocations for the report command.
type RunStore interface {
	SaveRun(ctx context.Context, run domain.Run) error
	GetRuns(ctx context.Context, address string) ([]domain.Run, error)
}

// Storage aggregates everything the tool persists.
type Storage interface {
	TradeStore
	RunStore
}
