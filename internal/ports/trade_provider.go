package ports

import (
	"context"

	"github.com/alejandrodnm/polycopy/internal/domain"
)

// TradeProvider fetches the public trade activity of one address.
type TradeProvider interface {
	FetchActivity(ctx context.Context, address string) ([]domain.Trade, error)
}
