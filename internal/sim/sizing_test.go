package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alejandrodnm/polycopy/internal/domain"
	"github.com/alejandrodnm/polycopy/internal/fixed"
)

func TestFollowQuantity_RatioMirrors(t *testing.T) {
	tr := domain.Trade{Side: domain.SideBuy, Size: 100}
	got := followQuantity(tr, fixed.FromFloat(0.4), domain.RatioSizing(1.0))
	assert.Equal(t, fixed.FromFloat(100), got)
}

func TestFollowQuantity_RatioScales(t *testing.T) {
	tr := domain.Trade{Side: domain.SideBuy, Size: 100}
	got := followQuantity(tr, fixed.FromFloat(0.4), domain.RatioSizing(0.25))
	assert.Equal(t, fixed.FromFloat(25), got)
}

func TestFollowQuantity_FixedBuyConvertsBudget(t *testing.T) {
	tr := domain.Trade{Side: domain.SideBuy, Size: 9999}
	got := followQuantity(tr, fixed.FromFloat(0.5), domain.FixedNotionalSizing(100))
	assert.Equal(t, fixed.FromFloat(200), got)
}

func TestFollowQuantity_FixedSellMirrorsSource(t *testing.T) {
	// The engine caps sells at the held quantity; the policy itself
	// passes the source exit size through.
	tr := domain.Trade{Side: domain.SideSell, Size: 9999}
	got := followQuantity(tr, fixed.FromFloat(0.6), domain.FixedNotionalSizing(100))
	assert.Equal(t, fixed.FromFloat(9999), got)
}

func TestFollowQuantity_NonPositivePrice(t *testing.T) {
	tr := domain.Trade{Side: domain.SideBuy, Size: 100}
	assert.Equal(t, fixed.Amount(0), followQuantity(tr, 0, domain.RatioSizing(1)))
	assert.Equal(t, fixed.Amount(0), followQuantity(tr, fixed.FromFloat(-0.5), domain.RatioSizing(1)))
}

func TestFollowQuantity_ZeroRatio(t *testing.T) {
	tr := domain.Trade{Side: domain.SideBuy, Size: 100}
	assert.Equal(t, fixed.Amount(0), followQuantity(tr, fixed.FromFloat(0.4), domain.RatioSizing(0)))
}
