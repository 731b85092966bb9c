package ports

import (
	"time"

	"github.com/alejandrodnm/polycopy/internal/domain"
)

// Notifier presents a replay result to the user.
type Notifier interface {
	// PrintResult renders the full report: summary, per-market table,
	// realized events, dayparts and skip reasons.
	PrintResult(res *domain.Result)

	// PrintCompact renders the one-line status used by the follow loop.
	PrintCompact(res *domain.Result, at time.Time)
}
