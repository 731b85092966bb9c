package notify

import (
	"fmt"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/polycopy/internal/domain"
)

// PrintRuns renders the recorded replay history for one address.
func (c *Console) PrintRuns(address string, runs []domain.Run) {
	if len(runs) == 0 {
		fmt.Fprintf(c.out, "no recorded runs for %s\n", address)
		return
	}

	fmt.Fprintf(c.out, "\n=== RUN HISTORY — %s (%d runs) ===\n", address, len(runs))

	table := tablewriter.NewWriter(c.out)
	table.Header("When", "Mode", "Capital", "Window", "Final", "P&L", "Trades", "Skips")

	for _, r := range runs {
		mode := string(r.SizingMode)
		if r.SizingMode == domain.SizingRatio {
			mode = fmt.Sprintf("ratio %.2f", r.Ratio)
		} else if r.SizingMode == domain.SizingFixed {
			mode = fmt.Sprintf("fixed $%.0f", r.Budget)
		}

		table.Append(
			r.CreatedAt.Format("2006-01-02 15:04"),
			mode,
			fmt.Sprintf("$%.0f", r.InitialCapital),
			windowLabel(r.StartTs, r.EndTs),
			fmt.Sprintf("$%.2f", r.FinalEquity),
			fmt.Sprintf("%+.2f%%", r.PnLPct),
			fmt.Sprintf("%d", r.Trades),
			fmt.Sprintf("%d", r.SkippedTrades),
		)
	}

	table.Render()
}

func windowLabel(startTs, endTs int64) string {
	switch {
	case startTs == 0 && endTs == 0:
		return "full history"
	case endTs == 0:
		return fmt.Sprintf("since %d", startTs)
	case startTs == 0:
		return fmt.Sprintf("until %d", endTs)
	default:
		return fmt.Sprintf("%d..%d", startTs, endTs)
	}
}
