package notify

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/polycopy/internal/domain"
)

const (
	maxRealizedRows = 20
	maxSkipRows     = 10
)

// Console implements ports.Notifier.
type Console struct {
	out  io.Writer
	full bool
}

// NewConsole creates a notifier that writes to stdout. full enables the
// per-market and realized-event tables; otherwise only the summary
// block is printed.
func NewConsole(full bool) *Console {
	return &Console{out: os.Stdout, full: full}
}

// NewConsoleWriter creates a notifier for tests.
func NewConsoleWriter(w io.Writer, full bool) *Console {
	return &Console{out: w, full: full}
}

// PrintResult renders the full replay report.
func (c *Console) PrintResult(res *domain.Result) {
	c.printSummary(res)

	if !c.full {
		return
	}

	if len(res.Markets) > 0 {
		c.printMarkets(res.Markets)
	}
	if len(res.Realized) > 0 {
		c.printRealized(res.Realized)
	}
	c.printDayparts(res)
	c.printSkips(res)
}

// PrintCompact renders the one-line status used by the follow loop.
func (c *Console) PrintCompact(res *domain.Result, at time.Time) {
	s := res.Summary

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] equity $%.2f (%+.2f%%)", at.Format("15:04:05"), s.FinalEquity, s.PnLPct)
	fmt.Fprintf(&sb, " | trades:%d fills:%d partial:%d skip:%d",
		s.TradesConsidered, s.FilledTrades, s.PartialFills, s.SkippedTrades)
	if len(res.Realized) > 0 {
		fmt.Fprintf(&sb, " | win:%.0f%% dd:%.1f%%", s.WinRate*100, s.MaxDrawdownPct)
	}

	fmt.Fprintln(c.out, sb.String())
}

func (c *Console) printSummary(res *domain.Result) {
	s := res.Summary

	fmt.Fprintf(c.out, "\n=== COPY-TRADE REPLAY — %d trades considered ===\n", s.TradesConsidered)
	fmt.Fprintf(c.out, "  Initial capital:  $%.2f\n", s.InitialCapital)
	fmt.Fprintf(c.out, "  Final equity:     $%.2f\n", s.FinalEquity)
	fmt.Fprintf(c.out, "  P&L:              $%.2f (%+.2f%%)\n", s.PnL, s.PnLPct)
	fmt.Fprintf(c.out, "  Win rate:         %.1f%% over %d realized\n", s.WinRate*100, len(res.Realized))
	fmt.Fprintf(c.out, "  Max win / loss:   $%.2f / $%.2f\n", s.MaxWin, s.MaxLoss)
	fmt.Fprintf(c.out, "  Max drawdown:     %.2f%%\n", s.MaxDrawdownPct)
	fmt.Fprintf(c.out, "  Sharpe-like:      %.3f\n", s.SharpeLike)
	fmt.Fprintf(c.out, "  Fills:            %d full, %d partial, %d skipped\n",
		s.FilledTrades, s.PartialFills, s.SkippedTrades)
}

func (c *Console) printMarkets(markets []domain.MarketPnL) {
	fmt.Fprintf(c.out, "\n--- Per-market realized P&L ---\n")

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Market", "Trades", "Wins", "P&L")

	for i, m := range markets {
		table.Append(
			fmt.Sprintf("%d", i+1),
			marketLabel(m),
			fmt.Sprintf("%d", m.Trades),
			fmt.Sprintf("%d", m.Wins),
			fmt.Sprintf("$%.2f", m.PnL),
		)
	}

	table.Render()
}

func (c *Console) printRealized(events []domain.RealizedEvent) {
	shown := events
	if len(shown) > maxRealizedRows {
		shown = events[:maxRealizedRows]
	}
	fmt.Fprintf(c.out, "\n--- Realized events (%d of %d) ---\n", len(shown), len(events))

	table := tablewriter.NewWriter(c.out)
	table.Header("Time", "Market", "Qty", "Entry", "Exit", "P&L")

	for _, ev := range shown {
		table.Append(
			time.Unix(ev.Timestamp, 0).UTC().Format("2006-01-02 15:04"),
			truncate(eventLabel(ev), 35),
			fmt.Sprintf("%.2f", ev.Quantity),
			fmt.Sprintf("%.4f", ev.EntryPrice),
			fmt.Sprintf("%.4f", ev.ExitPrice),
			fmt.Sprintf("$%.2f", ev.PnL),
		)
	}

	table.Render()
}

func (c *Console) printDayparts(res *domain.Result) {
	fmt.Fprintf(c.out, "\n  Day   (08-19): %d trades, win %.0f%%, P&L $%.2f\n",
		res.Day.Trades, res.Day.WinRate*100, res.Day.PnL)
	fmt.Fprintf(c.out, "  Night (20-07): %d trades, win %.0f%%, P&L $%.2f\n",
		res.Night.Trades, res.Night.WinRate*100, res.Night.PnL)
}

func (c *Console) printSkips(res *domain.Result) {
	if len(res.SkipReasons) == 0 {
		return
	}

	shown := res.SkipReasons
	if len(shown) > maxSkipRows {
		shown = shown[:maxSkipRows]
	}
	fmt.Fprintf(c.out, "\n--- Skip reasons (%d of %d recorded) ---\n",
		len(shown), len(res.SkipReasons))
	for _, r := range shown {
		fmt.Fprintf(c.out, "  · %s\n", r)
	}
}

func marketLabel(m domain.MarketPnL) string {
	if m.Title != "" {
		return truncate(m.Title, 40)
	}
	return truncate(m.Key.ConditionID, 40)
}

func eventLabel(ev domain.RealizedEvent) string {
	label := ev.Title
	if label == "" {
		label = ev.Key.ConditionID
	}
	if ev.Outcome != "" {
		label += " [" + ev.Outcome + "]"
	}
	return label
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen || maxLen <= 3 {
		return s
	}
	return s[:maxLen-3] + "..."
}
