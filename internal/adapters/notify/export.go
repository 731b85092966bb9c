package notify

// export.go — CSV and static HTML rendering of a replay result. Both
// are pure views over the Result; nothing here feeds back into the
// engine.

import (
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/alejandrodnm/polycopy/internal/domain"
)

// WriteRealizedCSV writes the realized-event list as CSV.
func WriteRealizedCSV(w io.Writer, res *domain.Result) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{
		"timestamp", "condition_id", "asset_id", "outcome", "title",
		"quantity", "entry_price", "exit_price", "pnl",
	}); err != nil {
		return fmt.Errorf("notify.WriteRealizedCSV: %w", err)
	}

	for _, ev := range res.Realized {
		row := []string{
			time.Unix(ev.Timestamp, 0).UTC().Format(time.RFC3339),
			ev.Key.ConditionID,
			ev.Key.AssetID,
			ev.Outcome,
			ev.Title,
			strconv.FormatFloat(ev.Quantity, 'f', 4, 64),
			strconv.FormatFloat(ev.EntryPrice, 'f', 4, 64),
			strconv.FormatFloat(ev.ExitPrice, 'f', 4, 64),
			strconv.FormatFloat(ev.PnL, 'f', 4, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("notify.WriteRealizedCSV: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteEquityCSV writes the equity curve as CSV.
func WriteEquityCSV(w io.Writer, res *domain.Result) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"timestamp", "equity", "cash"}); err != nil {
		return fmt.Errorf("notify.WriteEquityCSV: %w", err)
	}
	for _, p := range res.Equity {
		row := []string{
			strconv.FormatInt(p.Timestamp, 10),
			strconv.FormatFloat(p.Equity, 'f', 4, 64),
			strconv.FormatFloat(p.Cash, 'f', 4, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("notify.WriteEquityCSV: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Copy-trade replay — {{.Address}}</title>
<style>
body { font-family: monospace; margin: 2em; background: #fafafa; }
table { border-collapse: collapse; margin: 1em 0; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: right; }
th { background: #eee; }
td.label { text-align: left; }
.pos { color: #087f23; } .neg { color: #b71c1c; }
.heat td { width: 24px; height: 18px; font-size: 9px; }
</style>
</head>
<body>
<h1>Copy-trade replay</h1>
<p>Address: {{.Address}} · generated {{.GeneratedAt}}</p>

<h2>Summary</h2>
<table>
<tr><td class="label">Initial capital</td><td>${{printf "%.2f" .Summary.InitialCapital}}</td></tr>
<tr><td class="label">Final equity</td><td>${{printf "%.2f" .Summary.FinalEquity}}</td></tr>
<tr><td class="label">P&amp;L</td><td>${{printf "%.2f" .Summary.PnL}} ({{printf "%.2f" .Summary.PnLPct}}%)</td></tr>
<tr><td class="label">Win rate</td><td>{{printf "%.1f" .WinRatePct}}%</td></tr>
<tr><td class="label">Max drawdown</td><td>{{printf "%.2f" .Summary.MaxDrawdownPct}}%</td></tr>
<tr><td class="label">Sharpe-like</td><td>{{printf "%.3f" .Summary.SharpeLike}}</td></tr>
<tr><td class="label">Trades</td><td>{{.Summary.TradesConsidered}} ({{.Summary.FilledTrades}} full / {{.Summary.PartialFills}} partial / {{.Summary.SkippedTrades}} skipped)</td></tr>
</table>

<h2>Per-market P&amp;L</h2>
<table>
<tr><th>Market</th><th>Trades</th><th>Wins</th><th>P&amp;L</th></tr>
{{range .Markets}}
<tr><td class="label">{{.Label}}</td><td>{{.Trades}}</td><td>{{.Wins}}</td>
<td class="{{.Class}}">${{printf "%.2f" .PnL}}</td></tr>
{{end}}
</table>

<h2>Weekly heatmap (realized P&amp;L)</h2>
<table class="heat">
<tr><th></th>{{range .Hours}}<th>{{.}}</th>{{end}}</tr>
{{range .HeatRows}}
<tr><td class="label">{{.Day}}</td>{{range .Cells}}<td class="{{.Class}}">{{.Text}}</td>{{end}}</tr>
{{end}}
</table>
</body>
</html>
`))

type reportMarket struct {
	Label  string
	Trades int
	Wins   int
	PnL    float64
	Class  string
}

type heatCell struct {
	Text  string
	Class string
}

type heatRow struct {
	Day   string
	Cells []heatCell
}

type reportData struct {
	Address     string
	GeneratedAt string
	Summary     domain.Summary
	WinRatePct  float64
	Markets     []reportMarket
	Hours       []int
	HeatRows    []heatRow
}

// WriteHTMLReport writes a static, self-contained HTML report.
func WriteHTMLReport(w io.Writer, res *domain.Result, address string) error {
	data := reportData{
		Address:     address,
		GeneratedAt: time.Now().UTC().Format("2006-01-02 15:04 UTC"),
		Summary:     res.Summary,
		WinRatePct:  res.Summary.WinRate * 100,
	}

	for _, m := range res.Markets {
		data.Markets = append(data.Markets, reportMarket{
			Label:  marketLabel(m),
			Trades: m.Trades,
			Wins:   m.Wins,
			PnL:    m.PnL,
			Class:  pnlClass(m.PnL),
		})
	}

	for h := 0; h < 24; h++ {
		data.Hours = append(data.Hours, h)
	}
	for dow := 0; dow < 7; dow++ {
		row := heatRow{Day: time.Weekday(dow).String()[:3]}
		for h := 0; h < 24; h++ {
			v := res.Heatmap[dow][h]
			cell := heatCell{Class: pnlClass(v)}
			if v != 0 {
				cell.Text = fmt.Sprintf("%.0f", v)
			}
			row.Cells = append(row.Cells, cell)
		}
		data.HeatRows = append(data.HeatRows, row)
	}

	if err := reportTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("notify.WriteHTMLReport: %w", err)
	}
	return nil
}

func pnlClass(v float64) string {
	switch {
	case v > 0:
		return "pos"
	case v < 0:
		return "neg"
	default:
		return ""
	}
}
