package polymarket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"context"

	"github.com/alejandrodnm/polycopy/internal/domain"
)

const (
	activityPerPage  = 500
	activityMaxPages = 40
)

// rawActivity is the duck-typed record the Data API returns. Fields
// arrive as numbers or strings depending on endpoint version, so
// everything numeric goes through json.Number and gets validated in
// mapActivity before the engine ever sees it.
type rawActivity struct {
	Type         string      `json:"type"`
	ConditionID  string      `json:"conditionId"`
	Asset        string      `json:"asset"`
	OutcomeIndex json.Number `json:"outcomeIndex"`
	Side         string      `json:"side"`
	Size         json.Number `json:"size"`
	Price        json.Number `json:"price"`
	Timestamp    json.Number `json:"timestamp"`
	Title        string      `json:"title"`
	Slug         string      `json:"slug"`
	Outcome      string      `json:"outcome"`
}

// FetchActivity fetches the full trade activity of one address,
// paginating until the feed is exhausted or the page cap is reached.
func (c *Client) FetchActivity(ctx context.Context, address string) ([]domain.Trade, error) {
	if !ValidAddress(address) {
		return nil, fmt.Errorf("polymarket.FetchActivity: invalid address %q", address)
	}

	var all []domain.Trade

	for page := 0; page < activityMaxPages; page++ {
		offset := page * activityPerPage
		url := fmt.Sprintf("%s/activity?user=%s&type=TRADE&limit=%d&offset=%d",
			c.dataBase, address, activityPerPage, offset)

		var resp []rawActivity
		if err := c.get(ctx, url, &resp); err != nil {
			return nil, fmt.Errorf("polymarket.FetchActivity: %w", err)
		}

		if len(resp) == 0 {
			break
		}

		for _, r := range resp {
			t, ok := mapActivity(r)
			if !ok {
				continue
			}
			all = append(all, t)
		}

		slog.Debug("fetched activity page",
			"address", shortAddr(address),
			"page", page,
			"count", len(resp),
			"total", len(all),
		)

		if len(resp) < activityPerPage {
			break
		}
	}

	return all, nil
}

// mapActivity converts a raw feed record into the strict Trade the
// engine consumes. Records that are not trades, or that miss market
// identifiers, are dropped here at the boundary.
func mapActivity(r rawActivity) (domain.Trade, bool) {
	if r.Type != "" && r.Type != "TRADE" {
		return domain.Trade{}, false
	}
	if r.ConditionID == "" || r.Asset == "" {
		return domain.Trade{}, false
	}

	side := domain.Side(strings.ToUpper(r.Side))
	if side != domain.SideBuy && side != domain.SideSell {
		return domain.Trade{}, false
	}

	price, _ := r.Price.Float64()
	size, _ := r.Size.Float64()
	outcomeIdx64, _ := r.OutcomeIndex.Int64()

	return domain.Trade{
		Key: domain.MarketKey{
			ConditionID:  r.ConditionID,
			AssetID:      r.Asset,
			OutcomeIndex: int(outcomeIdx64),
		},
		Side:      side,
		Size:      size,
		Price:     price,
		Timestamp: parseTimestamp(r.Timestamp),
		Title:     r.Title,
		Slug:      r.Slug,
		Outcome:   r.Outcome,
	}, true
}

// parseTimestamp accepts unix seconds, unix milliseconds, fractional
// seconds and ISO strings — the feed has served all four.
func parseTimestamp(n json.Number) int64 {
	s := n.String()
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		if sec > 1e12 {
			return sec / 1000
		}
		return sec
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	for _, layout := range []string{
		time.RFC3339Nano, time.RFC3339,
		"2006-01-02T15:04:05.000Z", "2006-01-02T15:04:05Z",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Unix()
		}
	}
	return 0
}

func shortAddr(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:10] + "..."
}
