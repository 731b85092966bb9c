package polymarket_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/polycopy/internal/adapters/polymarket"
	"github.com/alejandrodnm/polycopy/internal/domain"
)

const testAddr = "0x56687bf447db6ffa42ffe2204a05edaa20f55839"

func TestFetchActivity_MapsRawRecords(t *testing.T) {
	fixture := `[
		{
			"type": "TRADE",
			"conditionId": "0xc0ffee",
			"asset": "123456",
			"outcomeIndex": 1,
			"side": "buy",
			"size": "100.5",
			"price": 0.42,
			"timestamp": 1700000000,
			"title": "Will X happen?",
			"slug": "will-x-happen",
			"outcome": "Yes"
		},
		{
			"type": "REDEEM",
			"conditionId": "0xdead",
			"asset": "999",
			"side": "SELL",
			"size": 1,
			"price": 1,
			"timestamp": 1700000001
		}
	]`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testAddr, r.URL.Query().Get("user"))
		assert.Equal(t, "TRADE", r.URL.Query().Get("type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(fixture))
	}))
	defer srv.Close()

	client := polymarket.NewClient(srv.URL)
	trades, err := client.FetchActivity(context.Background(), testAddr)
	require.NoError(t, err)

	// The REDEEM record is dropped at the boundary.
	require.Len(t, trades, 1)
	tr := trades[0]
	assert.Equal(t, domain.SideBuy, tr.Side)
	assert.Equal(t, "0xc0ffee", tr.Key.ConditionID)
	assert.Equal(t, "123456", tr.Key.AssetID)
	assert.Equal(t, 1, tr.Key.OutcomeIndex)
	assert.InDelta(t, 100.5, tr.Size, 1e-9)
	assert.InDelta(t, 0.42, tr.Price, 1e-9)
	assert.Equal(t, int64(1700000000), tr.Timestamp)
	assert.Equal(t, "Will X happen?", tr.Title)
}

func TestFetchActivity_MillisecondTimestamps(t *testing.T) {
	fixture := `[{
		"type": "TRADE", "conditionId": "0xc", "asset": "1",
		"side": "SELL", "size": 10, "price": 0.6,
		"timestamp": 1700000000123
	}]`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(fixture))
	}))
	defer srv.Close()

	trades, err := polymarket.NewClient(srv.URL).FetchActivity(context.Background(), testAddr)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, int64(1700000000), trades[0].Timestamp)
}

func TestFetchActivity_Paginates(t *testing.T) {
	pages := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset := r.URL.Query().Get("offset")
		pages++
		w.Header().Set("Content-Type", "application/json")
		if offset == "0" {
			// A full page forces a second request.
			fmt.Fprint(w, "[")
			for i := 0; i < 500; i++ {
				if i > 0 {
					fmt.Fprint(w, ",")
				}
				fmt.Fprintf(w, `{"type":"TRADE","conditionId":"0xc","asset":"1","side":"BUY","size":1,"price":0.5,"timestamp":%d}`, 1700000000+i)
			}
			fmt.Fprint(w, "]")
			return
		}
		fmt.Fprint(w, "[]")
	}))
	defer srv.Close()

	trades, err := polymarket.NewClient(srv.URL).FetchActivity(context.Background(), testAddr)
	require.NoError(t, err)
	assert.Len(t, trades, 500)
	assert.Equal(t, 2, pages)
}

func TestFetchActivity_RejectsInvalidAddress(t *testing.T) {
	client := polymarket.NewClient("http://localhost:0")
	_, err := client.FetchActivity(context.Background(), "not-an-address")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid address")
}

func TestFetchActivity_DropsUnknownSides(t *testing.T) {
	fixture := `[{
		"type": "TRADE", "conditionId": "0xc", "asset": "1",
		"side": "MERGE", "size": 10, "price": 0.6, "timestamp": 1700000000
	}]`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(fixture))
	}))
	defer srv.Close()

	trades, err := polymarket.NewClient(srv.URL).FetchActivity(context.Background(), testAddr)
	require.NoError(t, err)
	assert.Empty(t, trades)
}

func TestValidAddress(t *testing.T) {
	assert.True(t, polymarket.ValidAddress(testAddr))
	assert.True(t, polymarket.ValidAddress("0xABCDEF0123456789abcdef0123456789ABCDEF01"))

	assert.False(t, polymarket.ValidAddress(""))
	assert.False(t, polymarket.ValidAddress("0x123"))
	assert.False(t, polymarket.ValidAddress("56687bf447db6ffa42ffe2204a05edaa20f55839ab"))
	assert.False(t, polymarket.ValidAddress("0xZZ687bf447db6ffa42ffe2204a05edaa20f55839"))
}
