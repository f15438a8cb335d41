package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vk82313/crypto-arbitrage-bot/pkg/types"
	"go.uber.org/zap"
)

const tickersPayload = `{
	"result": [
		{"symbol": "C-ETH-3500-310125", "quotes": {"best_bid": "1.40", "best_ask": "1.50", "bid_size": "25", "ask_size": "12"}},
		{"symbol": "P-ETH-3500-310125", "quotes": {"best_bid": "2.00", "best_ask": "2.10", "bid_size": "8", "ask_size": "30"}},
		{"symbol": "C-ETH-3500-010225", "quotes": {"best_bid": "3.00", "best_ask": "3.10", "bid_size": "5", "ask_size": "5"}},
		{"symbol": "MARK:C-ETH-3500", "quotes": {"best_bid": "1.00", "best_ask": "1.10", "bid_size": "1", "ask_size": "1"}}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger, _ := zap.NewDevelopment()
	return NewClient(server.URL, logger), server
}

func TestFetchTickers(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/tickers" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(tickersPayload))
	})

	tickers, err := client.FetchTickers(context.Background(), "ETH")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tickers) != 4 {
		t.Fatalf("tickers: got %d, want 4", len(tickers))
	}
	if tickers[0].Symbol != "C-ETH-3500-310125" {
		t.Errorf("first symbol: got %s", tickers[0].Symbol)
	}
	if tickers[0].Quotes.BestBid != "1.40" || tickers[0].Quotes.AskSize != "12" {
		t.Errorf("quote block: %+v", tickers[0].Quotes)
	}

	for _, fragment := range []string{"contract_types=", "underlying_asset_symbols=ETH", "call_options"} {
		if !strings.Contains(gotQuery, fragment) {
			t.Errorf("query %q missing %q", gotQuery, fragment)
		}
	}
}

func TestFetchTickersHTTPErrorIsTransient(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	})

	_, err := client.FetchTickers(context.Background(), "ETH")
	if err == nil {
		t.Fatal("expected error on 503")
	}
	if !types.IsTransientFetch(err) {
		t.Errorf("expected transient fetch error, got %T: %v", err, err)
	}
}

func TestFetchTickersBadJSONIsTransient(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	})

	_, err := client.FetchTickers(context.Background(), "ETH")
	if !types.IsTransientFetch(err) {
		t.Errorf("expected transient fetch error, got %v", err)
	}
}

func TestFetchTickersConnectionRefusedIsTransient(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	client := NewClient("http://127.0.0.1:1", logger)

	_, err := client.FetchTickers(context.Background(), "ETH")
	if !types.IsTransientFetch(err) {
		t.Errorf("expected transient fetch error, got %v", err)
	}
}

func TestFetchExpiryCodes(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(tickersPayload))
	})

	codes, err := client.FetchExpiryCodes(context.Background(), "ETH")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Distinct codes, unparseable symbols skipped.
	if len(codes) != 2 {
		t.Fatalf("codes: got %v, want 2 distinct", codes)
	}
	want := map[string]bool{"310125": true, "010225": true}
	for _, code := range codes {
		if !want[code] {
			t.Errorf("unexpected code %s", code)
		}
	}
}

