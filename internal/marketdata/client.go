package marketdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
	"github.com/vk82313/crypto-arbitrage-bot/pkg/types"
	"go.uber.org/zap"
)

// TickerQuotes is the top-of-book quote block of one instrument.
// The venue serialises prices and sizes as strings.
type TickerQuotes struct {
	BestBid string `json:"best_bid"`
	BestAsk string `json:"best_ask"`
	BidSize string `json:"bid_size"`
	AskSize string `json:"ask_size"`
}

// Ticker is one instrument as returned by the tickers endpoint.
type Ticker struct {
	Symbol string       `json:"symbol"`
	Quotes TickerQuotes `json:"quotes"`
}

type tickersResponse struct {
	Result []Ticker `json:"result"`
}

// Client is an HTTP client for the options market-data API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new market-data client.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// FetchTickers fetches all option tickers for one underlying asset,
// across every listed expiry. Failures are typed as transient: the
// caller recovers by serving its last cached snapshot.
func (c *Client) FetchTickers(ctx context.Context, asset string) ([]Ticker, error) {
	endpoint := fmt.Sprintf("%s/v2/tickers", c.baseURL)

	params := url.Values{}
	params.Add("contract_types", "call_options,put_options")
	params.Add("underlying_asset_symbols", asset)

	requestURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "crypto-arbitrage-bot/1.0")

	c.logger.Debug("fetching-tickers",
		zap.String("url", requestURL),
		zap.String("asset", asset))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &types.TransientFetchError{Op: "fetch tickers", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &types.TransientFetchError{
			Op:  "fetch tickers",
			Err: fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &types.TransientFetchError{Op: "read tickers body", Err: err}
	}

	var tickers tickersResponse
	err = json.Unmarshal(body, &tickers)
	if err != nil {
		return nil, &types.TransientFetchError{Op: "unmarshal tickers", Err: err}
	}

	c.logger.Debug("fetched-tickers",
		zap.String("asset", asset),
		zap.Int("count", len(tickers.Result)))

	return tickers.Result, nil
}

// FetchExpiryCodes returns the distinct expiry codes listed for an asset,
// derived from the instrument symbols of the tickers feed. Symbols that do
// not parse are skipped without failing the call.
func (c *Client) FetchExpiryCodes(ctx context.Context, asset string) ([]string, error) {
	tickers, err := c.FetchTickers(ctx, asset)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	codes := make([]string, 0, 4)
	for _, t := range tickers {
		parsed, perr := types.ParseSymbol(t.Symbol)
		if perr != nil || parsed.Asset != asset {
			continue
		}
		if _, ok := seen[parsed.ExpiryCode]; ok {
			continue
		}
		seen[parsed.ExpiryCode] = struct{}{}
		codes = append(codes, parsed.ExpiryCode)
	}

	return codes, nil
}
