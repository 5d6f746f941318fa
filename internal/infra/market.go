package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// MarketQuote is one reference price row from the external commodity feed.
type MarketQuote struct {
	Commodity string          `json:"commodity"`
	Unit      string          `json:"unit"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	QuotedAt  string          `json:"quoted_at"`
}

// MarketFeedClient queries the external market price feed. Lookups are
// best-effort: callers treat a failed quote as "no reference price", never as
// an operation failure. Calls should go through the circuit breaker so a
// downed feed cannot slow down publishing.
type MarketFeedClient struct {
	feedURL    string
	httpClient *http.Client
}

func NewMarketFeedClient(feedURL string) *MarketFeedClient {
	return &MarketFeedClient{
		feedURL:    feedURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Quote fetches the current reference price for a commodity category.
func (c *MarketFeedClient) Quote(ctx context.Context, category string) (*MarketQuote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.feedURL+"/v1/quotes?commodity="+url.QueryEscape(category), nil)
	if err != nil {
		return nil, fmt.Errorf("market: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("market: feed unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("market: no quote for %q", category)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("market: feed returned %d", resp.StatusCode)
	}

	var quote MarketQuote
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return nil, fmt.Errorf("market: decode response: %w", err)
	}
	return &quote, nil
}
