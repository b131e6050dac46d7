// Package quotes wraps the external market data provider.
package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/papertrade/papertrade/internal/config"
	"github.com/papertrade/papertrade/internal/models"
	"github.com/papertrade/papertrade/internal/trading"
)

// Client fetches real-time quotes from an EODHD-style REST API.
// One outbound lookup per call; no retries.
type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

// NewClient creates a new client targeting the given quote provider URL.
func NewClient(cfg config.QuotesConfig) *Client {
	return &Client{
		baseURL:    cfg.URL,
		apiToken:   cfg.APIToken,
		httpClient: &http.Client{Timeout: cfg.GetTimeout()},
	}
}

// NewClientWithURL creates a client with the default timeout. Used by tests.
func NewClientWithURL(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// quotePayload mirrors the provider's real-time endpoint response.
type quotePayload struct {
	Code  string  `json:"code"`
	Name  string  `json:"name"`
	Close float64 `json:"close"`
}

// GetQuote retrieves the current quote for a ticker.
// GET /real-time/{ticker}?fmt=json -> { code, name, close }
// A 404, or a response missing any required field, yields
// trading.ErrTickerNotFound.
func (c *Client) GetQuote(ctx context.Context, ticker string) (*models.Quote, error) {
	addr := fmt.Sprintf("%s/real-time/%s?fmt=json", c.baseURL, url.PathEscape(ticker))
	if c.apiToken != "" {
		addr += "&api_token=" + url.QueryEscape(c.apiToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach quote provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", trading.ErrTickerNotFound, ticker)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote provider returned %d: %s", resp.StatusCode, string(body))
	}

	var payload quotePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	// The provider reports unknown tickers with empty fields rather than
	// an error status. Treat any missing required field as no data.
	if payload.Code == "" || payload.Name == "" || payload.Close == 0 {
		return nil, fmt.Errorf("%w: %s", trading.ErrTickerNotFound, ticker)
	}

	return &models.Quote{
		Symbol: payload.Code,
		Name:   payload.Name,
		Price:  payload.Close,
	}, nil
}
