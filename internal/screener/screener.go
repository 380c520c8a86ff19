// Package screener queries the Financial Modeling Prep "market actives" list,
// the external ranking that decides which symbols the trader monitors.
package screener

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"actives_trader/internal/fetch"
)

const (
	defaultBaseURL = "https://financialmodelingprep.com"
	activesPath    = "/api/v3/stock_market/actives"
)

// Client is a thin HTTP client for the screener collaborator.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	policy     fetch.Policy
}

// New returns a screener client. The policy bounds the retry behavior: an
// HTTP 429 gets one cooldown retry, anything else gives up immediately.
func New(apiKey string, policy fetch.Policy) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		policy:     policy,
	}
}

// active mirrors the fields we need from the FMP response.
type active struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// TopActives returns up to n symbols ranked by the collaborator. No local
// re-ranking is performed; we take the list in the order it arrives,
// dropping duplicates.
func (c *Client) TopActives(ctx context.Context, n int) ([]string, error) {
	return fetch.Do(ctx, "high-volume actives", c.policy, func() ([]string, error) {
		return c.fetchActives(ctx, n)
	})
}

func (c *Client) fetchActives(ctx context.Context, n int) ([]string, error) {
	endpoint := c.baseURL + activesPath + "?apikey=" + url.QueryEscape(c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Report the path only; the URL carries the API key.
		return nil, &fetch.StatusError{Status: resp.StatusCode, URL: c.baseURL + activesPath}
	}

	var actives []active
	if err := json.NewDecoder(resp.Body).Decode(&actives); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var symbols []string
	for _, a := range actives {
		if a.Symbol == "" || seen[a.Symbol] {
			continue
		}
		seen[a.Symbol] = true
		symbols = append(symbols, a.Symbol)
		if len(symbols) >= n {
			break
		}
	}
	return symbols, nil
}
