// Package csmoney queries the cs.money sell-orders endpoint.
package csmoney

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"csmoney-watcher/models"
	"csmoney-watcher/utils"
)

const (
	defaultBaseURL = "https://cs.money/1.0/market/sell-orders"
	fetchLimit     = 60
)

// Client is the transport used to reach the marketplace. The endpoint sits
// behind bot detection, so the transport must be swappable for one that can
// pass browser challenges.
type Client interface {
	Get(ctx context.Context, url string) (status int, body []byte, err error)
}

// Fetcher issues one sell-orders query per search spec.
type Fetcher struct {
	client  Client
	logger  *utils.Logger
	timeout time.Duration
	baseURL string
}

// NewFetcher creates a Fetcher over the given transport. Each fetch is
// bounded by timeout.
func NewFetcher(client Client, logger *utils.Logger, timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:  client,
		logger:  logger,
		timeout: timeout,
		baseURL: defaultBaseURL,
	}
}

// Fetch returns the raw sell orders matching spec. maxPriceUSD is the spec's
// INR price ceiling already converted into the endpoint's pricing currency.
func (f *Fetcher) Fetch(ctx context.Context, spec models.SearchSpec, maxPriceUSD float64) ([]*models.RawListing, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("limit", strconv.Itoa(fetchLimit))
	q.Set("maxFloat", formatParam(spec.MaxFloat))
	q.Set("maxPrice", formatParam(maxPriceUSD))
	q.Set("name", spec.Name)
	for _, quality := range spec.Qualities {
		q.Add("quality", quality)
	}

	status, body, err := f.client.Get(ctx, f.baseURL+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("csmoney: fetch %q: %w", spec.Name, err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("csmoney: fetch %q: http %d", spec.Name, status)
	}

	var out struct {
		Items []*models.RawListing `json:"items"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("csmoney: decode %q response: %w", spec.Name, err)
	}

	f.logger.Debug("[csmoney] %q returned %d sell orders", spec.Name, len(out.Items))
	return out.Items, nil
}

func formatParam(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
