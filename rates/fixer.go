package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultFixerURL = "http://data.fixer.io/api/latest"

// FixerClient fetches the USD/INR pair from fixer.io.
type FixerClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewFixerClient creates a client keyed with the given access credential.
func NewFixerClient(apiKey string) *FixerClient {
	return &FixerClient{
		apiKey:  apiKey,
		baseURL: defaultFixerURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// FetchRate returns how many USD one INR buys (USD/INR ratio).
func (c *FixerClient) FetchRate(ctx context.Context) (float64, error) {
	u := c.baseURL + "?" + url.Values{
		"access_key": {c.apiKey},
		"symbols":    {"USD,INR"},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("fixer: build request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fixer: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return 0, fmt.Errorf("fixer: http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("fixer: read response: %w", err)
	}

	var out struct {
		Rates struct {
			USD float64 `json:"USD"`
			INR float64 `json:"INR"`
		} `json:"rates"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return 0, fmt.Errorf("fixer: decode: %w", err)
	}
	if out.Rates.USD == 0 || out.Rates.INR == 0 {
		return 0, fmt.Errorf("fixer: response missing USD/INR rates")
	}
	return out.Rates.USD / out.Rates.INR, nil
}
