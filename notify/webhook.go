package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"csmoney-watcher/models"
)

// WebhookNotifier posts plain-text alerts to a Discord-style webhook.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// NewWebhookNotifier creates a notifier delivering to the given webhook URL.
func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Notify posts the formatted item. Any 2xx acknowledgment counts as
// delivered; everything else is a delivery error.
func (n *WebhookNotifier) Notify(ctx context.Context, item *models.CanonicalItem) error {
	payload, err := json.Marshal(map[string]string{"content": FormatMessage(item)})
	if err != nil {
		return fmt.Errorf("notify: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("notify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: deliver: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("notify: webhook returned http %d", resp.StatusCode)
	}
	return nil
}

// FormatMessage renders every canonical field except the id, one per line, in
// declaration order.
func FormatMessage(item *models.CanonicalItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", item.Name)
	fmt.Fprintf(&b, "Float: %v\n", item.Float)
	fmt.Fprintf(&b, "Price: %s\n", item.Price)
	fmt.Fprintf(&b, "Seller: %s\n", item.SellerURL)
	if item.Delivery != nil {
		fmt.Fprintf(&b, "Delivery: %s, %s\n", item.Delivery[0], item.Delivery[1])
	}
	for _, st := range item.Stickers {
		fmt.Fprintf(&b, "Sticker: %s (%s)\n", st.Name, st.Price)
	}
	return strings.TrimRight(b.String(), "\n")
}
