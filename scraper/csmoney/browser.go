package csmoney

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"
)

// BrowserClient fetches through headless Chrome so that responses gated by
// bot-detection challenges still come back as plain JSON.
type BrowserClient struct {
	allocCtx context.Context
	cancel   context.CancelFunc
}

// NewBrowserClient starts a shared browser allocator. Close must be called
// when the client is no longer needed.
func NewBrowserClient() *BrowserClient {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
	)
	if bin := findChromeBinary(); bin != "" {
		opts = append(opts, chromedp.ExecPath(bin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	// Suppress chromedp log noise
	silentCtx, cancelSilent := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	return &BrowserClient{
		allocCtx: silentCtx,
		cancel: func() {
			cancelSilent()
			cancelAlloc()
		},
	}
}

// Get navigates to rawURL in a fresh tab and reads the rendered body text.
// Chrome renders a bare JSON response as page text, so a body that parses is
// the endpoint's answer; a challenge page surfaces as a decode error at the
// caller. The status is reported as 200 because navigation either renders or
// fails outright.
func (c *BrowserClient) Get(ctx context.Context, rawURL string) (int, []byte, error) {
	tabCtx, cancel := chromedp.NewContext(c.allocCtx)
	defer cancel()

	if deadline, ok := ctx.Deadline(); ok {
		var cancelTimeout context.CancelFunc
		tabCtx, cancelTimeout = context.WithDeadline(tabCtx, deadline)
		defer cancelTimeout()
	}

	var text string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(rawURL),
		chromedp.Sleep(2*time.Second),
		chromedp.Evaluate(`document.body ? document.body.innerText : ''`, &text),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("browser: fetch: %w", err)
	}
	return http.StatusOK, []byte(text), nil
}

// Close shuts down the shared browser allocator.
func (c *BrowserClient) Close() {
	c.cancel()
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
