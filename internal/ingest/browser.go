package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// BrowserGetter renders sheets in headless Chrome. Use it for published pages
// that build their tables with JavaScript.
type BrowserGetter struct {
	timeout time.Duration

	allocCtx context.Context
	cancel   context.CancelFunc
}

// NewBrowserGetter starts a Chrome allocator. Call Close to release it.
func NewBrowserGetter(timeout time.Duration) *BrowserGetter {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(UserAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &BrowserGetter{
		timeout:  timeout,
		allocCtx: allocCtx,
		cancel:   cancel,
	}
}

// Close releases the browser.
func (b *BrowserGetter) Close() {
	if b.cancel != nil {
		b.cancel()
	}
}

// Get implements Getter, returning the rendered page HTML.
func (b *BrowserGetter) Get(ctx context.Context, url string) (string, error) {
	browserCtx, cancel := chromedp.NewContext(b.allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, b.timeout)
	defer cancel()

	// Stop the browser tab when the caller gives up.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady(`table`, chromedp.ByQuery),
		chromedp.OuterHTML(`html`, &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("chromedp error: %w", err)
	}
	if html == "" {
		return "", fmt.Errorf("empty HTML content returned for %s", url)
	}
	return html, nil
}
