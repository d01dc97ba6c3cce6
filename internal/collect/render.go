package collect

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// Renderer loads pages in a headless Chrome so that text inserted by
// JavaScript is collected too. Each page gets its own tab in one browser.
type Renderer struct {
	browser context.Context
	cancel  func()
	timeout time.Duration
}

// NewRenderer starts a headless browser. Close releases it.
func NewRenderer(ctx context.Context, userAgent string, timeout time.Duration) (*Renderer, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.UserAgent(userAgent))
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browser, cancelBrowser := chromedp.NewContext(allocCtx)

	// Run with no actions starts the browser.
	if err := chromedp.Run(browser); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("start browser: %w", err)
	}
	return &Renderer{
		browser: browser,
		cancel: func() {
			cancelBrowser()
			cancelAlloc()
		},
		timeout: timeout,
	}, nil
}

// Render returns the DOM of url after scripts have run, serialized as HTML.
func (r *Renderer) Render(ctx context.Context, url string) (string, error) {
	tab, cancelTab := chromedp.NewContext(r.browser)
	defer cancelTab()
	tab, cancelTimeout := context.WithTimeout(tab, r.timeout)
	defer cancelTimeout()

	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	var html string
	err := chromedp.Run(tab,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", url, err)
	}
	return html, nil
}

// Close shuts the browser down.
func (r *Renderer) Close() {
	r.cancel()
}
