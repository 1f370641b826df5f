package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// MinContentLength is the minimum extracted text length to consider a
// plain HTTP fetch successful. Shorter content usually means a
// JavaScript-rendered page that needs a real browser.
const MinContentLength = 500

// ShouldUseBrowser reports whether the extracted text is too short to
// trust, indicating an SPA that renders client-side.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// RenderWithBrowser loads a page in headless Chrome and returns the
// rendered HTML. Requires Chrome/Chromium on the host.
func RenderWithBrowser(ctx context.Context, url string, timeout time.Duration) (string, error) {
	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		// Give client-side rendering a moment to fill the page in.
		chromedp.Sleep(3*time.Second),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// Dismiss common cookie banners; absence is fine.
			_ = chromedp.Click(`button[id*="accept"], button[class*="accept"]`, chromedp.NodeVisible).Do(ctx)
			return nil
		}),
		chromedp.Sleep(1*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}
	return html, nil
}

// FetchText fetches a URL and extracts its main text, falling back to a
// headless browser when the static HTML yields too little content.
func FetchText(ctx context.Context, url string, selectors []string, allowBrowser bool) (string, error) {
	result, err := FetchURL(ctx, url, nil)
	if err != nil {
		return "", err
	}

	text, err := ExtractMainText(result.HTML, selectors)
	if err != nil {
		return "", err
	}
	if !ShouldUseBrowser(text) || !allowBrowser {
		return text, nil
	}

	html, err := RenderWithBrowser(ctx, url, DefaultTimeout)
	if err != nil {
		// Rendered fallback failed; the thin static text is still
		// better than nothing.
		return text, nil
	}
	rendered, err := ExtractMainText(html, selectors)
	if err != nil || len(rendered) < len(text) {
		return text, nil
	}
	return rendered, nil
}
