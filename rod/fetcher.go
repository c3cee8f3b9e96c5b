// Package rod implements fetching of JavaScript-rendered pages with a
// headless Chrome browser. Sites that build the article body client-side
// return an empty shell to a plain HTTP GET; rendering in a browser first
// avoids translating nothing.
package rod

import (
	"context"

	"github.com/go-rod/rod/lib/proto"

	"github.com/ayoubaydy/tajreba"
)

var _ tajreba.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser
// automation. A single long-lived browser is shared across fetches and
// recycled periodically by the embedded manager.
//
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager *BrowserManager
}

// NewFetcher creates a Fetcher backed by a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...ManagerOption) (*Fetcher, error) {
	manager, err := NewBrowserManager(opts...)
	if err != nil {
		return nil, err
	}
	return &Fetcher{manager: manager}, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browser := f.manager.Browser()
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", tajreba.Errorf(tajreba.EUNAVAILABLE, "opening browser page: %v", err)
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", tajreba.Errorf(tajreba.EUNAVAILABLE, "navigating to %s: %v", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", tajreba.Errorf(tajreba.EUNAVAILABLE, "waiting for %s to load: %v", url, err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", tajreba.Errorf(tajreba.EUNAVAILABLE, "reading HTML of %s: %v", url, err)
	}

	f.manager.PageDone()
	return html, nil
}

// Close releases browser resources.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}
