package tajreba

import "context"

// Fetcher retrieves HTML from URLs so web pages can be translated directly.
// Implementations may use browser automation to handle JavaScript-rendered
// content.
type Fetcher interface {
	// Fetch retrieves the page at url and returns its HTML.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// PageExtractor extracts the main content from a fetched web page,
// removing boilerplate (nav, footer, sidebar, ads).
type PageExtractor interface {
	// ExtractPage processes raw HTML and returns the title and the main
	// content as clean HTML.
	ExtractPage(html string) (*PageResult, error)
}

// PageResult holds extracted web page content.
type PageResult struct {
	Title       string
	ContentHTML string
}
