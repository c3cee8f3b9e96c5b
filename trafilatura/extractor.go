// Package trafilatura extracts main content from web pages.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"

	"github.com/ayoubaydy/tajreba"
)

// Ensure Extractor implements tajreba.PageExtractor at compile time.
var _ tajreba.PageExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractPage processes raw HTML and returns the page title and the main
// content region, with navigation and other boilerplate removed.
func (e *Extractor) ExtractPage(rawHTML string) (*tajreba.PageResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, tajreba.Errorf(tajreba.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, tajreba.Errorf(tajreba.EINVALID, "extracting content: %v", err)
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}
	if contentHTML == "" {
		return nil, tajreba.Errorf(tajreba.EINVALID, "page contains no content")
	}

	return &tajreba.PageResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
