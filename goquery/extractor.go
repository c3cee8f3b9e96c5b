// Package goquery extracts readable content from HTML using CSS selectors.
package goquery

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ayoubaydy/tajreba"
)

// Ensure Extractor implements tajreba.Extractor and tajreba.PageExtractor.
var (
	_ tajreba.Extractor     = (*Extractor)(nil)
	_ tajreba.PageExtractor = (*Extractor)(nil)
)

// contentSelectors are tried in order; the first non-empty match wins.
var contentSelectors = []string{
	"article",
	"main",
	"[role=main]",
	"#content",
	".content",
	"body",
}

// boilerplateSelector matches elements stripped before text extraction.
const boilerplateSelector = "script, style, noscript, nav, aside, header, footer, form, iframe"

// Extractor pulls the main content out of HTML pages and files.
type Extractor struct{}

// NewExtractor creates a new HTML extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the HTML file at path and returns its title and main text.
func (e *Extractor) Extract(path string) (*tajreba.ExtractResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, tajreba.Errorf(tajreba.ENOTFOUND, "file %q not found", path)
		}
		return nil, err
	}

	res, err := e.ExtractPage(string(data))
	if err != nil {
		return nil, err
	}

	text := htmlToText(res.ContentHTML)
	if text == "" {
		return nil, tajreba.Errorf(tajreba.EINVALID, "page contains no text")
	}

	title := res.Title
	if title == "" {
		name := filepath.Base(path)
		title = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return &tajreba.ExtractResult{Title: title, Text: text}, nil
}

// ExtractPage parses HTML and returns the page title and the cleaned
// content region with boilerplate elements removed.
func (e *Extractor) ExtractPage(html string) (*tajreba.PageResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, tajreba.Errorf(tajreba.EINVALID, "failed to parse HTML: %v", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	doc.Find(boilerplateSelector).Remove()

	var content *goquery.Selection
	for _, selector := range contentSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() > 0 && strings.TrimSpace(sel.Text()) != "" {
			content = sel
			break
		}
	}
	if content == nil {
		return nil, tajreba.Errorf(tajreba.EINVALID, "page contains no content")
	}

	contentHTML, err := goquery.OuterHtml(content)
	if err != nil {
		return nil, tajreba.Errorf(tajreba.EINTERNAL, "rendering content: %v", err)
	}

	return &tajreba.PageResult{Title: title, ContentHTML: contentHTML}, nil
}

// htmlToText flattens a cleaned HTML fragment into plain text, one block
// element per paragraph.
func htmlToText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	var parts []string
	doc.Find("h1, h2, h3, h4, h5, h6, p, li, pre, blockquote").Each(func(_ int, s *goquery.Selection) {
		// Skip containers whose text is covered by nested block elements.
		if s.Find("p, li").Length() > 0 {
			return
		}
		if text := strings.TrimSpace(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	if len(parts) == 0 {
		return strings.TrimSpace(doc.Text())
	}
	return strings.Join(parts, "\n\n")
}
