// Package pdf extracts text from PDF files using tabula.
package pdf

import (
	"path/filepath"
	"strings"

	"github.com/tsawler/tabula"

	"github.com/ayoubaydy/tajreba"
)

// Ensure Extractor implements tajreba.Extractor.
var _ tajreba.Extractor = (*Extractor)(nil)

// Extractor extracts text from PDF files.
type Extractor struct{}

// NewExtractor creates a new PDF extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the PDF at path and returns its text with paragraphs
// joined across line breaks. Extraction warnings are tolerated as long
// as some text came out. Encrypted or damaged files return EINVALID.
func (e *Extractor) Extract(path string) (*tajreba.ExtractResult, error) {
	text, _, err := tabula.Open(path).JoinParagraphs().Text()
	if err != nil {
		return nil, tajreba.Errorf(tajreba.EINVALID, "reading PDF: %v", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, tajreba.Errorf(tajreba.EINVALID, "PDF contains no extractable text")
	}

	name := filepath.Base(path)
	title := strings.TrimSuffix(name, filepath.Ext(name))
	return &tajreba.ExtractResult{Title: title, Text: text}, nil
}
