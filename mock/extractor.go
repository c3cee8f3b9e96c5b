package mock

import (
	"io"

	"github.com/ayoubaydy/tajreba"
)

var (
	_ tajreba.Extractor     = (*Extractor)(nil)
	_ tajreba.PageExtractor = (*PageExtractor)(nil)
	_ tajreba.Exporter      = (*Exporter)(nil)
	_ tajreba.Converter     = (*Converter)(nil)
)

// Extractor is a mock implementation of tajreba.Extractor.
type Extractor struct {
	ExtractFn func(path string) (*tajreba.ExtractResult, error)
}

func (e *Extractor) Extract(path string) (*tajreba.ExtractResult, error) {
	return e.ExtractFn(path)
}

// PageExtractor is a mock implementation of tajreba.PageExtractor.
type PageExtractor struct {
	ExtractPageFn func(html string) (*tajreba.PageResult, error)
}

func (e *PageExtractor) ExtractPage(html string) (*tajreba.PageResult, error) {
	return e.ExtractPageFn(html)
}

// Exporter is a mock implementation of tajreba.Exporter.
type Exporter struct {
	ExportFn func(w io.Writer, text string, opts tajreba.ExportOptions) error
}

func (e *Exporter) Export(w io.Writer, text string, opts tajreba.ExportOptions) error {
	return e.ExportFn(w, text, opts)
}

// Converter is a mock implementation of tajreba.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
