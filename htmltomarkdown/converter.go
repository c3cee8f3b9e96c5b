// Package htmltomarkdown converts HTML content to Markdown suitable as
// translation input.
package htmltomarkdown

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/ayoubaydy/tajreba"
)

// Ensure Converter implements tajreba.Converter at compile time.
var _ tajreba.Converter = (*Converter)(nil)

var (
	imageRef   = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	blankLines = regexp.MustCompile(`\n{3,}`)
)

// Converter wraps html-to-markdown to convert HTML to Markdown. Image
// references are dropped and runs of blank lines collapsed, since
// neither carries translatable text and both inflate the prompt sent
// to the model.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", tajreba.Errorf(tajreba.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", err
	}

	result = imageRef.ReplaceAllString(result, "")
	result = blankLines.ReplaceAllString(result, "\n\n")

	return strings.TrimSpace(result), nil
}
