// Package docx reads and writes Office Open XML word processing documents.
package docx

import (
	"archive/zip"
	"path/filepath"
	"strings"

	"github.com/ayoubaydy/tajreba"
	"github.com/beevik/etree"
)

// Ensure Extractor implements tajreba.Extractor.
var _ tajreba.Extractor = (*Extractor)(nil)

// Extractor extracts text from DOCX files.
type Extractor struct{}

// NewExtractor creates a new DOCX extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the document at path and returns its title and text.
// Paragraphs are separated by blank lines. The title comes from the
// document's core properties, falling back to the file name.
func (e *Extractor) Extract(path string) (*tajreba.ExtractResult, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, tajreba.Errorf(tajreba.EINVALID, "not a valid DOCX file: %v", err)
	}
	defer zr.Close()

	var docFile, coreFile *zip.File
	for _, f := range zr.File {
		switch f.Name {
		case "word/document.xml":
			docFile = f
		case "docProps/core.xml":
			coreFile = f
		}
	}
	if docFile == nil {
		return nil, tajreba.Errorf(tajreba.EINVALID, "not a valid DOCX file: missing word/document.xml")
	}

	text, err := extractDocumentText(docFile)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, tajreba.Errorf(tajreba.EINVALID, "document contains no text")
	}

	title := ""
	if coreFile != nil {
		title = extractCoreTitle(coreFile)
	}
	if title == "" {
		name := filepath.Base(path)
		title = strings.TrimSuffix(name, filepath.Ext(name))
	}

	return &tajreba.ExtractResult{Title: title, Text: text}, nil
}

// extractDocumentText parses word/document.xml and joins paragraph text
// with blank lines.
func extractDocumentText(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(rc); err != nil {
		return "", tajreba.Errorf(tajreba.EINVALID, "parsing document.xml: %v", err)
	}

	root := doc.Root()
	if root == nil {
		return "", tajreba.Errorf(tajreba.EINVALID, "empty document.xml")
	}
	body := root.SelectElement("body")
	if body == nil {
		return "", tajreba.Errorf(tajreba.EINVALID, "document.xml has no body")
	}

	var paragraphs []string
	for _, p := range body.SelectElements("p") {
		var sb strings.Builder
		collectRunText(p, &sb)
		if text := strings.TrimSpace(sb.String()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}

	return strings.Join(paragraphs, "\n\n"), nil
}

// collectRunText walks a paragraph element in document order, gathering
// text runs, tabs and line breaks. Runs can be nested inside hyperlinks
// and other containers, so the walk is recursive.
func collectRunText(el *etree.Element, sb *strings.Builder) {
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "t":
			sb.WriteString(child.Text())
		case "tab":
			sb.WriteString("\t")
		case "br", "cr":
			sb.WriteString("\n")
		default:
			collectRunText(child, sb)
		}
	}
}

// extractCoreTitle reads the dc:title from docProps/core.xml.
func extractCoreTitle(f *zip.File) string {
	rc, err := f.Open()
	if err != nil {
		return ""
	}
	defer rc.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(rc); err != nil {
		return ""
	}
	root := doc.Root()
	if root == nil {
		return ""
	}
	title := root.SelectElement("title")
	if title == nil {
		return ""
	}
	return strings.TrimSpace(title.Text())
}
