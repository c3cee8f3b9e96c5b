// Package epub extracts text from EPUB publications.
package epub

import (
	"archive/zip"
	"io"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ayoubaydy/tajreba"
	"github.com/beevik/etree"
)

// Ensure Extractor implements tajreba.Extractor.
var _ tajreba.Extractor = (*Extractor)(nil)

// Extractor extracts text from EPUB files by walking the OPF spine.
type Extractor struct{}

// NewExtractor creates a new EPUB extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the publication at path and returns its title and the
// concatenated text of all spine chapters in reading order. DRM-protected
// books are rejected.
func (e *Extractor) Extract(filename string) (*tajreba.ExtractResult, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, tajreba.Errorf(tajreba.EINVALID, "not a valid EPUB file: %v", err)
	}
	defer zr.Close()

	members := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		members[f.Name] = f
	}

	if _, ok := members["META-INF/encryption.xml"]; ok {
		return nil, tajreba.Errorf(tajreba.EINVALID, "EPUB is DRM-protected and cannot be read")
	}

	opfPath, err := findOPFPath(members)
	if err != nil {
		return nil, err
	}

	title, chapters, err := parseOPF(members, opfPath)
	if err != nil {
		return nil, err
	}

	var parts []string
	for _, chapter := range chapters {
		f, ok := members[chapter]
		if !ok {
			continue
		}
		text, err := extractChapterText(f)
		if err != nil {
			return nil, err
		}
		if text != "" {
			parts = append(parts, text)
		}
	}

	text := strings.Join(parts, "\n\n")
	if text == "" {
		return nil, tajreba.Errorf(tajreba.EINVALID, "EPUB contains no text")
	}

	if title == "" {
		base := path.Base(filename)
		title = strings.TrimSuffix(base, path.Ext(base))
	}
	return &tajreba.ExtractResult{Title: title, Text: text}, nil
}

// findOPFPath locates the package document via META-INF/container.xml.
func findOPFPath(members map[string]*zip.File) (string, error) {
	container, ok := members["META-INF/container.xml"]
	if !ok {
		return "", tajreba.Errorf(tajreba.EINVALID, "not a valid EPUB file: missing META-INF/container.xml")
	}

	doc, err := readXML(container)
	if err != nil {
		return "", err
	}
	root := doc.Root()
	if root == nil {
		return "", tajreba.Errorf(tajreba.EINVALID, "empty container.xml")
	}

	for _, rootfiles := range root.SelectElements("rootfiles") {
		for _, rf := range rootfiles.SelectElements("rootfile") {
			if fullPath := rf.SelectAttrValue("full-path", ""); fullPath != "" {
				return fullPath, nil
			}
		}
	}
	return "", tajreba.Errorf(tajreba.EINVALID, "container.xml names no package document")
}

// parseOPF reads the package document and returns the title and the spine
// chapter paths, resolved relative to the OPF location.
func parseOPF(members map[string]*zip.File, opfPath string) (string, []string, error) {
	opf, ok := members[opfPath]
	if !ok {
		return "", nil, tajreba.Errorf(tajreba.EINVALID, "package document %q not found", opfPath)
	}

	doc, err := readXML(opf)
	if err != nil {
		return "", nil, err
	}
	root := doc.Root()
	if root == nil {
		return "", nil, tajreba.Errorf(tajreba.EINVALID, "empty package document")
	}

	var title string
	if meta := root.SelectElement("metadata"); meta != nil {
		if t := meta.SelectElement("title"); t != nil {
			title = strings.TrimSpace(t.Text())
		}
	}

	// Map manifest item IDs to hrefs.
	hrefs := make(map[string]string)
	if manifest := root.SelectElement("manifest"); manifest != nil {
		for _, item := range manifest.SelectElements("item") {
			id := item.SelectAttrValue("id", "")
			href := item.SelectAttrValue("href", "")
			if id != "" && href != "" {
				hrefs[id] = href
			}
		}
	}

	spine := root.SelectElement("spine")
	if spine == nil {
		return "", nil, tajreba.Errorf(tajreba.EINVALID, "package document has no spine")
	}

	opfDir := path.Dir(opfPath)
	var chapters []string
	for _, itemref := range spine.SelectElements("itemref") {
		href, ok := hrefs[itemref.SelectAttrValue("idref", "")]
		if !ok {
			continue
		}
		// Drop fragments, keep only the file path.
		if i := strings.IndexByte(href, '#'); i >= 0 {
			href = href[:i]
		}
		chapters = append(chapters, path.Join(opfDir, href))
	}
	return title, chapters, nil
}

// extractChapterText parses a chapter XHTML file and returns its visible
// text, paragraphs separated by blank lines.
func extractChapterText(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	doc, err := goquery.NewDocumentFromReader(rc)
	if err != nil {
		return "", tajreba.Errorf(tajreba.EINVALID, "parsing chapter %q: %v", f.Name, err)
	}

	doc.Find("script, style").Remove()

	var parts []string
	doc.Find("h1, h2, h3, h4, h5, h6, p, li").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	if len(parts) == 0 {
		// Fall back to the whole body for chapters without block markup.
		if text := strings.TrimSpace(doc.Find("body").Text()); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

func readXML(f *zip.File) (*etree.Document, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, tajreba.Errorf(tajreba.EINVALID, "parsing %s: %v", f.Name, err)
	}
	return doc, nil
}
