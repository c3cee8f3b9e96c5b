package docx

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"

	"github.com/ayoubaydy/tajreba"
	"github.com/beevik/etree"
)

// Ensure Writer implements tajreba.Exporter.
var _ tajreba.Exporter = (*Writer)(nil)

// Writer produces minimal DOCX files. Each non-blank input line becomes
// one paragraph.
type Writer struct{}

// NewWriter creates a new DOCX writer.
func NewWriter() *Writer {
	return &Writer{}
}

const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// Export writes text as a DOCX package to w.
func (wr *Writer) Export(w io.Writer, text string, opts tajreba.ExportOptions) error {
	if strings.TrimSpace(text) == "" {
		return tajreba.Errorf(tajreba.EINVALID, "nothing to export")
	}
	if opts.FontName == "" {
		opts.FontName = "Calibri"
	}
	if opts.FontSize <= 0 {
		opts.FontSize = 11
	}
	if opts.Alignment == "" {
		opts.Alignment = tajreba.AlignLeft
	}

	zw := zip.NewWriter(w)
	parts := []struct {
		name string
		doc  *etree.Document
	}{
		{"[Content_Types].xml", contentTypesXML()},
		{"_rels/.rels", packageRelsXML()},
		{"word/_rels/document.xml.rels", documentRelsXML()},
		{"word/document.xml", documentXML(text, opts)},
		{"word/styles.xml", stylesXML(opts)},
	}
	for _, part := range parts {
		f, err := zw.Create(part.name)
		if err != nil {
			return fmt.Errorf("creating %s: %w", part.name, err)
		}
		if _, err := part.doc.WriteTo(f); err != nil {
			return fmt.Errorf("writing %s: %w", part.name, err)
		}
	}
	return zw.Close()
}

func newXMLDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	return doc
}

func contentTypesXML() *etree.Document {
	doc := newXMLDocument()
	types := doc.CreateElement("Types")
	types.CreateAttr("xmlns", "http://schemas.openxmlformats.org/package/2006/content-types")

	rels := types.CreateElement("Default")
	rels.CreateAttr("Extension", "rels")
	rels.CreateAttr("ContentType", "application/vnd.openxmlformats-package.relationships+xml")

	xml := types.CreateElement("Default")
	xml.CreateAttr("Extension", "xml")
	xml.CreateAttr("ContentType", "application/xml")

	document := types.CreateElement("Override")
	document.CreateAttr("PartName", "/word/document.xml")
	document.CreateAttr("ContentType", "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml")

	styles := types.CreateElement("Override")
	styles.CreateAttr("PartName", "/word/styles.xml")
	styles.CreateAttr("ContentType", "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml")

	return doc
}

func packageRelsXML() *etree.Document {
	doc := newXMLDocument()
	rels := doc.CreateElement("Relationships")
	rels.CreateAttr("xmlns", "http://schemas.openxmlformats.org/package/2006/relationships")

	rel := rels.CreateElement("Relationship")
	rel.CreateAttr("Id", "rId1")
	rel.CreateAttr("Type", "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument")
	rel.CreateAttr("Target", "word/document.xml")

	return doc
}

// documentRelsXML relates the document part to styles.xml. Without it
// readers ignore the styles part and the font defaults are lost.
func documentRelsXML() *etree.Document {
	doc := newXMLDocument()
	rels := doc.CreateElement("Relationships")
	rels.CreateAttr("xmlns", "http://schemas.openxmlformats.org/package/2006/relationships")

	rel := rels.CreateElement("Relationship")
	rel.CreateAttr("Id", "rId1")
	rel.CreateAttr("Type", "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles")
	rel.CreateAttr("Target", "styles.xml")

	return doc
}

func documentXML(text string, opts tajreba.ExportOptions) *etree.Document {
	doc := newXMLDocument()
	root := doc.CreateElement("w:document")
	root.CreateAttr("xmlns:w", wordNS)
	body := root.CreateElement("w:body")

	rtl := opts.Direction == tajreba.DirectionRTL

	if opts.Title != "" {
		writeParagraph(body, opts.Title, opts, rtl, true)
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		writeParagraph(body, line, opts, rtl, false)
	}

	sectPr := body.CreateElement("w:sectPr")
	if rtl {
		sectPr.CreateElement("w:bidi")
	}

	return doc
}

func writeParagraph(body *etree.Element, text string, opts tajreba.ExportOptions, rtl, title bool) {
	p := body.CreateElement("w:p")

	pPr := p.CreateElement("w:pPr")
	if rtl {
		pPr.CreateElement("w:bidi")
	}
	jc := pPr.CreateElement("w:jc")
	jc.CreateAttr("w:val", jcValue(opts.Alignment))

	r := p.CreateElement("w:r")
	rPr := r.CreateElement("w:rPr")
	if rtl {
		rPr.CreateElement("w:rtl")
	}
	if title {
		rPr.CreateElement("w:b")
		// Font sizes are in half-points.
		sz := rPr.CreateElement("w:sz")
		sz.CreateAttr("w:val", fmt.Sprint((opts.FontSize+4)*2))
	}

	t := r.CreateElement("w:t")
	t.CreateAttr("xml:space", "preserve")
	t.SetText(text)
}

func jcValue(a tajreba.Alignment) string {
	switch a {
	case tajreba.AlignCenter:
		return "center"
	case tajreba.AlignRight:
		return "right"
	case tajreba.AlignJustify:
		return "both"
	default:
		return "left"
	}
}

func stylesXML(opts tajreba.ExportOptions) *etree.Document {
	doc := newXMLDocument()
	root := doc.CreateElement("w:styles")
	root.CreateAttr("xmlns:w", wordNS)

	defaults := root.CreateElement("w:docDefaults")
	rPrDefault := defaults.CreateElement("w:rPrDefault")
	rPr := rPrDefault.CreateElement("w:rPr")

	fonts := rPr.CreateElement("w:rFonts")
	fonts.CreateAttr("w:ascii", opts.FontName)
	fonts.CreateAttr("w:hAnsi", opts.FontName)
	fonts.CreateAttr("w:cs", opts.FontName)

	sz := rPr.CreateElement("w:sz")
	sz.CreateAttr("w:val", fmt.Sprint(opts.FontSize*2))
	szCs := rPr.CreateElement("w:szCs")
	szCs.CreateAttr("w:val", fmt.Sprint(opts.FontSize*2))

	return doc
}
