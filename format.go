package tajreba

import (
	"archive/zip"
	"bytes"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Format represents a supported source document format.
type Format string

// Supported source formats.
const (
	FormatUnknown Format = ""
	FormatDOCX    Format = "docx"
	FormatPDF     Format = "pdf"
	FormatEPUB    Format = "epub"
	FormatHTML    Format = "html"
	FormatText    Format = "txt"
)

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	if f == FormatUnknown {
		return ""
	}
	return "." + string(f)
}

// DetectFormat determines the document format from the filename extension,
// falling back to content sniffing when the extension is missing or unknown.
// Content that sniffs as none of the container formats but reads as text is
// treated as plain text. data may be nil, in which case only the extension
// is consulted.
func DetectFormat(name string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".docx":
		return FormatDOCX
	case ".pdf":
		return FormatPDF
	case ".epub":
		return FormatEPUB
	case ".html", ".htm", ".xhtml":
		return FormatHTML
	case ".txt", ".md", ".markdown":
		return FormatText
	}
	if f := detectFromMagic(data); f != FormatUnknown {
		return f
	}
	if looksLikeText(data) {
		return FormatText
	}
	return FormatUnknown
}

// looksLikeText reports whether data reads as plain text: valid UTF-8 with
// no NUL bytes.
func looksLikeText(data []byte) bool {
	return len(data) > 0 && utf8.Valid(data) && !bytes.ContainsRune(data, 0)
}

// detectFromMagic checks content magic bytes. ZIP archives are opened to
// distinguish DOCX from EPUB by their member names.
func detectFromMagic(data []byte) Format {
	if len(data) < 4 {
		return FormatUnknown
	}

	// PDF magic: %PDF
	if bytes.HasPrefix(data, []byte("%PDF")) {
		return FormatPDF
	}

	// ZIP magic: PK\x03\x04 (DOCX and EPUB are both ZIP containers)
	if data[0] == 0x50 && data[1] == 0x4B && data[2] == 0x03 && data[3] == 0x04 {
		return detectZIPFormat(data)
	}

	if detectHTMLMagic(data) {
		return FormatHTML
	}

	return FormatUnknown
}

// detectZIPFormat inspects a ZIP archive to determine if it's DOCX or EPUB.
func detectZIPFormat(data []byte) Format {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return FormatUnknown
	}

	for _, f := range zr.File {
		switch f.Name {
		case "word/document.xml":
			return FormatDOCX
		case "META-INF/container.xml":
			return FormatEPUB
		case "mimetype":
			rc, err := f.Open()
			if err != nil {
				continue
			}
			buf := make([]byte, 64)
			n, _ := rc.Read(buf)
			rc.Close()
			if strings.Contains(string(buf[:n]), "application/epub+zip") {
				return FormatEPUB
			}
		}
	}

	return FormatUnknown
}

// detectHTMLMagic checks if the data looks like HTML content.
func detectHTMLMagic(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return false
	}

	upper := strings.ToUpper(string(trimmed[:min(512, len(trimmed))]))
	switch {
	case strings.HasPrefix(upper, "<!DOCTYPE HTML"):
		return true
	case strings.HasPrefix(upper, "<HTML"):
		return true
	case strings.HasPrefix(upper, "<?XML") && strings.Contains(upper, "<HTML"):
		return true
	}

	return false
}
