package fs

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ayoubaydy/tajreba"
)

// Extractor reads plain-text files.
type Extractor struct{}

var _ tajreba.Extractor = (*Extractor)(nil)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Extract reads path as UTF-8 text, stripping a leading BOM and
// normalizing line endings. The title is the file name without extension.
func (e *Extractor) Extract(path string) (*tajreba.ExtractResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, tajreba.Errorf(tajreba.ENOTFOUND, "file %q not found", path)
		}
		return nil, err
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, tajreba.Errorf(tajreba.EINVALID, "file %q is not valid UTF-8 text", path)
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, tajreba.Errorf(tajreba.EINVALID, "file %q contains no text", path)
	}

	name := filepath.Base(path)
	title := strings.TrimSuffix(name, filepath.Ext(name))
	return &tajreba.ExtractResult{Title: title, Text: text}, nil
}
