package tajreba_test

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/ayoubaydy/tajreba"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat_ByExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want tajreba.Format
	}{
		{"report.docx", tajreba.FormatDOCX},
		{"book.PDF", tajreba.FormatPDF},
		{"novel.epub", tajreba.FormatEPUB},
		{"page.html", tajreba.FormatHTML},
		{"page.htm", tajreba.FormatHTML},
		{"notes.txt", tajreba.FormatText},
		{"readme.md", tajreba.FormatText},
		{"archive.zip", tajreba.FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tajreba.DetectFormat(tt.name, nil))
		})
	}
}

func TestDetectFormat_ByMagic(t *testing.T) {
	t.Parallel()

	t.Run("pdf magic", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, tajreba.FormatPDF, tajreba.DetectFormat("upload", []byte("%PDF-1.7 rest")))
	})

	t.Run("html doctype", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, tajreba.FormatHTML, tajreba.DetectFormat("upload", []byte("\n  <!doctype html><html></html>")))
	})

	t.Run("docx zip member", func(t *testing.T) {
		t.Parallel()
		data := zipWith(t, "word/document.xml")
		assert.Equal(t, tajreba.FormatDOCX, tajreba.DetectFormat("upload", data))
	})

	t.Run("epub container", func(t *testing.T) {
		t.Parallel()
		data := zipWith(t, "META-INF/container.xml")
		assert.Equal(t, tajreba.FormatEPUB, tajreba.DetectFormat("upload", data))
	})

	t.Run("unknown bytes", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, tajreba.FormatUnknown, tajreba.DetectFormat("upload", []byte{0x00, 0x01, 0x02, 0x03}))
	})

	t.Run("unknown extension with prose reads as text", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, tajreba.FormatText, tajreba.DetectFormat("chapter.tex", []byte("It was the best of times.")))
	})

	t.Run("invalid utf-8 stays unknown", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, tajreba.FormatUnknown, tajreba.DetectFormat("upload", []byte{0xff, 0xfe, 0xfd, 0xfc}))
	})
}

// zipWith builds an in-memory ZIP archive containing one empty member.
func zipWith(t *testing.T, member string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err := zw.Create(member)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
