package epub_test

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoubaydy/tajreba"
	"github.com/ayoubaydy/tajreba/epub"
)

const containerXML = `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const contentOPF = `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Test Book</dc:title>
  </metadata>
  <manifest>
    <item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch2" href="ch2.xhtml" media-type="application/xhtml+xml"/>
    <item id="css" href="style.css" media-type="text/css"/>
  </manifest>
  <spine>
    <itemref idref="ch2"/>
    <itemref idref="ch1"/>
  </spine>
</package>`

// writeEpub builds an EPUB file on disk from raw zip members.
func writeEpub(t *testing.T, members map[string]string) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range members {
		f, err := zw.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(data))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "book.epub")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func chapterXHTML(body string) string {
	return `<?xml version="1.0"?><html xmlns="http://www.w3.org/1999/xhtml"><head><title>x</title></head><body>` + body + `</body></html>`
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("chapters in spine order", func(t *testing.T) {
		t.Parallel()
		path := writeEpub(t, map[string]string{
			"META-INF/container.xml": containerXML,
			"OEBPS/content.opf":      contentOPF,
			"OEBPS/ch1.xhtml":        chapterXHTML("<p>Chapter one text.</p>"),
			"OEBPS/ch2.xhtml":        chapterXHTML("<h1>Heading</h1><p>Chapter two text.</p>"),
		})

		res, err := epub.NewExtractor().Extract(path)
		require.NoError(t, err)
		assert.Equal(t, "Test Book", res.Title)
		// ch2 comes first in the spine.
		assert.Equal(t, "Heading\n\nChapter two text.\n\nChapter one text.", res.Text)
	})

	t.Run("strips scripts and styles", func(t *testing.T) {
		t.Parallel()
		path := writeEpub(t, map[string]string{
			"META-INF/container.xml": containerXML,
			"OEBPS/content.opf":      contentOPF,
			"OEBPS/ch1.xhtml":        chapterXHTML("<p>Visible.</p><script>alert(1)</script><style>p{}</style>"),
			"OEBPS/ch2.xhtml":        chapterXHTML("<p>Also visible.</p>"),
		})

		res, err := epub.NewExtractor().Extract(path)
		require.NoError(t, err)
		assert.NotContains(t, res.Text, "alert")
		assert.NotContains(t, res.Text, "p{}")
	})

	t.Run("rejects DRM", func(t *testing.T) {
		t.Parallel()
		path := writeEpub(t, map[string]string{
			"META-INF/container.xml":  containerXML,
			"META-INF/encryption.xml": "<encryption/>",
			"OEBPS/content.opf":       contentOPF,
			"OEBPS/ch1.xhtml":         chapterXHTML("<p>x</p>"),
		})

		_, err := epub.NewExtractor().Extract(path)
		require.Error(t, err)
		assert.Equal(t, tajreba.EINVALID, tajreba.ErrorCode(err))
		assert.Contains(t, tajreba.ErrorMessage(err), "DRM")
	})

	t.Run("missing container", func(t *testing.T) {
		t.Parallel()
		path := writeEpub(t, map[string]string{"mimetype": "application/epub+zip"})

		_, err := epub.NewExtractor().Extract(path)
		require.Error(t, err)
		assert.Equal(t, tajreba.EINVALID, tajreba.ErrorCode(err))
	})

	t.Run("not a zip", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "bad.epub")
		require.NoError(t, os.WriteFile(path, []byte("nope"), 0644))

		_, err := epub.NewExtractor().Extract(path)
		require.Error(t, err)
		assert.Equal(t, tajreba.EINVALID, tajreba.ErrorCode(err))
	})

	t.Run("no text", func(t *testing.T) {
		t.Parallel()
		path := writeEpub(t, map[string]string{
			"META-INF/container.xml": containerXML,
			"OEBPS/content.opf":      contentOPF,
			"OEBPS/ch1.xhtml":        chapterXHTML(""),
			"OEBPS/ch2.xhtml":        chapterXHTML(""),
		})

		_, err := epub.NewExtractor().Extract(path)
		require.Error(t, err)
		assert.Equal(t, tajreba.EINVALID, tajreba.ErrorCode(err))
	})
}
