package goquery_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoubaydy/tajreba"
	"github.com/ayoubaydy/tajreba/goquery"
)

func TestExtractor_ExtractPage(t *testing.T) {
	t.Parallel()

	t.Run("prefers article over body", func(t *testing.T) {
		t.Parallel()
		html := `<html><head><title>Page Title</title></head><body>
			<nav><a href="/">Home</a></nav>
			<article><p>Main content here.</p></article>
			<footer>Copyright</footer>
		</body></html>`

		res, err := goquery.NewExtractor().ExtractPage(html)
		require.NoError(t, err)
		assert.Equal(t, "Page Title", res.Title)
		assert.Contains(t, res.ContentHTML, "Main content here.")
		assert.NotContains(t, res.ContentHTML, "Copyright")
	})

	t.Run("strips boilerplate from body fallback", func(t *testing.T) {
		t.Parallel()
		html := `<html><body>
			<nav>menu</nav>
			<script>evil()</script>
			<p>Real text.</p>
		</body></html>`

		res, err := goquery.NewExtractor().ExtractPage(html)
		require.NoError(t, err)
		assert.Contains(t, res.ContentHTML, "Real text.")
		assert.NotContains(t, res.ContentHTML, "menu")
		assert.NotContains(t, res.ContentHTML, "evil")
	})

	t.Run("title falls back to h1", func(t *testing.T) {
		t.Parallel()
		html := `<html><body><main><h1>The Heading</h1><p>text</p></main></body></html>`

		res, err := goquery.NewExtractor().ExtractPage(html)
		require.NoError(t, err)
		assert.Equal(t, "The Heading", res.Title)
	})

	t.Run("empty page", func(t *testing.T) {
		t.Parallel()
		_, err := goquery.NewExtractor().ExtractPage("<html><body></body></html>")
		require.Error(t, err)
		assert.Equal(t, tajreba.EINVALID, tajreba.ErrorCode(err))
	})
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("file to text", func(t *testing.T) {
		t.Parallel()
		html := `<html><head><title>Doc</title></head><body><article>
			<h1>Intro</h1>
			<p>First paragraph.</p>
			<p>Second paragraph.</p>
		</article></body></html>`
		path := filepath.Join(t.TempDir(), "page.html")
		require.NoError(t, os.WriteFile(path, []byte(html), 0644))

		res, err := goquery.NewExtractor().Extract(path)
		require.NoError(t, err)
		assert.Equal(t, "Doc", res.Title)
		assert.Equal(t, "Intro\n\nFirst paragraph.\n\nSecond paragraph.", res.Text)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := goquery.NewExtractor().Extract(filepath.Join(t.TempDir(), "nope.html"))
		require.Error(t, err)
		assert.Equal(t, tajreba.ENOTFOUND, tajreba.ErrorCode(err))
	})
}
