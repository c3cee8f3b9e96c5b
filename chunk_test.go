package tajreba_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ayoubaydy/tajreba"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimalChunkSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		totalChars int
		want       int
	}{
		{"small document", 4_999, 1000},
		{"medium document", 20_000, 2000},
		{"large document", 150_000, 3000},
		{"very large document", 500_000, 4000},
		{"empty document", 0, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tajreba.OptimalChunkSize(tt.totalChars))
		})
	}
}

func TestSplitText_ShortTextReturnsSingleChunk(t *testing.T) {
	t.Parallel()

	chunks := tajreba.SplitText("hello world", 100)

	require.Len(t, chunks, 1)
	assert.Equal(t, "hello world", chunks[0])
}

func TestSplitText_EmptyTextReturnsNil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, tajreba.SplitText("", 100))
	assert.Nil(t, tajreba.SplitText("   \n\t  ", 100))
}

func TestSplitText_PrefersParagraphBreaks(t *testing.T) {
	t.Parallel()

	para1 := strings.Repeat("a", 60)
	para2 := strings.Repeat("b", 60)
	chunks := tajreba.SplitText(para1+"\n\n"+para2, 100)

	require.Len(t, chunks, 2)
	assert.Equal(t, para1, chunks[0])
	assert.Equal(t, para2, chunks[1])
}

func TestSplitText_PrefersSentenceBoundaries(t *testing.T) {
	t.Parallel()

	text := "First sentence here. Second sentence is a bit longer than the first one. Third one."
	chunks := tajreba.SplitText(text, 60)

	require.GreaterOrEqual(t, len(chunks), 2)
	assert.True(t, strings.HasSuffix(chunks[0], "."), "chunk should end at a sentence: %q", chunks[0])
}

func TestSplitText_NeverExceedsSize(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("word ", 1000)
	chunks := tajreba.SplitText(text, 200)

	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 200)
	}
}

func TestSplitText_HardCutsUnbrokenText(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("x", 250)
	chunks := tajreba.SplitText(text, 100)

	require.Len(t, chunks, 3)
	assert.Equal(t, 100, len(chunks[0]))
	assert.Equal(t, 100, len(chunks[1]))
	assert.Equal(t, 50, len(chunks[2]))
}

func TestSplitText_RuneSafeWithArabicText(t *testing.T) {
	t.Parallel()

	// Arabic text with no spaces near the boundary must still produce
	// valid UTF-8 chunks.
	text := strings.Repeat("مرحبا", 100)
	chunks := tajreba.SplitText(text, 64)

	var rejoined strings.Builder
	for _, c := range chunks {
		assert.True(t, utf8.ValidString(c))
		rejoined.WriteString(c)
	}
	assert.Equal(t, text, rejoined.String())
}

func TestSplitText_ContentPreservedModuloWhitespace(t *testing.T) {
	t.Parallel()

	text := "One sentence. Another sentence follows here. And a third one to finish."
	chunks := tajreba.SplitText(text, 30)

	joined := strings.Join(chunks, " ")
	assert.Equal(t,
		strings.Join(strings.Fields(text), " "),
		strings.Join(strings.Fields(joined), " "))
}
