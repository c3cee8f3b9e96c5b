package tajreba

import (
	"strings"
	"unicode/utf8"
)

// Chunk size thresholds. Small documents use small chunks so progress is
// reported frequently; large documents use bigger chunks to reduce the
// number of model round trips.
const (
	chunkSizeSmall  = 1000
	chunkSizeMedium = 2000
	chunkSizeLarge  = 3000
	chunkSizeMax    = 4000
)

// OptimalChunkSize returns the recommended chunk size in characters for a
// document of the given total length.
func OptimalChunkSize(totalChars int) int {
	switch {
	case totalChars < 5_000:
		return chunkSizeSmall
	case totalChars < 50_000:
		return chunkSizeMedium
	case totalChars < 200_000:
		return chunkSizeLarge
	default:
		return chunkSizeMax
	}
}

// SplitText splits text into chunks of at most size characters (runes).
// Splits prefer paragraph breaks, then line breaks, then sentence ends,
// then word boundaries, so a chunk never ends mid-sentence when a natural
// boundary exists in its second half. Chunks are never split mid-rune.
func SplitText(text string, size int) []string {
	if size <= 0 {
		size = chunkSizeMedium
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	var chunks []string
	for len(runes) > 0 {
		if len(runes) <= size {
			chunks = append(chunks, strings.TrimSpace(string(runes)))
			break
		}

		cut := splitPoint(runes, size)
		chunk := strings.TrimSpace(string(runes[:cut]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		runes = runes[cut:]
	}

	return chunks
}

// splitPoint finds the best boundary at or before limit. Boundaries in the
// first half of the window are ignored so chunks don't degenerate.
func splitPoint(runes []rune, limit int) int {
	window := string(runes[:limit])
	half := len(window) / 2

	// Paragraph break
	if i := strings.LastIndex(window, "\n\n"); i >= half {
		return utf8.RuneCountInString(window[:i+2])
	}
	// Line break
	if i := strings.LastIndexByte(window, '\n'); i >= half {
		return utf8.RuneCountInString(window[:i+1])
	}
	// Sentence end
	if i := lastSentenceEnd(window); i >= half {
		return utf8.RuneCountInString(window[:i])
	}
	// Word boundary
	if i := strings.LastIndexByte(window, ' '); i >= half {
		return utf8.RuneCountInString(window[:i+1])
	}
	// Hard cut
	return limit
}

// sentenceEnders covers Latin and Arabic sentence punctuation.
var sentenceEnders = []string{". ", "! ", "? ", "؟ ", "۔ ", ".\n", "!\n", "?\n"}

// lastSentenceEnd returns the byte offset just past the last sentence-ending
// punctuation in s, or -1 if none is found.
func lastSentenceEnd(s string) int {
	best := -1
	for _, end := range sentenceEnders {
		if i := strings.LastIndex(s, end); i >= 0 && i+len(end) > best {
			best = i + len(end)
		}
	}
	return best
}
