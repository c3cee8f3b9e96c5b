package tajreba

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// TranslationCache stores completed chunk translations keyed by a content
// hash of (model, language pair, source text). Documents commonly repeat
// chunks verbatim (headers, footers, boilerplate); the cache avoids paying
// for the same model call twice.
type TranslationCache interface {
	// Get returns the cached translation for key.
	// Returns ENOTFOUND if the key is not cached.
	Get(ctx context.Context, key string) (string, error)

	// Put stores a translation under key.
	Put(ctx context.Context, key, translation string) error
}

// CacheKey builds the cache key for one chunk translation.
func CacheKey(model, sourceLang, targetLang, text string) string {
	h := xxhash.New()
	h.WriteString(model)
	h.WriteString("|")
	h.WriteString(sourceLang)
	h.WriteString("|")
	h.WriteString(targetLang)
	h.WriteString("|")
	h.WriteString(text)
	return fmt.Sprintf("%016x", h.Sum64())
}

// RateLimiter limits the rate of requests to an external endpoint, keyed by
// host so separate backends are limited independently.
type RateLimiter interface {
	// Wait blocks until the rate limit allows a request for key.
	// Returns an error if the context is canceled first.
	Wait(ctx context.Context, key string) error
}
