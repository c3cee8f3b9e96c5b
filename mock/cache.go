package mock

import (
	"context"
	"sync"

	"github.com/ayoubaydy/tajreba"
)

var (
	_ tajreba.TranslationCache = (*TranslationCache)(nil)
	_ tajreba.RateLimiter      = (*RateLimiter)(nil)
	_ tajreba.Fetcher          = (*Fetcher)(nil)
)

// TranslationCache is a thread-safe in-memory tajreba.TranslationCache.
type TranslationCache struct {
	mu      sync.Mutex
	entries map[string]string
}

// NewTranslationCache creates an empty in-memory cache.
func NewTranslationCache() *TranslationCache {
	return &TranslationCache{entries: make(map[string]string)}
}

func (c *TranslationCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	translation, ok := c.entries[key]
	if !ok {
		return "", tajreba.Errorf(tajreba.ENOTFOUND, "translation not cached")
	}
	return translation, nil
}

func (c *TranslationCache) Put(ctx context.Context, key, translation string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = translation
	return nil
}

// Len returns the number of cached entries.
func (c *TranslationCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// RateLimiter is a mock implementation of tajreba.RateLimiter.
type RateLimiter struct {
	WaitFn func(ctx context.Context, key string) error
}

func (l *RateLimiter) Wait(ctx context.Context, key string) error {
	if l.WaitFn == nil {
		return nil
	}
	return l.WaitFn(ctx, key)
}

// Fetcher is a mock implementation of tajreba.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}
