package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/ayoubaydy/tajreba"
	"github.com/ayoubaydy/tajreba/bloom"
)

// Compile-time interface verification.
var _ tajreba.TranslationCache = (*CacheService)(nil)

// CacheService implements tajreba.TranslationCache with a Bloom filter in
// front of the translations table. Get consults the filter first, so misses
// never touch the database.
type CacheService struct {
	db     *DB
	filter *bloom.Filter
}

// Cache sizing for the Bloom filter.
const (
	cacheExpectedKeys      = 100_000
	cacheFalsePositiveRate = 0.01
)

// NewCacheService creates a CacheService and seeds the Bloom filter with
// the keys already stored in the database.
func NewCacheService(ctx context.Context, db *DB) (*CacheService, error) {
	s := &CacheService{
		db:     db,
		filter: bloom.NewFilter(cacheExpectedKeys, cacheFalsePositiveRate),
	}

	rows, err := db.QueryContext(ctx, "SELECT key FROM translations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		s.filter.Add(key)
	}

	return s, rows.Err()
}

// Get returns the cached translation for key.
func (s *CacheService) Get(ctx context.Context, key string) (string, error) {
	if !s.filter.Test(key) {
		return "", tajreba.Errorf(tajreba.ENOTFOUND, "translation not cached")
	}

	var translation string
	err := s.db.QueryRowContext(ctx,
		"SELECT translation FROM translations WHERE key = ?", key).Scan(&translation)
	if err == sql.ErrNoRows {
		// Bloom filter false positive.
		return "", tajreba.Errorf(tajreba.ENOTFOUND, "translation not cached")
	}
	if err != nil {
		return "", err
	}

	return translation, nil
}

// Put stores a translation under key.
func (s *CacheService) Put(ctx context.Context, key, translation string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO translations (key, translation, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET translation = excluded.translation
	`, key, translation, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}

	s.filter.Add(key)
	return nil
}
