package scanning

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"go.etcd.io/bbolt"
)

const textCacheBucket = "ocr-text"

// TextCache persists extracted text keyed by file content hash, so a
// receipt only pays the OCR cost once across runs.
type TextCache struct {
	db *bbolt.DB
}

// NewTextCache opens (or creates) a cache database at path
func NewTextCache(path string) (*TextCache, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(textCacheBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache bucket: %w", err)
	}

	return &TextCache{db: db}, nil
}

// Get returns the cached text for key, if any
func (c *TextCache) Get(key string) (string, bool) {
	var text string
	var found bool
	c.db.View(func(tx *bbolt.Tx) error {
		if data := tx.Bucket([]byte(textCacheBucket)).Get([]byte(key)); data != nil {
			text = string(data)
			found = true
		}
		return nil
	})
	return text, found
}

// Put stores text under key
func (c *TextCache) Put(key, text string) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(textCacheBucket)).Put([]byte(key), []byte(text))
	})
}

// Close closes the cache database
func (c *TextCache) Close() error {
	return c.db.Close()
}

// contentKey hashes file contents so renames and copies still hit the cache
func contentKey(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// CachedExtractor wraps a TextExtractor with read-through caching
type CachedExtractor struct {
	inner TextExtractor
	cache *TextCache
}

// NewCachedExtractor wraps inner with the given cache
func NewCachedExtractor(inner TextExtractor, cache *TextCache) *CachedExtractor {
	return &CachedExtractor{inner: inner, cache: cache}
}

// ExtractText extracts the text content of the file at path, consulting
// the cache first
func (c *CachedExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}

	key := contentKey(data)
	if text, ok := c.cache.Get(key); ok {
		return text, nil
	}

	text, err := c.inner.ExtractText(ctx, path)
	if err != nil {
		return "", err
	}
	if err := c.cache.Put(key, text); err != nil {
		return "", fmt.Errorf("caching text: %w", err)
	}
	return text, nil
}
