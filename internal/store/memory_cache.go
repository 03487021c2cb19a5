package store

import (
	"context"
	"sync"

	"github.com/Rithari/url-shortener/internal/shortener"
)

var _ shortener.Cache = (*MemoryCache)(nil)

// MemoryCache is an in-process shortener.Cache without expiry.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[shortener.Code]string
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[shortener.Code]string)}
}

func (c *MemoryCache) Get(_ context.Context, code shortener.Code) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	longURL, ok := c.entries[code]

	return longURL, ok, nil
}

func (c *MemoryCache) Set(_ context.Context, code shortener.Code, longURL string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[code] = longURL

	return nil
}

// Delete evicts code.
func (c *MemoryCache) Delete(code shortener.Code) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, code)
}

// Len reports the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
