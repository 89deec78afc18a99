// Package cache memoizes engine reports per input fingerprint and benchmark
// tables version. A Cache is an explicit value owned by its caller.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/camayank/StartupValuator-sub001/pkg/models"
)

// KeyFunc derives the cache key for an input under a tables version.
type KeyFunc func(in models.ValuationInput, tablesVersion string) string

// Fingerprint hashes the normalized input together with the tables version.
func Fingerprint(in models.ValuationInput, tablesVersion string) string {
	data, err := json.Marshal(in.Normalize())
	if err != nil {
		return ""
	}
	h := sha256.New()
	h.Write([]byte(tablesVersion))
	h.Write([]byte{0})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// Cache is a TTL map safe for concurrent use.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration
	key     KeyFunc
	now     func() time.Time
}

// New builds a Cache. A ttl of zero keeps entries until Clear; a nil key
// function uses Fingerprint.
func New[V any](ttl time.Duration, key KeyFunc) *Cache[V] {
	if key == nil {
		key = Fingerprint
	}
	return &Cache[V]{entries: make(map[string]entry[V]), ttl: ttl, key: key, now: time.Now}
}

// WithClock replaces the time source.
func (c *Cache[V]) WithClock(now func() time.Time) *Cache[V] {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
	return c
}

// Key exposes the configured key function.
func (c *Cache[V]) Key(in models.ValuationInput, tablesVersion string) string {
	return c.key(in, tablesVersion)
}

// Get returns a live entry. Expired entries are dropped.
func (c *Cache[V]) Get(in models.ValuationInput, tablesVersion string) (V, bool) {
	k := c.key(in, tablesVersion)
	var zero V
	if k == "" {
		return zero, false
	}

	c.mu.RLock()
	e, ok := c.entries[k]
	now := c.now()
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if c.ttl > 0 && now.Sub(e.storedAt) > c.ttl {
		c.mu.Lock()
		if cur, still := c.entries[k]; still && cur.storedAt.Equal(e.storedAt) {
			delete(c.entries, k)
		}
		c.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

// Put stores v for the input and tables version.
func (c *Cache[V]) Put(in models.ValuationInput, tablesVersion string, v V) {
	k := c.key(in, tablesVersion)
	if k == "" {
		return
	}
	c.mu.Lock()
	c.entries[k] = entry[V]{value: v, storedAt: c.now()}
	c.mu.Unlock()
}

// Len counts stored entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear drops every entry.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry[V])
	c.mu.Unlock()
}
