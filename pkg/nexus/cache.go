package nexus

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// ErrCacheMiss is returned when a key is not present or has expired.
var ErrCacheMiss = errors.New("cache miss")

// CacheEntry is a cached GET response.
type CacheEntry struct {
	Body       []byte    `json:"body"`
	StatusCode int       `json:"status_code"`
	StoredAt   time.Time `json:"stored_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Expired reports whether the entry is past its lifetime.
func (e *CacheEntry) Expired() bool {
	return !e.ExpiresAt.IsZero() && time.Now().After(e.ExpiresAt)
}

// Cache is a pluggable response cache for GET requests. Caching is opt-in:
// the default client performs every request against the service.
type Cache interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Set(ctx context.Context, key string, entry *CacheEntry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Has(ctx context.Context, key string) bool
}

// CacheKey derives a stable cache key from a request URL.
func CacheKey(url string) string {
	sum := sha256.Sum256([]byte(url))

	return hex.EncodeToString(sum[:])
}

// MemoryCache is an in-process Cache with a bounded entry count.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*CacheEntry
	maxSize int
}

// NewMemoryCache creates a memory cache holding at most maxSize entries.
func NewMemoryCache(maxSize int) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*CacheEntry),
		maxSize: maxSize,
	}
}

// Get implements Cache.Get.
func (c *MemoryCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, ErrCacheMiss
	}

	if entry.Expired() {
		_ = c.Delete(ctx, key)

		return nil, ErrCacheMiss
	}

	return entry, nil
}

// Set implements Cache.Set. When the cache is full the oldest entry is evicted.
func (c *MemoryCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxSize {
		if _, ok := c.entries[key]; !ok {
			c.evictOldestLocked()
		}
	}

	c.entries[key] = entry

	return nil
}

// Delete implements Cache.Delete.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)

	return nil
}

// Clear implements Cache.Clear.
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*CacheEntry)

	return nil
}

// Has implements Cache.Has.
func (c *MemoryCache) Has(ctx context.Context, key string) bool {
	_, err := c.Get(ctx, key)

	return err == nil
}

func (c *MemoryCache) evictOldestLocked() {
	var (
		oldestKey  string
		oldestTime time.Time
	)

	for key, entry := range c.entries {
		if oldestKey == "" || entry.StoredAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.StoredAt
		}
	}

	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// NoOpCache is a Cache that stores nothing.
type NoOpCache struct{}

// NewNoOpCache creates a no-op cache.
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// Get implements Cache.Get.
func (c *NoOpCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	return nil, ErrCacheMiss
}

// Set implements Cache.Set.
func (c *NoOpCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	return nil
}

// Delete implements Cache.Delete.
func (c *NoOpCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Clear implements Cache.Clear.
func (c *NoOpCache) Clear(ctx context.Context) error {
	return nil
}

// Has implements Cache.Has.
func (c *NoOpCache) Has(ctx context.Context, key string) bool {
	return false
}

// NATSKVConfig configures the NATS JetStream KV cache backend.
type NATSKVConfig struct {
	// URL is the NATS server URL.
	URL string

	// Bucket is the KV bucket name.
	Bucket string

	// TTL is the per-entry lifetime enforced by the bucket.
	TTL time.Duration
}

// NATSKVCache is a Cache backed by a NATS JetStream key-value bucket, letting
// multiple CLI invocations on the same host share cached responses.
type NATSKVCache struct {
	conn *nats.Conn
	kv   nats.KeyValue
}

// NewNATSKVCache connects to NATS and binds (or creates) the configured bucket.
func NewNATSKVCache(config *NATSKVConfig) (*NATSKVCache, error) {
	conn, err := nats.Connect(config.URL)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("getting JetStream context: %w", err)
	}

	kv, err := js.KeyValue(config.Bucket)
	if err != nil {
		kv, err = js.CreateKeyValue(&nats.KeyValueConfig{
			Bucket: config.Bucket,
			TTL:    config.TTL,
		})
		if err != nil {
			conn.Close()

			return nil, fmt.Errorf("creating KV bucket '%s': %w", config.Bucket, err)
		}
	}

	return &NATSKVCache{conn: conn, kv: kv}, nil
}

// Get implements Cache.Get.
func (c *NATSKVCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	kvEntry, err := c.kv.Get(key)
	if err != nil {
		return nil, ErrCacheMiss
	}

	var entry CacheEntry

	err = json.Unmarshal(kvEntry.Value(), &entry)
	if err != nil {
		return nil, fmt.Errorf("decoding cache entry: %w", err)
	}

	if entry.Expired() {
		_ = c.Delete(ctx, key)

		return nil, ErrCacheMiss
	}

	return &entry, nil
}

// Set implements Cache.Set.
func (c *NATSKVCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	_, err = c.kv.Put(key, data)
	if err != nil {
		return fmt.Errorf("storing cache entry: %w", err)
	}

	return nil
}

// Delete implements Cache.Delete.
func (c *NATSKVCache) Delete(ctx context.Context, key string) error {
	err := c.kv.Delete(key)
	if err != nil {
		return fmt.Errorf("deleting cache entry: %w", err)
	}

	return nil
}

// Clear implements Cache.Clear.
func (c *NATSKVCache) Clear(ctx context.Context) error {
	keys, err := c.kv.Keys()
	if err != nil {
		return nil
	}

	for _, key := range keys {
		_ = c.kv.Delete(key)
	}

	return nil
}

// Has implements Cache.Has.
func (c *NATSKVCache) Has(ctx context.Context, key string) bool {
	_, err := c.Get(ctx, key)

	return err == nil
}

// Close releases the NATS connection.
func (c *NATSKVCache) Close() {
	c.conn.Close()
}
