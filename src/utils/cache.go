package utils

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrCacheMiss is returned by CacheHandlerI implementations when a key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

type Cache[T any] struct {
	value      T
	expiration time.Time
	mutex      sync.RWMutex
}

// NewCache initializes a new cache with an empty value.
func NewCache[T any]() *Cache[T] {
	var zero T
	return &Cache[T]{
		value: zero,
	}
}

// Set sets a new value in the cache with an expiration time.
func (c *Cache[T]) Set(value T, duration time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.value = value
	c.expiration = time.Now().Add(duration)
}

// Get returns the cached value while it has not expired.
func (c *Cache[T]) Get() (T, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if c.expiration.IsZero() || time.Now().After(c.expiration) {
		var zero T
		return zero, false
	}
	return c.value, true
}

// Clear removes the cached value.
func (c *Cache[T]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var zero T
	c.value = zero
	c.expiration = time.Time{}
}

// CacheHandlerI is a keyed JSON cache. RedisHandler and MemoryCacheHandler implement it.
type CacheHandlerI interface {
	Get(ctx context.Context, key string, target interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCacheHandler stores JSON encoded values in process memory. It is used when
// no Redis instance is configured.
type MemoryCacheHandler struct {
	mutex   sync.RWMutex
	entries map[string]memoryEntry
}

func NewMemoryCacheHandler() *MemoryCacheHandler {
	return &MemoryCacheHandler{entries: make(map[string]memoryEntry)}
}

func (m *MemoryCacheHandler) Get(_ context.Context, key string, target interface{}) error {
	m.mutex.RLock()
	entry, ok := m.entries[key]
	m.mutex.RUnlock()

	if !ok || (!entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt)) {
		return ErrCacheMiss
	}
	return json.Unmarshal(entry.data, target)
}

// Set stores value under key. A zero expiration keeps the value until it is deleted.
func (m *MemoryCacheHandler) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	entry := memoryEntry{data: data}
	if expiration > 0 {
		entry.expiresAt = time.Now().Add(expiration)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.entries[key] = entry
	return nil
}

func (m *MemoryCacheHandler) Delete(_ context.Context, key string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.entries, key)
	return nil
}

// cacheNamespace is the DNS namespace UUID; keys only need to be stable, not secret.
var cacheNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// CacheKey generates a deterministic UUID (version 5) from multiple input strings.
func CacheKey(inputs ...string) string {
	combined := ""
	for _, input := range inputs {
		combined += input + "|"
	}
	return uuid.NewSHA1(cacheNamespace, []byte(combined)).String()
}
