// Package cache stores serialized comparison responses so repeated requests
// for the same inputs skip the engine.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Key derives a stable cache key from a request value. The value is encoded
// as JSON, so struct field order and map key sorting keep it canonical.
func Key(namespace string, req any) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode cache key: %w", err)
	}
	sum := sha256.Sum256(data)
	return "regimecalc:" + namespace + ":" + hex.EncodeToString(sum[:]), nil
}

const (
	// DefaultMaxEntries bounds a MemoryCache built by NewMemoryCache.
	DefaultMaxEntries = 10000
	sweepInterval     = time.Minute
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryCache is an in-process Cache used when no Redis address is configured.
// Expired entries are swept on Set at most once per minute, and when the cache
// is full the entry closest to expiry is evicted.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	maxEntries int
	lastSweep  time.Time
	now        func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return NewMemoryCacheWithLimit(DefaultMaxEntries)
}

// NewMemoryCacheWithLimit builds a cache holding at most maxEntries entries.
// A non-positive limit disables the bound.
func NewMemoryCacheWithLimit(maxEntries int) *MemoryCache {
	return &MemoryCache{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if e.expired(m.now()) {
		delete(m.entries, key)
		return nil, false, nil
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, true, nil
}

// Set stores a copy of value. A non-positive ttl keeps the entry until it is
// overwritten or evicted.
func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = now.Add(ttl)
	}

	if !now.Before(m.lastSweep.Add(sweepInterval)) {
		m.sweep(now)
	}
	if _, exists := m.entries[key]; !exists && m.maxEntries > 0 && len(m.entries) >= m.maxEntries {
		m.sweep(now)
		if len(m.entries) >= m.maxEntries {
			m.evictOne()
		}
	}
	m.entries[key] = memoryEntry{value: stored, expiresAt: expiresAt}
	return nil
}

// sweep drops expired entries. Callers hold mu.
func (m *MemoryCache) sweep(now time.Time) {
	for k, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, k)
		}
	}
	m.lastSweep = now
}

// evictOne drops the entry that expires first; entries without expiry go last.
// Callers hold mu.
func (m *MemoryCache) evictOne() {
	var (
		victim string
		soon   time.Time
		found  bool
	)
	for k, e := range m.entries {
		switch {
		case !found:
		case e.expiresAt.IsZero():
			continue
		case !soon.IsZero() && !e.expiresAt.Before(soon):
			continue
		}
		victim, soon, found = k, e.expiresAt, true
	}
	if found {
		delete(m.entries, victim)
	}
}

// Len reports the number of entries, including expired ones not yet swept.
func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
