package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sync"
	"time"

	appErrors "github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/errors"
)

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryRepository is the in-process counterpart of CacheRepository used in
// development and tests. Values are stored as JSON so callers observe the
// same copy semantics as with Redis.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]memoryEntry
	now   func() time.Time
}

// NewMemoryRepository constructs an empty store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]memoryEntry), now: time.Now}
}

// Get unmarshals the stored value into dest.
func (r *MemoryRepository) Get(_ context.Context, key string, dest interface{}) error {
	r.mu.RLock()
	entry, ok := r.items[key]
	r.mu.RUnlock()
	if !ok || r.expired(entry) {
		if ok {
			r.mu.Lock()
			delete(r.items, key)
			r.mu.Unlock()
		}
		return appErrors.ErrCacheMiss
	}
	if err := json.Unmarshal(entry.payload, dest); err != nil {
		return fmt.Errorf("unmarshal memory value for %s: %w", key, err)
	}
	return nil
}

// Set stores value under key. A zero TTL keeps the key until deleted.
func (r *MemoryRepository) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal memory value for %s: %w", key, err)
	}
	entry := memoryEntry{payload: payload}
	if ttl > 0 {
		entry.expiresAt = r.now().Add(ttl)
	}
	r.mu.Lock()
	r.items[key] = entry
	r.mu.Unlock()
	return nil
}

// Delete removes the given keys.
func (r *MemoryRepository) Delete(_ context.Context, keys ...string) error {
	r.mu.Lock()
	for _, key := range keys {
		delete(r.items, key)
	}
	r.mu.Unlock()
	return nil
}

// DeleteByPattern removes keys matching a glob pattern.
func (r *MemoryRepository) DeleteByPattern(_ context.Context, pattern string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.items {
		matched, err := path.Match(pattern, key)
		if err != nil {
			return fmt.Errorf("match pattern %s: %w", pattern, err)
		}
		if matched {
			delete(r.items, key)
		}
	}
	return nil
}

// Ping always succeeds.
func (r *MemoryRepository) Ping(context.Context) error { return nil }

// Close drops every entry.
func (r *MemoryRepository) Close() error {
	r.mu.Lock()
	r.items = make(map[string]memoryEntry)
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && !r.now().Before(entry.expiresAt)
}
