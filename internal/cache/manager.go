package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
)

// Manager keeps a Store and the key registry consistent: writes register
// keys, misses and removals deregister them, and ClearAll drops everything
// the registry knows about.
//
// A Manager is built once per process and shared by pointer. It holds no
// lock across the store and registry steps; ListKeys is advisory.
type Manager struct {
	store Store
	keys  *keyRegistry
}

// NewManager creates a Manager on top of store.
func NewManager(store Store) *Manager {
	return &Manager{
		store: store,
		keys:  newKeyRegistry(),
	}
}

// Set stores value under key and marks the key as tracked.
func (m *Manager) Set(key string, value []byte, opts EntryOptions) error {
	if err := m.store.Set(key, value, opts); err != nil {
		return fmt.Errorf("failed to set cache key %q: %w", key, err)
	}
	m.keys.add(key)
	return nil
}

// TryGet returns the cached value for key. On a miss the key is dropped
// from the registry.
func (m *Manager) TryGet(key string) ([]byte, bool) {
	value, err := m.store.Get(key)
	if err == nil {
		return value, true
	}

	if errors.Is(err, ErrCacheMiss) {
		m.keys.remove(key)
	} else {
		log.Printf("[CacheManager] Get %q failed: %v", key, err)
	}
	return nil, false
}

// Remove deletes key from the store and the registry. Removing an unknown
// key is a no-op.
func (m *Manager) Remove(key string) error {
	if err := m.store.Delete(key); err != nil {
		return fmt.Errorf("failed to remove cache key %q: %w", key, err)
	}
	m.keys.remove(key)
	return nil
}

// Contains reports whether key is currently tracked.
func (m *Manager) Contains(key string) bool {
	return m.keys.contains(key)
}

// ListKeys returns a sorted snapshot of the tracked keys. A listed key may
// already have expired in the store.
func (m *Manager) ListKeys() []string {
	return m.keys.snapshot()
}

// TrackedCount returns the number of tracked keys.
func (m *Manager) TrackedCount() int {
	return m.keys.len()
}

// ClearAll removes every tracked key from the store, then from the registry.
// If any delete fails the registry is left untouched.
func (m *Manager) ClearAll() error {
	keys := m.keys.snapshot()

	var errs []error
	for _, key := range keys {
		if err := m.store.Delete(key); err != nil {
			errs = append(errs, fmt.Errorf("key %q: %w", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to clear cache: %w", errors.Join(errs...))
	}

	m.keys.remove(keys...)
	if len(keys) > 0 {
		log.Printf("[CacheManager] Cleared %d keys", len(keys))
	}
	return nil
}

// GetJSON decodes the value cached under key into T. A value that does not
// decode is removed and reported as a miss.
func GetJSON[T any](m *Manager, key string) (T, bool) {
	var out T

	data, ok := m.TryGet(key)
	if !ok {
		return out, false
	}

	if err := json.Unmarshal(data, &out); err != nil {
		log.Printf("[CacheManager] Dropping undecodable value for %q: %v", key, err)
		if err := m.Remove(key); err != nil {
			log.Printf("[CacheManager] %v", err)
		}
		var zero T
		return zero, false
	}
	return out, true
}

// SetJSON encodes value and stores it under key.
func SetJSON[T any](m *Manager, key string, value T, opts EntryOptions) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value for %q: %w", key, err)
	}
	return m.Set(key, data, opts)
}
