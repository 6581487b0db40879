package cache

import (
	"sort"
	"sync"
)

// keyRegistry records the keys the application has written. It may still
// list keys the store has already expired; the Manager prunes those on the
// next miss.
type keyRegistry struct {
	mu   sync.RWMutex
	keys map[string]bool
}

func newKeyRegistry() *keyRegistry {
	return &keyRegistry{keys: make(map[string]bool)}
}

func (r *keyRegistry) add(key string) {
	r.mu.Lock()
	r.keys[key] = true
	r.mu.Unlock()
}

func (r *keyRegistry) remove(keys ...string) {
	r.mu.Lock()
	for _, key := range keys {
		delete(r.keys, key)
	}
	r.mu.Unlock()
}

func (r *keyRegistry) contains(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.keys[key]
}

func (r *keyRegistry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.keys)
}

// snapshot returns the tracked keys in sorted order.
func (r *keyRegistry) snapshot() []string {
	r.mu.RLock()
	keys := make([]string, 0, len(r.keys))
	for key := range r.keys {
		keys = append(keys, key)
	}
	r.mu.RUnlock()

	sort.Strings(keys)
	return keys
}
