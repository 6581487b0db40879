package cache

import (
	"log"
	"sync"
	"time"
)

// cacheEntry represents a cached value with its expiration policy.
type cacheEntry struct {
	value      []byte
	opts       EntryOptions
	expiresAt  time.Time // zero means no deadline
	lastAccess time.Time
}

// isExpired checks if the entry has expired at the given instant.
func (e *cacheEntry) isExpired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// touch records a successful read and slides the deadline if the policy asks for it.
func (e *cacheEntry) touch(now time.Time) {
	e.lastAccess = now
	if e.opts.Expiration == ExpireSliding {
		e.expiresAt = now.Add(e.opts.TTL)
	}
}

// StoreStats is a point-in-time snapshot of MemoryStore counters.
type StoreStats struct {
	Entries     int    `json:"entries"`
	MaxEntries  int    `json:"max_entries"`
	Hits        uint64 `json:"hits"`
	Misses      uint64 `json:"misses"`
	Expirations uint64 `json:"expirations"`
	Evictions   uint64 `json:"evictions"`
}

type memoryOptions struct {
	maxEntries      int
	cleanupInterval time.Duration
	now             func() time.Time
}

// Option configures a MemoryStore.
type Option func(*memoryOptions)

// WithMaxEntries caps the number of live entries. Zero means unbounded.
func WithMaxEntries(n int) Option {
	return func(o *memoryOptions) {
		o.maxEntries = n
	}
}

// WithCleanupInterval sets how often expired entries are swept. Zero disables the sweep.
func WithCleanupInterval(d time.Duration) Option {
	return func(o *memoryOptions) {
		o.cleanupInterval = d
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *memoryOptions) {
		o.now = now
	}
}

// MemoryStore is an in-process Store with never/sliding/absolute expiration
// and priority-ordered eviction once the entry cap is reached.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry

	maxEntries int
	now        func() time.Time

	hits        uint64
	misses      uint64
	expirations uint64
	evictions   uint64

	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	stopOnce        sync.Once
}

// NewMemoryStore creates a new in-memory store. A background sweep runs
// unless the cleanup interval is set to zero.
func NewMemoryStore(opts ...Option) *MemoryStore {
	cfg := &memoryOptions{
		cleanupInterval: time.Minute,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := &MemoryStore{
		entries:         make(map[string]*cacheEntry),
		maxEntries:      cfg.maxEntries,
		now:             cfg.now,
		cleanupInterval: cfg.cleanupInterval,
		stopCleanup:     make(chan struct{}),
	}

	if s.cleanupInterval > 0 {
		go s.cleanup()
	}

	return s
}

// Get retrieves a value by key. Sliding entries are renewed on every hit.
func (s *MemoryStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, exists := s.entries[key]
	if !exists {
		s.misses++
		return nil, ErrCacheMiss
	}
	if entry.isExpired(now) {
		delete(s.entries, key)
		s.expirations++
		s.misses++
		return nil, ErrCacheMiss
	}

	entry.touch(now)
	s.hits++

	result := make([]byte, len(entry.value))
	copy(result, entry.value)
	return result, nil
}

// Set stores a value under key, replacing any previous entry.
func (s *MemoryStore) Set(key string, value []byte, opts EntryOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if _, exists := s.entries[key]; !exists {
		s.makeRoom(now)
	}

	entry := &cacheEntry{
		value:      valueCopy,
		opts:       opts,
		lastAccess: now,
	}
	if opts.Expiration != ExpireNever {
		entry.expiresAt = now.Add(opts.TTL)
	}
	s.entries[key] = entry

	return nil
}

// Delete removes a value by key.
func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// Len returns the number of entries currently held, including ones that
// have expired but not yet been swept.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

// Stats returns the store counters.
func (s *MemoryStore) Stats() StoreStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return StoreStats{
		Entries:     len(s.entries),
		MaxEntries:  s.maxEntries,
		Hits:        s.hits,
		Misses:      s.misses,
		Expirations: s.expirations,
		Evictions:   s.evictions,
	}
}

// Close stops the background cleanup goroutine.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() {
		close(s.stopCleanup)
	})
	return nil
}

// makeRoom frees a slot for a new key. Caller must hold s.mu.
func (s *MemoryStore) makeRoom(now time.Time) {
	if s.maxEntries <= 0 || len(s.entries) < s.maxEntries {
		return
	}

	s.removeExpiredLocked(now)

	for len(s.entries) >= s.maxEntries {
		victim := s.pickVictim()
		if victim == "" {
			return
		}
		delete(s.entries, victim)
		s.evictions++
	}
}

// pickVictim returns the lowest-priority, least recently accessed key.
// Caller must hold s.mu.
func (s *MemoryStore) pickVictim() string {
	var (
		victim string
		chosen *cacheEntry
	)
	for key, entry := range s.entries {
		if chosen == nil ||
			entry.opts.Priority < chosen.opts.Priority ||
			(entry.opts.Priority == chosen.opts.Priority && entry.lastAccess.Before(chosen.lastAccess)) {
			victim = key
			chosen = entry
		}
	}
	return victim
}

// cleanup periodically removes expired entries.
func (s *MemoryStore) cleanup() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := s.removeExpired(); removed > 0 {
				log.Printf("[MemoryStore] Swept %d expired entries", removed)
			}
		case <-s.stopCleanup:
			return
		}
	}
}

// removeExpired removes all expired entries.
func (s *MemoryStore) removeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.removeExpiredLocked(s.now())
}

func (s *MemoryStore) removeExpiredLocked(now time.Time) int {
	removed := 0
	for key, entry := range s.entries {
		if entry.isExpired(now) {
			delete(s.entries, key)
			removed++
		}
	}
	s.expirations += uint64(removed)
	return removed
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)
