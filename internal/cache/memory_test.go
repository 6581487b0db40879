package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestStore(t *testing.T, clock *fakeClock, opts ...Option) *MemoryStore {
	t.Helper()
	opts = append([]Option{WithClock(clock.Now), WithCleanupInterval(0)}, opts...)
	s := NewMemoryStore(opts...)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestMemoryStore_GetMissing(t *testing.T) {
	s := newTestStore(t, newFakeClock())

	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryStore_NoExpiration(t *testing.T) {
	clock := newFakeClock()
	s := newTestStore(t, clock)

	require.NoError(t, s.Set("countries", []byte("v"), NoExpiration(PriorityHigh)))
	clock.Advance(24 * 365 * time.Hour)

	got, err := s.Get("countries")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestMemoryStore_SlidingExpiration(t *testing.T) {
	const window = 10 * time.Second

	t.Run("access inside the window keeps the entry alive", func(t *testing.T) {
		clock := newFakeClock()
		s := newTestStore(t, clock)
		require.NoError(t, s.Set("states:2", []byte("v"), SlidingExpiration(window, PriorityNormal)))

		for i := 0; i < 20; i++ {
			clock.Advance(window - time.Millisecond)
			_, err := s.Get("states:2")
			require.NoError(t, err, "access %d", i)
		}
	})

	t.Run("idle for the full window evicts", func(t *testing.T) {
		clock := newFakeClock()
		s := newTestStore(t, clock)
		require.NoError(t, s.Set("states:2", []byte("v"), SlidingExpiration(window, PriorityNormal)))

		clock.Advance(window)
		_, err := s.Get("states:2")
		assert.ErrorIs(t, err, ErrCacheMiss)
		assert.Equal(t, 0, s.Len())
	})
}

func TestMemoryStore_AbsoluteExpiration(t *testing.T) {
	const ttl = 10 * time.Second
	clock := newFakeClock()
	s := newTestStore(t, clock)
	require.NoError(t, s.Set("cities:1", []byte("v"), AbsoluteExpiration(ttl, PriorityLow)))

	clock.Advance(4 * time.Second)
	_, err := s.Get("cities:1")
	require.NoError(t, err)

	clock.Advance(4 * time.Second)
	_, err = s.Get("cities:1")
	require.NoError(t, err)

	// Reads above do not extend the deadline.
	clock.Advance(2 * time.Second)
	_, err = s.Get("cities:1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryStore_OverwriteResetsPolicy(t *testing.T) {
	clock := newFakeClock()
	s := newTestStore(t, clock)

	require.NoError(t, s.Set("k", []byte("a"), AbsoluteExpiration(time.Second, PriorityLow)))
	require.NoError(t, s.Set("k", []byte("b"), NoExpiration(PriorityHigh)))
	clock.Advance(time.Hour)

	got, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), got)
}

func TestMemoryStore_InvalidOptions(t *testing.T) {
	s := newTestStore(t, newFakeClock())

	assert.ErrorIs(t, s.Set("k", []byte("v"), SlidingExpiration(0, PriorityNormal)), ErrInvalidOptions)
	assert.ErrorIs(t, s.Set("k", []byte("v"), AbsoluteExpiration(-time.Second, PriorityLow)), ErrInvalidOptions)
	assert.ErrorIs(t, s.Set("k", []byte("v"), EntryOptions{Expiration: Expiration(42)}), ErrInvalidOptions)
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStore_ValuesAreCopied(t *testing.T) {
	s := newTestStore(t, newFakeClock())

	in := []byte("abc")
	require.NoError(t, s.Set("k", in, NoExpiration(PriorityNormal)))
	in[0] = 'x'

	out, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), out)

	out[0] = 'y'
	again, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestMemoryStore_DeleteIsIdempotent(t *testing.T) {
	s := newTestStore(t, newFakeClock())

	require.NoError(t, s.Set("k", []byte("v"), NoExpiration(PriorityNormal)))
	require.NoError(t, s.Delete("k"))
	require.NoError(t, s.Delete("k"))
	require.NoError(t, s.Delete("never-set"))
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStore_EvictsByPriorityThenRecency(t *testing.T) {
	clock := newFakeClock()
	s := newTestStore(t, clock, WithMaxEntries(3))

	require.NoError(t, s.Set("high", []byte("h"), NoExpiration(PriorityHigh)))
	clock.Advance(time.Second)
	require.NoError(t, s.Set("low-old", []byte("l1"), NoExpiration(PriorityLow)))
	clock.Advance(time.Second)
	require.NoError(t, s.Set("low-new", []byte("l2"), NoExpiration(PriorityLow)))
	clock.Advance(time.Second)

	require.NoError(t, s.Set("normal", []byte("n"), NoExpiration(PriorityNormal)))

	_, err := s.Get("low-old")
	assert.ErrorIs(t, err, ErrCacheMiss)
	for _, key := range []string{"high", "low-new", "normal"} {
		_, err := s.Get(key)
		assert.NoError(t, err, key)
	}
	assert.Equal(t, uint64(1), s.Stats().Evictions)
}

func TestMemoryStore_PurgesExpiredBeforeEvicting(t *testing.T) {
	clock := newFakeClock()
	s := newTestStore(t, clock, WithMaxEntries(2))

	require.NoError(t, s.Set("a", []byte("a"), NoExpiration(PriorityLow)))
	require.NoError(t, s.Set("b", []byte("b"), AbsoluteExpiration(time.Second, PriorityHigh)))
	clock.Advance(2 * time.Second)

	require.NoError(t, s.Set("c", []byte("c"), NoExpiration(PriorityLow)))

	_, err := s.Get("a")
	assert.NoError(t, err)
	stats := s.Stats()
	assert.Equal(t, uint64(0), stats.Evictions)
	assert.Equal(t, uint64(1), stats.Expirations)
}

func TestMemoryStore_OverwriteAtCapacityDoesNotEvict(t *testing.T) {
	s := newTestStore(t, newFakeClock(), WithMaxEntries(1))

	require.NoError(t, s.Set("k", []byte("1"), NoExpiration(PriorityLow)))
	require.NoError(t, s.Set("k", []byte("2"), NoExpiration(PriorityLow)))

	assert.Equal(t, uint64(0), s.Stats().Evictions)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_RemoveExpired(t *testing.T) {
	clock := newFakeClock()
	s := newTestStore(t, clock)

	require.NoError(t, s.Set("a", []byte("a"), AbsoluteExpiration(time.Second, PriorityLow)))
	require.NoError(t, s.Set("b", []byte("b"), SlidingExpiration(time.Second, PriorityNormal)))
	require.NoError(t, s.Set("c", []byte("c"), NoExpiration(PriorityHigh)))
	clock.Advance(time.Second)

	assert.Equal(t, 2, s.removeExpired())
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_StatsCountHitsAndMisses(t *testing.T) {
	s := newTestStore(t, newFakeClock(), WithMaxEntries(10))

	require.NoError(t, s.Set("k", []byte("v"), NoExpiration(PriorityNormal)))
	_, _ = s.Get("k")
	_, _ = s.Get("k")
	_, _ = s.Get("missing")

	stats := s.Stats()
	assert.Equal(t, uint64(2), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, 10, stats.MaxEntries)
}

func TestMemoryStore_CloseIsIdempotent(t *testing.T) {
	s := NewMemoryStore(WithCleanupInterval(time.Millisecond))
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}
