package cache

import (
	"time"
)

// Store defines the key/value capability the Manager is built on.
// Implementations must be safe for concurrent use and must not expose
// key enumeration; the Manager keeps its own registry for that.
type Store interface {
	// Get retrieves a value by key. Returns ErrCacheMiss if not found or expired.
	Get(key string) ([]byte, error)

	// Set stores a value using the given expiration and priority options.
	Set(key string, value []byte, opts EntryOptions) error

	// Delete removes a value by key. Deleting an absent key is not an error.
	Delete(key string) error
}

// Expiration selects how an entry's deadline is computed.
type Expiration int

const (
	// ExpireNever keeps the entry until it is removed or evicted.
	ExpireNever Expiration = iota
	// ExpireSliding pushes the deadline to now+TTL on every successful read.
	ExpireSliding
	// ExpireAbsolute fixes the deadline at write time + TTL.
	ExpireAbsolute
)

func (e Expiration) String() string {
	switch e {
	case ExpireNever:
		return "never"
	case ExpireSliding:
		return "sliding"
	case ExpireAbsolute:
		return "absolute"
	default:
		return "unknown"
	}
}

// Priority is an eviction-order hint. It never affects correctness.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// EntryOptions describes the lifetime of a single cache entry.
type EntryOptions struct {
	Expiration Expiration
	TTL        time.Duration
	Priority   Priority
}

// NoExpiration returns options for an entry that only leaves on removal or eviction.
func NoExpiration(p Priority) EntryOptions {
	return EntryOptions{Expiration: ExpireNever, Priority: p}
}

// SlidingExpiration returns options for an entry that expires after window of inactivity.
func SlidingExpiration(window time.Duration, p Priority) EntryOptions {
	return EntryOptions{Expiration: ExpireSliding, TTL: window, Priority: p}
}

// AbsoluteExpiration returns options for an entry that expires ttl after it was written.
func AbsoluteExpiration(ttl time.Duration, p Priority) EntryOptions {
	return EntryOptions{Expiration: ExpireAbsolute, TTL: ttl, Priority: p}
}

// Validate checks that timed policies carry a positive TTL.
func (o EntryOptions) Validate() error {
	switch o.Expiration {
	case ExpireNever:
		return nil
	case ExpireSliding, ExpireAbsolute:
		if o.TTL <= 0 {
			return ErrInvalidOptions
		}
		return nil
	default:
		return ErrInvalidOptions
	}
}

// Common cache errors
type CacheError string

func (e CacheError) Error() string { return string(e) }

const (
	// ErrCacheMiss indicates the key was not found in cache.
	ErrCacheMiss CacheError = "cache miss"

	// ErrInvalidOptions indicates an entry was written with an unusable expiration policy.
	ErrInvalidOptions CacheError = "invalid cache entry options"
)
