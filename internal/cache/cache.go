package cache

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// TTL is a small concurrency-safe in-process cache for upstream responses.
// Entries expire after a fixed TTL; when the cache is full the oldest entry
// is evicted. Good enough for a single process in front of rate-limited
// provider APIs.
type TTL[V any] struct {
	mu    sync.Mutex
	clock clockwork.Clock

	ttl      time.Duration
	maxItems int
	data     map[string]item[V]

	hits      int64
	misses    int64
	sets      int64
	evictions int64
}

type item[V any] struct {
	storedAt time.Time
	value    V
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	TTLSeconds int   `json:"ttl_s"`
	Size       int   `json:"size"`
	MaxItems   int   `json:"max_items"`
	Hits       int64 `json:"hits"`
	Misses     int64 `json:"misses"`
	Sets       int64 `json:"sets"`
	Evictions  int64 `json:"evictions"`
}

// New creates a TTL cache using the real clock.
func New[V any](ttl time.Duration, maxItems int) *TTL[V] {
	return NewWithClock[V](ttl, maxItems, clockwork.NewRealClock())
}

// NewWithClock creates a TTL cache with an injected clock, for tests.
func NewWithClock[V any](ttl time.Duration, maxItems int, clock clockwork.Clock) *TTL[V] {
	return &TTL[V]{
		clock:    clock,
		ttl:      ttl,
		maxItems: maxItems,
		data:     make(map[string]item[V]),
	}
}

// Get returns the cached value for key if present and not expired.
func (c *TTL[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	it, ok := c.data[key]
	if !ok {
		c.misses++
		return zero, false
	}
	if c.clock.Since(it.storedAt) > c.ttl {
		delete(c.data, key)
		c.misses++
		return zero, false
	}
	c.hits++
	return it.value, true
}

// Set stores value under key, evicting the oldest entry when full.
func (c *TTL[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.data[key]; !exists && len(c.data) >= c.maxItems {
		c.evictOldest()
	}
	c.data[key] = item[V]{storedAt: c.clock.Now(), value: value}
	c.sets++
}

func (c *TTL[V]) evictOldest() {
	var oldestKey string
	var oldestAt time.Time
	first := true
	for k, it := range c.data {
		if first || it.storedAt.Before(oldestAt) {
			oldestKey, oldestAt = k, it.storedAt
			first = false
		}
	}
	if !first {
		delete(c.data, oldestKey)
		c.evictions++
	}
}

// Stats returns a snapshot of the cache counters.
func (c *TTL[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		TTLSeconds: int(c.ttl.Seconds()),
		Size:       len(c.data),
		MaxItems:   c.maxItems,
		Hits:       c.hits,
		Misses:     c.misses,
		Sets:       c.sets,
		Evictions:  c.evictions,
	}
}
