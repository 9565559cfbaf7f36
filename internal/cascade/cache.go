package cascade

import (
	"encoding/binary"
	"slices"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/hashicorp/golang-lru/v2/simplelru"

	"github.com/yacobolo/freestyle/internal/stylesheet"
)

// DefaultCacheSize bounds the style cache when no size is configured.
const DefaultCacheSize = 512

// Key identifies a folded declaration list in a given state. Hash is only
// a bucket; two keys are the same entry when IDs and State are equal too.
type Key struct {
	Hash  uint64
	IDs   []stylesheet.ID
	State string
}

// NewKey hashes ids, in order, together with state.
func NewKey(ids []stylesheet.ID, state string) Key {
	return Key{Hash: StyleHash(ids, state), IDs: ids, State: state}
}

// StyleHash is the 64-bit xxhash of the declaration identities followed by
// the state name.
func StyleHash(ids []stylesheet.ID, state string) uint64 {
	d := xxhash.New()
	buf := make([]byte, 0, 24)
	for _, id := range ids {
		buf = buf[:0]
		buf = binary.LittleEndian.AppendUint64(buf, uint64(int64(id.Sheet)))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(int64(id.Rule)))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(int64(id.Index)))
		_, _ = d.Write(buf)
	}
	_, _ = d.WriteString(state)
	return d.Sum64()
}

func (k Key) same(o Key) bool {
	return k.Hash == o.Hash && k.State == o.State && slices.Equal(k.IDs, o.IDs)
}

// Stats are cache counters since creation or the last Purge.
type Stats struct {
	Hits       uint64
	Misses     uint64
	Collisions uint64
	Evictions  uint64
	Len        int
}

type cacheEntry[V any] struct {
	key   Key
	value V
}

// Cache is a size-bounded LRU keyed by style hash. Entries remember their
// full identity list so a hash collision is treated as a miss and the
// colliding entry is replaced.
type Cache[V any] struct {
	mu    sync.Mutex
	lru   *simplelru.LRU[uint64, cacheEntry[V]]
	stats Stats
}

// NewCache returns a cache holding at most size entries.
func NewCache[V any](size int) (*Cache[V], error) {
	lru, err := simplelru.NewLRU[uint64, cacheEntry[V]](size, nil)
	if err != nil {
		return nil, err
	}
	return &Cache[V]{lru: lru}, nil
}

// Get returns the value stored under k.
func (c *Cache[V]) Get(k Key) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.get(k)
}

func (c *Cache[V]) get(k Key) (V, bool) {
	e, ok := c.lru.Get(k.Hash)
	switch {
	case !ok:
		c.stats.Misses++
	case !e.key.same(k):
		c.stats.Misses++
		c.stats.Collisions++
	default:
		c.stats.Hits++
		return e.value, true
	}
	var zero V
	return zero, false
}

// Add stores v under k, replacing any entry in the same hash bucket.
func (c *Cache[V]) Add(k Key, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lru.Add(k.Hash, cacheEntry[V]{key: k, value: v}) {
		c.stats.Evictions++
	}
}

// GetOrCompute returns the cached value for k, or stores and returns the
// result of compute. compute runs without the lock held, so concurrent
// misses on one key may compute more than once; the results are equal.
func (c *Cache[V]) GetOrCompute(k Key, compute func() V) (v V, hit bool) {
	if v, ok := c.Get(k); ok {
		return v, true
	}
	v = compute()
	c.Add(k, v)
	return v, false
}

// Purge drops every entry and resets the counters.
func (c *Cache[V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
	c.stats = Stats{}
}

// Len returns the number of entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Stats returns a snapshot of the counters.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Len = c.lru.Len()
	return s
}
