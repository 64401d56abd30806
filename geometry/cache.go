package geometry

import (
	"container/list"
	"hash/fnv"
	"sync"
	"sync/atomic"
)

const (
	// shardCount must be a power of 2 for fast modulo via bitwise AND.
	shardCount = 8
	shardMask  = shardCount - 1

	// DefaultCapacity is the default maximum meshes per shard.
	DefaultCapacity = 16
)

// Cache is a thread-safe, sharded LRU cache of built meshes keyed by
// Spec.Key(). Tessellating the logo knot allocates ~29k vertices, so
// scenes that are rebuilt (config reload, export snapshots, tests)
// share the result.
type Cache struct {
	shards   [shardCount]*cacheShard
	capacity int

	hits   atomic.Uint64
	misses atomic.Uint64
}

type cacheShard struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	lru     *list.List // front = most recently used
}

type cacheEntry struct {
	key  string
	mesh *Mesh
}

// NewCache creates a cache holding up to capacity meshes per shard.
// If capacity <= 0, DefaultCapacity is used.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &Cache{capacity: capacity}
	for i := range c.shards {
		c.shards[i] = &cacheShard{
			entries: make(map[string]*list.Element),
			lru:     list.New(),
		}
	}
	return c
}

// shared is the process-wide cache used by Get.
var shared = NewCache(DefaultCapacity)

// Get returns the mesh for spec from the shared cache, building it on a miss.
func Get(spec Spec) *Mesh {
	return shared.Get(spec)
}

func (c *Cache) shard(key string) *cacheShard {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key)) // fnv.Write never returns an error
	return c.shards[h.Sum64()&shardMask]
}

// Get returns the cached mesh for spec or builds and stores it.
// The build runs with the shard lock held so concurrent callers never
// tessellate the same spec twice.
func (c *Cache) Get(spec Spec) *Mesh {
	key := spec.Key()
	s := c.shard(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.entries[key]; ok {
		s.lru.MoveToFront(el)
		c.hits.Add(1)
		return el.Value.(*cacheEntry).mesh
	}
	c.misses.Add(1)

	m := spec.Build()
	for s.lru.Len() >= c.capacity {
		oldest := s.lru.Back()
		s.lru.Remove(oldest)
		delete(s.entries, oldest.Value.(*cacheEntry).key)
	}
	s.entries[key] = s.lru.PushFront(&cacheEntry{key: key, mesh: m})
	return m
}

// Len returns the total number of cached meshes.
func (c *Cache) Len() int {
	total := 0
	for _, s := range c.shards {
		s.mu.Lock()
		total += s.lru.Len()
		s.mu.Unlock()
	}
	return total
}

// Stats returns hit and miss counters.
func (c *Cache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}
