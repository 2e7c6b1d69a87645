package content

import (
	"slices"
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
)

// DefaultCacheCapacity is the number of listings an LRUCache keeps.
const DefaultCacheCapacity = 100

// CacheKey identifies one cached listing.
type CacheKey struct {
	Locale string
	Drafts bool
}

func (k CacheKey) String() string {
	if k.Drafts {
		return "all:" + k.Locale + ":with-draft"
	}
	return "all:" + k.Locale + ":no-draft"
}

// CacheState is the outcome of a cache lookup.
type CacheState int

const (
	CacheMiss CacheState = iota
	CacheFresh
	CacheStale
)

func (s CacheState) String() string {
	switch s {
	case CacheFresh:
		return "fresh"
	case CacheStale:
		return "stale"
	default:
		return "miss"
	}
}

// Cache memoizes post listings. Implementations must be safe for
// concurrent use. Caching never changes results, only how often the content
// directory is scanned.
type Cache interface {
	Get(key CacheKey) ([]PostMeta, CacheState)
	Add(key CacheKey, posts []PostMeta)
	Purge()
}

// Policy sets how long cached listings are trusted. An entry younger than
// Stale is fresh; one between Stale and Expire is served while a refresh
// runs; one older than Expire is dropped. Zero durations disable the
// respective limit.
type Policy struct {
	Stale  time.Duration
	Expire time.Duration
}

func (p Policy) state(age time.Duration) CacheState {
	if p.Expire > 0 && age >= p.Expire {
		return CacheMiss
	}
	if p.Stale > 0 && age >= p.Stale {
		return CacheStale
	}
	return CacheFresh
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) Get(CacheKey) ([]PostMeta, CacheState) { return nil, CacheMiss }
func (NopCache) Add(CacheKey, []PostMeta)              {}
func (NopCache) Purge()                                {}

type lruEntry struct {
	posts  []PostMeta
	stored time.Time
}

// LRUCache is a capacity-bounded Cache evicting the least recently used
// listing first.
type LRUCache struct {
	mu     sync.Mutex
	lru    *lru.Cache
	policy Policy
	now    func() time.Time
}

// NewLRUCache returns an LRUCache holding up to capacity listings.
func NewLRUCache(capacity int, policy Policy) *LRUCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &LRUCache{lru: lru.New(capacity), policy: policy, now: time.Now}
}

// Get returns a copy of the cached listing and marks it recently used.
func (c *LRUCache) Get(key CacheKey) ([]PostMeta, CacheState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.lru.Get(key)
	if !ok {
		return nil, CacheMiss
	}
	e := v.(lruEntry)
	state := c.policy.state(c.now().Sub(e.stored))
	if state == CacheMiss {
		c.lru.Remove(key)
		return nil, CacheMiss
	}
	return slices.Clone(e.posts), state
}

// Add stores a copy of posts under key, evicting the oldest entry when the
// cache is full.
func (c *LRUCache) Add(key CacheKey, posts []PostMeta) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, lruEntry{posts: slices.Clone(posts), stored: c.now()})
}

// Purge drops every entry.
func (c *LRUCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Clear()
}

// Len returns the number of cached listings.
func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
