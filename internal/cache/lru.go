package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/koustreak/lorelink/internal/errs"
)

// DefaultMaxEntries bounds an LRU built without an explicit size.
const DefaultMaxEntries = 50_000

type entry struct {
	value     any
	expiresAt time.Time
}

// LRU is a size-bounded in-memory Cache. Each entry carries its own expiry;
// expired entries are dropped lazily on read or pushed out by newer ones.
type LRU struct {
	items *lru.Cache[Key, entry]
	now   func() time.Time
}

// Option customises an LRU.
type Option func(*LRU)

// WithClock replaces time.Now, for tests that need to step past a TTL.
func WithClock(now func() time.Time) Option {
	return func(c *LRU) { c.now = now }
}

// NewLRU builds an LRU holding at most maxEntries values.
func NewLRU(maxEntries int, opts ...Option) (*LRU, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	items, err := lru.New[Key, entry](maxEntries)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "create lru cache", err)
	}

	c := &LRU{items: items, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *LRU) Get(key Key) (any, bool) {
	e, ok := c.items.Get(key)
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		c.items.Remove(key)
		return nil, false
	}
	return e.value, true
}

func (c *LRU) Set(key Key, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.items.Add(key, entry{value: value, expiresAt: c.now().Add(ttl)})
}

// Len reports the number of stored entries, expired ones included.
func (c *LRU) Len() int {
	return c.items.Len()
}

// Purge drops every entry.
func (c *LRU) Purge() {
	c.items.Purge()
}
