// Package cache provides a thread-safe LRU cache for resolved member descriptors.
//
// The member resolver keys it by textual signature, so decoding many trees
// that call the same handful of methods walks type metadata only once per
// signature.
//
// # Example
//
//	c := cache.New(1024)
//	m, err := c.GetOrResolve("method demo.Point.Scale(int32)", resolve)
package cache

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/sandrolain/exprtree/pkg/types"
)

const defaultCapacity = 256

// slot is one list element payload.
type slot struct {
	signature string
	owner     string // declaring type name, for InvalidateType
	member    *types.Member
}

// Cache is an LRU cache of member descriptors keyed by signature.
//
// Safe for concurrent use by multiple goroutines.
type Cache struct {
	mu       sync.RWMutex
	capacity int
	order    *list.List // front is most recently used
	bySig    map[string]*list.Element

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// Stats is a snapshot of cache effectiveness.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Len       int
}

// New creates a cache holding up to capacity members. A capacity <= 0
// selects the default of 256.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Cache{
		capacity: capacity,
		order:    list.New(),
		bySig:    make(map[string]*list.Element, capacity),
	}
}

// Get returns the member cached under signature and marks it most recently
// used.
func (c *Cache) Get(signature string) (*types.Member, bool) {
	var m *types.Member
	c.mu.RLock()
	el, ok := c.bySig[signature]
	front := ok && c.order.Front() == el
	if ok {
		m = el.Value.(*slot).member
	}
	c.mu.RUnlock()

	if ok && !front {
		// The entry may have been evicted between the two locks.
		c.mu.Lock()
		if el, ok = c.bySig[signature]; ok {
			c.order.MoveToFront(el)
			m = el.Value.(*slot).member
		}
		c.mu.Unlock()
	}
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return m, true
}

// Set caches m under signature, evicting the least recently used member
// when the cache is full.
func (c *Cache) Set(signature string, m *types.Member) {
	s := &slot{signature: signature, member: m}
	if m != nil && m.DeclaringType != nil {
		s.owner = m.DeclaringType.Name
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.bySig[signature]; ok {
		el.Value = s
		c.order.MoveToFront(el)
		return
	}
	for c.order.Len() >= c.capacity {
		c.removeLocked(c.order.Back())
		c.evictions.Add(1)
	}
	c.bySig[signature] = c.order.PushFront(s)
}

// GetOrResolve returns the cached member for signature or calls resolve and
// caches its result. Errors are returned as is and never cached.
func (c *Cache) GetOrResolve(signature string, resolve func() (*types.Member, error)) (*types.Member, error) {
	if m, ok := c.Get(signature); ok {
		return m, nil
	}
	m, err := resolve()
	if err != nil {
		return nil, err
	}
	c.Set(signature, m)
	return m, nil
}

// Len returns the number of cached members.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.order.Len()
}

// Capacity returns the maximum number of cached members.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Stats returns counters accumulated since creation.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Len:       c.Len(),
	}
}

// Invalidate drops the member cached under signature.
func (c *Cache) Invalidate(signature string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.bySig[signature]; ok {
		c.removeLocked(el)
	}
}

// InvalidateType drops every cached member declared by the named type and
// reports how many were dropped.
func (c *Cache) InvalidateType(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for el := c.order.Front(); el != nil; {
		next := el.Next()
		if el.Value.(*slot).owner == name {
			c.removeLocked(el)
			n++
		}
		el = next
	}
	return n
}

// Clear drops every cached member. Counters are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	clear(c.bySig)
}

// removeLocked unlinks el. c.mu must be held for writing.
func (c *Cache) removeLocked(el *list.Element) {
	if el == nil {
		return
	}
	c.order.Remove(el)
	delete(c.bySig, el.Value.(*slot).signature)
}
