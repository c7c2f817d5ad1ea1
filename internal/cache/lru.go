// Package cache implements spec.md §4.2's bounded LRU byte cache:
// entries keyed by (path, start_line, end_line) or (path, whole),
// evicted least-recently-used once the configured byte ceiling would be
// exceeded, with path-prefix invalidation on write. No other package in
// this module constructs one; the scan and read paths read files
// without a cache.
package cache

import (
	"container/list"
	"fmt"
	"strings"
	"sync"
)

// Key identifies one cached byte range within a file.
type Key struct {
	Path      string
	StartLine int // -1 for "whole file"
	EndLine   int // -1 for "whole file"
}

// String renders the key the way it is used internally for prefix
// matching against a path ("path prefix" invalidation per spec.md §3).
func (k Key) String() string {
	if k.StartLine < 0 {
		return fmt.Sprintf("%s\x00whole", k.Path)
	}
	return fmt.Sprintf("%s\x00%d-%d", k.Path, k.StartLine, k.EndLine)
}

type entry struct {
	key   Key
	value []byte
}

// LRU is a bounded, size-accounted, least-recently-used byte cache.
// All operations are serialized under a single lock; iteration for
// path-prefix invalidation happens while the lock is held, exactly as
// spec.md §4.2 specifies.
type LRU struct {
	mu       sync.Mutex
	ceiling  int64
	size     int64
	order    *list.List // front = most recently used
	elements map[string]*list.Element
}

// New creates an LRU cache bounded by ceiling bytes.
func New(ceiling int64) *LRU {
	return &LRU{
		ceiling:  ceiling,
		order:    list.New(),
		elements: make(map[string]*list.Element),
	}
}

// Get returns the cached bytes for key, promoting it to most-recently-used.
func (c *LRU) Get(key Key) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.elements[key.String()]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry).value, true
}

// Put inserts or replaces the bytes for key, evicting least-recently-used
// entries until the cache fits within the configured ceiling.
func (c *LRU) Put(key Key, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := key.String()
	if el, ok := c.elements[k]; ok {
		old := el.Value.(*entry)
		c.size -= int64(len(old.value))
		old.value = value
		c.size += int64(len(value))
		c.order.MoveToFront(el)
	} else {
		el := c.order.PushFront(&entry{key: key, value: value})
		c.elements[k] = el
		c.size += int64(len(value))
	}

	for c.size > c.ceiling && c.order.Len() > 0 {
		c.evictOldest()
	}
}

// evictOldest removes the least-recently-used entry. Caller holds c.mu.
func (c *LRU) evictOldest() {
	back := c.order.Back()
	if back == nil {
		return
	}
	e := back.Value.(*entry)
	c.size -= int64(len(e.value))
	delete(c.elements, e.key.String())
	c.order.Remove(back)
}

// InvalidatePath removes every entry whose key's path equals path,
// exactly matching spec.md §3's "a write to path invalidates every entry
// whose key begins with path" rule.
func (c *LRU) InvalidatePath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := path + "\x00"
	for k, el := range c.elements {
		if k == path || strings.HasPrefix(k, prefix) {
			e := el.Value.(*entry)
			c.size -= int64(len(e.value))
			c.order.Remove(el)
			delete(c.elements, k)
		}
	}
}

// Len returns the number of cached entries (for tests/metrics).
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Size returns the total number of bytes currently held.
func (c *LRU) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}
