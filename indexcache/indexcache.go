// Package indexcache gives the planner's "index cache" hint a concrete,
// exercised realisation: a small LRU of staged-file stats that lets the
// orchestrator tell plan.Choose "we've seen this file before" instead of
// passing a bare, always-false bool.
package indexcache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCapacity bounds a Cache created with New when no explicit
// capacity is supplied by the caller.
const DefaultCapacity = 256

// Stat is what the cache remembers about a previously searched staged
// file: its size at last visit and the worker count the planner chose
// for it. The orchestrator records it but does not read it back; it
// stats the file and plans again on every run.
type Stat struct {
	Bytes   int64
	Workers int
}

// Cache is an LRU of staged path to Stat. The zero value is not usable;
// construct with New.
type Cache struct {
	inner *lru.Cache[string, Stat]
}

// New returns a Cache capped at capacity entries. capacity <= 0 uses
// DefaultCapacity.
func New(capacity int) (*Cache, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	inner, err := lru.New[string, Stat](capacity)
	if err != nil {
		return nil, err
	}
	return &Cache{inner: inner}, nil
}

// Has reports whether path has a cached Stat, without affecting its
// recency. It is the planner hint: the orchestrator passes
// useIndexCache=true to plan.Choose only when Has is true for every
// staged target.
func (c *Cache) Has(path string) bool {
	if c == nil {
		return false
	}
	_, ok := c.inner.Peek(path)
	return ok
}

// Get returns the cached Stat for path, if any.
func (c *Cache) Get(path string) (Stat, bool) {
	if c == nil {
		return Stat{}, false
	}
	return c.inner.Get(path)
}

// Put records or refreshes path's Stat after a successful search.
func (c *Cache) Put(path string, stat Stat) {
	if c == nil {
		return
	}
	c.inner.Add(path, stat)
}

// Len reports the number of entries currently cached.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.inner.Len()
}
