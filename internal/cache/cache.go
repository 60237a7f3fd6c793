// Package cache provides the keyed tables behind the variable index.
//
// Every entry is owned by the file (or fetched import URL) that produced it.
// Re-parsing a file first drops exactly that file's entries, then
// repopulates them.
//
// Keys are global, not per file. Setting a key that another file already
// owns transfers ownership, so the most recently indexed definition wins.
package cache

import (
	"errors"
	"maps"
	"slices"
	"sync"
)

// ErrNoOwner is returned when an entry is stored without an owning file
var ErrNoOwner = errors.New("cache entry requires an owning file")

type entry[V any] struct {
	file  string
	value V
}

// Cache maps keys to values, partitioned by owning file
type Cache[V any] struct {
	entries map[string]entry[V]
	// byFile indexes keys by owner so ClearFileCache doesn't scan the table
	byFile map[string]map[string]struct{}
	mu     sync.RWMutex
}

// New creates an empty cache
func New[V any]() *Cache[V] {
	return &Cache[V]{
		entries: make(map[string]entry[V]),
		byFile:  make(map[string]map[string]struct{}),
	}
}

// Set inserts or overwrites the entry for key, recording file as its owner
func (c *Cache[V]) Set(file, key string, value V) error {
	if file == "" {
		return ErrNoOwner
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if prev, ok := c.entries[key]; ok && prev.file != file {
		c.unlinkLocked(prev.file, key)
	}
	c.entries[key] = entry[V]{file: file, value: value}
	keys, ok := c.byFile[file]
	if !ok {
		keys = make(map[string]struct{})
		c.byFile[file] = keys
	}
	keys[key] = struct{}{}
	return nil
}

// Get returns the entry for key
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	return e.value, ok
}

// GetAll returns a snapshot of every live entry. The map is a copy; the
// values are shared.
func (c *Cache[V]) GetAll() map[string]V {
	c.mu.RLock()
	defer c.mu.RUnlock()

	all := make(map[string]V, len(c.entries))
	for key, e := range c.entries {
		all[key] = e.value
	}
	return all
}

// Update replaces the value stored for key without changing its owner.
// It reports false when key is absent.
func (c *Cache[V]) Update(key string, fn func(V) V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	e.value = fn(e.value)
	c.entries[key] = e
	return true
}

// ClearFileCache removes every entry owned by file and returns how many
// were removed
func (c *Cache[V]) ClearFileCache(file string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := c.byFile[file]
	for key := range keys {
		delete(c.entries, key)
	}
	delete(c.byFile, file)
	return len(keys)
}

// ClearAllCache empties the table
func (c *Cache[V]) ClearAllCache() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry[V])
	c.byFile = make(map[string]map[string]struct{})
}

// Len returns the number of live entries
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Files returns the owners that currently hold at least one entry, sorted
func (c *Cache[V]) Files() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Sorted(maps.Keys(c.byFile))
}

func (c *Cache[V]) unlinkLocked(file, key string) {
	keys := c.byFile[file]
	delete(keys, key)
	if len(keys) == 0 {
		delete(c.byFile, file)
	}
}
