package vfs

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/nmsimport/internal/logger"
)

// Manager resolves paths against an ordered stack of sources.
// Sources are searched in reverse order (last added = highest priority).
type Manager struct {
	sources []Source
	cache   *Cache
	mu      sync.RWMutex
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
	}
}

// AddSource pushes a source on top of the stack.
func (m *Manager) AddSource(src Source) {
	m.mu.Lock()
	m.sources = append(m.sources, src)
	m.mu.Unlock()

	// Earlier reads may now be shadowed.
	m.cache.Clear()
	logger.Named("vfs").Debug("source added", zap.String("source", src.Name()))
}

// AddDir indexes a directory and adds it as a source.
func (m *Manager) AddDir(root string) error {
	d, err := OpenDir(root)
	if err != nil {
		return fmt.Errorf("adding source %s: %w", root, err)
	}
	m.AddSource(d)
	return nil
}

// Load returns the full contents of a file.
func (m *Manager) Load(path string) ([]byte, error) {
	key := Clean(path)
	if data, ok := m.cache.Get(key); ok {
		return data, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.sources) - 1; i >= 0; i-- {
		if !m.sources[i].Contains(key) {
			continue
		}
		data, err := m.sources[i].Read(key)
		if err != nil {
			return nil, err
		}
		m.cache.Set(key, data)
		return data, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNotExist, path)
}

// Open implements FileSystem.
func (m *Manager) Open(path string) (io.ReadSeeker, error) {
	data, err := m.Load(path)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

// Exists implements FileSystem.
func (m *Manager) Exists(path string) bool {
	key := Clean(path)
	if m.cache.Has(key) {
		return true
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.sources) - 1; i >= 0; i-- {
		if m.sources[i].Contains(key) {
			return true
		}
	}
	return false
}

// List returns the sorted union of every source's paths. A non-empty pattern filters them
// with path.Match semantics against the canonical path.
func (m *Manager) List(pattern string) ([]string, error) {
	pattern = Clean(pattern)
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("list pattern %q: %w", pattern, err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, src := range m.sources {
		for _, p := range src.List() {
			if seen[p] {
				continue
			}
			if pattern != "" {
				if ok, _ := path.Match(pattern, p); !ok {
					continue
				}
			}
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Evict drops one path from the byte cache.
func (m *Manager) Evict(path string) {
	m.cache.Delete(Clean(path))
}

// Stats returns cache statistics.
func (m *Manager) Stats() (hits, misses int) {
	return m.cache.Stats()
}

// Close closes all sources.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, src := range m.sources {
		if err := src.Close(); err != nil {
			logger.Named("vfs").Warn("closing source", zap.String("source", src.Name()), zap.Error(err))
		}
	}
	m.sources = nil
	m.cache.Clear()
}

// Cache is a simple in-memory cache for loaded files.
type Cache struct {
	data map[string][]byte
	mu   sync.Mutex

	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Has reports presence without touching the statistics.
func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Delete removes one item.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
