package vfs

import (
	"fmt"
	"sort"
	"sync"
)

// Memory is a Source holding files in a map.
type Memory struct {
	name  string
	files map[string][]byte
	mu    sync.RWMutex
}

// NewMemory creates a memory source preloaded with files.
func NewMemory(name string, files map[string][]byte) *Memory {
	m := &Memory{name: name, files: make(map[string][]byte, len(files))}
	for path, data := range files {
		m.files[Clean(path)] = data
	}
	return m
}

// Put adds or replaces a file.
func (m *Memory) Put(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[Clean(path)] = data
}

// Name returns the source name.
func (m *Memory) Name() string {
	return m.name
}

// Contains checks if a file exists.
func (m *Memory) Contains(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[Clean(path)]
	return ok
}

// Read returns the stored bytes.
func (m *Memory) Read(path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[Clean(path)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, path)
	}
	return data, nil
}

// List returns all logical paths, sorted.
func (m *Memory) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]string, 0, len(m.files))
	for path := range m.files {
		result = append(result, path)
	}
	sort.Strings(result)
	return result
}

// Close drops all files.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files = make(map[string][]byte)
	return nil
}
