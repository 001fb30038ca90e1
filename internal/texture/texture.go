// Package texture tracks texture resources shared between materials.
package texture

import (
	"sort"
	"sync"

	"github.com/Faultbox/nmsimport/internal/vfs"
	"github.com/Faultbox/nmsimport/pkg/formats"
)

// WrapMode is a texture coordinate wrap mode.
type WrapMode int

const (
	WrapRepeat WrapMode = iota
	WrapMirroredRepeat
	WrapClampToBorder
	WrapClampToEdge
)

// Filter is a texture sampling filter.
type Filter int

const (
	FilterNearest Filter = iota
	FilterLinear
	FilterLinearMipmapLinear
)

// String returns the wrap mode name.
func (w WrapMode) String() string {
	switch w {
	case WrapMirroredRepeat:
		return "MirroredRepeat"
	case WrapClampToBorder:
		return "ClampToBorder"
	case WrapClampToEdge:
		return "ClampToEdge"
	default:
		return "Repeat"
	}
}

// String returns the filter name.
func (f Filter) String() string {
	switch f {
	case FilterLinear:
		return "Linear"
	case FilterLinearMipmapLinear:
		return "LinearMipmapLinear"
	default:
		return "Nearest"
	}
}

// Texture is a texture file with its sampling state.
type Texture struct {
	Path      string
	Data      []byte
	Wrap      WrapMode
	MinFilter Filter
	MagFilter Filter
	SRGB      bool

	// Probed from the DDS header when present.
	Width     uint32
	Height    uint32
	MipLevels uint32
	Format    string

	Refs int
}

// New creates a texture and probes its DDS header. Non-DDS data is kept with zero dimensions.
func New(path string, data []byte, wrap WrapMode, minFilter, magFilter Filter, srgb bool) *Texture {
	t := &Texture{
		Path:      vfs.Clean(path),
		Data:      data,
		Wrap:      wrap,
		MinFilter: minFilter,
		MagFilter: magFilter,
		SRGB:      srgb,
	}
	if info, err := formats.ParseDDSInfo(data); err == nil {
		t.Width, t.Height = info.Width, info.Height
		t.MipLevels = info.MipLevels
		t.Format = info.FourCC
	}
	return t
}

// Manager holds textures by logical path.
type Manager struct {
	textures map[string]*Texture
	mu       sync.RWMutex
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{textures: make(map[string]*Texture)}
}

// Has reports whether a texture is loaded for path.
func (m *Manager) Has(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.textures[vfs.Clean(path)]
	return ok
}

// Get returns the texture for path.
func (m *Manager) Get(path string) (*Texture, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.textures[vfs.Clean(path)]
	return t, ok
}

// Add stores t, replacing any texture with the same path.
func (m *Manager) Add(t *Texture) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.textures[t.Path] = t
}

// Acquire increments the reference count of the texture at path.
func (m *Manager) Acquire(path string) (*Texture, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.textures[vfs.Clean(path)]
	if ok {
		t.Refs++
	}
	return t, ok
}

// Release decrements the reference count of the texture at path.
func (m *Manager) Release(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.textures[vfs.Clean(path)]; ok && t.Refs > 0 {
		t.Refs--
	}
}

// Prune drops every texture with no references and returns how many were removed.
func (m *Manager) Prune() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for path, t := range m.textures {
		if t.Refs <= 0 {
			delete(m.textures, path)
			n++
		}
	}
	return n
}

// Paths returns the loaded texture paths, sorted.
func (m *Manager) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.textures))
	for p := range m.textures {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of loaded textures.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.textures)
}
