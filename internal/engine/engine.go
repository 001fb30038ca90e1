// Package engine is the host-engine side of an import: the registry of materials, shader
// configurations, primitive meshes and entities that imported scenes are attached to.
package engine

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/nmsimport/internal/logger"
	"github.com/Faultbox/nmsimport/internal/scene"
	"github.com/Faultbox/nmsimport/internal/texture"
	"github.com/Faultbox/nmsimport/pkg/math"
	"github.com/Faultbox/nmsimport/pkg/primitives"
)

// Registry errors.
var (
	ErrEmptyShaderSource = errors.New("empty shader source")
	ErrNilEntity         = errors.New("nil entity")
)

// Built-in material names.
const (
	DefaultMaterial   = "defaultMat"
	CollisionMaterial = "collisionMat"
	LightMaterial     = "lightMat"
)

// Built-in primitive mesh names.
const (
	PrimitiveCross       = "default_cross"
	PrimitiveLightSphere = "default_light_sphere"
)

// Registry is what the importer needs from the host engine.
type Registry interface {
	MaterialByName(name string) (*scene.Material, bool)
	ShaderConfigByHash(hash uint64) (*scene.ShaderConfig, bool)
	RegisterShaderConfig(cfg *scene.ShaderConfig) *scene.ShaderConfig
	CompileShader(cfg *scene.ShaderConfig, mat *scene.Material) (*scene.Shader, error)
	CreateTexture(path string, data []byte, wrap texture.WrapMode, minFilter, magFilter texture.Filter, srgb bool) *texture.Texture
	PrimitiveMesh(name string) (*scene.Mesh, bool)
	RegisterEntity(n *scene.Node) (uint64, error)
}

// Catalog is an in-memory Registry. It is safe for concurrent use.
type Catalog struct {
	mu sync.RWMutex

	materials  map[string]*scene.Material
	configs    map[uint64]*scene.ShaderConfig
	shaders    map[uint64]*scene.Shader
	primitives map[string]*scene.Mesh
	entities   []*scene.Node
	textures   int

	log *zap.Logger
}

// NewCatalog creates a catalog holding the built-in materials and primitive meshes.
func NewCatalog() *Catalog {
	c := &Catalog{
		materials:  make(map[string]*scene.Material),
		configs:    make(map[uint64]*scene.ShaderConfig),
		shaders:    make(map[uint64]*scene.Shader),
		primitives: make(map[string]*scene.Mesh),
		log:        logger.Named("engine"),
	}

	c.RegisterMaterial(&scene.Material{Name: DefaultMaterial, Class: "Opaque", CastShadow: true})
	collision := &scene.Material{Name: CollisionMaterial, Class: "Translucent"}
	collision.AddFlag(scene.FlagUnlit)
	c.RegisterMaterial(collision)
	light := &scene.Material{Name: LightMaterial, Class: "Opaque"}
	light.AddFlag(scene.FlagUnlit)
	c.RegisterMaterial(light)

	cross := primitives.Cross(1)
	cross.Name = PrimitiveCross
	c.RegisterPrimitive(cross)
	sphere := primitives.Sphere(math.Vec3{}, 1)
	sphere.Name = PrimitiveLightSphere
	c.RegisterPrimitive(sphere)

	return c
}

// RegisterMaterial adds or replaces a material by name.
func (c *Catalog) RegisterMaterial(m *scene.Material) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.materials[m.Name] = m
}

// MaterialByName returns a registered material.
func (c *Catalog) MaterialByName(name string) (*scene.Material, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.materials[name]
	return m, ok
}

// ShaderConfigByHash returns a registered shader configuration.
func (c *Catalog) ShaderConfigByHash(hash uint64) (*scene.ShaderConfig, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cfg, ok := c.configs[hash]
	return cfg, ok
}

// RegisterShaderConfig stores cfg under its hash. If a configuration with the same hash is
// already registered, that one is returned instead.
func (c *Catalog) RegisterShaderConfig(cfg *scene.ShaderConfig) *scene.ShaderConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.configs[cfg.Hash]; ok {
		return existing
	}
	c.configs[cfg.Hash] = cfg
	c.log.Debug("shader config registered", zap.Uint64("hash", cfg.Hash),
		zap.Bool("skinned", cfg.Skinned), zap.Bool("lit", cfg.Lit))
	return cfg
}

// ShaderDefines returns the preprocessor switches for a configuration and material.
func ShaderDefines(cfg *scene.ShaderConfig, mat *scene.Material) []string {
	var defines []string
	if cfg.Skinned {
		defines = append(defines, "_D_SKINNED")
	}
	if cfg.Lit {
		defines = append(defines, "_D_LIGHTING")
	}
	if mat != nil {
		for _, f := range mat.SortedFlags() {
			defines = append(defines, "_D_"+strings.ToUpper(f.String()))
		}
	}
	return defines
}

// CompileShader specialises cfg for mat. Shaders are cached by configuration and defines.
func (c *Catalog) CompileShader(cfg *scene.ShaderConfig, mat *scene.Material) (*scene.Shader, error) {
	if strings.TrimSpace(cfg.VertexSource) == "" || strings.TrimSpace(cfg.FragmentSource) == "" {
		return nil, fmt.Errorf("compile shader %016x: %w", cfg.Hash, ErrEmptyShaderSource)
	}

	defines := ShaderDefines(cfg, mat)
	hash := scene.HashString(fmt.Sprintf("%016x|%s", cfg.Hash, strings.Join(defines, ";")))

	c.mu.Lock()
	defer c.mu.Unlock()
	if sh, ok := c.shaders[hash]; ok {
		return sh, nil
	}
	sh := &scene.Shader{Hash: hash, Config: cfg, Defines: defines}
	c.shaders[hash] = sh
	c.log.Debug("shader compiled", zap.Uint64("hash", hash), zap.Strings("defines", defines))
	return sh, nil
}

// CreateTexture wraps texture data with its sampling state.
func (c *Catalog) CreateTexture(path string, data []byte, wrap texture.WrapMode, minFilter, magFilter texture.Filter, srgb bool) *texture.Texture {
	tex := texture.New(path, data, wrap, minFilter, magFilter, srgb)
	c.mu.Lock()
	c.textures++
	c.mu.Unlock()
	return tex
}

// RegisterPrimitive builds a mesh from s and stores it under s.Name.
func (c *Catalog) RegisterPrimitive(s *primitives.Shape) *scene.Mesh {
	m := &scene.Mesh{
		Hash:     scene.HashString(s.Name),
		Type:     scene.MeshPrimitive,
		Data:     scene.MeshDataFromShape(s),
		MetaData: scene.MetaDataFromShape(s),
	}
	if s.Topology == primitives.Triangles {
		m.Material, _ = c.MaterialByName(DefaultMaterial)
	} else {
		m.Material, _ = c.MaterialByName(LightMaterial)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.primitives[s.Name] = m
	return m
}

// PrimitiveMesh returns a registered primitive mesh.
func (c *Catalog) PrimitiveMesh(name string) (*scene.Mesh, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.primitives[name]
	return m, ok
}

// RegisterEntity records n and returns its entity id. Ids start at 1.
func (c *Catalog) RegisterEntity(n *scene.Node) (uint64, error) {
	if n == nil {
		return 0, ErrNilEntity
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entities = append(c.entities, n)
	return uint64(len(c.entities)), nil
}

// Entity returns the node registered under id.
func (c *Catalog) Entity(id uint64) (*scene.Node, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if id == 0 || id > uint64(len(c.entities)) {
		return nil, false
	}
	return c.entities[id-1], true
}

// Stats summarises the catalog contents.
type Stats struct {
	Materials     int
	ShaderConfigs int
	Shaders       int
	Primitives    int
	Entities      int
	Textures      int
}

// Stats returns the number of registered objects of each kind.
func (c *Catalog) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Materials:     len(c.materials),
		ShaderConfigs: len(c.configs),
		Shaders:       len(c.shaders),
		Primitives:    len(c.primitives),
		Entities:      len(c.entities),
		Textures:      c.textures,
	}
}

// MaterialNames returns the registered material names in order.
func (c *Catalog) MaterialNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.materials))
	for name := range c.materials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
