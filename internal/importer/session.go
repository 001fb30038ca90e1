package importer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/nmsimport/internal/scene"
	"github.com/Faultbox/nmsimport/internal/template"
	"github.com/Faultbox/nmsimport/internal/vfs"
	"github.com/Faultbox/nmsimport/pkg/formats"
)

// PlaceholderName names the MODEL node that stands in for a missing nested scene.
const PlaceholderName = "DUMMY_SCENE"

// Session is the mutable context of one import. It must not be shared between goroutines.
type Session struct {
	im  *Importer
	id  uuid.UUID
	log *zap.Logger

	meshGroup *scene.MeshGroup
	clips     map[uint64]*scene.AnimationClip
	materials map[string]*scene.Material
	geometry  map[string]*formats.Geometry
	active    map[string]bool // scene paths currently being built

	scenes int
	nodes  int
	loads  int
}

// ID returns the session id used in log lines.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// MeshGroup returns the mesh group active at this point of the import.
func (s *Session) MeshGroup() *scene.MeshGroup {
	return s.meshGroup
}

// ImportScene builds the scene template at path. A missing top-level template is an error.
func (s *Session) ImportScene(path string) (*scene.Node, error) {
	s.log.Info("importing scene", zap.String("path", path))
	root, err := s.importScene(path, false)
	if err != nil {
		return nil, err
	}
	s.log.Info("scene imported", zap.String("path", path), zap.String("root", root.Name),
		zap.Int("nodes", s.nodes), zap.Int("materials", len(s.materials)), zap.Int("clips", len(s.clips)))
	return root, nil
}

func (s *Session) importScene(path string, nested bool) (*scene.Node, error) {
	key := vfs.Clean(path)
	if s.active[key] {
		return nil, fmt.Errorf("%w: scene %s references itself", template.ErrTemplateParse, path)
	}
	s.active[key] = true
	defer delete(s.active, key)

	tmpl, err := template.LoadAs[*template.SceneNode](s.im.templates, path)
	if err != nil {
		if nested && errors.Is(err, template.ErrTemplateNotFound) {
			s.log.Warn("nested scene missing, using placeholder", zap.String("path", path), zap.Error(err))
			return s.placeholder(), nil
		}
		return nil, fmt.Errorf("import scene %s: %w", path, err)
	}

	var geom *formats.Geometry
	if geomPath, ok := tmpl.Attr("GEOMETRY"); ok && geomPath != "" {
		geom = s.loadGeometry(geomPath)
		if geom != nil {
			s.meshGroup = scene.NewMeshGroup(s.scenes, geom)
		} else {
			s.meshGroup = nil
		}
	}
	s.scenes++

	return s.buildNode(tmpl, buildContext{geom: geom})
}

// importScoped imports a nested scene. The active mesh group is restored on every exit path;
// the animation cache is cleared while materials stay shared.
func (s *Session) importScoped(path string) (*scene.Node, error) {
	saved := s.meshGroup
	defer func() { s.meshGroup = saved }()

	clear(s.clips)
	return s.importScene(path, true)
}

func (s *Session) placeholder() *scene.Node {
	n := scene.NewNode(PlaceholderName, scene.NodeModel)
	n.Root = n
	n.AddComponent(identityTransform())
	n.AddComponent(&scene.SceneComponent{Nodes: []*scene.Node{n}})
	s.register(n)
	return n
}

// loadGeometry decodes a geometry file once per session. Missing or undecodable files are
// logged and yield nil.
func (s *Session) loadGeometry(name string) *formats.Geometry {
	key := vfs.Clean(name)
	if g, ok := s.geometry[key]; ok {
		return g
	}
	g, err := s.decodeGeometry(name)
	switch {
	case err != nil && isBlobError(err):
		s.log.Error("geometry decode failed", zap.String("geometry", name), zap.Error(err))
		g = nil
	case err != nil:
		s.log.Warn("geometry missing", zap.String("geometry", name), zap.Error(err))
		g = nil
	default:
		s.log.Info("geometry decoded", zap.String("geometry", name),
			zap.Int32("vertices", g.VertexCount), zap.Int32("indices", g.IndexCount),
			zap.String("layout", g.Description), zap.Int("meshes", len(g.Metadata)))
	}
	s.geometry[key] = g
	return g
}

func (s *Session) decodeGeometry(name string) (*formats.Geometry, error) {
	headerPath, payloadPath := formats.GeometryPaths(name)
	header, err := s.im.fs.Open(headerPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrGeometryNotFound, headerPath, err)
	}
	payload, err := s.im.fs.Open(payloadPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrGeometryNotFound, payloadPath, err)
	}
	s.loads++
	g, err := formats.DecodeGeometry(header, payload)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", headerPath, err)
	}
	g.Name = strings.ToUpper(name)
	return g, nil
}

func (s *Session) register(n *scene.Node) {
	s.nodes++
	if _, err := s.im.engine.RegisterEntity(n); err != nil {
		s.log.Warn("entity registration failed", zap.String("node", n.Name), zap.Error(err))
	}
}

// Close releases decoded geometry and drops textures no material references.
func (s *Session) Close() {
	for key, g := range s.geometry {
		if g != nil {
			g.Release()
		}
		delete(s.geometry, key)
	}
	clear(s.clips)
	clear(s.materials)
	s.meshGroup = nil
	pruned := s.im.textures.Prune()
	s.log.Debug("session closed", zap.Int("textures_pruned", pruned), zap.Int("geometry_loads", s.loads))
}
