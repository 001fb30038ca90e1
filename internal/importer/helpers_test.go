package importer

import (
	"fmt"
	"testing"

	"github.com/Faultbox/nmsimport/internal/engine"
	"github.com/Faultbox/nmsimport/internal/template"
	"github.com/Faultbox/nmsimport/internal/vfs"
	"github.com/Faultbox/nmsimport/pkg/formats"
	"github.com/Faultbox/nmsimport/pkg/formats/geomtest"
)

const (
	scenePath = "MODELS/TEST/ROCK.SCENE.MBIN"
	geomPath  = "MODELS/TEST/ROCK.GEOMETRY.MBIN"
	matPath   = "MODELS/TEST/ROCK/ROCK.MATERIAL.MBIN"
	animPath  = "MODELS/TEST/ANIMS/WALK.ANIM.MBIN"
)

// memLoader serves records from a map and counts loads per path.
type memLoader struct {
	records map[string]template.Record
	loads   map[string]int
}

func (l *memLoader) Load(path string) (template.Record, error) {
	key := vfs.Clean(path)
	l.loads[key]++
	rec, ok := l.records[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", template.ErrTemplateNotFound, path)
	}
	return rec, nil
}

type harness struct {
	t       *testing.T
	loader  *memLoader
	files   *vfs.Memory
	fs      *vfs.Manager
	catalog *engine.Catalog
	opts    Options
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		t:       t,
		loader:  &memLoader{records: map[string]template.Record{}, loads: map[string]int{}},
		files:   vfs.NewMemory("test", nil),
		fs:      vfs.NewManager(),
		catalog: engine.NewCatalog(),
	}
	h.fs.AddSource(h.files)
	return h
}

func (h *harness) put(path string, rec template.Record) {
	h.loader.records[vfs.Clean(path)] = rec
}

func (h *harness) file(path string, data []byte) {
	h.files.Put(path, data)
}

func (h *harness) geometry(name string, b *geomtest.Blob) {
	for path, data := range b.Files(name) {
		h.files.Put(path, data)
	}
}

func (h *harness) importer() *Importer {
	return New(h.fs, h.loader, h.catalog, h.opts)
}

func (h *harness) importScene(path string) *sceneResult {
	h.t.Helper()
	s := h.importer().NewSession()
	root, err := s.ImportScene(path)
	if err != nil {
		h.t.Fatalf("ImportScene(%s) failed: %v", path, err)
	}
	return &sceneResult{root: root, session: s}
}

// attrs builds an attribute list from name/value pairs.
func attrs(kv ...string) []template.Attribute {
	out := make([]template.Attribute, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, template.Attribute{Name: kv[i], Value: kv[i+1]})
	}
	return out
}

func tnode(name, typ string, attributes []template.Attribute, children ...*template.SceneNode) *template.SceneNode {
	return &template.SceneNode{
		Name:       name,
		Type:       typ,
		Transform:  template.IdentityTransform(),
		Attributes: attributes,
		Children:   children,
	}
}

// testBlob has one mesh slice (hash 0xA1 = 161), bone remap [5, 9] and a three vertex hull.
func testBlob() *geomtest.Blob {
	return &geomtest.Blob{
		VertexCount:  4,
		ShortIndices: true,
		BoneRemap:    []int32{5, 9},
		VertexStarts: []int32{0},
		HullStarts:   []int32{0},
		HullEnds:     []int32{3},
		HullVertices: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		VertexStride: 0x24,
		Layout:       geomtest.DefaultLayout(),
		SmallStride:  8,
		SmallLayout:  []geomtest.Layout{{formats.SemanticPosition, 4, formats.CodeHalfFloat, 0}},
		IndexBuffer:  geomtest.Indices16(0, 1, 2, 1, 2, 3),
		Meshes: []geomtest.Mesh{
			{Name: "ROCK", Hash: 0xA1, Vertices: make([]byte, 4*0x24), Indices: geomtest.Indices16(0, 1, 2, 1, 2, 3)},
		},
	}
}
