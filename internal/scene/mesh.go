package scene

import (
	"encoding/binary"
	gomath "math"

	"github.com/Faultbox/nmsimport/pkg/formats"
	"github.com/Faultbox/nmsimport/pkg/math"
	"github.com/Faultbox/nmsimport/pkg/primitives"
)

// MeshType tells renderers how a mesh is used.
type MeshType int

const (
	MeshDefault MeshType = iota
	MeshCollision
	MeshLight
	MeshPrimitive
)

func (t MeshType) String() string {
	switch t {
	case MeshDefault:
		return "default"
	case MeshCollision:
		return "collision"
	case MeshLight:
		return "light"
	case MeshPrimitive:
		return "primitive"
	default:
		return "unknown"
	}
}

// MeshData is the vertex and index payload of a mesh.
type MeshData struct {
	Hash         uint64
	VertexBytes  []byte
	IndexBytes   []byte
	Layout       []formats.LayoutEntry
	VertexStride uint32
	VertexCount  uint32
	IndexWidth   int
	Topology     primitives.Topology
}

// IndexCount returns the number of indices in IndexBytes.
func (d *MeshData) IndexCount() int {
	if d.IndexWidth == 0 {
		return 0
	}
	return len(d.IndexBytes) / d.IndexWidth
}

// MeshDataFromSlice wraps a decoded geometry slice with the blob's primary layout.
func MeshDataFromSlice(s *formats.MeshSlice, g *formats.Geometry) *MeshData {
	return &MeshData{
		Hash:         s.Hash,
		VertexBytes:  s.VertexBytes,
		IndexBytes:   s.IndexBytes,
		Layout:       g.Layout,
		VertexStride: g.VertexStride,
		VertexCount:  s.VertexCount,
		IndexWidth:   s.IndexWidth,
		Topology:     primitives.Triangles,
	}
}

// MeshDataFromShape packs a procedural shape with 32-bit indices.
func MeshDataFromShape(s *primitives.Shape) *MeshData {
	layout := s.Layout()
	var stride uint32
	if len(layout) > 0 {
		stride = layout[0].Stride
	}
	return &MeshData{
		Hash:         HashString(s.Name),
		VertexBytes:  s.VertexBytes(),
		IndexBytes:   s.IndexBytes(),
		Layout:       layout,
		VertexStride: stride,
		VertexCount:  uint32(s.VertexCount()),
		IndexWidth:   4,
		Topology:     s.Topology,
	}
}

// MeshDataFromCollision packs a collision slice: hull vertices as float positions and the
// rebased index span as 32-bit indices.
func MeshDataFromCollision(name string, cs *formats.CollisionSlice) *MeshData {
	const stride = 12
	vb := make([]byte, 0, len(cs.Hull)*stride)
	for _, v := range cs.Hull {
		vb = binary.LittleEndian.AppendUint32(vb, gomath.Float32bits(v.X))
		vb = binary.LittleEndian.AppendUint32(vb, gomath.Float32bits(v.Y))
		vb = binary.LittleEndian.AppendUint32(vb, gomath.Float32bits(v.Z))
	}
	ib := make([]byte, 0, len(cs.Indices)*4)
	for _, idx := range cs.Indices {
		ib = binary.LittleEndian.AppendUint32(ib, idx)
	}
	return &MeshData{
		Hash:        HashString(name),
		VertexBytes: vb,
		IndexBytes:  ib,
		Layout: []formats.LayoutEntry{{
			Semantic: formats.SemanticPosition,
			Name:     formats.SemanticName(formats.SemanticPosition),
			Type:     formats.ElementFloat,
			Count:    3,
			Stride:   stride,
		}},
		VertexStride: stride,
		VertexCount:  uint32(len(cs.Hull)),
		IndexWidth:   4,
		Topology:     primitives.Triangles,
	}
}

// MeshMetaData holds the per-node draw ranges of a mesh within its geometry file.
type MeshMetaData struct {
	BatchStartPhysics  int32
	VertrStartPhysics  int32
	VertrEndPhysics    int32
	BatchStartGraphics int32
	BatchCount         int32
	VertrStartGraphics int32
	VertrEndGraphics   int32
	FirstSkinMat       int32
	LastSkinMat        int32
	LODLevel           int32
	BoundHullStart     int32
	BoundHullEnd       int32
	AABBMin            math.Vec3
	AABBMax            math.Vec3
	Hash               uint64

	// BoneRemapIndices maps this mesh's skin matrices to skeleton joints.
	BoneRemapIndices []int32
}

// MetaDataFromShape returns draw ranges covering a whole procedural shape.
func MetaDataFromShape(s *primitives.Shape) *MeshMetaData {
	min, max := s.Bounds()
	n := int32(s.VertexCount())
	return &MeshMetaData{
		BatchCount:       int32(len(s.Indices)),
		VertrEndPhysics:  n - 1,
		VertrEndGraphics: n - 1,
		AABBMin:          min,
		AABBMax:          max,
		Hash:             HashString(s.Name),
	}
}

// Fingerprint hashes the draw ranges. Two nodes drawing the same span share a fingerprint.
func (m *MeshMetaData) Fingerprint() uint64 {
	w := newHasher()
	for _, v := range []int32{
		m.BatchStartPhysics, m.VertrStartPhysics, m.VertrEndPhysics,
		m.BatchStartGraphics, m.BatchCount, m.VertrStartGraphics, m.VertrEndGraphics,
		m.FirstSkinMat, m.LastSkinMat, m.LODLevel, m.BoundHullStart, m.BoundHullEnd,
	} {
		w.i64(int64(v))
	}
	for _, v := range []float32{m.AABBMin.X, m.AABBMin.Y, m.AABBMin.Z, m.AABBMax.X, m.AABBMax.Y, m.AABBMax.Z} {
		w.f32(v)
	}
	w.i64(int64(m.Hash))
	return w.sum()
}

// Mesh is a drawable unit: payload, draw ranges and material.
type Mesh struct {
	Hash     uint64
	Type     MeshType
	Data     *MeshData
	MetaData *MeshMetaData
	Material *Material
	Group    *MeshGroup
}

// MeshGroup is the skinning context shared by the meshes of one geometry file.
type MeshGroup struct {
	ID        int
	BoneRemap []int32
	Joints    []formats.JointBinding
	Meshes    []*Mesh
	Geometry  string
}

// NewMeshGroup copies the skinning tables of a decoded geometry file.
func NewMeshGroup(id int, g *formats.Geometry) *MeshGroup {
	mg := &MeshGroup{ID: id, Geometry: g.Name}
	mg.BoneRemap = make([]int32, len(g.BoneRemap))
	for i, b := range g.BoneRemap {
		mg.BoneRemap[i] = int32(b)
	}
	mg.Joints = append([]formats.JointBinding(nil), g.Joints...)
	return mg
}

// AddMesh appends m and points it back at the group.
func (mg *MeshGroup) AddMesh(m *Mesh) {
	m.Group = mg
	mg.Meshes = append(mg.Meshes, m)
}

// RemapRange returns the bone remap entries in [first, last). Entries past the end of the table are 0.
func (mg *MeshGroup) RemapRange(first, last int32) []int32 {
	if last <= first {
		return nil
	}
	out := make([]int32, last-first)
	for i := range out {
		src := int(first) + i
		if src >= 0 && src < len(mg.BoneRemap) {
			out[i] = mg.BoneRemap[src]
		}
	}
	return out
}
