// Package geomtest builds synthetic geometry blobs for tests.
package geomtest

import (
	"encoding/binary"
	gomath "math"

	"github.com/Faultbox/nmsimport/pkg/encoding"
	"github.com/Faultbox/nmsimport/pkg/formats"
)

// Mesh is one mesh slice written into the payload stream.
type Mesh struct {
	Name           string
	Hash           uint64
	Vertices       []byte
	Indices        []byte
	DoubleBuffered bool
}

// Joint is one joint binding record.
type Joint struct {
	InvBind   [16]float32
	Translate [3]float32
	Rotate    [4]float32 // x, y, z, w
	Scale     [3]float32
}

// Layout is one raw vertex layout record.
type Layout struct {
	Semantic int32
	Count    int32
	TypeCode int32
	Offset   int32
}

// Blob describes a geometry blob. Zero values produce empty sections.
type Blob struct {
	VertexCount         int32
	IndexCount          int32 // derived from IndexBuffer when zero
	ShortIndices        bool
	CollisionIndexCount int32

	Joints       []Joint
	BoneRemap    []int32
	VertexStarts []int32 // defines the part count
	BBoxMin      [][3]float32
	BBoxMax      [][3]float32
	HullStarts   []int32
	HullEnds     []int32
	HullVertices [][3]float32

	VertexStride uint32
	Layout       []Layout
	SmallStride  uint32
	SmallLayout  []Layout

	IndexBuffer []byte
	Meshes      []Mesh
}

// DefaultLayout is a position/uv/normal/tangent/colour layout with a 0x24 byte stride.
func DefaultLayout() []Layout {
	return []Layout{
		{formats.SemanticPosition, 4, formats.CodeHalfFloat, 0},
		{formats.SemanticUV0, 4, formats.CodeHalfFloat, 8},
		{formats.SemanticNormal, 4, formats.CodeInt2101010Rev, 16},
		{formats.SemanticTangent, 4, formats.CodeInt2101010Rev, 20},
		{formats.SemanticColour, 4, formats.CodeUnsignedByte, 24},
	}
}

// Indices16 packs 16-bit indices.
func Indices16(v ...uint16) []byte {
	out := make([]byte, 2*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint16(out[2*i:], x)
	}
	return out
}

// Indices32 packs 32-bit indices.
func Indices32(v ...uint32) []byte {
	out := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(out[4*i:], x)
	}
	return out
}

type writer struct {
	buf []byte
}

func (w *writer) putI32(at int, v int32) {
	binary.LittleEndian.PutUint32(w.buf[at:], uint32(v))
}

func (w *writer) putU32(at int, v uint32) {
	binary.LittleEndian.PutUint32(w.buf[at:], v)
}

// rel32 points the 32-bit offset field at `at` to the absolute offset target.
func (w *writer) rel32(at, target int) {
	w.putI32(at, int32(target-at))
}

func (w *writer) rel64(at, target int) {
	binary.LittleEndian.PutUint64(w.buf[at:], uint64(int64(target-at)))
}

func (w *writer) appendBytes(b []byte) int {
	off := len(w.buf)
	w.buf = append(w.buf, b...)
	return off
}

func (w *writer) appendI32s(v []int32) int {
	off := len(w.buf)
	for _, x := range v {
		w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(x))
	}
	return off
}

func (w *writer) appendF32s(v ...float32) {
	for _, f := range v {
		w.buf = binary.LittleEndian.AppendUint32(w.buf, gomath.Float32bits(f))
	}
}

func (w *writer) appendVec3s(v [][3]float32) int {
	off := len(w.buf)
	for _, p := range v {
		w.appendF32s(p[0], p[1], p[2], 0)
	}
	return off
}

func (w *writer) appendLayout(entries []Layout) int {
	off := len(w.buf)
	for _, e := range entries {
		w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(e.Semantic))
		w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(e.Count))
		w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(e.TypeCode))
		w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(e.Offset))
		w.buf = append(w.buf, make([]byte, 0x10)...)
	}
	return off
}

// Build serializes the blob into its header and payload streams.
func (b *Blob) Build() (header, payload []byte) {
	w := &writer{buf: make([]byte, formats.HeaderEnd)}

	width := 4
	flag := int32(0)
	if b.ShortIndices {
		width, flag = 2, 1
	}
	indexCount := b.IndexCount
	if indexCount == 0 {
		indexCount = int32(len(b.IndexBuffer) / width)
	}
	parts := int32(len(b.VertexStarts))

	w.putI32(0x60, b.VertexCount)
	w.putI32(0x64, indexCount)
	w.putI32(0x68, flag)
	w.putI32(0x6C, b.CollisionIndexCount)

	jointOff := len(w.buf)
	for _, j := range b.Joints {
		w.appendF32s(j.InvBind[:]...)
		w.appendF32s(j.Translate[0], j.Translate[1], j.Translate[2], 0)
		w.appendF32s(j.Rotate[:]...)
		w.appendF32s(j.Scale[0], j.Scale[1], j.Scale[2], 0)
	}
	w.rel32(0x70, jointOff)
	w.putI32(0x78, int32(len(b.Joints)))

	w.rel32(0xB0, w.appendI32s(b.BoneRemap))
	w.putI32(0xB8, int32(len(b.BoneRemap)))

	w.rel32(0xC0, w.appendI32s(b.VertexStarts))
	w.putI32(0xC8, parts)

	w.rel32(0xE0, w.appendI32s(padI32(b.HullStarts, parts)))
	w.rel32(0xF0, w.appendI32s(padI32(b.HullEnds, parts)))
	w.rel32(0x110, w.appendVec3s(padVec3(b.BBoxMin, parts)))
	w.rel32(0x120, w.appendVec3s(padVec3(b.BBoxMax, parts)))

	w.rel32(0x130, w.appendVec3s(b.HullVertices))
	w.putI32(0x138, int32(len(b.HullVertices)))

	w.putI32(0x140, int32(len(b.Layout)))
	w.putU32(0x144, b.VertexStride)
	w.rel64(0x150, w.appendLayout(b.Layout))
	w.putI32(0x158, int32(len(b.Layout)))

	w.putI32(0x160, int32(len(b.SmallLayout)))
	w.putU32(0x164, b.SmallStride)
	w.rel32(0x170, w.appendLayout(b.SmallLayout))

	w.rel64(0x180, w.appendBytes(b.IndexBuffer))

	// Payload: each mesh's vertices followed by its indices.
	var body []byte
	metaOff := len(w.buf)
	for _, m := range b.Meshes {
		vsOff := len(body)
		body = append(body, m.Vertices...)
		isOff := len(body)
		body = append(body, m.Indices...)

		w.buf = append(w.buf, encoding.PutFixedString(m.Name, formats.MeshNameSize)...)
		w.buf = binary.LittleEndian.AppendUint64(w.buf, m.Hash)
		w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(len(m.Vertices)))
		w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(vsOff))
		w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(len(m.Indices)))
		w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(isOff))
		if m.DoubleBuffered {
			w.buf = append(w.buf, 1)
		} else {
			w.buf = append(w.buf, 0)
		}
		w.buf = append(w.buf, make([]byte, 7)...)
	}
	w.rel64(0x190, metaOff)
	w.putI32(0x198, int32(len(b.Meshes)))

	return w.buf, body
}

// Files returns the blob keyed by the stream paths derived from a geometry resource name.
func (b *Blob) Files(name string) map[string][]byte {
	header, payload := b.Build()
	hp, pp := formats.GeometryPaths(name)
	return map[string][]byte{hp: header, pp: payload}
}

func padI32(v []int32, n int32) []int32 {
	out := make([]int32, n)
	copy(out, v)
	return out
}

func padVec3(v [][3]float32, n int32) [][3]float32 {
	out := make([][3]float32, n)
	copy(out, v)
	return out
}
