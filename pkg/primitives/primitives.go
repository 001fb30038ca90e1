// Package primitives generates procedural meshes for collision volumes and editor markers.
package primitives

import (
	"encoding/binary"
	gomath "math"

	"github.com/chewxy/math32"

	"github.com/Faultbox/nmsimport/pkg/formats"
	"github.com/Faultbox/nmsimport/pkg/math"
)

// Topology is the primitive assembly mode of a shape's index list.
type Topology int

const (
	Triangles Topology = iota
	Lines
)

// Default tessellation.
const (
	DefaultSegments = 16
	DefaultStacks   = 16
)

// vertexStride is position (3 floats) followed by normal (3 floats).
const vertexStride = 24

// Shape is an indexed mesh with per-vertex positions and normals.
type Shape struct {
	Name      string
	Topology  Topology
	Positions []math.Vec3
	Normals   []math.Vec3
	Indices   []uint32
}

// VertexCount returns the number of vertices.
func (s *Shape) VertexCount() int {
	return len(s.Positions)
}

// Bounds returns the axis-aligned bounds of all positions.
func (s *Shape) Bounds() (min, max math.Vec3) {
	if len(s.Positions) == 0 {
		return
	}
	min, max = s.Positions[0], s.Positions[0]
	for _, p := range s.Positions[1:] {
		min = min.Min(p)
		max = max.Max(p)
	}
	return min, max
}

// Layout returns the interleaved vertex layout of VertexBytes.
func (s *Shape) Layout() []formats.LayoutEntry {
	return []formats.LayoutEntry{
		{Semantic: formats.SemanticPosition, Name: formats.SemanticName(formats.SemanticPosition),
			Type: formats.ElementFloat, Count: 3, Stride: vertexStride, Offset: 0},
		{Semantic: formats.SemanticNormal, Name: formats.SemanticName(formats.SemanticNormal),
			Type: formats.ElementFloat, Count: 3, Stride: vertexStride, Offset: 12},
	}
}

// VertexBytes packs positions and normals as little-endian float32s.
func (s *Shape) VertexBytes() []byte {
	out := make([]byte, 0, len(s.Positions)*vertexStride)
	for i, p := range s.Positions {
		var n math.Vec3
		if i < len(s.Normals) {
			n = s.Normals[i]
		}
		for _, f := range [6]float32{p.X, p.Y, p.Z, n.X, n.Y, n.Z} {
			out = binary.LittleEndian.AppendUint32(out, gomath.Float32bits(f))
		}
	}
	return out
}

// IndexBytes packs the index list as little-endian uint32s.
func (s *Shape) IndexBytes() []byte {
	out := make([]byte, 0, len(s.Indices)*4)
	for _, i := range s.Indices {
		out = binary.LittleEndian.AppendUint32(out, i)
	}
	return out
}

func (s *Shape) add(p, n math.Vec3) uint32 {
	s.Positions = append(s.Positions, p)
	s.Normals = append(s.Normals, n)
	return uint32(len(s.Positions) - 1)
}

// grid connects rows of equal length with two triangles per quad.
func (s *Shape) grid(first uint32, rows, cols int) {
	stride := uint32(cols + 1)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			a := first + uint32(r)*stride + uint32(c)
			b := a + stride
			s.Indices = append(s.Indices, a, b, a+1, a+1, b, b+1)
		}
	}
}

// ring returns the unit direction at polar angle theta and azimuth phi.
func ring(theta, phi float32) math.Vec3 {
	st, ct := math32.Sincos(theta)
	sp, cp := math32.Sincos(phi)
	return math.Vec3{X: st * cp, Y: ct, Z: st * sp}
}

// Sphere returns a UV sphere centred on center.
func Sphere(center math.Vec3, radius float32) *Shape {
	return SphereSegments(center, radius, DefaultStacks, DefaultSegments)
}

// SphereSegments is Sphere with explicit tessellation.
func SphereSegments(center math.Vec3, radius float32, stacks, segments int) *Shape {
	s := &Shape{Name: "sphere"}
	for i := 0; i <= stacks; i++ {
		theta := math32.Pi * float32(i) / float32(stacks)
		for j := 0; j <= segments; j++ {
			phi := 2 * math32.Pi * float32(j) / float32(segments)
			n := ring(theta, phi)
			s.add(center.Add(n.Scale(radius)), n)
		}
	}
	s.grid(0, stacks, segments)
	return s
}

// Capsule returns a Y-aligned capsule. height is the distance between the hemisphere centres,
// so the total extent along Y is height + 2*radius.
func Capsule(center math.Vec3, height, radius float32) *Shape {
	s := &Shape{Name: "capsule"}
	half := DefaultStacks / 2
	up := math.Vec3{Y: height / 2}

	// Upper hemisphere rings down to the equator, then the equator again for the lower half.
	rows := 0
	for i := 0; i <= DefaultStacks; i++ {
		offset := up
		if i > half {
			offset = up.Scale(-1)
		}
		emit := func(off math.Vec3) {
			theta := math32.Pi * float32(i) / float32(DefaultStacks)
			for j := 0; j <= DefaultSegments; j++ {
				phi := 2 * math32.Pi * float32(j) / float32(DefaultSegments)
				n := ring(theta, phi)
				s.add(center.Add(off).Add(n.Scale(radius)), n)
			}
			rows++
		}
		emit(offset)
		if i == half {
			emit(up.Scale(-1))
		}
	}
	s.grid(0, rows-1, DefaultSegments)
	return s
}

// Cylinder returns a capped, Y-aligned cylinder centred on the origin.
func Cylinder(radius, height float32) *Shape {
	s := &Shape{Name: "cylinder"}
	top, bottom := height/2, -height/2

	// Side wall: two rings with outward normals.
	for _, y := range []float32{top, bottom} {
		for j := 0; j <= DefaultSegments; j++ {
			phi := 2 * math32.Pi * float32(j) / float32(DefaultSegments)
			sp, cp := math32.Sincos(phi)
			n := math.Vec3{X: cp, Z: sp}
			s.add(math.Vec3{X: radius * cp, Y: y, Z: radius * sp}, n)
		}
	}
	s.grid(0, 1, DefaultSegments)

	// Caps as triangle fans.
	for _, end := range []struct {
		y float32
		n math.Vec3
	}{{top, math.Vec3{Y: 1}}, {bottom, math.Vec3{Y: -1}}} {
		c := s.add(math.Vec3{Y: end.y}, end.n)
		first := uint32(len(s.Positions))
		for j := 0; j <= DefaultSegments; j++ {
			phi := 2 * math32.Pi * float32(j) / float32(DefaultSegments)
			sp, cp := math32.Sincos(phi)
			s.add(math.Vec3{X: radius * cp, Y: end.y, Z: radius * sp}, end.n)
		}
		for j := uint32(0); j < DefaultSegments; j++ {
			s.Indices = append(s.Indices, c, first+j, first+j+1)
		}
	}
	return s
}

// Box returns an axis-aligned box centred on the origin with per-face normals.
func Box(width, height, depth float32) *Shape {
	s := &Shape{Name: "box"}
	h := math.Vec3{X: width / 2, Y: height / 2, Z: depth / 2}

	faces := []struct {
		n, u, v math.Vec3
	}{
		{math.Vec3{X: 1}, math.Vec3{Z: -1}, math.Vec3{Y: 1}},
		{math.Vec3{X: -1}, math.Vec3{Z: 1}, math.Vec3{Y: 1}},
		{math.Vec3{Y: 1}, math.Vec3{X: 1}, math.Vec3{Z: -1}},
		{math.Vec3{Y: -1}, math.Vec3{X: 1}, math.Vec3{Z: 1}},
		{math.Vec3{Z: 1}, math.Vec3{X: 1}, math.Vec3{Y: 1}},
		{math.Vec3{Z: -1}, math.Vec3{X: -1}, math.Vec3{Y: 1}},
	}
	scale := func(a math.Vec3) math.Vec3 {
		return math.Vec3{X: a.X * h.X, Y: a.Y * h.Y, Z: a.Z * h.Z}
	}
	for _, f := range faces {
		centre := scale(f.n)
		u, v := scale(f.u), scale(f.v)
		base := s.add(centre.Sub(u).Sub(v), f.n)
		s.add(centre.Add(u).Sub(v), f.n)
		s.add(centre.Add(u).Add(v), f.n)
		s.add(centre.Sub(u).Add(v), f.n)
		s.Indices = append(s.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return s
}

// LineSegment returns a single line from a to b.
func LineSegment(a, b math.Vec3) *Shape {
	s := &Shape{Name: "line", Topology: Lines}
	dir := b.Sub(a).Normalize()
	s.add(a, dir)
	s.add(b, dir)
	s.Indices = []uint32{0, 1}
	return s
}

// Cross returns three axis-aligned lines of the given half-length through the origin.
func Cross(size float32) *Shape {
	s := &Shape{Name: "cross", Topology: Lines}
	for _, axis := range []math.Vec3{{X: 1}, {Y: 1}, {Z: 1}} {
		a := s.add(axis.Scale(-size), axis)
		b := s.add(axis.Scale(size), axis)
		s.Indices = append(s.Indices, a, b)
	}
	return s
}
