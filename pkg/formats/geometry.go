package formats

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Faultbox/nmsimport/pkg/binio"
	"github.com/Faultbox/nmsimport/pkg/math"
)

// Geometry format errors.
var (
	ErrInvalidGeometry = errors.New("invalid geometry")
	ErrCollisionRange  = errors.New("collision range outside geometry")
)

// Fixed layout constants of the geometry header stream.
const (
	HeaderOffset     = 0x60
	HeaderEnd        = 0x1A0
	JointBindingSize = 0x70
	LayoutEntrySize  = 0x20
	MeshMetadataSize = 0xA0
	MeshNameSize     = 0x80

	// MaxShortIndexVertices is the largest vertex count addressable with 16-bit indices.
	MaxShortIndexVertices = 0xFFFF
)

// JointBinding holds the bind pose of one skeleton joint.
type JointBinding struct {
	InvBindMatrix math.Mat4
	BindTranslate math.Vec3
	BindRotate    math.Quat
	BindScale     math.Vec3
	BindMatrix    math.Mat4 // composed from translate/rotate/scale
}

// BoundingBox is an axis-aligned box.
type BoundingBox struct {
	Min, Max math.Vec3
}

// MeshMetadata is one entry of the mesh metadata table.
type MeshMetadata struct {
	Name           string
	Hash           uint64
	VertexSize     uint32
	VertexOffset   uint32 // absolute offset in the payload stream
	IndexSize      uint32
	IndexOffset    uint32 // absolute offset in the payload stream
	DoubleBuffered bool
}

// MeshSlice is the vertex and index payload of one named mesh.
type MeshSlice struct {
	Name           string
	Hash           uint64
	VertexBytes    []byte
	IndexBytes     []byte
	VertexCount    uint32
	IndexWidth     int // 2 or 4, chosen per slice
	DoubleBuffered bool
}

// Geometry is a decoded geometry blob.
type Geometry struct {
	Name string

	VertexCount         int32
	IndexCount          int32
	IndexWidth          int // blob-level index width, 2 or 4
	CollisionIndexCount int32

	BoneRemap     []int16
	Joints        []JointBinding
	VertexStarts  []int32
	BoundingBoxes []BoundingBox
	HullStarts    []int32
	HullEnds      []int32
	HullVertices  []math.Vec3
	IndexBuffer   []byte

	VertexStride      uint32
	SmallVertexStride uint32
	Layout            []LayoutEntry
	SmallLayout       []LayoutEntry
	Description       string
	SmallDescription  string

	Metadata []MeshMetadata
	slices   map[uint64]*MeshSlice
}

// Slice returns the mesh slice with the given content hash.
func (g *Geometry) Slice(hash uint64) (*MeshSlice, bool) {
	s, ok := g.slices[hash]
	return s, ok
}

// Slices returns all mesh slices in metadata table order.
func (g *Geometry) Slices() []*MeshSlice {
	out := make([]*MeshSlice, 0, len(g.Metadata))
	for _, m := range g.Metadata {
		if s, ok := g.slices[m.Hash]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Release drops the payload buffers. The geometry must not be used afterwards.
func (g *Geometry) Release() {
	g.IndexBuffer = nil
	g.HullVertices = nil
	for _, s := range g.slices {
		s.VertexBytes = nil
		s.IndexBytes = nil
	}
	g.slices = nil
}

// GeometryPaths returns the header and payload stream paths for a geometry resource name,
// e.g. "A/B.GEOMETRY.MBIN" -> "A/B.GEOMETRY.MBIN.PC", "A/B.GEOMETRY.DATA.MBIN.PC".
func GeometryPaths(name string) (header, payload string) {
	header = name + ".PC"
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		payload = name[:i+1] + "DATA.MBIN.PC"
	} else {
		payload = name + ".DATA.MBIN.PC"
	}
	return header, payload
}

// IndexWidthForVertices returns 2 when every vertex is addressable with 16-bit indices, else 4.
func IndexWidthForVertices(n uint32) int {
	if n > MaxShortIndexVertices {
		return 4
	}
	return 2
}

// header holds the resolved absolute offsets and counts of the fixed header.
type header struct {
	vertexCount, indexCount, indexFlag, collisionIndexCount int32

	jointOffset      int64
	jointCount       int32
	boneRemapOffset  int64
	boneRemapCount   int32
	vertStartOffset  int64
	partCount        int32
	hullStartOffset  int64
	hullEndOffset    int64
	bboxMinOffset    int64
	bboxMaxOffset    int64
	hullVertexOffset int64
	hullVertexCount  int32

	vertexStride     uint32
	layoutOffset     int64
	layoutCount      int32
	smallStride      uint32
	smallLayoutOff   int64
	smallLayoutCount int32

	indexOffset    int64
	metadataOffset int64
	metadataCount  int32
}

// DecodeGeometry decodes a geometry blob from its header and payload streams.
// Any bounds violation or unknown element type aborts the decode; no partial result is returned.
func DecodeGeometry(headerStream, payloadStream io.ReadSeeker) (*Geometry, error) {
	c, err := binio.NewCursor(headerStream)
	if err != nil {
		return nil, err
	}
	pc, err := binio.NewCursor(payloadStream)
	if err != nil {
		return nil, err
	}

	h, err := readHeader(c)
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	g := &Geometry{
		VertexCount:         h.vertexCount,
		IndexCount:          h.indexCount,
		IndexWidth:          4,
		CollisionIndexCount: h.collisionIndexCount,
		VertexStride:        h.vertexStride,
		SmallVertexStride:   h.smallStride,
		slices:              make(map[uint64]*MeshSlice),
	}
	if h.indexFlag == 0x1 {
		g.IndexWidth = 2
	}

	steps := []struct {
		name string
		fn   func(*binio.Cursor, *header, *Geometry) error
	}{
		{"bone remap", readBoneRemap},
		{"joint bindings", readJoints},
		{"vertex starts", readVertexStarts},
		{"bounding boxes", readBoundingBoxes},
		{"bound hull ranges", readHullRanges},
		{"bound hull vertices", readHullVertices},
		{"index buffer", readIndexBuffer},
		{"mesh metadata", readMetadata},
		{"vertex layout", readLayouts},
	}
	for _, step := range steps {
		if err := step.fn(c, h, g); err != nil {
			return nil, fmt.Errorf("reading %s: %w", step.name, err)
		}
	}

	if err := readSlices(pc, g); err != nil {
		return nil, fmt.Errorf("reading mesh payload: %w", err)
	}
	return g, nil
}

// readHeader walks the fixed header. Every offset field is resolved against its own position.
func readHeader(c *binio.Cursor) (*header, error) {
	h := &header{}
	if err := c.Seek(HeaderOffset); err != nil {
		return nil, err
	}

	var err error
	read32 := func(dst *int32) {
		if err == nil {
			*dst, err = c.Int32()
		}
	}
	readU32 := func(dst *uint32) {
		if err == nil {
			*dst, err = c.Uint32()
		}
	}
	rel32 := func(dst *int64) {
		if err == nil {
			*dst, err = c.RelativeOffset32()
		}
	}
	rel64 := func(dst *int64) {
		if err == nil {
			*dst, err = c.RelativeOffset64()
		}
	}
	skip := func(n int64) {
		if err == nil {
			err = c.Skip(n)
		}
	}
	var unused int32

	read32(&h.vertexCount)
	read32(&h.indexCount)
	read32(&h.indexFlag)
	read32(&h.collisionIndexCount)

	rel32(&h.jointOffset)
	skip(0x4)
	read32(&h.jointCount)
	skip(0x4)
	// Joint extensions, mirror pairs and mirror axes.
	skip(3 * 0x10)

	rel32(&h.boneRemapOffset)
	skip(0x4)
	read32(&h.boneRemapCount)
	skip(0x4)

	rel32(&h.vertStartOffset)
	skip(0x4)
	read32(&h.partCount)
	skip(0x4)
	// Vertex ends.
	skip(0x10)

	rel32(&h.hullStartOffset)
	skip(0xC)
	rel32(&h.hullEndOffset)
	skip(0xC)
	// Matrix layouts.
	skip(0x10)

	rel32(&h.bboxMinOffset)
	skip(0xC)
	rel32(&h.bboxMaxOffset)
	skip(0xC)

	rel32(&h.hullVertexOffset)
	skip(0x4)
	read32(&h.hullVertexCount)
	skip(0x4)

	read32(&unused) // buffer count, superseded by the layout count below
	readU32(&h.vertexStride)
	skip(0x8)
	rel64(&h.layoutOffset)
	read32(&h.layoutCount)
	skip(0x4)

	read32(&h.smallLayoutCount)
	readU32(&h.smallStride)
	skip(0x8)
	rel32(&h.smallLayoutOff)
	skip(0x4)
	read32(&unused)
	skip(0x4)

	rel64(&h.indexOffset)
	skip(0x8)

	rel64(&h.metadataOffset)
	read32(&h.metadataCount)
	skip(0x4)

	if err != nil {
		return nil, err
	}

	counts := map[string]int32{
		"vertex count":         h.vertexCount,
		"index count":          h.indexCount,
		"joint count":          h.jointCount,
		"bone remap count":     h.boneRemapCount,
		"part count":           h.partCount,
		"hull vertex count":    h.hullVertexCount,
		"layout count":         h.layoutCount,
		"small layout count":   h.smallLayoutCount,
		"mesh metadata count":  h.metadataCount,
		"collision index count": h.collisionIndexCount,
	}
	for name, n := range counts {
		if n < 0 {
			return nil, fmt.Errorf("%w: negative %s %d", ErrInvalidGeometry, name, n)
		}
	}
	return h, nil
}

// checkSpan fails early when count entries of size bytes cannot fit in the stream.
func checkSpan(c *binio.Cursor, offset int64, count int32, size int64) error {
	if offset < 0 || offset+int64(count)*size > c.Size() {
		return fmt.Errorf("%w: %d x %d bytes at 0x%x exceeds stream size 0x%x",
			binio.ErrTruncatedStream, count, size, offset, c.Size())
	}
	return nil
}

func readVec3Padded(c *binio.Cursor) (math.Vec3, error) {
	f, err := c.Float32s(3)
	if err != nil {
		return math.Vec3{}, err
	}
	if err := c.Skip(4); err != nil {
		return math.Vec3{}, err
	}
	return math.Vec3{X: f[0], Y: f[1], Z: f[2]}, nil
}

func readInt32Table(c *binio.Cursor, offset int64, count int32) ([]int32, error) {
	if err := checkSpan(c, offset, count, 4); err != nil {
		return nil, err
	}
	out := make([]int32, count)
	err := c.At(offset, func() error {
		for i := range out {
			v, err := c.Int32()
			if err != nil {
				return err
			}
			out[i] = v
		}
		return nil
	})
	return out, err
}

func readBoneRemap(c *binio.Cursor, h *header, g *Geometry) error {
	raw, err := readInt32Table(c, h.boneRemapOffset, h.boneRemapCount)
	if err != nil {
		return err
	}
	g.BoneRemap = make([]int16, len(raw))
	for i, v := range raw {
		g.BoneRemap[i] = int16(v)
	}
	return nil
}

func readJoints(c *binio.Cursor, h *header, g *Geometry) error {
	if err := checkSpan(c, h.jointOffset, h.jointCount, JointBindingSize); err != nil {
		return err
	}
	g.Joints = make([]JointBinding, h.jointCount)
	return c.At(h.jointOffset, func() error {
		for i := range g.Joints {
			j := &g.Joints[i]
			inv, err := c.Float32s(16)
			if err != nil {
				return err
			}
			copy(j.InvBindMatrix[:], inv)
			if j.BindTranslate, err = readVec3Padded(c); err != nil {
				return err
			}
			q, err := c.Float32s(4)
			if err != nil {
				return err
			}
			j.BindRotate = math.Quat{X: q[0], Y: q[1], Z: q[2], W: q[3]}
			if j.BindScale, err = readVec3Padded(c); err != nil {
				return err
			}
			j.BindMatrix = math.Compose(j.BindTranslate, j.BindRotate, j.BindScale)
		}
		return nil
	})
}

func readVertexStarts(c *binio.Cursor, h *header, g *Geometry) error {
	var err error
	g.VertexStarts, err = readInt32Table(c, h.vertStartOffset, h.partCount)
	return err
}

func readBoundingBoxes(c *binio.Cursor, h *header, g *Geometry) error {
	for _, off := range []int64{h.bboxMinOffset, h.bboxMaxOffset} {
		if err := checkSpan(c, off, h.partCount, 0x10); err != nil {
			return err
		}
	}
	g.BoundingBoxes = make([]BoundingBox, h.partCount)
	err := c.At(h.bboxMinOffset, func() error {
		for i := range g.BoundingBoxes {
			v, err := readVec3Padded(c)
			if err != nil {
				return err
			}
			g.BoundingBoxes[i].Min = v
		}
		return nil
	})
	if err != nil {
		return err
	}
	return c.At(h.bboxMaxOffset, func() error {
		for i := range g.BoundingBoxes {
			v, err := readVec3Padded(c)
			if err != nil {
				return err
			}
			g.BoundingBoxes[i].Max = v
		}
		return nil
	})
}

func readHullRanges(c *binio.Cursor, h *header, g *Geometry) error {
	var err error
	if g.HullStarts, err = readInt32Table(c, h.hullStartOffset, h.partCount); err != nil {
		return err
	}
	g.HullEnds, err = readInt32Table(c, h.hullEndOffset, h.partCount)
	return err
}

func readHullVertices(c *binio.Cursor, h *header, g *Geometry) error {
	if err := checkSpan(c, h.hullVertexOffset, h.hullVertexCount, 0x10); err != nil {
		return err
	}
	g.HullVertices = make([]math.Vec3, h.hullVertexCount)
	return c.At(h.hullVertexOffset, func() error {
		for i := range g.HullVertices {
			v, err := readVec3Padded(c)
			if err != nil {
				return err
			}
			g.HullVertices[i] = v
		}
		return nil
	})
}

func readIndexBuffer(c *binio.Cursor, h *header, g *Geometry) error {
	return c.At(h.indexOffset, func() error {
		buf, err := c.Bytes(int64(h.indexCount) * int64(g.IndexWidth))
		g.IndexBuffer = buf
		return err
	})
}

func readMetadata(c *binio.Cursor, h *header, g *Geometry) error {
	if err := checkSpan(c, h.metadataOffset, h.metadataCount, MeshMetadataSize); err != nil {
		return err
	}
	g.Metadata = make([]MeshMetadata, h.metadataCount)
	return c.At(h.metadataOffset, func() error {
		for i := range g.Metadata {
			m := &g.Metadata[i]
			var err error
			if m.Name, err = c.FixedString(MeshNameSize); err != nil {
				return err
			}
			if m.Hash, err = c.Uint64(); err != nil {
				return err
			}
			for _, dst := range []*uint32{&m.VertexSize, &m.VertexOffset, &m.IndexSize, &m.IndexOffset} {
				if *dst, err = c.Uint32(); err != nil {
					return err
				}
			}
			flag, err := c.Uint8()
			if err != nil {
				return err
			}
			m.DoubleBuffered = flag != 0
			if err := c.Skip(7); err != nil {
				return err
			}
		}
		return nil
	})
}

func readLayoutTable(c *binio.Cursor, offset int64, count int32, stride uint32) ([]LayoutEntry, error) {
	if err := checkSpan(c, offset, count, LayoutEntrySize); err != nil {
		return nil, err
	}
	entries := make([]LayoutEntry, 0, count)
	err := c.At(offset, func() error {
		for i := int32(0); i < count; i++ {
			var raw [4]int32
			for k := range raw {
				v, err := c.Int32()
				if err != nil {
					return err
				}
				raw[k] = v
			}
			// raw: buffer id, element count, element type code, local offset
			e, err := NewLayoutEntry(raw[0], raw[1], raw[2], raw[3], stride)
			if err != nil {
				return fmt.Errorf("entry %d: %w", i, err)
			}
			entries = append(entries, e)
			if err := c.Skip(0x10); err != nil {
				return err
			}
		}
		return nil
	})
	return entries, err
}

func readLayouts(c *binio.Cursor, h *header, g *Geometry) error {
	var err error
	if g.Layout, err = readLayoutTable(c, h.layoutOffset, h.layoutCount, h.vertexStride); err != nil {
		return err
	}
	g.Description = DescribeLayout(g.Layout)

	if g.SmallLayout, err = readLayoutTable(c, h.smallLayoutOff, h.smallLayoutCount, h.smallStride); err != nil {
		return fmt.Errorf("small layout: %w", err)
	}
	g.SmallDescription = DescribeLayout(g.SmallLayout)
	return nil
}

// readSlices copies every slice's spans out of the payload stream.
func readSlices(pc *binio.Cursor, g *Geometry) error {
	for _, m := range g.Metadata {
		if _, dup := g.slices[m.Hash]; dup {
			return fmt.Errorf("%w: duplicate mesh hash 0x%016X (%s)", ErrInvalidGeometry, m.Hash, m.Name)
		}

		s := &MeshSlice{
			Name:           m.Name,
			Hash:           m.Hash,
			DoubleBuffered: m.DoubleBuffered,
		}
		var err error
		if err = pc.Seek(int64(m.VertexOffset)); err != nil {
			return fmt.Errorf("mesh %s vertices: %w", m.Name, err)
		}
		if s.VertexBytes, err = pc.Bytes(int64(m.VertexSize)); err != nil {
			return fmt.Errorf("mesh %s vertices: %w", m.Name, err)
		}
		if err = pc.Seek(int64(m.IndexOffset)); err != nil {
			return fmt.Errorf("mesh %s indices: %w", m.Name, err)
		}
		if s.IndexBytes, err = pc.Bytes(int64(m.IndexSize)); err != nil {
			return fmt.Errorf("mesh %s indices: %w", m.Name, err)
		}

		if g.VertexStride > 0 {
			s.VertexCount = m.VertexSize / g.VertexStride
		}
		s.IndexWidth = IndexWidthForVertices(s.VertexCount)
		g.slices[m.Hash] = s
	}
	return nil
}

// CollisionSlice is the index span and hull vertices of a collision mesh.
type CollisionSlice struct {
	Indices     []uint32 // rebased so that VertexStart maps to 0
	VertexStart int32
	VertexEnd   int32
	Hull        []math.Vec3
}

// CollisionSlice extracts batchCount indices starting at batchStart from the shared index buffer,
// rebased on vertStart, together with the bounding hull vertices [hullStart, hullEnd).
func (g *Geometry) CollisionSlice(batchStart, batchCount, vertStart, vertEnd, hullStart, hullEnd int32) (*CollisionSlice, error) {
	if batchStart < 0 || batchCount < 0 || int64(batchStart)+int64(batchCount) > int64(g.IndexCount) {
		return nil, fmt.Errorf("%w: batch %d+%d of %d indices", ErrCollisionRange, batchStart, batchCount, g.IndexCount)
	}
	if hullStart < 0 || hullEnd < hullStart || int(hullEnd) > len(g.HullVertices) {
		return nil, fmt.Errorf("%w: hull %d..%d of %d vertices", ErrCollisionRange, hullStart, hullEnd, len(g.HullVertices))
	}

	cs := &CollisionSlice{
		Indices:     make([]uint32, batchCount),
		VertexStart: vertStart,
		VertexEnd:   vertEnd,
		Hull:        append([]math.Vec3(nil), g.HullVertices[hullStart:hullEnd]...),
	}
	for i := range cs.Indices {
		idx := indexAt(g.IndexBuffer, g.IndexWidth, int(batchStart)+i)
		if int64(idx) < int64(vertStart) || int64(idx) > int64(vertEnd) {
			return nil, fmt.Errorf("%w: index %d outside vertex range %d..%d", ErrCollisionRange, idx, vertStart, vertEnd)
		}
		cs.Indices[i] = idx - uint32(vertStart)
	}
	return cs, nil
}

func indexAt(buf []byte, width, i int) uint32 {
	off := i * width
	if width == 2 {
		return uint32(buf[off]) | uint32(buf[off+1])<<8
	}
	return uint32(buf[off]) | uint32(buf[off+1])<<8 | uint32(buf[off+2])<<16 | uint32(buf[off+3])<<24
}
