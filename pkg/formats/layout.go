package formats

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownElementType is returned for a vertex element type code with no known decoding.
var ErrUnknownElementType = errors.New("unknown vertex element type")

// ElementType is the primitive data type of one vertex attribute component.
type ElementType int

const (
	ElementHalfFloat    ElementType = iota // 16-bit float
	ElementUnsignedByte                    // 8-bit unsigned
	ElementInt2101010Rev                   // packed signed 2-10-10-10, reversed
	ElementFloat                           // 32-bit float, used by procedural meshes only
)

// Element type codes as stored in vertex layout tables.
const (
	CodeHalfFloat     int32 = 0x140B
	CodeUnsignedByte  int32 = 0x1401
	CodeInt2101010Rev int32 = 0x8D9F
)

var elementTypeCodes = map[int32]ElementType{
	CodeHalfFloat:     ElementHalfFloat,
	CodeUnsignedByte:  ElementUnsignedByte,
	CodeInt2101010Rev: ElementInt2101010Rev,
}

// ElementTypeFromCode maps a layout table code to its element type.
func ElementTypeFromCode(code int32) (ElementType, error) {
	t, ok := elementTypeCodes[code]
	if !ok {
		return 0, fmt.Errorf("%w: 0x%X", ErrUnknownElementType, code)
	}
	return t, nil
}

// String returns a human-readable element type name.
func (t ElementType) String() string {
	switch t {
	case ElementHalfFloat:
		return "HalfFloat"
	case ElementUnsignedByte:
		return "UnsignedByte"
	case ElementInt2101010Rev:
		return "Int2101010Rev"
	case ElementFloat:
		return "Float"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// Semantic ids used by vertex layout tables.
const (
	SemanticPosition     int32 = 0
	SemanticUV0          int32 = 1
	SemanticNormal       int32 = 2
	SemanticTangent      int32 = 3
	SemanticColour       int32 = 4
	SemanticBlendIndices int32 = 5
	SemanticBlendWeights int32 = 6
)

// UnknownSemantic is the role name given to ids outside the semantic table.
const UnknownSemantic = "unknown"

type semanticInfo struct {
	name      string
	code      byte
	normalize bool
}

var semantics = map[int32]semanticInfo{
	SemanticPosition:     {"vPosition", 'v', false},
	SemanticUV0:          {"uvPosition0", 'u', false},
	SemanticNormal:       {"nPosition", 'n', false},
	SemanticTangent:      {"tPosition", 't', false},
	SemanticColour:       {"bPosition", 'p', true},
	SemanticBlendIndices: {"blendIndices", 'b', false},
	SemanticBlendWeights: {"blendWeights", 'w', false},
}

// SemanticName returns the attribute role bound to a semantic id.
func SemanticName(id int32) string {
	if s, ok := semantics[id]; ok {
		return s.name
	}
	return UnknownSemantic
}

// LayoutEntry describes one interleaved vertex attribute.
type LayoutEntry struct {
	Semantic  int32
	Name      string
	Type      ElementType
	Count     int32
	Stride    uint32
	Offset    int32
	Normalize bool
}

// NewLayoutEntry classifies a raw layout record. Only the colour channel is normalized.
func NewLayoutEntry(semantic, count, typeCode, offset int32, stride uint32) (LayoutEntry, error) {
	typ, err := ElementTypeFromCode(typeCode)
	if err != nil {
		return LayoutEntry{}, err
	}
	info, known := semantics[semantic]
	name := UnknownSemantic
	if known {
		name = info.name
	}
	return LayoutEntry{
		Semantic:  semantic,
		Name:      name,
		Type:      typ,
		Count:     count,
		Stride:    stride,
		Offset:    offset,
		Normalize: known && info.normalize,
	}, nil
}

// DescribeLayout returns a one-character-per-attribute signature such as "vuntp".
func DescribeLayout(entries []LayoutEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		if s, ok := semantics[e.Semantic]; ok {
			sb.WriteByte(s.code)
		} else {
			sb.WriteByte('x')
		}
	}
	return sb.String()
}
