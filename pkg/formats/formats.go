// Package formats provides decoders for compiled scene assets.
//
// A geometry blob is split over two streams: a header stream holding counts, skinning data,
// bounds and layout tables addressed by self-relative offsets, and a payload stream holding the
// vertex and index bytes of every mesh slice at absolute offsets.
package formats

import "strings"

// ResourceKind identifies a compiled asset by its path suffix.
type ResourceKind int

const (
	KindUnknown ResourceKind = iota
	KindScene
	KindGeometry
	KindGeometryData
	KindMaterial
	KindEntity
	KindAnimation
	KindTextureDescriptor
	KindTexture
)

var kindSuffixes = []struct {
	suffix string
	kind   ResourceKind
}{
	// Longest suffixes first so GEOMETRY.DATA wins over GEOMETRY.
	{".GEOMETRY.DATA.MBIN.PC", KindGeometryData},
	{".GEOMETRY.MBIN.PC", KindGeometry},
	{".GEOMETRY.MBIN", KindGeometry},
	{".SCENE.MBIN", KindScene},
	{".MATERIAL.MBIN", KindMaterial},
	{".ENTITY.MBIN", KindEntity},
	{".ANIM.MBIN", KindAnimation},
	{".TEXTURE.MBIN", KindTextureDescriptor},
	{".DDS", KindTexture},
}

// KindOf classifies a resource path. Matching is case-insensitive.
func KindOf(path string) ResourceKind {
	p := strings.ToUpper(path)
	for _, ks := range kindSuffixes {
		if strings.HasSuffix(p, ks.suffix) {
			return ks.kind
		}
	}
	return KindUnknown
}

// String returns a human-readable kind name.
func (k ResourceKind) String() string {
	switch k {
	case KindScene:
		return "scene"
	case KindGeometry:
		return "geometry"
	case KindGeometryData:
		return "geometry-data"
	case KindMaterial:
		return "material"
	case KindEntity:
		return "entity"
	case KindAnimation:
		return "animation"
	case KindTextureDescriptor:
		return "texture-descriptor"
	case KindTexture:
		return "texture"
	default:
		return "unknown"
	}
}
