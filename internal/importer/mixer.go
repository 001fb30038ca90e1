package importer

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/nmsimport/internal/scene"
	"github.com/Faultbox/nmsimport/internal/texture"
	"github.com/Faultbox/nmsimport/pkg/formats"
	"github.com/Faultbox/nmsimport/pkg/math"
)

// ErrInvalidPalette is returned for a palette file that does not decode.
var ErrInvalidPalette = errors.New("invalid palette")

// TextureMixer composes the textures of a procedural diffuse map and stores them in textures
// under the paths returned by scene.ProcGenTexturePaths.
type TextureMixer interface {
	Combine(mapPath string, palette Palette, textures *texture.Manager) error
}

// Palette maps palette name to colour name to RGBA in [0, 1].
type Palette map[string]map[string]math.Vec4

// Colour looks up one palette entry.
func (p Palette) Colour(palette, colour string) (math.Vec4, bool) {
	c, ok := p[palette][colour]
	return c, ok
}

// ParsePalette decodes a YAML palette document.
func ParsePalette(data []byte) (Palette, error) {
	var raw map[string]map[string][]float32
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPalette, err)
	}
	p := make(Palette, len(raw))
	for name, colours := range raw {
		p[name] = make(map[string]math.Vec4, len(colours))
		for cname, v := range colours {
			if len(v) < 3 || len(v) > 4 {
				return nil, fmt.Errorf("%w: %s/%s has %d components", ErrInvalidPalette, name, cname, len(v))
			}
			c := math.Vec4{0, 0, 0, 1}
			copy(c[:], v)
			p[name][cname] = c
		}
	}
	return p, nil
}

// LoadPalette reads a palette file. An empty path yields an empty palette.
func LoadPalette(path string) (Palette, error) {
	if path == "" {
		return Palette{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading palette: %w", err)
	}
	return ParsePalette(data)
}

// Neutral texels of the generated mask and normal maps.
var (
	neutralMasks  = [4]byte{0, 0, 0, 255}
	neutralNormal = [4]byte{128, 128, 255, 255}
)

// SolidMixer fills the generated textures with one palette colour. It stands in for a GPU
// compositor when only the texture bindings matter.
type SolidMixer struct {
	Palette string
	Colour  string
	Size    uint32 // texels per side, 4 when zero
}

// Combine registers the diffuse, masks and normal textures for mapPath.
// A colour missing from the palette renders white.
func (m *SolidMixer) Combine(mapPath string, palette Palette, textures *texture.Manager) error {
	size := m.Size
	if size == 0 {
		size = 4
	}
	colour, ok := palette.Colour(m.Palette, m.Colour)
	if !ok {
		colour = math.Vec4{1, 1, 1, 1}
	}

	diffuse, masks, normal := scene.ProcGenTexturePaths(mapPath)
	outputs := []struct {
		path  string
		texel [4]byte
		srgb  bool
	}{
		{diffuse, toTexel(colour), true},
		{masks, neutralMasks, false},
		{normal, neutralNormal, false},
	}
	for _, out := range outputs {
		if textures.Has(out.path) {
			continue
		}
		data, err := formats.EncodeDDSRGBA(size, size, fill(size, out.texel))
		if err != nil {
			return fmt.Errorf("mixing %s: %w", out.path, err)
		}
		textures.Add(texture.New(out.path, data, texture.WrapRepeat, texture.FilterLinear, texture.FilterLinear, out.srgb))
	}
	return nil
}

func toTexel(c math.Vec4) [4]byte {
	var out [4]byte
	for i, v := range c {
		out[i] = byte(min(max(v, 0), 1)*255 + 0.5)
	}
	return out
}

func fill(size uint32, texel [4]byte) []byte {
	out := make([]byte, 0, size*size*4)
	for i := uint32(0); i < size*size; i++ {
		out = append(out, texel[:]...)
	}
	return out
}
