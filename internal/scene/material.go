package scene

import (
	"sort"

	"github.com/Faultbox/nmsimport/internal/texture"
	"github.com/Faultbox/nmsimport/pkg/encoding"
	"github.com/Faultbox/nmsimport/pkg/math"
)

// MaterialFlag is a renderer capability enabled by a material.
type MaterialFlag int

const (
	FlagDiffuseMap MaterialFlag = iota
	FlagTwoChannelNormalMap
	FlagUnlit
	FlagVertexColour
	FlagMetallicRoughness
	FlagAOMetallicRoughness
	FlagSkinned
)

var materialFlagNames = []string{
	FlagDiffuseMap:          "DiffuseMap",
	FlagTwoChannelNormalMap: "TwoChannelNormalMap",
	FlagUnlit:               "Unlit",
	FlagVertexColour:        "VertexColour",
	FlagMetallicRoughness:   "MetallicRoughness",
	FlagAOMetallicRoughness: "AOMetallicRoughness",
	FlagSkinned:             "Skinned",
}

func (f MaterialFlag) String() string {
	if int(f) >= 0 && int(f) < len(materialFlagNames) {
		return materialFlagNames[f]
	}
	return "Unknown"
}

// Sampler binds one texture to a material slot. Slot is -1 when no texture could be loaded.
type Sampler struct {
	Name    string
	Map     string
	Slot    int
	Binding string
	Texture *texture.Texture

	// ProcGen marks a diffuse map generated by the texture mixer.
	ProcGen bool
}

// Uniform is one vec4 material parameter.
type Uniform struct {
	Name    string
	Binding string
	Slot    int
	Values  math.Vec4
}

// ShaderConfig is a vertex/fragment source pair plus the permutation switches.
type ShaderConfig struct {
	VertexSource   string
	FragmentSource string
	Skinned        bool
	Lit            bool
	Hash           uint64
}

// ShaderConfigHash identifies a shader configuration by content.
func ShaderConfigHash(vertexSource, fragmentSource string, skinned, lit bool) uint64 {
	w := newHasher()
	w.str(vertexSource)
	w.str(fragmentSource)
	w.flag(skinned)
	w.flag(lit)
	return w.sum()
}

// NewShaderConfig creates a configuration with its content hash filled in.
func NewShaderConfig(vertexSource, fragmentSource string, skinned, lit bool) *ShaderConfig {
	return &ShaderConfig{
		VertexSource:   vertexSource,
		FragmentSource: fragmentSource,
		Skinned:        skinned,
		Lit:            lit,
		Hash:           ShaderConfigHash(vertexSource, fragmentSource, skinned, lit),
	}
}

// Shader is a configuration specialised for one set of material flags.
type Shader struct {
	Hash    uint64
	Config  *ShaderConfig
	Defines []string
}

// Material is an engine-agnostic surface description.
type Material struct {
	Name       string
	Class      string
	Path       string
	CastShadow bool
	Flags      []MaterialFlag
	Samplers   []*Sampler
	Uniforms   []*Uniform

	ShaderConfig *ShaderConfig
	Shader       *Shader
}

// AddFlag enables f once.
func (m *Material) AddFlag(f MaterialFlag) {
	if !m.HasFlag(f) {
		m.Flags = append(m.Flags, f)
	}
}

// HasFlag reports whether f is enabled.
func (m *Material) HasFlag(f MaterialFlag) bool {
	for _, have := range m.Flags {
		if have == f {
			return true
		}
	}
	return false
}

// SortedFlags returns the flags in enum order.
func (m *Material) SortedFlags() []MaterialFlag {
	out := append([]MaterialFlag(nil), m.Flags...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Sampler returns the sampler with the given name.
func (m *Material) Sampler(name string) (*Sampler, bool) {
	for _, s := range m.Samplers {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// ProcGenTexturePaths returns the textures the mixer generates for a procedural diffuse map.
func ProcGenTexturePaths(mapPath string) (diffuse, masks, normal string) {
	stem := encoding.Stem(encoding.NormalizePath(mapPath))
	return stem + ".DDS", stem + ".MASKS.DDS", stem + ".NORMAL.DDS"
}

// TextureDescriptorPath returns the procedural texture descriptor that sits beside mapPath.
func TextureDescriptorPath(mapPath string) string {
	return encoding.Stem(encoding.NormalizePath(mapPath)) + ".TEXTURE.MBIN"
}
