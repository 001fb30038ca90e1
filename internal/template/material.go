package template

// Material flags understood by the importer.
const (
	FlagDiffuseMap    = "_F01_DIFFUSEMAP"
	FlagSkinned       = "_F02_SKINNED"
	FlagNormalMap     = "_F03_NORMALMAP"
	FlagUnlit         = "_F07_UNLIT"
	FlagVertexColour  = "_F21_VERTEXCOLOUR"
	FlagAOMap         = "_F24_AOMAP"
	FlagRoughnessMask = "_F25_ROUGHNESS_MASK"
	FlagMetallicMask  = "_F39_METALLIC_MASK"
)

// Texture address modes.
const (
	AddressWrap          = "Wrap"
	AddressMirror        = "Mirror"
	AddressClampToBorder = "ClampToBorder"
	AddressClamp         = "Clamp"
)

// Texture filter modes.
const (
	FilterNone      = "None"
	FilterBilinear  = "Bilinear"
	FilterTrilinear = "Trilinear"
)

// MaterialSampler binds a texture file to a named shader sampler.
type MaterialSampler struct {
	Name        string `yaml:"name"`
	Map         string `yaml:"map"`
	IsCube      bool   `yaml:"is_cube"`
	UseMipMaps  bool   `yaml:"use_mipmaps"`
	IsSRGB      bool   `yaml:"is_srgb"`
	AddressMode string `yaml:"address_mode"`
	FilterMode  string `yaml:"filter_mode"`
	Anisotropy  int    `yaml:"anisotropy"`
}

// MaterialUniform is a named vec4 shader constant.
type MaterialUniform struct {
	Name   string     `yaml:"name"`
	Values [4]float32 `yaml:"values"`
}

// Material is a material template.
type Material struct {
	Name       string            `yaml:"name"`
	Class      string            `yaml:"class"`
	CastShadow bool              `yaml:"cast_shadow"`
	Link       string            `yaml:"link"`
	Shader     string            `yaml:"shader"`
	Flags      []string          `yaml:"flags"`
	Uniforms   []MaterialUniform `yaml:"uniforms"`
	Samplers   []MaterialSampler `yaml:"samplers"`
}

// Kind implements Record.
func (*Material) Kind() string { return KindMaterial }

// HasFlag reports whether the material lists flag.
func (m *Material) HasFlag(flag string) bool {
	for _, f := range m.Flags {
		if f == flag {
			return true
		}
	}
	return false
}
