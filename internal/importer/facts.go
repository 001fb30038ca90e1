package importer

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/Faultbox/nmsimport/internal/engine"
	"github.com/Faultbox/nmsimport/internal/scene"
	"github.com/Faultbox/nmsimport/internal/template"
	"github.com/Faultbox/nmsimport/internal/texture"
	"github.com/Faultbox/nmsimport/internal/vfs"
	"github.com/Faultbox/nmsimport/pkg/math"
)

// BuildAnimationClip returns the clip described by data. Clips are cached by their metadata
// hash, and a cache hit does not load the animation file again.
func (s *Session) BuildAnimationClip(data template.AnimationData) (*scene.AnimationClip, error) {
	meta := scene.ClipMetaData{
		Name:             data.Anim,
		FileName:         data.Filename,
		FrameStart:       data.FrameStart,
		FrameEnd:         data.FrameEnd,
		StartNode:        data.StartNode,
		ActionFrame:      data.ActionFrame,
		ActionStartFrame: data.ActionStartFrame,
		Speed:            data.Speed,
		Active:           data.Active,
		Additive:         data.Additive,
		Mirrored:         data.Mirrored,
	}
	if data.AnimType == template.AnimOneShot {
		meta.AnimType = scene.AnimOneShot
	}

	hash := meta.Hash()
	if clip, ok := s.clips[hash]; ok {
		return clip, nil
	}

	am, err := template.LoadAs[*template.AnimMetadata](s.im.templates, data.Filename)
	if err != nil {
		return nil, fmt.Errorf("animation %s: %w", data.Anim, err)
	}

	clip := scene.NewAnimationClip(meta, am.FrameCount)
	for _, nd := range am.NodeData {
		rots := make([]math.Quat, am.FrameCount)
		trans := make([]math.Vec3, am.FrameCount)
		scales := make([]math.Vec3, am.FrameCount)
		for i := 0; i < am.FrameCount; i++ {
			r, err := am.Rotation(nd, i)
			if err != nil {
				return nil, fmt.Errorf("animation %s node %s: %w", data.Anim, nd.Node, err)
			}
			t, err := am.Translation(nd, i)
			if err != nil {
				return nil, fmt.Errorf("animation %s node %s: %w", data.Anim, nd.Node, err)
			}
			sc, err := am.Scale(nd, i)
			if err != nil {
				return nil, fmt.Errorf("animation %s node %s: %w", data.Anim, nd.Node, err)
			}
			rots[i] = math.Quat{X: r[0], Y: r[1], Z: r[2], W: r[3]}
			trans[i] = math.Vec3{X: t[0], Y: t[1], Z: t[2]}
			scales[i] = math.Vec3{X: sc[0], Y: sc[1], Z: sc[2]}
		}
		clip.Nodes = append(clip.Nodes, nd.Node)
		clip.Rotations[nd.Node] = rots
		clip.Translations[nd.Node] = trans
		clip.Scales[nd.Node] = scales
	}

	s.log.Debug("animation clip built", zap.String("clip", meta.Name),
		zap.Int("frames", clip.FrameCount), zap.Int("nodes", len(clip.Nodes)))
	s.clips[hash] = clip
	return clip, nil
}

var directFlags = map[string]scene.MaterialFlag{
	template.FlagDiffuseMap:   scene.FlagDiffuseMap,
	template.FlagNormalMap:    scene.FlagTwoChannelNormalMap,
	template.FlagUnlit:        scene.FlagUnlit,
	template.FlagVertexColour: scene.FlagVertexColour,
	template.FlagSkinned:      scene.FlagSkinned,
}

// translateFlags maps template flags to renderer flags. The masks trio selects
// AOMetallicRoughness; roughness and metallic masks alone select MetallicRoughness.
func translateFlags(md *template.Material, mat *scene.Material) {
	for _, f := range md.Flags {
		if flag, ok := directFlags[f]; ok {
			mat.AddFlag(flag)
		}
	}
	pbr := md.HasFlag(template.FlagRoughnessMask) && md.HasFlag(template.FlagMetallicMask)
	switch {
	case pbr && md.HasFlag(template.FlagAOMap):
		mat.AddFlag(scene.FlagAOMetallicRoughness)
	case pbr:
		mat.AddFlag(scene.FlagMetallicRoughness)
	}
}

// Sampler slots. Names outside this table are dropped.
var samplerSlots = map[string]int{
	"gDiffuseMap":  0,
	"gMasksMap":    1,
	"gNormalMap":   2,
	"gDiffuse2Map": 3,
}

// Uniform slots. Names outside this table are dropped.
var uniformSlots = map[string]int{
	"gMaterialColourVec4": 0,
	"gMaterialParamsVec4": 1,
	"gMaterialSFXVec4":    2,
	"gMaterialSFXColVec4": 3,
	"gUVScrollStepVec4":   4,
	"gDissolveDataVec4":   5,
	"gCustomParams01Vec4": 6,
}

const diffuseSampler = "gDiffuseMap"

// BuildMaterial returns the material at path, cached per session by path. A missing
// template yields the engine's default material.
func (s *Session) BuildMaterial(path string) (*scene.Material, error) {
	key := vfs.Clean(path)
	if m, ok := s.materials[key]; ok {
		return m, nil
	}

	md, err := template.LoadAs[*template.Material](s.im.templates, path)
	if errors.Is(err, template.ErrTemplateNotFound) {
		s.log.Warn("material missing, using default", zap.String("material", path))
		def := s.builtinMaterial(engine.DefaultMaterial)
		s.materials[key] = def
		return def, nil
	}
	if err != nil {
		return nil, fmt.Errorf("material %s: %w", path, err)
	}

	mat := &scene.Material{
		Name:       md.Name,
		Class:      md.Class,
		Path:       key,
		CastShadow: md.CastShadow,
	}
	translateFlags(md, mat)

	for _, ms := range md.Samplers {
		smp, err := s.buildSampler(ms)
		if err != nil {
			s.log.Warn("sampler dropped", zap.String("material", md.Name), zap.Error(err))
			continue
		}
		mat.Samplers = append(mat.Samplers, smp)
	}
	for _, mu := range md.Uniforms {
		slot, ok := uniformSlots[mu.Name]
		if !ok {
			s.log.Warn("uniform dropped", zap.String("material", md.Name),
				zap.Error(fmt.Errorf("%w: %s", ErrUnsupportedUniform, mu.Name)))
			continue
		}
		mat.Uniforms = append(mat.Uniforms, &scene.Uniform{
			Name:    mu.Name,
			Slot:    slot,
			Binding: fmt.Sprintf("mpCustomPerMaterial.uniforms[%d]", slot),
			Values:  math.Vec4(mu.Values),
		})
	}

	reg := s.im.engine
	skinned := mat.HasFlag(scene.FlagSkinned)
	lit := !mat.HasFlag(scene.FlagUnlit)
	hash := scene.ShaderConfigHash(s.im.opts.VertexShader, s.im.opts.FragmentShader, skinned, lit)
	cfg, ok := reg.ShaderConfigByHash(hash)
	if !ok {
		cfg = reg.RegisterShaderConfig(scene.NewShaderConfig(s.im.opts.VertexShader, s.im.opts.FragmentShader, skinned, lit))
	}
	mat.ShaderConfig = cfg
	if mat.Shader, err = reg.CompileShader(cfg, mat); err != nil {
		s.log.Error("shader compile failed", zap.String("material", md.Name), zap.Error(err))
	}

	s.log.Debug("material built", zap.String("material", md.Name), zap.Stringers("flags", mat.SortedFlags()),
		zap.Int("samplers", len(mat.Samplers)), zap.Int("uniforms", len(mat.Uniforms)))
	s.materials[key] = mat
	return mat, nil
}

func (s *Session) buildSampler(ms template.MaterialSampler) (*scene.Sampler, error) {
	slot, ok := samplerSlots[ms.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSampler, ms.Name)
	}
	smp := &scene.Sampler{
		Name:    ms.Name,
		Map:     vfs.Clean(ms.Map),
		Slot:    slot,
		Binding: "mpCustomPerMaterial." + ms.Name,
	}

	if ms.Name == diffuseSampler && smp.Map != "" && s.isProcGen(smp.Map) {
		smp.ProcGen = true
		if mixer := s.im.opts.Mixer; mixer != nil {
			if err := mixer.Combine(smp.Map, s.im.opts.Palette, s.im.textures); err != nil {
				s.log.Warn("texture mixing failed", zap.String("map", smp.Map), zap.Error(err))
			}
		}
		diffuse, masks, normal := scene.ProcGenTexturePaths(smp.Map)
		// The material holds the generated companions too.
		for _, p := range []string{masks, normal} {
			s.im.textures.Acquire(p)
		}
		smp.Map = diffuse
	}

	s.loadSamplerTexture(smp, ms)
	return smp, nil
}

// isProcGen reports whether mapPath names a texture that only exists as a procedural descriptor.
func (s *Session) isProcGen(mapPath string) bool {
	if s.im.textures.Has(mapPath) || s.im.fs.Exists(mapPath) {
		return false
	}
	return s.im.fs.Exists(scene.TextureDescriptorPath(mapPath))
}

var wrapModes = map[string]texture.WrapMode{
	template.AddressWrap:          texture.WrapRepeat,
	template.AddressMirror:        texture.WrapMirroredRepeat,
	template.AddressClampToBorder: texture.WrapClampToBorder,
	template.AddressClamp:         texture.WrapClampToEdge,
}

// samplerState maps template sampling settings. Unknown or empty modes fall back to
// repeat wrapping with linear filtering.
func samplerState(ms template.MaterialSampler) (wrap texture.WrapMode, minFilter, magFilter texture.Filter) {
	wrap = texture.WrapRepeat
	if w, ok := wrapModes[ms.AddressMode]; ok {
		wrap = w
	}
	switch ms.FilterMode {
	case template.FilterNone:
		return wrap, texture.FilterNearest, texture.FilterNearest
	case template.FilterTrilinear:
		return wrap, texture.FilterLinearMipmapLinear, texture.FilterLinear
	default:
		return wrap, texture.FilterLinear, texture.FilterLinear
	}
}

// loadSamplerTexture binds the sampler's texture, loading it on first use. A texture that
// cannot be loaded unbinds the sampler.
func (s *Session) loadSamplerTexture(smp *scene.Sampler, ms template.MaterialSampler) {
	if smp.Map == "" {
		return
	}
	if tex, ok := s.im.textures.Acquire(smp.Map); ok {
		smp.Texture = tex
		return
	}

	data, err := s.readFile(smp.Map)
	if err != nil {
		s.log.Warn("texture missing, sampler unbound", zap.String("sampler", smp.Name), zap.String("map", smp.Map), zap.Error(err))
		smp.Texture = nil
		smp.Slot = -1
		smp.Binding = ""
		return
	}

	wrap, minFilter, magFilter := samplerState(ms)
	tex := s.im.engine.CreateTexture(smp.Map, data, wrap, minFilter, magFilter, ms.IsSRGB)
	tex.Refs = 1
	s.im.textures.Add(tex)
	smp.Texture = tex
}

func (s *Session) readFile(path string) ([]byte, error) {
	rs, err := s.im.fs.Open(path)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(rs)
}
