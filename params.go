package glmat

// UniformType is the GL-facing type of a declared material parameter.
type UniformType uint8

const (
	UniformInt UniformType = iota
	UniformFloat
	UniformFloat3
	UniformFloat4
	UniformMat3
	UniformBool
	UniformSampler2D
)

// GLTypename returns the GLSL type name of the uniform type.
func (u UniformType) GLTypename() (typename string) {
	switch u {
	case UniformInt:
		typename = "int"
	case UniformFloat:
		typename = "float"
	case UniformFloat3:
		typename = "vec3"
	case UniformFloat4:
		typename = "vec4"
	case UniformMat3:
		typename = "mat3"
	case UniformBool:
		typename = "bool"
	case UniformSampler2D:
		typename = "sampler2D"
	default:
		panic("invalid uniform type")
	}
	return typename
}

// ParamDecl declares one named, typed material parameter a backend must
// expose for the generated source to link and for instance binding to target.
type ParamDecl struct {
	Name string
	Type UniformType
}

// BlendingMode is the compiler-level blend state derived from a key's alpha mode.
type BlendingMode uint8

const (
	BlendingOpaque BlendingMode = iota
	BlendingMasked
	BlendingTransparent
)

// Shading selects the shading model of the compiled material.
type Shading uint8

const (
	ShadingLit Shading = iota
	ShadingUnlit
)

// VertexAttribute names a vertex input the compiled material requires.
type VertexAttribute uint8

const (
	AttributeUV0 VertexAttribute = iota
	AttributeUV1
	AttributeColor
	AttributeNormal
)

// CompileSettings carry everything a [Backend] needs besides the generated
// source text to compile one material variant.
type CompileSettings struct {
	// Name identifies the material in diagnostics. It has no semantic effect.
	Name        string
	DoubleSided bool
	Blending    BlendingMode
	// MaskThreshold is the alpha cutoff forwarded with [BlendingMasked].
	// [BlendingOpaque] and [BlendingTransparent] ignore it.
	MaskThreshold float32
	// DepthWrite is set for transparent materials so they still occlude.
	DepthWrite bool
	Shading    Shading
	Attributes []VertexAttribute
	Params     []ParamDecl
}

// per-slot parameter names shared by source generation and instance binding.
var slotParams = [numTextureSlots]struct {
	index, sampler, matrix string
}{
	SlotBaseColor:         {"baseColorIndex", "baseColorMap", "baseColorUvMatrix"},
	SlotNormal:            {"normalIndex", "normalMap", "normalUvMatrix"},
	SlotMetallicRoughness: {"metallicRoughnessIndex", "metallicRoughnessMap", "metallicRoughnessUvMatrix"},
	SlotOcclusion:         {"aoIndex", "occlusionMap", "occlusionUvMatrix"},
	SlotEmissive:          {"emissiveIndex", "emissiveMap", "emissiveUvMatrix"},
}

// Settings derives the compiler-level settings for a constrained key.
// Index, factor and matrix uniforms are declared unconditionally so instance
// binding can always target them; samplers are declared per present texture.
func Settings(key MaterialKey, name string) CompileSettings {
	cfg := CompileSettings{
		Name:          name,
		DoubleSided:   key.DoubleSided,
		MaskThreshold: key.MaskThreshold,
		Attributes:    []VertexAttribute{AttributeUV0, AttributeUV1, AttributeColor},
	}
	switch key.Alpha {
	case AlphaOpaque:
		cfg.Blending = BlendingOpaque
	case AlphaMask:
		cfg.Blending = BlendingMasked
	case AlphaBlend:
		cfg.Blending = BlendingTransparent
		cfg.DepthWrite = true
	}
	if key.Unlit {
		cfg.Shading = ShadingUnlit
	} else {
		cfg.Shading = ShadingLit
		cfg.Attributes = append(cfg.Attributes, AttributeNormal)
	}
	cfg.Params = Params(key)
	return cfg
}

// Params enumerates the parameter declarations of the material compiled for key.
func Params(key MaterialKey) []ParamDecl {
	params := []ParamDecl{
		{Name: "baseColorIndex", Type: UniformInt},
		{Name: "baseColorFactor", Type: UniformFloat4},
		{Name: "baseColorUvMatrix", Type: UniformMat3},
		{Name: "blendEnabled", Type: UniformBool},
		{Name: "metallicRoughnessIndex", Type: UniformInt},
		{Name: "metallicFactor", Type: UniformFloat},
		{Name: "roughnessFactor", Type: UniformFloat},
		{Name: "metallicRoughnessUvMatrix", Type: UniformMat3},
		{Name: "normalIndex", Type: UniformInt},
		{Name: "normalScale", Type: UniformFloat},
		{Name: "normalUvMatrix", Type: UniformMat3},
		{Name: "aoIndex", Type: UniformInt},
		{Name: "aoStrength", Type: UniformFloat},
		{Name: "occlusionUvMatrix", Type: UniformMat3},
		{Name: "emissiveIndex", Type: UniformInt},
		{Name: "emissiveFactor", Type: UniformFloat3},
		{Name: "emissiveUvMatrix", Type: UniformMat3},
	}
	for slot := TextureSlot(0); slot < numTextureSlots; slot++ {
		if key.HasTexture(slot) {
			params = append(params, ParamDecl{Name: slotParams[slot].sampler, Type: UniformSampler2D})
		}
	}
	return params
}
