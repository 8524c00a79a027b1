// Package glmat generates, compiles and caches ubershader material variants
// for data-driven assets whose textures and shading flags vary per object.
//
// The entry point is the [Provider] returned by [NewUbershaderProvider]:
// a raw [MaterialKey] and [UvMap] describing one object's rendering
// requirements are normalized with [Constrain] into a canonical key,
// the shader source for that key is generated with [AppendSource] and
// compiled at most once through a [Backend], and each call yields a
// lightweight [Instance] carrying the per-object UV routing parameters
// bound onto the shared compiled material.
package glmat

import (
	"encoding/binary"
	"math"

	"github.com/chewxy/math32"
)

const (
	// MaxUvChannels is the number of UV channel sets the generated
	// shaders can route textures to (UV0 and UV1).
	MaxUvChannels = 2
	// DefaultMaskThreshold is the alpha cutoff keys are constrained to
	// when their alpha mode is not [AlphaMask].
	DefaultMaskThreshold = 0.5
)

// AlphaMode selects how a material's base color alpha is interpreted.
type AlphaMode uint8

const (
	// AlphaOpaque ignores alpha entirely.
	AlphaOpaque AlphaMode = iota
	// AlphaMask discards fragments whose alpha falls below the key's mask threshold.
	AlphaMask
	// AlphaBlend enables premultiplied transparency blending.
	AlphaBlend
)

func (a AlphaMode) String() (s string) {
	switch a {
	case AlphaOpaque:
		s = "opaque"
	case AlphaMask:
		s = "mask"
	case AlphaBlend:
		s = "blend"
	default:
		s = "unknown"
	}
	return s
}

// TextureSlot enumerates the texture semantics carried by a [MaterialKey].
type TextureSlot uint8

const (
	SlotBaseColor TextureSlot = iota
	SlotNormal
	SlotMetallicRoughness
	SlotOcclusion
	SlotEmissive
	numTextureSlots
)

// UvMap maps source texcoord slots to the UV channel set actually available
// on the geometry. Entries are 1-based so a zero entry marks the slot unused.
// It is consumed transiently while binding instance parameters and is never
// retained by the material cache.
type UvMap [8]uint8

// MaterialKey describes one rendering requirement. Two keys that compare
// equal after [Constrain] share a single compiled material. All fields are
// compared by value so MaterialKey can key a Go map directly.
type MaterialKey struct {
	HasBaseColorTexture         bool
	HasNormalTexture            bool
	HasMetallicRoughnessTexture bool
	HasOcclusionTexture         bool
	HasEmissiveTexture          bool
	// Alpha selects opaque, masked or blended interpretation of base color alpha.
	Alpha AlphaMode
	// MaskThreshold is the alpha cutoff. Only meaningful when Alpha is [AlphaMask].
	MaskThreshold float32
	DoubleSided   bool
	// Unlit skips lighting and outputs raw base color.
	Unlit bool
	// Source texcoord slots per texture, indexing into the [UvMap]
	// handed to [Provider.CreateInstance].
	BaseColorUV         uint8
	NormalUV            uint8
	MetallicRoughnessUV uint8
	OcclusionUV         uint8
	EmissiveUV          uint8
}

// HasTexture reports whether the key declares the texture semantic present.
func (k *MaterialKey) HasTexture(slot TextureSlot) bool {
	switch slot {
	case SlotBaseColor:
		return k.HasBaseColorTexture
	case SlotNormal:
		return k.HasNormalTexture
	case SlotMetallicRoughness:
		return k.HasMetallicRoughnessTexture
	case SlotOcclusion:
		return k.HasOcclusionTexture
	case SlotEmissive:
		return k.HasEmissiveTexture
	}
	panic("invalid texture slot")
}

// UV returns the source texcoord slot declared for the texture semantic.
func (k *MaterialKey) UV(slot TextureSlot) uint8 {
	switch slot {
	case SlotBaseColor:
		return k.BaseColorUV
	case SlotNormal:
		return k.NormalUV
	case SlotMetallicRoughness:
		return k.MetallicRoughnessUV
	case SlotOcclusion:
		return k.OcclusionUV
	case SlotEmissive:
		return k.EmissiveUV
	}
	panic("invalid texture slot")
}

func (k *MaterialKey) setHasTexture(slot TextureSlot, has bool) {
	switch slot {
	case SlotBaseColor:
		k.HasBaseColorTexture = has
	case SlotNormal:
		k.HasNormalTexture = has
	case SlotMetallicRoughness:
		k.HasMetallicRoughnessTexture = has
	case SlotOcclusion:
		k.HasOcclusionTexture = has
	case SlotEmissive:
		k.HasEmissiveTexture = has
	}
}

func (k *MaterialKey) setUV(slot TextureSlot, uv uint8) {
	switch slot {
	case SlotBaseColor:
		k.BaseColorUV = uv
	case SlotNormal:
		k.NormalUV = uv
	case SlotMetallicRoughness:
		k.MetallicRoughnessUV = uv
	case SlotOcclusion:
		k.OcclusionUV = uv
	case SlotEmissive:
		k.EmissiveUV = uv
	}
}

// litOnly reports whether the slot's texture contributes nothing under unlit shading.
func litOnly(slot TextureSlot) bool {
	return slot != SlotBaseColor
}

// Constrain canonicalizes a raw key and UV map pair in place so that any
// field which cannot affect rendering given the other fields takes a fixed
// sentinel value. Two semantically equivalent raw pairs always constrain to
// identical keys. All inputs are accepted and coerced; Constrain never fails.
func Constrain(key *MaterialKey, uvmap *UvMap) {
	if key.Alpha != AlphaMask {
		key.MaskThreshold = DefaultMaskThreshold
	} else {
		key.MaskThreshold = math32.Min(1, math32.Max(0, key.MaskThreshold))
	}
	// UV channel sets beyond what the generated shaders route to are unusable.
	for i, uv := range uvmap {
		if uv > MaxUvChannels {
			uvmap[i] = 0
		}
	}
	var used UvMap
	for slot := TextureSlot(0); slot < numTextureSlots; slot++ {
		if key.Unlit && litOnly(slot) {
			// Unlit shading samples base color only.
			key.setHasTexture(slot, false)
		}
		if !key.HasTexture(slot) {
			key.setUV(slot, 0)
			continue
		}
		if key.UV(slot) >= uint8(len(uvmap)) {
			key.setUV(slot, 0)
		}
		used[key.UV(slot)] = 1
	}
	// UV map slots no present texture reads from cannot affect rendering.
	for i := range uvmap {
		if used[i] == 0 {
			uvmap[i] = 0
		}
	}
}

// Hash returns a stable 64-bit hash of the key. Keys comparing equal hash
// equal; the result does not vary between processes or platforms.
func (k *MaterialKey) Hash() uint64 {
	var buf [16]byte
	b := k.appendKeyBytes(buf[:0])
	return hash(b, 0xff51afd7ed558ccd)
}

// appendKeyBytes appends a fixed-order binary rendition of every key field.
func (k *MaterialKey) appendKeyBytes(dst []byte) []byte {
	var flags uint8
	for slot := TextureSlot(0); slot < numTextureSlots; slot++ {
		if k.HasTexture(slot) {
			flags |= 1 << slot
		}
	}
	if k.DoubleSided {
		flags |= 1 << 5
	}
	if k.Unlit {
		flags |= 1 << 6
	}
	dst = append(dst, flags, uint8(k.Alpha))
	dst = append(dst, k.BaseColorUV, k.NormalUV, k.MetallicRoughnessUV, k.OcclusionUV, k.EmissiveUV)
	dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(k.MaskThreshold))
	return dst
}

func hash(b []byte, in uint64) uint64 {
	x := in
	for len(b) >= 8 {
		x ^= binary.LittleEndian.Uint64(b)
		x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
		x = (x ^ (x >> 27)) * 0x94d049bb133111eb
		x ^= x >> 31
		b = b[8:]
	}
	if len(b) > 0 {
		var buf [8]byte
		copy(buf[:], b)
		x ^= binary.LittleEndian.Uint64(buf[:])
		x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
		x = (x ^ (x >> 27)) * 0x94d049bb133111eb
		x ^= x >> 31
	}
	return x
}
