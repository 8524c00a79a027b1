package glmat_test

import (
	"testing"

	"github.com/soypat/glmat"
)

func TestConstrainEquivalentRawConfigs(t *testing.T) {
	// Over-specified fields on absent textures cannot affect rendering and
	// must canonicalize away.
	a := glmat.MaterialKey{
		HasBaseColorTexture: true,
		BaseColorUV:         0,
		NormalUV:            3, // No normal texture; selector is noise.
		MaskThreshold:       0.77,
	}
	auv := glmat.UvMap{1, 2, 0, 1, 0, 0, 0, 0}
	b := glmat.MaterialKey{
		HasBaseColorTexture: true,
		BaseColorUV:         0,
	}
	buv := glmat.UvMap{1, 0, 0, 0, 0, 0, 0, 0}
	glmat.Constrain(&a, &auv)
	glmat.Constrain(&b, &buv)
	if a != b {
		t.Errorf("equivalent raw keys constrain differently:\n%+v\n%+v", a, b)
	}
	if auv != buv {
		t.Errorf("equivalent raw uvmaps constrain differently:\n%v\n%v", auv, buv)
	}
	if a.Hash() != b.Hash() {
		t.Error("equal keys with unequal hashes")
	}
}

func TestConstrainMaskThreshold(t *testing.T) {
	for _, alpha := range []glmat.AlphaMode{glmat.AlphaOpaque, glmat.AlphaBlend} {
		key := glmat.MaterialKey{Alpha: alpha, MaskThreshold: 0.123}
		var uvmap glmat.UvMap
		glmat.Constrain(&key, &uvmap)
		if key.MaskThreshold != glmat.DefaultMaskThreshold {
			t.Errorf("alpha %s: threshold %v, want default %v", alpha, key.MaskThreshold, glmat.DefaultMaskThreshold)
		}
	}
	key := glmat.MaterialKey{Alpha: glmat.AlphaMask, MaskThreshold: 1.5}
	var uvmap glmat.UvMap
	glmat.Constrain(&key, &uvmap)
	if key.MaskThreshold != 1 {
		t.Errorf("mask threshold not clamped: %v", key.MaskThreshold)
	}
	key = glmat.MaterialKey{Alpha: glmat.AlphaMask, MaskThreshold: 0.25}
	glmat.Constrain(&key, &uvmap)
	if key.MaskThreshold != 0.25 {
		t.Errorf("valid mask threshold modified: %v", key.MaskThreshold)
	}
}

func TestConstrainUnlitDropsLitTextures(t *testing.T) {
	a := glmat.MaterialKey{
		Unlit:                       true,
		HasBaseColorTexture:         true,
		HasNormalTexture:            true,
		HasMetallicRoughnessTexture: true,
		HasOcclusionTexture:         true,
		HasEmissiveTexture:          true,
		NormalUV:                    1,
	}
	auv := glmat.UvMap{1, 1, 0, 0, 0, 0, 0, 0}
	b := glmat.MaterialKey{Unlit: true, HasBaseColorTexture: true}
	buv := glmat.UvMap{1, 0, 0, 0, 0, 0, 0, 0}
	glmat.Constrain(&a, &auv)
	glmat.Constrain(&b, &buv)
	if a != b {
		t.Errorf("unlit keys with unusable lit textures constrain differently:\n%+v\n%+v", a, b)
	}
	if !a.HasBaseColorTexture {
		t.Error("unlit constrain dropped base color texture")
	}
}

func TestConstrainDefensive(t *testing.T) {
	key := glmat.MaterialKey{
		HasBaseColorTexture: true,
		BaseColorUV:         200, // Beyond the uvmap.
	}
	uvmap := glmat.UvMap{3, 9, 0, 0, 0, 0, 0, 0} // Channels beyond MaxUvChannels.
	glmat.Constrain(&key, &uvmap)
	if key.BaseColorUV != 0 {
		t.Errorf("out of range selector not reset: %d", key.BaseColorUV)
	}
	if !key.HasBaseColorTexture {
		t.Error("defensive constrain must coerce, not drop the texture")
	}
	if uvmap != (glmat.UvMap{}) {
		t.Errorf("out of range uv channels not reset: %v", uvmap)
	}
}

func TestHashDistinguishesKeys(t *testing.T) {
	base := glmat.MaterialKey{HasBaseColorTexture: true}
	variants := []glmat.MaterialKey{
		{},
		{HasBaseColorTexture: true, Alpha: glmat.AlphaBlend},
		{HasBaseColorTexture: true, Alpha: glmat.AlphaMask, MaskThreshold: 0.5},
		{HasBaseColorTexture: true, DoubleSided: true},
		{HasBaseColorTexture: true, Unlit: true},
		{HasBaseColorTexture: true, BaseColorUV: 1},
		{HasBaseColorTexture: true, HasNormalTexture: true},
	}
	seen := map[uint64]glmat.MaterialKey{base.Hash(): base}
	for _, v := range variants {
		h := v.Hash()
		if prev, dup := seen[h]; dup {
			t.Errorf("hash collision between %+v and %+v", prev, v)
		}
		seen[h] = v
	}
	if base.Hash() != base.Hash() {
		t.Error("hash not stable across calls")
	}
}
