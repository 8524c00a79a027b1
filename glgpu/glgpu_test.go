package glgpu_test

import (
	"strings"
	"testing"

	"github.com/soypat/glmat"
	"github.com/soypat/glmat/glgpu"
)

func TestAppendFragmentSource(t *testing.T) {
	key := glmat.MaterialKey{
		HasBaseColorTexture: true,
		Alpha:               glmat.AlphaMask,
		MaskThreshold:       0.25,
	}
	var uvmap glmat.UvMap
	glmat.Constrain(&key, &uvmap)
	settings := glmat.Settings(key, "cutout")
	frag := string(glgpu.AppendFragmentSource(nil, glmat.AppendSource(nil, key), settings))
	for _, want := range []string{
		"#version 460",
		"uniform sampler2D baseColorMap;",
		"uniform mat3 baseColorUvMatrix;",
		"uniform int baseColorIndex;",
		"uniform bool blendEnabled;",
		"in vec3 vNormal;",
		"vec4 material()",
		"if (color.a < 0.25)",
		"discard",
		"void main()",
	} {
		if !strings.Contains(frag, want) {
			t.Errorf("fragment missing %q:\n%s", want, frag)
		}
	}
}

func TestAppendFragmentSourceUnlitOpaque(t *testing.T) {
	key := glmat.MaterialKey{Unlit: true}
	var uvmap glmat.UvMap
	glmat.Constrain(&key, &uvmap)
	settings := glmat.Settings(key, "flat")
	frag := string(glgpu.AppendFragmentSource(nil, glmat.AppendSource(nil, key), settings))
	if strings.Contains(frag, "discard") {
		t.Error("opaque material must not alpha test")
	}
	if strings.Contains(frag, "vNormal") {
		t.Error("unlit material must not declare normals")
	}
	if strings.Contains(frag, "sampler2D") {
		t.Error("untextured material must not declare samplers")
	}
}
