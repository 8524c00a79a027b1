// Package glgpu implements [glmat.Backend] on an OpenGL 4.6 context via the
// glgl package. It wraps the generated material function into a complete
// vertex+fragment program, forwards compile settings into GL pipeline state
// and uploads instance parameters as plain uniforms.
//
// GPU support requires CGo; without it every Backend method returns an error.
package glgpu

import (
	"strconv"

	"github.com/soypat/glmat"
)

var _ glmat.Backend = (*Backend)(nil)

// vertexSource is shared by every compiled material. Lit keys consume the
// vNormal output; for unlit keys it is dropped by the linker.
const vertexSource = `#version 460
uniform mat4 uModelViewProjection;
in vec3 aPos;
in vec2 aUV0;
in vec2 aUV1;
in vec4 aColor;
in vec3 aNormal;
out vec2 vUV0;
out vec2 vUV1;
out vec4 vColor;
out vec3 vNormal;
void main() {
	vUV0 = aUV0;
	vUV1 = aUV1;
	vColor = aColor;
	vNormal = aNormal;
	gl_Position = uModelViewProjection * vec4(aPos, 1.0);
}
`

// AppendFragmentSource appends the complete fragment shader for the
// generated material source to dst: version header, varying and uniform
// declarations per settings, the material function itself and a main that
// applies masked alpha discard when the settings call for it.
func AppendFragmentSource(dst, source []byte, settings glmat.CompileSettings) []byte {
	dst = append(dst, "#version 460\n"...)
	dst = append(dst, "in vec2 vUV0;\nin vec2 vUV1;\nin vec4 vColor;\n"...)
	if settings.Shading == glmat.ShadingLit {
		dst = append(dst, "in vec3 vNormal;\n"...)
	}
	dst = append(dst, "out vec4 fragColor;\n"...)
	for _, param := range settings.Params {
		dst = append(dst, "uniform "...)
		dst = append(dst, param.Type.GLTypename()...)
		dst = append(dst, ' ')
		dst = append(dst, param.Name...)
		dst = append(dst, ";\n"...)
	}
	dst = append(dst, source...)
	dst = append(dst, "void main() {\n\tvec4 color = material();\n"...)
	if settings.Blending == glmat.BlendingMasked {
		dst = append(dst, "\tif (color.a < "...)
		dst = strconv.AppendFloat(dst, float64(settings.MaskThreshold), 'g', -1, 32)
		dst = append(dst, ") {\n\t\tdiscard;\n\t}\n"...)
	}
	dst = append(dst, "\tfragColor = color;\n}\n"...)
	return dst
}
