package glmat

// Shader source generation. The emitted text is a pure function of the
// constrained key: optional sampling blocks are included per present texture
// while UV routing stays a runtime uniform (*Index, -1 when unbound) so the
// variant space grows with feature combinations, never with UV assignments.

// Source returns the generated material source for key. Convenience wrapper
// over [AppendSource].
func Source(key MaterialKey) string {
	return string(AppendSource(nil, key))
}

// AppendSource appends the GLSL material function for key to dst and returns
// the result. The emitted function
//
//	vec4 material()
//
// references the uniforms declared by [Params] and the varyings vUV0, vUV1,
// vColor and, for lit keys, vNormal, all of which the backend's program
// scaffolding must declare. Repeated calls for equal keys produce
// byte-identical output.
func AppendSource(dst []byte, key MaterialKey) []byte {
	dst = append(dst, "vec4 material() {\n"...)
	dst = append(dst, "\tvec2 uvs[2] = vec2[2](vUV0, vUV1);\n"...)
	dst = append(dst, "\tvec4 baseColor = baseColorFactor;\n"...)
	if key.HasBaseColorTexture {
		dst = appendSampleBlock(dst, SlotBaseColor, "\t\tbaseColor *= texture(baseColorMap, uv);\n")
	}
	dst = append(dst, "\tif (blendEnabled) {\n\t\tbaseColor.rgb *= baseColor.a;\n\t}\n"...)
	dst = append(dst, "\tbaseColor *= vColor;\n"...)
	if key.Unlit {
		dst = append(dst, "\treturn baseColor;\n}\n"...)
		return dst
	}
	dst = append(dst, "\tvec3 normal = normalize(vNormal);\n"...)
	if key.HasNormalTexture {
		dst = appendSampleBlock(dst, SlotNormal,
			"\t\tvec3 n = texture(normalMap, uv).xyz * 2.0 - 1.0;\n"+
				"\t\tn.y = -n.y;\n"+
				"\t\tn.xy *= normalScale;\n"+
				"\t\tnormal = normalize(n);\n")
	}
	dst = append(dst, "\tfloat metallic = metallicFactor;\n"...)
	dst = append(dst, "\tfloat roughness = roughnessFactor;\n"...)
	dst = append(dst, "\tfloat occlusion = 1.0;\n"...)
	dst = append(dst, "\tvec3 emissive = emissiveFactor;\n"...)
	if key.HasMetallicRoughnessTexture {
		dst = appendSampleBlock(dst, SlotMetallicRoughness,
			"\t\tvec4 mr = texture(metallicRoughnessMap, uv);\n"+
				"\t\troughness *= mr.g;\n"+
				"\t\tmetallic *= mr.b;\n")
	}
	if key.HasOcclusionTexture {
		dst = appendSampleBlock(dst, SlotOcclusion,
			"\t\tocclusion = texture(occlusionMap, uv).r * aoStrength;\n")
	}
	if key.HasEmissiveTexture {
		dst = appendSampleBlock(dst, SlotEmissive,
			"\t\temissive *= texture(emissiveMap, uv).rgb;\n")
	}
	dst = append(dst, "\tvec3 lightDir = normalize(vec3(1.0, -1.0, -1.0));\n"...)
	dst = append(dst, "\tfloat diff = max(dot(normal, -lightDir), 0.0);\n"...)
	dst = append(dst, "\tfloat spec = pow(diff, 16.0) * (1.0 - roughness) * (0.5 + 0.5 * metallic);\n"...)
	dst = append(dst, "\tvec3 lighting = vec3(0.3) * occlusion + vec3(diff + spec);\n"...)
	dst = append(dst, "\treturn vec4(baseColor.rgb * lighting + emissive, baseColor.a);\n}\n"...)
	return dst
}

// appendSampleBlock emits the runtime-gated UV select and transform prologue
// followed by body, which may reference the transformed coordinate uv.
func appendSampleBlock(dst []byte, slot TextureSlot, body string) []byte {
	names := slotParams[slot]
	dst = append(dst, "\tif ("...)
	dst = append(dst, names.index...)
	dst = append(dst, " > -1) {\n\t\tvec2 uv = (vec3(uvs["...)
	dst = append(dst, names.index...)
	dst = append(dst, "], 1.0) * "...)
	dst = append(dst, names.matrix...)
	dst = append(dst, ").xy;\n"...)
	dst = append(dst, body...)
	dst = append(dst, "\t}\n"...)
	return dst
}
