package reflect

import (
	"fmt"
	"strings"
)

// SamplerBindingBase is the target-specific base binding index
// sampled images are renumbered from; Vulkan/SPIR-V uses 2 to leave
// 0/1 for the UBO and push-constant-as-UBO fallback.
const SamplerBindingBase = 2

// SynthesizeWGSL builds the WGSL shape module for a compiled pass:
// correct bindings, types, and entry-point signatures with passthrough
// bodies, applying the link-stage renumbering and the target's sampler
// binding base. naga's front end is WGSL-only, so this synthesis step
// is how a slang pass still reaches naga's real SPIR-V/GLSL/HLSL/MSL
// backends without requiring naga to parse GLSL itself. Equivalent to
// SynthesizeWGSLWithGroup(pass, link, 1).
func SynthesizeWGSL(pass *CompiledPass, link LinkResult) string {
	return SynthesizeWGSLWithGroup(pass, link, 1)
}

// SynthesizeWGSLWithGroup is SynthesizeWGSL with an explicit sampler
// bind group, matching the WGSL-target `sampler_bind_group` option.
func SynthesizeWGSLWithGroup(pass *CompiledPass, link LinkResult, samplerGroup uint32) string {
	var b strings.Builder

	writeUBO(&b, "Ubo", pass.Vertex, pass.Fragment)
	writePush(&b, pass.Vertex, pass.Fragment)
	writeSamplers(&b, pass.Fragment.samplers, samplerGroup)

	fmt.Fprintf(&b, "struct VertexOutput {\n  @builtin(position) position: vec4<f32>,\n")
	for loc, newLoc := range link.KeptLocations {
		fmt.Fprintf(&b, "  @location(%d) interp%d: vec4<f32>,\n", newLoc, loc)
	}
	b.WriteString("}\n\n")

	b.WriteString("@vertex\n")
	b.WriteString("fn main(@location(0) position: vec2<f32>, @location(1) texcoord: vec2<f32>) -> VertexOutput {\n")
	b.WriteString("  var out: VertexOutput;\n")
	b.WriteString("  out.position = vec4<f32>(position, 0.0, 1.0);\n")
	b.WriteString("  return out;\n")
	b.WriteString("}\n\n")

	b.WriteString("@fragment\n")
	b.WriteString("fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {\n")
	b.WriteString("  return vec4<f32>(0.0, 0.0, 0.0, 1.0);\n")
	b.WriteString("}\n")

	return b.String()
}

func writeUBO(b *strings.Builder, name string, vertex, fragment declarations) {
	d := vertex
	if !d.hasUBO {
		d = fragment
	}
	if !d.hasUBO {
		return
	}

	fmt.Fprintf(b, "struct %s {\n", name)
	for _, m := range d.uboMembers {
		fmt.Fprintf(b, "  %s: %s,\n", m.name, wgslType(m))
	}
	b.WriteString("}\n")
	fmt.Fprintf(b, "@group(0) @binding(%d) var<uniform> %s: %s;\n\n", d.uboBinding, strings.ToLower(name), name)
}

func writePush(b *strings.Builder, vertex, fragment declarations) {
	members := vertex.pushMembers
	if len(members) == 0 {
		members = fragment.pushMembers
	}
	if len(members) == 0 {
		return
	}

	b.WriteString("struct PushConstants {\n")
	for _, m := range members {
		fmt.Fprintf(b, "  %s: %s,\n", m.name, wgslType(m))
	}
	b.WriteString("}\n")
	// naga has no push-constant address space yet; lower to a second UBO,
	// matching the WGSL-target `write_pcb_as_ubo` option.
	b.WriteString("@group(0) @binding(1) var<uniform> push: PushConstants;\n\n")
}

func writeSamplers(b *strings.Builder, samplers []samplerDecl, group uint32) {
	for i, s := range samplers {
		base := SamplerBindingBase + uint32(i)*2
		fmt.Fprintf(b, "@group(%d) @binding(%d) var %s_tex: texture_2d<f32>;\n", group, base, s.name)
		fmt.Fprintf(b, "@group(%d) @binding(%d) var %s_sampler: sampler;\n\n", group, base+1, s.name)
	}
}

func wgslType(m member) string {
	var base string
	switch m.glslType {
	case "float":
		base = "f32"
	case "int":
		base = "i32"
	case "uint":
		base = "u32"
	case "vec2", "vec3", "vec4":
		base = m.glslType + "<f32>"
	case "mat3":
		base = "mat3x3<f32>"
	case "mat4":
		base = "mat4x4<f32>"
	default:
		base = "f32"
	}
	if m.arrayLen > 0 {
		return fmt.Sprintf("array<%s, %d>", base, m.arrayLen)
	}
	return base
}
