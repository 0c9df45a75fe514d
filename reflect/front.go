package reflect

import (
	"regexp"
	"strconv"
	"strings"
)

// member is one raw (unclassified) UBO or push-constant field, as
// declared in slang source, before semantic classification.
type member struct {
	name       string
	glslType   string
	components uint32
	arrayLen   int // 0 when not an array
}

// samplerDecl is one raw sampled-image declaration.
type samplerDecl struct {
	name    string
	binding uint32
}

// declarations is the result of scanning one preprocessed GLSL stage
// for its resource declarations, before reflection assigns semantic
// roles.
type declarations struct {
	uboName     string
	uboSet      int
	uboBinding  int
	uboMembers  []member
	hasUBO      bool
	pushMembers []member
	hasPush     bool
	samplers    []samplerDecl
	inputCount  int
	outputCount int
	inputLocs   map[int]bool
	outputLocs  map[int]bool
}

var (
	reUBO     = regexp.MustCompile(`layout\s*\(\s*std140\s*,?\s*set\s*=\s*(\d+)\s*,\s*binding\s*=\s*(\d+)\s*\)\s*uniform\s+(\w+)\s*\{`)
	rePush    = regexp.MustCompile(`layout\s*\(\s*push_constant\s*\)\s*uniform\s+(\w+)\s*\{`)
	reSampler = regexp.MustCompile(`layout\s*\(\s*binding\s*=\s*(\d+)\s*\)\s*uniform\s+sampler2D\s+(\w+)\s*;`)
	reInOut   = regexp.MustCompile(`layout\s*\(\s*location\s*=\s*(\d+)\s*\)\s*(in|out)\s+(\w+)\s+(\w+)\s*;`)
	reMember  = regexp.MustCompile(`^\s*(float|int|uint|vec2|vec3|vec4|mat4|mat3)\s+(\w+)(\[(\d+)\])?\s*;`)
)

var glslTypeComponents = map[string]uint32{
	"float": 1, "int": 1, "uint": 1,
	"vec2": 2, "vec3": 3, "vec4": 4,
	"mat3": 9, "mat4": 16,
}

// parseDeclarations scans one preprocessed stage's GLSL text for its
// UBO, push-constant, sampler, and in/out declarations. This does not
// require a full GLSL parser: slang shaders declare resources with a
// constrained grammar of top-level `layout(...) uniform`/`in`/`out`
// statements, and that is all reflection needs to classify.
func parseDeclarations(stageText string) declarations {
	d := declarations{
		inputLocs:  map[int]bool{},
		outputLocs: map[int]bool{},
	}

	lines := strings.Split(stageText, "\n")
	inBlock := ""
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if inBlock != "" {
			if strings.HasPrefix(trimmed, "}") {
				inBlock = ""
				continue
			}
			if m := reMember.FindStringSubmatch(trimmed); m != nil {
				arrLen := 0
				if m[4] != "" {
					arrLen, _ = strconv.Atoi(m[4])
				}
				mem := member{
					name:       m[2],
					glslType:   m[1],
					components: glslTypeComponents[m[1]],
					arrayLen:   arrLen,
				}
				if inBlock == "ubo" {
					d.uboMembers = append(d.uboMembers, mem)
				} else {
					d.pushMembers = append(d.pushMembers, mem)
				}
			}
			continue
		}

		if m := reUBO.FindStringSubmatch(trimmed); m != nil {
			d.hasUBO = true
			d.uboSet, _ = strconv.Atoi(m[1])
			d.uboBinding, _ = strconv.Atoi(m[2])
			d.uboName = m[3]
			inBlock = "ubo"
			continue
		}
		if m := rePush.FindStringSubmatch(trimmed); m != nil {
			d.hasPush = true
			inBlock = "push"
			continue
		}
		if m := reSampler.FindStringSubmatch(trimmed); m != nil {
			binding, _ := strconv.Atoi(m[1])
			d.samplers = append(d.samplers, samplerDecl{name: m[2], binding: uint32(binding)})
			continue
		}
		if m := reInOut.FindStringSubmatch(trimmed); m != nil {
			loc, _ := strconv.Atoi(m[1])
			if m[2] == "in" {
				d.inputCount++
				d.inputLocs[loc] = true
			} else {
				d.outputCount++
				d.outputLocs[loc] = true
			}
		}
	}

	return d
}

// sizeOf returns the std140 size contribution in bytes for a member
// (every scalar or vector element, arrayed or not, takes a full 16-byte
// vec4 slot; mat3 and mat4 count per-column vec4s); this is an approximation sufficient for the
// 16-byte-aligned total size reflection reports, not a full std140
// layout engine.
func (m member) sizeOf() uint32 {
	count := uint32(1)
	if m.arrayLen > 0 {
		count = uint32(m.arrayLen)
	}
	switch m.glslType {
	case "mat4":
		return 64 * count
	case "mat3":
		return 48 * count
	default:
		return 16 * count
	}
}

// validateFixedLimits checks the fixed vertex/fragment resource
// limits against the raw declarations of both stages.
func validateFixedLimits(vertex, fragment declarations) error {
	if vertex.inputCount != 2 {
		return &ReflectError{Kind: ReflectInvalidIOCount, Reason: "vertex stage must declare exactly 2 inputs"}
	}
	if !vertex.inputLocs[0] || !vertex.inputLocs[1] {
		return &ReflectError{Kind: ReflectInvalidLocation, Reason: "vertex stage inputs must be at locations 0 and 1"}
	}
	if len(vertex.samplers) != 0 {
		return &ReflectError{Kind: ReflectInvalidResourceType, Reason: "vertex stage must not declare sampled images"}
	}

	if fragment.outputCount != 1 || !fragment.outputLocs[0] {
		return &ReflectError{Kind: ReflectInvalidLocation, Reason: "fragment stage must declare exactly one output at location 0"}
	}

	if vertex.hasUBO && fragment.hasUBO && vertex.uboBinding != fragment.uboBinding {
		return &ReflectError{Kind: ReflectUBOMismatch, Reason: "vertex and fragment UBO bindings differ"}
	}
	if vertex.hasUBO && vertex.uboSet != 0 {
		return &ReflectError{Kind: ReflectDescriptorSetMismatch, Reason: "UBO descriptor set must be 0"}
	}
	if vertex.hasUBO && vertex.uboBinding >= MaxBindingsCount {
		return &ReflectError{Kind: ReflectBindingCollision, Reason: "UBO binding index out of range"}
	}

	return nil
}
