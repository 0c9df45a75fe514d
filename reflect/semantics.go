// Package reflect compiles preprocessed slang stages to SPIR-V,
// reflects their uniform/texture bindings into semantic roles, and
// cross-compiles to target shading languages.
package reflect

import (
	"strconv"
	"strings"
)

// Resource limits enforced during reflection.
const (
	MaxBindingsCount  = 16
	MaxPushBufferSize = 128
)

// BindingStage is a bitmask of the shader stages that reference a
// binding.
type BindingStage uint8

const (
	StageNone     BindingStage = 0
	StageVertex   BindingStage = 1 << 0
	StageFragment BindingStage = 1 << 1
)

// UniqueSemantic is one of the five fixed per-pass uniform roles
// matched by exact name.
type UniqueSemantic int

const (
	SemanticMVP UniqueSemantic = iota
	SemanticOutput
	SemanticFinalViewport
	SemanticFrameCount
	SemanticFrameDirection
)

var uniqueSemanticNames = map[string]UniqueSemantic{
	"MVP":               SemanticMVP,
	"OutputSize":        SemanticOutput,
	"FinalViewportSize": SemanticFinalViewport,
	"FrameCount":        SemanticFrameCount,
	"FrameDirection":    SemanticFrameDirection,
}

// ExpectedType names the GLSL type a UniqueSemantic must type-check
// against.
func (s UniqueSemantic) ExpectedType() string {
	switch s {
	case SemanticMVP:
		return "mat4"
	case SemanticOutput, SemanticFinalViewport:
		return "vec4"
	case SemanticFrameCount:
		return "uint"
	case SemanticFrameDirection:
		return "int"
	default:
		return ""
	}
}

// TextureSemantic is one of the array/non-array texture roles matched
// by name prefix.
type TextureSemantic int

const (
	TextureOriginal TextureSemantic = iota
	TextureSource
	TextureOriginalHistory
	TexturePassOutput
	TexturePassFeedback
	TextureUser
)

// textureSemanticOrder fixes the lookup priority: OriginalHistory must
// be tried before Original, since "OriginalHistory0" also starts with
// "Original".
var textureSemanticOrder = []TextureSemantic{
	TextureSource,
	TextureOriginalHistory,
	TextureOriginal,
	TexturePassOutput,
	TexturePassFeedback,
	TextureUser,
}

func (t TextureSemantic) TextureName() string {
	switch t {
	case TextureOriginal:
		return "Original"
	case TextureSource:
		return "Source"
	case TextureOriginalHistory:
		return "OriginalHistory"
	case TexturePassOutput:
		return "PassOutput"
	case TexturePassFeedback:
		return "PassFeedback"
	case TextureUser:
		return "User"
	default:
		return ""
	}
}

func (t TextureSemantic) SizeUniformName() string {
	return t.TextureName() + "Size"
}

// IsArray reports whether the semantic is indexed (history/pass/user)
// rather than singular (Original, Source).
func (t TextureSemantic) IsArray() bool {
	return t != TextureOriginal && t != TextureSource
}

// SemanticIndex pairs a TextureSemantic with its array index (always 0
// for non-array semantics).
type SemanticIndex struct {
	Semantic TextureSemantic
	Index    int
}

// UniformBinding is the resolved identity of one UBO/push-constant
// member: either a free-form user parameter, a fixed per-pass
// semantic, or a texture's size uniform.
type UniformBinding struct {
	IsParameter   bool
	Parameter     string
	IsSemantic    bool
	Semantic      UniqueSemantic
	IsTextureSize bool
	TextureSize   SemanticIndex
}

// MemberOffset locates a member inside either the UBO or the push
// constant block.
type MemberOffset struct {
	InPushConstant bool
	Offset         int
}

// VariableMeta describes one classified UBO/push-constant member.
type VariableMeta struct {
	Binding    UniformBinding
	Offset     MemberOffset
	Components uint32
	ID         string
}

// TextureBinding is the resolved binding index of a sampled image.
type TextureBinding struct {
	Binding uint32
}

// UboReflection describes the pass's uniform buffer, if any.
type UboReflection struct {
	Binding   uint32
	Size      uint32
	StageMask BindingStage
}

// PushReflection describes the pass's push-constant block, if any.
type PushReflection struct {
	Size      uint32
	StageMask BindingStage
}

// BindingMeta is the full set of classified members and texture
// bindings for one pass: variables by member offset, textures by
// (semantic, index).
type BindingMeta struct {
	Variables    []VariableMeta
	TextureMeta  map[SemanticIndex]TextureBinding
	TextureSize  map[SemanticIndex]VariableMeta
	StageInputs  int
	StageOutputs int
}

// ShaderReflection is the full reflected result of one pass.
type ShaderReflection struct {
	UBO          *UboReflection
	PushConstant *PushReflection
	Meta         BindingMeta
}

// ShaderSemantics is the preset-wide map from uniform/texture names to
// their semantic roles, built by presets.go and consumed by the
// cross-compile back end for stable binding numbering.
type ShaderSemantics struct {
	UniformSemantics map[string]UniformBinding
	TextureSemantics map[string]SemanticIndex
}

// NewShaderSemantics returns an empty ShaderSemantics ready for
// insertion by presets.go.
func NewShaderSemantics() *ShaderSemantics {
	return &ShaderSemantics{
		UniformSemantics: make(map[string]UniformBinding),
		TextureSemantics: make(map[string]SemanticIndex),
	}
}

// ClassifyUniform resolves a UBO/push-constant member name to its
// UniformBinding, applying preset-supplied semantics first and falling
// back to the fixed exact-name/prefix rules.
func (s *ShaderSemantics) ClassifyUniform(name string) UniformBinding {
	if b, ok := s.UniformSemantics[name]; ok {
		return b
	}
	if sem, ok := uniqueSemanticNames[name]; ok {
		return UniformBinding{IsSemantic: true, Semantic: sem}
	}
	if idx, ok := matchTextureSizeName(name); ok {
		return UniformBinding{IsTextureSize: true, TextureSize: idx}
	}
	return UniformBinding{IsParameter: true, Parameter: name}
}

// ClassifyTexture resolves a sampled-image name to its semantic index.
func (s *ShaderSemantics) ClassifyTexture(name string) (SemanticIndex, bool) {
	if idx, ok := s.TextureSemantics[name]; ok {
		return idx, true
	}
	return matchTextureName(name)
}

func matchTextureSizeName(name string) (SemanticIndex, bool) {
	for _, sem := range textureSemanticOrder {
		prefix := sem.SizeUniformName()
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if sem.IsArray() {
			rest := name[len(prefix):]
			n, err := strconv.Atoi(rest)
			if err != nil {
				continue
			}
			return SemanticIndex{Semantic: sem, Index: n}, true
		}
		if name == prefix {
			return SemanticIndex{Semantic: sem, Index: 0}, true
		}
	}
	return SemanticIndex{}, false
}

func matchTextureName(name string) (SemanticIndex, bool) {
	for _, sem := range textureSemanticOrder {
		prefix := sem.TextureName()
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if sem.IsArray() {
			rest := name[len(prefix):]
			n, err := strconv.Atoi(rest)
			if err != nil {
				continue
			}
			return SemanticIndex{Semantic: sem, Index: n}, true
		}
		if name == prefix {
			return SemanticIndex{Semantic: sem, Index: 0}, true
		}
	}
	return SemanticIndex{}, false
}

// Align16 rounds size up to the next multiple of 16, the alignment
// required for reported UBO/push-constant sizes.
func Align16(size uint32) uint32 {
	return (size + 15) &^ 15
}

// CalculateRequiredHistory returns the number of history frames a
// preset's passes require, i.e. one more than the highest
// OriginalHistory<N> index referenced across all passes' reflections.
func CalculateRequiredHistory(reflections []*ShaderReflection) int {
	max := -1
	for _, r := range reflections {
		if r == nil {
			continue
		}
		for idx := range r.Meta.TextureMeta {
			if idx.Semantic == TextureOriginalHistory && idx.Index > max {
				max = idx.Index
			}
		}
	}
	return max + 1
}
