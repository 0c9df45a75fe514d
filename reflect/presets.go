package reflect

import (
	"strings"

	"github.com/gogpu/shaderchain/preprocess"
	"github.com/gogpu/shaderchain/preset"
)

// PassSemanticsInput is the per-pass information presets.go needs to
// extend a preset-wide ShaderSemantics: the pass's alias (if any) and
// its declared parameters.
type PassSemanticsInput struct {
	Index      int
	Alias      string
	Parameters []preprocess.ShaderParameter
}

// BuildSemantics folds each pass's alias and declared parameters, plus
// the preset's LUT textures, into a ShaderSemantics map the cross
// compiler needs for stable binding numbering.
func BuildSemantics(passes []PassSemanticsInput, textures []preset.TextureConfig) *ShaderSemantics {
	s := NewShaderSemantics()

	for _, p := range passes {
		for _, param := range p.Parameters {
			s.UniformSemantics[param.ID] = UniformBinding{IsParameter: true, Parameter: param.ID}
		}
	}

	for _, p := range passes {
		alias := strings.TrimSpace(p.Alias)
		if alias == "" {
			continue
		}

		outIdx := SemanticIndex{Semantic: TexturePassOutput, Index: p.Index}
		s.TextureSemantics[alias] = outIdx
		s.UniformSemantics[alias+"Size"] = UniformBinding{IsTextureSize: true, TextureSize: outIdx}

		fbIdx := SemanticIndex{Semantic: TexturePassFeedback, Index: p.Index}
		s.TextureSemantics[alias+"Feedback"] = fbIdx
		s.UniformSemantics[alias+"FeedbackSize"] = UniformBinding{IsTextureSize: true, TextureSize: fbIdx}
	}

	for i, tex := range textures {
		idx := SemanticIndex{Semantic: TextureUser, Index: i}
		s.TextureSemantics[tex.Name] = idx
		s.UniformSemantics[tex.Name+"Size"] = UniformBinding{IsTextureSize: true, TextureSize: idx}
	}

	return s
}
