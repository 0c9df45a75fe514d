package filterchain

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/shaderchain/reflect"
)

// FrameContext carries the values a pass's fixed uniform semantics read
// from on a given frame.
type FrameContext struct {
	// MVP is row-major. Frame always sets it to CanonicalMVP, for every
	// pass including the first and last; Frame takes no caller-supplied
	// MVP.
	MVP               [16]float32
	OutputSize        [4]float32 // width, height, 1/width, 1/height
	FinalViewportSize [4]float32
	FrameCount        uint32
	FrameDirection    int32
}

// CanonicalMVP is the orthographic projection that maps the [0,1] quad
// onto [-1,1] clip space without flipping Y. Frame uses it for every
// pass, the first and last included.
var CanonicalMVP = [16]float32{
	2, 0, 0, 0,
	0, 2, 0, 0,
	0, 0, 2, 0,
	-1, -1, 0, 1,
}

// TextureSizeOf builds the vec4(width, height, 1/width, 1/height) a
// bound texture's <Name>Size uniform expects.
func TextureSizeOf(width, height uint32) [4]float32 {
	return [4]float32{
		float32(width), float32(height),
		1 / float32(width), 1 / float32(height),
	}
}

// ParameterLookup resolves a shader parameter's current value following
// the runtime > preset > shader-default priority.
type ParameterLookup func(name string) float32

// BuildUniformBuffers writes refl's classified members into a UBO byte
// slice and a push-constant byte slice, sized to refl's reported (and
// already 16-byte-aligned) sizes. Members this pass's meta does not
// reference are left zeroed.
func BuildUniformBuffers(refl *reflect.ShaderReflection, frame FrameContext, textureSizes map[reflect.SemanticIndex][4]float32, params ParameterLookup) (ubo, push []byte) {
	var uboSize, pushSize uint32
	if refl.UBO != nil {
		uboSize = refl.UBO.Size
	}
	if refl.PushConstant != nil {
		pushSize = refl.PushConstant.Size
	}
	ubo = make([]byte, uboSize)
	push = make([]byte, pushSize)

	for _, v := range refl.Meta.Variables {
		dst := ubo
		if v.Offset.InPushConstant {
			dst = push
		}
		writeVariable(dst, v, frame, textureSizes, params)
	}
	return ubo, push
}

func writeVariable(dst []byte, v reflect.VariableMeta, frame FrameContext, textureSizes map[reflect.SemanticIndex][4]float32, params ParameterLookup) {
	offset := v.Offset.Offset
	b := v.Binding

	switch {
	case b.IsSemantic:
		switch b.Semantic {
		case reflect.SemanticMVP:
			writeFloats(dst, offset, frame.MVP[:])
		case reflect.SemanticOutput:
			writeFloats(dst, offset, frame.OutputSize[:])
		case reflect.SemanticFinalViewport:
			writeFloats(dst, offset, frame.FinalViewportSize[:])
		case reflect.SemanticFrameCount:
			binary.LittleEndian.PutUint32(dst[offset:], frame.FrameCount)
		case reflect.SemanticFrameDirection:
			binary.LittleEndian.PutUint32(dst[offset:], uint32(frame.FrameDirection))
		}
	case b.IsTextureSize:
		if size, ok := textureSizes[b.TextureSize]; ok {
			writeFloats(dst, offset, size[:])
		}
	case b.IsParameter:
		if params != nil {
			writeFloats(dst, offset, []float32{params(b.Parameter)})
		}
	}
}

func writeFloats(dst []byte, offset int, vals []float32) {
	for i, v := range vals {
		o := offset + i*4
		if o+4 > len(dst) {
			return
		}
		binary.LittleEndian.PutUint32(dst[o:], math.Float32bits(v))
	}
}

// ResolveFrameCount applies a pass's frame_count_mod: count mod mod
// when mod > 0, the raw counter when mod == 0.
func ResolveFrameCount(count uint64, mod uint32) uint32 {
	if mod == 0 {
		return uint32(count)
	}
	return uint32(count % uint64(mod))
}
