package filterchain

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gogpu/shaderchain/reflect"
)

func TestResolveFrameCountModZero(t *testing.T) {
	if got := ResolveFrameCount(42, 0); got != 42 {
		t.Fatalf("got %d, want 42 (raw counter when mod=0)", got)
	}
}

func TestResolveFrameCountModNonZero(t *testing.T) {
	if got := ResolveFrameCount(42, 10); got != 2 {
		t.Fatalf("got %d, want 2", got)
	}
}

func TestBuildUniformBuffersWritesSemanticsAndParameters(t *testing.T) {
	refl := &reflect.ShaderReflection{
		UBO: &reflect.UboReflection{Size: 96},
		Meta: reflect.BindingMeta{
			Variables: []reflect.VariableMeta{
				{
					Binding: reflect.UniformBinding{IsSemantic: true, Semantic: reflect.SemanticOutput},
					Offset:  reflect.MemberOffset{Offset: 64},
				},
				{
					Binding: reflect.UniformBinding{IsParameter: true, Parameter: "strength"},
					Offset:  reflect.MemberOffset{Offset: 80},
				},
			},
		},
	}

	frame := FrameContext{OutputSize: [4]float32{1920, 1080, 1.0 / 1920, 1.0 / 1080}}
	ubo, push := BuildUniformBuffers(refl, frame, nil, func(name string) float32 {
		if name == "strength" {
			return 0.75
		}
		return 0
	})

	if len(push) != 0 {
		t.Fatalf("expected no push-constant bytes, got %d", len(push))
	}
	if len(ubo) != 96 {
		t.Fatalf("ubo len = %d, want 96", len(ubo))
	}

	w := math.Float32frombits(binary.LittleEndian.Uint32(ubo[64:]))
	if w != 1920 {
		t.Fatalf("OutputSize.width = %v, want 1920", w)
	}

	strength := math.Float32frombits(binary.LittleEndian.Uint32(ubo[80:]))
	if strength != 0.75 {
		t.Fatalf("strength = %v, want 0.75", strength)
	}
}

func TestBuildUniformBuffersTextureSize(t *testing.T) {
	idx := reflect.SemanticIndex{Semantic: reflect.TextureSource, Index: 0}
	refl := &reflect.ShaderReflection{
		UBO: &reflect.UboReflection{Size: 16},
		Meta: reflect.BindingMeta{
			Variables: []reflect.VariableMeta{
				{
					Binding: reflect.UniformBinding{IsTextureSize: true, TextureSize: idx},
					Offset:  reflect.MemberOffset{Offset: 0},
				},
			},
		},
	}

	ubo, _ := BuildUniformBuffers(refl, FrameContext{}, map[reflect.SemanticIndex][4]float32{
		idx: TextureSizeOf(256, 128),
	}, nil)

	h := math.Float32frombits(binary.LittleEndian.Uint32(ubo[4:]))
	if h != 128 {
		t.Fatalf("SourceSize.height = %v, want 128", h)
	}
}
