package filterchain

import (
	"testing"

	"github.com/gogpu/gputypes"
	wgpu "github.com/gogpu/shaderchain"
	"github.com/gogpu/shaderchain/preprocess"
	"github.com/gogpu/shaderchain/preset"
)

func TestResolveFormatFloatFramebufferWins(t *testing.T) {
	pass := preset.PassConfig{FloatFramebuffer: true, SRGBFramebuffer: true}
	if got := ResolveFormat(pass, preprocess.FormatR8G8B8A8Srgb); got != gputypes.TextureFormatRGBA16Float {
		t.Fatalf("got %v, want RGBA16Float", got)
	}
}

func TestResolveFormatSRGBFramebuffer(t *testing.T) {
	pass := preset.PassConfig{SRGBFramebuffer: true}
	if got := ResolveFormat(pass, preprocess.FormatR8G8B8A8Unorm); got != wgpu.TextureFormatRGBA8UnormSrgb {
		t.Fatalf("got %v, want RGBA8UnormSrgb", got)
	}
}

func TestResolveFormatPragma(t *testing.T) {
	pass := preset.PassConfig{}
	if got := ResolveFormat(pass, preprocess.FormatR16G16B16A16Sfloat); got != gputypes.TextureFormatRGBA16Float {
		t.Fatalf("got %v, want RGBA16Float", got)
	}
}

func TestResolveFormatUnknownFallsBackToRGBA8Unorm(t *testing.T) {
	pass := preset.PassConfig{}
	if got := ResolveFormat(pass, preprocess.FormatUnknown); got != wgpu.TextureFormatRGBA8Unorm {
		t.Fatalf("got %v, want RGBA8Unorm", got)
	}
}

func TestFormatFallbacksD3DStyle(t *testing.T) {
	chain := FormatFallbacks(wgpu.TextureFormatRGBA8Unorm)
	if len(chain) == 0 || chain[0] != wgpu.TextureFormatBGRA8Unorm {
		t.Fatalf("got %v, want first fallback BGRA8Unorm", chain)
	}
}
