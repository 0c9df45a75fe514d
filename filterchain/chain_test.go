package filterchain_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/gputypes"
	wgpu "github.com/gogpu/shaderchain"
	"github.com/gogpu/shaderchain/filterchain"
	"github.com/gogpu/shaderchain/preset"
)

const chainTestShader = `#version 450

#pragma parameter strength "Strength" 1.0 0.0 2.0 0.1

layout(std140, set = 0, binding = 0) uniform UBO {
  mat4 MVP;
  vec4 OutputSize;
  float strength;
} global;

#pragma stage vertex
layout(location = 0) in vec4 Position;
layout(location = 1) in vec4 TexCoord;
layout(location = 0) out vec2 vTexCoord;

void main() {
  gl_Position = global.MVP * Position;
  vTexCoord = TexCoord.xy;
}

#pragma stage fragment
layout(binding = 1) uniform sampler2D Source;

layout(location = 0) in vec2 vTexCoord;
layout(location = 0) out vec4 FragColor;

void main() {
  FragColor = texture(Source, vTexCoord) * global.strength;
}
`

func writeChainTestShader(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pass0.slang")
	if err := os.WriteFile(path, []byte(chainTestShader), 0o644); err != nil {
		t.Fatalf("write shader: %v", err)
	}
	return path
}

func TestLoadFromPresetAndFrame(t *testing.T) {
	instance, adapter, device := createTestDevice(t)
	defer instance.Release()
	defer adapter.Release()
	defer device.Release()

	shaderPath := writeChainTestShader(t)
	p := &preset.ShaderPreset{
		ShaderCount: 1,
		Passes:      []preset.PassConfig{{Index: 0, Path: shaderPath}},
	}

	chain, err := filterchain.LoadFromPreset(device, p, filterchain.LoadOptions{OutputFormat: wgpu.TextureFormatRGBA8Unorm})
	if err != nil {
		t.Fatalf("LoadFromPreset: %v", err)
	}
	defer chain.Release()

	if v, ok := chain.GetParameter("strength"); !ok || v != 1.0 {
		t.Fatalf("GetParameter(strength) = (%v, %v), want (1.0, true)", v, ok)
	}
	if err := chain.SetParameter("strength", 0.5); err != nil {
		t.Fatalf("SetParameter: %v", err)
	}
	if v, _ := chain.GetParameter("strength"); v != 0.5 {
		t.Fatalf("GetParameter after SetParameter = %v, want 0.5", v)
	}
	if err := chain.SetParameter("does-not-exist", 1); err == nil {
		t.Fatal("expected UnknownParameterError for unknown parameter")
	}

	if chain.PassesEnabled() != 1 {
		t.Fatalf("PassesEnabled() = %d, want 1", chain.PassesEnabled())
	}

	input, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Size:          wgpu.Extent3D{Width: 32, Height: 32, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopySrc | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		t.Fatalf("CreateTexture(input): %v", err)
	}
	defer input.Release()

	output, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Size:          wgpu.Extent3D{Width: 32, Height: 32, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageCopySrc,
	})
	if err != nil {
		t.Fatalf("CreateTexture(output): %v", err)
	}
	defer output.Release()
	outputView, err := device.CreateTextureView(output, nil)
	if err != nil {
		t.Fatalf("CreateTextureView(output): %v", err)
	}
	defer outputView.Release()

	err = chain.Frame(input, outputView, filterchain.Rect{Width: 32, Height: 32}, 1, filterchain.FrameOptions{})
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}

	// A second frame exercises the output/feedback swap and history rotation.
	if err := chain.Frame(input, outputView, filterchain.Rect{Width: 32, Height: 32}, 2, filterchain.FrameOptions{}); err != nil {
		t.Fatalf("second Frame: %v", err)
	}
}

func TestSetPassesEnabledTruncatesFrame(t *testing.T) {
	instance, adapter, device := createTestDevice(t)
	defer instance.Release()
	defer adapter.Release()
	defer device.Release()

	shaderPath := writeChainTestShader(t)
	p := &preset.ShaderPreset{
		ShaderCount: 1,
		Passes:      []preset.PassConfig{{Index: 0, Path: shaderPath}},
	}

	chain, err := filterchain.LoadFromPreset(device, p, filterchain.LoadOptions{OutputFormat: wgpu.TextureFormatRGBA8Unorm})
	if err != nil {
		t.Fatalf("LoadFromPreset: %v", err)
	}
	defer chain.Release()

	chain.SetPassesEnabled(0)
	if chain.PassesEnabled() != 0 {
		t.Fatalf("PassesEnabled() = %d, want 0", chain.PassesEnabled())
	}

	input, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Size:          wgpu.Extent3D{Width: 16, Height: 16, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopySrc,
	})
	if err != nil {
		t.Fatalf("CreateTexture(input): %v", err)
	}
	defer input.Release()

	output, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Size:          wgpu.Extent3D{Width: 16, Height: 16, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		t.Fatalf("CreateTexture(output): %v", err)
	}
	defer output.Release()
	outputView, err := device.CreateTextureView(output, nil)
	if err != nil {
		t.Fatalf("CreateTextureView(output): %v", err)
	}
	defer outputView.Release()

	// With zero passes enabled, Frame must be a no-op, not an error.
	if err := chain.Frame(input, outputView, filterchain.Rect{Width: 16, Height: 16}, 1, filterchain.FrameOptions{}); err != nil {
		t.Fatalf("Frame with zero passes enabled: %v", err)
	}
}
