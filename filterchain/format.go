package filterchain

import (
	"github.com/gogpu/gputypes"
	wgpu "github.com/gogpu/shaderchain"
	"github.com/gogpu/shaderchain/preprocess"
	"github.com/gogpu/shaderchain/preset"
)

// imageFormatTable maps a shader's #pragma format onto the closest
// wgpu.TextureFormat. FormatUnknown is handled by the caller before
// this table is consulted.
var imageFormatTable = map[preprocess.ImageFormat]wgpu.TextureFormat{
	preprocess.FormatR8Unorm:                gputypes.TextureFormatR8Unorm,
	preprocess.FormatR8Uint:                 gputypes.TextureFormatR8Uint,
	preprocess.FormatR8Sint:                 gputypes.TextureFormatR8Sint,
	preprocess.FormatR8G8Unorm:              gputypes.TextureFormatRG8Unorm,
	preprocess.FormatR8G8Uint:               gputypes.TextureFormatRG8Uint,
	preprocess.FormatR8G8Sint:               gputypes.TextureFormatRG8Sint,
	preprocess.FormatR8G8B8A8Unorm:          gputypes.TextureFormatRGBA8Unorm,
	preprocess.FormatR8G8B8A8Uint:           gputypes.TextureFormatRGBA8Uint,
	preprocess.FormatR8G8B8A8Sint:           gputypes.TextureFormatRGBA8Sint,
	preprocess.FormatR8G8B8A8Srgb:           gputypes.TextureFormatRGBA8UnormSrgb,
	preprocess.FormatA2B10G10R10UnormPack32: gputypes.TextureFormatRGB10A2Unorm,
	preprocess.FormatA2B10G10R10UintPack32:  gputypes.TextureFormatRGB10A2Uint,
	preprocess.FormatR16Uint:                gputypes.TextureFormatR16Uint,
	preprocess.FormatR16Sint:                gputypes.TextureFormatR16Sint,
	preprocess.FormatR16Sfloat:              gputypes.TextureFormatR16Float,
	preprocess.FormatR16G16Uint:             gputypes.TextureFormatRG16Uint,
	preprocess.FormatR16G16Sint:             gputypes.TextureFormatRG16Sint,
	preprocess.FormatR16G16Sfloat:           gputypes.TextureFormatRG16Float,
	preprocess.FormatR16G16B16A16Uint:       gputypes.TextureFormatRGBA16Uint,
	preprocess.FormatR16G16B16A16Sint:       gputypes.TextureFormatRGBA16Sint,
	preprocess.FormatR16G16B16A16Sfloat:     gputypes.TextureFormatRGBA16Float,
	preprocess.FormatR32Uint:                gputypes.TextureFormatR32Uint,
	preprocess.FormatR32Sint:                gputypes.TextureFormatR32Sint,
	preprocess.FormatR32Sfloat:              gputypes.TextureFormatR32Float,
	preprocess.FormatR32G32Uint:             gputypes.TextureFormatRG32Uint,
	preprocess.FormatR32G32Sint:             gputypes.TextureFormatRG32Sint,
	preprocess.FormatR32G32Sfloat:           gputypes.TextureFormatRG32Float,
	preprocess.FormatR32G32B32A32Uint:       gputypes.TextureFormatRGBA32Uint,
	preprocess.FormatR32G32B32A32Sint:       gputypes.TextureFormatRGBA32Sint,
	preprocess.FormatR32G32B32A32Sfloat:     gputypes.TextureFormatRGBA32Float,
}

// ResolveFormat picks a pass's render target format: float_framebuffer
// wins outright, then srgb_framebuffer, then the shader's own #pragma
// format, defaulting to RGBA8Unorm when the shader declared none.
func ResolveFormat(pass preset.PassConfig, shaderFormat preprocess.ImageFormat) wgpu.TextureFormat {
	switch {
	case pass.FloatFramebuffer:
		return gputypes.TextureFormatRGBA16Float
	case pass.SRGBFramebuffer:
		return wgpu.TextureFormatRGBA8UnormSrgb
	}

	if f, ok := imageFormatTable[shaderFormat]; ok {
		return f
	}
	return wgpu.TextureFormatRGBA8Unorm
}

// fallbackChains lists, per backend family, the ordered substitutes to
// try when a resolved format is not supported as a render target (spec
// §4.6, "e.g. on D3D R8G8B8A8_UNORM → B8G8R8A8_UNORM → UNKNOWN").
// Capability querying lives in the caller's device/adapter, so this
// only supplies the substitution order; the caller walks it against
// its own supported-format set and stops at the first hit.
var fallbackChains = map[wgpu.TextureFormat][]wgpu.TextureFormat{
	wgpu.TextureFormatRGBA8Unorm:      {wgpu.TextureFormatBGRA8Unorm},
	wgpu.TextureFormatRGBA8UnormSrgb:  {wgpu.TextureFormatBGRA8UnormSrgb, wgpu.TextureFormatRGBA8Unorm},
	gputypes.TextureFormatRGBA16Float: {gputypes.TextureFormatRGBA32Float},
}

// FormatFallbacks returns the substitution order for format, excluding
// format itself. An empty slice means there is no known substitute.
func FormatFallbacks(format wgpu.TextureFormat) []wgpu.TextureFormat {
	return fallbackChains[format]
}
