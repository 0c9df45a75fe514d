// Package preprocess loads a .slang shader source file: resolving
// #include, extracting #pragma metadata, and splitting the expanded
// text into vertex and fragment stages.
package preprocess

// ImageFormat is the pixel format a pass declares via `#pragma format`.
// Unknown is resolved by the caller to R8G8B8A8Unorm.
type ImageFormat int

const (
	FormatUnknown ImageFormat = iota

	FormatR8Unorm
	FormatR8Uint
	FormatR8Sint
	FormatR8G8Unorm
	FormatR8G8Uint
	FormatR8G8Sint
	FormatR8G8B8A8Unorm
	FormatR8G8B8A8Uint
	FormatR8G8B8A8Sint
	FormatR8G8B8A8Srgb

	FormatA2B10G10R10UnormPack32
	FormatA2B10G10R10UintPack32

	FormatR16Uint
	FormatR16Sint
	FormatR16Sfloat
	FormatR16G16Uint
	FormatR16G16Sint
	FormatR16G16Sfloat
	FormatR16G16B16A16Uint
	FormatR16G16B16A16Sint
	FormatR16G16B16A16Sfloat

	FormatR32Uint
	FormatR32Sint
	FormatR32Sfloat
	FormatR32G32Uint
	FormatR32G32Sint
	FormatR32G32Sfloat
	FormatR32G32B32A32Uint
	FormatR32G32B32A32Sint
	FormatR32G32B32A32Sfloat
)

var formatNames = map[string]ImageFormat{
	"UNKNOWN": FormatUnknown,

	"R8_UNORM":   FormatR8Unorm,
	"R8_UINT":    FormatR8Uint,
	"R8_SINT":    FormatR8Sint,
	"R8G8_UNORM": FormatR8G8Unorm,
	"R8G8_UINT":  FormatR8G8Uint,
	"R8G8_SINT":  FormatR8G8Sint,

	"R8G8B8A8_UNORM": FormatR8G8B8A8Unorm,
	"R8G8B8A8_UINT":  FormatR8G8B8A8Uint,
	"R8G8B8A8_SINT":  FormatR8G8B8A8Sint,
	"R8G8B8A8_SRGB":  FormatR8G8B8A8Srgb,

	"A2B10G10R10_UNORM_PACK32": FormatA2B10G10R10UnormPack32,
	"A2B10G10R10_UINT_PACK32":  FormatA2B10G10R10UintPack32,

	"R16_UINT":   FormatR16Uint,
	"R16_SINT":   FormatR16Sint,
	"R16_SFLOAT": FormatR16Sfloat,

	"R16G16_UINT":   FormatR16G16Uint,
	"R16G16_SINT":   FormatR16G16Sint,
	"R16G16_SFLOAT": FormatR16G16Sfloat,

	"R16G16B16A16_UINT":   FormatR16G16B16A16Uint,
	"R16G16B16A16_SINT":   FormatR16G16B16A16Sint,
	"R16G16B16A16_SFLOAT": FormatR16G16B16A16Sfloat,

	"R32_UINT":   FormatR32Uint,
	"R32_SINT":   FormatR32Sint,
	"R32_SFLOAT": FormatR32Sfloat,

	"R32G32_UINT":   FormatR32G32Uint,
	"R32G32_SINT":   FormatR32G32Sint,
	"R32G32_SFLOAT": FormatR32G32Sfloat,

	"R32G32B32A32_UINT":   FormatR32G32B32A32Uint,
	"R32G32B32A32_SINT":   FormatR32G32B32A32Sint,
	"R32G32B32A32_SFLOAT": FormatR32G32B32A32Sfloat,
}

func imageFormatFromString(s string) ImageFormat {
	if f, ok := formatNames[s]; ok {
		return f
	}
	return FormatUnknown
}

// Resolve returns f, or R8G8B8A8Unorm if f is FormatUnknown — the
// renderer-side fallback for an undeclared format.
func (f ImageFormat) Resolve() ImageFormat {
	if f == FormatUnknown {
		Logger().Warn("pass declared no #pragma format, falling back to R8G8B8A8_UNORM")
		return FormatR8G8B8A8Unorm
	}
	return f
}
