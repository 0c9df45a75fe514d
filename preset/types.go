// Package preset parses .slangp shader presets into a resolved ShaderPreset:
// an ordered pass list, LUT texture list, and parameter overrides.
package preset

import "fmt"

// FilterMode selects how a pass or texture is sampled.
type FilterMode uint8

const (
	// FilterUnspecified means the renderer should pick its own default (linear).
	FilterUnspecified FilterMode = iota
	FilterLinear
	FilterNearest
)

func (f FilterMode) String() string {
	switch f {
	case FilterLinear:
		return "linear"
	case FilterNearest:
		return "nearest"
	default:
		return "unspecified"
	}
}

// WrapMode selects texture coordinate addressing outside [0, 1].
type WrapMode uint8

const (
	WrapClampToBorder WrapMode = iota
	WrapClampToEdge
	WrapRepeat
	WrapMirroredRepeat
)

func (w WrapMode) String() string {
	switch w {
	case WrapClampToEdge:
		return "clamp_to_edge"
	case WrapRepeat:
		return "repeat"
	case WrapMirroredRepeat:
		return "mirrored_repeat"
	default:
		return "clamp_to_border"
	}
}

func wrapModeFromString(s string) WrapMode {
	switch s {
	case "clamp_to_edge":
		return WrapClampToEdge
	case "repeat":
		return WrapRepeat
	case "mirrored_repeat":
		return WrapMirroredRepeat
	default:
		return WrapClampToBorder
	}
}

func filterModeFromString(s string) FilterMode {
	switch s {
	case "nearest":
		return FilterNearest
	case "linear":
		return FilterLinear
	default:
		return FilterUnspecified
	}
}

// ScaleType is the unit that a pass's output dimension is computed in.
type ScaleType uint8

const (
	ScaleInput ScaleType = iota
	ScaleAbsolute
	ScaleViewport
)

func scaleTypeFromString(s string) (ScaleType, bool) {
	switch s {
	case "source":
		return ScaleInput, true
	case "viewport":
		return ScaleViewport, true
	case "absolute":
		return ScaleAbsolute, true
	default:
		return 0, false
	}
}

// Scaling is one axis of a pass's Scale2D: a scale type plus its factor
// (a multiplier for Source/Viewport, or an absolute pixel count).
type Scaling struct {
	Type   ScaleType
	Factor float32
}

// Scale2D describes how a pass computes its output size from the source
// and viewport sizes. Valid is false when neither axis had an explicit
// scale_type, meaning the renderer should fall back to its own default
// (typically Source x1).
type Scale2D struct {
	Valid bool
	X, Y  Scaling
}

// PassConfig is one entry of the ordered pass list.
type PassConfig struct {
	Index           int
	Path            string
	Alias           string
	Filter          FilterMode
	WrapMode        WrapMode
	FrameCountMod   uint32
	SRGBFramebuffer bool
	FloatFramebuffer bool
	MipmapInput     bool
	Scale           Scale2D
}

// TextureConfig is one LUT entry declared by the `textures = "..."` key.
type TextureConfig struct {
	Name     string
	Path     string
	WrapMode WrapMode
	Filter   FilterMode
	Mipmap   bool
}

// Parameter is a named `#pragma parameter` override from the preset file.
type Parameter struct {
	Name  string
	Value float32
}

// ShaderPreset is the fully resolved result of parsing a .slangp file.
type ShaderPreset struct {
	ShaderCount  uint32
	FeedbackPass uint32
	Passes       []PassConfig
	Textures     []TextureConfig
	Parameters   []Parameter
}

// Pass returns the pass configuration with the given index, if present
// among the active (0..ShaderCount) passes.
func (p *ShaderPreset) Pass(index int) (*PassConfig, bool) {
	for i := range p.Passes {
		if p.Passes[i].Index == index {
			return &p.Passes[i], true
		}
	}
	return nil, false
}

// ParameterValue returns the preset-level override for a named parameter.
func (p *ShaderPreset) ParameterValue(name string) (float32, bool) {
	for _, param := range p.Parameters {
		if param.Name == name {
			return param.Value, true
		}
	}
	return 0, false
}

func (s Scale2D) String() string {
	return fmt.Sprintf("{valid:%v x:%+v y:%+v}", s.Valid, s.X, s.Y)
}
