package filterchain

import (
	"github.com/gogpu/shaderchain/preset"
)

// ResolveScale2D computes a pass's output size from its Scale2D config
// against the current source (previous pass output) and viewport sizes.
// An invalid
// Scale2D (no scale_type given anywhere in the preset for this pass)
// falls back to the renderer default of Source x1 on both axes.
func ResolveScale2D(scale preset.Scale2D, sourceW, sourceH, viewportW, viewportH uint32) (uint32, uint32) {
	x := scale.X
	y := scale.Y
	if !scale.Valid {
		x = preset.Scaling{Type: preset.ScaleInput, Factor: 1}
		y = preset.Scaling{Type: preset.ScaleInput, Factor: 1}
	}

	return resolveAxis(x, sourceW, viewportW), resolveAxis(y, sourceH, viewportH)
}

func resolveAxis(s preset.Scaling, source, viewport uint32) uint32 {
	switch s.Type {
	case preset.ScaleAbsolute:
		return uint32(s.Factor)
	case preset.ScaleViewport:
		return scaleDim(viewport, s.Factor)
	default: // preset.ScaleInput
		return scaleDim(source, s.Factor)
	}
}

func scaleDim(dim uint32, factor float32) uint32 {
	if factor <= 0 {
		factor = 1
	}
	size := uint32(float32(dim)*factor + 0.5)
	if size == 0 {
		size = 1
	}
	return size
}
