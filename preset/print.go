package preset

import (
	"fmt"
	"strconv"
	"strings"
)

// Print serializes a ShaderPreset back to canonical `key = value` text.
// Load(Print(p)) produces an equal ShaderPreset. Optional fields still at
// their zero value (no alias, unspecified filter, zero frame_count_mod,
// false flags, zero scale factors) are omitted, since Load leaves them at
// that same zero value.
func Print(p *ShaderPreset) string {
	var b strings.Builder

	fmt.Fprintf(&b, "shaders = %d\n", p.ShaderCount)
	if p.FeedbackPass != 0 {
		fmt.Fprintf(&b, "feedback_pass = %d\n", p.FeedbackPass)
	}

	for _, pass := range p.Passes {
		i := pass.Index
		fmt.Fprintf(&b, "shader%d = %s\n", i, quoteIfNeeded(pass.Path))
		if pass.Alias != "" {
			fmt.Fprintf(&b, "alias%d = %s\n", i, pass.Alias)
		}
		if pass.Filter != FilterUnspecified {
			fmt.Fprintf(&b, "filter_linear%d = %s\n", i, boolStr(pass.Filter == FilterLinear))
		}
		fmt.Fprintf(&b, "wrap_mode%d = %s\n", i, pass.WrapMode)
		if pass.FrameCountMod != 0 {
			fmt.Fprintf(&b, "frame_count_mod%d = %d\n", i, pass.FrameCountMod)
		}
		if pass.SRGBFramebuffer {
			fmt.Fprintf(&b, "srgb_framebuffer%d = true\n", i)
		}
		if pass.FloatFramebuffer {
			fmt.Fprintf(&b, "float_framebuffer%d = true\n", i)
		}
		if pass.MipmapInput {
			fmt.Fprintf(&b, "mipmap_input%d = true\n", i)
		}
		if pass.Scale.Valid {
			fmt.Fprintf(&b, "scale_type_x%d = %s\n", i, scaleTypeString(pass.Scale.X.Type))
			fmt.Fprintf(&b, "scale_type_y%d = %s\n", i, scaleTypeString(pass.Scale.Y.Type))
		}
		if pass.Scale.Valid || pass.Scale.X.Factor != 0 {
			fmt.Fprintf(&b, "scale_x%d = %s\n", i, trimFloat(pass.Scale.X.Factor))
		}
		if pass.Scale.Valid || pass.Scale.Y.Factor != 0 {
			fmt.Fprintf(&b, "scale_y%d = %s\n", i, trimFloat(pass.Scale.Y.Factor))
		}
	}

	if len(p.Textures) > 0 {
		names := make([]string, len(p.Textures))
		for i, t := range p.Textures {
			names[i] = t.Name
		}
		fmt.Fprintf(&b, "textures = %s\n", strings.Join(names, ";"))
		for _, t := range p.Textures {
			fmt.Fprintf(&b, "%s = %s\n", t.Name, quoteIfNeeded(t.Path))
			if t.Filter != FilterUnspecified {
				fmt.Fprintf(&b, "%s_linear = %s\n", t.Name, boolStr(t.Filter == FilterLinear))
			}
			fmt.Fprintf(&b, "%s_wrap_mode = %s\n", t.Name, t.WrapMode)
			fmt.Fprintf(&b, "%s_mipmap = %s\n", t.Name, boolStr(t.Mipmap))
		}
	}

	for _, param := range p.Parameters {
		fmt.Fprintf(&b, "%s = %s\n", param.Name, trimFloat(param.Value))
	}

	return b.String()
}

func scaleTypeString(s ScaleType) string {
	switch s {
	case ScaleAbsolute:
		return "absolute"
	case ScaleViewport:
		return "viewport"
	default:
		return "source"
	}
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func trimFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, " \t") {
		return `"` + s + `"`
	}
	return s
}
