package preset

import (
	"strconv"
	"strings"
)

// valueKind tags the typed representation of one lexed token.
type valueKind int

const (
	valShaderCount valueKind = iota
	valFeedbackPass
	valShader
	valAlias
	valFilterMode
	valWrapMode
	valFrameCountMod
	valSRGBFramebuffer
	valFloatFramebuffer
	valMipmapInput
	valScaleType
	valScaleTypeX
	valScaleTypeY
	valScale
	valScaleX
	valScaleY
	valTextureNames
	valTexture
	valParameter
)

// value is the typed, pass-indexed decoding of a lexed token. passIndex
// is -1 for preset-global values.
type value struct {
	kind      valueKind
	passIndex int

	str      string
	u32      uint32
	f32      float32
	b        bool
	filter   FilterMode
	wrap     WrapMode
	scale    ScaleType
	tex      TextureConfig
}

// pendingTexture accumulates the `<name>`, `<name>_linear`, `<name>_wrap_mode`,
// and `<name>_mipmap` keys for one declared LUT name, since they can appear
// in any order across the file.
type pendingTexture struct {
	name   string
	path   string
	filter FilterMode
	wrap   WrapMode
	mipmap bool
	hasPath bool
}

// decode lowers the lexed token stream into typed values, resolving
// wildcards in path-shaped values along the way.
func decode(tokens []token, ctx *Context) ([]value, error) {
	var values []value
	textures := map[string]*pendingTexture{}
	var textureOrder []string
	var declaredNames map[string]bool

	// First pass: find `textures = "A;B;C"` so later <name>* keys are
	// recognized as texture fields rather than unknown parameters.
	declaredNames = map[string]bool{}
	for _, tok := range tokens {
		if tok.key == "textures" {
			for _, name := range strings.Split(tok.value, ";") {
				name = strings.TrimSpace(name)
				if name == "" {
					continue
				}
				declaredNames[name] = true
			}
		}
	}

	for _, tok := range tokens {
		key := tok.key
		v := tok.value

		switch {
		case key == "shaders":
			n, err := parseUint(v, tok)
			if err != nil {
				return nil, err
			}
			values = append(values, value{kind: valShaderCount, passIndex: -1, u32: n})
			continue

		case key == "feedback_pass":
			n, err := parseUint(v, tok)
			if err != nil {
				return nil, err
			}
			values = append(values, value{kind: valFeedbackPass, passIndex: -1, u32: n})
			continue

		case key == "textures":
			for _, name := range strings.Split(v, ";") {
				name = strings.TrimSpace(name)
				if name == "" {
					continue
				}
				if _, ok := textures[name]; !ok {
					textures[name] = &pendingTexture{name: name}
					textureOrder = append(textureOrder, name)
				}
			}
			continue

		case strings.HasPrefix(key, "shader"):
			if idx, ok := passSuffix(key, "shader"); ok {
				path := resolvePath(v, ctx)
				values = append(values, value{kind: valShader, passIndex: idx, str: path})
				continue
			}
			if n, err := parseNamedTextureSuffix(key, declaredNames, textures); err == nil && n {
				continue
			}

		case strings.HasPrefix(key, "alias"):
			if idx, ok := passSuffix(key, "alias"); ok {
				values = append(values, value{kind: valAlias, passIndex: idx, str: v})
				continue
			}

		case strings.HasPrefix(key, "filter_linear"):
			if idx, ok := passSuffix(key, "filter_linear"); ok {
				fm := FilterLinear
				if v == "false" {
					fm = FilterNearest
				}
				values = append(values, value{kind: valFilterMode, passIndex: idx, filter: fm})
				continue
			}

		case strings.HasPrefix(key, "wrap_mode"):
			if idx, ok := passSuffix(key, "wrap_mode"); ok {
				values = append(values, value{kind: valWrapMode, passIndex: idx, wrap: wrapModeFromString(v)})
				continue
			}

		case strings.HasPrefix(key, "frame_count_mod"):
			if idx, ok := passSuffix(key, "frame_count_mod"); ok {
				n, err := parseUint(v, tok)
				if err != nil {
					return nil, err
				}
				values = append(values, value{kind: valFrameCountMod, passIndex: idx, u32: n})
				continue
			}

		case strings.HasPrefix(key, "srgb_framebuffer"):
			if idx, ok := passSuffix(key, "srgb_framebuffer"); ok {
				values = append(values, value{kind: valSRGBFramebuffer, passIndex: idx, b: v == "true"})
				continue
			}

		case strings.HasPrefix(key, "float_framebuffer"):
			if idx, ok := passSuffix(key, "float_framebuffer"); ok {
				values = append(values, value{kind: valFloatFramebuffer, passIndex: idx, b: v == "true"})
				continue
			}

		case strings.HasPrefix(key, "mipmap_input"):
			if idx, ok := passSuffix(key, "mipmap_input"); ok {
				values = append(values, value{kind: valMipmapInput, passIndex: idx, b: v == "true"})
				continue
			}

		case strings.HasPrefix(key, "scale_type_x"):
			if idx, ok := passSuffix(key, "scale_type_x"); ok {
				st, ok := scaleTypeFromString(v)
				if !ok {
					return nil, &ParseError{Offset: tok.offset, Row: tok.row, Col: tok.col, Kind: ParseErrorUnknownScaleType, Reason: v}
				}
				values = append(values, value{kind: valScaleTypeX, passIndex: idx, scale: st})
				continue
			}

		case strings.HasPrefix(key, "scale_type_y"):
			if idx, ok := passSuffix(key, "scale_type_y"); ok {
				st, ok := scaleTypeFromString(v)
				if !ok {
					return nil, &ParseError{Offset: tok.offset, Row: tok.row, Col: tok.col, Kind: ParseErrorUnknownScaleType, Reason: v}
				}
				values = append(values, value{kind: valScaleTypeY, passIndex: idx, scale: st})
				continue
			}

		case strings.HasPrefix(key, "scale_type"):
			if idx, ok := passSuffix(key, "scale_type"); ok {
				st, ok := scaleTypeFromString(v)
				if !ok {
					return nil, &ParseError{Offset: tok.offset, Row: tok.row, Col: tok.col, Kind: ParseErrorUnknownScaleType, Reason: v}
				}
				values = append(values, value{kind: valScaleType, passIndex: idx, scale: st})
				continue
			}

		case strings.HasPrefix(key, "scale_x"):
			if idx, ok := passSuffix(key, "scale_x"); ok {
				f, err := parseFloat(v, tok)
				if err != nil {
					return nil, err
				}
				values = append(values, value{kind: valScaleX, passIndex: idx, f32: f})
				continue
			}

		case strings.HasPrefix(key, "scale_y"):
			if idx, ok := passSuffix(key, "scale_y"); ok {
				f, err := parseFloat(v, tok)
				if err != nil {
					return nil, err
				}
				values = append(values, value{kind: valScaleY, passIndex: idx, f32: f})
				continue
			}

		case strings.HasPrefix(key, "scale"):
			if idx, ok := passSuffix(key, "scale"); ok {
				f, err := parseFloat(v, tok)
				if err != nil {
					return nil, err
				}
				values = append(values, value{kind: valScale, passIndex: idx, f32: f})
				continue
			}
		}

		// <name>, <name>_linear, <name>_wrap_mode, <name>_mipmap
		if handled, err := matchTextureField(key, v, ctx, declaredNames, textures); err != nil {
			return nil, err
		} else if handled {
			continue
		}

		// fall through: #pragma parameter override (`<id> = <float>`).
		if isLikelyParameterOverride(key, tokens) {
			f, err := parseFloat(v, tok)
			if err == nil {
				values = append(values, value{kind: valParameter, passIndex: -1, str: key, f32: f})
			}
		}
	}

	for _, name := range textureOrder {
		pt := textures[name]
		values = append(values, value{kind: valTexture, passIndex: -1, tex: TextureConfig{
			Name:     pt.name,
			Path:     resolvePath(pt.path, ctx),
			WrapMode: pt.wrap,
			Filter:   pt.filter,
			Mipmap:   pt.mipmap,
		}})
	}

	return values, nil
}

// matchTextureField recognizes <name>, <name>_linear, <name>_wrap_mode, and
// <name>_mipmap keys for any name declared by the `textures` key.
func matchTextureField(key, v string, ctx *Context, declared map[string]bool, textures map[string]*pendingTexture) (bool, error) {
	for name := range declared {
		pt := textures[name]
		if pt == nil {
			pt = &pendingTexture{name: name}
			textures[name] = pt
		}
		switch key {
		case name:
			pt.path = v
			pt.hasPath = true
			return true, nil
		case name + "_linear":
			if v == "true" {
				pt.filter = FilterLinear
			} else {
				pt.filter = FilterNearest
			}
			return true, nil
		case name + "_wrap_mode":
			pt.wrap = wrapModeFromString(v)
			return true, nil
		case name + "_mipmap":
			pt.mipmap = v == "true"
			return true, nil
		}
	}
	return false, nil
}

// parseNamedTextureSuffix exists only to keep the `shader`-prefixed switch
// case from shadowing a texture literally named e.g. "shaderpack" — in
// practice textures never collide with the shaderN key family, so this is
// always a no-op guard.
func parseNamedTextureSuffix(string, map[string]bool, map[string]*pendingTexture) (bool, error) {
	return false, nil
}

// isLikelyParameterOverride treats any key not claimed by a known field and
// not a declared texture name/field as a #pragma parameter override,
// matching the permissive behavior of the original key/value grammar.
func isLikelyParameterOverride(key string, _ []token) bool {
	switch key {
	case "shaders", "feedback_pass", "textures":
		return false
	}
	for _, prefix := range []string{
		"shader", "alias", "filter_linear", "wrap_mode", "frame_count_mod",
		"srgb_framebuffer", "float_framebuffer", "mipmap_input",
		"scale_type_x", "scale_type_y", "scale_type", "scale_x", "scale_y", "scale",
	} {
		if strings.HasPrefix(key, prefix) {
			if _, ok := passSuffix(key, prefix); ok {
				return false
			}
		}
	}
	return true
}

// passSuffix splits a key like "wrap_mode7" into ("wrap_mode", 7) iff the
// remainder after the prefix is entirely numeric. An empty remainder is
// rejected (ok is false), so only a key with an explicit trailing numeric
// suffix attaches to a pass index.
func passSuffix(key, prefix string) (int, bool) {
	if !strings.HasPrefix(key, prefix) {
		return 0, false
	}
	rest := key[len(prefix):]
	if rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func parseUint(s string, tok token) (uint32, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, &ParseError{Offset: tok.offset, Row: tok.row, Col: tok.col, Kind: ParseErrorUnsignedInt, Reason: s, Err: err}
	}
	return uint32(n), nil
}

func parseFloat(s string, tok token) (float32, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil {
		return 0, &ParseError{Offset: tok.offset, Row: tok.row, Col: tok.col, Kind: ParseErrorFloat, Reason: s, Err: err}
	}
	return float32(f), nil
}
