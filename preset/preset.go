package preset

import "sort"

// Load parses the .slangp preset at path into a fully resolved ShaderPreset,
// applying wildcard substitution from ctx (may be nil) along the way.
func Load(path string, ctx *Context) (*ShaderPreset, error) {
	Logger().Debug("loading preset", "path", path)

	if ctx == nil {
		ctx = NewContext()
	}
	ctx.WithPresetDefaults(path)

	tokens, err := lexFile(path, visitedSet{})
	if err != nil {
		Logger().Error("preset load failed", "path", path, "err", err)
		return nil, err
	}

	values, err := decode(tokens, ctx)
	if err != nil {
		Logger().Error("preset decode failed", "path", path, "err", err)
		return nil, err
	}

	preset := assemble(values)
	Logger().Debug("preset loaded", "path", path, "passes", preset.ShaderCount)
	return preset, nil
}

// assemble folds the typed Value stream into a ShaderPreset, resolving
// the scale_type/scale override rules and discarding trailing shaderN
// entries beyond shader_count from the active pass list.
func assemble(values []value) *ShaderPreset {
	preset := &ShaderPreset{}

	for _, v := range values {
		switch v.kind {
		case valShaderCount:
			preset.ShaderCount = v.u32
		case valFeedbackPass:
			preset.FeedbackPass = v.u32
		}
	}

	for i := 0; i < int(preset.ShaderCount); i++ {
		shaderVal, ok := findShader(values, i)
		if !ok {
			continue
		}

		pass := PassConfig{Index: i, Path: shaderVal.str}

		var scaleType, scaleTypeX, scaleTypeY *ScaleType
		var scale, scaleX, scaleY *float32

		for _, v := range values {
			if v.passIndex != i {
				continue
			}
			switch v.kind {
			case valAlias:
				pass.Alias = v.str
			case valFilterMode:
				pass.Filter = v.filter
			case valWrapMode:
				pass.WrapMode = v.wrap
			case valFrameCountMod:
				pass.FrameCountMod = v.u32
			case valSRGBFramebuffer:
				pass.SRGBFramebuffer = v.b
			case valFloatFramebuffer:
				pass.FloatFramebuffer = v.b
			case valMipmapInput:
				pass.MipmapInput = v.b
			case valScaleType:
				st := v.scale
				scaleType = &st
			case valScaleTypeX:
				st := v.scale
				scaleTypeX = &st
			case valScaleTypeY:
				st := v.scale
				scaleTypeY = &st
			case valScale:
				f := v.f32
				scale = &f
			case valScaleX:
				f := v.f32
				scaleX = &f
			case valScaleY:
				f := v.f32
				scaleY = &f
			}
		}

		// scale_type overrides scale_type_x/_y when both are given.
		if scaleType != nil {
			scaleTypeX = scaleType
			scaleTypeY = scaleType
		}
		valid := scaleTypeX != nil || scaleTypeY != nil

		// "scale overrides scale_x/_y".
		if scale != nil {
			scaleX = scale
			scaleY = scale
		}

		pass.Scale = Scale2D{
			Valid: valid,
			X:     Scaling{Type: derefScale(scaleTypeX), Factor: derefFloat(scaleX)},
			Y:     Scaling{Type: derefScale(scaleTypeY), Factor: derefFloat(scaleY)},
		}

		preset.Passes = append(preset.Passes, pass)
	}

	for _, v := range values {
		if v.kind == valTexture {
			preset.Textures = append(preset.Textures, v.tex)
		}
	}

	paramIndex := map[string]int{}
	for _, v := range values {
		if v.kind == valParameter {
			if j, seen := paramIndex[v.str]; seen {
				preset.Parameters[j].Value = v.f32
				continue
			}
			paramIndex[v.str] = len(preset.Parameters)
			preset.Parameters = append(preset.Parameters, Parameter{Name: v.str, Value: v.f32})
		}
	}

	sort.SliceStable(preset.Passes, func(a, b int) bool {
		return preset.Passes[a].Index < preset.Passes[b].Index
	})

	return preset
}

func findShader(values []value, index int) (value, bool) {
	var found value
	ok := false
	for _, v := range values {
		if v.kind == valShader && v.passIndex == index {
			found, ok = v, true
		}
	}
	return found, ok
}

func derefScale(s *ScaleType) ScaleType {
	if s == nil {
		return ScaleInput
	}
	return *s
}

func derefFloat(f *float32) float32 {
	if f == nil {
		return 0
	}
	return *f
}
