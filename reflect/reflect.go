package reflect

// CompiledPass holds the parsed declarations of a preprocessed pass's
// two stages, ready for semantic classification and for synthesis
// into a naga IR module for cross-compilation.
type CompiledPass struct {
	Vertex   declarations
	Fragment declarations
}

// CompilePass scans a preprocessed pass's vertex and fragment stage
// text for its resource declarations and validates the fixed resource
// limits every pass must satisfy.
func CompilePass(vertexText, fragmentText string) (*CompiledPass, error) {
	vertex := parseDeclarations(vertexText)
	fragment := parseDeclarations(fragmentText)

	if err := validateFixedLimits(vertex, fragment); err != nil {
		Logger().Error("pass failed fixed resource limits", "err", err)
		return nil, err
	}

	Logger().Debug("pass compiled", "vertex_inputs", vertex.inputCount, "fragment_outputs", fragment.outputCount, "samplers", len(fragment.samplers))
	return &CompiledPass{Vertex: vertex, Fragment: fragment}, nil
}

// Reflect classifies a compiled pass's UBO/push-constant members and
// sampled images against the preset-wide semantics, producing the
// pass's ShaderReflection.
func Reflect(pass *CompiledPass, semantics *ShaderSemantics) (*ShaderReflection, error) {
	meta := BindingMeta{
		TextureMeta:  map[SemanticIndex]TextureBinding{},
		TextureSize:  map[SemanticIndex]VariableMeta{},
		StageInputs:  pass.Vertex.inputCount,
		StageOutputs: pass.Fragment.outputCount,
	}

	var ubo *UboReflection
	var push *PushReflection

	if pass.Vertex.hasUBO || pass.Fragment.hasUBO {
		d := pass.Vertex
		if !d.hasUBO {
			d = pass.Fragment
		}
		stageMask := stageMaskFor(pass, d.uboBinding, false)
		size, err := classifyMembers(d.uboMembers, semantics, false, &meta)
		if err != nil {
			return nil, err
		}
		ubo = &UboReflection{Binding: uint32(d.uboBinding), Size: Align16(size), StageMask: stageMask}
	}

	if pass.Vertex.hasPush || pass.Fragment.hasPush {
		members := pass.Vertex.pushMembers
		if len(members) == 0 {
			members = pass.Fragment.pushMembers
		}
		var stageMask BindingStage
		if pass.Vertex.hasPush {
			stageMask |= StageVertex
		}
		if pass.Fragment.hasPush {
			stageMask |= StageFragment
		}
		size, err := classifyMembers(members, semantics, true, &meta)
		if err != nil {
			return nil, err
		}
		if size > MaxPushBufferSize {
			return nil, &ReflectError{Kind: ReflectInvalidPushSize, Reason: "push constant block exceeds maximum size"}
		}
		push = &PushReflection{Size: Align16(size), StageMask: stageMask}
	}

	for _, s := range pass.Fragment.samplers {
		idx, ok := semantics.ClassifyTexture(s.name)
		if !ok {
			// an unrecognized sampler name still gets a contiguous binding;
			// it simply carries no semantic role for parameter binding.
			Logger().Warn("sampler name matches no known texture semantic", "name", s.name)
			continue
		}
		meta.TextureMeta[idx] = TextureBinding{Binding: s.binding}
	}

	return &ShaderReflection{UBO: ubo, PushConstant: push, Meta: meta}, nil
}

func stageMaskFor(pass *CompiledPass, binding int, push bool) BindingStage {
	var mask BindingStage
	if pass.Vertex.hasUBO && pass.Vertex.uboBinding == binding {
		mask |= StageVertex
	}
	if pass.Fragment.hasUBO && pass.Fragment.uboBinding == binding {
		mask |= StageFragment
	}
	return mask
}

// classifyMembers walks a UBO or push-constant member list, resolving
// each name's semantic role and accumulating its std140 offset. Type
// mismatches against a UniqueSemantic's expected GLSL type are
// rejected.
func classifyMembers(members []member, semantics *ShaderSemantics, push bool, meta *BindingMeta) (uint32, error) {
	var offset uint32
	for _, m := range members {
		binding := semantics.ClassifyUniform(m.name)

		if binding.IsSemantic {
			if want := binding.Semantic.ExpectedType(); want != "" && want != m.glslType {
				return 0, &ReflectError{Kind: ReflectUnsupportedTypeForSemantic, Reason: m.name}
			}
		}

		off := MemberOffset{InPushConstant: push, Offset: int(offset)}
		if binding.IsTextureSize {
			meta.TextureSize[binding.TextureSize] = VariableMeta{Binding: binding, Offset: off, Components: m.components, ID: m.name}
		} else {
			meta.Variables = append(meta.Variables, VariableMeta{Binding: binding, Offset: off, Components: m.components, ID: m.name})
		}

		offset += m.sizeOf()
	}
	return offset, nil
}
