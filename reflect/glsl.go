package reflect

import "github.com/gogpu/naga/glsl"

// GLSLOptions configures the GLSL cross-compile target.
type GLSLOptions struct {
	// Version selects the desktop GLSL version: 430 or above emits GLSL
	// 430; any lower value, including zero, uses naga's default (desktop
	// 330).
	Version int
}

// CompileGLSL cross-compiles a pass to GLSL via naga's GLSL backend.
func CompileGLSL(pass *CompiledPass, link LinkResult, opts GLSLOptions) (string, error) {
	source := SynthesizeWGSL(pass, link)
	module, err := lowerToIR(source)
	if err != nil {
		return "", err
	}

	nagaOpts := glsl.DefaultOptions()
	if opts.Version >= 430 {
		nagaOpts.LangVersion = glsl.Version430
	}

	code, _, err := glsl.Compile(module, nagaOpts)
	if err != nil {
		return "", &TranspileError{Target: "glsl", Reason: err.Error(), Err: err}
	}
	return code, nil
}
