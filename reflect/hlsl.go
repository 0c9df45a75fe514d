package reflect

import "github.com/gogpu/naga/hlsl"

// HLSLOptions configures the HLSL cross-compile target.
// naga's HLSL backend picks its own shader-model profile per resource
// used, so there is nothing left for a caller to override here; the
// type stays so CompileHLSL's signature can grow options later without
// breaking callers.
type HLSLOptions struct{}

// CompileHLSL cross-compiles a pass to HLSL via naga's HLSL backend.
func CompileHLSL(pass *CompiledPass, link LinkResult, opts HLSLOptions) (string, error) {
	_ = opts
	source := SynthesizeWGSL(pass, link)
	module, err := lowerToIR(source)
	if err != nil {
		return "", err
	}

	nagaOpts := hlsl.DefaultOptions()

	code, _, err := hlsl.Compile(module, nagaOpts)
	if err != nil {
		return "", &TranspileError{Target: "hlsl", Reason: err.Error(), Err: err}
	}
	return code, nil
}
