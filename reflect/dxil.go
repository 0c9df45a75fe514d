package reflect

import "fmt"

// DXILCompiler compiles HLSL to DXIL bytecode. No DXIL-producing
// library exists anywhere in this module's dependency pack (DXC is a
// Windows-only native toolchain with no pure-Go port); callers that
// need DXIL output supply their own implementation, the same
// external-tool boundary a DX12 HAL backend would use for HLSL->DXBC
// via syscall.NewLazyDLL.
type DXILCompiler interface {
	Compile(hlsl, entryPoint, shaderModel string) ([]byte, error)
}

// DXILOptions configures the DXIL cross-compile target.
type DXILOptions struct {
	// ShaderModel is the shader model version, e.g. "6_0"; CompileDXIL
	// passes it to the compiler as the pixel-shader profile "ps_<model>".
	// Defaults to "6_0".
	ShaderModel string
	Validator   string
}

// CompileDXIL cross-compiles a pass to HLSL via naga and hands the
// result to the caller-supplied DXILCompiler, which is responsible for
// invoking an actual DXIL-producing toolchain.
func CompileDXIL(pass *CompiledPass, link LinkResult, opts DXILOptions, compiler DXILCompiler) ([]byte, error) {
	if compiler == nil {
		return nil, &TranspileError{Target: "dxil", Reason: "no DXILCompiler configured"}
	}

	hlsl, err := CompileHLSL(pass, link, HLSLOptions{})
	if err != nil {
		return nil, err
	}

	model := opts.ShaderModel
	if model == "" {
		model = "6_0"
	}

	bytes, err := compiler.Compile(hlsl, "main", fmt.Sprintf("ps_%s", model))
	if err != nil {
		return nil, &TranspileError{Target: "dxil", Reason: err.Error(), Err: err}
	}
	return bytes, nil
}
