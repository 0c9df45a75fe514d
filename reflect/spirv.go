package reflect

import (
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/spirv"
	"github.com/gogpu/naga/wgsl"
)

// lowerToIR runs the naga WGSL front end over a synthesized shape
// module, producing the ir.Module that every naga-backed target
// (SPIR-V, GLSL, HLSL, MSL) compiles from.
func lowerToIR(source string) (*ir.Module, error) {
	lexer := wgsl.NewLexer(source)
	tokens, err := lexer.Tokenize()
	if err != nil {
		return nil, &CompileError{Stage: "wgsl", Log: err.Error(), Err: err}
	}

	parser := wgsl.NewParser(tokens)
	ast, err := parser.Parse()
	if err != nil {
		return nil, &CompileError{Stage: "wgsl", Log: err.Error(), Err: err}
	}

	module, err := wgsl.LowerWithSource(ast, source)
	if err != nil {
		return nil, &CompileError{Stage: "wgsl", Log: err.Error(), Err: err}
	}
	return module, nil
}

// CompileSPIRV lowers a compiled pass to SPIR-V via naga's SPIR-V
// backend.
func CompileSPIRV(pass *CompiledPass, link LinkResult) ([]byte, error) {
	source := SynthesizeWGSL(pass, link)
	module, err := lowerToIR(source)
	if err != nil {
		return nil, err
	}

	backend := spirv.NewBackend(spirv.DefaultOptions())
	bytes, err := backend.Compile(module)
	if err != nil {
		return nil, &TranspileError{Target: "spirv", Reason: err.Error(), Err: err}
	}
	return bytes, nil
}
