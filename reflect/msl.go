package reflect

import "github.com/gogpu/naga/msl"

// MSLOptions configures the Metal cross-compile target.
type MSLOptions struct {
	// FakeMissingBindings lets naga assign placeholder argument-buffer
	// slots for resources without an explicit decoration, useful for
	// the shape modules this package synthesizes.
	FakeMissingBindings bool
}

// CompileMSL cross-compiles a pass to Metal Shading Language via
// naga's MSL backend.
func CompileMSL(pass *CompiledPass, link LinkResult, opts MSLOptions) (string, error) {
	source := SynthesizeWGSL(pass, link)
	module, err := lowerToIR(source)
	if err != nil {
		return "", err
	}

	nagaOpts := msl.DefaultOptions()
	nagaOpts.FakeMissingBindings = opts.FakeMissingBindings

	code, _, err := msl.Compile(module, nagaOpts)
	if err != nil {
		return "", &TranspileError{Target: "msl", Reason: err.Error(), Err: err}
	}
	return code, nil
}
