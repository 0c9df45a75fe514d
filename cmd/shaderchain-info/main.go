// Command shaderchain-info loads a .slangp preset and prints its
// resolved pass, texture, and parameter tables without opening a GPU
// device. With -validate, it additionally runs every pass through the
// preprocess and reflect stages, the same device-free checks
// filterchain.LoadFromPreset performs before it ever touches a device.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gogpu/shaderchain/preprocess"
	"github.com/gogpu/shaderchain/preset"
	"github.com/gogpu/shaderchain/reflect"
)

func main() {
	presetPath := flag.String("preset", "", "path to a .slangp file")
	validate := flag.Bool("validate", false, "preprocess and reflect every pass")
	flag.Parse()

	if *presetPath == "" {
		fmt.Fprintln(os.Stderr, "usage: shaderchain-info -preset <file.slangp> [-validate]")
		os.Exit(2)
	}

	if err := run(*presetPath, *validate); err != nil {
		fmt.Fprintf(os.Stderr, "shaderchain-info: %v\n", err)
		os.Exit(1)
	}
}

func run(presetPath string, validate bool) error {
	ctx := preset.NewContext()
	ctx.WithPresetDefaults(presetPath)

	p, err := preset.Load(presetPath, ctx)
	if err != nil {
		return fmt.Errorf("load preset: %w", err)
	}

	fmt.Printf("=== %s ===\n", presetPath)
	fmt.Printf("passes: %d (feedback pass: %d)\n\n", p.ShaderCount, p.FeedbackPass)

	fmt.Println("Pass  Alias           Filter  Wrap            Scale   Path")
	for _, pc := range p.Passes {
		alias := pc.Alias
		if alias == "" {
			alias = "-"
		}
		fmt.Printf("%-5d %-15s %-7s %-15s %-7s %s\n",
			pc.Index, alias, pc.Filter, pc.WrapMode, scaleSummary(pc.Scale), pc.Path)
	}

	if len(p.Textures) > 0 {
		fmt.Println("\nTextures:")
		for _, tc := range p.Textures {
			fmt.Printf("  %-15s wrap=%-10s filter=%-7s mipmap=%v  %s\n",
				tc.Name, tc.WrapMode, tc.Filter, tc.Mipmap, tc.Path)
		}
	}

	if len(p.Parameters) > 0 {
		fmt.Println("\nParameter overrides:")
		for _, param := range p.Parameters {
			fmt.Printf("  %-20s = %v\n", param.Name, param.Value)
		}
	}

	if !validate {
		return nil
	}

	fmt.Println("\n=== Validating passes ===")
	return validatePasses(p)
}

func scaleSummary(s preset.Scale2D) string {
	if !s.Valid {
		return "source"
	}
	return fmt.Sprintf("%gx/%gx", s.X.Factor, s.Y.Factor)
}

// validatePasses runs the preprocess and reflect stages over every
// pass, the same checks LoadFromPreset performs before allocating any
// GPU object, so a preset/shader mismatch is caught without a device.
func validatePasses(p *preset.ShaderPreset) error {
	sources := make([]*preprocess.ShaderSource, len(p.Passes))
	for i, pc := range p.Passes {
		src, err := preprocess.Load(pc.Path)
		if err != nil {
			return fmt.Errorf("pass %d (%s): preprocess: %w", pc.Index, pc.Path, err)
		}
		sources[i] = src
		fmt.Printf("pass %d: preprocess OK (%d parameter(s))\n", pc.Index, len(src.Parameters))
	}

	passInputs := make([]reflect.PassSemanticsInput, len(p.Passes))
	for i, pc := range p.Passes {
		passInputs[i] = reflect.PassSemanticsInput{Index: pc.Index, Alias: pc.Alias, Parameters: sources[i].Parameters}
	}
	semantics := reflect.BuildSemantics(passInputs, p.Textures)

	reflections := make([]*reflect.ShaderReflection, len(p.Passes))
	for i, pc := range p.Passes {
		compiled, err := reflect.CompilePass(sources[i].Vertex, sources[i].Fragment)
		if err != nil {
			return fmt.Errorf("pass %d (%s): compile: %w", pc.Index, pc.Path, err)
		}
		refl, err := reflect.Reflect(compiled, semantics)
		if err != nil {
			return fmt.Errorf("pass %d (%s): reflect: %w", pc.Index, pc.Path, err)
		}
		reflections[i] = refl

		fmt.Printf("pass %d: reflect OK (%d texture binding(s)", pc.Index, len(refl.Meta.TextureMeta))
		if refl.UBO != nil {
			fmt.Printf(", ubo %d bytes", refl.UBO.Size)
		}
		if refl.PushConstant != nil {
			fmt.Printf(", push %d bytes", refl.PushConstant.Size)
		}
		fmt.Println(")")
		for idx := range refl.Meta.TextureMeta {
			fmt.Printf("    %s\n", idx.Semantic.TextureName())
		}
	}

	required := reflect.CalculateRequiredHistory(reflections)
	fmt.Printf("\nrequired history depth: %d\n", required)

	return nil
}
