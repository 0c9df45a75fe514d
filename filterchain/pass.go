package filterchain

import (
	"github.com/gogpu/gputypes"
	wgpu "github.com/gogpu/shaderchain"
	"github.com/gogpu/shaderchain/reflect"
)

// uboRingSize is the number of buffers in each pass's UBO ring; each
// frame advances to the next slot so the CPU can write next frame's
// uniforms while the GPU still reads the previous one.
const uboRingSize = 3

// vertexBufferLayout describes the fullscreen-quad vertex format every
// synthesized pass shares: a position and a texcoord, both vec2,
// interleaved into a single stream.
var vertexBufferLayout = wgpu.VertexBufferLayout{
	ArrayStride: 16,
	StepMode:    gputypes.VertexStepModeVertex,
	Attributes: []gputypes.VertexAttribute{
		{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
		{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
	},
}

// CompiledPipeline is one pass's device-side compiled state: pipeline,
// descriptor layouts, and its own UBO ring.
type CompiledPipeline struct {
	Reflection *reflect.ShaderReflection

	shaderModule   *wgpu.ShaderModule
	uboLayout      *wgpu.BindGroupLayout
	samplerLayout  *wgpu.BindGroupLayout
	pipelineLayout *wgpu.PipelineLayout
	pipeline       *wgpu.RenderPipeline

	uboRing  []*wgpu.Buffer
	pushBuf  *wgpu.Buffer
	ringNext int

	textureCount int
}

// CompilePassPipeline synthesizes a pass's WGSL, reflects its bindings,
// and builds every GPU object the pass needs to record a draw: a shader
// module, a group-0 layout for the UBO/push-constant, a group-1 layout
// for its sampled textures, a pipeline layout, and a render pipeline
// targeting outputFormat.
func CompilePassPipeline(device *wgpu.Device, vertexSrc, fragmentSrc string, semantics *reflect.ShaderSemantics, outputFormat wgpu.TextureFormat) (*CompiledPipeline, error) {
	compiled, err := reflect.CompilePass(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, &BackendInitError{Stage: "shader compile", Err: err}
	}

	refl, err := reflect.Reflect(compiled, semantics)
	if err != nil {
		return nil, &BackendInitError{Stage: "shader reflect", Err: err}
	}

	link := reflect.LinkStages(compiled.Vertex, compiled.Fragment)
	wgsl := reflect.CompileWGSL(compiled, link, reflect.WGSLOptions{WritePCBAsUBO: true, SamplerBindGroup: 1})

	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{WGSL: wgsl})
	if err != nil {
		return nil, &BackendInitError{Stage: "shader module", Err: err}
	}

	p := &CompiledPipeline{
		Reflection:   refl,
		shaderModule: module,
		textureCount: len(refl.Meta.TextureMeta),
	}

	if err := p.buildLayouts(device); err != nil {
		p.Release()
		return nil, err
	}
	if err := p.buildPipeline(device, outputFormat); err != nil {
		p.Release()
		return nil, err
	}
	if err := p.buildUniformBuffers(device); err != nil {
		p.Release()
		return nil, err
	}

	return p, nil
}

func (p *CompiledPipeline) buildLayouts(device *wgpu.Device) error {
	entries := []wgpu.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		},
	}
	if p.Reflection.PushConstant != nil && p.Reflection.PushConstant.Size > 0 {
		entries = append(entries, wgpu.BindGroupLayoutEntry{
			Binding:    1,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		})
	}

	uboLayout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{Label: "pass-ubo", Entries: entries})
	if err != nil {
		return &BackendInitError{Stage: "ubo bind group layout", Err: err}
	}
	p.uboLayout = uboLayout

	var samplerEntries []wgpu.BindGroupLayoutEntry
	for i := 0; i < p.textureCount; i++ {
		base := reflect.SamplerBindingBase + uint32(i)*2
		samplerEntries = append(samplerEntries,
			wgpu.BindGroupLayoutEntry{
				Binding:    base,
				Visibility: wgpu.ShaderStageFragment,
				Texture:    &gputypes.TextureBindingLayout{SampleType: gputypes.TextureSampleTypeFloat, ViewDimension: gputypes.TextureViewDimension2D},
			},
			wgpu.BindGroupLayoutEntry{
				Binding:    base + 1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		)
	}
	samplerLayout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{Label: "pass-samplers", Entries: samplerEntries})
	if err != nil {
		return &BackendInitError{Stage: "sampler bind group layout", Err: err}
	}
	p.samplerLayout = samplerLayout

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{uboLayout, samplerLayout},
	})
	if err != nil {
		return &BackendInitError{Stage: "pipeline layout", Err: err}
	}
	p.pipelineLayout = layout
	return nil
}

func (p *CompiledPipeline) buildPipeline(device *wgpu.Device, outputFormat wgpu.TextureFormat) error {
	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Layout: p.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     p.shaderModule,
			EntryPoint: "main",
			Buffers:    []wgpu.VertexBufferLayout{vertexBufferLayout},
		},
		Primitive:   wgpu.PrimitiveState{Topology: gputypes.PrimitiveTopologyTriangleStrip, FrontFace: gputypes.FrontFaceCCW, CullMode: gputypes.CullModeNone},
		Multisample: gputypes.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
		Fragment: &wgpu.FragmentState{
			Module:     p.shaderModule,
			EntryPoint: "fs_main",
			Targets:    []wgpu.ColorTargetState{{Format: outputFormat, WriteMask: gputypes.ColorWriteMaskAll}},
		},
	})
	if err != nil {
		return &BackendInitError{Stage: "render pipeline", Err: err}
	}
	p.pipeline = pipeline
	return nil
}

func (p *CompiledPipeline) buildUniformBuffers(device *wgpu.Device) error {
	var uboSize uint64 = 16
	if p.Reflection.UBO != nil && p.Reflection.UBO.Size > 0 {
		uboSize = uint64(p.Reflection.UBO.Size)
	}
	for i := 0; i < uboRingSize; i++ {
		buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "pass-ubo-ring",
			Size:  uboSize,
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return &BackendInitError{Stage: "ubo ring buffer", Err: err}
		}
		p.uboRing = append(p.uboRing, buf)
	}

	if p.Reflection.PushConstant != nil && p.Reflection.PushConstant.Size > 0 {
		buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "pass-push-ubo",
			Size:  uint64(p.Reflection.PushConstant.Size),
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return &BackendInitError{Stage: "push constant buffer", Err: err}
		}
		p.pushBuf = buf
	}
	return nil
}

// NextUBO advances and returns this frame's ring slot; called once per
// frame so the CPU writes a slot the GPU isn't currently reading.
func (p *CompiledPipeline) NextUBO() *wgpu.Buffer {
	buf := p.uboRing[p.ringNext]
	p.ringNext = (p.ringNext + 1) % len(p.uboRing)
	return buf
}

// Release destroys every GPU object this pass owns.
func (p *CompiledPipeline) Release() {
	if p.pipeline != nil {
		p.pipeline.Release()
	}
	if p.pipelineLayout != nil {
		p.pipelineLayout.Release()
	}
	if p.samplerLayout != nil {
		p.samplerLayout.Release()
	}
	if p.uboLayout != nil {
		p.uboLayout.Release()
	}
	if p.shaderModule != nil {
		p.shaderModule.Release()
	}
	if p.pushBuf != nil {
		p.pushBuf.Release()
	}
	for _, buf := range p.uboRing {
		buf.Release()
	}
}
