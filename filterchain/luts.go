package filterchain

import (
	"github.com/gogpu/gputypes"
	wgpu "github.com/gogpu/shaderchain"
)

// mipBlitWGSL is a fixed fullscreen-triangle downsample shader used
// only to generate LUT mip chains on the GPU. LUT pixel data itself is
// always caller-supplied RGBA8 bytes; this package never decodes an
// image file.
const mipBlitWGSL = `
@group(0) @binding(0) var src_tex: texture_2d<f32>;
@group(0) @binding(1) var src_sampler: sampler;

struct VertexOutput {
  @builtin(position) position: vec4<f32>,
  @location(0) uv: vec2<f32>,
}

@vertex
fn vs_main(@builtin(vertex_index) idx: u32) -> VertexOutput {
  var positions = array<vec2<f32>, 3>(
    vec2<f32>(-1.0, -1.0),
    vec2<f32>(3.0, -1.0),
    vec2<f32>(-1.0, 3.0),
  );
  var out: VertexOutput;
  let p = positions[idx];
  out.position = vec4<f32>(p, 0.0, 1.0);
  out.uv = (p + vec2<f32>(1.0, 1.0)) * 0.5;
  return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
  return textureSample(src_tex, src_sampler, in.uv);
}
`

// MipGenerator draws a box-filtered downsample of mip level N-1 into
// level N, one render pass per level, reusing a single fixed pipeline
// across every texture it is asked to mip; DESIGN.md records why this
// lives here rather than on Texture/CommandEncoder: hal.TextureCopy's
// single shared Size field cannot express a same-texture cross-mip blit.
type MipGenerator struct {
	device  *wgpu.Device
	module  *wgpu.ShaderModule
	layout  *wgpu.BindGroupLayout
	pLayout *wgpu.PipelineLayout
	sampler *wgpu.Sampler

	pipelines map[wgpu.TextureFormat]*wgpu.RenderPipeline
}

// NewMipGenerator builds the shared blit pipeline state. One
// MipGenerator is owned by the chain and reused for every LUT.
func NewMipGenerator(device *wgpu.Device) (*MipGenerator, error) {
	g := &MipGenerator{device: device, pipelines: make(map[wgpu.TextureFormat]*wgpu.RenderPipeline)}

	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{WGSL: mipBlitWGSL})
	if err != nil {
		return nil, &BackendInitError{Stage: "mip blit shader", Err: err}
	}
	g.module = module

	layout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageFragment, Texture: &gputypes.TextureBindingLayout{SampleType: gputypes.TextureSampleTypeFloat, ViewDimension: gputypes.TextureViewDimension2D}},
			{Binding: 1, Visibility: wgpu.ShaderStageFragment, Sampler: &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering}},
		},
	})
	if err != nil {
		g.Release()
		return nil, &BackendInitError{Stage: "mip blit bind group layout", Err: err}
	}
	g.layout = layout

	pLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{BindGroupLayouts: []*wgpu.BindGroupLayout{layout}})
	if err != nil {
		g.Release()
		return nil, &BackendInitError{Stage: "mip blit pipeline layout", Err: err}
	}
	g.pLayout = pLayout

	sampler, err := device.CreateSampler(&wgpu.SamplerDescriptor{
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeNearest,
		LodMaxClamp:  32,
	})
	if err != nil {
		g.Release()
		return nil, &BackendInitError{Stage: "mip blit sampler", Err: err}
	}
	g.sampler = sampler

	return g, nil
}

func (g *MipGenerator) pipelineFor(format wgpu.TextureFormat) (*wgpu.RenderPipeline, error) {
	if p, ok := g.pipelines[format]; ok {
		return p, nil
	}
	p, err := g.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Layout: g.pLayout,
		Vertex: wgpu.VertexState{Module: g.module, EntryPoint: "vs_main"},
		Primitive: wgpu.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
		Fragment: &wgpu.FragmentState{
			Module:     g.module,
			EntryPoint: "fs_main",
			Targets:    []wgpu.ColorTargetState{{Format: format, WriteMask: gputypes.ColorWriteMaskAll}},
		},
	})
	if err != nil {
		return nil, err
	}
	g.pipelines[format] = p
	return p, nil
}

// Generate fills every mip level 1..texture.MipLevelCount()-1 of
// texture from the level above it via one render pass per level. The
// caller must already have uploaded level 0.
func (g *MipGenerator) Generate(encoder *wgpu.CommandEncoder, texture *wgpu.Texture) error {
	levels := texture.MipLevelCount()
	if levels < 2 {
		return nil
	}
	pipeline, err := g.pipelineFor(texture.Format())
	if err != nil {
		return &BackendInitError{Stage: "mip blit pipeline", Err: err}
	}

	for level := uint32(1); level < levels; level++ {
		srcView, err := g.device.CreateTextureView(texture, &wgpu.TextureViewDescriptor{
			BaseMipLevel: level - 1, MipLevelCount: 1, BaseArrayLayer: 0, ArrayLayerCount: 1,
		})
		if err != nil {
			return err
		}
		dstView, err := g.device.CreateTextureView(texture, &wgpu.TextureViewDescriptor{
			BaseMipLevel: level, MipLevelCount: 1, BaseArrayLayer: 0, ArrayLayerCount: 1,
		})
		if err != nil {
			srcView.Release()
			return err
		}

		bindGroup, err := g.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Layout: g.layout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, TextureView: srcView},
				{Binding: 1, Sampler: g.sampler},
			},
		})
		if err != nil {
			srcView.Release()
			dstView.Release()
			return err
		}

		pass, err := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
			ColorAttachments: []wgpu.RenderPassColorAttachment{
				{View: dstView, LoadOp: gputypes.LoadOpClear, StoreOp: gputypes.StoreOpStore},
			},
		})
		if err != nil {
			srcView.Release()
			dstView.Release()
			bindGroup.Release()
			return err
		}
		pass.SetPipeline(pipeline)
		pass.SetBindGroup(0, bindGroup, nil)
		pass.Draw(3, 1, 0, 0)
		pass.End()

		srcView.Release()
		dstView.Release()
		bindGroup.Release()
	}
	return nil
}

// Release destroys the generator's own GPU objects. Per-format
// pipelines are destroyed too.
func (g *MipGenerator) Release() {
	for _, p := range g.pipelines {
		p.Release()
	}
	if g.sampler != nil {
		g.sampler.Release()
	}
	if g.pLayout != nil {
		g.pLayout.Release()
	}
	if g.layout != nil {
		g.layout.Release()
	}
	if g.module != nil {
		g.module.Release()
	}
}

// LUT is a caller-uploaded lookup texture: raw RGBA8 bytes, optionally
// mip-mapped on the GPU after upload.
type LUT struct {
	Texture *wgpu.Texture
	View    *wgpu.TextureView
}

// LoadLUT uploads width x height RGBA8 pixel data as a LUT texture. If
// mipmap is true, a full mip chain is generated on the GPU via gen
// after the base level upload; pixel decoding of any source image
// format is the caller's responsibility.
func LoadLUT(device *wgpu.Device, encoder *wgpu.CommandEncoder, gen *MipGenerator, width, height uint32, rgba8 []byte, mipmap bool) (*LUT, error) {
	levels := uint32(1)
	usage := wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst
	if mipmap {
		levels = mipLevelsFor(width, height)
		usage |= wgpu.TextureUsageRenderAttachment
	}

	tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "lut",
		Size:          wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: levels,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         usage,
	})
	if err != nil {
		return nil, &BackendInitError{Stage: "lut texture", Err: err}
	}

	q := device.Queue()
	if err := q.WriteTexture(tex, width, height, width*4, rgba8); err != nil {
		tex.Release()
		return nil, &BackendInitError{Stage: "lut upload", Err: err}
	}

	if mipmap && gen != nil {
		if err := gen.Generate(encoder, tex); err != nil {
			tex.Release()
			return nil, &BackendInitError{Stage: "lut mip generation", Err: err}
		}
	}

	view, err := device.CreateTextureView(tex, nil)
	if err != nil {
		tex.Release()
		return nil, &BackendInitError{Stage: "lut view", Err: err}
	}

	return &LUT{Texture: tex, View: view}, nil
}

func mipLevelsFor(width, height uint32) uint32 {
	dim := width
	if height > dim {
		dim = height
	}
	levels := uint32(1)
	for dim > 1 {
		dim /= 2
		levels++
	}
	return levels
}

// Release destroys the LUT's texture and view.
func (l *LUT) Release() {
	if l.View != nil {
		l.View.Release()
	}
	if l.Texture != nil {
		l.Texture.Release()
	}
}
