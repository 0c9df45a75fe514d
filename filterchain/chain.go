package filterchain

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/gogpu/gputypes"
	wgpu "github.com/gogpu/shaderchain"
	"github.com/gogpu/shaderchain/preprocess"
	"github.com/gogpu/shaderchain/preset"
	reflectpkg "github.com/gogpu/shaderchain/reflect"
)

// Rect is a caller-supplied viewport or sub-rect, in pixels.
type Rect struct {
	X, Y, Width, Height uint32
}

// LUTSource is a caller-decoded LUT image: raw RGBA8 bytes at Width x
// Height. This package never decodes an image file itself.
type LUTSource struct {
	Width, Height uint32
	Pixels        []byte
}

// LoadOptions configures LoadFromPreset.
type LoadOptions struct {
	// OutputFormat is the color format of the surface the chain will
	// eventually draw its last pass into. Defaults to RGBA8Unorm.
	OutputFormat wgpu.TextureFormat
	// LUTData supplies decoded pixels for the preset's texture entries,
	// keyed by TextureConfig.Name. A texture with no entry is skipped.
	LUTData map[string]LUTSource
	// HistorySize, if larger than the depth required by the preset's
	// shaders, forces a deeper history ring.
	HistorySize int
}

// FrameOptions configures one Frame call.
type FrameOptions struct {
	// ClearHistory, when true, rotates in the current frame to every
	// history ring slot instead of just the front, forcing every
	// history slot to the first frame's input.
	ClearHistory bool
	// FrameDirection is +1 or -1 (rewind). Defaults to +1.
	FrameDirection int32
}

// chainTarget is one GPU-owned render target: a texture plus the view
// used both to sample it and to render into it.
type chainTarget struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
	width   uint32
	height  uint32
	format  wgpu.TextureFormat
}

func newChainTarget(device *wgpu.Device, width, height uint32, format wgpu.TextureFormat) (*chainTarget, error) {
	tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "filterchain-target",
		Size:          wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, err
	}
	view, err := device.CreateTextureView(tex, nil)
	if err != nil {
		tex.Release()
		return nil, err
	}
	return &chainTarget{texture: tex, view: view, width: width, height: height, format: format}, nil
}

// reallocate rebuilds the target if its size or format no longer
// matches.
func (t *chainTarget) reallocate(device *wgpu.Device, width, height uint32, format wgpu.TextureFormat) error {
	if t.width == width && t.height == height && t.format == format {
		return nil
	}
	next, err := newChainTarget(device, width, height, format)
	if err != nil {
		return err
	}
	t.release()
	*t = *next
	return nil
}

func (t *chainTarget) release() {
	if t.view != nil {
		t.view.Release()
	}
	if t.texture != nil {
		t.texture.Release()
	}
}

// chainPass is one pass's static (pipeline) and per-frame (output,
// feedback) GPU state.
type chainPass struct {
	config   preset.PassConfig
	source   *preprocess.ShaderSource
	pipeline *CompiledPipeline
	output   *chainTarget
	feedback *chainTarget
}

// FilterChain is a loaded, device-bound shader preset ready to record
// frames: LoadFromPreset/Frame/SetParameter/GetParameter/
// SetPassesEnabled/PassesEnabled form its public contract.
type FilterChain struct {
	device   *wgpu.Device
	samplers *SamplerPalette
	mipGen   *MipGenerator
	params   *RuntimeParameters

	passes  []*chainPass
	history *HistoryRing

	textures []preset.TextureConfig
	luts     map[string]*LUT

	presetParams   map[string]float32
	shaderDefaults map[string]float32

	quadVBO      *wgpu.Buffer
	outputFormat wgpu.TextureFormat
	frameCounter uint64
}

// LoadFromPreset runs the preprocess/reflect/cross-compile pipeline
// over every pass, allocates every GPU object the chain owns, and
// returns a chain ready for Frame.
func LoadFromPreset(device *wgpu.Device, p *preset.ShaderPreset, opts LoadOptions) (*FilterChain, error) {
	if opts.OutputFormat == 0 {
		opts.OutputFormat = wgpu.TextureFormatRGBA8Unorm
	}

	sources := make([]*preprocess.ShaderSource, len(p.Passes))
	for i, pc := range p.Passes {
		src, err := preprocess.Load(pc.Path)
		if err != nil {
			return nil, &BackendInitError{Stage: "preprocess", Err: err}
		}
		sources[i] = src
	}

	passInputs := make([]reflectpkg.PassSemanticsInput, len(p.Passes))
	for i, pc := range p.Passes {
		passInputs[i] = reflectpkg.PassSemanticsInput{Index: pc.Index, Alias: pc.Alias, Parameters: sources[i].Parameters}
	}
	semantics := reflectpkg.BuildSemantics(passInputs, p.Textures)

	samplers, err := NewSamplerPalette(device)
	if err != nil {
		return nil, err
	}

	c := &FilterChain{
		device:         device,
		samplers:       samplers,
		params:         NewRuntimeParameters(),
		textures:       p.Textures,
		luts:           make(map[string]*LUT),
		presetParams:   make(map[string]float32),
		shaderDefaults: make(map[string]float32),
		outputFormat:   opts.OutputFormat,
	}

	for _, param := range p.Parameters {
		c.presetParams[param.Name] = param.Value
	}
	for _, src := range sources {
		for _, sp := range src.Parameters {
			c.shaderDefaults[sp.ID] = sp.Initial
		}
	}

	mipGen, err := NewMipGenerator(device)
	if err != nil {
		c.Release()
		return nil, err
	}
	c.mipGen = mipGen

	reflections := make([]*reflectpkg.ShaderReflection, len(p.Passes))
	for i, pc := range p.Passes {
		passFormat := opts.OutputFormat
		if i != len(p.Passes)-1 {
			passFormat = ResolveFormat(pc, sources[i].Format)
		}

		pipeline, err := CompilePassPipeline(device, sources[i].Vertex, sources[i].Fragment, semantics, passFormat)
		if err != nil {
			c.Release()
			return nil, err
		}
		reflections[i] = pipeline.Reflection

		out, err := newChainTarget(device, 1, 1, passFormat)
		if err != nil {
			c.Release()
			return nil, &BackendInitError{Stage: "pass output", Err: err}
		}
		fb, err := newChainTarget(device, 1, 1, passFormat)
		if err != nil {
			c.Release()
			return nil, &BackendInitError{Stage: "pass feedback", Err: err}
		}

		c.passes = append(c.passes, &chainPass{config: pc, source: sources[i], pipeline: pipeline, output: out, feedback: fb})
	}

	required := reflectpkg.CalculateRequiredHistory(reflections)
	ringSize := required - 1
	if ringSize < 0 {
		ringSize = 0
	}
	if opts.HistorySize > ringSize {
		ringSize = opts.HistorySize
	}
	history, err := NewHistoryRing(device, ringSize, 1, 1, opts.OutputFormat)
	if err != nil {
		c.Release()
		return nil, err
	}
	c.history = history

	for _, tc := range p.Textures {
		data, ok := opts.LUTData[tc.Name]
		if !ok {
			Logger().Warn("no LUT data supplied", "name", tc.Name)
			continue
		}
		encoder, err := device.CreateCommandEncoder(nil)
		if err != nil {
			c.Release()
			return nil, &BackendInitError{Stage: "lut encoder", Err: err}
		}
		lut, err := LoadLUT(device, encoder, mipGen, data.Width, data.Height, data.Pixels, tc.Mipmap)
		if err != nil {
			c.Release()
			return nil, err
		}
		cmd, err := encoder.Finish()
		if err != nil {
			lut.Release()
			c.Release()
			return nil, &BackendInitError{Stage: "lut upload", Err: err}
		}
		if err := device.Queue().Submit(cmd); err != nil {
			lut.Release()
			c.Release()
			return nil, &BackendInitError{Stage: "lut upload", Err: err}
		}
		c.luts[tc.Name] = lut
	}

	quad, err := buildQuad(device)
	if err != nil {
		c.Release()
		return nil, err
	}
	c.quadVBO = quad

	c.params.SetPassesEnabledCount(len(c.passes))

	return c, nil
}

// buildQuad uploads the fixed draw quad every pass shares: four
// interleaved (position, texcoord) vertices, both vec2, forming a
// triangle strip over [0,1]^2.
func buildQuad(device *wgpu.Device) (*wgpu.Buffer, error) {
	verts := []float32{
		0, 0, 0, 0,
		1, 0, 1, 0,
		0, 1, 0, 1,
		1, 1, 1, 1,
	}
	data := make([]byte, len(verts)*4)
	for i, v := range verts {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}
	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "filterchain-quad",
		Size:  uint64(len(data)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, &BackendInitError{Stage: "quad buffer", Err: err}
	}
	if err := device.Queue().WriteBuffer(buf, 0, data); err != nil {
		buf.Release()
		return nil, &BackendInitError{Stage: "quad upload", Err: err}
	}
	return buf, nil
}

// SetParameter overrides a named parameter at runtime. name must match
// a parameter declared by one of the preset's passes or the preset
// itself.
func (c *FilterChain) SetParameter(name string, value float32) error {
	if _, ok := c.shaderDefaults[name]; !ok {
		if _, ok := c.presetParams[name]; !ok {
			return &UnknownParameterError{Name: name}
		}
	}
	c.params.Set(name, value)
	return nil
}

// GetParameter returns the effective value of name: runtime override,
// then preset override, then the shader's own declared default (spec
// §4.6, parameter resolution order).
func (c *FilterChain) GetParameter(name string) (float32, bool) {
	if v, ok := c.params.Get(name); ok {
		return v, true
	}
	if v, ok := c.presetParams[name]; ok {
		return v, true
	}
	if v, ok := c.shaderDefaults[name]; ok {
		return v, true
	}
	return 0, false
}

// SetPassesEnabled sets how many passes, counted from the first,
// participate in Frame.
func (c *FilterChain) SetPassesEnabled(n int) {
	c.params.SetPassesEnabledCount(n)
}

// PassesEnabled reports the current pass count set by SetPassesEnabled.
func (c *FilterChain) PassesEnabled() int {
	return c.params.PassesEnabledCount()
}

// Frame records and submits one frame: input is sampled as both
// Original and (for pass 0) Source, output receives the last active
// pass's draw, viewport sizes FinalViewportSize and the last pass's
// target rect.
func (c *FilterChain) Frame(input *wgpu.Texture, output *wgpu.TextureView, viewport Rect, count uint64, opts FrameOptions) error {
	direction := opts.FrameDirection
	if direction == 0 {
		direction = 1
	}

	active := len(c.passes)
	if n := c.params.PassesEnabledCount(); n < active {
		active = n
	}
	if active == 0 {
		return nil
	}

	inputWidth, inputHeight := input.Width(), input.Height()
	inputView, err := c.device.CreateTextureView(input, nil)
	if err != nil {
		return &FrameRecordError{Pass: -1, Err: err}
	}
	defer inputView.Release()

	encoder, err := c.device.CreateCommandEncoder(nil)
	if err != nil {
		return &FrameRecordError{Pass: -1, Err: err}
	}

	if opts.ClearHistory && c.history.Len() > 0 {
		if err := c.history.Reallocate(inputWidth, inputHeight, c.history.format); err != nil {
			return &FrameRecordError{Pass: -1, Err: err}
		}
		for i := 0; i < c.history.Len(); i++ {
			if err := c.history.Rotate(encoder, input); err != nil {
				return &FrameRecordError{Pass: -1, Err: err}
			}
		}
	}

	sourceWidth, sourceHeight := inputWidth, inputHeight
	sourceView := inputView

	for i := 0; i < active; i++ {
		pass := c.passes[i]
		targetW, targetH := ResolveScale2D(pass.config.Scale, sourceWidth, sourceHeight, viewport.Width, viewport.Height)
		isLast := i == active-1
		if isLast {
			targetW, targetH = viewport.Width, viewport.Height
		}

		if err := pass.output.reallocate(c.device, targetW, targetH, pass.output.format); err != nil {
			return &FrameRecordError{Pass: i, Err: err}
		}
		if err := pass.feedback.reallocate(c.device, targetW, targetH, pass.feedback.format); err != nil {
			return &FrameRecordError{Pass: i, Err: err}
		}

		frameCount := ResolveFrameCount(count, pass.config.FrameCountMod)
		ctx := FrameContext{
			MVP:               CanonicalMVP,
			OutputSize:        TextureSizeOf(targetW, targetH),
			FinalViewportSize: TextureSizeOf(viewport.Width, viewport.Height),
			FrameCount:        frameCount,
			FrameDirection:    direction,
		}

		textureSizes := map[reflectpkg.SemanticIndex][4]float32{
			{Semantic: reflectpkg.TextureOriginal}: TextureSizeOf(inputWidth, inputHeight),
			{Semantic: reflectpkg.TextureSource}:    TextureSizeOf(sourceWidth, sourceHeight),
		}
		for k := 0; k < c.history.Len()+1; k++ {
			if k == 0 {
				textureSizes[reflectpkg.SemanticIndex{Semantic: reflectpkg.TextureOriginalHistory, Index: 0}] = TextureSizeOf(inputWidth, inputHeight)
				continue
			}
			if img, ok := c.history.At(k - 1); ok {
				textureSizes[reflectpkg.SemanticIndex{Semantic: reflectpkg.TextureOriginalHistory, Index: k}] = TextureSizeOf(inputWidth, inputHeight)
				_ = img
			}
		}
		for k, p := range c.passes {
			textureSizes[reflectpkg.SemanticIndex{Semantic: reflectpkg.TexturePassOutput, Index: k}] = TextureSizeOf(p.output.width, p.output.height)
			textureSizes[reflectpkg.SemanticIndex{Semantic: reflectpkg.TexturePassFeedback, Index: k}] = TextureSizeOf(p.feedback.width, p.feedback.height)
		}
		for idx, tc := range c.textures {
			if lut, ok := c.luts[tc.Name]; ok {
				textureSizes[reflectpkg.SemanticIndex{Semantic: reflectpkg.TextureUser, Index: idx}] = TextureSizeOf(lut.Texture.Width(), lut.Texture.Height())
			}
		}

		lookup := c.parameterLookup()
		ubo, push := BuildUniformBuffers(pass.pipeline.Reflection, ctx, textureSizes, lookup)

		uboBuf := pass.pipeline.NextUBO()
		if len(ubo) > 0 {
			if err := c.device.Queue().WriteBuffer(uboBuf, 0, ubo); err != nil {
				return &FrameRecordError{Pass: i, Err: err}
			}
		}
		if pass.pipeline.pushBuf != nil && len(push) > 0 {
			if err := c.device.Queue().WriteBuffer(pass.pipeline.pushBuf, 0, push); err != nil {
				return &FrameRecordError{Pass: i, Err: err}
			}
		}

		uboEntries := []wgpu.BindGroupEntry{{Binding: 0, Buffer: uboBuf, Size: uint64(len(ubo))}}
		if pass.pipeline.pushBuf != nil {
			uboEntries = append(uboEntries, wgpu.BindGroupEntry{Binding: 1, Buffer: pass.pipeline.pushBuf, Size: uint64(len(push))})
		}
		uboGroup, err := c.device.CreateBindGroup(&wgpu.BindGroupDescriptor{Layout: pass.pipeline.uboLayout, Entries: uboEntries})
		if err != nil {
			return &FrameRecordError{Pass: i, Err: err}
		}

		samplerEntries, err := c.bindTextures(pass, i, inputView, sourceView)
		if err != nil {
			uboGroup.Release()
			return &FrameRecordError{Pass: i, Err: err}
		}
		samplerGroup, err := c.device.CreateBindGroup(&wgpu.BindGroupDescriptor{Layout: pass.pipeline.samplerLayout, Entries: samplerEntries})
		if err != nil {
			uboGroup.Release()
			return &FrameRecordError{Pass: i, Err: err}
		}

		renderTarget := pass.output.view
		if isLast {
			renderTarget = output
		}

		rp, err := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
			ColorAttachments: []wgpu.RenderPassColorAttachment{
				{View: renderTarget, LoadOp: gputypes.LoadOpClear, StoreOp: gputypes.StoreOpStore, ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 0}},
			},
		})
		if err != nil {
			uboGroup.Release()
			samplerGroup.Release()
			return &FrameRecordError{Pass: i, Err: err}
		}

		vx, vy, vw, vh := float32(0), float32(0), float32(targetW), float32(targetH)
		if isLast {
			vx, vy, vw, vh = float32(viewport.X), float32(viewport.Y), float32(viewport.Width), float32(viewport.Height)
		}
		rp.SetViewport(vx, vy, vw, vh, 0, 1)
		rp.SetPipeline(pass.pipeline.pipeline)
		rp.SetBindGroup(0, uboGroup, nil)
		rp.SetBindGroup(1, samplerGroup, nil)
		rp.SetVertexBuffer(0, c.quadVBO, 0)
		rp.Draw(4, 1, 0, 0)
		if err := rp.End(); err != nil {
			uboGroup.Release()
			samplerGroup.Release()
			return &FrameRecordError{Pass: i, Err: err}
		}
		uboGroup.Release()
		samplerGroup.Release()

		sourceView = pass.output.view
		sourceWidth, sourceHeight = targetW, targetH
	}

	cmd, err := encoder.Finish()
	if err != nil {
		return &FrameRecordError{Pass: -1, Err: err}
	}
	if err := c.device.Queue().Submit(cmd); err != nil {
		return &FrameRecordError{Pass: -1, Err: err}
	}

	if c.history.Len() > 0 {
		rotateEncoder, err := c.device.CreateCommandEncoder(nil)
		if err != nil {
			return &FrameRecordError{Pass: -1, Err: err}
		}
		if err := c.history.Reallocate(inputWidth, inputHeight, c.history.format); err != nil {
			return &FrameRecordError{Pass: -1, Err: err}
		}
		if err := c.history.Rotate(rotateEncoder, input); err != nil {
			return &FrameRecordError{Pass: -1, Err: err}
		}
		rotateCmd, err := rotateEncoder.Finish()
		if err != nil {
			return &FrameRecordError{Pass: -1, Err: err}
		}
		if err := c.device.Queue().Submit(rotateCmd); err != nil {
			return &FrameRecordError{Pass: -1, Err: err}
		}
	}

	for i := 0; i < active; i++ {
		c.passes[i].output, c.passes[i].feedback = c.passes[i].feedback, c.passes[i].output
	}

	c.frameCounter++
	return nil
}

func (c *FilterChain) parameterLookup() ParameterLookup {
	return func(name string) float32 {
		if v, ok := c.GetParameter(name); ok {
			return v
		}
		return 0
	}
}

// bindTextures resolves every texture semantic a pass reflects against
// to an actual bound view, keyed by (wrap, filter, mip_filter) from the
// producing pass's own config.
func (c *FilterChain) bindTextures(pass *chainPass, index int, input *wgpu.TextureView, source *wgpu.TextureView) ([]wgpu.BindGroupEntry, error) {
	var entries []wgpu.BindGroupEntry

	for idx := range pass.pipeline.Reflection.Meta.TextureMeta {
		bindingIdx := textureSlot(pass.pipeline.Reflection, idx)
		binding := uint32(reflectpkg.SamplerBindingBase) + uint32(bindingIdx)*2

		var view *wgpu.TextureView
		var key SamplerKey

		switch idx.Semantic {
		case reflectpkg.TextureOriginal:
			view = input
			key = samplerKeyForPass(c.passes[0].config)
		case reflectpkg.TextureSource:
			view = source
			srcPass := 0
			if index > 0 {
				srcPass = index - 1
			}
			key = samplerKeyForPass(c.passes[srcPass].config)
		case reflectpkg.TextureOriginalHistory:
			if idx.Index == 0 {
				view = input
			} else if img, ok := c.history.At(idx.Index - 1); ok {
				hv, err := c.device.CreateTextureView(img, nil)
				if err != nil {
					return nil, err
				}
				defer hv.Release()
				view = hv
			}
			key = samplerKeyForPass(c.passes[0].config)
		case reflectpkg.TexturePassOutput:
			if idx.Index < len(c.passes) {
				view = c.passes[idx.Index].output.view
				key = samplerKeyForPass(c.passes[idx.Index].config)
			}
		case reflectpkg.TexturePassFeedback:
			if idx.Index < len(c.passes) {
				view = c.passes[idx.Index].feedback.view
				key = samplerKeyForPass(c.passes[idx.Index].config)
			}
		case reflectpkg.TextureUser:
			if idx.Index < len(c.textures) {
				tc := c.textures[idx.Index]
				if lut, ok := c.luts[tc.Name]; ok {
					view = lut.View
				}
				key = SamplerKey{Wrap: tc.WrapMode, Filter: tc.Filter, MipmapFilter: tc.Filter}
			}
		}

		if view == nil {
			continue
		}

		sampler := c.samplers.Get(key.Wrap, key.Filter, key.MipmapFilter)
		entries = append(entries,
			wgpu.BindGroupEntry{Binding: binding, TextureView: view},
			wgpu.BindGroupEntry{Binding: binding + 1, Sampler: sampler},
		)
	}

	return entries, nil
}

func samplerKeyForPass(pc preset.PassConfig) SamplerKey {
	return SamplerKey{Wrap: pc.WrapMode, Filter: pc.Filter, MipmapFilter: pc.Filter}
}

// textureSlot assigns a stable ordinal to each texture semantic a pass
// reflects against: its rank, by ascending original GLSL binding
// number, among every sampler the pass declares. writeSamplers (synth.go)
// renumbers samplers in shader declaration order starting at
// SamplerBindingBase, which for a well-formed slang pass (sequential
// `layout(binding = N)` sampler declarations) is the same order as
// ascending binding number.
func textureSlot(refl *reflectpkg.ShaderReflection, target reflectpkg.SemanticIndex) int {
	var bindings []uint32
	for _, b := range refl.Meta.TextureMeta {
		bindings = append(bindings, b.Binding)
	}
	sort.Slice(bindings, func(a, b int) bool { return bindings[a] < bindings[b] })

	want := refl.Meta.TextureMeta[target].Binding
	for i, b := range bindings {
		if b == want {
			return i
		}
	}
	return 0
}

// Release destroys every GPU object the chain owns.
func (c *FilterChain) Release() {
	for _, lut := range c.luts {
		lut.Release()
	}
	if c.history != nil {
		c.history.Release()
	}
	for _, pass := range c.passes {
		pass.pipeline.Release()
		pass.output.release()
		pass.feedback.release()
	}
	if c.mipGen != nil {
		c.mipGen.Release()
	}
	if c.samplers != nil {
		c.samplers.Release()
	}
	if c.quadVBO != nil {
		c.quadVBO.Release()
	}
}
